package network

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MRamiBalles/CookOff/server/internal/domain/player"
	"github.com/MRamiBalles/CookOff/server/internal/engine"
	"github.com/MRamiBalles/CookOff/server/internal/platform/metrics"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer.
	maxMessageSize = 512
	// Time allowed for the kitchen loop to accept and run one action.
	actionTimeout = 2 * time.Second
)

// Action types accepted from the input adapter.
const (
	ActionMove     = "MOVE"
	ActionInteract = "INTERACT"
	ActionPause    = "PAUSE"
	ActionStart    = "START"
	ActionRestart  = "RESTART"
)

var errUnknownAction = errors.New("unknown action")

// PlayerAction represents an incoming command from a controller.
type PlayerAction struct {
	Type      string     `json:"type"`                 // MOVE, INTERACT, PAUSE, START, RESTART
	PlayerID  player.ID  `json:"player_id"`            // Who triggered the action
	StationID string     `json:"station_id,omitempty"` // INTERACT target
	Direction player.Vec `json:"direction"`            // MOVE input
}

// ActionResult acknowledges an action.
type ActionResult struct {
	Type     string      `json:"type"`
	PlayerID player.ID   `json:"player_id"`
	Velocity *player.Vec `json:"velocity,omitempty"`
	Error    string      `json:"error,omitempty"`
}

// Client object to hold connection status. Holds a Hub ref to allow unregister.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	closed bool // guarded by hub.mu
}

// NewClient creates a new WebSocket client and returns it.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, hub.sendBuffer),
	}
}

// Register adds the client to the hub.
func (c *Client) Register() {
	select {
	case c.hub.register <- c:
	case <-c.hub.done:
	}
}

// ReadPump pumps actions from the websocket connection into the kitchen.
func (c *Client) ReadPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				metrics.Get().RecordWSError()
				c.hub.logger.Error("websocket read failed", err)
			}
			break
		}
		metrics.Get().RecordWSMessage(true)

		var action PlayerAction
		if err := json.Unmarshal(message, &action); err != nil {
			c.hub.logger.Warn("failed to parse PlayerAction: " + err.Error())
			c.reply(Message{Type: MsgTypeError, Payload: ActionResult{Error: "malformed action"}})
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		result := c.hub.handlePlayerAction(ctx, action)
		cancel()

		msgType := MsgTypeAck
		if result.Error != "" {
			msgType = MsgTypeError
		}
		c.reply(Message{Type: msgType, Payload: result})
	}
}

// reply queues a message for this client only.
func (c *Client) reply(msg Message) {
	msg.Timestamp = time.Now().UnixMilli()
	data, err := json.Marshal(msg)
	if err != nil {
		c.hub.logger.Error("failed to serialize reply", err)
		return
	}
	c.hub.mu.Lock()
	defer c.hub.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// handlePlayerAction routes one action into the kitchen loop.
func (h *Hub) handlePlayerAction(ctx context.Context, action PlayerAction) ActionResult {
	result := ActionResult{Type: action.Type, PlayerID: action.PlayerID}

	err := h.kitchen.Do(ctx, func(m *engine.Match) error {
		switch action.Type {
		case ActionMove:
			v, err := m.RequestMove(action.PlayerID, action.Direction)
			if err == nil {
				result.Velocity = &v
			}
			return err
		case ActionInteract:
			return m.Interact(action.PlayerID, engine.StationID(action.StationID))
		case ActionPause:
			m.RequestPause()
		case ActionStart:
			m.StartGame()
		case ActionRestart:
			m.RestartGame()
		default:
			return fmt.Errorf("%w: %q", errUnknownAction, action.Type)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, engine.ErrNotPlaying) && !errors.Is(err, engine.ErrPlayerLocked) {
			h.logger.Warn("action " + action.Type + " from " + string(action.PlayerID) + " rejected: " + err.Error())
		}
		result.Error = err.Error()
	}
	return result
}

// WritePump pumps messages from the hub to the websocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				metrics.Get().RecordWSError()
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
