package network

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/MRamiBalles/CookOff/server/internal/engine"
	"github.com/MRamiBalles/CookOff/server/internal/events"
	"github.com/MRamiBalles/CookOff/server/internal/platform/logger"
	"github.com/MRamiBalles/CookOff/server/internal/platform/metrics"
)

// MessageType tags every frame sent to clients.
type MessageType string

const (
	MsgTypeSnapshot MessageType = "SNAPSHOT"
	MsgTypeEvent    MessageType = "EVENT"
	MsgTypeAck      MessageType = "ACK"
	MsgTypeError    MessageType = "ERROR"
)

// Message is the envelope for everything the server pushes.
type Message struct {
	Type      MessageType `json:"type"`
	Timestamp int64       `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// Kitchen is the serialized handle on the running match. *engine.Ticker implements it.
type Kitchen interface {
	Do(ctx context.Context, fn func(*engine.Match) error) error
	Snapshot(ctx context.Context) (engine.Snapshot, error)
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.Mutex
	logger     *logger.Logger
	kitchen    Kitchen
	sendBuffer int
}

// NewHub initializes a new WebSocket Hub. sendBuffer sizes each client's outbound queue.
func NewHub(kitchen Kitchen, log *logger.Logger, sendBuffer int) *Hub {
	return &Hub{
		broadcast:  make(chan []byte, sendBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[*Client]bool),
		logger:     log,
		kitchen:    kitchen,
		sendBuffer: sendBuffer,
	}
}

// Run starts the Hub's main loop to handle client connections and broadcasts.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("websocket hub shutting down")
			h.mu.Lock()
			for client := range h.clients {
				h.drop(client)
			}
			h.mu.Unlock()
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			metrics.Get().RecordWSConnection(1)
			h.logger.Info("websocket client connected")
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				h.drop(client)
				h.logger.Info("websocket client disconnected")
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
					metrics.Get().RecordWSMessage(false)
				default:
					// Slow consumer; drop it rather than stall the kitchen.
					h.drop(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// drop closes a client's queue. Callers hold h.mu.
func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	client.closed = true
	close(client.send)
	metrics.Get().RecordWSConnection(-1)
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast queues msg for every client. It never blocks; a full queue drops the frame.
func (h *Hub) Broadcast(msg Message) {
	if msg.Timestamp == 0 {
		msg.Timestamp = time.Now().UnixMilli()
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("failed to serialize broadcast", err)
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		h.logger.Debug("broadcast queue full, dropping " + string(msg.Type))
	}
}

// BroadcastSnapshot pushes a render frame. Used as the ticker's frame hook.
func (h *Hub) BroadcastSnapshot(s engine.Snapshot) {
	h.Broadcast(Message{Type: MsgTypeSnapshot, Payload: s})
}

// BroadcastEvent pushes a journal event.
func (h *Hub) BroadcastEvent(event events.GameEvent) {
	h.Broadcast(Message{Type: MsgTypeEvent, Timestamp: event.Timestamp.UnixMilli(), Payload: event})
}

// StartEventPoller spawns a goroutine that polls the EventLog and pushes new events to the Hub.
// This lets the Hub run independently from the kitchen loop while picking up the same events.
func (h *Hub) StartEventPoller(ctx context.Context, eventLog *events.EventLog, interval time.Duration) {
	go func() {
		pollInterval := time.NewTicker(interval)
		defer pollInterval.Stop()

		lastProcessedEvent := eventLog.Len()

		for {
			select {
			case <-ctx.Done():
				return
			case <-pollInterval.C:
				newEvents := eventLog.Since(lastProcessedEvent)
				for _, event := range newEvents {
					h.BroadcastEvent(event)
				}
				lastProcessedEvent += len(newEvents)
			}
		}
	}()
}
