// Package network is the kitchen's outer surface: the websocket input and render
// adapters plus the HTTP API.
package network

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/MRamiBalles/CookOff/server/internal/engine"
	"github.com/MRamiBalles/CookOff/server/internal/platform/logger"
	"github.com/MRamiBalles/CookOff/server/internal/platform/metrics"
)

const requestTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Controllers and displays are served from other origins
	},
}

// NewRouter wires every HTTP and websocket route.
func NewRouter(hub *Hub, replay *ReplayHandler, log *logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		ServeWS(hub, w, r, log)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))
		r.Get("/state", hub.handleState)
		r.Get("/leaderboard", hub.handleLeaderboard)
		r.Route("/match", func(r chi.Router) {
			r.Post("/start", hub.handleControl(func(m *engine.Match) { m.StartGame() }))
			r.Post("/restart", hub.handleControl(func(m *engine.Match) { m.RestartGame() }))
			r.Post("/pause", hub.handleControl(func(m *engine.Match) { m.Pause(true) }))
			r.Post("/resume", hub.handleControl(func(m *engine.Match) { m.Pause(false) }))
		})
	})
	replay.RegisterRoutes(r)

	r.Get("/metrics", metrics.Handler())
	r.Get("/metrics/prometheus", metrics.PrometheusHandler())
	return r
}

// ServeWS handles websocket requests from the peer.
func ServeWS(hub *Hub, w http.ResponseWriter, r *http.Request, log *logger.Logger) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		metrics.Get().RecordWSError()
		log.Error("failed to upgrade websocket connection", err)
		return
	}

	client := NewClient(hub, conn)
	client.Register()

	// Allow collection of memory referenced by the caller by doing all work in
	// new goroutines.
	go client.WritePump()
	go client.ReadPump()

	// Give the new display a frame right away instead of waiting for the next broadcast.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if snap, err := hub.kitchen.Snapshot(ctx); err == nil {
			client.reply(Message{Type: MsgTypeSnapshot, Payload: snap})
		}
	}()
}

func (h *Hub) handleState(w http.ResponseWriter, r *http.Request) {
	snap, err := h.kitchen.Snapshot(r.Context())
	if err != nil {
		jsonError(w, "kitchen unavailable", http.StatusServiceUnavailable)
		return
	}
	jsonSuccess(w, snap)
}

func (h *Hub) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	var board []engine.LeaderboardEntry
	err := h.kitchen.Do(r.Context(), func(m *engine.Match) error {
		board = m.Leaderboard()
		return nil
	})
	if err != nil {
		jsonError(w, "kitchen unavailable", http.StatusServiceUnavailable)
		return
	}
	if board == nil {
		board = []engine.LeaderboardEntry{}
	}
	jsonSuccess(w, map[string]interface{}{"leaderboard": board})
}

// handleControl runs a lifecycle transition and answers with the resulting state.
func (h *Hub) handleControl(fn func(*engine.Match)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var state engine.State
		err := h.kitchen.Do(r.Context(), func(m *engine.Match) error {
			fn(m)
			state = m.State()
			return nil
		})
		if err != nil {
			jsonError(w, "kitchen unavailable", http.StatusServiceUnavailable)
			return
		}
		jsonSuccess(w, map[string]interface{}{"state": state})
	}
}
