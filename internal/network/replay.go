// Package network - replay.go
// Journal replay endpoints: JSON export of a match's event history and the
// per-cook recap rebuilt from the stored journal.
package network

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MRamiBalles/CookOff/server/internal/events"
	"github.com/MRamiBalles/CookOff/server/internal/infra/storage"
	"github.com/MRamiBalles/CookOff/server/internal/platform/logger"
)

// ReplayHandler provides the journal replay API.
type ReplayHandler struct {
	eventLog      *events.EventLog
	repo          storage.EventRepository // nil when persistence is disabled
	reconstructor *storage.Reconstructor
	logger        *logger.Logger
}

// NewReplayHandler creates a replay handler. repo may be nil.
func NewReplayHandler(el *events.EventLog, repo storage.EventRepository, log *logger.Logger) *ReplayHandler {
	h := &ReplayHandler{
		eventLog: el,
		repo:     repo,
		logger:   log,
	}
	if repo != nil {
		h.reconstructor = storage.NewReconstructor(repo)
	}
	return h
}

// ReplayResponse is the API response for a journal replay.
type ReplayResponse struct {
	MatchID     string             `json:"match_id,omitempty"`
	TotalEvents int                `json:"total_events"`
	FilteredBy  string             `json:"filtered_by,omitempty"`
	GeneratedAt string             `json:"generated_at"`
	Events      []events.GameEvent `json:"events"`
}

// HandleReplay returns the in-memory journal.
// GET /api/events?match_id=XXX&type=CUSTOMER_SERVED&since=N
func (rh *ReplayHandler) HandleReplay(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	matchID := q.Get("match_id")
	eventType := q.Get("type")

	since := 0
	if s := q.Get("since"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			jsonError(w, "since must be a non-negative integer", http.StatusBadRequest)
			return
		}
		since = n
	}

	filtered := make([]events.GameEvent, 0)
	for _, e := range rh.eventLog.Since(since) {
		if matchID != "" && e.MatchID != matchID {
			continue
		}
		if eventType != "" && string(e.Type) != eventType {
			continue
		}
		filtered = append(filtered, e)
	}

	filterDesc := ""
	if eventType != "" {
		filterDesc = "type=" + eventType
	}

	rh.logger.Event("JOURNAL_REPLAY", "API", "match:"+matchID+" events:"+strconv.Itoa(len(filtered)))
	jsonSuccess(w, ReplayResponse{
		MatchID:     matchID,
		TotalEvents: len(filtered),
		FilteredBy:  filterDesc,
		GeneratedAt: time.Now().Format(time.RFC3339),
		Events:      filtered,
	})
}

// HandleEventDetail returns one event.
// GET /api/events/{eventID}
func (rh *ReplayHandler) HandleEventDetail(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")
	for _, e := range rh.eventLog.Replay() {
		if e.ID == eventID {
			jsonSuccess(w, e)
			return
		}
	}
	jsonError(w, "event not found", http.StatusNotFound)
}

// HandleStats returns per-type event counts.
// GET /api/events/stats?match_id=XXX
func (rh *ReplayHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	matchID := r.URL.Query().Get("match_id")
	stats := map[string]int{}
	total := 0
	for _, e := range rh.eventLog.Replay() {
		if matchID != "" && e.MatchID != matchID {
			continue
		}
		stats[string(e.Type)]++
		total++
	}
	jsonSuccess(w, map[string]interface{}{
		"generated_at": time.Now().Format(time.RFC3339),
		"total_events": total,
		"by_type":      stats,
	})
}

// HandleMatches lists stored matches.
// GET /api/matches
func (rh *ReplayHandler) HandleMatches(w http.ResponseWriter, r *http.Request) {
	if rh.repo == nil {
		jsonError(w, "journal storage disabled", http.StatusServiceUnavailable)
		return
	}
	ids, err := rh.repo.ListMatches(r.Context())
	if err != nil {
		rh.logger.Error("failed to list matches", err)
		jsonError(w, "failed to list matches", http.StatusInternalServerError)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	jsonSuccess(w, map[string]interface{}{"matches": ids})
}

// HandleRecap rebuilds a match's scores and one cook's timeline from storage.
// GET /api/matches/{matchID}/recap?player_id=P1
func (rh *ReplayHandler) HandleRecap(w http.ResponseWriter, r *http.Request) {
	if rh.reconstructor == nil {
		jsonError(w, "journal storage disabled", http.StatusServiceUnavailable)
		return
	}
	matchID := chi.URLParam(r, "matchID")
	scores, err := rh.reconstructor.RebuildScores(r.Context(), matchID)
	if err != nil {
		rh.logger.Error("failed to rebuild scores", err)
		jsonError(w, "failed to rebuild scores", http.StatusInternalServerError)
		return
	}
	if len(scores) == 0 {
		jsonError(w, "match not found", http.StatusNotFound)
		return
	}

	resp := map[string]interface{}{"match_id": matchID, "scores": scores}
	if playerID := r.URL.Query().Get("player_id"); playerID != "" {
		recap, err := rh.reconstructor.GenerateRecap(r.Context(), matchID, playerID)
		if err != nil {
			rh.logger.Error("failed to generate recap", err)
			jsonError(w, "failed to generate recap", http.StatusInternalServerError)
			return
		}
		resp["timeline"] = recap
	}
	jsonSuccess(w, resp)
}

// HandleMatchEvents returns a match's stored journal, optionally narrowed by
// event type and actor.
// GET /api/matches/{matchID}/events?type=CUSTOMER_SERVED&actor=P1
func (rh *ReplayHandler) HandleMatchEvents(w http.ResponseWriter, r *http.Request) {
	if rh.repo == nil {
		jsonError(w, "journal storage disabled", http.StatusServiceUnavailable)
		return
	}
	matchID := chi.URLParam(r, "matchID")
	eventType := r.URL.Query().Get("type")
	actor := r.URL.Query().Get("actor")

	var stored []storage.GameEvent
	var err error
	switch {
	case eventType != "":
		stored, err = rh.repo.GetByEventType(r.Context(), matchID, eventType)
	case actor != "":
		stored, err = rh.repo.GetByActorID(r.Context(), matchID, actor)
	default:
		stored, err = rh.repo.GetByMatchID(r.Context(), matchID)
	}
	if err != nil {
		rh.logger.Error("failed to load stored events", err)
		jsonError(w, "failed to load events", http.StatusInternalServerError)
		return
	}

	out := make([]storage.GameEvent, 0, len(stored))
	for _, e := range stored {
		if actor != "" && e.ActorID != actor {
			continue
		}
		out = append(out, e)
	}
	jsonSuccess(w, map[string]interface{}{
		"match_id":     matchID,
		"total_events": len(out),
		"events":       out,
	})
}

// RegisterRoutes sets up the journal API routes.
func (rh *ReplayHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/events", func(r chi.Router) {
		r.Get("/", rh.HandleReplay)
		r.Get("/stats", rh.HandleStats)
		r.Get("/{eventID}", rh.HandleEventDetail)
	})
	r.Route("/api/matches", func(r chi.Router) {
		r.Get("/", rh.HandleMatches)
		r.Get("/{matchID}/events", rh.HandleMatchEvents)
		r.Get("/{matchID}/recap", rh.HandleRecap)
	})
}

// jsonError sends an error response.
func jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// jsonSuccess sends a success response.
func jsonSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(data)
}
