// Package events provides the match journal: an append-only log of everything
// that changed a score, a seat or the match state.
package events

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/MRamiBalles/CookOff/server/internal/platform/metrics"
)

// EventType defines the category of a journal event.
type EventType string

const (
	EventTypeMatchStarted    EventType = "MATCH_STARTED"
	EventTypeMatchPaused     EventType = "MATCH_PAUSED"
	EventTypeMatchResumed    EventType = "MATCH_RESUMED"
	EventTypeMatchEnded      EventType = "MATCH_ENDED"
	EventTypeMatchReset      EventType = "MATCH_RESET"
	EventTypePointsAwarded   EventType = "POINTS_AWARDED"
	EventTypeTimeAdded       EventType = "TIME_ADDED"
	EventTypeBoostGranted    EventType = "BOOST_GRANTED"
	EventTypeCustomerSeated  EventType = "CUSTOMER_SEATED"
	EventTypeCustomerServed  EventType = "CUSTOMER_SERVED"
	EventTypeCustomerAngered EventType = "CUSTOMER_ANGERED"
	EventTypeCustomerExpired EventType = "CUSTOMER_EXPIRED"
	EventTypeItemTrashed     EventType = "ITEM_TRASHED"
	EventTypePickupSpawned   EventType = "PICKUP_SPAWNED"
	EventTypePickupCollected EventType = "PICKUP_COLLECTED"
)

// ActorSystem is the actor ID for events no cook caused.
const ActorSystem = "SYSTEM_KITCHEN"

// GameEvent represents an immutable record of something that happened in a match.
type GameEvent struct {
	ID        string      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	Type      EventType   `json:"type"`
	MatchID   string      `json:"match_id"`
	ActorID   string      `json:"actor_id"`  // Who performed the action
	TargetID  string      `json:"target_id"` // Who or what was affected (optional)
	Payload   interface{} `json:"payload"`   // Event-specific data
}

// EventPersister defines how an event is durably stored or forwarded.
type EventPersister interface {
	Append(event GameEvent) error
}

// MultiPersister fans an event out to several persisters.
type MultiPersister []EventPersister

// Append forwards to every persister and joins their errors.
func (m MultiPersister) Append(event GameEvent) error {
	var errs []error
	for _, p := range m {
		if err := p.Append(event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// EventLog is the in-memory append-only journal, optionally written through to a persister.
type EventLog struct {
	mu        sync.RWMutex
	events    []GameEvent
	persister EventPersister
	pending   sync.WaitGroup
}

// NewEventLog creates a new event log with an optional persister.
func NewEventLog(persister EventPersister) *EventLog {
	return &EventLog{
		events:    make([]GameEvent, 0),
		persister: persister,
	}
}

// Append adds a new event to the log, filling ID and Timestamp when unset.
func (el *EventLog) Append(event GameEvent) GameEvent {
	if event.ID == "" {
		event.ID = GenerateEventID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	el.mu.Lock()
	el.events = append(el.events, event)
	el.mu.Unlock()

	if el.persister != nil {
		// Write-through happens off the tick loop.
		el.pending.Add(1)
		go func(e GameEvent) {
			defer el.pending.Done()
			metrics.Get().RecordEventWrite(el.persister.Append(e))
		}(event)
	}
	return event
}

// Flush blocks until every pending write-through has finished.
func (el *EventLog) Flush() {
	el.pending.Wait()
}

// Len returns the number of events recorded so far.
func (el *EventLog) Len() int {
	el.mu.RLock()
	defer el.mu.RUnlock()
	return len(el.events)
}

// Since returns the events appended after the first n.
func (el *EventLog) Since(n int) []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()
	if n < 0 {
		n = 0
	}
	if n >= len(el.events) {
		return nil
	}
	return slices.Clone(el.events[n:])
}

// GetByMatch returns all events of one match.
func (el *EventLog) GetByMatch(matchID string) []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []GameEvent
	for _, e := range el.events {
		if e.MatchID == matchID {
			result = append(result, e)
		}
	}
	return result
}

// Replay returns the full history of events.
func (el *EventLog) Replay() []GameEvent {
	return el.Since(0)
}

// GenerateEventID creates a unique, time-sortable event identifier.
func GenerateEventID() string {
	return ulid.Make().String()
}
