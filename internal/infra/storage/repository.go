// Package storage provides the persistence layer for the kitchen server.
// This package implements the repository pattern to keep the domain pure.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MRamiBalles/CookOff/server/internal/events"
)

// GameEvent mirrors the journal event structure for persistence.
// The domain package should NOT import this; use interfaces instead.
type GameEvent struct {
	ID        string                 `json:"id" db:"id"`
	MatchID   string                 `json:"match_id" db:"match_id"`
	Timestamp time.Time              `json:"timestamp" db:"timestamp"`
	EventType string                 `json:"event_type" db:"event_type"`
	ActorID   string                 `json:"actor_id" db:"actor_id"`
	TargetID  string                 `json:"target_id" db:"target_id"`
	Payload   map[string]interface{} `json:"payload" db:"payload"`
}

// EventRepository defines the interface for journal persistence.
type EventRepository interface {
	// Append adds a new event to the immutable ledger.
	Append(ctx context.Context, event GameEvent) error

	// GetByMatchID retrieves all events of a match in journal order.
	GetByMatchID(ctx context.Context, matchID string) ([]GameEvent, error)

	// GetByActorID retrieves all events a cook (or the system) caused in a match.
	GetByActorID(ctx context.Context, matchID, actorID string) ([]GameEvent, error)

	// GetByEventType retrieves all events of a specific type in a match.
	GetByEventType(ctx context.Context, matchID string, eventType string) ([]GameEvent, error)

	// ListMatches returns every match ID with at least one event, oldest first.
	ListMatches(ctx context.Context) ([]string, error)
}

// FromJournal converts a journal event into its stored form.
// Typed payloads are flattened to a JSON object.
func FromJournal(e events.GameEvent) (GameEvent, error) {
	stored := GameEvent{
		ID:        e.ID,
		MatchID:   e.MatchID,
		Timestamp: e.Timestamp,
		EventType: string(e.Type),
		ActorID:   e.ActorID,
		TargetID:  e.TargetID,
	}
	if e.Payload == nil {
		return stored, nil
	}
	raw, err := json.Marshal(e.Payload)
	if err != nil {
		return stored, fmt.Errorf("failed to marshal payload: %w", err)
	}
	if err := json.Unmarshal(raw, &stored.Payload); err != nil {
		return stored, fmt.Errorf("payload of %s is not an object: %w", e.Type, err)
	}
	return stored, nil
}

// JournalWriter adapts an EventRepository to events.EventPersister.
type JournalWriter struct {
	repo    EventRepository
	timeout time.Duration
}

// NewJournalWriter wraps repo. Each write gets its own timeout.
func NewJournalWriter(repo EventRepository, timeout time.Duration) *JournalWriter {
	return &JournalWriter{repo: repo, timeout: timeout}
}

// Append implements events.EventPersister.
func (w *JournalWriter) Append(e events.GameEvent) error {
	stored, err := FromJournal(e)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	return w.repo.Append(ctx, stored)
}
