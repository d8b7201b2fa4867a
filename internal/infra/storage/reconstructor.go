// Package storage - reconstructor.go
// Rebuilds match outcomes from the journal: state = f(events).
package storage

import (
	"context"
	"fmt"

	"github.com/MRamiBalles/CookOff/server/internal/events"
)

// Reconstructor rebuilds per-cook results from the stored journal.
// This is used for:
// 1. The post-match recap screen
// 2. Auditing scores after a crash, since the leaderboard itself is not persisted
type Reconstructor struct {
	eventRepo EventRepository
}

// NewReconstructor creates a new state reconstructor.
func NewReconstructor(eventRepo EventRepository) *Reconstructor {
	return &Reconstructor{eventRepo: eventRepo}
}

// RebuiltScore is one cook's tally replayed from the journal.
type RebuiltScore struct {
	PlayerID string `json:"player_id"`
	Score    int    `json:"score"`
	Served   int    `json:"served"`
	Angered  int    `json:"angered"`
	Trashed  int    `json:"trashed"`
	Pickups  int    `json:"pickups"`
}

// RecapEvent is a simplified event for the recap screen.
type RecapEvent struct {
	Timestamp string `json:"timestamp"`
	EventType string `json:"event_type"`
	Summary   string `json:"summary"` // Human-readable description
	Impact    string `json:"impact"`  // "POSITIVE", "NEGATIVE", "NEUTRAL"
}

// RebuildScores replays a match and returns every cook's tally keyed by player ID.
func (r *Reconstructor) RebuildScores(ctx context.Context, matchID string) (map[string]*RebuiltScore, error) {
	evs, err := r.eventRepo.GetByMatchID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get events for match: %w", err)
	}

	scores := make(map[string]*RebuiltScore)
	tally := func(id string) *RebuiltScore {
		s, ok := scores[id]
		if !ok {
			s = &RebuiltScore{PlayerID: id}
			scores[id] = s
		}
		return s
	}

	for _, e := range evs {
		switch events.EventType(e.EventType) {
		case events.EventTypePointsAwarded:
			id, _ := e.Payload["player_id"].(string)
			if points, ok := e.Payload["points"].(float64); ok && id != "" {
				tally(id).Score += int(points)
			}
		case events.EventTypeCustomerServed:
			tally(e.ActorID).Served++
		case events.EventTypeCustomerAngered:
			tally(e.ActorID).Angered++
		case events.EventTypeItemTrashed:
			tally(e.ActorID).Trashed++
		case events.EventTypePickupCollected:
			tally(e.ActorID).Pickups++
		}
	}
	return scores, nil
}

// GenerateRecap lists what happened to one cook during a match.
func (r *Reconstructor) GenerateRecap(ctx context.Context, matchID, playerID string) ([]RecapEvent, error) {
	allEvents, err := r.eventRepo.GetByMatchID(ctx, matchID)
	if err != nil {
		return nil, err
	}

	var recap []RecapEvent
	for _, e := range allEvents {
		// Only events relevant to this cook, plus match-wide ones
		if e.ActorID != playerID && e.TargetID != playerID && e.ActorID != events.ActorSystem {
			continue
		}
		// Score deltas are folded into the summaries of their causes.
		if events.EventType(e.EventType) == events.EventTypePointsAwarded {
			continue
		}

		recap = append(recap, RecapEvent{
			Timestamp: e.Timestamp.Format("15:04:05"),
			EventType: e.EventType,
			Summary:   r.summarizeEvent(e, playerID),
			Impact:    r.determineImpact(e, playerID),
		})
	}

	return recap, nil
}

// summarizeEvent creates a human-readable summary.
func (r *Reconstructor) summarizeEvent(event GameEvent, observerID string) string {
	switch events.EventType(event.EventType) {
	case events.EventTypeCustomerSeated:
		return fmt.Sprintf("A customer sat at %s.", event.TargetID)
	case events.EventTypeCustomerServed:
		if event.ActorID == observerID {
			return fmt.Sprintf("You served the customer at %s.", event.TargetID)
		}
		return fmt.Sprintf("Your rival served the customer at %s.", event.TargetID)
	case events.EventTypeCustomerAngered:
		return fmt.Sprintf("The customer at %s got the wrong order.", event.TargetID)
	case events.EventTypeCustomerExpired:
		return fmt.Sprintf("The customer at %s gave up waiting.", event.TargetID)
	case events.EventTypeItemTrashed:
		return "You threw food away."
	case events.EventTypePickupSpawned:
		if event.TargetID == observerID {
			return "A reward appeared for you."
		}
		return "A reward appeared for your rival."
	case events.EventTypePickupCollected:
		return "You collected a reward."
	case events.EventTypeMatchEnded:
		return "The match ended."
	default:
		return "Something happened in the kitchen."
	}
}

// determineImpact classifies the event impact.
func (r *Reconstructor) determineImpact(event GameEvent, observerID string) string {
	switch events.EventType(event.EventType) {
	case events.EventTypeCustomerServed, events.EventTypePickupCollected:
		if event.ActorID == observerID {
			return "POSITIVE"
		}
		return "NEUTRAL"
	case events.EventTypeCustomerAngered, events.EventTypeCustomerExpired, events.EventTypeItemTrashed:
		return "NEGATIVE"
	default:
		return "NEUTRAL"
	}
}
