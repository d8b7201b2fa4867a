package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

const selectEvents = `SELECT id, match_id, timestamp, event_type, actor_id, target_id, payload FROM events`

// SQLiteEventRepository implements EventRepository for SQLite.
type SQLiteEventRepository struct {
	db *sql.DB
}

func NewSQLiteEventRepository(db *sql.DB) *SQLiteEventRepository {
	return &SQLiteEventRepository{db: db}
}

func (r *SQLiteEventRepository) Append(ctx context.Context, event GameEvent) error {
	payloadBytes, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	query := `
		INSERT INTO events (id, match_id, timestamp, event_type, actor_id, target_id, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		event.ID, event.MatchID, event.Timestamp.UTC(), event.EventType, event.ActorID,
		event.TargetID, string(payloadBytes),
	)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

func (r *SQLiteEventRepository) getMany(ctx context.Context, query string, args ...interface{}) ([]GameEvent, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []GameEvent
	for rows.Next() {
		var e GameEvent
		var payloadStr string
		err := rows.Scan(
			&e.ID, &e.MatchID, &e.Timestamp, &e.EventType, &e.ActorID,
			&e.TargetID, &payloadStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		if err := json.Unmarshal([]byte(payloadStr), &e.Payload); err != nil {
			return nil, fmt.Errorf("failed to decode payload of %s: %w", e.ID, err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Event IDs are ULIDs, so ordering by id is journal order.

func (r *SQLiteEventRepository) GetByMatchID(ctx context.Context, matchID string) ([]GameEvent, error) {
	return r.getMany(ctx, selectEvents+` WHERE match_id = ? ORDER BY id ASC`, matchID)
}

func (r *SQLiteEventRepository) GetByActorID(ctx context.Context, matchID, actorID string) ([]GameEvent, error) {
	return r.getMany(ctx, selectEvents+` WHERE match_id = ? AND actor_id = ? ORDER BY id ASC`, matchID, actorID)
}

func (r *SQLiteEventRepository) GetByEventType(ctx context.Context, matchID string, eventType string) ([]GameEvent, error) {
	return r.getMany(ctx, selectEvents+` WHERE match_id = ? AND event_type = ? ORDER BY id ASC`, matchID, eventType)
}

func (r *SQLiteEventRepository) ListMatches(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT match_id FROM events GROUP BY match_id ORDER BY MIN(id) ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
