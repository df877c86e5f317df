package store

import (
	"context"
	"database/sql"
	"fmt"

	"slated/internal/eventlog"
	"slated/pkg/domain"
)

// PostgresStore persists audit entries in the event_logs table. A serial
// column breaks created_at ties so newest-first ordering is stable for
// entries written by the same update.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, entry *eventlog.Entry) error {
	var field, oldValue, newValue sql.NullString
	if entry.Metadata != nil {
		field = sql.NullString{String: string(entry.Metadata.Field), Valid: true}
		oldValue = sql.NullString{String: entry.Metadata.OldValue, Valid: true}
		newValue = sql.NullString{String: entry.Metadata.NewValue, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO event_logs (id, event_id, message, field, old_value, new_value, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		entry.ID.String(), entry.EventID.String(), entry.Message,
		field, oldValue, newValue, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert event log: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByEvent(ctx context.Context, eventID domain.EventID) ([]*eventlog.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, event_id, message, field, old_value, new_value, created_at
		FROM event_logs
		WHERE event_id = $1
		ORDER BY created_at DESC, seq DESC`, eventID.String())
	if err != nil {
		return nil, fmt.Errorf("query event logs: %w", err)
	}
	defer rows.Close()

	var out []*eventlog.Entry
	for rows.Next() {
		var (
			entry             eventlog.Entry
			rawID, rawEventID string
			field, oldV, newV sql.NullString
		)
		if err := rows.Scan(&rawID, &rawEventID, &entry.Message, &field, &oldV, &newV, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event log: %w", err)
		}
		id, err := domain.ParseLogID(rawID)
		if err != nil {
			return nil, fmt.Errorf("stored log id: %w", err)
		}
		eid, err := domain.ParseEventID(rawEventID)
		if err != nil {
			return nil, fmt.Errorf("stored event id: %w", err)
		}
		entry.ID = id
		entry.EventID = eid
		if field.Valid {
			entry.Metadata = &eventlog.Metadata{
				Field:    eventlog.Field(field.String),
				OldValue: oldV.String,
				NewValue: newV.String,
			}
		}
		out = append(out, &entry)
	}
	return out, rows.Err()
}
