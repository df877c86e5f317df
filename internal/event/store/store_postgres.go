package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"slated/internal/event/models"
	"slated/pkg/domain"
	"slated/pkg/platform/sentinel"
)

// PostgresStore persists events across the events and event_profiles
// tables. Reads expand profile references with a join; a dangling reference
// (profile row gone) comes back unresolved instead of failing the read.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, e *models.Event) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO events (id, timezone, start_at, end_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID.String(), e.Timezone.String(), e.StartAt, e.EndAt, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	for _, ref := range e.Profiles {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO event_profiles (event_id, profile_id) VALUES ($1, $2)`,
			e.ID.String(), ref.ID.String(),
		); err != nil {
			return fmt.Errorf("insert event profile: %w", err)
		}
	}

	return tx.Commit()
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.EventID) (*models.Event, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, timezone, start_at, end_at, created_at, updated_at
		FROM events WHERE id = $1`, id.String())
	e, err := scanEvent(row)
	if err != nil {
		return nil, err
	}
	if err := s.loadRefs(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *PostgresStore) FindAll(ctx context.Context) ([]*models.Event, error) {
	return s.queryEvents(ctx, `
		SELECT id, timezone, start_at, end_at, created_at, updated_at
		FROM events ORDER BY start_at ASC, id ASC`)
}

func (s *PostgresStore) FindByProfile(ctx context.Context, profileID domain.ProfileID) ([]*models.Event, error) {
	return s.queryEvents(ctx, `
		SELECT e.id, e.timezone, e.start_at, e.end_at, e.created_at, e.updated_at
		FROM events e
		JOIN event_profiles ep ON ep.event_id = e.id
		WHERE ep.profile_id = $1
		ORDER BY e.start_at ASC, e.id ASC`, profileID.String())
}

func (s *PostgresStore) Update(ctx context.Context, id domain.EventID, patch models.Patch, now time.Time) (*models.Event, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var tz sql.NullString
	if patch.Timezone != nil {
		tz = sql.NullString{String: patch.Timezone.String(), Valid: true}
	}
	var startAt, endAt sql.NullTime
	if patch.StartAt != nil {
		startAt = sql.NullTime{Time: patch.StartAt.UTC(), Valid: true}
	}
	if patch.EndAt != nil {
		endAt = sql.NullTime{Time: patch.EndAt.UTC(), Valid: true}
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE events SET
			timezone   = COALESCE($2, timezone),
			start_at   = COALESCE($3, start_at),
			end_at     = COALESCE($4, end_at),
			updated_at = $5
		WHERE id = $1`,
		id.String(), tz, startAt, endAt, now,
	)
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, sentinel.ErrNotFound
	}

	if patch.Profiles != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM event_profiles WHERE event_id = $1`, id.String()); err != nil {
			return nil, fmt.Errorf("clear event profiles: %w", err)
		}
		for _, pid := range patch.Profiles {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO event_profiles (event_id, profile_id) VALUES ($1, $2)`,
				id.String(), pid.String(),
			); err != nil {
				return nil, fmt.Errorf("insert event profile: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update: %w", err)
	}
	return s.FindByID(ctx, id)
}

func (s *PostgresStore) queryEvents(ctx context.Context, query string, args ...any) ([]*models.Event, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var out []*models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, e := range out {
		if err := s.loadRefs(ctx, e); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *PostgresStore) loadRefs(ctx context.Context, e *models.Event) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ep.profile_id, p.name, p.timezone
		FROM event_profiles ep
		LEFT JOIN profiles p ON p.id = ep.profile_id
		WHERE ep.event_id = $1
		ORDER BY ep.profile_id`, e.ID.String())
	if err != nil {
		return fmt.Errorf("load event profiles: %w", err)
	}
	defer rows.Close()

	e.Profiles = e.Profiles[:0]
	for rows.Next() {
		var (
			rawID string
			name  sql.NullString
			tz    sql.NullString
		)
		if err := rows.Scan(&rawID, &name, &tz); err != nil {
			return fmt.Errorf("scan event profile: %w", err)
		}
		pid, err := domain.ParseProfileID(rawID)
		if err != nil {
			return fmt.Errorf("stored profile id: %w", err)
		}
		if name.Valid {
			e.Profiles = append(e.Profiles, models.ResolvedRef(pid, name.String, domain.Timezone(tz.String)))
		} else {
			e.Profiles = append(e.Profiles, models.UnresolvedRef(pid))
		}
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*models.Event, error) {
	var (
		e     models.Event
		rawID string
		rawTZ string
	)
	err := row.Scan(&rawID, &rawTZ, &e.StartAt, &e.EndAt, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan event: %w", err)
	}
	id, err := domain.ParseEventID(rawID)
	if err != nil {
		return nil, fmt.Errorf("stored event id: %w", err)
	}
	e.ID = id
	e.Timezone = domain.Timezone(rawTZ)
	e.StartAt = e.StartAt.UTC()
	e.EndAt = e.EndAt.UTC()
	return &e, nil
}
