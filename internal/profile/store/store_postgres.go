package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"slated/internal/profile/models"
	"slated/pkg/domain"
	"slated/pkg/platform/sentinel"
)

// PostgresStore persists profiles in the profiles table. Case-insensitive
// name uniqueness is enforced by a unique index on LOWER(name).
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) CreateIfNameAvailable(ctx context.Context, p *models.Profile) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (id, name, timezone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		p.ID.String(), p.Name, p.Timezone.String(), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.ProfileID) (*models.Profile, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, timezone, created_at, updated_at
		FROM profiles WHERE id = $1`, id.String())
	return scanProfile(row)
}

func (s *PostgresStore) FindByName(ctx context.Context, name string) (*models.Profile, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, timezone, created_at, updated_at
		FROM profiles WHERE LOWER(name) = LOWER(TRIM($1))`, name)
	return scanProfile(row)
}

func (s *PostgresStore) List(ctx context.Context, nameFilter string) ([]*models.Profile, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, timezone, created_at, updated_at
		FROM profiles
		WHERE $1 = '' OR name ILIKE '%' || $1 || '%'
		ORDER BY created_at DESC, name ASC`, nameFilter)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var out []*models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PostgresStore) UpdateTimezone(ctx context.Context, id domain.ProfileID, tz domain.Timezone, now time.Time) (*models.Profile, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE profiles SET timezone = $2, updated_at = $3
		WHERE id = $1
		RETURNING id, name, timezone, created_at, updated_at`,
		id.String(), tz.String(), now)
	return scanProfile(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*models.Profile, error) {
	var (
		p     models.Profile
		rawID string
		rawTZ string
	)
	err := row.Scan(&rawID, &p.Name, &rawTZ, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan profile: %w", err)
	}
	id, err := domain.ParseProfileID(rawID)
	if err != nil {
		return nil, fmt.Errorf("stored profile id: %w", err)
	}
	p.ID = id
	p.Timezone = domain.Timezone(rawTZ)
	return &p, nil
}
