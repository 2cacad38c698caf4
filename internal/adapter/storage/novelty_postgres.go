// internal/adapter/storage/novelty_postgres.go

package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"viralwatch/internal/domain/content"
)

// NoveltyStore implements content.NoveltyStore on Postgres
type NoveltyStore struct {
	db *pgxpool.Pool
}

// NewNoveltyStore creates a new Postgres-backed novelty store
func NewNoveltyStore(db *pgxpool.Pool) *NoveltyStore {
	return &NoveltyStore{
		db: db,
	}
}

// Get returns the entry for a canonical key, or nil if none exists
func (s *NoveltyStore) Get(ctx context.Context, canonicalKey string) (*content.NoveltyEntry, error) {
	query := `
		SELECT canonical_key, last_score, last_seen_at
		FROM novelty_entries
		WHERE canonical_key = $1
	`

	var entry content.NoveltyEntry
	err := s.db.QueryRow(ctx, query, canonicalKey).Scan(
		&entry.CanonicalKey,
		&entry.LastScore,
		&entry.LastSeenAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error querying novelty entry: %w", err)
	}

	return &entry, nil
}

// Upsert creates or replaces the entry for its canonical key
func (s *NoveltyStore) Upsert(ctx context.Context, entry content.NoveltyEntry) error {
	query := `
		INSERT INTO novelty_entries (canonical_key, last_score, last_seen_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (canonical_key) DO UPDATE
		SET
			last_score = $2,
			last_seen_at = $3
	`

	if entry.LastSeenAt.IsZero() {
		entry.LastSeenAt = time.Now().UTC()
	}

	_, err := s.db.Exec(ctx, query, entry.CanonicalKey, entry.LastScore, entry.LastSeenAt)
	if err != nil {
		return fmt.Errorf("error upserting novelty entry: %w", err)
	}

	return nil
}

// DeleteOlderThan removes entries last seen before the cutoff
func (s *NoveltyStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	query := `
		DELETE FROM novelty_entries
		WHERE last_seen_at < $1
	`

	tag, err := s.db.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("error deleting novelty entries: %w", err)
	}

	return int(tag.RowsAffected()), nil
}
