// internal/adapter/storage/digest_store.go

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"viralwatch/internal/domain/content"
)

// DigestStore implements content.DigestStore on Postgres. The full digest is
// stored as a JSON payload next to a few queryable summary columns.
type DigestStore struct {
	db *pgxpool.Pool
}

// NewDigestStore creates a new Postgres-backed digest store
func NewDigestStore(db *pgxpool.Pool) *DigestStore {
	return &DigestStore{
		db: db,
	}
}

// SaveDigest persists a digest
func (s *DigestStore) SaveDigest(ctx context.Context, d *content.Digest) error {
	query := `
		INSERT INTO digests (
			id, generated_at, total_collected, cross_platform_hits, payload
		) VALUES (
			$1, $2, $3, $4, $5
		)
		ON CONFLICT (id) DO UPDATE
		SET
			generated_at = $2,
			total_collected = $3,
			cross_platform_hits = $4,
			payload = $5
	`

	if d.GeneratedAt.IsZero() {
		d.GeneratedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("error marshaling digest: %w", err)
	}

	_, err = s.db.Exec(
		ctx,
		query,
		d.ID,
		d.GeneratedAt,
		d.TotalCollected,
		len(d.CrossPlatformHits),
		payload,
	)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	return nil
}

// LatestDigest returns the most recently generated digest, or nil if none
// has been stored yet
func (s *DigestStore) LatestDigest(ctx context.Context) (*content.Digest, error) {
	query := `
		SELECT payload
		FROM digests
		ORDER BY generated_at DESC
		LIMIT 1
	`

	var payload []byte
	err := s.db.QueryRow(ctx, query).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error querying latest digest: %w", err)
	}

	var d content.Digest
	if err := json.Unmarshal(payload, &d); err != nil {
		return nil, fmt.Errorf("error unmarshaling digest: %w", err)
	}

	return &d, nil
}
