// internal/adapter/storage/schema.go

package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
)

// EnsureSchema creates the tables the stores rely on if they do not exist
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	schema := `
		CREATE TABLE IF NOT EXISTS novelty_entries (
			canonical_key TEXT PRIMARY KEY,
			last_score    INTEGER NOT NULL,
			last_seen_at  TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_novelty_last_seen ON novelty_entries(last_seen_at);

		CREATE TABLE IF NOT EXISTS digests (
			id                  TEXT PRIMARY KEY,
			generated_at        TIMESTAMPTZ NOT NULL,
			total_collected     INTEGER NOT NULL,
			cross_platform_hits INTEGER NOT NULL,
			payload             JSONB NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_digests_generated_at ON digests(generated_at DESC);
	`

	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("error initializing schema: %w", err)
	}

	return nil
}
