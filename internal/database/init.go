package database

import (
	"context"
	"fmt"

	"github.com/yourusername/regulation-radar/internal/config"
)

const predictionsSchema = `
CREATE TABLE IF NOT EXISTS predictions (
	id UUID PRIMARY KEY,
	game_pk BIGINT NOT NULL,
	game_date DATE NOT NULL,
	away_id INTEGER NOT NULL,
	home_id INTEGER NOT NULL,
	score DOUBLE PRECISION NOT NULL,
	confidence INTEGER NOT NULL,
	data_confidence INTEGER NOT NULL,
	reason TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_predictions_game_date ON predictions (game_date);
`

// Initialize creates a database connection pool and ensures the
// prediction schema exists.
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if _, err := db.pool.Exec(ctx, predictionsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure predictions schema: %w", err)
	}

	return db, nil
}
