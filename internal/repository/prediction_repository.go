package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/regulation-radar/internal/database"
	"github.com/yourusername/regulation-radar/internal/models"
)

// PostgresPredictionRepository implements PredictionRepository for PostgreSQL
type PostgresPredictionRepository struct {
	db *database.DB
}

// NewPostgresPredictionRepository creates a new prediction repository
func NewPostgresPredictionRepository(db *database.DB) PredictionRepository {
	return &PostgresPredictionRepository{db: db}
}

// SaveSlate stores one row per scored matchup, all in one transaction.
func (r *PostgresPredictionRepository) SaveSlate(ctx context.Context, date time.Time, predictions []*models.Prediction) error {
	if len(predictions) == 0 {
		return nil
	}

	query := `
		INSERT INTO predictions (id, game_pk, game_date, away_id, home_id,
		                         score, confidence, data_confidence, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		now := time.Now().UTC()
		for _, p := range predictions {
			id := p.ID
			if id == uuid.Nil {
				id = uuid.New()
			}
			_, err := tx.Exec(ctx, query,
				id, p.GamePK, date, p.AwayID, p.HomeID,
				p.Score, p.Confidence, p.DataConfidence, p.Reason, now,
			)
			if err != nil {
				return fmt.Errorf("failed to save prediction for game %d: %w", p.GamePK, err)
			}
		}
		return nil
	})
}

// GetByDate retrieves the most recently persisted slate for the date.
func (r *PostgresPredictionRepository) GetByDate(ctx context.Context, date time.Time) ([]*models.Prediction, error) {
	query := `
		SELECT id, game_pk, game_date, away_id, home_id,
		       score, confidence, data_confidence, reason, created_at
		FROM predictions
		WHERE game_date = $1
		  AND created_at = (
		      SELECT MAX(created_at) FROM predictions WHERE game_date = $1
		  )
		ORDER BY confidence DESC, game_pk ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer rows.Close()

	var predictions []*models.Prediction
	for rows.Next() {
		p := &models.Prediction{}
		if err := rows.Scan(
			&p.ID, &p.GamePK, &p.GameDate, &p.AwayID, &p.HomeID,
			&p.Score, &p.Confidence, &p.DataConfidence, &p.Reason, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		predictions = append(predictions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read predictions: %w", err)
	}

	return predictions, nil
}

// GetByID retrieves a prediction by ID
func (r *PostgresPredictionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Prediction, error) {
	query := `
		SELECT id, game_pk, game_date, away_id, home_id,
		       score, confidence, data_confidence, reason, created_at
		FROM predictions WHERE id = $1
	`

	p := &models.Prediction{}
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(
		&p.ID, &p.GamePK, &p.GameDate, &p.AwayID, &p.HomeID,
		&p.Score, &p.Confidence, &p.DataConfidence, &p.Reason, &p.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prediction: %w", err)
	}

	return p, nil
}
