package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/regulation-radar/internal/models"
)

// PredictionRepository persists scored slates
type PredictionRepository interface {
	// SaveSlate stores one row per scored matchup for the date.
	SaveSlate(ctx context.Context, date time.Time, predictions []*models.Prediction) error

	// GetByDate retrieves the most recent slate persisted for the date,
	// highest confidence first.
	GetByDate(ctx context.Context, date time.Time) ([]*models.Prediction, error)

	// GetByID retrieves a single prediction row.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Prediction, error)
}
