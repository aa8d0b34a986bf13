package repository

import (
	"fmt"

	"github.com/yourusername/regulation-radar/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Prediction PredictionRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Prediction: NewPostgresPredictionRepository(db),
	}, nil
}
