package models

import (
	"time"

	"github.com/google/uuid"
)

// Prediction is a persisted scored matchup row.
type Prediction struct {
	ID             uuid.UUID `json:"id"`
	GamePK         int64     `json:"game_pk"`
	GameDate       time.Time `json:"game_date"`
	AwayID         int       `json:"away_id"`
	HomeID         int       `json:"home_id"`
	Score          float64   `json:"score"`
	Confidence     int       `json:"confidence"`
	DataConfidence int       `json:"data_confidence"`
	Reason         string    `json:"reason"`
	CreatedAt      time.Time `json:"created_at"`
}
