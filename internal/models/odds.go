package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// GameOdds represents a point-in-time market quote for one game.
type GameOdds struct {
	GamePK     int64            `json:"game_pk"`
	Time       time.Time        `json:"time"`
	Total      *decimal.Decimal `json:"total"`      // total-goals line, e.g. 5.5
	OverPrice  *decimal.Decimal `json:"over_price"` // decimal odds on the over
	UnderPrice *decimal.Decimal `json:"under_price"`
}

// ImpliedTotal returns the market's total-goals expectation as a float,
// or nil when no total line was quoted.
func (o *GameOdds) ImpliedTotal() *float64 {
	if o == nil || o.Total == nil {
		return nil
	}
	f, _ := o.Total.Float64()
	return &f
}

// OddsMap maps game identifiers to market quotes.
type OddsMap map[int64]*GameOdds
