package models

// TeamStandingRecord represents a team's season aggregate from the
// standings snapshot. Every field may be absent when the team has not
// been found in the snapshot or the upstream record is incomplete.
type TeamStandingRecord struct {
	Points         *int     `json:"points,omitempty"`
	PointsPct      *float64 `json:"points_pct,omitempty"`
	GamesPlayed    *int     `json:"games_played,omitempty"`
	RegulationWins *int     `json:"regulation_wins,omitempty"`
	PowerPlayPct   *float64 `json:"pp_pct,omitempty"`
	PenaltyKillPct *float64 `json:"pk_pct,omitempty"`
}

// PointsOrZero returns the team's points, treating an absent value as 0.
func (r *TeamStandingRecord) PointsOrZero() int {
	if r == nil || r.Points == nil {
		return 0
	}
	return *r.Points
}

// StandingsSnapshot maps team identifiers to their standing records.
// A missing entry means the team was not present in the snapshot.
type StandingsSnapshot map[int]*TeamStandingRecord

// XGShareMap maps team identifiers to an expected-goals share in [0,1]
// over a trailing window. The whole map may be nil when the metric is
// unavailable.
type XGShareMap map[int]float64
