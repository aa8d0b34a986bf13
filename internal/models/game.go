package models

import (
	"strconv"
	"time"
)

// Matchup represents one scheduled game on a slate.
type Matchup struct {
	GamePK   int64     `json:"game_pk"`
	AwayID   int       `json:"away_id"`
	HomeID   int       `json:"home_id"`
	GameDate time.Time `json:"game_date"`
}

// LinescorePeriod represents one played period of a game.
type LinescorePeriod struct {
	Num       int    `json:"num"`
	AwayGoals *int   `json:"away_goals,omitempty"`
	HomeGoals *int   `json:"home_goals,omitempty"`
	Type      string `json:"period_type,omitempty"`
}

// Linescore holds per-period detail for a game.
type Linescore struct {
	CurrentPeriod int               `json:"current_period"`
	Periods       []LinescorePeriod `json:"periods"`
	HasShootout   bool              `json:"has_shootout"`
}

// GameResult represents one historical game, used for head-to-head and
// recent-form samples. Scores may be absent for in-progress or future games.
type GameResult struct {
	GamePK    int64     `json:"game_pk"`
	GameDate  time.Time `json:"game_date"`
	AwayID    int       `json:"away_id"`
	HomeID    int       `json:"home_id"`
	AwayScore *int      `json:"away_score,omitempty"`
	HomeScore *int      `json:"home_score,omitempty"`
	Linescore Linescore `json:"linescore"`
}

// WentToOvertime reports whether the game was not decided in regulation:
// more than three periods played, a shootout, or (for in-progress games)
// the current period beyond the third.
func (g *GameResult) WentToOvertime() bool {
	if g.Linescore.CurrentPeriod > 3 {
		return true
	}
	if g.Linescore.HasShootout {
		return true
	}
	return len(g.Linescore.Periods) > 3
}

// GoalMargin returns the absolute score margin and whether both scores
// were present.
func (g *GameResult) GoalMargin() (int, bool) {
	if g.AwayScore == nil || g.HomeScore == nil {
		return 0, false
	}
	margin := *g.HomeScore - *g.AwayScore
	if margin < 0 {
		margin = -margin
	}
	return margin, true
}

// Team holds display metadata for a team.
type Team struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	TeamName     string `json:"team_name"`
	ShortName    string `json:"short_name"`
	Abbreviation string `json:"abbreviation"`
}

// TeamsMap maps team identifiers to metadata.
type TeamsMap map[int]Team

// Abbreviation returns the team's abbreviation, falling back to the
// numeric id when the team is unknown.
func (m TeamsMap) Abbreviation(teamID int) string {
	if t, ok := m[teamID]; ok && t.Abbreviation != "" {
		return t.Abbreviation
	}
	return strconv.Itoa(teamID)
}
