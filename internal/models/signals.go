package models

// GoalieStatus represents the confirmation state of a starting goalie.
type GoalieStatus string

// Goalie confirmation states. The stats API rarely carries pregame
// confirmations, so "unknown" is the common case.
const (
	GoalieStatusUnknown   GoalieStatus = "unknown"
	GoalieStatusProbable  GoalieStatus = "probable"
	GoalieStatusConfirmed GoalieStatus = "confirmed"
)

// SignalSet is the signal extractor's sole output for one matchup.
// It is created fresh per matchup and never mutated after construction.
// Optional quantities are pointers: nil means the input needed to derive
// them was unavailable, which is reflected only in DataConfidence.
type SignalSet struct {
	AwayID int `json:"away_id"`
	HomeID int `json:"home_id"`

	Head2HeadOTRate        float64 `json:"head2head_OT_rate"`
	Head2HeadAvgGoalMargin float64 `json:"head2head_avg_goal_margin"`
	PlayoffRivalryFlag     bool    `json:"playoff_rivalry_flag"`

	StandingsGap         int      `json:"standings_gap"`
	RegulationWinPctDiff float64  `json:"regulation_win_pct_diff"`
	XGShareDiff          *float64 `json:"xg_share_diff"`
	SpecialTeamsMismatch *float64 `json:"special_teams_mismatch"`
	EvenlyMatched        bool     `json:"evenly_matched"`

	TeamOTRateLast15Away float64 `json:"team_OT_rate_last_15_away"`
	TeamOTRateLast15Home float64 `json:"team_OT_rate_last_15_home"`

	DaysRestAway   *int `json:"days_rest_away"`
	DaysRestHome   *int `json:"days_rest_home"`
	BackToBackAway bool `json:"back_to_back_away"`
	BackToBackHome bool `json:"back_to_back_home"`

	GoalieStatusAway GoalieStatus `json:"goalie_status_away"`
	GoalieStatusHome GoalieStatus `json:"goalie_status_home"`

	ImpliedTotal *float64 `json:"implied_total"`

	DataConfidence int    `json:"data_confidence"`
	Reason         string `json:"reason"`
}

// ScoredMatchup is the scorer's output: the signal set plus the raw
// (unclipped) score and the normalized 0-100 confidence.
type ScoredMatchup struct {
	SignalSet
	Score      float64 `json:"score"`
	Confidence int     `json:"confidence"`
}
