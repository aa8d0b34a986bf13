// Package analysis implements the signal computation and scoring engine
// for regulation-finish confidence estimation.
package analysis

import "fmt"

// Weights holds the scoring model weights. Positive values increase
// confidence in a regulation finish; negative values decrease it.
type Weights struct {
	GFDiff               float64 `mapstructure:"gf_diff"`
	GADiff               float64 `mapstructure:"ga_diff"`
	RegWinDiff           float64 `mapstructure:"reg_win_diff"`
	AvgTeamOTInv         float64 `mapstructure:"avg_team_ot_inv"`
	GoalieBoost          float64 `mapstructure:"goalie_boost"`
	Head2HeadPenalty     float64 `mapstructure:"head2head_penalty"`
	EvenlyMatchedPenalty float64 `mapstructure:"evenly_matched_penalty"`
	BackToBackPenalty    float64 `mapstructure:"back_to_back_penalty"`
	LowTotalPenalty      float64 `mapstructure:"low_total_penalty"`
	SpecialTeamsMismatch float64 `mapstructure:"special_teams_mismatch"`

	// Multiplier applied to the full accumulated score when both teams'
	// recent OT rates are above the both-high threshold.
	BothTeamsHighOTMultiplier float64 `mapstructure:"both_teams_high_ot_multiplier"`
}

// Params is the immutable configuration for the extractor and scorer.
// It is passed by value; callers share no mutable state through it.
type Params struct {
	H2HLookbackPrimary        int     `mapstructure:"h2h_lookback_primary"`
	H2HLookbackFallback       int     `mapstructure:"h2h_lookback_fallback"`
	H2HOTRatePenaltyThreshold float64 `mapstructure:"h2h_ot_rate_penalty_threshold"`

	PlayoffRivalryLookbackSeasons int `mapstructure:"playoff_rivalry_lookback_seasons"`

	EvenlyMatchedStandingsGapMax  int     `mapstructure:"evenly_matched_standings_gap_max"`
	EvenlyMatchedRegWinPctDiffMax float64 `mapstructure:"evenly_matched_reg_win_pct_diff_max"`
	EvenlyMatchedXGShareDiffMax   float64 `mapstructure:"evenly_matched_xg_share_diff_max"`

	TeamOTRateLookbackGames     int     `mapstructure:"team_ot_rate_lookback_games"`
	TeamOTRateBothHighThreshold float64 `mapstructure:"team_ot_rate_both_high_threshold"`

	LowTotalThreshold float64 `mapstructure:"low_total_threshold"`

	Weights Weights `mapstructure:"weights"`

	ScoreMin float64 `mapstructure:"score_min"`
	ScoreMax float64 `mapstructure:"score_max"`

	SkipIfRivalryOrEven bool `mapstructure:"skip_if_rivalry_or_even"`
}

// DefaultParams returns the hand-tuned model parameters.
func DefaultParams() Params {
	return Params{
		H2HLookbackPrimary:        20,
		H2HLookbackFallback:       10,
		H2HOTRatePenaltyThreshold: 0.20,

		PlayoffRivalryLookbackSeasons: 5,

		EvenlyMatchedStandingsGapMax:  6,
		EvenlyMatchedRegWinPctDiffMax: 0.05,
		EvenlyMatchedXGShareDiffMax:   0.06,

		TeamOTRateLookbackGames:     15,
		TeamOTRateBothHighThreshold: 0.15,

		LowTotalThreshold: 5.5,

		Weights: Weights{
			GFDiff:                    1.0,
			GADiff:                    0.8,
			RegWinDiff:                1.3,
			AvgTeamOTInv:              0.7,
			GoalieBoost:               0.8,
			Head2HeadPenalty:          -0.8,
			EvenlyMatchedPenalty:      -1.2,
			BackToBackPenalty:         -0.6,
			LowTotalPenalty:           -0.5,
			SpecialTeamsMismatch:      0.4,
			BothTeamsHighOTMultiplier: 0.85,
		},

		ScoreMin: -5.0,
		ScoreMax: 5.0,

		SkipIfRivalryOrEven: false,
	}
}

// Validate checks params for internal consistency.
func (p Params) Validate() error {
	if p.ScoreMin >= p.ScoreMax {
		return fmt.Errorf("score_min (%v) must be below score_max (%v)", p.ScoreMin, p.ScoreMax)
	}
	if p.H2HLookbackPrimary <= 0 || p.H2HLookbackFallback <= 0 {
		return fmt.Errorf("head-to-head lookback counts must be positive")
	}
	if p.H2HLookbackFallback > p.H2HLookbackPrimary {
		return fmt.Errorf("h2h_lookback_fallback (%d) cannot exceed h2h_lookback_primary (%d)",
			p.H2HLookbackFallback, p.H2HLookbackPrimary)
	}
	if p.TeamOTRateLookbackGames <= 0 {
		return fmt.Errorf("team_ot_rate_lookback_games must be positive")
	}
	if p.H2HOTRatePenaltyThreshold < 0 || p.H2HOTRatePenaltyThreshold > 1 {
		return fmt.Errorf("h2h_ot_rate_penalty_threshold must be within [0,1]")
	}
	if p.TeamOTRateBothHighThreshold < 0 || p.TeamOTRateBothHighThreshold > 1 {
		return fmt.Errorf("team_ot_rate_both_high_threshold must be within [0,1]")
	}
	if p.Weights.BothTeamsHighOTMultiplier <= 0 {
		return fmt.Errorf("both_teams_high_ot_multiplier must be positive")
	}
	return nil
}
