package analysis

import (
	"fmt"

	"github.com/yourusername/regulation-radar/internal/config"
)

// FromConfig overlays configured overrides on the default parameter set.
// Absent fields keep their defaults; weights are overlaid by key.
func FromConfig(cfg *config.AnalysisConfig) (Params, error) {
	p := DefaultParams()
	if cfg == nil {
		return p, nil
	}

	if cfg.H2HLookbackPrimary != nil {
		p.H2HLookbackPrimary = *cfg.H2HLookbackPrimary
	}
	if cfg.H2HLookbackFallback != nil {
		p.H2HLookbackFallback = *cfg.H2HLookbackFallback
	}
	if cfg.H2HOTRatePenaltyThreshold != nil {
		p.H2HOTRatePenaltyThreshold = *cfg.H2HOTRatePenaltyThreshold
	}
	if cfg.PlayoffRivalryLookbackSeasons != nil {
		p.PlayoffRivalryLookbackSeasons = *cfg.PlayoffRivalryLookbackSeasons
	}
	if cfg.EvenlyMatchedStandingsGapMax != nil {
		p.EvenlyMatchedStandingsGapMax = *cfg.EvenlyMatchedStandingsGapMax
	}
	if cfg.EvenlyMatchedRegWinPctDiffMax != nil {
		p.EvenlyMatchedRegWinPctDiffMax = *cfg.EvenlyMatchedRegWinPctDiffMax
	}
	if cfg.EvenlyMatchedXGShareDiffMax != nil {
		p.EvenlyMatchedXGShareDiffMax = *cfg.EvenlyMatchedXGShareDiffMax
	}
	if cfg.TeamOTRateLookbackGames != nil {
		p.TeamOTRateLookbackGames = *cfg.TeamOTRateLookbackGames
	}
	if cfg.TeamOTRateBothHighThreshold != nil {
		p.TeamOTRateBothHighThreshold = *cfg.TeamOTRateBothHighThreshold
	}
	if cfg.LowTotalThreshold != nil {
		p.LowTotalThreshold = *cfg.LowTotalThreshold
	}
	if cfg.ScoreMin != nil {
		p.ScoreMin = *cfg.ScoreMin
	}
	if cfg.ScoreMax != nil {
		p.ScoreMax = *cfg.ScoreMax
	}
	if cfg.SkipIfRivalryOrEven != nil {
		p.SkipIfRivalryOrEven = *cfg.SkipIfRivalryOrEven
	}

	for key, value := range cfg.Weights {
		if err := p.Weights.set(key, value); err != nil {
			return Params{}, err
		}
	}

	return p, p.Validate()
}

// set applies a weight override by its configuration key.
func (w *Weights) set(key string, value float64) error {
	switch key {
	case "gf_diff":
		w.GFDiff = value
	case "ga_diff":
		w.GADiff = value
	case "reg_win_diff":
		w.RegWinDiff = value
	case "avg_team_ot_inv":
		w.AvgTeamOTInv = value
	case "goalie_boost":
		w.GoalieBoost = value
	case "head2head_penalty":
		w.Head2HeadPenalty = value
	case "evenly_matched_penalty":
		w.EvenlyMatchedPenalty = value
	case "back_to_back_penalty":
		w.BackToBackPenalty = value
	case "low_total_penalty":
		w.LowTotalPenalty = value
	case "special_teams_mismatch":
		w.SpecialTeamsMismatch = value
	case "both_teams_high_ot_multiplier":
		w.BothTeamsHighOTMultiplier = value
	default:
		return fmt.Errorf("unknown weight %q", key)
	}
	return nil
}
