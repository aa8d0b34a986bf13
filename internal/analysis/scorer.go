package analysis

import (
	"math"

	"github.com/yourusername/regulation-radar/internal/models"
)

// Score applies the weighted linear model with threshold-triggered
// penalties to a signal set. Deterministic and side-effect free: the same
// signal set always yields bit-identical score and confidence. Absent
// optional signals are treated as "condition not met", never as errors.
func Score(p Params, signals models.SignalSet) models.ScoredMatchup {
	w := p.Weights

	// Base components. The offensive/defensive differential terms are
	// reserved for future goals-for/against inputs and currently zero.
	gfDiff := 0.0
	gaDiff := 0.0
	avgTeamOTInv := 1.0 - (signals.TeamOTRateLast15Away+signals.TeamOTRateLast15Home)/2.0

	score := 0.0
	score += w.GFDiff * gfDiff
	score += w.GADiff * gaDiff
	score += w.RegWinDiff * (1.0 - signals.RegulationWinPctDiff) // smaller disparity is better
	score += w.AvgTeamOTInv * avgTeamOTInv

	// Threshold-triggered penalties, each independent.
	if signals.Head2HeadOTRate > p.H2HOTRatePenaltyThreshold {
		score += w.Head2HeadPenalty
	}
	if signals.EvenlyMatched {
		score += w.EvenlyMatchedPenalty
	}
	if signals.BackToBackAway || signals.BackToBackHome {
		score += w.BackToBackPenalty
	}
	if signals.ImpliedTotal != nil && *signals.ImpliedTotal <= p.LowTotalThreshold {
		score += w.LowTotalPenalty
	}
	// Bigger PP-vs-PK mismatch means fewer stale even-strength minutes,
	// so slightly lower overtime risk.
	if signals.SpecialTeamsMismatch != nil {
		score += w.SpecialTeamsMismatch * *signals.SpecialTeamsMismatch
	}

	// Both teams trending to overtime recently: dampen the whole
	// accumulated score. Applied last, over all additive terms; a
	// negative score shrinks toward zero rather than dropping further.
	if signals.TeamOTRateLast15Away > p.TeamOTRateBothHighThreshold &&
		signals.TeamOTRateLast15Home > p.TeamOTRateBothHighThreshold {
		score *= w.BothTeamsHighOTMultiplier
	}

	clipped := math.Max(p.ScoreMin, math.Min(p.ScoreMax, score))
	confidence := int(math.Round(100 * (clipped - p.ScoreMin) / (p.ScoreMax - p.ScoreMin)))

	return models.ScoredMatchup{
		SignalSet:  signals,
		Score:      score,
		Confidence: confidence,
	}
}
