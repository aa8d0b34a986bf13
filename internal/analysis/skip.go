package analysis

import "github.com/yourusername/regulation-radar/internal/models"

// ShouldSkip reports whether the matchup is uninteresting enough to drop
// from a picks list: rivalry, rematch-heavy head-to-head, or parity.
// Always false while the skip feature flag is disabled. Pure predicate;
// the score value itself is unaffected.
func ShouldSkip(p Params, signals models.SignalSet) bool {
	if !p.SkipIfRivalryOrEven {
		return false
	}
	return signals.EvenlyMatched ||
		signals.PlayoffRivalryFlag ||
		signals.Head2HeadOTRate > p.H2HOTRatePenaltyThreshold
}
