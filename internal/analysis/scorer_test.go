package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yourusername/regulation-radar/internal/models"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

// neutralSignals returns a signal set with favorable, non-triggering
// values for every penalty condition.
func neutralSignals(h2hRate float64) models.SignalSet {
	return models.SignalSet{
		AwayID:                 1,
		HomeID:                 2,
		Head2HeadOTRate:        h2hRate,
		Head2HeadAvgGoalMargin: 1.0,
		PlayoffRivalryFlag:     false,
		StandingsGap:           12,
		RegulationWinPctDiff:   0.02,
		XGShareDiff:            floatPtr(0.10),
		EvenlyMatched:          false,
		TeamOTRateLast15Away:   0.10,
		TeamOTRateLast15Home:   0.10,
		DaysRestAway:           intPtr(1),
		DaysRestHome:           intPtr(1),
		GoalieStatusAway:       models.GoalieStatusUnknown,
		GoalieStatusHome:       models.GoalieStatusUnknown,
		ImpliedTotal:           floatPtr(6.0),
		DataConfidence:         100,
	}
}

func TestConfidenceBounds(t *testing.T) {
	p := DefaultParams()

	cases := []models.SignalSet{
		neutralSignals(0.0),
		neutralSignals(1.0),
		{AwayID: 1, HomeID: 2}, // zero-value set
		func() models.SignalSet {
			s := neutralSignals(0.5)
			s.EvenlyMatched = true
			s.BackToBackAway = true
			s.ImpliedTotal = floatPtr(5.0)
			s.TeamOTRateLast15Away = 0.9
			s.TeamOTRateLast15Home = 0.9
			return s
		}(),
	}

	for _, signals := range cases {
		scored := Score(p, signals)
		if scored.Confidence < 0 || scored.Confidence > 100 {
			t.Fatalf("confidence %d out of [0,100] for signals %+v", scored.Confidence, signals)
		}
	}
}

func TestConfidenceRoundsHalfAwayFromZero(t *testing.T) {
	// Score exactly halfway between two integer confidence steps must
	// round up (math.Round semantics).
	p := DefaultParams()
	clipped := 0.25 // maps to 52.5 on [-5,5]
	confidence := int(math.Round(100 * (clipped - p.ScoreMin) / (p.ScoreMax - p.ScoreMin)))
	assert.Equal(t, 53, confidence)
}

func TestHeadToHeadPenaltyApplies(t *testing.T) {
	p := DefaultParams()

	low := Score(p, neutralSignals(0.10))
	high := Score(p, neutralSignals(0.30))

	if high.Confidence > low.Confidence {
		t.Fatalf("higher head-to-head OT rate should not increase confidence: low=%d high=%d",
			low.Confidence, high.Confidence)
	}
	assert.InDelta(t, low.Score+p.Weights.Head2HeadPenalty, high.Score, 1e-12)
}

func TestEvenlyMatchedPenalty(t *testing.T) {
	p := DefaultParams()

	base := Score(p, neutralSignals(0.0))

	even := neutralSignals(0.0)
	even.EvenlyMatched = true
	scored := Score(p, even)

	assert.InDelta(t, base.Score+p.Weights.EvenlyMatchedPenalty, scored.Score, 1e-12)
}

func TestBackToBackPenaltyEitherTeam(t *testing.T) {
	p := DefaultParams()
	base := Score(p, neutralSignals(0.0))

	for _, home := range []bool{false, true} {
		s := neutralSignals(0.0)
		if home {
			s.BackToBackHome = true
		} else {
			s.BackToBackAway = true
		}
		scored := Score(p, s)
		assert.InDelta(t, base.Score+p.Weights.BackToBackPenalty, scored.Score, 1e-12)
	}

	// Both teams on zero rest still trigger the penalty once.
	s := neutralSignals(0.0)
	s.BackToBackAway = true
	s.BackToBackHome = true
	assert.InDelta(t, base.Score+p.Weights.BackToBackPenalty, Score(p, s).Score, 1e-12)
}

func TestLowTotalPenalty(t *testing.T) {
	p := DefaultParams()
	base := Score(p, neutralSignals(0.0))

	atThreshold := neutralSignals(0.0)
	atThreshold.ImpliedTotal = floatPtr(p.LowTotalThreshold)
	assert.InDelta(t, base.Score+p.Weights.LowTotalPenalty, Score(p, atThreshold).Score, 1e-12,
		"total at the threshold triggers the penalty")

	missing := neutralSignals(0.0)
	missing.ImpliedTotal = nil
	assert.InDelta(t, base.Score, Score(p, missing).Score, 1e-12,
		"absent total is condition-not-met, never an error")
}

func TestSpecialTeamsMismatchBonus(t *testing.T) {
	p := DefaultParams()
	base := Score(p, neutralSignals(0.0))

	s := neutralSignals(0.0)
	s.SpecialTeamsMismatch = floatPtr(0.12)
	scored := Score(p, s)

	assert.InDelta(t, base.Score+p.Weights.SpecialTeamsMismatch*0.12, scored.Score, 1e-12)
	if scored.Score <= base.Score {
		t.Fatalf("larger mismatch should slightly raise the score")
	}
}

func TestBothTeamsHighOTMultiplier(t *testing.T) {
	p := DefaultParams()

	oneHigh := neutralSignals(0.0)
	oneHigh.TeamOTRateLast15Away = 0.30
	oneHigh.TeamOTRateLast15Home = 0.10

	bothHigh := neutralSignals(0.0)
	bothHigh.TeamOTRateLast15Away = 0.30
	bothHigh.TeamOTRateLast15Home = 0.30

	// Compare against a set identical to bothHigh except one team below
	// threshold, so the only structural difference is the multiplier.
	control := neutralSignals(0.0)
	control.TeamOTRateLast15Away = 0.30
	control.TeamOTRateLast15Home = 0.30
	undampened := scoreWithoutMultiplier(p, control)

	scoredBoth := Score(p, bothHigh)
	scoredOne := Score(p, oneHigh)

	assert.InDelta(t, undampened*p.Weights.BothTeamsHighOTMultiplier, scoredBoth.Score, 1e-12)
	assert.NotEqual(t, scoredOne.Score, scoredBoth.Score)
}

// scoreWithoutMultiplier recomputes the additive portion of the model for
// multiplier verification.
func scoreWithoutMultiplier(p Params, s models.SignalSet) float64 {
	w := p.Weights
	score := w.RegWinDiff * (1.0 - s.RegulationWinPctDiff)
	score += w.AvgTeamOTInv * (1.0 - (s.TeamOTRateLast15Away+s.TeamOTRateLast15Home)/2.0)
	if s.Head2HeadOTRate > p.H2HOTRatePenaltyThreshold {
		score += w.Head2HeadPenalty
	}
	if s.EvenlyMatched {
		score += w.EvenlyMatchedPenalty
	}
	if s.BackToBackAway || s.BackToBackHome {
		score += w.BackToBackPenalty
	}
	if s.ImpliedTotal != nil && *s.ImpliedTotal <= p.LowTotalThreshold {
		score += w.LowTotalPenalty
	}
	if s.SpecialTeamsMismatch != nil {
		score += w.SpecialTeamsMismatch * *s.SpecialTeamsMismatch
	}
	return score
}

func TestMultiplierPreservesSignOfNegativeScore(t *testing.T) {
	// A deeply penalized score stays negative after dampening; dampening
	// a negative value raises it toward zero. Faithful to the model as
	// designed, not "fixed".
	p := DefaultParams()

	s := neutralSignals(0.5)
	s.EvenlyMatched = true
	s.BackToBackAway = true
	s.ImpliedTotal = floatPtr(5.0)
	s.RegulationWinPctDiff = 1.0
	s.TeamOTRateLast15Away = 1.0
	s.TeamOTRateLast15Home = 1.0

	undampened := scoreWithoutMultiplier(p, s)
	if undampened >= 0 {
		t.Fatalf("test setup expects a negative accumulated score, got %v", undampened)
	}

	scored := Score(p, s)
	assert.InDelta(t, undampened*p.Weights.BothTeamsHighOTMultiplier, scored.Score, 1e-12)
	if scored.Score <= undampened {
		t.Fatalf("dampening a negative score should move it toward zero")
	}
}

func TestScorerIdempotent(t *testing.T) {
	p := DefaultParams()
	s := neutralSignals(0.25)
	s.SpecialTeamsMismatch = floatPtr(0.07)
	s.TeamOTRateLast15Away = 0.20
	s.TeamOTRateLast15Home = 0.18

	first := Score(p, s)
	second := Score(p, s)

	if first.Score != second.Score || first.Confidence != second.Confidence {
		t.Fatalf("scorer not idempotent: %v/%d vs %v/%d",
			first.Score, first.Confidence, second.Score, second.Confidence)
	}
}

func TestScorerDoesNotMutateSignals(t *testing.T) {
	p := DefaultParams()
	s := neutralSignals(0.25)
	scored := Score(p, s)

	assert.Equal(t, s, scored.SignalSet)
}

func TestClipping(t *testing.T) {
	p := DefaultParams()

	// Raw score beyond the clip range still maps into [0,100].
	s := neutralSignals(0.0)
	s.SpecialTeamsMismatch = floatPtr(100.0) // absurd mismatch to push past ScoreMax
	scored := Score(p, s)

	if scored.Score <= p.ScoreMax {
		t.Fatalf("expected raw score above ScoreMax, got %v", scored.Score)
	}
	assert.Equal(t, 100, scored.Confidence)
}
