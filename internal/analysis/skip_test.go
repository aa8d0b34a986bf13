package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yourusername/regulation-radar/internal/models"
)

func TestShouldSkipDisabledFlag(t *testing.T) {
	p := DefaultParams()
	p.SkipIfRivalryOrEven = false

	// With the flag off, nothing is ever skipped.
	cases := []models.SignalSet{
		{EvenlyMatched: true},
		{PlayoffRivalryFlag: true},
		{Head2HeadOTRate: 0.9},
		{EvenlyMatched: true, PlayoffRivalryFlag: true, Head2HeadOTRate: 1.0},
	}
	for _, signals := range cases {
		assert.False(t, ShouldSkip(p, signals))
	}
}

func TestShouldSkipEnabledFlag(t *testing.T) {
	p := DefaultParams()
	p.SkipIfRivalryOrEven = true

	assert.True(t, ShouldSkip(p, models.SignalSet{EvenlyMatched: true}))
	assert.True(t, ShouldSkip(p, models.SignalSet{PlayoffRivalryFlag: true}))
	assert.True(t, ShouldSkip(p, models.SignalSet{Head2HeadOTRate: 0.30}))

	// At the threshold is not above it.
	assert.False(t, ShouldSkip(p, models.SignalSet{Head2HeadOTRate: p.H2HOTRatePenaltyThreshold}))
	assert.False(t, ShouldSkip(p, models.SignalSet{}))
}

func TestParamsValidate(t *testing.T) {
	assert.NoError(t, DefaultParams().Validate())

	bad := DefaultParams()
	bad.ScoreMin = bad.ScoreMax
	assert.Error(t, bad.Validate())

	bad = DefaultParams()
	bad.H2HLookbackFallback = bad.H2HLookbackPrimary + 1
	assert.Error(t, bad.Validate())

	bad = DefaultParams()
	bad.Weights.BothTeamsHighOTMultiplier = 0
	assert.Error(t, bad.Validate())
}
