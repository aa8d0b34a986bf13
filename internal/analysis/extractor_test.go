package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/regulation-radar/internal/models"
)

func decimalPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// stubHistorySource is a canned HistorySource for extractor tests.
type stubHistorySource struct {
	h2h         []models.GameResult
	h2hErr      error
	h2hCalls    []int // requested max counts, in call order
	recent      map[int][]models.GameResult
	recentErr   map[int]error
	rivalry     bool
	daysRest    map[int]*int
}

func (s *stubHistorySource) HeadToHead(_ context.Context, _, _, maxGames int) ([]models.GameResult, error) {
	s.h2hCalls = append(s.h2hCalls, maxGames)
	if s.h2hErr != nil {
		return nil, s.h2hErr
	}
	if len(s.h2h) > maxGames {
		return s.h2h[:maxGames], nil
	}
	return s.h2h, nil
}

func (s *stubHistorySource) TeamRecentGames(_ context.Context, teamID, count int) ([]models.GameResult, error) {
	if err := s.recentErr[teamID]; err != nil {
		return nil, err
	}
	games := s.recent[teamID]
	if len(games) > count {
		return games[:count], nil
	}
	return games, nil
}

func (s *stubHistorySource) PlayoffMeetingInSeasons(_ context.Context, _, _, _ int) bool {
	return s.rivalry
}

func (s *stubHistorySource) DaysRest(_ context.Context, teamID int, _ time.Time) *int {
	return s.daysRest[teamID]
}

func regulationGame(away, home int) models.GameResult {
	return models.GameResult{
		AwayScore: intPtr(away),
		HomeScore: intPtr(home),
		Linescore: models.Linescore{
			Periods: []models.LinescorePeriod{{Num: 1}, {Num: 2}, {Num: 3}},
		},
	}
}

func overtimeGame(away, home int) models.GameResult {
	g := regulationGame(away, home)
	g.Linescore.Periods = append(g.Linescore.Periods, models.LinescorePeriod{Num: 4, Type: "OVERTIME"})
	return g
}

func shootoutGame(away, home int) models.GameResult {
	g := regulationGame(away, home)
	g.Linescore.HasShootout = true
	return g
}

func standingsEntry(points, gamesPlayed, regWins int) *models.TeamStandingRecord {
	return &models.TeamStandingRecord{
		Points:         intPtr(points),
		GamesPlayed:    intPtr(gamesPlayed),
		RegulationWins: intPtr(regWins),
	}
}

func testMatchup() models.Matchup {
	return models.Matchup{
		GamePK:   2024020001,
		AwayID:   10,
		HomeID:   20,
		GameDate: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestComputeSignalsBasic(t *testing.T) {
	source := &stubHistorySource{
		h2h: []models.GameResult{
			overtimeGame(2, 3),
			regulationGame(1, 4),
			regulationGame(2, 2),
			shootoutGame(3, 4),
		},
		recent: map[int][]models.GameResult{
			10: {overtimeGame(1, 2), regulationGame(0, 3)},
			20: {regulationGame(5, 2), regulationGame(3, 1)},
		},
		daysRest: map[int]*int{10: intPtr(0), 20: intPtr(2)},
	}
	extractor := NewExtractor(DefaultParams(), source, nil)

	standings := models.StandingsSnapshot{
		10: standingsEntry(40, 40, 20), // reg win pct 0.50
		20: standingsEntry(52, 40, 24), // reg win pct 0.60
	}

	signals := extractor.ComputeSignals(context.Background(), testMatchup(), standings, nil, nil)

	assert.Equal(t, 10, signals.AwayID)
	assert.Equal(t, 20, signals.HomeID)
	assert.InDelta(t, 0.5, signals.Head2HeadOTRate, 1e-12) // 2 of 4 went past regulation
	assert.InDelta(t, (1.0+3.0+0.0+1.0)/4.0, signals.Head2HeadAvgGoalMargin, 1e-12)
	assert.Equal(t, 12, signals.StandingsGap)
	assert.InDelta(t, 0.10, signals.RegulationWinPctDiff, 1e-12)
	assert.InDelta(t, 0.5, signals.TeamOTRateLast15Away, 1e-12)
	assert.InDelta(t, 0.0, signals.TeamOTRateLast15Home, 1e-12)
	assert.True(t, signals.BackToBackAway)
	assert.False(t, signals.BackToBackHome)
	assert.Equal(t, models.GoalieStatusUnknown, signals.GoalieStatusAway)
	assert.Equal(t, models.GoalieStatusUnknown, signals.GoalieStatusHome)
	assert.Nil(t, signals.ImpliedTotal)
	assert.Nil(t, signals.XGShareDiff)
	assert.False(t, signals.EvenlyMatched)
}

func TestHeadToHeadFallbackRefetch(t *testing.T) {
	// Short primary sample triggers one re-fetch at the fallback count.
	source := &stubHistorySource{
		h2h: []models.GameResult{regulationGame(1, 2), overtimeGame(2, 2)},
	}
	extractor := NewExtractor(DefaultParams(), source, nil)

	extractor.ComputeSignals(context.Background(), testMatchup(), models.StandingsSnapshot{}, nil, nil)

	require.Equal(t, []int{20, 10}, source.h2hCalls)
}

func TestHeadToHeadNoFallbackWhenSampleSufficient(t *testing.T) {
	games := make([]models.GameResult, 12)
	for i := range games {
		games[i] = regulationGame(1, 2)
	}
	source := &stubHistorySource{h2h: games}
	extractor := NewExtractor(DefaultParams(), source, nil)

	extractor.ComputeSignals(context.Background(), testMatchup(), models.StandingsSnapshot{}, nil, nil)

	require.Equal(t, []int{20}, source.h2hCalls)
}

func TestEmptyHeadToHeadSampleYieldsZeroRate(t *testing.T) {
	source := &stubHistorySource{h2h: []models.GameResult{}}
	extractor := NewExtractor(DefaultParams(), source, nil)

	signals := extractor.ComputeSignals(context.Background(), testMatchup(), models.StandingsSnapshot{}, nil, nil)

	assert.Equal(t, 0.0, signals.Head2HeadOTRate)
	assert.Equal(t, 0.0, signals.Head2HeadAvgGoalMargin)
}

func TestHeadToHeadFetchFailureDegrades(t *testing.T) {
	source := &stubHistorySource{h2hErr: errors.New("upstream unavailable")}
	extractor := NewExtractor(DefaultParams(), source, nil)

	signals := extractor.ComputeSignals(context.Background(), testMatchup(), models.StandingsSnapshot{}, nil, nil)

	assert.Equal(t, 0.0, signals.Head2HeadOTRate)
	// Failed sample counts against the checklist; the reserved item
	// still holds, so confidence drops below a full-sample run but the
	// computation does not fail.
	assert.Less(t, signals.DataConfidence, 100)
}

func TestAvgGoalMarginExcludesGamesMissingScores(t *testing.T) {
	inProgress := models.GameResult{Linescore: models.Linescore{CurrentPeriod: 2}}
	games := []models.GameResult{regulationGame(1, 4), inProgress}

	assert.InDelta(t, 3.0, avgGoalMargin(games), 1e-12)
	assert.InDelta(t, 0.0, avgGoalMargin([]models.GameResult{inProgress}), 1e-12)
}

func TestEvenlyMatchedThreeConditions(t *testing.T) {
	source := &stubHistorySource{}
	extractor := NewExtractor(DefaultParams(), source, nil)

	standings := models.StandingsSnapshot{
		10: standingsEntry(50, 40, 20),
		20: standingsEntry(50, 40, 20),
	}
	xg := models.XGShareMap{10: 0.50, 20: 0.50}

	signals := extractor.ComputeSignals(context.Background(), testMatchup(), standings, nil, xg)

	require.NotNil(t, signals.XGShareDiff)
	assert.Equal(t, 0, signals.StandingsGap)
	assert.True(t, signals.EvenlyMatched)
	assert.Contains(t, signals.Reason, "Evenly matched")
}

func TestEvenlyMatchedTwoConditionFallbackWithoutXG(t *testing.T) {
	// Would fail the three-condition test (xG diff 0.20 >= 0.06) but
	// passes on standings gap and reg-win diff alone when the metric is
	// unavailable.
	p := DefaultParams()

	withXG := p.evenlyMatched(2, 0.01, floatPtr(0.20))
	withoutXG := p.evenlyMatched(2, 0.01, nil)

	assert.False(t, withXG)
	assert.True(t, withoutXG)
}

func TestEvenlyMatchedStrictThresholds(t *testing.T) {
	p := DefaultParams()

	// Values exactly at a threshold fail the strict less-than check.
	assert.False(t, p.evenlyMatched(p.EvenlyMatchedStandingsGapMax, 0.0, nil))
	assert.False(t, p.evenlyMatched(0, p.EvenlyMatchedRegWinPctDiffMax, nil))
	assert.False(t, p.evenlyMatched(0, 0.0, floatPtr(p.EvenlyMatchedXGShareDiffMax)))
	assert.True(t, p.evenlyMatched(p.EvenlyMatchedStandingsGapMax-1, 0.0, nil))
}

func TestSpecialTeamsMismatch(t *testing.T) {
	home := &models.TeamStandingRecord{
		PowerPlayPct:   floatPtr(25.0),
		PenaltyKillPct: floatPtr(80.0),
	}
	away := &models.TeamStandingRecord{
		PowerPlayPct:   floatPtr(15.0),
		PenaltyKillPct: floatPtr(72.0),
	}

	mismatch := specialTeamsMismatch(home, away)
	require.NotNil(t, mismatch)
	// max(|25-72|, |15-80|) / 100
	assert.InDelta(t, 0.65, *mismatch, 1e-12)
}

func TestSpecialTeamsMismatchAbsentFields(t *testing.T) {
	home := &models.TeamStandingRecord{PowerPlayPct: floatPtr(25.0)}
	away := &models.TeamStandingRecord{PenaltyKillPct: floatPtr(72.0)}

	// Only one pairing has both fields; the other is skipped.
	mismatch := specialTeamsMismatch(home, away)
	require.NotNil(t, mismatch)
	assert.InDelta(t, 0.47, *mismatch, 1e-12)

	assert.Nil(t, specialTeamsMismatch(nil, away))
	assert.Nil(t, specialTeamsMismatch(&models.TeamStandingRecord{}, &models.TeamStandingRecord{}))
}

func TestRegulationWinPctDegradesToZero(t *testing.T) {
	assert.Equal(t, 0.0, regulationWinPct(nil))
	assert.Equal(t, 0.0, regulationWinPct(&models.TeamStandingRecord{}))
	assert.Equal(t, 0.0, regulationWinPct(&models.TeamStandingRecord{
		RegulationWins: intPtr(5),
	}))
	assert.Equal(t, 0.0, regulationWinPct(&models.TeamStandingRecord{
		RegulationWins: intPtr(5),
		GamesPlayed:    intPtr(0),
	}))
	assert.InDelta(t, 0.5, regulationWinPct(standingsEntry(40, 40, 20)), 1e-12)
}

func TestDataConfidenceChecklist(t *testing.T) {
	source := &stubHistorySource{
		h2h: []models.GameResult{regulationGame(1, 2)},
		recent: map[int][]models.GameResult{
			10: {regulationGame(1, 2)},
			20: {regulationGame(1, 2)},
		},
	}
	extractor := NewExtractor(DefaultParams(), source, nil)

	standings := models.StandingsSnapshot{
		10: standingsEntry(40, 40, 20),
		20: standingsEntry(44, 40, 21),
	}
	xg := models.XGShareMap{10: 0.48, 20: 0.52}
	odds := &models.GameOdds{GamePK: 2024020001, Total: decimalPtr("6.5")}

	full := extractor.ComputeSignals(context.Background(), testMatchup(), standings, odds, xg)
	assert.Equal(t, 100, full.DataConfidence)

	// Drop odds and xG: 6 of 8 checklist items remain.
	partial := extractor.ComputeSignals(context.Background(), testMatchup(), standings, nil, nil)
	assert.Equal(t, 75, partial.DataConfidence)
}

func TestReasonOrderingAndFormat(t *testing.T) {
	source := &stubHistorySource{
		h2h: []models.GameResult{
			overtimeGame(1, 2), overtimeGame(2, 3), regulationGame(1, 1),
		},
		rivalry: true,
	}
	extractor := NewExtractor(DefaultParams(), source, nil)

	standings := models.StandingsSnapshot{
		10: standingsEntry(50, 40, 20),
		20: standingsEntry(50, 40, 20),
	}

	signals := extractor.ComputeSignals(context.Background(), testMatchup(), standings, nil, nil)

	require.True(t, signals.EvenlyMatched)
	assert.Equal(t,
		"Head-to-head OT 67% last 3; Recent playoffs met; Evenly matched by standings/reg wins/xG",
		signals.Reason)
}

func TestReasonEmptyWhenNothingTriggers(t *testing.T) {
	source := &stubHistorySource{h2h: []models.GameResult{regulationGame(1, 3)}}
	extractor := NewExtractor(DefaultParams(), source, nil)

	signals := extractor.ComputeSignals(context.Background(), testMatchup(), models.StandingsSnapshot{
		10: standingsEntry(30, 40, 10),
		20: standingsEntry(60, 40, 25),
	}, nil, nil)

	assert.Equal(t, "", signals.Reason)
}

func TestOvertimeRateCountsShootouts(t *testing.T) {
	games := []models.GameResult{
		regulationGame(1, 2),
		shootoutGame(2, 3),
		overtimeGame(3, 4),
	}
	assert.InDelta(t, 2.0/3.0, overtimeRate(games), 1e-12)
	assert.Equal(t, 0.0, overtimeRate(nil))
}
