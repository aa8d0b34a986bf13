package analysis

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/regulation-radar/internal/models"
)

// HistorySource provides the per-matchup historical lookups the extractor
// depends on. Implementations own their retry/timeout behavior; the
// extractor only catches failures and degrades the affected signal.
type HistorySource interface {
	// HeadToHead returns up to maxGames games between the two teams,
	// most recent first. An empty result is not an error.
	HeadToHead(ctx context.Context, teamA, teamB, maxGames int) ([]models.GameResult, error)

	// TeamRecentGames returns up to count of the team's most recent
	// games, most recent first.
	TeamRecentGames(ctx context.Context, teamID, count int) ([]models.GameResult, error)

	// PlayoffMeetingInSeasons reports whether the two teams met in a
	// playoff series within the last seasons. Never fails; lookups that
	// error report false.
	PlayoffMeetingInSeasons(ctx context.Context, teamA, teamB, seasons int) bool

	// DaysRest returns the number of days since the team's previous game
	// before the reference date, or nil when undeterminable.
	DaysRest(ctx context.Context, teamID int, ref time.Time) *int
}

// Extractor derives a SignalSet from a matchup and its contextual data.
type Extractor struct {
	params Params
	source HistorySource
	logger *logrus.Logger
}

// NewExtractor creates an extractor bound to an immutable parameter set.
func NewExtractor(params Params, source HistorySource, logger *logrus.Logger) *Extractor {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &Extractor{params: params, source: source, logger: logger}
}

// Params returns the extractor's parameter set.
func (e *Extractor) Params() Params { return e.params }

// ComputeSignals derives the full signal set for one matchup. Missing
// optional inputs degrade to neutral/absent values and are reflected only
// in the data-confidence score; the computation itself never fails.
func (e *Extractor) ComputeSignals(
	ctx context.Context,
	matchup models.Matchup,
	standings models.StandingsSnapshot,
	odds *models.GameOdds,
	xgShare models.XGShareMap,
) models.SignalSet {
	p := e.params

	h2h := e.headToHeadSample(ctx, matchup.AwayID, matchup.HomeID)
	head2headOTRate := overtimeRate(h2h)
	head2headAvgMargin := avgGoalMargin(h2h)

	rivalry := e.source.PlayoffMeetingInSeasons(ctx, matchup.AwayID, matchup.HomeID, p.PlayoffRivalryLookbackSeasons)

	sAway := standings[matchup.AwayID]
	sHome := standings[matchup.HomeID]

	standingsGap := sHome.PointsOrZero() - sAway.PointsOrZero()
	if standingsGap < 0 {
		standingsGap = -standingsGap
	}
	regWinPctDiff := math.Abs(regulationWinPct(sHome) - regulationWinPct(sAway))

	mismatch := specialTeamsMismatch(sHome, sAway)
	xgDiff := xgShareDiff(xgShare, matchup.HomeID, matchup.AwayID)

	evenlyMatched := p.evenlyMatched(standingsGap, regWinPctDiff, xgDiff)

	lastAway := e.recentSample(ctx, matchup.AwayID)
	lastHome := e.recentSample(ctx, matchup.HomeID)

	gameDate := matchup.GameDate
	if gameDate.IsZero() {
		gameDate = time.Now().UTC()
	}
	daysRestAway := e.source.DaysRest(ctx, matchup.AwayID, gameDate)
	daysRestHome := e.source.DaysRest(ctx, matchup.HomeID, gameDate)

	impliedTotal := odds.ImpliedTotal()

	signals := models.SignalSet{
		AwayID: matchup.AwayID,
		HomeID: matchup.HomeID,

		Head2HeadOTRate:        head2headOTRate,
		Head2HeadAvgGoalMargin: head2headAvgMargin,
		PlayoffRivalryFlag:     rivalry,

		StandingsGap:         standingsGap,
		RegulationWinPctDiff: regWinPctDiff,
		XGShareDiff:          xgDiff,
		SpecialTeamsMismatch: mismatch,
		EvenlyMatched:        evenlyMatched,

		TeamOTRateLast15Away: overtimeRate(lastAway),
		TeamOTRateLast15Home: overtimeRate(lastHome),

		DaysRestAway:   daysRestAway,
		DaysRestHome:   daysRestHome,
		BackToBackAway: daysRestAway != nil && *daysRestAway == 0,
		BackToBackHome: daysRestHome != nil && *daysRestHome == 0,

		// The stats API does not carry pregame starter confirmations.
		GoalieStatusAway: models.GoalieStatusUnknown,
		GoalieStatusHome: models.GoalieStatusUnknown,

		ImpliedTotal: impliedTotal,
	}

	signals.DataConfidence = dataConfidence(
		h2h != nil,
		true, // reserved checklist slot
		sHome != nil,
		sAway != nil,
		lastHome != nil,
		lastAway != nil,
		impliedTotal != nil,
		xgDiff != nil,
	)
	signals.Reason = e.reason(signals, len(h2h))

	return signals
}

// headToHeadSample resolves the head-to-head sample: the primary lookback
// first, re-fetched with the fallback count when the result is short. The
// fallback re-queries a smaller count rather than widening the lookback.
// A nil result means the fetch itself failed.
func (e *Extractor) headToHeadSample(ctx context.Context, awayID, homeID int) []models.GameResult {
	p := e.params
	h2h, err := e.source.HeadToHead(ctx, awayID, homeID, p.H2HLookbackPrimary)
	if err != nil {
		e.logger.WithFields(logrus.Fields{
			"away_id": awayID,
			"home_id": homeID,
		}).WithError(err).Warn("Head-to-head fetch failed, degrading signal")
		return nil
	}
	if len(h2h) < p.H2HLookbackFallback {
		fallback, err := e.source.HeadToHead(ctx, awayID, homeID, p.H2HLookbackFallback)
		if err != nil {
			// Keep the primary sample we already have.
			return h2h
		}
		h2h = fallback
	}
	return h2h
}

func (e *Extractor) recentSample(ctx context.Context, teamID int) []models.GameResult {
	games, err := e.source.TeamRecentGames(ctx, teamID, e.params.TeamOTRateLookbackGames)
	if err != nil {
		e.logger.WithField("team_id", teamID).WithError(err).Warn("Recent games fetch failed, degrading signal")
		return nil
	}
	return games
}

// reason concatenates the triggered notable conditions. Order matters:
// head-to-head, rivalry, evenly matched.
func (e *Extractor) reason(s models.SignalSet, sampleSize int) string {
	var bits []string
	if s.Head2HeadOTRate > e.params.H2HOTRatePenaltyThreshold {
		bits = append(bits, fmt.Sprintf("Head-to-head OT %d%% last %d",
			int(math.Round(100*s.Head2HeadOTRate)), sampleSize))
	}
	if s.PlayoffRivalryFlag {
		bits = append(bits, "Recent playoffs met")
	}
	if s.EvenlyMatched {
		bits = append(bits, "Evenly matched by standings/reg wins/xG")
	}
	return strings.Join(bits, "; ")
}

// evenlyMatched applies strict less-than checks against the three parity
// thresholds. When the xG share diff is unavailable the check is omitted
// entirely rather than defaulted to pass.
func (p Params) evenlyMatched(standingsGap int, regWinPctDiff float64, xgDiff *float64) bool {
	if xgDiff != nil {
		return standingsGap < p.EvenlyMatchedStandingsGapMax &&
			regWinPctDiff < p.EvenlyMatchedRegWinPctDiffMax &&
			*xgDiff < p.EvenlyMatchedXGShareDiffMax
	}
	return standingsGap < p.EvenlyMatchedStandingsGapMax &&
		regWinPctDiff < p.EvenlyMatchedRegWinPctDiffMax
}

// overtimeRate returns the fraction of the sample that went past
// regulation. An empty sample yields 0.0 by definition.
func overtimeRate(games []models.GameResult) float64 {
	if len(games) == 0 {
		return 0.0
	}
	ot := 0
	for i := range games {
		if games[i].WentToOvertime() {
			ot++
		}
	}
	return float64(ot) / float64(len(games))
}

// avgGoalMargin averages the absolute score margin over games with both
// scores present. Games missing either score are excluded from both the
// numerator and the denominator.
func avgGoalMargin(games []models.GameResult) float64 {
	sum, n := 0, 0
	for i := range games {
		if margin, ok := games[i].GoalMargin(); ok {
			sum += margin
			n++
		}
	}
	if n == 0 {
		return 0.0
	}
	return float64(sum) / float64(n)
}

// regulationWinPct returns regulation wins over games played, or 0.0
// when the record or either field is absent.
func regulationWinPct(rec *models.TeamStandingRecord) float64 {
	if rec == nil || rec.RegulationWins == nil || rec.GamesPlayed == nil || *rec.GamesPlayed == 0 {
		return 0.0
	}
	return float64(*rec.RegulationWins) / float64(*rec.GamesPlayed)
}

// specialTeamsMismatch computes the larger of the two power-play versus
// penalty-kill gaps, scaled from percentage points to [0,1]. Absent when
// neither pairing has both fields.
func specialTeamsMismatch(home, away *models.TeamStandingRecord) *float64 {
	var candidates []float64
	if home != nil && away != nil {
		if home.PowerPlayPct != nil && away.PenaltyKillPct != nil {
			candidates = append(candidates, math.Abs(*home.PowerPlayPct-*away.PenaltyKillPct)/100.0)
		}
		if away.PowerPlayPct != nil && home.PenaltyKillPct != nil {
			candidates = append(candidates, math.Abs(*away.PowerPlayPct-*home.PenaltyKillPct)/100.0)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c > best {
			best = c
		}
	}
	return &best
}

func xgShareDiff(shares models.XGShareMap, homeID, awayID int) *float64 {
	if shares == nil {
		return nil
	}
	home, homeOK := shares[homeID]
	away, awayOK := shares[awayID]
	if !homeOK || !awayOK {
		return nil
	}
	diff := math.Abs(home - away)
	return &diff
}

// dataConfidence scores the fraction of the major-input checklist that
// was successfully obtained, rounded to the nearest integer percent.
func dataConfidence(flags ...bool) int {
	if len(flags) == 0 {
		return 0
	}
	available := 0
	for _, ok := range flags {
		if ok {
			available++
		}
	}
	return int(math.Round(100 * float64(available) / float64(len(flags))))
}
