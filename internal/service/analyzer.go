package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/regulation-radar/internal/analysis"
	"github.com/yourusername/regulation-radar/internal/datasource"
	"github.com/yourusername/regulation-radar/internal/logger"
	"github.com/yourusername/regulation-radar/internal/metrics"
	"github.com/yourusername/regulation-radar/internal/models"
	"github.com/yourusername/regulation-radar/internal/repository"
)

const defaultConcurrency = 4

// SlateOptions controls one slate computation.
type SlateOptions struct {
	// MaxRows truncates the ranked slate; zero means no limit.
	MaxRows int

	// SkipFlags enables the rivalry/evenly-matched exclusion filter.
	SkipFlags bool

	// Persist stores the scored slate when a prediction repository is
	// configured.
	Persist bool
}

// ScoredGame is one ranked row of a slate.
type ScoredGame struct {
	GamePK   int64     `json:"game_pk"`
	GameDate time.Time `json:"game_date"`
	Label    string    `json:"matchup"`
	models.ScoredMatchup
}

// Slate is the ranked output for one date.
type Slate struct {
	Date  time.Time    `json:"date"`
	Games []ScoredGame `json:"games"`
}

// Analyzer orchestrates a full slate computation: fetch the day's
// schedule and shared context once, then extract and score each matchup
// independently.
type Analyzer struct {
	stats       datasource.StatsSource
	xg          datasource.XGSource
	odds        datasource.OddsSource
	params      analysis.Params
	repo        repository.PredictionRepository
	logger      *logrus.Logger
	slateLog    *logger.SlateLogger
	concurrency int
}

// AnalyzerOption configures optional analyzer collaborators.
type AnalyzerOption func(*Analyzer)

// WithXGSource attaches an expected-goals provider.
func WithXGSource(xg datasource.XGSource) AnalyzerOption {
	return func(a *Analyzer) { a.xg = xg }
}

// WithOddsSource attaches a market totals provider.
func WithOddsSource(odds datasource.OddsSource) AnalyzerOption {
	return func(a *Analyzer) { a.odds = odds }
}

// WithPredictionRepository attaches a store for scored slates.
func WithPredictionRepository(repo repository.PredictionRepository) AnalyzerOption {
	return func(a *Analyzer) { a.repo = repo }
}

// WithConcurrency bounds the per-matchup fan-out.
func WithConcurrency(n int) AnalyzerOption {
	return func(a *Analyzer) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

// NewAnalyzer creates a slate analyzer.
func NewAnalyzer(stats datasource.StatsSource, params analysis.Params, baseLogger *logrus.Logger, opts ...AnalyzerOption) *Analyzer {
	if baseLogger == nil {
		baseLogger = logrus.New()
		baseLogger.SetOutput(io.Discard)
	}
	a := &Analyzer{
		stats:       stats,
		params:      params,
		logger:      baseLogger,
		slateLog:    logger.NewSlateLogger(baseLogger),
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Slate computes the ranked slate for one date. Shared context (teams,
// standings, xG shares, odds) is fetched once; each matchup is then
// extracted and scored independently, so one matchup's failure never
// blocks the rest.
func (a *Analyzer) Slate(ctx context.Context, date time.Time, opts SlateOptions) (*Slate, error) {
	start := time.Now()

	matchups, err := a.stats.Schedule(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedule: %w", err)
	}
	if len(matchups) == 0 {
		a.logger.WithField("date", date.Format("2006-01-02")).Info("No games scheduled")
		return &Slate{Date: date}, nil
	}

	teams, standings, xgShares, odds := a.fetchContext(ctx, date)

	extractor := analysis.NewExtractor(a.params, a.stats, a.logger)

	// One result slot per matchup; writers never share an index.
	results := make([]*ScoredGame, len(matchups))

	skippedSlots := make([]bool, len(matchups))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i, m := range matchups {
		i, m := i, m
		g.Go(func() error {
			results[i], skippedSlots[i] = a.scoreOne(gctx, extractor, m, teams, standings, xgShares, odds, opts)
			return nil
		})
	}
	// Workers never return errors; per-matchup failures degrade in place.
	_ = g.Wait()

	games := make([]ScoredGame, 0, len(matchups))
	skipped := 0
	for i, r := range results {
		if r != nil {
			games = append(games, *r)
		}
		if skippedSlots[i] {
			skipped++
		}
	}
	sort.SliceStable(games, func(i, j int) bool {
		return games[i].Confidence > games[j].Confidence
	})
	if opts.MaxRows > 0 && len(games) > opts.MaxRows {
		games = games[:opts.MaxRows]
	}

	slate := &Slate{Date: date, Games: games}
	a.recordSlateMetrics(slate, time.Since(start))

	if opts.Persist && a.repo != nil {
		if err := a.persist(ctx, slate); err != nil {
			a.logger.WithError(err).Error("Failed to persist slate")
		}
	}

	a.slateLog.LogSlateComputed(date, len(games), skipped, float64(time.Since(start).Milliseconds()))

	return slate, nil
}

// fetchContext gathers the slate-wide inputs. Each one degrades
// independently: a missing snapshot weakens the affected signals but
// never aborts the slate.
func (a *Analyzer) fetchContext(ctx context.Context, date time.Time) (models.TeamsMap, models.StandingsSnapshot, models.XGShareMap, models.OddsMap) {
	teams, err := a.stats.Teams(ctx)
	if err != nil {
		a.logger.WithError(err).Warn("Failed to fetch teams, labels degrade to ids")
		metrics.RecordDataSourceError(a.stats.Name())
		teams = models.TeamsMap{}
	}

	standings, err := a.stats.Standings(ctx)
	if err != nil {
		a.logger.WithError(err).Warn("Failed to fetch standings")
		metrics.RecordDataSourceError(a.stats.Name())
		standings = models.StandingsSnapshot{}
	}

	var xgShares models.XGShareMap
	if a.xg != nil {
		if xgShares, err = a.xg.ShareByTeam(ctx); err != nil {
			a.logger.WithError(err).Warn("Failed to fetch xG shares")
			metrics.RecordDataSourceError("xg_provider")
			xgShares = nil
		}
	}

	var odds models.OddsMap
	if a.odds != nil {
		if odds, err = a.odds.TotalsByGame(ctx, date); err != nil {
			a.logger.WithError(err).Warn("Failed to fetch market totals")
			metrics.RecordDataSourceError("odds_provider")
			odds = nil
		}
	}

	return teams, standings, xgShares, odds
}

func (a *Analyzer) scoreOne(
	ctx context.Context,
	extractor *analysis.Extractor,
	m models.Matchup,
	teams models.TeamsMap,
	standings models.StandingsSnapshot,
	xgShares models.XGShareMap,
	odds models.OddsMap,
	opts SlateOptions,
) (game *ScoredGame, skipped bool) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			a.logger.WithFields(logrus.Fields{
				"game_pk": m.GamePK,
				"panic":   r,
			}).Error("Matchup scoring panicked")
			metrics.RecordMatchupFailure()
			game, skipped = nil, false
		}
	}()

	signals := extractor.ComputeSignals(ctx, m, standings, odds[m.GamePK], xgShares)

	if opts.SkipFlags && analysis.ShouldSkip(a.params, signals) {
		a.slateLog.LogMatchupSkipped(m.GamePK, matchupLabel(teams, m), signals.Reason)
		metrics.RecordMatchupSkipped()
		return nil, true
	}

	scored := analysis.Score(a.params, signals)
	metrics.RecordMatchupScored(time.Since(start).Seconds())
	a.slateLog.LogMatchupScored(m.GamePK, matchupLabel(teams, m), scored.Confidence, scored.DataConfidence, scored.Reason)

	return &ScoredGame{
		GamePK:        m.GamePK,
		GameDate:      m.GameDate,
		Label:         matchupLabel(teams, m),
		ScoredMatchup: scored,
	}, false
}

func (a *Analyzer) persist(ctx context.Context, slate *Slate) error {
	predictions := make([]*models.Prediction, 0, len(slate.Games))
	for _, g := range slate.Games {
		predictions = append(predictions, &models.Prediction{
			GamePK:         g.GamePK,
			GameDate:       slate.Date,
			AwayID:         g.AwayID,
			HomeID:         g.HomeID,
			Score:          g.Score,
			Confidence:     g.Confidence,
			DataConfidence: g.DataConfidence,
			Reason:         g.Reason,
		})
	}
	return a.repo.SaveSlate(ctx, slate.Date, predictions)
}

func (a *Analyzer) recordSlateMetrics(slate *Slate, elapsed time.Duration) {
	metrics.RecordSlateComputed(len(slate.Games), elapsed.Seconds())
	if len(slate.Games) == 0 {
		return
	}
	metrics.SlateTopConfidence.Set(float64(slate.Games[0].Confidence))

	sum := 0
	for _, g := range slate.Games {
		sum += g.DataConfidence
	}
	metrics.SlateAvgDataConfidence.Set(float64(sum) / float64(len(slate.Games)))
}

func matchupLabel(teams models.TeamsMap, m models.Matchup) string {
	return fmt.Sprintf("%s @ %s", teams.Abbreviation(m.AwayID), teams.Abbreviation(m.HomeID))
}
