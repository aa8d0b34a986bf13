// Package main provides the slate analysis CLI.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/regulation-radar/internal/analysis"
	"github.com/yourusername/regulation-radar/internal/config"
	"github.com/yourusername/regulation-radar/internal/datasource"
	"github.com/yourusername/regulation-radar/internal/logger"
	"github.com/yourusername/regulation-radar/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile string
	dateFlag   string
	maxRows    int
	skipFlags  bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().StringVar(&dateFlag, "date", "", "Slate date (YYYY-MM-DD), defaults to today")
	rootCmd.Flags().IntVar(&maxRows, "max-rows", 0, "Limit output rows (0 = server default)")
	rootCmd.Flags().BoolVar(&skipFlags, "skip-flags", false, "Exclude rivalry/evenly-matched games")
}

var rootCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Rank today's games by regulation-finish confidence",
	Long: `Fetches the day's schedule, standings and optional market data,
extracts overtime-risk signals per matchup and prints the slate ranked
by regulation-finish confidence.`,
	Version: fmt.Sprintf("%s (%s)", Version, GitCommit),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
	cfg, err := config.LoadWithDefaults(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Keep the table clean; diagnostics go to stderr.
	appLogger := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	appLogger.SetOutput(os.Stderr)

	date, err := resolveDate(dateFlag)
	if err != nil {
		return err
	}

	params, err := analysis.FromConfig(&cfg.Analysis)
	if err != nil {
		return fmt.Errorf("invalid analysis overrides: %w", err)
	}

	analyzer, err := buildAnalyzer(cfg, params, appLogger)
	if err != nil {
		return err
	}

	opts := service.SlateOptions{MaxRows: cfg.Server.MaxRows, SkipFlags: skipFlags}
	if maxRows > 0 {
		opts.MaxRows = maxRows
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	slate, err := analyzer.Slate(ctx, date, opts)
	if err != nil {
		return err
	}

	printSlate(slate)
	return nil
}

func buildAnalyzer(cfg *config.Config, params analysis.Params, appLogger *logrus.Logger) (*service.Analyzer, error) {
	httpCfg := datasource.DefaultHTTPClientConfig()
	httpCfg.Timeout = cfg.NHLAPITimeout()
	httpCfg.MaxRetries = cfg.NHLAPI.MaxRetries
	httpCfg.RateLimit = cfg.NHLAPI.RateLimit
	httpClient := datasource.NewRateLimitedHTTPClient(httpCfg, appLogger)

	stats := datasource.NewNHLClient(httpClient, datasource.NHLClientConfig{
		BaseURL:           cfg.NHLAPI.BaseURL,
		TeamCacheTTL:      time.Duration(cfg.NHLAPI.TeamCacheTTLSeconds) * time.Second,
		StandingsCacheTTL: time.Duration(cfg.NHLAPI.StandingsCacheTTLSeconds) * time.Second,
	}, appLogger)

	opts := []service.AnalyzerOption{}
	if cfg.XG.Enabled {
		xg := datasource.NewXGClient(httpClient, datasource.XGClientConfig{
			BaseURL:  cfg.XG.URL,
			CacheTTL: time.Duration(cfg.XG.CacheTTLSeconds) * time.Second,
		}, appLogger)
		opts = append(opts, service.WithXGSource(xg))
	}
	if cfg.Odds.Enabled {
		odds := datasource.NewOddsClient(httpClient, datasource.OddsClientConfig{
			BaseURL: cfg.Odds.URL,
			APIKey:  cfg.Odds.APIKey,
		}, appLogger)
		opts = append(opts, service.WithOddsSource(odds))
	}

	return service.NewAnalyzer(stats, params, appLogger, opts...), nil
}

func resolveDate(raw string) (time.Time, error) {
	if raw == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q, expected YYYY-MM-DD", raw)
	}
	return date, nil
}

func printSlate(slate *service.Slate) {
	if len(slate.Games) == 0 {
		fmt.Printf("No games on %s\n", slate.Date.Format("2006-01-02"))
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "MATCHUP\tH2H OT%\tEVEN\tREST A/H\tGOALIE A/H\tCONF%\tDATACONF\tREASON")
	for _, g := range slate.Games {
		fmt.Fprintf(w, "%s\t%d%%\t%s\t%s/%s\t%s/%s\t%d\t%d\t%s\n",
			g.Label,
			int(g.Head2HeadOTRate*100+0.5),
			yesNo(g.EvenlyMatched),
			restStr(g.DaysRestAway), restStr(g.DaysRestHome),
			g.GoalieStatusAway, g.GoalieStatusHome,
			g.Confidence,
			g.DataConfidence,
			g.Reason,
		)
	}
	w.Flush()
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func restStr(v *int) string {
	if v == nil {
		return "?"
	}
	return fmt.Sprintf("%d", *v)
}
