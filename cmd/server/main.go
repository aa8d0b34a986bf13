// Package main provides the entry point for the slate API server.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/regulation-radar/internal/analysis"
	"github.com/yourusername/regulation-radar/internal/config"
	"github.com/yourusername/regulation-radar/internal/database"
	"github.com/yourusername/regulation-radar/internal/datasource"
	"github.com/yourusername/regulation-radar/internal/logger"
	"github.com/yourusername/regulation-radar/internal/metrics"
	"github.com/yourusername/regulation-radar/internal/repository"
	"github.com/yourusername/regulation-radar/internal/scheduler"
	"github.com/yourusername/regulation-radar/internal/server"
	"github.com/yourusername/regulation-radar/internal/service"
)

func main() {
	configFile := flag.String("config", "./config/config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadWithDefaults(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load AWS secrets if enabled
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLogger := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	metrics.InitRegistry()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.WithError(err).Fatal("Server exited with error")
	}
}

func run(ctx context.Context, cfg *config.Config, appLogger *logrus.Logger) error {
	params, err := analysis.FromConfig(&cfg.Analysis)
	if err != nil {
		return err
	}

	httpCfg := datasource.DefaultHTTPClientConfig()
	httpCfg.Timeout = cfg.NHLAPITimeout()
	httpCfg.MaxRetries = cfg.NHLAPI.MaxRetries
	httpCfg.RateLimit = cfg.NHLAPI.RateLimit
	httpClient := datasource.NewRateLimitedHTTPClient(httpCfg, appLogger)
	defer httpClient.Close()

	stats := datasource.NewNHLClient(httpClient, datasource.NHLClientConfig{
		BaseURL:           cfg.NHLAPI.BaseURL,
		TeamCacheTTL:      time.Duration(cfg.NHLAPI.TeamCacheTTLSeconds) * time.Second,
		StandingsCacheTTL: time.Duration(cfg.NHLAPI.StandingsCacheTTLSeconds) * time.Second,
	}, appLogger)

	analyzerOpts := []service.AnalyzerOption{}
	if cfg.XG.Enabled {
		xg := datasource.NewXGClient(httpClient, datasource.XGClientConfig{
			BaseURL:  cfg.XG.URL,
			CacheTTL: time.Duration(cfg.XG.CacheTTLSeconds) * time.Second,
		}, appLogger)
		analyzerOpts = append(analyzerOpts, service.WithXGSource(xg))
	}
	if cfg.Odds.Enabled {
		odds := datasource.NewOddsClient(httpClient, datasource.OddsClientConfig{
			BaseURL: cfg.Odds.URL,
			APIKey:  cfg.Odds.APIKey,
		}, appLogger)
		analyzerOpts = append(analyzerOpts, service.WithOddsSource(odds))
	}

	serverOpts := []server.Option{}

	var db *database.DB
	if cfg.Database.Enabled {
		db, err = database.Initialize(ctx, cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		repos, err := repository.NewRepositories(db)
		if err != nil {
			return err
		}
		analyzerOpts = append(analyzerOpts, service.WithPredictionRepository(repos.Prediction))
		serverOpts = append(serverOpts, server.WithDatabasePinger(db))
	}

	if cfg.Metrics.Enabled {
		serverOpts = append(serverOpts, server.WithMetricsEndpoint())
	}

	analyzer := service.NewAnalyzer(stats, params, appLogger, analyzerOpts...)
	srv := server.New(cfg.Server, analyzer, appLogger, serverOpts...)

	if cfg.Features.LiveRefreshEnabled {
		sched := scheduler.NewScheduler(analyzer, stats, appLogger)
		if cfg.Scheduler.TeamRefreshCron != "" {
			if err := sched.ScheduleTeamRefresh(cfg.Scheduler.TeamRefreshCron); err != nil {
				return err
			}
		}
		refreshOpts := service.SlateOptions{
			MaxRows: cfg.Server.MaxRows,
			Persist: cfg.Features.PersistPredictions,
		}
		if err := sched.ScheduleSlateRefresh(cfg.Scheduler.SlateRefreshIntervalSeconds, refreshOpts, srv.Hub().NotifySlate); err != nil {
			return err
		}
		if err := sched.Start(); err != nil {
			return err
		}
		defer sched.Stop()
	}

	appLogger.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"port":        cfg.Server.Port,
	}).Info("Regulation Radar server starting")

	return srv.Start(ctx)
}
