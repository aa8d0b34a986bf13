// Package config provides configuration management for Regulation Radar.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	NHLAPI    NHLAPIConfig    `mapstructure:"nhl_api" validate:"required"`
	XG        XGConfig        `mapstructure:"xg"`
	Odds      OddsConfig      `mapstructure:"odds"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Metrics   MetricsConfig   `mapstructure:"metrics" validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Features  FeaturesConfig  `mapstructure:"features"`
	Analysis  AnalysisConfig  `mapstructure:"analysis"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// NHLAPIConfig represents the NHL stats API client configuration
type NHLAPIConfig struct {
	BaseURL                  string  `mapstructure:"base_url" validate:"required,url"`
	TimeoutSeconds           int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries               int     `mapstructure:"max_retries" validate:"gte=0"`
	RateLimit                float64 `mapstructure:"rate_limit" validate:"required,gt=0"`
	TeamCacheTTLSeconds      int     `mapstructure:"team_cache_ttl_seconds" validate:"required,gt=0"`
	StandingsCacheTTLSeconds int     `mapstructure:"standings_cache_ttl_seconds" validate:"required,gt=0"`
}

// XGConfig represents the expected-goals share data source configuration
type XGConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	URL             string `mapstructure:"url" validate:"omitempty,url"`
	CacheTTLSeconds int    `mapstructure:"cache_ttl_seconds" validate:"omitempty,gt=0"`
}

// OddsConfig represents the market odds data source configuration
type OddsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url" validate:"omitempty,url"`
	APIKey  string `mapstructure:"api_key"`
}

// DatabaseConfig represents the optional prediction store configuration
type DatabaseConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name           string `mapstructure:"name"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"omitempty,gt=0"`
}

// ServerConfig represents the HTTP API server configuration
type ServerConfig struct {
	Port                int `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadTimeoutSeconds  int `mapstructure:"read_timeout_seconds" validate:"required,gt=0"`
	WriteTimeoutSeconds int `mapstructure:"write_timeout_seconds" validate:"required,gt=0"`
	MaxRows             int `mapstructure:"max_rows" validate:"required,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required"`
}

// SchedulerConfig represents background refresh scheduling
type SchedulerConfig struct {
	TeamRefreshCron             string `mapstructure:"team_refresh_cron"`
	SlateRefreshIntervalSeconds int    `mapstructure:"slate_refresh_interval_seconds" validate:"omitempty,gt=0"`
}

// FeaturesConfig represents feature flags
type FeaturesConfig struct {
	PersistPredictions bool `mapstructure:"persist_predictions"`
	LiveRefreshEnabled bool `mapstructure:"live_refresh_enabled"`
}

// AnalysisConfig holds optional overrides for the scoring model
// parameters. Absent fields keep their hand-tuned defaults; weights are
// overlaid by key.
type AnalysisConfig struct {
	H2HLookbackPrimary        *int     `mapstructure:"h2h_lookback_primary"`
	H2HLookbackFallback       *int     `mapstructure:"h2h_lookback_fallback"`
	H2HOTRatePenaltyThreshold *float64 `mapstructure:"h2h_ot_rate_penalty_threshold"`

	PlayoffRivalryLookbackSeasons *int `mapstructure:"playoff_rivalry_lookback_seasons"`

	EvenlyMatchedStandingsGapMax  *int     `mapstructure:"evenly_matched_standings_gap_max"`
	EvenlyMatchedRegWinPctDiffMax *float64 `mapstructure:"evenly_matched_reg_win_pct_diff_max"`
	EvenlyMatchedXGShareDiffMax   *float64 `mapstructure:"evenly_matched_xg_share_diff_max"`

	TeamOTRateLookbackGames     *int     `mapstructure:"team_ot_rate_lookback_games"`
	TeamOTRateBothHighThreshold *float64 `mapstructure:"team_ot_rate_both_high_threshold"`

	LowTotalThreshold *float64 `mapstructure:"low_total_threshold"`

	Weights map[string]float64 `mapstructure:"weights"`

	ScoreMin *float64 `mapstructure:"score_min"`
	ScoreMax *float64 `mapstructure:"score_max"`

	SkipIfRivalryOrEven *bool `mapstructure:"skip_if_rivalry_or_even"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// NHLAPITimeout returns the stats API request timeout
func (c *Config) NHLAPITimeout() time.Duration {
	return time.Duration(c.NHLAPI.TimeoutSeconds) * time.Second
}

// SlateRefreshInterval returns the background slate recompute interval
func (c *Config) SlateRefreshInterval() time.Duration {
	return time.Duration(c.Scheduler.SlateRefreshIntervalSeconds) * time.Second
}
