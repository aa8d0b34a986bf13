package datasource

import (
	"context"
	"errors"
	"time"

	"github.com/yourusername/regulation-radar/internal/models"
)

// StatsSource defines the interface for fetching hockey data from the
// league stats provider.
type StatsSource interface {
	// Teams returns metadata for all teams, keyed by team id.
	Teams(ctx context.Context) (models.TeamsMap, error)

	// Schedule returns the matchups scheduled on the given date.
	Schedule(ctx context.Context, date time.Time) ([]models.Matchup, error)

	// Standings returns the current standings snapshot.
	Standings(ctx context.Context) (models.StandingsSnapshot, error)

	// HeadToHead returns up to maxGames games between the two teams,
	// most recent first. An empty result is not an error.
	HeadToHead(ctx context.Context, teamA, teamB, maxGames int) ([]models.GameResult, error)

	// TeamRecentGames returns up to count of the team's most recent
	// games, most recent first.
	TeamRecentGames(ctx context.Context, teamID, count int) ([]models.GameResult, error)

	// PlayoffMeetingInSeasons reports whether the two teams met in a
	// playoff series within the last seasons. Lookup failures report
	// false rather than erroring.
	PlayoffMeetingInSeasons(ctx context.Context, teamA, teamB, seasons int) bool

	// DaysRest returns the days since the team's previous game before
	// the reference date, or nil when undeterminable.
	DaysRest(ctx context.Context, teamID int, ref time.Time) *int

	// Name returns the name of the data source
	Name() string
}

// XGSource provides the trailing-window expected-goals share metric.
type XGSource interface {
	// ShareByTeam returns each team's xG share in [0,1], or an error
	// when the metric is unavailable.
	ShareByTeam(ctx context.Context) (models.XGShareMap, error)
}

// OddsSource provides market totals for scheduled games.
type OddsSource interface {
	// TotalsByGame returns market quotes keyed by game id for the date.
	TotalsByGame(ctx context.Context, date time.Time) (models.OddsMap, error)
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e DataSourceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded = "rate_limit_exceeded"
	ErrCodeNotFound          = "not_found"
	ErrCodeInvalidData       = "invalid_data"
	ErrCodeNetworkError      = "network_error"
	ErrCodeServerError       = "server_error"
	ErrCodeUnknown           = "unknown"
)

// Error constructors
var (
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	ErrNotFound          = errors.New("data not found")
	ErrInvalidData       = errors.New("invalid data format")
	ErrNetworkError      = errors.New("network error")
	ErrServerError       = errors.New("server error")
)

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
