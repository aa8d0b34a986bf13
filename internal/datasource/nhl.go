package datasource

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strconv"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/regulation-radar/internal/models"
)

const (
	nhlSourceName      = "nhl_statsapi"
	teamsCacheKey      = "teams"
	teamsStaleCacheKey = "teams_stale"
	standingsCacheKey  = "standings"
	dateLayout         = "2006-01-02"
)

// NHLClientConfig holds configuration for the NHL stats API client
type NHLClientConfig struct {
	BaseURL           string
	TeamCacheTTL      time.Duration
	StandingsCacheTTL time.Duration
}

// NHLClient implements StatsSource against the league stats API.
type NHLClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	cache      *cache.Cache
	teamTTL    time.Duration
	standTTL   time.Duration
	logger     *logrus.Logger
}

// NewNHLClient creates a new stats API client.
func NewNHLClient(httpClient *RateLimitedHTTPClient, cfg NHLClientConfig, logger *logrus.Logger) *NHLClient {
	base := cfg.BaseURL
	if base == "" {
		base = "https://statsapi.web.nhl.com/api/v1"
	}
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &NHLClient{
		httpClient: httpClient,
		baseURL:    base,
		cache:      cache.New(cfg.TeamCacheTTL, 10*time.Minute),
		teamTTL:    cfg.TeamCacheTTL,
		standTTL:   cfg.StandingsCacheTTL,
		logger:     logger,
	}
}

// Name returns the name of the data source
func (c *NHLClient) Name() string { return nhlSourceName }

// Wire types for the stats API responses.

type nhlTeamsResponse struct {
	Teams []struct {
		ID           int    `json:"id"`
		Name         string `json:"name"`
		TeamName     string `json:"teamName"`
		ShortName    string `json:"shortName"`
		Abbreviation string `json:"abbreviation"`
	} `json:"teams"`
}

type nhlScheduleResponse struct {
	Dates []struct {
		Games []nhlGame `json:"games"`
	} `json:"dates"`
}

type nhlGame struct {
	GamePK   int64  `json:"gamePk"`
	GameDate string `json:"gameDate"`
	Teams    struct {
		Away nhlGameTeam `json:"away"`
		Home nhlGameTeam `json:"home"`
	} `json:"teams"`
	Linescore nhlLinescore `json:"linescore"`
}

type nhlGameTeam struct {
	Team struct {
		ID int `json:"id"`
	} `json:"team"`
	Score *int `json:"score"`
}

type nhlLinescore struct {
	CurrentPeriod int  `json:"currentPeriod"`
	HasShootout   bool `json:"hasShootout"`
	Periods       []struct {
		Num        int    `json:"num"`
		PeriodType string `json:"periodType"`
	} `json:"periods"`
}

type nhlStandingsResponse struct {
	Records []struct {
		TeamRecords []struct {
			Team struct {
				ID int `json:"id"`
			} `json:"team"`
			Points            *int        `json:"points"`
			PointsPercentage  *float64    `json:"pointsPercentage"`
			RegulationWins    *int        `json:"regulationWins"`
			GamesPlayed       *int        `json:"gamesPlayed"`
			PowerPlayPct      interface{} `json:"ppPct"` // may be number, string or absent
			PenaltyKillPct    interface{} `json:"pkPct"`
		} `json:"teamRecords"`
	} `json:"records"`
}

type nhlPlayoffsResponse struct {
	Rounds []struct {
		Series []struct {
			MatchupTeams []struct {
				Team struct {
					ID int `json:"id"`
				} `json:"team"`
			} `json:"matchupTeams"`
		} `json:"series"`
	} `json:"rounds"`
}

// Teams returns team metadata, cached and refreshed per the team TTL.
// On fetch failure a stale cached copy is tolerated.
func (c *NHLClient) Teams(ctx context.Context) (models.TeamsMap, error) {
	if cached, found := c.cache.Get(teamsCacheKey); found {
		if teams, ok := cached.(models.TeamsMap); ok {
			return teams, nil
		}
	}

	var resp nhlTeamsResponse
	if err := c.httpClient.GetJSON(ctx, c.baseURL+"/teams", &resp); err != nil {
		// Graceful fallback: serve the last good copy, however old.
		if stale, found := c.cache.Get(teamsStaleCacheKey); found {
			if teams, ok := stale.(models.TeamsMap); ok {
				c.logger.WithError(err).Warn("Serving stale team metadata after fetch failure")
				return teams, nil
			}
		}
		return nil, NewDataSourceError(nhlSourceName, ErrCodeNetworkError, "failed to fetch teams", err)
	}

	teams := make(models.TeamsMap, len(resp.Teams))
	for _, t := range resp.Teams {
		shortName := t.ShortName
		if shortName == "" {
			shortName = t.TeamName
		}
		teams[t.ID] = models.Team{
			ID:           t.ID,
			Name:         t.Name,
			TeamName:     t.TeamName,
			ShortName:    shortName,
			Abbreviation: t.Abbreviation,
		}
	}
	c.cache.Set(teamsCacheKey, teams, c.teamTTL)
	c.cache.Set(teamsStaleCacheKey, teams, cache.NoExpiration)
	return teams, nil
}

// Schedule returns the matchups scheduled on the given date.
func (c *NHLClient) Schedule(ctx context.Context, date time.Time) ([]models.Matchup, error) {
	endpoint := fmt.Sprintf("%s/schedule?date=%s", c.baseURL, date.Format(dateLayout))

	var resp nhlScheduleResponse
	if err := c.httpClient.GetJSON(ctx, endpoint, &resp); err != nil {
		return nil, NewDataSourceError(nhlSourceName, ErrCodeNetworkError, "failed to fetch schedule", err)
	}

	var matchups []models.Matchup
	for _, block := range resp.Dates {
		for _, g := range block.Games {
			matchups = append(matchups, models.Matchup{
				GamePK:   g.GamePK,
				AwayID:   g.Teams.Away.Team.ID,
				HomeID:   g.Teams.Home.Team.ID,
				GameDate: parseGameDate(g.GameDate, date),
			})
		}
	}
	return matchups, nil
}

// Standings returns the current standings snapshot, cached per the
// standings TTL.
func (c *NHLClient) Standings(ctx context.Context) (models.StandingsSnapshot, error) {
	if cached, found := c.cache.Get(standingsCacheKey); found {
		if standings, ok := cached.(models.StandingsSnapshot); ok {
			return standings, nil
		}
	}

	var resp nhlStandingsResponse
	if err := c.httpClient.GetJSON(ctx, c.baseURL+"/standings", &resp); err != nil {
		return nil, NewDataSourceError(nhlSourceName, ErrCodeNetworkError, "failed to fetch standings", err)
	}

	standings := make(models.StandingsSnapshot)
	for _, rec := range resp.Records {
		for _, tr := range rec.TeamRecords {
			standings[tr.Team.ID] = &models.TeamStandingRecord{
				Points:         tr.Points,
				PointsPct:      tr.PointsPercentage,
				GamesPlayed:    tr.GamesPlayed,
				RegulationWins: tr.RegulationWins,
				PowerPlayPct:   coerceFloat(tr.PowerPlayPct),
				PenaltyKillPct: coerceFloat(tr.PenaltyKillPct),
			}
		}
	}
	c.cache.Set(standingsCacheKey, standings, c.standTTL)
	return standings, nil
}

// HeadToHead returns up to maxGames games between the two teams, most
// recent first. Games involving either team against anyone else are
// filtered out.
func (c *NHLClient) HeadToHead(ctx context.Context, teamA, teamB, maxGames int) ([]models.GameResult, error) {
	params := url.Values{}
	params.Set("teamId", fmt.Sprintf("%d,%d", teamA, teamB))
	params.Set("expand", "schedule.linescore")
	endpoint := c.baseURL + "/schedule?" + params.Encode()

	var resp nhlScheduleResponse
	if err := c.httpClient.GetJSON(ctx, endpoint, &resp); err != nil {
		return nil, NewDataSourceError(nhlSourceName, ErrCodeNetworkError, "failed to fetch head-to-head games", err)
	}

	games := make([]models.GameResult, 0, maxGames)
	for _, block := range resp.Dates {
		for _, g := range block.Games {
			away, home := g.Teams.Away.Team.ID, g.Teams.Home.Team.ID
			if !samePair(away, home, teamA, teamB) {
				continue
			}
			games = append(games, toGameResult(g))
		}
	}
	sortGamesDesc(games)
	if len(games) > maxGames {
		games = games[:maxGames]
	}
	return games, nil
}

// TeamRecentGames returns up to count of the team's most recent games,
// most recent first.
func (c *NHLClient) TeamRecentGames(ctx context.Context, teamID, count int) ([]models.GameResult, error) {
	params := url.Values{}
	params.Set("teamId", strconv.Itoa(teamID))
	params.Set("expand", "schedule.linescore")
	endpoint := c.baseURL + "/schedule?" + params.Encode()

	var resp nhlScheduleResponse
	if err := c.httpClient.GetJSON(ctx, endpoint, &resp); err != nil {
		return nil, NewDataSourceError(nhlSourceName, ErrCodeNetworkError, "failed to fetch recent games", err)
	}

	games := make([]models.GameResult, 0, count)
	for _, block := range resp.Dates {
		for _, g := range block.Games {
			games = append(games, toGameResult(g))
		}
	}
	sortGamesDesc(games)
	if len(games) > count {
		games = games[:count]
	}
	return games, nil
}

// PlayoffMeetingInSeasons scans the playoff brackets of the last seasons
// for a series between the two teams. Any lookup failure reports false.
func (c *NHLClient) PlayoffMeetingInSeasons(ctx context.Context, teamA, teamB, seasons int) bool {
	now := time.Now().UTC()
	seasonStart := now.Year()
	if now.Month() < time.July {
		seasonStart--
	}

	for s := 0; s < seasons; s++ {
		year := seasonStart - s
		endpoint := fmt.Sprintf("%s/tournaments/playoffs?season=%d%d", c.baseURL, year, year+1)

		var resp nhlPlayoffsResponse
		if err := c.httpClient.GetJSON(ctx, endpoint, &resp); err != nil {
			c.logger.WithField("season", year).WithError(err).Debug("Playoff bracket lookup failed")
			return false
		}
		for _, round := range resp.Rounds {
			for _, series := range round.Series {
				if len(series.MatchupTeams) < 2 {
					continue
				}
				a := series.MatchupTeams[0].Team.ID
				b := series.MatchupTeams[1].Team.ID
				if samePair(a, b, teamA, teamB) {
					return true
				}
			}
		}
	}
	return false
}

// DaysRest returns the days between the team's most recent game before
// the reference date and the reference date, minus one (zero means a
// back-to-back). Nil when no prior game could be determined.
func (c *NHLClient) DaysRest(ctx context.Context, teamID int, ref time.Time) *int {
	games, err := c.TeamRecentGames(ctx, teamID, 5)
	if err != nil {
		return nil
	}

	refDate := ref.UTC().Truncate(24 * time.Hour)
	for i := range games {
		playedDate := games[i].GameDate.UTC().Truncate(24 * time.Hour)
		if playedDate.Before(refDate) {
			days := int(refDate.Sub(playedDate).Hours()/24) - 1
			return &days
		}
	}
	return nil
}

func toGameResult(g nhlGame) models.GameResult {
	periods := make([]models.LinescorePeriod, 0, len(g.Linescore.Periods))
	for _, p := range g.Linescore.Periods {
		periods = append(periods, models.LinescorePeriod{Num: p.Num, Type: p.PeriodType})
	}
	return models.GameResult{
		GamePK:    g.GamePK,
		GameDate:  parseGameDate(g.GameDate, time.Time{}),
		AwayID:    g.Teams.Away.Team.ID,
		HomeID:    g.Teams.Home.Team.ID,
		AwayScore: g.Teams.Away.Score,
		HomeScore: g.Teams.Home.Score,
		Linescore: models.Linescore{
			CurrentPeriod: g.Linescore.CurrentPeriod,
			HasShootout:   g.Linescore.HasShootout,
			Periods:       periods,
		},
	}
}

func parseGameDate(raw string, fallback time.Time) time.Time {
	if raw == "" {
		return fallback
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t
	}
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t
	}
	return fallback
}

func samePair(a, b, x, y int) bool {
	return (a == x && b == y) || (a == y && b == x)
}

func sortGamesDesc(games []models.GameResult) {
	sort.SliceStable(games, func(i, j int) bool {
		return games[i].GameDate.After(games[j].GameDate)
	})
}

// coerceFloat converts a loosely typed standings field to a float.
// Malformed values degrade to absent rather than failing the snapshot.
func coerceFloat(v interface{}) *float64 {
	switch val := v.(type) {
	case float64:
		return &val
	case int:
		f := float64(val)
		return &f
	case string:
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}
