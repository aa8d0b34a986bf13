package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/regulation-radar/internal/analysis"
	"github.com/yourusername/regulation-radar/internal/config"
	"github.com/yourusername/regulation-radar/internal/models"
	"github.com/yourusername/regulation-radar/internal/service"
)

type fakeStats struct {
	matchups []models.Matchup
}

func (f *fakeStats) Name() string { return "fake" }

func (f *fakeStats) Teams(ctx context.Context) (models.TeamsMap, error) {
	return models.TeamsMap{
		1: {ID: 1, Abbreviation: "TOR"},
		2: {ID: 2, Abbreviation: "MTL"},
	}, nil
}

func (f *fakeStats) Schedule(ctx context.Context, date time.Time) ([]models.Matchup, error) {
	return f.matchups, nil
}

func (f *fakeStats) Standings(ctx context.Context) (models.StandingsSnapshot, error) {
	points := map[int]int{1: 62, 2: 44}
	snap := models.StandingsSnapshot{}
	for id, p := range points {
		p := p
		gp := 40
		rw := p / 3
		snap[id] = &models.TeamStandingRecord{Points: &p, GamesPlayed: &gp, RegulationWins: &rw}
	}
	return snap, nil
}

func (f *fakeStats) HeadToHead(ctx context.Context, teamA, teamB, maxGames int) ([]models.GameResult, error) {
	return []models.GameResult{}, nil
}

func (f *fakeStats) TeamRecentGames(ctx context.Context, teamID, count int) ([]models.GameResult, error) {
	return []models.GameResult{}, nil
}

func (f *fakeStats) PlayoffMeetingInSeasons(ctx context.Context, teamA, teamB, seasons int) bool {
	return false
}

func (f *fakeStats) DaysRest(ctx context.Context, teamID int, ref time.Time) *int {
	rest := 1
	return &rest
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	stats := &fakeStats{matchups: []models.Matchup{
		{GamePK: 2025020500, AwayID: 1, HomeID: 2, GameDate: time.Date(2026, 1, 15, 19, 0, 0, 0, time.UTC)},
	}}
	analyzer := service.NewAnalyzer(stats, analysis.DefaultParams(), nil)
	cfg := config.ServerConfig{Port: 0, ReadTimeoutSeconds: 5, WriteTimeoutSeconds: 10, MaxRows: 25}
	return New(cfg, analyzer, nil)
}

func TestGamesEndpoint(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.routes())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/games?date=2026-01-15")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	var payload GamesResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, "2026-01-15", payload.Date)
	require.Equal(t, 1, payload.Count)
	assert.Equal(t, "TOR @ MTL", payload.Games[0].Matchup)
	assert.Equal(t, "unknown", payload.Games[0].GoalieAway)
	assert.GreaterOrEqual(t, payload.Games[0].Confidence, 0)
	assert.LessOrEqual(t, payload.Games[0].Confidence, 100)
}

func TestGamesEndpointRejectsBadParams(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.routes())
	defer ts.Close()

	cases := []string{
		"/api/games?date=01-15-2026",
		"/api/games?max_rows=0",
		"/api/games?skip_flags=perhaps",
	}
	for _, path := range cases {
		resp, err := http.Get(ts.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
	}
}

func TestGamesEndpointMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.routes())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/games", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHealthzEndpoint(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.routes())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, "ok", payload.Status)
	assert.Equal(t, "regulation-radar", payload.Service)
}

func TestDashboardRenders(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.routes())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/?date=2026-01-15")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
}

func TestDashboardUnknownPathIs404(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.routes())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/nope")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHubNotifyDoesNotBlock(t *testing.T) {
	srv := newTestServer(t)

	slate := &service.Slate{Date: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)}
	// No Run loop draining the queue; the notice is dropped once the
	// buffer fills, never blocking the caller.
	for i := 0; i < 20; i++ {
		srv.Hub().NotifySlate(slate)
	}
}
