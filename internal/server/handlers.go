package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/yourusername/regulation-radar/internal/service"
)

// GameRow is the compact per-game API payload.
type GameRow struct {
	Matchup        string   `json:"matchup"`
	GamePK         int64    `json:"game_pk"`
	AwayID         int      `json:"away_id"`
	HomeID         int      `json:"home_id"`
	Head2HeadOTPct int      `json:"h2h_ot_pct"`
	EvenlyMatched  bool     `json:"evenly_matched"`
	DaysRestAway   *int     `json:"days_rest_away"`
	DaysRestHome   *int     `json:"days_rest_home"`
	GoalieAway     string   `json:"goalie_away"`
	GoalieHome     string   `json:"goalie_home"`
	ImpliedTotal   *float64 `json:"implied_total"`
	Confidence     int      `json:"confidence"`
	DataConfidence int      `json:"data_confidence"`
	Reason         string   `json:"reason"`
}

// GamesResponse is the /api/games payload.
type GamesResponse struct {
	Date  string    `json:"date"`
	Count int       `json:"count"`
	Games []GameRow `json:"games"`
}

// HealthResponse represents the JSON response for the health endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
	Database  string `json:"database,omitempty"`
}

func (s *Server) handleGames(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	date, err := parseDateParam(r.URL.Query().Get("date"))
	if err != nil {
		http.Error(w, "invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	opts := service.SlateOptions{MaxRows: s.cfg.MaxRows}
	if raw := r.URL.Query().Get("max_rows"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			http.Error(w, "invalid max_rows", http.StatusBadRequest)
			return
		}
		opts.MaxRows = n
	}
	if raw := r.URL.Query().Get("skip_flags"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			http.Error(w, "invalid skip_flags", http.StatusBadRequest)
			return
		}
		opts.SkipFlags = v
	}

	slate, err := s.analyzer.Slate(r.Context(), date, opts)
	if err != nil {
		s.logger.WithError(err).Error("Slate computation failed")
		http.Error(w, "failed to compute slate", http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, toGamesResponse(slate))
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:    "ok",
		Service:   "regulation-radar",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	status := http.StatusOK
	if s.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		if err := s.db.Ping(ctx); err != nil {
			resp.Status = "degraded"
			resp.Database = err.Error()
			status = http.StatusServiceUnavailable
		} else {
			resp.Database = "ok"
		}
	}

	writeJSON(w, status, resp)
}

func toGamesResponse(slate *service.Slate) GamesResponse {
	games := make([]GameRow, 0, len(slate.Games))
	for _, g := range slate.Games {
		games = append(games, GameRow{
			Matchup:        g.Label,
			GamePK:         g.GamePK,
			AwayID:         g.AwayID,
			HomeID:         g.HomeID,
			Head2HeadOTPct: int(g.Head2HeadOTRate*100 + 0.5),
			EvenlyMatched:  g.EvenlyMatched,
			DaysRestAway:   g.DaysRestAway,
			DaysRestHome:   g.DaysRestHome,
			GoalieAway:     string(g.GoalieStatusAway),
			GoalieHome:     string(g.GoalieStatusHome),
			ImpliedTotal:   g.ImpliedTotal,
			Confidence:     g.Confidence,
			DataConfidence: g.DataConfidence,
			Reason:         g.Reason,
		})
	}
	return GamesResponse{
		Date:  slate.Date.Format("2006-01-02"),
		Count: len(games),
		Games: games,
	}
}

// parseDateParam defaults an absent date to today (UTC).
func parseDateParam(raw string) (time.Time, error) {
	if raw == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Parse("2006-01-02", raw)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
