package server

import (
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/yourusername/regulation-radar/internal/service"
)

// fmtRest renders an unknown rest count as "?".
func fmtRest(v *int) string {
	if v == nil {
		return "?"
	}
	return strconv.Itoa(*v)
}

var dashboardTmpl = template.Must(template.New("dashboard").Funcs(template.FuncMap{
	"fmtRest": fmtRest,
}).Parse(`<!DOCTYPE html>
<html>
<head>
<title>Regulation Radar</title>
<style>
body { font-family: monospace; margin: 2em; background: #101418; color: #d8dee4; }
h1 { font-size: 1.3em; }
table { border-collapse: collapse; width: 100%; }
th, td { padding: 6px 10px; text-align: left; border-bottom: 1px solid #2a3138; }
th { color: #8fa3b0; }
tr.high td:nth-child(6) { color: #6fd174; }
.muted { color: #5c6770; }
</style>
</head>
<body>
<h1>Regulation Radar &mdash; {{.Date}}</h1>
<p class="muted">{{.Count}} games, ranked by regulation-finish confidence. Updated {{.Updated}}.</p>
<table>
<tr><th>Matchup</th><th>H2H OT%</th><th>Even</th><th>Rest A/H</th><th>Goalie A/H</th><th>Conf%</th><th>DataConf</th><th>Reason</th></tr>
{{range .Games}}
<tr{{if ge .Confidence 70}} class="high"{{end}}>
<td>{{.Matchup}}</td>
<td>{{.Head2HeadOTPct}}%</td>
<td>{{if .EvenlyMatched}}yes{{else}}no{{end}}</td>
<td>{{fmtRest .DaysRestAway}}/{{fmtRest .DaysRestHome}}</td>
<td>{{.GoalieAway}}/{{.GoalieHome}}</td>
<td>{{.Confidence}}</td>
<td>{{.DataConfidence}}</td>
<td class="muted">{{.Reason}}</td>
</tr>
{{end}}
</table>
<script>
(function () {
  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(proto + location.host + "/ws");
  ws.onmessage = function () { location.reload(); };
})();
</script>
</body>
</html>
`))

type dashboardData struct {
	Date    string
	Count   int
	Updated string
	Games   []GameRow
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	date, err := parseDateParam(r.URL.Query().Get("date"))
	if err != nil {
		http.Error(w, "invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	slate, err := s.analyzer.Slate(r.Context(), date, service.SlateOptions{MaxRows: s.cfg.MaxRows})
	if err != nil {
		s.logger.WithError(err).Error("Slate computation failed")
		http.Error(w, "failed to compute slate", http.StatusBadGateway)
		return
	}

	resp := toGamesResponse(slate)
	data := dashboardData{
		Date:    resp.Date,
		Count:   resp.Count,
		Updated: time.Now().UTC().Format(time.RFC3339),
		Games:   resp.Games,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := dashboardTmpl.Execute(w, data); err != nil {
		s.logger.WithError(err).Error("Dashboard render failed")
	}
}
