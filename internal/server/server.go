// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server exposes a persisted scan report over HTTP for local
// inspection. It is pure presentation: the report file is the source of
// truth and is re-read on every request so a fresh scan shows up on reload.
package server

import (
	"html/template"
	"net/http"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/bartekus/baseline/internal/report"
)

var page = template.Must(template.New("report").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>Baseline report</title>
<style>
body { font: 14px/1.5 system-ui, sans-serif; margin: 2rem auto; max-width: 60rem; }
.error { color: #b00020; } .warn { color: #8a6d00; } .info { color: #555; }
.pass { color: #0a7d33; font-weight: 600; } .fail { color: #b00020; font-weight: 600; }
td, th { padding: .25rem .75rem; text-align: left; border-bottom: 1px solid #eee; }
code { background: #f4f4f4; padding: 0 .25rem; }
</style>
</head>
<body>
<h1>Baseline report</h1>
<p class="{{if .Summary.Pass}}pass{{else}}fail{{end}}">
  {{if .Summary.Pass}}PASS{{else}}FAIL{{end}} —
  achieved {{.Summary.Achieved}}% of a {{.Summary.CoverageBudget}}% budget,
  {{len .Summary.Violations}} violation(s), {{len .Summary.Warnings}} warning(s)
</p>
<table>
<tr><th>Severity</th><th>Feature</th><th>Status</th><th>Coverage</th><th>Hits</th></tr>
{{range .Rows}}
<tr>
  <td class="{{.Severity}}">{{.Severity}}</td>
  <td>{{if .DocLink}}<a href="{{.DocLink}}">{{.ID}}</a>{{else}}{{.ID}}{{end}}</td>
  <td>{{.Status}}</td>
  <td>{{.Coverage}}%</td>
  <td>{{range .Hits}}<code>{{.File}}:{{.Line}}:{{.Column}}</code> {{end}}</td>
</tr>
{{end}}
</table>
</body>
</html>
`))

type pageData struct {
	Summary report.Summary
	Rows    []*report.FeatureUsage
}

// New builds the viewer handler for the report at path.
func New(path string, logger *log.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	load := func(w http.ResponseWriter) *report.Report {
		rep, err := report.Load(path)
		if err != nil {
			logger.Error("loading report", "path", path, "err", err)
			http.Error(w, "report not available; run `baseline scan` first", http.StatusNotFound)
			return nil
		}
		return rep
	}

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		rep := load(w)
		if rep == nil {
			return
		}
		rows := make([]*report.FeatureUsage, 0, len(rep.Features))
		for _, f := range rep.Features {
			rows = append(rows, f)
		}
		sort.Slice(rows, func(i, j int) bool {
			if rows[i].Severity.Rank() != rows[j].Severity.Rank() {
				return rows[i].Severity.Rank() > rows[j].Severity.Rank()
			}
			return rows[i].ID < rows[j].ID
		})
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := page.Execute(w, pageData{Summary: rep.Summary, Rows: rows}); err != nil {
			logger.Error("rendering report page", "err", err)
		}
	})

	r.Get("/api/report", func(w http.ResponseWriter, req *http.Request) {
		rep := load(w)
		if rep == nil {
			return
		}
		data, err := rep.Encode()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
	})

	return r
}
