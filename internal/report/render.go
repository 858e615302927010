package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	styleError = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	styleWarn  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	styleInfo  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	stylePass  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	styleDim   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func severityStyle(s Severity) lipgloss.Style {
	switch s {
	case SeverityError:
		return styleError
	case SeverityWarn:
		return styleWarn
	default:
		return styleInfo
	}
}

// Render formats the report for a terminal: one block per feature, worst
// severities first, followed by the summary verdict.
func Render(r *Report) string {
	var b strings.Builder

	ids := make([]string, 0, len(r.Features))
	for id := range r.Features {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, z := r.Features[ids[i]], r.Features[ids[j]]
		if a.Severity.Rank() != z.Severity.Rank() {
			return a.Severity.Rank() > z.Severity.Rank()
		}
		return ids[i] < ids[j]
	})

	for _, id := range ids {
		f := r.Features[id]
		b.WriteString(fmt.Sprintf("%s %s  status=%s coverage=%d%% hits=%d\n",
			severityStyle(f.Severity).Render(strings.ToUpper(string(f.Severity))),
			id, f.Status, f.Coverage, f.Count))
		for _, h := range f.Hits {
			b.WriteString(styleDim.Render(fmt.Sprintf("  %s:%d:%d  %s", h.File, h.Line, h.Column, h.Snippet)))
			b.WriteString("\n")
		}
	}

	for _, d := range r.Diagnostics {
		b.WriteString(styleWarn.Render(fmt.Sprintf("skipped %s: %s", d.File, d.Message)))
		b.WriteString("\n")
	}

	verdict := stylePass.Render("PASS")
	if !r.Summary.Pass {
		verdict = styleError.Render("FAIL")
	}
	b.WriteString(fmt.Sprintf("\n%s  achieved %d%% of a %d%% coverage budget, %d violation(s), %d warning(s)\n",
		verdict, r.Summary.Achieved, r.Summary.CoverageBudget,
		len(r.Summary.Violations), len(r.Summary.Warnings)))

	return b.String()
}
