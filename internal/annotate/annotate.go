// SPDX-License-Identifier: AGPL-3.0-or-later

// Package annotate maps scan hits to inline review-comment payloads. The
// output is the generic path/line/body shape most code-review APIs accept;
// actually posting the comments is a separate delivery step.
package annotate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bartekus/baseline/internal/report"
)

// Comment is one inline review annotation.
type Comment struct {
	Path string `json:"path"`
	Line int    `json:"line"`
	Body string `json:"body"`
}

// Build produces one comment per hit of every warning or violation feature,
// ordered by (path, line) for stable output. Info-level features are not
// annotated.
func Build(r *report.Report) []Comment {
	var comments []Comment
	for _, f := range r.Features {
		if f.Severity == report.SeverityInfo {
			continue
		}
		for _, h := range f.Hits {
			comments = append(comments, Comment{
				Path: h.File,
				Line: h.Line,
				Body: body(f, h),
			})
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		if comments[i].Path != comments[j].Path {
			return comments[i].Path < comments[j].Path
		}
		if comments[i].Line != comments[j].Line {
			return comments[i].Line < comments[j].Line
		}
		return comments[i].Body < comments[j].Body
	})
	return comments
}

func body(f *report.FeatureUsage, h report.Hit) string {
	var b strings.Builder
	marker := "⚠️"
	if f.Severity == report.SeverityError {
		marker = "🚫"
	}
	fmt.Fprintf(&b, "%s **%s** (Baseline: %s, audience coverage %d%%)\n\n", marker, f.ID, f.Status, f.Coverage)
	fmt.Fprintf(&b, "```\n%s\n```\n", h.Snippet)
	if f.DocLink != "" {
		fmt.Fprintf(&b, "\n[Feature documentation](%s)", f.DocLink)
	}
	return b.String()
}
