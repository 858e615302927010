// SPDX-License-Identifier: AGPL-3.0-or-later

// Package report defines the scan result structure and its persistence.
// The serialized form is the contract consumed by the viewer and the PR
// annotator: re-serializing a loaded report yields identical bytes, and two
// scans over an unchanged tree with unchanged configuration yield identical
// reports.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bartekus/baseline/internal/catalog"
)

// Severity is the final per-feature classification driving pass/fail and
// annotation behavior.
type Severity string

const (
	SeverityInfo  Severity = "info"
	SeverityWarn  Severity = "warn"
	SeverityError Severity = "error"
)

// rank orders severities so policy rules can compare them.
var rank = map[Severity]int{
	SeverityInfo:  0,
	SeverityWarn:  1,
	SeverityError: 2,
}

// Rank returns the severity's ordering value (info < warn < error).
func (s Severity) Rank() int { return rank[s] }

// ParseSeverity validates a severity string from configuration.
func ParseSeverity(s string) (Severity, error) {
	sev := Severity(s)
	if _, ok := rank[sev]; !ok {
		return "", fmt.Errorf("unknown severity %q", s)
	}
	return sev, nil
}

// Hit is one concrete source occurrence of a feature usage.
type Hit struct {
	File    string `json:"file"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Snippet string `json:"snippet"`
}

// FeatureUsage aggregates every hit of one feature plus its classification.
type FeatureUsage struct {
	ID                 string            `json:"id"`
	Count              int               `json:"count"`
	Hits               []Hit             `json:"hits"`
	Status             catalog.Status    `json:"status"`
	Coverage           int               `json:"coverage"`
	Severity           Severity          `json:"severity"`
	MinBrowserVersions map[string]string `json:"minBrowserVersions"`
	DocLink            string            `json:"docLink,omitempty"`
}

// Summary is the aggregate block gating builds.
type Summary struct {
	Violations     []string `json:"violations"`
	Warnings       []string `json:"warnings"`
	Pass           bool     `json:"pass"`
	CoverageBudget int      `json:"coverageBudget"`
	Achieved       int      `json:"achieved"`
}

// Diagnostic records a non-fatal per-file problem (parse failure, unreadable
// entry). Diagnostics reduce information but never feed severity.
type Diagnostic struct {
	File    string `json:"file"`
	Message string `json:"message"`
}

// Report is the immutable result of one scan.
type Report struct {
	Features    map[string]*FeatureUsage `json:"features"`
	Summary     Summary                  `json:"summary"`
	Diagnostics []Diagnostic             `json:"diagnostics,omitempty"`

	violationsOnce sync.Once
	hasViolations  bool
}

// HasViolations reports whether any feature was classified as a violation.
// It is computed once and cached for the report's lifetime; plugin-style
// consumers poll it without re-walking the feature map.
func (r *Report) HasViolations() bool {
	r.violationsOnce.Do(func() {
		r.hasViolations = len(r.Summary.Violations) > 0
	})
	return r.hasViolations
}

// Encode serializes the report. encoding/json emits map keys in sorted
// order, so output is byte-stable for identical inputs.
func (r *Report) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding report: %w", err)
	}
	return append(data, '\n'), nil
}

// Write persists the report atomically: content lands under a temp name and
// is renamed into place, so readers never observe a partial report.
func Write(path string, r *Report) error {
	data, err := r.Encode()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "baseline-report-*")
	if err != nil {
		return fmt.Errorf("creating temp report: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp report: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("moving report into place: %w", err)
	}
	return nil
}

// Load reads a previously written report.
func Load(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing report: %w", err)
	}
	return &r, nil
}
