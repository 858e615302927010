// SPDX-License-Identifier: AGPL-3.0-or-later

// Package policy converts Baseline status plus audience coverage into the
// per-feature severity and the scan summary.
package policy

import (
	"math"
	"sort"

	"github.com/bartekus/baseline/internal/catalog"
	"github.com/bartekus/baseline/internal/config"
	"github.com/bartekus/baseline/internal/report"
)

// Classify runs the classification rules for one feature, after all of its
// hits have been collected. The precedence order is fixed; later rules
// override earlier ones unless a rule short-circuits:
//
//  1. severity starts at info
//  2. guarded usage (progressive enhancement) raises info to warn
//  3. an ignored feature is forced to info, skipping every later rule
//  4. status none is a violation
//  5. status newly is a violation when configured so, otherwise raises
//     info to warn
//  6. an override severity replaces the current value unconditionally
//  7. an override minCoverage below the computed coverage forces error,
//     even after rule 6 lowered the severity
//  8. coverage below the global budget raises anything weaker than error
//     to warn and never lowers an error
func Classify(featureID string, status catalog.Status, coverage int, guarded bool, cfg config.Config) report.Severity {
	severity := report.SeverityInfo

	if guarded && severity == report.SeverityInfo {
		severity = report.SeverityWarn
	}

	if cfg.Ignored(featureID) {
		return report.SeverityInfo
	}

	switch status {
	case catalog.StatusNone:
		severity = report.SeverityError
	case catalog.StatusNewly:
		if cfg.TreatNewlyAsViolation {
			severity = report.SeverityError
		} else if severity == report.SeverityInfo {
			severity = report.SeverityWarn
		}
	}

	if ov, ok := cfg.Overrides[featureID]; ok {
		if ov.Severity != "" {
			if s, err := report.ParseSeverity(ov.Severity); err == nil {
				severity = s
			}
		}
		if ov.MinCoverage != nil && coverage < *ov.MinCoverage {
			severity = report.SeverityError
		}
	}

	if coverage < cfg.CoverageBudget && severity != report.SeverityError {
		severity = report.SeverityWarn
	}

	return severity
}

// Summarize builds the aggregate block from classified features. achieved is
// the hit-weighted mean coverage, or 100 when nothing was hit; pass requires
// zero violations and achieved meeting the budget.
func Summarize(features map[string]*report.FeatureUsage, budget int) report.Summary {
	var violations, warnings []string
	var weighted, hits float64

	for id, f := range features {
		switch f.Severity {
		case report.SeverityError:
			violations = append(violations, id)
		case report.SeverityWarn:
			warnings = append(warnings, id)
		}
		cov := f.Coverage
		if cov > 100 {
			cov = 100
		}
		weighted += float64(cov) * float64(f.Count)
		hits += float64(f.Count)
	}

	achieved := 100
	if hits > 0 {
		achieved = int(math.Round(weighted / hits))
	}

	sort.Strings(violations)
	sort.Strings(warnings)

	return report.Summary{
		Violations:     violations,
		Warnings:       warnings,
		Pass:           len(violations) == 0 && achieved >= budget,
		CoverageBudget: budget,
		Achieved:       achieved,
	}
}
