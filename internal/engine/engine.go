// SPDX-License-Identifier: AGPL-3.0-or-later

// Package engine runs one scan end to end: collect files, extract feature
// occurrences in parallel, estimate coverage, classify severity, and
// assemble the report. A scan has no shared state with other scans; it is
// parameterized entirely by its Options and produces a fresh report.
package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/bartekus/baseline/internal/audience"
	"github.com/bartekus/baseline/internal/catalog"
	"github.com/bartekus/baseline/internal/collector"
	"github.com/bartekus/baseline/internal/config"
	"github.com/bartekus/baseline/internal/coverage"
	"github.com/bartekus/baseline/internal/extract"
	"github.com/bartekus/baseline/internal/policy"
	"github.com/bartekus/baseline/internal/report"
)

// Options parameterizes one scan.
type Options struct {
	Root         string
	Config       config.Config
	Catalog      *catalog.Catalog
	Distribution audience.Distribution

	// Guard substitutes the progressive-enhancement detector; nil selects
	// extract.DetectGuard.
	Guard extract.GuardFunc

	// Workers bounds parallel file extraction; <=0 means GOMAXPROCS.
	Workers int

	Logger *log.Logger
}

// featureAccum gathers hits for one feature across files. Guarded is true
// when any hit looked guarded; softening is feature-scoped.
type featureAccum struct {
	hits    []report.Hit
	guarded bool
}

// Scan runs one scan. The only fatal condition is a missing or
// non-directory root; per-file failures degrade to diagnostics in the
// report.
func Scan(ctx context.Context, opts Options) (*report.Report, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr)
		logger.SetLevel(log.FatalLevel)
	}
	if opts.Catalog == nil {
		return nil, fmt.Errorf("scan requires a loaded catalog")
	}

	files, collectWarnings, err := collector.Collect(opts.Root)
	if err != nil {
		return nil, err
	}
	logger.Debug("collected sources", "root", opts.Root, "files", len(files))

	// The fallback selection only matters when no distribution is supplied,
	// but an unusable query is a configuration error either way.
	var fallbackNames []string
	if len(opts.Distribution) == 0 {
		selectors, err := audience.ExpandQuery(opts.Config.BrowserslistQuery)
		if err != nil {
			return nil, fmt.Errorf("expanding browserslist query: %w", err)
		}
		fallbackNames = audience.DistinctNames(selectors)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var (
		mu          sync.Mutex
		accums      = map[string]*featureAccum{}
		diagnostics []report.Diagnostic
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, f := range files {
		f := f
		g.Go(func() error {
			src, err := os.ReadFile(filepath.Join(opts.Root, filepath.FromSlash(f.Path)))
			if err != nil {
				mu.Lock()
				diagnostics = append(diagnostics, report.Diagnostic{File: f.Path, Message: err.Error()})
				mu.Unlock()
				return nil
			}

			res, err := extract.File(gctx, f, src, opts.Catalog, opts.Guard)
			if err != nil {
				logger.Warn("skipping file", "file", f.Path, "err", err)
				mu.Lock()
				diagnostics = append(diagnostics, report.Diagnostic{File: f.Path, Message: err.Error()})
				mu.Unlock()
				return nil
			}

			mu.Lock()
			defer mu.Unlock()
			for _, occ := range res.Occurrences {
				id, ok := opts.Catalog.Resolve(occ.Token)
				if !ok {
					continue
				}
				acc := accums[id]
				if acc == nil {
					acc = &featureAccum{}
					accums[id] = acc
				}
				acc.hits = append(acc.hits, report.Hit{
					File:    f.Path,
					Line:    occ.Line,
					Column:  occ.Column,
					Snippet: occ.Snippet,
				})
				acc.guarded = acc.guarded || occ.Guarded
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	features := make(map[string]*report.FeatureUsage, len(accums))
	for id, acc := range accums {
		def, ok := opts.Catalog.Features[id]
		if !ok {
			// alias pointing at an undefined feature: data problem, not a scan failure
			diagnostics = append(diagnostics, report.Diagnostic{Message: fmt.Sprintf("alias resolves to unknown feature %q", id)})
			continue
		}

		// Hit order must never depend on scheduling or enumeration order.
		sort.Slice(acc.hits, func(i, j int) bool {
			a, b := acc.hits[i], acc.hits[j]
			if a.File != b.File {
				return a.File < b.File
			}
			if a.Line != b.Line {
				return a.Line < b.Line
			}
			return a.Column < b.Column
		})

		cov := coverage.Estimate(def.MinBrowserVersions, opts.Distribution, fallbackNames)
		sev := policy.Classify(id, def.Status, cov, acc.guarded, opts.Config)

		features[id] = &report.FeatureUsage{
			ID:                 id,
			Count:              len(acc.hits),
			Hits:               acc.hits,
			Status:             def.Status,
			Coverage:           cov,
			Severity:           sev,
			MinBrowserVersions: def.MinBrowserVersions,
			DocLink:            def.DocLink,
		}
	}

	for _, w := range collectWarnings {
		diagnostics = append(diagnostics, report.Diagnostic{Message: w})
	}
	sort.Slice(diagnostics, func(i, j int) bool {
		if diagnostics[i].File != diagnostics[j].File {
			return diagnostics[i].File < diagnostics[j].File
		}
		return diagnostics[i].Message < diagnostics[j].Message
	})

	summary := policy.Summarize(features, opts.Config.CoverageBudget)
	logger.Info("scan complete",
		"features", len(features),
		"violations", len(summary.Violations),
		"warnings", len(summary.Warnings),
		"achieved", summary.Achieved,
		"pass", summary.Pass)

	if strings.TrimSpace(opts.Config.Profile) != "" {
		logger.Debug("profile", "name", opts.Config.Profile)
	}

	return &report.Report{
		Features:    features,
		Summary:     summary,
		Diagnostics: diagnostics,
	}, nil
}
