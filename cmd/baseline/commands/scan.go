// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bartekus/baseline/cmd/baseline/internal/clierr"
	"github.com/bartekus/baseline/internal/audience"
	"github.com/bartekus/baseline/internal/catalog"
	"github.com/bartekus/baseline/internal/config"
	"github.com/bartekus/baseline/internal/engine"
	"github.com/bartekus/baseline/internal/report"
)

func newScanCmd() *cobra.Command {
	var (
		root       string
		configPath string
		reportPath string
		dataDir    string
		workers    int
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan a source tree and gate on the severity policy",
		Long: `Scan walks the source tree, extracts feature usages from scripts,
stylesheets, and markup, estimates audience coverage, and writes the report.

Exit codes: 0 when the policy passes cleanly, 1 when only warnings were
raised, 2 on violations or invalid input.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			cfg, err := config.Load(configPath)
			if err != nil {
				return clierr.Wrap(clierr.CodeBadInput, "loading config", err)
			}

			cat, err := loadCatalog(dataDir)
			if err != nil {
				return clierr.Wrap(clierr.CodeBadInput, "loading feature catalog", err)
			}

			var dist audience.Distribution
			if cfg.AnalyticsSource != "" {
				var warnings []string
				dist, warnings, err = audience.FromFile(cfg.AnalyticsSource)
				if err != nil {
					return clierr.Wrap(clierr.CodeBadInput, "loading analytics distribution", err)
				}
				for _, w := range warnings {
					logger.Warn("analytics row skipped", "detail", w)
				}
			}

			r, err := engine.Scan(cmd.Context(), engine.Options{
				Root:         root,
				Config:       cfg,
				Catalog:      cat,
				Distribution: dist,
				Workers:      workers,
				Logger:       logger,
			})
			if err != nil {
				// Covers collector.ErrNotFound and config-level failures alike.
				return clierr.Wrap(clierr.CodeBadInput, "scanning", err)
			}

			if err := report.Write(reportPath, r); err != nil {
				return clierr.Wrap(clierr.CodeBadInput, "writing report", err)
			}

			if asJSON {
				data, err := r.Encode()
				if err != nil {
					return clierr.Wrap(clierr.CodeBadInput, "encoding report", err)
				}
				_, _ = cmd.OutOrStdout().Write(data)
			} else {
				fmt.Fprint(cmd.OutOrStdout(), report.Render(r))
			}

			return exitStatus(r)
		},
	}

	cmd.Flags().StringVar(&root, "root", ".", "Root of the source tree to scan")
	cmd.Flags().StringVar(&configPath, "config", "baseline.yml", "Path to the scan configuration")
	cmd.Flags().StringVar(&reportPath, "report", "baseline-report.json", "Where to write the report JSON")
	cmd.Flags().StringVar(&dataDir, "data", "", "Directory with feature/alias tables (default: embedded)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Parallel extraction workers (0 = number of CPUs)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report JSON instead of the rendered summary")

	return cmd
}

func loadCatalog(dir string) (*catalog.Catalog, error) {
	if dir == "" {
		return catalog.LoadDefault()
	}
	return catalog.Load(dir)
}

// exitStatus maps a finished scan onto the gating contract. The report was
// already persisted; only the process exit code is at stake here.
func exitStatus(r *report.Report) error {
	if r.HasViolations() {
		return clierr.Newf(clierr.CodeViolations, "%d feature(s) violate the policy", len(r.Summary.Violations))
	}
	if !r.Summary.Pass {
		return clierr.Newf(clierr.CodeWarnings, "coverage %d%% is below the budget %d%%", r.Summary.Achieved, r.Summary.CoverageBudget)
	}
	if len(r.Summary.Warnings) > 0 {
		return clierr.Newf(clierr.CodeWarnings, "%d feature(s) raised warnings", len(r.Summary.Warnings))
	}
	return nil
}
