// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bartekus/baseline/cmd/baseline/internal/clierr"
	"github.com/bartekus/baseline/internal/report"
)

func newReportCmd() *cobra.Command {
	var (
		reportPath string
		asJSON     bool
		check      bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render a persisted scan report",
		Long: `Report re-reads a report written by a previous scan and renders it.

With --check it prints only whether the report contains violations and sets
the exit code accordingly, which is what plugin-style consumers poll.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := report.Load(reportPath)
			if err != nil {
				return clierr.Wrap(clierr.CodeBadInput, "loading report", err)
			}

			if check {
				fmt.Fprintln(cmd.OutOrStdout(), r.HasViolations())
				if r.HasViolations() {
					return clierr.Newf(clierr.CodeViolations, "%d feature(s) violate the policy", len(r.Summary.Violations))
				}
				return nil
			}

			if asJSON {
				data, err := r.Encode()
				if err != nil {
					return clierr.Wrap(clierr.CodeBadInput, "encoding report", err)
				}
				_, _ = cmd.OutOrStdout().Write(data)
				return nil
			}

			fmt.Fprint(cmd.OutOrStdout(), report.Render(r))
			return nil
		},
	}

	cmd.Flags().StringVar(&reportPath, "report", "baseline-report.json", "Path to the persisted report")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report JSON instead of the rendered summary")
	cmd.Flags().BoolVar(&check, "check", false, "Print only the violation diagnostic and set the exit code")

	return cmd
}
