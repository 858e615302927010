// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/bartekus/baseline/cmd/baseline/internal/clierr"
	"github.com/bartekus/baseline/internal/annotate"
	"github.com/bartekus/baseline/internal/report"
)

func newAnnotateCmd() *cobra.Command {
	var (
		reportPath string
		outPath    string
	)

	cmd := &cobra.Command{
		Use:   "annotate",
		Short: "Turn report hits into inline review-comment payloads",
		Long: `Annotate maps every warning or violation hit in a persisted report to a
path/line/body comment payload and writes them as JSON. Posting the comments
to a review system is a separate delivery step.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := report.Load(reportPath)
			if err != nil {
				return clierr.Wrap(clierr.CodeBadInput, "loading report", err)
			}

			comments := annotate.Build(r)
			data, err := json.MarshalIndent(comments, "", "  ")
			if err != nil {
				return clierr.Wrap(clierr.CodeBadInput, "encoding annotations", err)
			}
			data = append(data, '\n')

			if outPath == "-" {
				_, _ = cmd.OutOrStdout().Write(data)
				return nil
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return clierr.Wrap(clierr.CodeBadInput, "writing annotations", err)
			}
			loggerFromContext(cmd.Context()).Info("annotations written", "comments", len(comments), "path", outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&reportPath, "report", "baseline-report.json", "Path to the persisted report")
	cmd.Flags().StringVar(&outPath, "output", "baseline-annotations.json", "Where to write the comment payloads (- for stdout)")

	return cmd
}
