// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"github.com/spf13/cobra"

	"github.com/bartekus/baseline/cmd/baseline/internal/clierr"
	"github.com/bartekus/baseline/internal/catalog"
)

func newDataCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "data",
		Short: "Manage the feature and alias tables",
	}

	var dir string
	export := &cobra.Command{
		Use:   "export",
		Short: "Write the embedded feature/alias tables to a directory",
		Long: `Export writes the built-in tables in the exact format 'scan --data'
consumes, so a data pipeline can regenerate them from live sources and feed
them back in.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := catalog.ExportDefault(dir); err != nil {
				return clierr.Wrap(clierr.CodeBadInput, "exporting tables", err)
			}
			loggerFromContext(cmd.Context()).Info("tables exported", "dir", dir)
			return nil
		},
	}
	export.Flags().StringVar(&dir, "dir", "baseline-data", "Target directory for the exported tables")

	cmd.AddCommand(export)
	return cmd
}
