// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/bartekus/baseline/cmd/baseline/internal/clierr"
	"github.com/bartekus/baseline/internal/server"
)

func newServeCmd() *cobra.Command {
	var (
		addr       string
		reportPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a persisted scan report over HTTP",
		Long: `Serve exposes a persisted report as an HTML page at / and raw JSON at
/api/report. The report file is re-read per request, so re-running a scan
updates the page without restarting the server.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			logger.Info("serving report", "addr", addr, "report", reportPath)

			srv := &http.Server{
				Addr:              addr,
				Handler:           server.New(reportPath, logger),
				ReadHeaderTimeout: 5 * time.Second,
			}
			if err := srv.ListenAndServe(); err != nil {
				return clierr.Wrap(clierr.CodeBadInput, "serving report", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().StringVar(&reportPath, "report", "baseline-report.json", "Path to the persisted report")

	return cmd
}
