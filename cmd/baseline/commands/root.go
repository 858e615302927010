// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Baseline - Baseline is a feature-usage scanner and compliance gate for web projects.
It walks a source tree, finds usages of web-platform features across scripts,
stylesheets, and markup, classifies each against Baseline support tiers and the
audience you actually serve, and fails builds deterministically.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

package commands

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// NewRootCmd constructs the baseline root Cobra command.
func NewRootCmd() *cobra.Command {
	version := os.Getenv("BASELINE_VERSION")
	if version == "" {
		version = "0.0.0-dev"
	}

	var verbose bool

	cmd := &cobra.Command{
		Use:           "baseline",
		Short:         "Baseline - web feature-usage scanning and compliance gating",
		Long:          "Baseline scans web source trees for platform feature usage, estimates audience coverage, and gates builds on a severity policy.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.WarnLevel
			if verbose {
				level = log.DebugLevel
			}
			logger := newLogger(cmd.ErrOrStderr(), level)
			cmd.SetContext(withLogger(cmd.Context(), logger))
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	// Version command
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number of Baseline",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Baseline version %s\n", version)
		},
	})

	cmd.AddCommand(newScanCmd())
	cmd.AddCommand(newReportCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newAnnotateCmd())
	cmd.AddCommand(newDataCmd())

	return cmd
}
