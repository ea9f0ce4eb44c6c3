// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

// Package main provides catalog-builder, which turns the EPA fuel economy
// CSV into the static JSON catalog served by the vehicle lookup endpoints.
//
//	catalog-builder build --input vehicles.csv --output data/vehicles.json
//	catalog-builder fetch --output data/vehicles.json --output ../web/public/vehicles.json
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tomtom215/carbonoffset/internal/logging"
)

const defaultOutput = "data/vehicles.json"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "catalog-builder",
		Short: "Build the static vehicle catalog from EPA fuel economy data",
		Long: `catalog-builder filters the EPA vehicles CSV to model years 2010-2026,
deduplicates year/make/model entries (last row wins) and writes the
year -> make -> models JSON catalog used by the calculator.`,
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			cfg := logging.DefaultConfig()
			cfg.Level = logLevel
			cfg.Format = "console"
			logging.Init(cfg)
		},
	}
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (trace, debug, info, warn, error)")

	cmd.AddCommand(buildCmd(), fetchCmd())
	return cmd
}
