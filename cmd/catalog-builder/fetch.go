// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/carbonoffset/internal/config"
	syncpkg "github.com/tomtom215/carbonoffset/internal/sync"
)

func fetchCmd() *cobra.Command {
	var sourceURL, csvPath string
	var outputs []string
	var timeout time.Duration
	var keepCSV bool

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download the EPA CSV and build the catalog",
		Long: `Download the EPA vehicles CSV from fueleconomy.gov, then build the catalog.

Examples:
  catalog-builder fetch
  catalog-builder fetch --keep-csv --csv data/vehicles.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			path := csvPath
			if path == "" {
				dir, err := os.MkdirTemp("", "catalog-builder-*")
				if err != nil {
					return err
				}
				if !keepCSV {
					defer os.RemoveAll(dir)
				}
				path = filepath.Join(dir, "vehicles.csv")
			}

			if err := downloadCSV(ctx, sourceURL, timeout, path); err != nil {
				return err
			}
			if keepCSV || csvPath != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Saved EPA CSV to %s\n", path)
			}
			return buildCatalog(cmd, path, outputs)
		},
	}
	cmd.Flags().StringVar(&sourceURL, "url", config.DefaultEPAVehiclesURL, "EPA vehicles CSV URL")
	cmd.Flags().StringVar(&csvPath, "csv", "", "Where to save the downloaded CSV (default: temporary file)")
	cmd.Flags().BoolVar(&keepCSV, "keep-csv", false, "Keep the downloaded CSV")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "Download timeout")
	cmd.Flags().StringArrayVarP(&outputs, "output", "o", []string{defaultOutput}, "Catalog JSON destination (repeatable)")
	return cmd
}

func downloadCSV(ctx context.Context, sourceURL string, timeout time.Duration, path string) error {
	syncer := syncpkg.NewSyncer(config.SyncConfig{
		SourceURL: sourceURL,
		BatchSize: 1,
		Timeout:   timeout,
	}, nil)
	if _, err := syncer.DownloadToFile(ctx, path); err != nil {
		return fmt.Errorf("download %s: %w", sourceURL, err)
	}
	return nil
}
