// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/carbonoffset/internal/catalog"
)

func buildCmd() *cobra.Command {
	var input string
	var outputs []string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the catalog from a local CSV",
		Long: `Build the catalog from a local EPA CSV and write it to every --output path.

Examples:
  catalog-builder build
  catalog-builder build --input data/vehicles.csv --output data/vehicles.json --output web/public/vehicles.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return buildCatalog(cmd, input, outputs)
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "vehicles.csv", "EPA vehicles CSV")
	cmd.Flags().StringArrayVarP(&outputs, "output", "o", []string{defaultOutput}, "Catalog JSON destination (repeatable)")
	return cmd
}

func buildCatalog(cmd *cobra.Command, input string, outputs []string) error {
	c, stats, err := catalog.BuildFile(input)
	if err != nil {
		return err
	}
	if err := catalog.WriteFiles(c, outputs...); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Built %d vehicles across %d years (%d rows read, %d dropped)\n",
		c.Count(), len(c.Years), stats.Rows, stats.Dropped)
	for _, out := range outputs {
		fmt.Fprintf(cmd.OutOrStdout(), "  wrote %s\n", out)
	}
	return nil
}
