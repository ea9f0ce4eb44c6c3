// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

/*
Package catalog turns the EPA fuel economy CSV into a nested
year -> make -> model lookup artifact and serves lookups from it.

# Building

ParseCSV filters and projects CSV rows, Build deduplicates them into a
Catalog, and WriteFiles persists the JSON artifact:

	c, stats, err := catalog.BuildFile("vehicles.csv")
	if err != nil {
		return err
	}
	err = catalog.WriteFiles(c, "data/vehicles.json")

Only model years 2010 through 2026 with a make, a model and a positive
combined MPG are kept. When a (year, make, model) key repeats, the last row
wins.

# Serving

Service loads the artifact once from a single configured path and answers
the dropdown cascade:

	svc := catalog.NewService(cfg.Catalog.Path)
	if err := svc.Load(ctx); err != nil {
		return err // wraps ErrCatalogNotFound or ErrInvalidCatalog
	}
	years, _ := svc.ListYears(ctx)

Unknown years and makes produce empty results rather than errors. The
database package provides a second Lookup implementation backed by MongoDB.
*/
package catalog
