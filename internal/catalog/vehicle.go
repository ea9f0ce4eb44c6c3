// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

package catalog

import (
	"context"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Model year window kept by the catalog builder (inclusive).
const (
	MinYear = 2010
	MaxYear = 2026
)

// Vehicle is a normalized EPA vehicle record. Optional fields are nil when
// the source row did not provide them and are omitted from JSON.
type Vehicle struct {
	Year         int      `json:"year" bson:"year"`
	Make         string   `json:"make" bson:"make"`
	Model        string   `json:"model" bson:"model"`
	MPGCombined  float64  `json:"mpg_combined" bson:"mpg_combined"`
	MPGCity      *int     `json:"mpg_city,omitempty" bson:"mpg_city,omitempty"`
	MPGHighway   *int     `json:"mpg_highway,omitempty" bson:"mpg_highway,omitempty"`
	FuelType     *string  `json:"fuel_type,omitempty" bson:"fuel_type,omitempty"`
	Cylinders    *int     `json:"cylinders,omitempty" bson:"cylinders,omitempty"`
	Displacement *float64 `json:"displacement,omitempty" bson:"displacement,omitempty"`
	Transmission *string  `json:"transmission,omitempty" bson:"transmission,omitempty"`
	DriveType    *string  `json:"drive_type,omitempty" bson:"drive_type,omitempty"`
}

// Key identifies a vehicle in the catalog and the uniqueness index of the
// vehicles collection.
type Key struct {
	Year  int
	Make  string
	Model string
}

// Key returns the (year, make, model) identity of v.
func (v *Vehicle) Key() Key {
	return Key{Year: v.Year, Make: v.Make, Model: v.Model}
}

// Catalog is the nested year -> make -> model lookup artifact.
//
// Year keys are encoded as JSON object keys (strings) and parsed back to
// integers on decode.
type Catalog struct {
	Years    []int                                 `json:"years"`
	Vehicles map[int]map[string]map[string]Vehicle `json:"vehicles"`
}

// Count returns the number of vehicles in the catalog.
func (c *Catalog) Count() int {
	n := 0
	for _, makes := range c.Vehicles {
		for _, models := range makes {
			n += len(models)
		}
	}
	return n
}

// Lookup serves the year -> make -> model dropdown cascade. Unknown years or
// makes yield empty results, never errors; errors mean the backing source is
// unavailable.
type Lookup interface {
	ListYears(ctx context.Context) ([]int, error)
	ListMakes(ctx context.Context, year int) ([]string, error)
	ListModels(ctx context.Context, year int, vehicleMake string) ([]Vehicle, error)
}

// SortByModel sorts vehicles ascending by model name using locale-aware
// collation, so "e-tron" sorts before "M2". Ties keep their incoming order.
func SortByModel(vehicles []Vehicle) {
	// A Collator is not safe for concurrent use.
	c := collate.New(language.Und)
	sort.SliceStable(vehicles, func(i, j int) bool {
		return c.CompareString(vehicles[i].Model, vehicles[j].Model) < 0
	})
}
