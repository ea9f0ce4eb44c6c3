// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

package catalog

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/carbonoffset/internal/logging"
)

// EPA vehicles.csv column names.
const (
	colYear         = "year"
	colMake         = "make"
	colModel        = "model"
	colCombined     = "comb08"
	colCity         = "city08"
	colHighway      = "highway08"
	colFuelType1    = "fuelType1"
	colFuelType     = "fuelType"
	colCylinders    = "cylinders"
	colDisplacement = "displ"
	colTransDscr    = "trans_dscr"
	colTrany        = "trany"
	colDrive        = "drive"
)

var requiredColumns = []string{colYear, colMake, colModel, colCombined}

// Stats summarizes a CSV parse.
type Stats struct {
	Rows    int // data rows read (header excluded)
	Kept    int // rows that passed the filter, before deduplication
	Dropped int // rows filtered out or unreadable
}

// columns maps header names to field indexes.
type columns map[string]int

func (c columns) get(record []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// ParseCSV reads an EPA vehicles CSV and returns the rows that fall within
// the model year window with a make, a model and a positive combined MPG.
//
// Columns are located by header name, so extra or missing optional columns
// are tolerated. A header without year, make, model or comb08 fails with
// ErrMalformedInput. Rows that cannot be parsed are dropped and counted in
// Stats.Dropped rather than failing the whole file.
func ParseCSV(r io.Reader) ([]Vehicle, Stats, error) {
	var stats Stats

	reader := csv.NewReader(bufio.NewReader(r))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, stats, fmt.Errorf("%w: missing header row", ErrMalformedInput)
	}
	if err != nil {
		return nil, stats, fmt.Errorf("%w: read header: %v", ErrMalformedInput, err)
	}

	cols := make(columns, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}
	var missing []string
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, stats, fmt.Errorf("%w: missing required columns %s", ErrMalformedInput, strings.Join(missing, ", "))
	}

	var vehicles []Vehicle
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				stats.Rows++
				stats.Dropped++
				continue
			}
			return nil, stats, fmt.Errorf("read vehicle csv: %w", err)
		}
		stats.Rows++

		v, ok := projectRow(cols, record)
		if !ok {
			stats.Dropped++
			continue
		}
		stats.Kept++
		vehicles = append(vehicles, v)
	}

	return vehicles, stats, nil
}

// projectRow applies the filter and converts one CSV row into a Vehicle.
func projectRow(cols columns, record []string) (Vehicle, bool) {
	year, err := strconv.Atoi(cols.get(record, colYear))
	if err != nil || year < MinYear || year > MaxYear {
		return Vehicle{}, false
	}

	vehicleMake := cols.get(record, colMake)
	model := cols.get(record, colModel)
	if vehicleMake == "" || model == "" {
		return Vehicle{}, false
	}

	combined, ok := parseFloat(cols.get(record, colCombined))
	if !ok || combined <= 0 {
		return Vehicle{}, false
	}

	return Vehicle{
		Year:         year,
		Make:         vehicleMake,
		Model:        model,
		MPGCombined:  combined,
		MPGCity:      optionalInt(cols.get(record, colCity)),
		MPGHighway:   optionalInt(cols.get(record, colHighway)),
		FuelType:     optionalString(cols.get(record, colFuelType1), cols.get(record, colFuelType)),
		Cylinders:    optionalInt(cols.get(record, colCylinders)),
		Displacement: optionalFloat(cols.get(record, colDisplacement)),
		Transmission: optionalString(cols.get(record, colTransDscr), cols.get(record, colTrany)),
		DriveType:    optionalString(cols.get(record, colDrive)),
	}, true
}

func parseFloat(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// optionalInt parses an integer column. Decimal values are truncated, as the
// EPA file occasionally carries "6.0" in integer columns.
func optionalInt(s string) *int {
	if s == "" {
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return &n
	}
	f, ok := parseFloat(s)
	if !ok || f > math.MaxInt32 || f < math.MinInt32 {
		return nil
	}
	n := int(f)
	return &n
}

func optionalFloat(s string) *float64 {
	f, ok := parseFloat(s)
	if !ok {
		return nil
	}
	return &f
}

// optionalString returns the first non-empty candidate.
func optionalString(candidates ...string) *string {
	for _, c := range candidates {
		if c != "" {
			return &c
		}
	}
	return nil
}

// Build assembles the nested catalog from filtered vehicles.
//
// Duplicate (year, make, model) keys are resolved by keeping the last row in
// input order, matching the bulk upsert used by the database sync where later
// writes overwrite earlier ones.
func Build(vehicles []Vehicle) *Catalog {
	c := &Catalog{
		Years:    []int{},
		Vehicles: make(map[int]map[string]map[string]Vehicle),
	}

	for i := range vehicles {
		v := vehicles[i]
		makes, ok := c.Vehicles[v.Year]
		if !ok {
			makes = make(map[string]map[string]Vehicle)
			c.Vehicles[v.Year] = makes
			c.Years = append(c.Years, v.Year)
		}
		models, ok := makes[v.Make]
		if !ok {
			models = make(map[string]Vehicle)
			makes[v.Make] = models
		}
		models[v.Model] = v
	}

	sort.Sort(sort.Reverse(sort.IntSlice(c.Years)))
	return c
}

// BuildFile parses the CSV at path and builds a catalog from it.
func BuildFile(path string) (*Catalog, Stats, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, Stats{}, fmt.Errorf("%w: %s", ErrInputNotFound, path)
	}
	if err != nil {
		return nil, Stats{}, fmt.Errorf("open vehicle csv %s: %w", path, err)
	}
	defer f.Close()

	logging.Info().Str("path", path).Msg("Parsing vehicle CSV")

	vehicles, stats, err := ParseCSV(f)
	if err != nil {
		return nil, stats, err
	}

	c := Build(vehicles)
	logging.Info().
		Int("rows", stats.Rows).
		Int("kept", stats.Kept).
		Int("dropped", stats.Dropped).
		Int("vehicles", c.Count()).
		Int("years", len(c.Years)).
		Msg("Vehicle catalog built")

	return c, stats, nil
}

// Encode serializes the catalog as indented JSON.
func Encode(c *Catalog) ([]byte, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	return data, nil
}

// WriteFiles writes the catalog to every path, creating parent directories.
// Each file is written to a temporary sibling and renamed into place so a
// running server never reads a partial catalog.
func WriteFiles(c *Catalog, paths ...string) error {
	if len(paths) == 0 {
		return errors.New("at least one output path is required")
	}

	data, err := Encode(c)
	if err != nil {
		return err
	}

	for _, path := range paths {
		if err := writeFileAtomic(path, data); err != nil {
			return err
		}
		logging.Info().Str("path", path).Int("bytes", len(data)).Msg("Vehicle catalog written")
	}
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create catalog directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".vehicles-*.json")
	if err != nil {
		return fmt.Errorf("create temp catalog in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write catalog %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close catalog %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod catalog %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename catalog into %s: %w", path, err)
	}
	return nil
}
