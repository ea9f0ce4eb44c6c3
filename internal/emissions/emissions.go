// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

package emissions

import (
	"errors"
	"fmt"
	"math"
)

const (
	// PoundsCO2PerGallon is the EPA factor for one gallon of gasoline.
	PoundsCO2PerGallon = 19.6

	// PoundsPerShortTon converts pounds to US (short) tons.
	PoundsPerShortTon = 2000.0

	// MetricTonsPerShortTon converts US tons to metric tons.
	MetricTonsPerShortTon = 0.907185

	// DefaultPricePerTon is the offset price in USD per metric ton.
	DefaultPricePerTon = 25.0

	// DefaultFeeRate is the processing fee added on top of the base cost.
	DefaultFeeRate = 0.10
)

// ErrInvalidInput is returned for non-positive or non-finite inputs.
var ErrInvalidInput = errors.New("invalid emissions input")

// Result is the annual footprint of one vehicle.
type Result struct {
	AnnualMiles float64 `json:"annual_miles"`
	MPGCombined float64 `json:"mpg_combined"`
	Gallons     float64 `json:"gallons"`
	PoundsCO2   float64 `json:"lbs_co2"`
	TonsCO2     float64 `json:"tons_co2"`
	LbsPerMile  float64 `json:"lbs_per_mile"`
}

// Calculate returns the annual CO2 output of a vehicle driven annualMiles
// at mpgCombined.
func Calculate(annualMiles, mpgCombined float64) (Result, error) {
	if !positive(annualMiles) {
		return Result{}, fmt.Errorf("%w: annual miles must be positive, got %v", ErrInvalidInput, annualMiles)
	}
	if !positive(mpgCombined) {
		return Result{}, fmt.Errorf("%w: mpg must be positive, got %v", ErrInvalidInput, mpgCombined)
	}

	gallons := annualMiles / mpgCombined
	lbs := gallons * PoundsCO2PerGallon
	return Result{
		AnnualMiles: annualMiles,
		MPGCombined: mpgCombined,
		Gallons:     gallons,
		PoundsCO2:   lbs,
		TonsCO2:     lbs / PoundsPerShortTon,
		LbsPerMile:  lbs / annualMiles,
	}, nil
}

// Pricing holds the offset price inputs.
type Pricing struct {
	PricePerTon float64
	FeeRate     float64
}

// DefaultPricing returns $25 per metric ton with a 10% fee.
func DefaultPricing() Pricing {
	return Pricing{PricePerTon: DefaultPricePerTon, FeeRate: DefaultFeeRate}
}

// Quote is the price of offsetting part of an annual footprint.
type Quote struct {
	OffsetPercent float64 `json:"offset_percent"`
	MetricTons    float64 `json:"metricTons"`
	BaseCost      float64 `json:"baseCost"`
	TotalCost     float64 `json:"totalCost"`
	MonthlyCost   float64 `json:"monthlyCost"`
}

// Quote prices offsetting percent (0, 100] of usTons short tons of CO2.
func (p Pricing) Quote(usTons, percent float64) (Quote, error) {
	if !positive(usTons) {
		return Quote{}, fmt.Errorf("%w: tons must be positive, got %v", ErrInvalidInput, usTons)
	}
	if !positive(percent) || percent > 100 {
		return Quote{}, fmt.Errorf("%w: offset percent must be in (0, 100], got %v", ErrInvalidInput, percent)
	}

	metricTons := usTons * MetricTonsPerShortTon * percent / 100
	base := metricTons * p.PricePerTon
	total := base * (1 + p.FeeRate)
	return Quote{
		OffsetPercent: percent,
		MetricTons:    metricTons,
		BaseCost:      base,
		TotalCost:     total,
		MonthlyCost:   total / 12,
	}, nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
