// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

package models

// CalculateRequest is the body of POST /api/emissions/calculate.
type CalculateRequest struct {
	AnnualMiles float64 `json:"annualMiles" validate:"gt=0,lte=1000000"`
	MPGCombined float64 `json:"mpgCombined" validate:"gt=0,lte=1000"`
}

// QuoteRequest is the body of POST /api/emissions/quote. TonsCO2 is the
// calculator result in US short tons.
type QuoteRequest struct {
	TonsCO2       float64 `json:"tonsCO2" validate:"gt=0"`
	OffsetPercent float64 `json:"offsetPercent" validate:"gt=0,lte=100"`
}

// ContentUpdateRequest is the body of POST /api/content/{key}.
type ContentUpdateRequest struct {
	Content string `json:"content" validate:"max=100000"`
}

// SectionMoveRequest is the body of POST /api/content/section-order/move.
type SectionMoveRequest struct {
	From *int `json:"from" validate:"required,gte=0"`
	To   *int `json:"to" validate:"required,gte=0"`
}

// SectionOrderRequest is the body of PUT /api/content/section-order.
type SectionOrderRequest struct {
	Order []string `json:"order" validate:"required,min=1,dive,required"`
}

// VehicleRequest is the admin create and update body.
type VehicleRequest struct {
	Year         int      `json:"year" validate:"modelyear"`
	Make         string   `json:"make" validate:"required,notblank,max=100"`
	Model        string   `json:"model" validate:"required,notblank,max=200"`
	MPGCombined  float64  `json:"mpg_combined" validate:"gt=0,lte=1000"`
	MPGCity      *int     `json:"mpg_city,omitempty" validate:"omitempty,gt=0"`
	MPGHighway   *int     `json:"mpg_highway,omitempty" validate:"omitempty,gt=0"`
	FuelType     *string  `json:"fuel_type,omitempty" validate:"omitempty,max=100"`
	Cylinders    *int     `json:"cylinders,omitempty" validate:"omitempty,gte=0,lte=16"`
	Displacement *float64 `json:"displacement,omitempty" validate:"omitempty,gte=0"`
	Transmission *string  `json:"transmission,omitempty" validate:"omitempty,max=100"`
	DriveType    *string  `json:"drive_type,omitempty" validate:"omitempty,max=100"`
}
