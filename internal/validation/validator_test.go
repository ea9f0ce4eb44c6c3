// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

package validation

import (
	"strings"
	"testing"
)

// ===================================================================================================
// Singleton Validator Tests
// ===================================================================================================

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 == nil {
		t.Fatal("GetValidator() should not return nil")
	}
	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
}

// ===================================================================================================
// ValidateStruct Tests
// ===================================================================================================

type checkoutLike struct {
	Email       string  `json:"email" validate:"required,email"`
	MetricTons  float64 `json:"metricTons" validate:"gt=0"`
	PaymentType string  `json:"paymentType" validate:"required,oneof=one-time subscription"`
}

type vehicleLike struct {
	Year  int    `json:"year" validate:"modelyear"`
	Make  string `json:"make" validate:"required,notblank,max=100"`
	Notes string `json:"-" validate:"max=3"`
}

type orderLike struct {
	Order []string `json:"order" validate:"min=1,max=3,unique,dive,required"`
}

func TestValidateStruct_Valid(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
	}{
		{"checkout", &checkoutLike{Email: "a@example.com", MetricTons: 1.5, PaymentType: "one-time"}},
		{"subscription", &checkoutLike{Email: "a@example.com", MetricTons: 0.1, PaymentType: "subscription"}},
		{"vehicle lower bound", &vehicleLike{Year: 2010, Make: "Ford"}},
		{"vehicle upper bound", &vehicleLike{Year: 2026, Make: "Ford"}},
		{"order", &orderLike{Order: []string{"hero", "calculator"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateStruct(tt.input); err != nil {
				t.Errorf("ValidateStruct() error = %v", err)
			}
		})
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		input     interface{}
		wantField string
		wantTag   string
	}{
		{"missing email", &checkoutLike{MetricTons: 1, PaymentType: "one-time"}, "email", "required"},
		{"bad email", &checkoutLike{Email: "nope", MetricTons: 1, PaymentType: "one-time"}, "email", "email"},
		{"zero tons", &checkoutLike{Email: "a@example.com", PaymentType: "one-time"}, "metricTons", "gt"},
		{"unknown payment type", &checkoutLike{Email: "a@example.com", MetricTons: 1, PaymentType: "yearly"}, "paymentType", "oneof"},
		{"year too old", &vehicleLike{Year: 2009, Make: "Ford"}, "year", "modelyear"},
		{"year too new", &vehicleLike{Year: 2027, Make: "Ford"}, "year", "modelyear"},
		{"blank make", &vehicleLike{Year: 2024, Make: "   "}, "make", "notblank"},
		{"tab make", &vehicleLike{Year: 2024, Make: "\t\n"}, "make", "notblank"},
		{"empty order", &orderLike{Order: []string{}}, "order", "min"},
		{"duplicate order", &orderLike{Order: []string{"hero", "hero"}}, "order", "unique"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.input)
			if err == nil {
				t.Fatal("ValidateStruct() expected error")
			}
			got := err.Errors()[0]
			if got.Field() != tt.wantField {
				t.Errorf("Field() = %q, want %q", got.Field(), tt.wantField)
			}
			if got.Tag() != tt.wantTag {
				t.Errorf("Tag() = %q, want %q", got.Tag(), tt.wantTag)
			}
		})
	}
}

func TestValidateStruct_IgnoredJSONFieldUsesGoName(t *testing.T) {
	err := ValidateStruct(&vehicleLike{Year: 2020, Make: "Ford", Notes: "too long"})
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Errors()[0].Field(); got != "Notes" {
		t.Errorf("Field() = %q, want Notes", got)
	}
}

// ===================================================================================================
// APIError Conversion Tests
// ===================================================================================================

func TestToAPIError_SingleError(t *testing.T) {
	err := ValidateStruct(&checkoutLike{Email: "nope", MetricTons: 1, PaymentType: "one-time"})
	if err == nil {
		t.Fatal("expected error")
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q", apiErr.Code)
	}
	if apiErr.Message != "email must be a valid email address" {
		t.Errorf("Message = %q", apiErr.Message)
	}
	if apiErr.Details["field"] != "email" {
		t.Errorf("Details[field] = %v", apiErr.Details["field"])
	}
}

func TestToAPIError_MultipleErrors(t *testing.T) {
	err := ValidateStruct(&checkoutLike{})
	if err == nil {
		t.Fatal("expected error")
	}

	apiErr := err.ToAPIError()
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok {
		t.Fatalf("Details[fields] has type %T", apiErr.Details["fields"])
	}
	if len(fields) != 3 {
		t.Errorf("got %d field errors, want 3", len(fields))
	}
	if !strings.Contains(apiErr.Message, "; ") {
		t.Errorf("Message should join errors: %q", apiErr.Message)
	}
}

func TestToAPIError_Empty(t *testing.T) {
	apiErr := (&RequestValidationError{}).ToAPIError()
	if apiErr.Message != "Validation failed" {
		t.Errorf("Message = %q", apiErr.Message)
	}
}

// ===================================================================================================
// Message Translation Tests
// ===================================================================================================

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  string
	}{
		{"oneof", &checkoutLike{Email: "a@example.com", MetricTons: 1, PaymentType: "x"}, "paymentType must be one of: one-time subscription"},
		{"gt", &checkoutLike{Email: "a@example.com", MetricTons: -1, PaymentType: "one-time"}, "metricTons must be greater than 0"},
		{"modelyear", &vehicleLike{Year: 1999, Make: "Ford"}, "year must be a model year between 2010 and 2026"},
		{"max string", &vehicleLike{Year: 2020, Make: strings.Repeat("x", 101)}, "make must be at most 100 characters"},
		{"max slice", &orderLike{Order: []string{"a", "b", "c", "d"}}, "order must contain at most 3 items"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.input)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := err.Errors()[0].Error(); got != tt.want {
				t.Errorf("message = %q, want %q", got, tt.want)
			}
		})
	}
}
