// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

package database

import (
	"errors"
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/tomtom215/carbonoffset/internal/catalog"
)

func TestListOptions_Normalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      ListOptions
		want    ListOptions
		wantErr error
	}{
		{"defaults", ListOptions{}, ListOptions{Page: 1, Limit: DefaultPageLimit, Sort: "year"}, nil},
		{"clamps limit", ListOptions{Page: 3, Limit: 10000, Sort: "make"}, ListOptions{Page: 3, Limit: MaxPageLimit, Sort: "make"}, nil},
		{"negative page", ListOptions{Page: -4, Limit: 20, Sort: "model"}, ListOptions{Page: 1, Limit: 20, Sort: "model"}, nil},
		{"unknown column", ListOptions{Sort: "_id"}, ListOptions{}, ErrInvalidSort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			opts := tt.in
			err := opts.normalize()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("normalize() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("normalize() error = %v", err)
			}
			if opts != tt.want {
				t.Errorf("normalize() = %+v, want %+v", opts, tt.want)
			}
		})
	}
}

func TestListOptions_SortSpec(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts ListOptions
		want bson.D
	}{
		{
			name: "mpg primary adds all secondaries",
			opts: ListOptions{Sort: "mpg_combined", Desc: true},
			want: bson.D{{Key: "mpg_combined", Value: -1}, {Key: "make", Value: 1}, {Key: "year", Value: -1}, {Key: "model", Value: 1}},
		},
		{
			name: "year primary is not repeated",
			opts: ListOptions{Sort: "year"},
			want: bson.D{{Key: "year", Value: 1}, {Key: "make", Value: 1}, {Key: "model", Value: 1}},
		},
		{
			name: "make primary keeps its direction",
			opts: ListOptions{Sort: "make", Desc: true},
			want: bson.D{{Key: "make", Value: -1}, {Key: "year", Value: -1}, {Key: "model", Value: 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.opts.sortSpec(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("sortSpec() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUpsertUpdate(t *testing.T) {
	t.Parallel()

	fuel := "Regular Gasoline"
	city := 28
	v := &catalog.Vehicle{Year: 2020, Make: "Toyota", Model: "Camry", MPGCombined: 32, MPGCity: &city, FuelType: &fuel}

	update := upsertUpdate(v)
	if len(update) != 2 || update[0].Key != "$set" || update[1].Key != "$unset" {
		t.Fatalf("upsertUpdate() = %v, want $set then $unset", update)
	}

	unset, ok := update[1].Value.(bson.D)
	if !ok {
		t.Fatalf("$unset value type %T", update[1].Value)
	}
	got := make([]string, 0, len(unset))
	for _, e := range unset {
		got = append(got, e.Key)
	}
	want := []string{"mpg_highway", "cylinders", "displacement", "transmission", "drive_type"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("$unset fields = %v, want %v", got, want)
	}
}

func TestUpsertUpdate_AllPresent(t *testing.T) {
	t.Parallel()

	i, f, s := 1, 1.5, "x"
	v := &catalog.Vehicle{
		Year: 2020, Make: "A", Model: "B", MPGCombined: 1,
		MPGCity: &i, MPGHighway: &i, FuelType: &s, Cylinders: &i,
		Displacement: &f, Transmission: &s, DriveType: &s,
	}
	if update := upsertUpdate(v); len(update) != 1 {
		t.Errorf("upsertUpdate() = %v, want only $set", update)
	}
}

func TestParseID(t *testing.T) {
	t.Parallel()

	if _, err := parseID("65f1c0ffee0123456789abcd"); err != nil {
		t.Errorf("parseID(valid) error = %v", err)
	}
	for _, bad := range []string{"", "123", "zzzzzzzzzzzzzzzzzzzzzzzz"} {
		if _, err := parseID(bad); !errors.Is(err, ErrInvalidID) {
			t.Errorf("parseID(%q) error = %v, want ErrInvalidID", bad, err)
		}
	}
}
