// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

package models

import (
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestAPIResponse_ErrorShape(t *testing.T) {
	resp := APIResponse{
		Status:   StatusError,
		Metadata: Metadata{Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
		Error:    &APIError{Code: ErrCodeNotFound, Message: "vehicle not found"},
	}

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatal(err)
	}
	got := string(data)

	if strings.Contains(got, `"data"`) {
		t.Errorf("error response should omit data: %s", got)
	}
	for _, want := range []string{`"status":"error"`, `"code":"NOT_FOUND"`, `"timestamp":"2026-03-01T12:00:00Z"`} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %s in %s", want, got)
		}
	}
}

func TestSectionMoveRequest_ZeroIndexPresent(t *testing.T) {
	var req SectionMoveRequest
	if err := json.Unmarshal([]byte(`{"from":0,"to":2}`), &req); err != nil {
		t.Fatal(err)
	}
	if req.From == nil || *req.From != 0 || req.To == nil || *req.To != 2 {
		t.Errorf("decoded %+v", req)
	}

	req = SectionMoveRequest{}
	if err := json.Unmarshal([]byte(`{"to":2}`), &req); err != nil {
		t.Fatal(err)
	}
	if req.From != nil {
		t.Error("missing from must stay nil")
	}
}
