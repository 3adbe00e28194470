/*
Copyright (C) 2026 Planning Inspectorate

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package postcode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/postcodes/BS1%204XE" && r.URL.Path != "/postcodes/BS1 4XE" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":200,"result":{"postcode":"BS1 4XE","admin_district":"Bristol, City of","region":"South West","latitude":51.449,"longitude":-2.583}}`))
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second, zerolog.Nop())
	result, err := client.Lookup(context.Background(), "BS1 4XE")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if result == nil {
		t.Fatalf("expected result")
	}
	if result.District != "Bristol, City of" {
		t.Fatalf("unexpected district %q", result.District)
	}
	if result.Latitude == 0 || result.Longitude == 0 {
		t.Fatalf("expected coordinates, got %+v", result)
	}
}

func TestLookupUnknownPostcode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"status":404,"error":"Postcode not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second, zerolog.Nop())
	result, err := client.Lookup(context.Background(), "ZZ9 9ZZ")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if result != nil {
		t.Fatalf("expected nil result for unknown postcode, got %+v", result)
	}
}

func TestLookupUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second, zerolog.Nop())
	if _, err := client.Lookup(context.Background(), "BS1 4XE"); err == nil {
		t.Fatalf("expected error for upstream failure")
	}
}
