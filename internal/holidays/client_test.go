/*
Copyright (C) 2026 Planning Inspectorate

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package holidays

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

const feedDoc = `{
  "england-and-wales": {
    "division": "england-and-wales",
    "events": [
      {"title": "Christmas Day", "date": "2025-12-25"},
      {"title": "Boxing Day", "date": "2025-12-26"}
    ]
  },
  "scotland": {
    "division": "scotland",
    "events": [
      {"title": "2nd January", "date": "2026-01-02"}
    ]
  }
}`

func TestBankHolidays(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(feedDoc))
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second, nil, zerolog.Nop())
	dates, err := client.BankHolidays(context.Background())
	if err != nil {
		t.Fatalf("BankHolidays: %v", err)
	}
	if len(dates) != 2 {
		t.Fatalf("dates = %v, want the two england-and-wales events", dates)
	}
	if dates[0] != "2025-12-25" || dates[1] != "2025-12-26" {
		t.Fatalf("dates = %v", dates)
	}
}

func TestBankHolidaysMissingDivision(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"scotland": {"division": "scotland", "events": []}}`))
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second, nil, zerolog.Nop())
	if _, err := client.BankHolidays(context.Background()); err == nil {
		t.Fatalf("expected error for missing division")
	}
}

func TestBankHolidaysUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second, nil, zerolog.Nop())
	if _, err := client.BankHolidays(context.Background()); err == nil {
		t.Fatalf("expected error for upstream failure")
	}
}
