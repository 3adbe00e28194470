/*
Copyright (C) 2026 Planning Inspectorate

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package config

import "testing"

func TestLoadRequiresDSN(t *testing.T) {
	t.Setenv("PINS_DB_DSN", "")
	t.Setenv("PINS_JWT_SIGNING_KEY", "secret")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PINS_DB_DSN is missing")
	}
}

func TestLoadRequiresSigningKey(t *testing.T) {
	t.Setenv("PINS_DB_DSN", "file::memory:?cache=shared")
	t.Setenv("PINS_DB_BACKEND", "sqlite")
	t.Setenv("PINS_JWT_SIGNING_KEY", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PINS_JWT_SIGNING_KEY is missing")
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("PINS_DB_DSN", "dsn")
	t.Setenv("PINS_JWT_SIGNING_KEY", "secret")
	t.Setenv("PINS_DB_BACKEND", "oracle")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unsupported backend")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PINS_DB_DSN", "file::memory:?cache=shared")
	t.Setenv("PINS_DB_BACKEND", "sqlite")
	t.Setenv("PINS_JWT_SIGNING_KEY", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPPort != 8080 {
		t.Fatalf("HTTPPort = %d, want 8080", cfg.HTTPPort)
	}
	if cfg.BankHolidaysURL != "https://www.gov.uk/bank-holidays.json" {
		t.Fatalf("BankHolidaysURL default = %q", cfg.BankHolidaysURL)
	}
	if !cfg.CacheEnabled {
		t.Fatalf("CacheEnabled should default to true")
	}
}
