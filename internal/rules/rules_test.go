/*
Copyright (C) 2026 Planning Inspectorate

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package rules

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Planning-Inspectorate/inspector-programming-sub000/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.TimingRule{}); err != nil {
		t.Fatalf("migrate schema: %v", err)
	}
	return db
}

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	return path
}

const seedDoc = `rules:
  - procedureType: written
    allocationLevel: B
    caseType: W
    prep: 2
    siteVisit: 3
    report: 2
    costs: 1
  - procedureType: hearing
    allocationLevel: C
    caseType: H
    prep: 4
    siteVisit: 8
    report: 6
    costs: 2
`

func TestSeedFromFile(t *testing.T) {
	db := newTestDB(t)
	svc := New(db, zerolog.Nop())

	count, err := svc.SeedFromFile(context.Background(), writeSeed(t, seedDoc))
	if err != nil {
		t.Fatalf("SeedFromFile: %v", err)
	}
	if count != 2 {
		t.Fatalf("seeded %d rules, want 2", count)
	}

	rules, err := svc.TimingRules(context.Background())
	if err != nil {
		t.Fatalf("TimingRules: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("rules = %d, want 2", len(rules))
	}
}

func TestSeedFromFileUpserts(t *testing.T) {
	db := newTestDB(t)
	svc := New(db, zerolog.Nop())

	if _, err := svc.SeedFromFile(context.Background(), writeSeed(t, seedDoc)); err != nil {
		t.Fatalf("first seed: %v", err)
	}

	updated := `rules:
  - procedureType: written
    allocationLevel: B
    caseType: W
    prep: 5
    siteVisit: 3
    report: 2
    costs: 1
`
	if _, err := svc.SeedFromFile(context.Background(), writeSeed(t, updated)); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	rules, err := svc.TimingRules(context.Background())
	if err != nil {
		t.Fatalf("TimingRules: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("rules = %d after upsert, want 2", len(rules))
	}
	for _, rule := range rules {
		if rule.ProcedureType == "written" && rule.PrepHours != 5 {
			t.Fatalf("written rule prep = %d, want 5 after upsert", rule.PrepHours)
		}
	}
}

func TestSeedFromFileRejectsIncompleteTriple(t *testing.T) {
	db := newTestDB(t)
	svc := New(db, zerolog.Nop())

	bad := `rules:
  - procedureType: written
    caseType: W
    prep: 2
`
	if _, err := svc.SeedFromFile(context.Background(), writeSeed(t, bad)); err == nil {
		t.Fatalf("expected error for incomplete rule triple")
	}
}
