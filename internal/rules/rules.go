/*
Copyright (C) 2026 Planning Inspectorate

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package rules loads and serves the timing rules that drive stage durations.
package rules

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Planning-Inspectorate/inspector-programming-sub000/internal/allocation"
	"github.com/Planning-Inspectorate/inspector-programming-sub000/internal/models"
)

// Service serves timing rules from the database.
type Service struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// New constructs the rule service.
func New(db *gorm.DB, logger zerolog.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// TimingRules returns every configured rule in engine form.
func (s *Service) TimingRules(ctx context.Context) ([]allocation.TimingRule, error) {
	var records []models.TimingRule
	if err := s.db.WithContext(ctx).Find(&records).Error; err != nil {
		return nil, err
	}
	rules := make([]allocation.TimingRule, len(records))
	for i, r := range records {
		rules[i] = allocation.TimingRule{
			ProcedureType:   r.ProcedureType,
			AllocationLevel: r.AllocationLevel,
			CaseType:        r.CaseType,
			PrepHours:       r.PrepHours,
			SiteVisitHours:  r.SiteVisitHours,
			ReportHours:     r.ReportHours,
			CostsHours:      r.CostsHours,
		}
	}
	return rules, nil
}

// seedFile is the YAML shape of a timing-rule seed document.
type seedFile struct {
	Rules []seedRule `yaml:"rules"`
}

type seedRule struct {
	ProcedureType   string `yaml:"procedureType"`
	AllocationLevel string `yaml:"allocationLevel"`
	CaseType        string `yaml:"caseType"`
	Prep            int    `yaml:"prep"`
	SiteVisit       int    `yaml:"siteVisit"`
	Report          int    `yaml:"report"`
	Costs           int    `yaml:"costs"`
}

// SeedFromFile upserts timing rules from a YAML document, keyed on the
// (procedure, level, type) triple. Returns the number of rules applied.
func (s *Service) SeedFromFile(ctx context.Context, path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read seed file: %w", err)
	}

	var doc seedFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return 0, fmt.Errorf("parse seed file: %w", err)
	}

	for i, rule := range doc.Rules {
		if rule.ProcedureType == "" || rule.AllocationLevel == "" || rule.CaseType == "" {
			return 0, fmt.Errorf("seed rule %d: procedureType, allocationLevel and caseType are required", i)
		}
		if rule.Prep < 0 || rule.SiteVisit < 0 || rule.Report < 0 || rule.Costs < 0 {
			return 0, fmt.Errorf("seed rule %d: stage hours must not be negative", i)
		}

		record := models.TimingRule{
			ID:              uuid.NewString(),
			ProcedureType:   rule.ProcedureType,
			AllocationLevel: rule.AllocationLevel,
			CaseType:        rule.CaseType,
			PrepHours:       rule.Prep,
			SiteVisitHours:  rule.SiteVisit,
			ReportHours:     rule.Report,
			CostsHours:      rule.Costs,
		}
		err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "procedure_type"}, {Name: "allocation_level"}, {Name: "case_type"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"prep_hours", "site_visit_hours", "report_hours", "costs_hours",
			}),
		}).Create(&record).Error
		if err != nil {
			return 0, fmt.Errorf("upsert rule %s/%s/%s: %w", rule.ProcedureType, rule.AllocationLevel, rule.CaseType, err)
		}
	}

	s.logger.Info().Int("rules", len(doc.Rules)).Str("path", path).Msg("timing rules seeded")
	return len(doc.Rules), nil
}
