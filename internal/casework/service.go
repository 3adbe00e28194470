/*
Copyright (C) 2026 Planning Inspectorate

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package casework exposes read access to appeal cases. It backs both the
// HTTP listing endpoints and the allocation engine's case lookup.
package casework

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/Planning-Inspectorate/inspector-programming-sub000/internal/allocation"
	"github.com/Planning-Inspectorate/inspector-programming-sub000/internal/models"
)

// Service provides case lookups.
type Service struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// New constructs the case service.
func New(db *gorm.DB, logger zerolog.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// CaseByID resolves a case identifier for the allocation engine. A missing
// case returns (nil, nil); the engine turns that into its own fatal error.
func (s *Service) CaseByID(ctx context.Context, id string) (*allocation.Case, error) {
	var record models.Case
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &allocation.Case{
		Reference:       record.Reference,
		ProcedureType:   record.ProcedureType,
		AllocationLevel: record.AllocationLevel,
		CaseType:        record.CaseType,
		Authority:       record.Authority,
		SitePostcode:    record.SitePostcode,
	}, nil
}

// Get returns the full case record for API responses.
func (s *Service) Get(ctx context.Context, id string) (*models.Case, error) {
	var record models.Case
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// ListUnassigned returns cases awaiting an inspector, oldest first.
func (s *Service) ListUnassigned(ctx context.Context, limit int) ([]models.Case, error) {
	if limit <= 0 {
		limit = 100
	}
	var cases []models.Case
	err := s.db.WithContext(ctx).
		Where("inspector_id = '' OR inspector_id IS NULL").
		Order("received_at ASC").
		Limit(limit).
		Find(&cases).Error
	return cases, err
}

// ListForInspector returns the cases currently assigned to an inspector.
func (s *Service) ListForInspector(ctx context.Context, inspectorID string) ([]models.Case, error) {
	var cases []models.Case
	err := s.db.WithContext(ctx).
		Where("inspector_id = ?", inspectorID).
		Order("received_at ASC").
		Find(&cases).Error
	return cases, err
}

// Assign records the inspector on each case in one transaction.
func (s *Service) Assign(ctx context.Context, inspectorID string, caseIDs []string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, id := range caseIDs {
			result := tx.Model(&models.Case{}).
				Where("id = ?", id).
				Updates(map[string]any{"inspector_id": inspectorID, "status": "assigned"})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return nil
	})
}
