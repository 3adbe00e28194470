/*
Copyright (C) 2026 Planning Inspectorate

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package inspectors exposes read access to the inspector register.
package inspectors

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/Planning-Inspectorate/inspector-programming-sub000/internal/models"
)

// Service provides inspector lookups.
type Service struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// New constructs the inspector service.
func New(db *gorm.DB, logger zerolog.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// Get returns one inspector with specialisms preloaded.
func (s *Service) Get(ctx context.Context, id string) (*models.Inspector, error) {
	var inspector models.Inspector
	err := s.db.WithContext(ctx).
		Preload("Specialisms").
		Where("id = ?", id).
		First(&inspector).Error
	if err != nil {
		return nil, err
	}
	return &inspector, nil
}

// List returns all inspectors ordered by surname.
func (s *Service) List(ctx context.Context) ([]models.Inspector, error) {
	var list []models.Inspector
	err := s.db.WithContext(ctx).
		Preload("Specialisms").
		Order("last_name ASC, first_name ASC").
		Find(&list).Error
	return list, err
}
