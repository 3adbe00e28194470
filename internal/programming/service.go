/*
Copyright (C) 2026 Planning Inspectorate

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package programming orchestrates a full allocation run: gather the
// inspector's existing commitments, generate the stage events, submit them to
// the calendar, record the assignment, and leave an audit trail.
package programming

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/Planning-Inspectorate/inspector-programming-sub000/internal/allocation"
	"github.com/Planning-Inspectorate/inspector-programming-sub000/internal/casework"
	"github.com/Planning-Inspectorate/inspector-programming-sub000/internal/events"
	"github.com/Planning-Inspectorate/inspector-programming-sub000/internal/inspectors"
	"github.com/Planning-Inspectorate/inspector-programming-sub000/internal/models"
	"github.com/Planning-Inspectorate/inspector-programming-sub000/internal/telemetry"
)

// Calendar windows mirror the bank-holiday compilation window, so every
// booking that could collide with a generated slot is fetched.
const (
	bookingWindowBeforeDays = 10
	bookingWindowAfterDays  = 60
)

// ErrInspectorNotFound is returned when the run targets an unknown inspector.
var ErrInspectorNotFound = errors.New("inspector not found")

// CalendarClient is the external calendar boundary.
type CalendarClient interface {
	ExistingBookings(ctx context.Context, inspectorID string, from, to time.Time) ([]allocation.Timeslot, error)
	SubmitEvents(ctx context.Context, inspectorID string, events []allocation.CalendarEventInput) error
}

// Service runs the allocation workflow.
type Service struct {
	db         *gorm.DB
	generator  *allocation.Generator
	cases      *casework.Service
	inspectors *inspectors.Service
	calendar   CalendarClient
	bus        *events.Bus
	logger     zerolog.Logger
}

// New constructs the programming service.
func New(db *gorm.DB, generator *allocation.Generator, cases *casework.Service, insp *inspectors.Service, calendar CalendarClient, bus *events.Bus, logger zerolog.Logger) *Service {
	return &Service{
		db:         db,
		generator:  generator,
		cases:      cases,
		inspectors: insp,
		calendar:   calendar,
		bus:        bus,
		logger:     logger,
	}
}

// RunRequest describes one allocation run.
type RunRequest struct {
	InspectorID    string
	AssignmentDate string // "2006-01-02"
	CaseIDs        []string
	// DryRun generates events without submitting, assigning or auditing.
	DryRun bool
}

// RunResult reports a completed run.
type RunResult struct {
	RunID     string                          `json:"runId,omitempty"`
	Events    []allocation.CalendarEventInput `json:"events"`
	Submitted bool                            `json:"submitted"`
}

// Run executes an allocation end to end. On any failure nothing is submitted
// and no cases are assigned.
func (s *Service) Run(ctx context.Context, req RunRequest) (*RunResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "programming", "allocation.run")
	defer span.End()
	telemetry.AddSpanAttributes(span, map[string]any{
		"inspector_id":    req.InspectorID,
		"assignment_date": req.AssignmentDate,
		"case_count":      len(req.CaseIDs),
		"dry_run":         req.DryRun,
	})

	start := time.Now()
	result, err := s.run(ctx, req)
	telemetry.AllocationDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		telemetry.RecordError(span, err)
		telemetry.AllocationRunsTotal.WithLabelValues("error").Inc()
		telemetry.AllocationErrorsTotal.WithLabelValues(errorReason(err)).Inc()
		s.bus.Publish(events.EventAllocationFailed, events.Payload{
			"inspector_id":    req.InspectorID,
			"assignment_date": req.AssignmentDate,
			"error":           err.Error(),
		})
		if !req.DryRun {
			s.audit(req, 0, false, err)
		}
		return nil, err
	}

	telemetry.AllocationRunsTotal.WithLabelValues("ok").Inc()
	telemetry.AllocationEventsTotal.Add(float64(len(result.Events)))
	return result, nil
}

func (s *Service) run(ctx context.Context, req RunRequest) (*RunResult, error) {
	if len(req.CaseIDs) == 0 {
		return nil, errors.New("no case ids supplied")
	}

	inspector, err := s.inspectors.Get(ctx, req.InspectorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrInspectorNotFound, req.InspectorID)
		}
		return nil, fmt.Errorf("load inspector: %w", err)
	}

	assignment, err := time.Parse("2006-01-02", req.AssignmentDate)
	if err != nil {
		return nil, fmt.Errorf("invalid assignment date %q: %w", req.AssignmentDate, err)
	}

	from := assignment.AddDate(0, 0, -bookingWindowBeforeDays)
	to := assignment.AddDate(0, 0, bookingWindowAfterDays)
	existing, err := s.calendar.ExistingBookings(ctx, req.InspectorID, from, to)
	if err != nil {
		return nil, fmt.Errorf("fetch existing bookings: %w", err)
	}

	generated, err := s.generator.Generate(ctx, allocation.Request{
		AssignmentDate:   req.AssignmentDate,
		CaseIDs:          req.CaseIDs,
		ExistingBookings: existing,
	})
	if err != nil {
		return nil, err
	}

	if req.DryRun {
		return &RunResult{Events: generated}, nil
	}

	if err := s.calendar.SubmitEvents(ctx, req.InspectorID, generated); err != nil {
		return nil, fmt.Errorf("submit events: %w", err)
	}

	if err := s.cases.Assign(ctx, req.InspectorID, req.CaseIDs); err != nil {
		// Calendar writes have already landed. Surface the inconsistency
		// loudly rather than pretending the run failed cleanly.
		s.logger.Error().Err(err).Str("inspector", req.InspectorID).Msg("events submitted but case assignment failed")
		return nil, fmt.Errorf("assign cases after submission: %w", err)
	}
	s.bus.Publish(events.EventCasesAssigned, events.Payload{
		"inspector_id": req.InspectorID,
		"case_ids":     req.CaseIDs,
	})

	run := s.audit(req, len(generated), true, nil)

	s.bus.Publish(events.EventAllocationCompleted, events.Payload{
		"inspector_id":    req.InspectorID,
		"inspector_email": inspector.Email,
		"assignment_date": req.AssignmentDate,
		"event_count":     len(generated),
	})

	s.logger.Info().
		Str("inspector", req.InspectorID).
		Str("assignment_date", req.AssignmentDate).
		Int("events", len(generated)).
		Msg("allocation run complete")

	return &RunResult{RunID: run.ID, Events: generated, Submitted: true}, nil
}

// audit persists the run record. Audit failures are logged, never fatal.
func (s *Service) audit(req RunRequest, eventCount int, submitted bool, runErr error) *models.AllocationRun {
	run := &models.AllocationRun{
		ID:             uuid.NewString(),
		InspectorID:    req.InspectorID,
		AssignmentDate: req.AssignmentDate,
		CaseIDs:        strings.Join(req.CaseIDs, ","),
		EventCount:     eventCount,
		Submitted:      submitted,
	}
	if runErr != nil {
		run.Error = runErr.Error()
	}
	if err := s.db.Create(run).Error; err != nil {
		s.logger.Error().Err(err).Msg("failed to record allocation run")
	}
	return run
}

// History lists past runs for an inspector, newest first.
func (s *Service) History(ctx context.Context, inspectorID string, limit int) ([]models.AllocationRun, error) {
	if limit <= 0 {
		limit = 50
	}
	var runs []models.AllocationRun
	err := s.db.WithContext(ctx).
		Where("inspector_id = ?", inspectorID).
		Order("created_at DESC").
		Limit(limit).
		Find(&runs).Error
	return runs, err
}

func errorReason(err error) string {
	switch {
	case errors.Is(err, ErrInspectorNotFound):
		return "inspector_not_found"
	case errors.Is(err, allocation.ErrCaseNotFound):
		return "case_not_found"
	case errors.Is(err, allocation.ErrNoTimingRule):
		return "no_timing_rule"
	case errors.Is(err, allocation.ErrInvalidStage):
		return "invalid_stage"
	case errors.Is(err, allocation.ErrNoSlot):
		return "no_slot"
	default:
		return "other"
	}
}
