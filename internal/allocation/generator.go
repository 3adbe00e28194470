/*
Copyright (C) 2026 Planning Inspectorate

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package allocation

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
)

// CaseSource resolves case identifiers to case details.
type CaseSource interface {
	CaseByID(ctx context.Context, id string) (*Case, error)
}

// RuleSource supplies the configured timing rules.
type RuleSource interface {
	TimingRules(ctx context.Context) ([]TimingRule, error)
}

// HolidaySource supplies bank holiday dates as ISO date strings.
type HolidaySource interface {
	BankHolidays(ctx context.Context) ([]string, error)
}

// Generator composes the allocation engine across stages and cases. It holds
// no state between runs; every invocation builds its working set fresh.
type Generator struct {
	cases    CaseSource
	rules    RuleSource
	holidays HolidaySource
	logger   zerolog.Logger
}

// NewGenerator constructs the event generator.
func NewGenerator(cases CaseSource, rules RuleSource, holidays HolidaySource, logger zerolog.Logger) *Generator {
	return &Generator{cases: cases, rules: rules, holidays: holidays, logger: logger}
}

// Request describes one allocation run.
type Request struct {
	// AssignmentDate is the calendar date of the assignment, "2006-01-02".
	AssignmentDate string
	// CaseIDs are processed in the order given.
	CaseIDs []string
	// ExistingBookings are the inspector's pre-existing commitments.
	ExistingBookings []Timeslot
}

// Generate produces the ordered calendar events for the request. Output is
// stage-major: every prep event for every case precedes any site-visit
// event, and so on. On error no partial output is returned; the caller must
// not submit anything.
func (g *Generator) Generate(ctx context.Context, req Request) ([]CalendarEventInput, error) {
	assignment, err := parseAssignmentDate(req.AssignmentDate)
	if err != nil {
		return nil, err
	}

	rules, err := g.rules.TimingRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch timing rules: %w", err)
	}

	holidayDates, err := g.fetchHolidayDates(ctx)
	if err != nil {
		return nil, err
	}

	// Working set of everything already occupying calendar time. It only
	// grows: each placed chunk is appended so later placements see it.
	booked := make([]Timeslot, 0, len(req.ExistingBookings)+len(holidayDates))
	booked = append(booked, req.ExistingBookings...)
	booked = append(booked, CompileBankHolidays(holidayDates, assignment)...)

	// Intervals synthesised by this run, kept separately because stage
	// anchors derive from the most recently allocated start time only.
	allocated := make([]Timeslot, 0)

	events := make([]CalendarEventInput, 0)

	for _, stage := range Stages {
		stageAnchor := stageStartAnchor(stage, assignment, allocated)

		for _, caseID := range req.CaseIDs {
			details, err := g.cases.CaseByID(ctx, caseID)
			if err != nil {
				return nil, fmt.Errorf("fetch case %s: %w", caseID, err)
			}
			if details == nil {
				return nil, fmt.Errorf("%w: %s", ErrCaseNotFound, caseID)
			}

			rule, ok := MatchTimingRule(rules, *details)
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrNoTimingRule, caseID)
			}

			hours, err := rule.HoursFor(stage)
			if err != nil {
				return nil, err
			}
			if hours <= 0 {
				continue
			}

			anchor := stageAnchor
			for i, chunk := range SplitHours(hours) {
				if i > 0 {
					// Later chunks of a multi-day split begin the day after
					// the previous chunk and re-enter the skip loop.
					anchor = anchor.AddDate(0, 0, 1)
				}

				day := nextEligibleDay(anchor, stage, chunk, booked)
				slot, err := allocateSlot(day, chunk, booked)
				if err != nil {
					return nil, fmt.Errorf("allocate %s chunk for case %s: %w", stage, caseID, err)
				}

				events = append(events, buildEvent(*details, stage, chunk, slot))
				booked = append(booked, slot)
				allocated = append(allocated, slot)
				anchor = day
			}
		}
	}

	g.logger.Debug().
		Str("assignment_date", req.AssignmentDate).
		Int("cases", len(req.CaseIDs)).
		Int("events", len(events)).
		Msg("allocation run complete")

	return events, nil
}

// stageStartAnchor computes the stage's starting anchor date. Prep walks
// backward from the day before the assignment; every other stage starts the
// day after the most recently allocated interval of this run, falling back
// to the assignment date when nothing has been allocated yet.
func stageStartAnchor(stage Stage, assignment time.Time, allocated []Timeslot) time.Time {
	if stage == StagePrep {
		return assignment.AddDate(0, 0, -1)
	}
	if len(allocated) == 0 {
		return assignment
	}
	latest := make([]Timeslot, len(allocated))
	copy(latest, allocated)
	sort.Slice(latest, func(i, j int) bool {
		return latest[i].Start.After(latest[j].Start)
	})
	y, m, d := latest[0].Start.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
}

func (g *Generator) fetchHolidayDates(ctx context.Context) ([]time.Time, error) {
	raw, err := g.holidays.BankHolidays(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch bank holidays: %w", err)
	}
	dates := make([]time.Time, 0, len(raw))
	for _, iso := range raw {
		date, err := time.ParseInLocation("2006-01-02", iso, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("parse bank holiday %q: %w", iso, err)
		}
		dates = append(dates, date)
	}
	return dates, nil
}
