/*
Copyright (C) 2026 Planning Inspectorate

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package allocation implements the calendar-event allocation engine: given
// the cases assigned to an inspector on a date, it synthesises a sequence of
// non-overlapping calendar events (preparation, site visit, report writing,
// costs) packed into working days around weekends, bank holidays and the
// inspector's existing commitments.
package allocation

import (
	"errors"
	"fmt"
)

// Stage is one of the four fixed phases of case handling that require
// calendar time. The declaration order is the iteration order.
type Stage string

const (
	StagePrep      Stage = "prep"
	StageSiteVisit Stage = "siteVisit"
	StageReport    Stage = "report"
	StageCosts     Stage = "costs"
)

// Stages lists every stage in allocation order. Prep is the only stage that
// walks backward from the assignment date; all others walk forward.
var Stages = []Stage{StagePrep, StageSiteVisit, StageReport, StageCosts}

// Advances reports whether date skipping for the stage moves forward in time.
func (s Stage) Advances() bool {
	return s != StagePrep
}

// Sentinel errors surfaced by the engine. All three abort the whole run; the
// caller must not submit partial output.
var (
	ErrCaseNotFound = errors.New("case not found")
	ErrNoTimingRule = errors.New("no timing rule matches case")
	ErrInvalidStage = errors.New("invalid stage")
	ErrNoSlot       = errors.New("no free slot within working day")
)

// Case carries the attributes of one appeal relevant to allocation. It is
// read-only input for the duration of a run.
type Case struct {
	Reference       string
	ProcedureType   string
	AllocationLevel string
	CaseType        string
	Authority       string
	SitePostcode    string
}

// TimingRule maps a (procedure, allocation level, case type) triple to the
// configured hours for each stage.
type TimingRule struct {
	ProcedureType   string
	AllocationLevel string
	CaseType        string
	PrepHours       int
	SiteVisitHours  int
	ReportHours     int
	CostsHours      int
}

// HoursFor returns the configured duration for the stage. The switch is
// total over the Stage enumeration, so the error path only fires if a caller
// fabricates a stage value.
func (r TimingRule) HoursFor(stage Stage) (int, error) {
	switch stage {
	case StagePrep:
		return r.PrepHours, nil
	case StageSiteVisit:
		return r.SiteVisitHours, nil
	case StageReport:
		return r.ReportHours, nil
	case StageCosts:
		return r.CostsHours, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidStage, stage)
	}
}

// MatchTimingRule finds the rule whose triple exactly equals the case's
// procedure, allocation level and case type.
func MatchTimingRule(rules []TimingRule, c Case) (TimingRule, bool) {
	for _, rule := range rules {
		if rule.ProcedureType == c.ProcedureType &&
			rule.AllocationLevel == c.AllocationLevel &&
			rule.CaseType == c.CaseType {
			return rule, true
		}
	}
	return TimingRule{}, false
}
