/*
Copyright (C) 2026 Planning Inspectorate

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package allocation

import "time"

// nextEligibleDay walks the anchor date one calendar day at a time, in the
// stage's direction, until it lands on a weekday with enough remaining
// capacity for the chunk. The initial anchor is itself a candidate.
func nextEligibleDay(anchor time.Time, stage Stage, chunkHours int, booked []Timeslot) time.Time {
	step := -1
	if stage.Advances() {
		step = 1
	}

	day := anchor
	for {
		if wd := day.Weekday(); wd != time.Saturday && wd != time.Sunday {
			if DayHasCapacity(day, chunkHours, booked) {
				return day
			}
		}
		day = day.AddDate(0, 0, step)
	}
}

// allocateSlot finds the earliest non-conflicting interval of chunkHours on
// an accepted day, starting at 09:00 and shifting forward one hour past each
// conflict. The capacity check has already guaranteed the day has room, so
// the shift only resolves intra-day conflicts; the 23:00 bound is a guard
// against a malformed booked set, not a condition reached in normal runs.
func allocateSlot(day time.Time, chunkHours int, booked []Timeslot) (Timeslot, error) {
	y, m, d := day.UTC().Date()
	start := time.Date(y, m, d, workingDayStartHour, 0, 0, 0, time.UTC)

	candidate := Timeslot{Start: start, End: start.Add(time.Duration(chunkHours) * time.Hour)}
	for candidate.ConflictsWith(booked) {
		if candidate.Start.Hour() >= 23 {
			return Timeslot{}, ErrNoSlot
		}
		candidate.Start = candidate.Start.Add(time.Hour)
		candidate.End = candidate.End.Add(time.Hour)
	}
	return candidate, nil
}
