/*
Copyright (C) 2026 Planning Inspectorate

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package allocation

import "time"

// Relevance window for bank holidays around the assignment date. Holidays
// outside it can never be examined during a run.
const (
	holidayWindowBefore = 10
	holidayWindowAfter  = 60
)

// CompileBankHolidays converts holiday dates into full-day booked intervals
// [00:00:00.000, 23:59:59.999] UTC, pre-filtered to the relevance window
// around the assignment date.
func CompileBankHolidays(dates []time.Time, assignment time.Time) []Timeslot {
	windowStart := assignment.AddDate(0, 0, -holidayWindowBefore)
	windowEnd := assignment.AddDate(0, 0, holidayWindowAfter)

	slots := make([]Timeslot, 0, len(dates))
	for _, date := range dates {
		if date.Before(windowStart) || date.After(windowEnd) {
			continue
		}
		y, m, d := date.UTC().Date()
		start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		end := time.Date(y, m, d, 23, 59, 59, 999000000, time.UTC)
		slots = append(slots, Timeslot{Start: start, End: end})
	}
	return slots
}
