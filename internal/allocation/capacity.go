/*
Copyright (C) 2026 Planning Inspectorate

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package allocation

import "time"

// DayHasCapacity reports whether placing a chunk of chunkHours on the given
// date keeps that date's committed total within the eight-hour cap. The sum
// is taken over the date portion only; where within the day the existing
// intervals fall is the slot allocator's concern, not this check's. A bank
// holiday compiles to a near-24-hour interval and therefore always fails.
func DayHasCapacity(date time.Time, chunkHours int, booked []Timeslot) bool {
	committed := 0.0
	for _, slot := range booked {
		if sameDate(slot.Start, date) {
			committed += slot.Hours()
		}
	}
	return committed+float64(chunkHours) <= float64(maxChunkHours)
}
