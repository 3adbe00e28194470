/*
Copyright (C) 2026 Planning Inspectorate

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package allocation

import "time"

// Timeslot is a half-open booked interval [Start, End). Real bookings, bank
// holidays and intervals synthesised earlier in the same run all compile to
// this one shape; the overlap check treats them identically.
type Timeslot struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether the two intervals overlap. The four conditions
// are deliberately redundant, covering both intervals containing either
// endpoint of the other; the strict/inclusive asymmetry makes intervals that
// exactly touch (t.End == other.Start) not overlap.
func (t Timeslot) Overlaps(other Timeslot) bool {
	if !t.Start.After(other.Start) && t.End.After(other.Start) {
		return true
	}
	if !other.Start.After(t.Start) && other.End.After(t.Start) {
		return true
	}
	if !t.End.Before(other.End) && t.Start.Before(other.End) {
		return true
	}
	if !other.End.Before(t.End) && other.Start.Before(t.End) {
		return true
	}
	return false
}

// ConflictsWith reports whether the slot overlaps any interval in booked.
func (t Timeslot) ConflictsWith(booked []Timeslot) bool {
	for _, other := range booked {
		if t.Overlaps(other) {
			return true
		}
	}
	return false
}

// Hours returns the interval's duration in hours.
func (t Timeslot) Hours() float64 {
	return t.End.Sub(t.Start).Hours()
}

// sameDate compares the calendar-date portions of two instants in UTC.
func sameDate(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
