/*
Copyright (C) 2026 Planning Inspectorate

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package allocation

// maxChunkHours caps how much of one stage can be booked on a single day.
const maxChunkHours = 8

// workingDayStartHour is the fixed daily start for candidate slots.
const workingDayStartHour = 9

// SplitHours decomposes a positive stage duration into day-sized chunks:
// full chunks of eight hours followed by the remainder, if any. Callers skip
// zero-duration stages before splitting, so hours is always positive here.
func SplitHours(hours int) []int {
	chunks := make([]int, 0, hours/maxChunkHours+1)
	for hours > maxChunkHours {
		chunks = append(chunks, maxChunkHours)
		hours -= maxChunkHours
	}
	if hours > 0 {
		chunks = append(chunks, hours)
	}
	return chunks
}
