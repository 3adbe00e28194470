/*
Copyright (C) 2026 Planning Inspectorate

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package allocation

import (
	"encoding/json"
	"fmt"
	"time"
)

// dateTimeLayout is the ISO form the calendar write API expects in the
// dateTime field; the zone is carried separately in timeZone.
const dateTimeLayout = "2006-01-02T15:04:05"

// caseDataPropertyID identifies the extension property the downstream
// calendar system reads case metadata from.
const caseDataPropertyID = "String {66f5a359-4659-4830-9070-00040ec6ac6e} Name caseData"

// CalendarEventInput is one placed chunk in the wire shape of the external
// calendar-write API. The shape is dictated by that API's contract; fields
// that are absent must be omitted rather than serialised as null.
type CalendarEventInput struct {
	Subject                       string             `json:"subject"`
	Start                         DateTimeTimeZone   `json:"start"`
	End                           DateTimeTimeZone   `json:"end"`
	Location                      *Location          `json:"location,omitempty"`
	SingleValueExtendedProperties []ExtendedProperty `json:"singleValueExtendedProperties,omitempty"`
}

// DateTimeTimeZone pairs an ISO datetime with an explicit zone tag.
type DateTimeTimeZone struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

// Location nests the site address placeholders.
type Location struct {
	DisplayName string           `json:"displayName,omitempty"`
	Address     *PhysicalAddress `json:"address,omitempty"`
}

// PhysicalAddress carries the site postcode and address placeholders.
type PhysicalAddress struct {
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
}

// ExtendedProperty is an opaque id/value pair; value is a JSON string.
type ExtendedProperty struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

// caseDataExtension is serialised into the extension property value. Fields
// are omitted when unset, matching the downstream contract.
type caseDataExtension struct {
	CaseReference string `json:"caseReference,omitempty"`
	EventType     string `json:"eventType,omitempty"`
}

// buildEvent constructs the calendar payload for one placed chunk. The
// subject embeds the case reference, case type, authority, stage name and
// the chunk's hour count.
func buildEvent(c Case, stage Stage, chunkHours int, slot Timeslot) CalendarEventInput {
	subject := fmt.Sprintf("%s - %s - %s - %s - %d", c.Reference, c.CaseType, c.Authority, stage, chunkHours)

	event := CalendarEventInput{
		Subject: subject,
		Start:   DateTimeTimeZone{DateTime: slot.Start.UTC().Format(dateTimeLayout), TimeZone: "UTC"},
		End:     DateTimeTimeZone{DateTime: slot.End.UTC().Format(dateTimeLayout), TimeZone: "UTC"},
	}

	if c.SitePostcode != "" {
		event.Location = &Location{
			DisplayName: c.SitePostcode,
			Address:     &PhysicalAddress{PostalCode: c.SitePostcode},
		}
	}

	extension := caseDataExtension{CaseReference: c.Reference, EventType: string(stage)}
	if value, err := json.Marshal(extension); err == nil {
		event.SingleValueExtendedProperties = []ExtendedProperty{
			{ID: caseDataPropertyID, Value: string(value)},
		}
	}

	return event
}

// parseAssignmentDate reads the run's anchor date.
func parseAssignmentDate(raw string) (time.Time, error) {
	date, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse assignment date %q: %w", raw, err)
	}
	return date, nil
}
