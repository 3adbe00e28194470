/*
Copyright (C) 2026 Planning Inspectorate

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package graphcal is the boundary to the external calendar system. It lists
// an inspector's existing events (compiled into booked timeslots for the
// allocation engine) and submits generated events. Only the wire shape is
// spoken here; everything else about the calendar system stays external.
package graphcal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/Planning-Inspectorate/inspector-programming-sub000/internal/allocation"
)

// Client talks to the calendar API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  zerolog.Logger
}

// New constructs a calendar client.
func New(baseURL, apiKey string, timeout time.Duration, logger zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// wireEvent is the subset of the API's event resource the engine needs.
type wireEvent struct {
	Subject string                      `json:"subject"`
	Start   allocation.DateTimeTimeZone `json:"start"`
	End     allocation.DateTimeTimeZone `json:"end"`
}

type listResponse struct {
	Value []wireEvent `json:"value"`
}

// ExistingBookings lists the inspector's events inside the window and
// compiles them into booked timeslots.
func (c *Client) ExistingBookings(ctx context.Context, inspectorID string, from, to time.Time) ([]allocation.Timeslot, error) {
	endpoint := fmt.Sprintf("%s/users/%s/calendarView?startDateTime=%s&endDateTime=%s",
		c.baseURL,
		url.PathEscape(inspectorID),
		url.QueryEscape(from.UTC().Format(time.RFC3339)),
		url.QueryEscape(to.UTC().Format(time.RFC3339)),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list calendar events: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("calendar list returned %d", resp.StatusCode)
	}

	var payload listResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode calendar events: %w", err)
	}

	slots := make([]allocation.Timeslot, 0, len(payload.Value))
	for _, event := range payload.Value {
		start, err := parseWireTime(event.Start)
		if err != nil {
			c.logger.Warn().Err(err).Str("subject", event.Subject).Msg("skipping event with unparseable start")
			continue
		}
		end, err := parseWireTime(event.End)
		if err != nil {
			c.logger.Warn().Err(err).Str("subject", event.Subject).Msg("skipping event with unparseable end")
			continue
		}
		slots = append(slots, allocation.Timeslot{Start: start, End: end})
	}
	return slots, nil
}

// SubmitEvents writes the generated events to the inspector's calendar, one
// POST per event, stopping at the first failure. Callers treat the whole
// batch as atomic at the user level: a failure surfaces before any result is
// reported as complete.
func (c *Client) SubmitEvents(ctx context.Context, inspectorID string, events []allocation.CalendarEventInput) error {
	endpoint := fmt.Sprintf("%s/users/%s/events", c.baseURL, url.PathEscape(inspectorID))

	for i, event := range events {
		body, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("encode event %d: %w", i, err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		c.authorize(req)

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("submit event %d: %w", i, err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
			return fmt.Errorf("calendar write for event %d returned %d", i, resp.StatusCode)
		}
	}

	c.logger.Info().Str("inspector", inspectorID).Int("events", len(events)).Msg("calendar events submitted")
	return nil
}

func (c *Client) authorize(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

func parseWireTime(value allocation.DateTimeTimeZone) (time.Time, error) {
	return time.ParseInLocation("2006-01-02T15:04:05", value.DateTime, time.UTC)
}
