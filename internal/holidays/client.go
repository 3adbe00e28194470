/*
Copyright (C) 2026 Planning Inspectorate

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package holidays fetches English public holidays from the GOV.UK
// bank-holidays feed, with a cache layer in front of the HTTP call.
package holidays

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/Planning-Inspectorate/inspector-programming-sub000/internal/cache"
)

// division selects the feed's England-and-Wales calendar.
const division = "england-and-wales"

// Client reads the GOV.UK bank-holidays JSON feed.
type Client struct {
	baseURL string
	http    *http.Client
	cache   *cache.Cache
	logger  zerolog.Logger
}

// New constructs a holiday client. cache may be nil.
func New(baseURL string, timeout time.Duration, c *cache.Cache, logger zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		cache:   c,
		logger:  logger,
	}
}

// feed mirrors the GOV.UK document: one division per key, each with events.
type feed map[string]struct {
	Division string `json:"division"`
	Events   []struct {
		Title string `json:"title"`
		Date  string `json:"date"`
	} `json:"events"`
}

// BankHolidays returns the ISO dates of England-and-Wales bank holidays. It
// is the engine's holiday collaborator.
func (c *Client) BankHolidays(ctx context.Context) ([]string, error) {
	if c.cache != nil {
		if dates, ok := c.cache.GetBankHolidays(ctx); ok {
			return dates, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch bank holidays: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bank holidays feed returned %d", resp.StatusCode)
	}

	var doc feed
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode bank holidays feed: %w", err)
	}

	calendar, ok := doc[division]
	if !ok {
		return nil, fmt.Errorf("bank holidays feed missing %q division", division)
	}

	dates := make([]string, 0, len(calendar.Events))
	for _, event := range calendar.Events {
		dates = append(dates, event.Date)
	}

	if c.cache != nil {
		if err := c.cache.SetBankHolidays(ctx, dates); err != nil {
			c.logger.Debug().Err(err).Msg("failed to cache bank holidays")
		}
	}

	return dates, nil
}
