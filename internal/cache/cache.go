/*
Copyright (C) 2026 Planning Inspectorate

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package cache provides a Redis-based caching layer for frequently accessed
// data, degrading gracefully when Redis is unreachable.
package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Default TTL values for different cache types.
const (
	DefaultHolidayTTL  = 24 * time.Hour
	DefaultCaseListTTL = 5 * time.Minute
)

// Key prefixes for Redis cache.
const (
	KeyBankHolidays = "pins:cache:bank_holidays"
	KeyCaseList     = "pins:cache:cases:" // + inspector_id
)

// Config contains cache configuration.
type Config struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	HolidayTTL  time.Duration
	CaseListTTL time.Duration

	// If true, disable caching after a Redis error instead of retrying
	// every call.
	DisableOnError bool
}

// DefaultConfig returns default cache configuration.
func DefaultConfig() Config {
	return Config{
		RedisAddr:      "localhost:6379",
		HolidayTTL:     DefaultHolidayTTL,
		CaseListTTL:    DefaultCaseListTTL,
		DisableOnError: true,
	}
}

// Cache provides Redis-backed caching with graceful fallback.
type Cache struct {
	client *redis.Client
	logger zerolog.Logger
	config Config

	mu       sync.Mutex
	disabled bool
}

// New creates a cache backed by the configured Redis instance.
func New(cfg Config, logger zerolog.Logger) *Cache {
	if cfg.HolidayTTL <= 0 {
		cfg.HolidayTTL = DefaultHolidayTTL
	}
	if cfg.CaseListTTL <= 0 {
		cfg.CaseListTTL = DefaultCaseListTTL
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	return &Cache{client: client, logger: logger, config: cfg}
}

// Close releases the Redis connection.
func (c *Cache) Close() error {
	return c.client.Close()
}

func (c *Cache) available() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.disabled
}

func (c *Cache) handleError(err error, op string) {
	c.logger.Debug().Err(err).Str("op", op).Msg("cache operation failed")
	if c.config.DisableOnError {
		c.mu.Lock()
		c.disabled = true
		c.mu.Unlock()
		c.logger.Warn().Msg("cache disabled after Redis error")
	}
}

// GetBankHolidays returns cached holiday date strings, if present.
func (c *Cache) GetBankHolidays(ctx context.Context) ([]string, bool) {
	if !c.available() {
		return nil, false
	}
	raw, err := c.client.Get(ctx, KeyBankHolidays).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.handleError(err, "get_bank_holidays")
		return nil, false
	}
	var dates []string
	if err := json.Unmarshal(raw, &dates); err != nil {
		return nil, false
	}
	return dates, true
}

// SetBankHolidays stores holiday date strings.
func (c *Cache) SetBankHolidays(ctx context.Context, dates []string) error {
	if !c.available() {
		return nil
	}
	raw, err := json.Marshal(dates)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, KeyBankHolidays, raw, c.config.HolidayTTL).Err(); err != nil {
		c.handleError(err, "set_bank_holidays")
		return err
	}
	return nil
}

// InvalidateCaseList drops the cached case list for an inspector.
func (c *Cache) InvalidateCaseList(ctx context.Context, inspectorID string) {
	if !c.available() {
		return
	}
	if err := c.client.Del(ctx, KeyCaseList+inspectorID).Err(); err != nil {
		c.handleError(err, "invalidate_case_list")
	}
}
