/*
Copyright (C) 2026 Planning Inspectorate

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Database backend selection.
type DatabaseBackend string

const (
	DatabasePostgres DatabaseBackend = "postgres"
	DatabaseMySQL    DatabaseBackend = "mysql"
	DatabaseSQLite   DatabaseBackend = "sqlite"
)

// Config covers process level configuration read from environment variables.
type Config struct {
	Environment string
	HTTPBind    string
	HTTPPort    int
	BaseURL     string
	DBBackend   DatabaseBackend
	DBDSN       string

	JWTSigningKey string
	MetricsBind   string

	// Redis cache (bank holiday feed, case lists)
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheEnabled  bool

	// External service endpoints
	BankHolidaysURL string
	CalendarAPIURL  string
	CalendarAPIKey  string
	PostcodeAPIURL  string

	// SMTP for allocation summaries
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	// External fetch deadline applied to holiday/calendar/postcode calls
	FetchTimeout time.Duration

	// Tracing configuration
	TracingEnabled    bool
	OTLPEndpoint      string
	TracingSampleRate float64
}

// Load reads environment variables, applies defaults, and validates the result.
func Load() (*Config, error) {
	cfg := &Config{
		Environment: getEnv("PINS_ENV", "development"),
		HTTPBind:    getEnv("PINS_HTTP_BIND", "0.0.0.0"),
		HTTPPort:    getEnvInt("PINS_HTTP_PORT", 8080),
		BaseURL:     getEnv("PINS_BASE_URL", ""),
		DBBackend:   DatabaseBackend(getEnv("PINS_DB_BACKEND", string(DatabasePostgres))),
		DBDSN:       getEnv("PINS_DB_DSN", ""),

		JWTSigningKey: getEnv("PINS_JWT_SIGNING_KEY", ""),
		MetricsBind:   getEnv("PINS_METRICS_BIND", "127.0.0.1:9000"),

		RedisAddr:     getEnv("PINS_REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("PINS_REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("PINS_REDIS_DB", 0),
		CacheEnabled:  getEnvBool("PINS_CACHE_ENABLED", true),

		BankHolidaysURL: getEnv("PINS_BANK_HOLIDAYS_URL", "https://www.gov.uk/bank-holidays.json"),
		CalendarAPIURL:  getEnv("PINS_CALENDAR_API_URL", ""),
		CalendarAPIKey:  getEnv("PINS_CALENDAR_API_KEY", ""),
		PostcodeAPIURL:  getEnv("PINS_POSTCODE_API_URL", "https://api.postcodes.io"),

		SMTPHost:     getEnv("PINS_SMTP_HOST", ""),
		SMTPPort:     getEnvInt("PINS_SMTP_PORT", 587),
		SMTPUsername: getEnv("PINS_SMTP_USERNAME", ""),
		SMTPPassword: getEnv("PINS_SMTP_PASSWORD", ""),
		SMTPFrom:     getEnv("PINS_SMTP_FROM", "noreply@planninginspectorate.gov.uk"),

		FetchTimeout: time.Duration(getEnvInt("PINS_FETCH_TIMEOUT_SECONDS", 15)) * time.Second,

		TracingEnabled:    getEnvBool("PINS_TRACING_ENABLED", false),
		OTLPEndpoint:      getEnv("PINS_OTLP_ENDPOINT", "localhost:4317"),
		TracingSampleRate: getEnvFloat("PINS_TRACING_SAMPLE_RATE", 1.0),
	}

	if cfg.DBBackend != DatabasePostgres && cfg.DBBackend != DatabaseMySQL && cfg.DBBackend != DatabaseSQLite {
		return nil, fmt.Errorf("unsupported database backend %q", cfg.DBBackend)
	}

	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("PINS_DB_DSN must be provided")
	}

	if cfg.JWTSigningKey == "" {
		return nil, fmt.Errorf("PINS_JWT_SIGNING_KEY must be provided")
	}

	if strings.EqualFold(cfg.Environment, "production") && cfg.CalendarAPIURL == "" {
		return nil, fmt.Errorf("PINS_CALENDAR_API_URL must be provided in production")
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if val := os.Getenv(key); val != "" {
		val = strings.ToLower(strings.TrimSpace(val))
		if val == "true" || val == "1" || val == "yes" {
			return true
		}
		if val == "false" || val == "0" || val == "no" {
			return false
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return def
}
