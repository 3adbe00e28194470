/*
Copyright (C) 2026 Planning Inspectorate

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package server wires configuration, storage, clients and services into the
// HTTP process.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/Planning-Inspectorate/inspector-programming-sub000/internal/allocation"
	"github.com/Planning-Inspectorate/inspector-programming-sub000/internal/api"
	"github.com/Planning-Inspectorate/inspector-programming-sub000/internal/cache"
	"github.com/Planning-Inspectorate/inspector-programming-sub000/internal/casework"
	"github.com/Planning-Inspectorate/inspector-programming-sub000/internal/config"
	"github.com/Planning-Inspectorate/inspector-programming-sub000/internal/db"
	"github.com/Planning-Inspectorate/inspector-programming-sub000/internal/events"
	"github.com/Planning-Inspectorate/inspector-programming-sub000/internal/graphcal"
	"github.com/Planning-Inspectorate/inspector-programming-sub000/internal/holidays"
	"github.com/Planning-Inspectorate/inspector-programming-sub000/internal/inspectors"
	"github.com/Planning-Inspectorate/inspector-programming-sub000/internal/mailer"
	"github.com/Planning-Inspectorate/inspector-programming-sub000/internal/postcode"
	"github.com/Planning-Inspectorate/inspector-programming-sub000/internal/programming"
	"github.com/Planning-Inspectorate/inspector-programming-sub000/internal/rules"
	"github.com/Planning-Inspectorate/inspector-programming-sub000/internal/telemetry"
)

// Server bundles HTTP and supporting services.
type Server struct {
	cfg           *config.Config
	logger        zerolog.Logger
	router        chi.Router
	httpServer    *http.Server
	metricsServer *http.Server
	closers       []func() error

	db          *gorm.DB
	cache       *cache.Cache
	bus         *events.Bus
	api         *api.API
	programming *programming.Service
}

// New constructs the server and wires dependencies.
func New(cfg *config.Config, logger zerolog.Logger) (*Server, error) {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(telemetry.TracingMiddleware("inspector-programming-api"))
	router.Use(telemetry.MetricsMiddleware)
	router.Use(middleware.Timeout(60 * time.Second))

	srv := &Server{
		cfg:    cfg,
		logger: logger,
		router: router,
		bus:    events.NewBus(),
	}

	if err := srv.initDependencies(); err != nil {
		return nil, err
	}

	srv.configureRoutes()

	addr := fmt.Sprintf("%s:%d", cfg.HTTPBind, cfg.HTTPPort)
	srv.httpServer = &http.Server{
		Addr:              addr,
		Handler:           srv.router,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	if cfg.MetricsBind != "" {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", telemetry.Handler())
		srv.metricsServer = &http.Server{
			Addr:              cfg.MetricsBind,
			Handler:           metricsMux,
			ReadHeaderTimeout: 15 * time.Second,
		}
	}

	return srv, nil
}

func (s *Server) initDependencies() error {
	database, err := db.Connect(s.cfg)
	if err != nil {
		return err
	}
	if err := db.Migrate(database); err != nil {
		return err
	}
	s.db = database
	s.DeferClose(func() error { return db.Close(database) })

	if s.cfg.CacheEnabled {
		cacheCfg := cache.DefaultConfig()
		cacheCfg.RedisAddr = s.cfg.RedisAddr
		cacheCfg.RedisPassword = s.cfg.RedisPassword
		cacheCfg.RedisDB = s.cfg.RedisDB
		s.cache = cache.New(cacheCfg, s.logger)
		s.DeferClose(func() error { return s.cache.Close() })
	}

	caseSvc := casework.New(database, s.logger)
	ruleSvc := rules.New(database, s.logger)
	inspSvc := inspectors.New(database, s.logger)

	holidaySvc := holidays.New(s.cfg.BankHolidaysURL, s.cfg.FetchTimeout, s.cache, s.logger)
	calendarClient := graphcal.New(s.cfg.CalendarAPIURL, s.cfg.CalendarAPIKey, s.cfg.FetchTimeout, s.logger)
	postcodeClient := postcode.New(s.cfg.PostcodeAPIURL, s.cfg.FetchTimeout, s.logger)

	generator := allocation.NewGenerator(caseSvc, ruleSvc, holidaySvc, s.logger)
	s.programming = programming.New(database, generator, caseSvc, inspSvc, calendarClient, s.bus, s.logger)

	mailer.New(mailer.Config{
		Host:     s.cfg.SMTPHost,
		Port:     s.cfg.SMTPPort,
		Username: s.cfg.SMTPUsername,
		Password: s.cfg.SMTPPassword,
		From:     s.cfg.SMTPFrom,
	}, s.bus, s.logger)

	if s.cache != nil {
		s.bus.Subscribe(events.EventCasesAssigned, func(_ events.EventType, payload events.Payload) {
			if inspectorID, ok := payload["inspector_id"].(string); ok {
				s.cache.InvalidateCaseList(context.Background(), inspectorID)
			}
		})
	}

	s.api = api.New(database, []byte(s.cfg.JWTSigningKey), caseSvc, inspSvc, s.programming, calendarClient, postcodeClient, s.logger)
	return nil
}

func (s *Server) configureRoutes() {
	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	s.api.Routes(s.router)
}

// HTTPServer exposes the underlying net/http server.
func (s *Server) HTTPServer() *http.Server {
	return s.httpServer
}

// MetricsServer exposes the metrics listener, nil when unbound.
func (s *Server) MetricsServer() *http.Server {
	return s.metricsServer
}

// DB exposes the database handle for CLI subcommands.
func (s *Server) DB() *gorm.DB {
	return s.db
}

// DeferClose registers a cleanup hook.
func (s *Server) DeferClose(fn func() error) {
	s.closers = append(s.closers, fn)
}

// Close releases owned resources in reverse order.
func (s *Server) Close() error {
	var firstErr error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
