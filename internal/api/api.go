/*
Copyright (C) 2026 Planning Inspectorate

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package api exposes the HTTP handlers for the programming service.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/Planning-Inspectorate/inspector-programming-sub000/internal/auth"
	"github.com/Planning-Inspectorate/inspector-programming-sub000/internal/casework"
	"github.com/Planning-Inspectorate/inspector-programming-sub000/internal/inspectors"
	"github.com/Planning-Inspectorate/inspector-programming-sub000/internal/models"
	"github.com/Planning-Inspectorate/inspector-programming-sub000/internal/postcode"
	"github.com/Planning-Inspectorate/inspector-programming-sub000/internal/programming"
)

const tokenTTL = 12 * time.Hour

// PostcodeLookup resolves a site postcode to location details.
type PostcodeLookup interface {
	Lookup(ctx context.Context, raw string) (*postcode.Result, error)
}

// API exposes HTTP handlers.
type API struct {
	db          *gorm.DB
	jwtSecret   []byte
	cases       *casework.Service
	inspectors  *inspectors.Service
	programming *programming.Service
	calendar    programming.CalendarClient
	postcodes   PostcodeLookup
	logger      zerolog.Logger
}

// New creates the API router wrapper.
func New(db *gorm.DB, jwtSecret []byte, cases *casework.Service, insp *inspectors.Service, prog *programming.Service, calendar programming.CalendarClient, postcodes PostcodeLookup, logger zerolog.Logger) *API {
	return &API{
		db:          db,
		jwtSecret:   jwtSecret,
		cases:       cases,
		inspectors:  insp,
		programming: prog,
		calendar:    calendar,
		postcodes:   postcodes,
		logger:      logger,
	}
}

// Routes mounts API routes on provided router.
func (a *API) Routes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", a.handleHealth)
		r.Post("/auth/login", a.handleLogin)

		r.Group(func(pr chi.Router) {
			pr.Use(a.authMiddleware())

			pr.Route("/cases", func(r chi.Router) {
				r.Get("/", a.handleCasesList)
				r.Route("/{caseID}", func(r chi.Router) {
					r.Get("/", a.handleCaseGet)
					r.Get("/site", a.handleCaseSite)
				})
			})

			pr.Route("/inspectors", func(r chi.Router) {
				r.Get("/", a.handleInspectorsList)
				r.Route("/{inspectorID}", func(r chi.Router) {
					r.Get("/", a.handleInspectorGet)
					r.Get("/cases", a.handleInspectorCases)
					r.Get("/calendar", a.handleInspectorCalendar)
					r.Get("/runs", a.handleInspectorRuns)
					r.With(auth.RequireRole(string(models.RoleAdmin), string(models.RoleProgrammer))).
						Post("/allocate", a.handleAllocate)
				})
			})
		})
	})
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "credentials_required")
		return
	}

	claims, err := auth.ValidateCredentials(a.db, req.Email, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid_credentials")
		return
	}

	token, err := auth.Issue(a.jwtSecret, *claims, tokenTTL)
	if err != nil {
		a.logger.Error().Err(err).Msg("token issue failed")
		writeError(w, http.StatusInternalServerError, "token_error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"roles": claims.Roles,
	})
}

func (a *API) authMiddleware() func(http.Handler) http.Handler {
	return auth.Middleware(a.jwtSecret)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
