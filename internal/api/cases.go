/*
Copyright (C) 2026 Planning Inspectorate

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

func (a *API) handleCasesList(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "invalid_limit")
			return
		}
		limit = parsed
	}

	cases, err := a.cases.ListUnassigned(r.Context(), limit)
	if err != nil {
		a.logger.Error().Err(err).Msg("case list failed")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, cases)
}

func (a *API) handleCaseGet(w http.ResponseWriter, r *http.Request) {
	caseID := chi.URLParam(r, "caseID")

	record, err := a.cases.Get(r.Context(), caseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	if err != nil {
		a.logger.Error().Err(err).Str("case", caseID).Msg("case lookup failed")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// handleCaseSite enriches the case's site postcode with lookup data.
func (a *API) handleCaseSite(w http.ResponseWriter, r *http.Request) {
	caseID := chi.URLParam(r, "caseID")

	record, err := a.cases.Get(r.Context(), caseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	if record.SitePostcode == "" {
		writeError(w, http.StatusNotFound, "no_postcode")
		return
	}

	location, err := a.postcodes.Lookup(r.Context(), record.SitePostcode)
	if err != nil {
		a.logger.Warn().Err(err).Str("postcode", record.SitePostcode).Msg("postcode lookup failed")
		writeError(w, http.StatusBadGateway, "lookup_failed")
		return
	}
	if location == nil {
		writeError(w, http.StatusNotFound, "postcode_unknown")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"caseId":   record.ID,
		"address":  record.SiteAddress,
		"location": location,
	})
}
