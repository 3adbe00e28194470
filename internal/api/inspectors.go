/*
Copyright (C) 2026 Planning Inspectorate

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/Planning-Inspectorate/inspector-programming-sub000/internal/allocation"
	"github.com/Planning-Inspectorate/inspector-programming-sub000/internal/programming"
)

func (a *API) handleInspectorsList(w http.ResponseWriter, r *http.Request) {
	list, err := a.inspectors.List(r.Context())
	if err != nil {
		a.logger.Error().Err(err).Msg("inspector list failed")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (a *API) handleInspectorGet(w http.ResponseWriter, r *http.Request) {
	inspectorID := chi.URLParam(r, "inspectorID")

	inspector, err := a.inspectors.Get(r.Context(), inspectorID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, inspector)
}

func (a *API) handleInspectorCases(w http.ResponseWriter, r *http.Request) {
	inspectorID := chi.URLParam(r, "inspectorID")

	cases, err := a.cases.ListForInspector(r.Context(), inspectorID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, cases)
}

// handleInspectorCalendar previews the inspector's existing bookings for a
// window given as from/to date query parameters.
func (a *API) handleInspectorCalendar(w http.ResponseWriter, r *http.Request) {
	inspectorID := chi.URLParam(r, "inspectorID")

	from, err := parseDateParam(r, "from", time.Now().UTC())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_from")
		return
	}
	to, err := parseDateParam(r, "to", from.AddDate(0, 0, 60))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_to")
		return
	}
	if !to.After(from) {
		writeError(w, http.StatusBadRequest, "empty_window")
		return
	}

	bookings, err := a.calendar.ExistingBookings(r.Context(), inspectorID, from, to)
	if err != nil {
		a.logger.Error().Err(err).Str("inspector", inspectorID).Msg("calendar fetch failed")
		writeError(w, http.StatusBadGateway, "calendar_unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"inspectorId": inspectorID,
		"from":        from.Format("2006-01-02"),
		"to":          to.Format("2006-01-02"),
		"bookings":    bookings,
	})
}

func (a *API) handleInspectorRuns(w http.ResponseWriter, r *http.Request) {
	inspectorID := chi.URLParam(r, "inspectorID")

	runs, err := a.programming.History(r.Context(), inspectorID, 0)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

type allocateRequest struct {
	AssignmentDate string   `json:"assignmentDate"`
	CaseIDs        []string `json:"caseIds"`
	DryRun         bool     `json:"dryRun"`
}

func (a *API) handleAllocate(w http.ResponseWriter, r *http.Request) {
	inspectorID := chi.URLParam(r, "inspectorID")

	var req allocateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if req.AssignmentDate == "" {
		writeError(w, http.StatusBadRequest, "assignment_date_required")
		return
	}
	if len(req.CaseIDs) == 0 {
		writeError(w, http.StatusBadRequest, "case_ids_required")
		return
	}

	result, err := a.programming.Run(r.Context(), programming.RunRequest{
		InspectorID:    inspectorID,
		AssignmentDate: req.AssignmentDate,
		CaseIDs:        req.CaseIDs,
		DryRun:         req.DryRun,
	})
	if err != nil {
		a.logger.Error().Err(err).Str("inspector", inspectorID).Msg("allocation run failed")
		if errors.Is(err, programming.ErrInspectorNotFound) || errors.Is(err, allocation.ErrCaseNotFound) {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		writeError(w, http.StatusUnprocessableEntity, "allocation_failed")
		return
	}

	status := http.StatusCreated
	if req.DryRun {
		status = http.StatusOK
	}
	writeJSON(w, status, result)
}

func parseDateParam(r *http.Request, key string, def time.Time) (time.Time, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def.Truncate(24 * time.Hour), nil
	}
	return time.Parse("2006-01-02", raw)
}
