/*
Copyright (C) 2026 Planning Inspectorate

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Planning-Inspectorate/inspector-programming-sub000/internal/allocation"
	"github.com/Planning-Inspectorate/inspector-programming-sub000/internal/auth"
	"github.com/Planning-Inspectorate/inspector-programming-sub000/internal/casework"
	"github.com/Planning-Inspectorate/inspector-programming-sub000/internal/events"
	"github.com/Planning-Inspectorate/inspector-programming-sub000/internal/inspectors"
	"github.com/Planning-Inspectorate/inspector-programming-sub000/internal/models"
	"github.com/Planning-Inspectorate/inspector-programming-sub000/internal/postcode"
	"github.com/Planning-Inspectorate/inspector-programming-sub000/internal/programming"
	"github.com/Planning-Inspectorate/inspector-programming-sub000/internal/rules"
)

var testSecret = []byte("test-secret")

type fakeHolidays struct{}

func (fakeHolidays) BankHolidays(ctx context.Context) ([]string, error) { return nil, nil }

type fakeCalendar struct {
	submitted int
}

func (f *fakeCalendar) ExistingBookings(ctx context.Context, inspectorID string, from, to time.Time) ([]allocation.Timeslot, error) {
	return nil, nil
}

func (f *fakeCalendar) SubmitEvents(ctx context.Context, inspectorID string, events []allocation.CalendarEventInput) error {
	f.submitted += len(events)
	return nil
}

type fakePostcodes struct {
	result *postcode.Result
}

func (f fakePostcodes) Lookup(ctx context.Context, raw string) (*postcode.Result, error) {
	return f.result, nil
}

func newTestAPI(t *testing.T) (chi.Router, *gorm.DB, *fakeCalendar) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Case{}, &models.Inspector{}, &models.InspectorSpecialism{}, &models.TimingRule{}, &models.AllocationRun{}); err != nil {
		t.Fatalf("migrate schema: %v", err)
	}

	logger := zerolog.Nop()
	caseSvc := casework.New(db, logger)
	ruleSvc := rules.New(db, logger)
	inspSvc := inspectors.New(db, logger)
	gen := allocation.NewGenerator(caseSvc, ruleSvc, fakeHolidays{}, logger)
	cal := &fakeCalendar{}
	prog := programming.New(db, gen, caseSvc, inspSvc, cal, events.NewBus(), logger)

	a := New(db, testSecret, caseSvc, inspSvc, prog, cal, fakePostcodes{
		result: &postcode.Result{Postcode: "BS1 4XE", District: "Bristol, City of"},
	}, logger)

	r := chi.NewRouter()
	a.Routes(r)
	return r, db, cal
}

func seedAPIFixtures(t *testing.T, db *gorm.DB) {
	t.Helper()

	if err := db.Create(&models.Inspector{
		ID:       "insp-1",
		LastName: "Morgan",
		Email:    "pat.morgan@example.gov.uk",
	}).Error; err != nil {
		t.Fatalf("seed inspector: %v", err)
	}
	if err := db.Create(&models.Case{
		ID:              "case-1",
		Reference:       "6000001",
		ProcedureType:   "written",
		AllocationLevel: "B",
		CaseType:        "W",
		SitePostcode:    "BS1 4XE",
		Status:          "unassigned",
		ReceivedAt:      time.Now(),
	}).Error; err != nil {
		t.Fatalf("seed case: %v", err)
	}
	if err := db.Create(&models.TimingRule{
		ID:              "rule-1",
		ProcedureType:   "written",
		AllocationLevel: "B",
		CaseType:        "W",
		PrepHours:       2,
		SiteVisitHours:  3,
		ReportHours:     2,
		CostsHours:      1,
	}).Error; err != nil {
		t.Fatalf("seed rule: %v", err)
	}
}

func bearer(t *testing.T, roles ...string) string {
	t.Helper()
	token, err := auth.Issue(testSecret, auth.Claims{UserID: "u1", Roles: roles}, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return "Bearer " + token
}

func TestHealthIsPublic(t *testing.T) {
	r, _, _ := newTestAPI(t)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestCasesListRequiresAuth(t *testing.T) {
	r, db, _ := newTestAPI(t)
	seedAPIFixtures(t, db)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/cases/", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rr.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cases/", nil)
	req.Header.Set("Authorization", bearer(t, "viewer"))
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d body=%s", rr.Code, rr.Body.String())
	}

	var cases []models.Case
	if err := json.Unmarshal(rr.Body.Bytes(), &cases); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(cases) != 1 || cases[0].ID != "case-1" {
		t.Fatalf("expected one unassigned case, got %+v", cases)
	}
}

func TestLoginIssuesUsableToken(t *testing.T) {
	r, db, _ := newTestAPI(t)
	seedAPIFixtures(t, db)

	hash, err := auth.HashPassword("s3cret-pw")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if err := db.Create(&models.User{
		ID:       "u1",
		Email:    "programmer@example.gov.uk",
		Password: hash,
		Role:     models.RoleProgrammer,
	}).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	body, _ := json.Marshal(map[string]string{
		"email":    "programmer@example.gov.uk",
		"password": "s3cret-pw",
	})
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body)))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 login, got %d body=%s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/inspectors/", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 with issued token, got %d", rr.Code)
	}

	body, _ = json.Marshal(map[string]string{
		"email":    "programmer@example.gov.uk",
		"password": "wrong",
	})
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body)))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad password, got %d", rr.Code)
	}
}

func TestAllocateRequiresProgrammerRole(t *testing.T) {
	r, db, cal := newTestAPI(t)
	seedAPIFixtures(t, db)

	payload, _ := json.Marshal(allocateRequest{
		AssignmentDate: "2025-09-22",
		CaseIDs:        []string{"case-1"},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/inspectors/insp-1/allocate", bytes.NewReader(payload))
	req.Header.Set("Authorization", bearer(t, "viewer"))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for viewer, got %d", rr.Code)
	}
	if cal.submitted != 0 {
		t.Fatalf("forbidden request must not submit events")
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/inspectors/insp-1/allocate", bytes.NewReader(payload))
	req.Header.Set("Authorization", bearer(t, "programmer"))
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 for programmer, got %d body=%s", rr.Code, rr.Body.String())
	}

	var result programming.RunResult
	if err := json.Unmarshal(rr.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if len(result.Events) != 4 || !result.Submitted {
		t.Fatalf("expected 4 submitted events, got %+v", result)
	}
	if cal.submitted != 4 {
		t.Fatalf("expected 4 events at calendar boundary, got %d", cal.submitted)
	}
}

func TestAllocateUnknownTargetsReturn404(t *testing.T) {
	r, db, cal := newTestAPI(t)
	seedAPIFixtures(t, db)

	payload, _ := json.Marshal(allocateRequest{
		AssignmentDate: "2025-09-22",
		CaseIDs:        []string{"case-1"},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/inspectors/nobody/allocate", bytes.NewReader(payload))
	req.Header.Set("Authorization", bearer(t, "programmer"))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown inspector, got %d body=%s", rr.Code, rr.Body.String())
	}

	payload, _ = json.Marshal(allocateRequest{
		AssignmentDate: "2025-09-22",
		CaseIDs:        []string{"no-such-case"},
	})
	req = httptest.NewRequest(http.MethodPost, "/api/v1/inspectors/insp-1/allocate", bytes.NewReader(payload))
	req.Header.Set("Authorization", bearer(t, "programmer"))
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown case, got %d body=%s", rr.Code, rr.Body.String())
	}
	if cal.submitted != 0 {
		t.Fatalf("failed runs must not submit events")
	}
}

func TestAllocateDryRunDoesNotSubmit(t *testing.T) {
	r, db, cal := newTestAPI(t)
	seedAPIFixtures(t, db)

	payload, _ := json.Marshal(allocateRequest{
		AssignmentDate: "2025-09-22",
		CaseIDs:        []string{"case-1"},
		DryRun:         true,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/inspectors/insp-1/allocate", bytes.NewReader(payload))
	req.Header.Set("Authorization", bearer(t, "admin"))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for dry run, got %d body=%s", rr.Code, rr.Body.String())
	}
	if cal.submitted != 0 {
		t.Fatalf("dry run must not submit events")
	}
}

func TestCaseSiteLookup(t *testing.T) {
	r, db, _ := newTestAPI(t)
	seedAPIFixtures(t, db)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cases/case-1/site", nil)
	req.Header.Set("Authorization", bearer(t, "viewer"))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Location postcode.Result `json:"location"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp.Location.District != "Bristol, City of" {
		t.Fatalf("expected lookup district, got %q", resp.Location.District)
	}
}
