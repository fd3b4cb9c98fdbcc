// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/flamego/flamego"

	"github.com/humaidq/gnprotocol/config"
	"github.com/humaidq/gnprotocol/models"
	"github.com/humaidq/gnprotocol/reference"
)

const testStatistics = `{
	"baseline_e2": {"min": 10, "p25": 50, "p50": 80, "p75": 120, "max": 200},
	"e2_1": {"p25": 120, "p50": 210, "p75": 340}
}`

func fixedBundle(value float64) *models.Bundle {
	return &models.Bundle{
		Name:     "fixed",
		Kind:     models.KindLinearRegressor,
		Features: []string{"age"},
		Predictor: models.PredictorFunc(func(context.Context, []float64) (float64, error) {
			return value, nil
		}),
	}
}

func newTestArtifacts(t *testing.T) *models.Artifacts {
	t.Helper()

	stats, err := reference.Parse(strings.NewReader(testStatistics))
	if err != nil {
		t.Fatalf("failed to parse statistics: %v", err)
	}

	return &models.Artifacts{
		Models: map[models.Task]*models.Bundle{
			models.TaskStartDose:  fixedBundle(225),
			models.TaskTotalDose:  fixedBundle(2700),
			models.TaskDrug:       fixedBundle(0),
			models.TaskProtocol:   fixedBundle(1),
			models.TaskTriggerDay: fixedBundle(11.5),
			models.TaskTotalDays:  fixedBundle(10),
		},
		DrugEncoder:     &models.LabelEncoder{Classes: []string{"Gonal-f", "Puregon"}},
		ProtocolEncoder: &models.LabelEncoder{Classes: []string{"antagonist", "long agonist"}},
		Statistics:      stats,
	}
}

func newTestServer(t *testing.T) *flamego.Flame {
	t.Helper()

	allow, err := config.NewAllowList([]config.Credential{{ID: "0001", Passcode: "123456"}})
	if err != nil {
		t.Fatalf("failed to build allow-list: %v", err)
	}

	f, err := newApp(appOptions{
		Artifacts:  newTestArtifacts(t),
		AllowList:  allow,
		SiteTitle:  "Test Clinic",
		CSRFSecret: "test-secret",
	})
	if err != nil {
		t.Fatalf("failed to build app: %v", err)
	}
	return f
}

func TestConfigureEmptyNotFoundHandlerReturnsStatusOnly(t *testing.T) {
	t.Parallel()

	f := flamego.New()
	configureEmptyNotFoundHandler(f)

	req := httptest.NewRequest(http.MethodGet, "/does-not-exist", nil)
	rec := httptest.NewRecorder()
	f.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}

	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty 404 body, got %q", rec.Body.String())
	}
}

func TestNewAppRoutes(t *testing.T) {
	t.Parallel()

	f := newTestServer(t)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantBody   string
	}{
		{name: "health", path: "/healthz", wantStatus: http.StatusOK, wantBody: `"status":"ok"`},
		{name: "login page", path: "/login", wantStatus: http.StatusOK, wantBody: "Test Clinic"},
		{name: "stylesheet", path: "/style.css", wantStatus: http.StatusOK},
		{name: "form requires login", path: "/", wantStatus: http.StatusSeeOther},
		{name: "unknown path", path: "/wp-admin", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			f.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if tt.wantBody != "" && !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Fatalf("expected body to contain %q, got %q", tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestNewAppRejectsLoginWithoutCSRFToken(t *testing.T) {
	t.Parallel()

	f := newTestServer(t)

	form := url.Values{"user_id": {"0001"}, "passcode": {"123456"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	f.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
	if rec.Header().Get("Location") != "" {
		t.Fatal("expected no redirect without a CSRF token")
	}
}

func TestNewAppAPIRequiresLogin(t *testing.T) {
	t.Parallel()

	f := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	f.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestWriteReport(t *testing.T) {
	t.Parallel()

	s, err := decodeSubmission(strings.NewReader(`{"baseline": {"age": 35, "e2": 65}, "rounds": [{"e2": 210}]}`))
	if err != nil {
		t.Fatalf("failed to decode submission: %v", err)
	}

	var out bytes.Buffer
	if err := writeReport(context.Background(), &out, newTestArtifacts(t), s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var report models.Report
	if err := json.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("failed to decode report: %v", err)
	}

	if report.Prediction.Drug != "Gonal-f" || report.Prediction.Protocol != "long agonist" {
		t.Fatalf("unexpected categories: %+v", report.Prediction)
	}
	if report.Prediction.TriggerDayRounded != 12 {
		t.Fatalf("expected trigger day 12, got %d", report.Prediction.TriggerDayRounded)
	}
	if report.BaselineE2.Percentile == nil || *report.BaselineE2.Percentile != 38 {
		t.Fatalf("expected baseline P38, got %v", report.BaselineE2.Percentile)
	}
	if len(report.E2Rounds) != 3 || report.E2Rounds[0].Percentile == nil || *report.E2Rounds[0].Percentile != 50 {
		t.Fatalf("unexpected round percentiles: %+v", report.E2Rounds)
	}
}

func TestDecodeSubmissionRejectsUnknownFields(t *testing.T) {
	t.Parallel()

	if _, err := decodeSubmission(strings.NewReader(`{"baseline": {"weight": 60}}`)); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestWriteStatsReport(t *testing.T) {
	t.Parallel()

	table, err := reference.Parse(strings.NewReader(`{
		"e2_1": {"p25": 120, "p50": 210, "p75": 340},
		"e2_2": {"p25": 900, "p75": 400},
		"e2_3": {}
	}`))
	if err != nil {
		t.Fatalf("failed to parse statistics: %v", err)
	}

	var out bytes.Buffer
	if problems := writeStatsReport(&out, table); problems != 1 {
		t.Fatalf("expected 1 problem, got %d", problems)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %q", lines)
	}
	if lines[0] != "e2_1: P25=120 P50=210 P75=340" {
		t.Fatalf("unexpected line: %q", lines[0])
	}
	if !strings.Contains(lines[1], "[warning:") {
		t.Fatalf("expected warning for inverted anchors, got %q", lines[1])
	}
	if lines[2] != "e2_3: no anchors" {
		t.Fatalf("unexpected line: %q", lines[2])
	}
}

func TestReadPasscode(t *testing.T) {
	t.Parallel()

	got, err := readPasscode(strings.NewReader("s3cret\r\nignored\n"))
	if err != nil || got != "s3cret" {
		t.Fatalf("expected s3cret, got %q (%v)", got, err)
	}

	got, err = readPasscode(strings.NewReader("no-newline"))
	if err != nil || got != "no-newline" {
		t.Fatalf("expected no-newline, got %q (%v)", got, err)
	}

	if _, err := readPasscode(strings.NewReader("\n")); !errors.Is(err, errPasscodeRequired) {
		t.Fatalf("expected errPasscodeRequired, got %v", err)
	}
}
