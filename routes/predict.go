/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"encoding/json"
	"fmt"
	htmltemplate "html/template"
	"io"
	"mime"
	"net/http"

	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"

	"github.com/humaidq/gnprotocol/features"
	"github.com/humaidq/gnprotocol/models"
)

const (
	baselineE2Warning = "Baseline E2 missing or no reference data available, cannot display percentile plot."
	maxAPIBodyBytes   = 64 << 10
)

// ResultLine is one labelled line of the prediction summary.
type ResultLine struct {
	Label string
	Value string
}

// Results is everything the results page shows for one submission.
type Results struct {
	SubmissionID string
	Summary      []ResultLine

	RoundChart        htmltemplate.HTML
	RoundExplanations []string

	BaselineChart       htmltemplate.HTML
	BaselineExplanation string
	BaselineWarning     string
}

func summaryLines(p *models.Prediction) []ResultLine {
	return []ResultLine{
		{Label: "Recommended Gn starting dose", Value: fmt.Sprintf("%.0f IU", p.StartDose)},
		{Label: "Recommended drug type", Value: p.Drug},
		{Label: "Recommended protocol", Value: p.Protocol},
		{Label: "Predicted total Gn dose", Value: fmt.Sprintf("%.0f IU", p.TotalDose)},
		{Label: "Predicted total Gn days", Value: fmt.Sprintf("%.1f days", p.TotalDays)},
		{Label: "Recommended Trigger day", Value: fmt.Sprintf("Day %d (continuous prediction: %.2f)", p.TriggerDayRounded, p.TriggerDay)},
	}
}

// buildResults renders the summary, charts and explanations. A chart that
// fails to render is logged and left out.
func buildResults(a *models.Artifacts, s *features.Submission, p *models.Prediction) *Results {
	r := &Results{
		SubmissionID: p.ID.String(),
		Summary:      summaryLines(p),
	}

	rounds := a.RoundE2Percentiles(s)
	r.RoundExplanations = roundE2Explanations(rounds)
	if chart, err := renderRoundE2Chart(rounds); err != nil {
		logger.Error("Failed to render serum E2 chart", "submission_id", p.ID, "error", err)
	} else {
		r.RoundChart = htmltemplate.HTML(chart) // #nosec G203 -- rendered by go-echarts from numeric data
	}

	baseline := a.BaselineE2Percentile(s)
	if !baseline.HasReference() {
		r.BaselineWarning = baselineE2Warning
		return r
	}

	r.BaselineExplanation = baselineE2Explanation(baseline)
	if chart, err := renderBaselineE2Chart(baseline); err != nil {
		logger.Error("Failed to render baseline E2 chart", "submission_id", p.ID, "error", err)
	} else {
		r.BaselineChart = htmltemplate.HTML(chart) // #nosec G203 -- rendered by go-echarts from numeric data
	}

	return r
}

// PredictionForm renders the empty prediction form.
func PredictionForm(t template.Template, data template.Data) {
	data["IsForm"] = true
	data["Sections"] = buildFormSections(nil, nil)
	t.HTML(http.StatusOK, "form")
}

// Predict runs one submission through the models and renders the results
// below the submitted form.
func Predict(c flamego.Context, s session.Session, a *models.Artifacts, t template.Template, data template.Data) {
	if err := c.Request().ParseForm(); err != nil {
		logger.Warn("Failed to parse prediction form", "error", err)
		SetErrorFlash(s, "Failed to parse form")
		c.Redirect("/", http.StatusSeeOther)
		return
	}

	form := c.Request().Form
	data["IsForm"] = true

	submission, errs := parseSubmission(form)
	if err := errs.Err(); err != nil {
		logger.Info("Rejected prediction form", "error", err)
		data["Sections"] = buildFormSections(form, errs)
		data["FormError"] = "Some values are not valid numbers."
		t.HTML(http.StatusUnprocessableEntity, "form")
		return
	}

	prediction, err := a.Invoke(c.Request().Context(), submission)
	if err != nil {
		logger.Error("Prediction failed", "error", err)
		SetErrorFlash(s, "Prediction failed, please try again")
		c.Redirect("/", http.StatusSeeOther)
		return
	}

	data["Sections"] = buildFormSections(form, nil)
	data["Results"] = buildResults(a, submission, prediction)
	t.HTML(http.StatusOK, "form")
}

// PredictAPI accepts a JSON submission and returns the prediction and E2
// percentiles as JSON.
func PredictAPI(c flamego.Context, a *models.Artifacts) {
	// A JSON content type forces a CORS preflight, so the endpoint can skip
	// the form CSRF token.
	mediaType, _, err := mime.ParseMediaType(c.Request().Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		writeJSONError(c, http.StatusUnsupportedMediaType, "expected application/json")
		return
	}

	body := io.LimitReader(c.Request().Body().ReadCloser(), maxAPIBodyBytes)

	var submission features.Submission
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&submission); err != nil {
		writeJSONError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	report, err := a.Report(c.Request().Context(), &submission)
	if err != nil {
		logger.Error("Prediction failed", "error", err)
		writeJSONError(c, http.StatusBadGateway, "prediction failed")
		return
	}

	writeJSON(c, report)
}

// Healthz reports that the service is up with its artifacts loaded.
func Healthz(c flamego.Context, a *models.Artifacts) {
	if a == nil || len(a.Models) != len(models.Tasks) {
		writeJSONError(c, http.StatusServiceUnavailable, "artifacts not loaded")
		return
	}

	writeJSON(c, map[string]interface{}{
		"status":     "ok",
		"models":     len(a.Models),
		"statistics": a.Statistics.Len(),
	})
}

func writeJSON(c flamego.Context, payload any) {
	c.ResponseWriter().Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(c.ResponseWriter()).Encode(payload); err != nil {
		logger.Error("Error encoding JSON response", "error", err)
	}
}

func writeJSONError(c flamego.Context, status int, message string) {
	c.ResponseWriter().Header().Set("Content-Type", "application/json")
	c.ResponseWriter().WriteHeader(status)

	if err := json.NewEncoder(c.ResponseWriter()).Encode(map[string]string{"error": message}); err != nil {
		logger.Error("Error encoding JSON error", "error", err)
	}
}
