/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/humaidq/gnprotocol/features"
)

// FormField is one numeric input of the prediction form.
type FormField struct {
	Name  string
	Label string
	Value string
	Step  string
	Error string
}

// FormSection groups inputs under a heading.
type FormSection struct {
	Title  string
	Hint   string
	Fields []FormField
}

// fieldErrors maps a form field name to why its value was rejected.
type fieldErrors map[string]error

func (e fieldErrors) Err() error {
	if len(e) == 0 {
		return nil
	}
	names := make([]string, 0, len(e))
	for _, name := range features.AllFields() {
		if _, ok := e[name]; ok {
			names = append(names, name)
		}
	}
	return fmt.Errorf("%w: %s", errInvalidSubmission, strings.Join(names, ", "))
}

// parseNumber reads an optional numeric form value. Blank is (nil, nil).
func parseNumber(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("%w: %q", errInvalidNumber, raw)
	}
	return &v, nil
}

// parseSubmission reads the prediction form. Blank baseline fields read as 0;
// blank monitoring and supplementary fields stay unset.
func parseSubmission(form url.Values) (*features.Submission, fieldErrors) {
	s := &features.Submission{}
	errs := fieldErrors{}

	optional := func(name string) *float64 {
		v, err := parseNumber(form.Get(name))
		if err != nil {
			errs[name] = err
			return nil
		}
		return v
	}
	baseline := func(name string) float64 {
		if v := optional(name); v != nil {
			return *v
		}
		return 0
	}

	s.Baseline = features.Baseline{
		Age:      baseline(features.FieldAge),
		BMI:      baseline(features.FieldBMI),
		FSH:      baseline(features.FieldFSH),
		LH:       baseline(features.FieldLH),
		PRL:      baseline(features.FieldPRL),
		E2:       baseline(features.FieldE2),
		T:        baseline(features.FieldT),
		AMH:      baseline(features.FieldAMH),
		AFCLeft:  baseline(features.FieldAFCLeft),
		AFCRight: baseline(features.FieldAFCRight),
	}

	for i := range s.Rounds {
		round := i + 1
		s.Rounds[i] = features.Round{
			E2:  optional(features.RoundField(features.RoundE2, round)),
			LH:  optional(features.RoundField(features.RoundLH, round)),
			FSH: optional(features.RoundField(features.RoundFSH, round)),
			P:   optional(features.RoundField(features.RoundP, round)),
			Day: optional(features.RoundField(features.RoundDay, round)),
		}
	}

	s.Supplementary = features.Supplementary{
		MaxFollicleDay3:           optional(features.FieldMaxFollicleDay3),
		LeftMaxFollicleDiameter3:  optional(features.FieldLeftMaxFollicleDiameter3),
		RightMaxFollicleDiameter3: optional(features.FieldRightMaxFollicleDiameter3),
	}

	return s, errs
}

func fieldStep(name string) string {
	switch {
	case name == features.FieldMaxFollicleDay3, strings.HasPrefix(name, features.RoundDay+"_"):
		return "1"
	default:
		return "0.01"
	}
}

func newFormField(name string, form url.Values, errs fieldErrors, fallback string) FormField {
	value := fallback
	if form != nil {
		if _, sent := form[name]; sent {
			value = strings.TrimSpace(form.Get(name))
		}
	}

	f := FormField{
		Name:  name,
		Label: features.Label(name),
		Value: value,
		Step:  fieldStep(name),
	}
	if err := errs[name]; err != nil {
		f.Error = "Enter a number"
	}
	return f
}

// buildFormSections lays out the form, echoing back submitted values.
// Baseline inputs are prefilled with 0.
func buildFormSections(form url.Values, errs fieldErrors) []FormSection {
	sections := make([]FormSection, 0, 2+features.Rounds)

	baseline := FormSection{Title: "Baseline Information"}
	for _, name := range features.BaselineFields {
		baseline.Fields = append(baseline.Fields, newFormField(name, form, errs, "0"))
	}
	sections = append(sections, baseline)

	for round := 1; round <= features.Rounds; round++ {
		section := FormSection{
			Title: fmt.Sprintf("Monitoring %d", round),
			Hint:  "Optional; leave blank if not measured",
		}
		for _, prefix := range features.RoundPrefixes {
			section.Fields = append(section.Fields, newFormField(features.RoundField(prefix, round), form, errs, ""))
		}
		sections = append(sections, section)
	}

	supplementary := FormSection{Title: "Supplementary", Hint: "Optional"}
	for _, name := range features.SupplementaryFields {
		supplementary.Fields = append(supplementary.Fields, newFormField(name, form, errs, ""))
	}
	sections = append(sections, supplementary)

	return sections
}
