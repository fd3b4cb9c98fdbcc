/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package models

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/humaidq/gnprotocol/features"
	"github.com/humaidq/gnprotocol/reference"
)

// Prediction is the decoded output of the six models for one submission.
type Prediction struct {
	ID                uuid.UUID `json:"id"`
	StartDose         float64   `json:"start_dose"`
	TotalDose         float64   `json:"total_dose"`
	Drug              string    `json:"drug"`
	Protocol          string    `json:"protocol"`
	TriggerDay        float64   `json:"trigger_day"`
	TriggerDayRounded int       `json:"trigger_day_rounded"`
	TotalDays         float64   `json:"total_days"`
}

// Invoke runs every model against the submission and decodes the categorical
// outputs.
func (a *Artifacts) Invoke(ctx context.Context, s *features.Submission) (*Prediction, error) {
	values := s.Values()
	outputs := make(map[Task]float64, len(Tasks))

	for _, task := range Tasks {
		b, ok := a.Models[task]
		if !ok {
			return nil, fmt.Errorf("task %s: %w", task, ErrMissingModel)
		}

		out, err := b.Predict(ctx, values)
		if err != nil {
			return nil, fmt.Errorf("task %s: %w", task, err)
		}
		outputs[task] = out
	}

	drug, err := decodeCategory(a.DrugEncoder, outputs[TaskDrug])
	if err != nil {
		return nil, fmt.Errorf("task %s: %w", TaskDrug, err)
	}
	protocol, err := decodeCategory(a.ProtocolEncoder, outputs[TaskProtocol])
	if err != nil {
		return nil, fmt.Errorf("task %s: %w", TaskProtocol, err)
	}

	p := &Prediction{
		ID:                uuid.New(),
		StartDose:         outputs[TaskStartDose],
		TotalDose:         outputs[TaskTotalDose],
		Drug:              drug,
		Protocol:          protocol,
		TriggerDay:        outputs[TaskTriggerDay],
		TriggerDayRounded: int(math.RoundToEven(outputs[TaskTriggerDay])),
		TotalDays:         outputs[TaskTotalDays],
	}

	logger.Debug("Prediction complete",
		"submission_id", p.ID,
		"drug", p.Drug,
		"protocol", p.Protocol,
		"trigger_day", p.TriggerDayRounded)

	return p, nil
}

func decodeCategory(enc *LabelEncoder, out float64) (string, error) {
	if math.IsNaN(out) || out != math.Trunc(out) {
		return "", fmt.Errorf("%w: %v", ErrNonIntegerCategory, out)
	}
	return enc.Decode(int(out))
}

// E2Percentile is a serum E2 reading placed against its reference summary.
type E2Percentile struct {
	Key        string             `json:"key"`
	Label      string             `json:"label"`
	Value      *float64           `json:"value"`
	Percentile *int               `json:"percentile"`
	Summary    *reference.Summary `json:"-"`
}

// HasReference reports whether reference statistics exist for the reading.
func (p E2Percentile) HasReference() bool {
	return p.Summary != nil
}

func newE2Percentile(key, label string, value *float64, s *reference.Summary) E2Percentile {
	p := E2Percentile{Key: key, Label: label, Value: value, Summary: s}
	if pr, ok := reference.Estimate(value, s); ok {
		p.Percentile = &pr
	}
	return p
}

// BaselineE2Percentile places the baseline E2 value against its reference.
func (a *Artifacts) BaselineE2Percentile(s *features.Submission) E2Percentile {
	value := s.Baseline.E2
	return newE2Percentile(reference.KeyBaselineE2, "Baseline E2", &value, a.Statistics.Get(reference.KeyBaselineE2))
}

// RoundE2Percentiles places each monitoring round's E2 reading against its
// reference. Unset readings are included with a nil value.
func (a *Artifacts) RoundE2Percentiles(s *features.Submission) []E2Percentile {
	out := make([]E2Percentile, 0, features.Rounds)
	for round := 1; round <= features.Rounds; round++ {
		key := reference.RoundKey(round)
		out = append(out, newE2Percentile(key, fmt.Sprintf("E2_%d", round), s.E2Reading(round), a.Statistics.Get(key)))
	}
	return out
}

// Report is a prediction together with the E2 percentiles of the same
// submission.
type Report struct {
	Prediction *Prediction    `json:"prediction"`
	BaselineE2 E2Percentile   `json:"baseline_e2"`
	E2Rounds   []E2Percentile `json:"e2_rounds"`
}

// Report invokes the models and places the submission's E2 readings against
// the reference statistics.
func (a *Artifacts) Report(ctx context.Context, s *features.Submission) (*Report, error) {
	p, err := a.Invoke(ctx, s)
	if err != nil {
		return nil, err
	}

	return &Report{
		Prediction: p,
		BaselineE2: a.BaselineE2Percentile(s),
		E2Rounds:   a.RoundE2Percentiles(s),
	}, nil
}
