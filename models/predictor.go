/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package models

import (
	"context"
	"fmt"
	"math"
)

// Predictor maps an assembled feature vector to a single output. Classifiers
// return the class code as a float64 with an integer value.
type Predictor interface {
	Predict(ctx context.Context, vector []float64) (float64, error)
}

// PredictorFunc adapts a plain function to a Predictor.
type PredictorFunc func(ctx context.Context, vector []float64) (float64, error)

// Predict calls f.
func (f PredictorFunc) Predict(ctx context.Context, vector []float64) (float64, error) {
	return f(ctx, vector)
}

// standardizer is the optional centering/scaling step exported alongside
// linear models.
type standardizer struct {
	center []float64
	scale  []float64
}

func (s standardizer) apply(vector []float64) []float64 {
	if len(s.center) == 0 && len(s.scale) == 0 {
		return vector
	}

	out := make([]float64, len(vector))
	for i, v := range vector {
		if i < len(s.center) {
			v -= s.center[i]
		}
		if i < len(s.scale) && s.scale[i] != 0 {
			v /= s.scale[i]
		}
		out[i] = v
	}
	return out
}

// linearRegressor evaluates an exported linear regression.
type linearRegressor struct {
	standardizer
	intercept    float64
	coefficients []float64
}

func (m *linearRegressor) Predict(_ context.Context, vector []float64) (float64, error) {
	if len(vector) != len(m.coefficients) {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(vector), len(m.coefficients))
	}
	return m.intercept + dot(m.coefficients, m.apply(vector)), nil
}

// linearClassifier evaluates one linear score per class and returns the code
// of the highest scoring class.
type linearClassifier struct {
	standardizer
	classes    []int
	intercepts []float64
	rows       [][]float64
}

func (m *linearClassifier) Predict(_ context.Context, vector []float64) (float64, error) {
	x := m.apply(vector)

	best := math.Inf(-1)
	code := m.classes[0]
	for i, row := range m.rows {
		if len(row) != len(vector) {
			return 0, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(vector), len(row))
		}
		score := m.intercepts[i] + dot(row, x)
		if score > best {
			best = score
			code = m.classes[i]
		}
	}
	return float64(code), nil
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
