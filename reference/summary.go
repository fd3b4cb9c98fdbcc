/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package reference

import "fmt"

// Summary holds the published summary statistics for one monitored quantity.
// Every anchor is optional; a nil anchor is unknown.
type Summary struct {
	N   *int     `json:"n,omitempty"`
	Min *float64 `json:"min,omitempty"`
	P5  *float64 `json:"p5,omitempty"`
	P25 *float64 `json:"p25,omitempty"`
	P50 *float64 `json:"p50,omitempty"`
	P75 *float64 `json:"p75,omitempty"`
	P95 *float64 `json:"p95,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// Knot is a known (value, percentile rank) pair used for interpolation.
type Knot struct {
	Value      float64
	Percentile int
}

// Knots returns the present anchors in rank order (min, P5, P25, P50, P75,
// P95, max). The values are not re-sorted.
func (s *Summary) Knots() []Knot {
	if s == nil {
		return nil
	}

	anchors := []struct {
		value      *float64
		percentile int
	}{
		{s.Min, 0},
		{s.P5, 5},
		{s.P25, 25},
		{s.P50, 50},
		{s.P75, 75},
		{s.P95, 95},
		{s.Max, 100},
	}

	knots := make([]Knot, 0, len(anchors))
	for _, a := range anchors {
		if a.value != nil {
			knots = append(knots, Knot{Value: *a.value, Percentile: a.percentile})
		}
	}

	return knots
}

// Band returns the P25–P75 band if both anchors are known.
func (s *Summary) Band() (p25, p75 float64, ok bool) {
	if s == nil || s.P25 == nil || s.P75 == nil {
		return 0, 0, false
	}
	return *s.P25, *s.P75, true
}

// Median returns the P50 anchor if known.
func (s *Summary) Median() (float64, bool) {
	if s == nil || s.P50 == nil {
		return 0, false
	}
	return *s.P50, true
}

// Validate reports whether the present anchors are non-decreasing with rank.
// Estimation never depends on this check.
func (s *Summary) Validate() error {
	knots := s.Knots()
	for i := 1; i < len(knots); i++ {
		if knots[i].Value < knots[i-1].Value {
			return fmt.Errorf("%w: P%d=%g is below P%d=%g", ErrNonMonotonic,
				knots[i].Percentile, knots[i].Value, knots[i-1].Percentile, knots[i-1].Value)
		}
	}
	return nil
}
