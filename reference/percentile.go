/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package reference

import "math"

// Estimate approximates the population percentile of x against the summary by
// piecewise-linear interpolation between the known anchors. The second return
// value is false when no estimate can be made: x is missing (nil or NaN), or
// the summary has no known anchors.
//
// Values at or beyond the outermost known anchors clamp to that anchor's
// percentile. A value equal to an interior anchor, including one shared by
// several anchors, takes the percentile of the first such anchor. Anchors are
// assumed to be non-decreasing; an inverted summary yields a deterministic but
// meaningless result.
func Estimate(x *float64, s *Summary) (int, bool) {
	if x == nil || math.IsNaN(*x) {
		return 0, false
	}

	knots := s.Knots()
	if len(knots) == 0 {
		return 0, false
	}

	v := *x
	first, last := knots[0], knots[len(knots)-1]
	if v <= first.Value {
		return first.Percentile, true
	}
	if v >= last.Value {
		return last.Percentile, true
	}

	for i := 1; i < len(knots); i++ {
		hi := knots[i]
		if v > hi.Value {
			continue
		}

		lo := knots[i-1]
		// guards the division; unreachable once x is past the first knot
		if hi.Value == lo.Value {
			return midpoint(lo.Percentile, hi.Percentile), true
		}

		t := (v - lo.Value) / (hi.Value - lo.Value)
		p := float64(lo.Percentile) + t*float64(hi.Percentile-lo.Percentile)
		return int(math.RoundToEven(p)), true
	}

	return 0, false
}

func midpoint(a, b int) int {
	return int(math.RoundToEven(float64(a+b) / 2))
}
