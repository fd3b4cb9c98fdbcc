/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package features

import (
	"errors"
	"fmt"
	"math"
)

// ErrUnknownFeature is returned when a model declares a feature the form does
// not collect.
var ErrUnknownFeature = errors.New("unknown feature")

// Validate checks that every declared feature name resolves to a collected
// field.
func Validate(featureNames []string) error {
	var errs []error
	for _, name := range featureNames {
		if _, ok := Canonical(name); !ok {
			errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownFeature, name))
		}
	}
	return errors.Join(errs...)
}

// Assemble builds the numeric vector for a model's declared feature order.
// Unset (nil or NaN) values are replaced by FillValue.
func Assemble(values map[string]*float64, featureNames []string) ([]float64, error) {
	vector := make([]float64, len(featureNames))
	for i, name := range featureNames {
		field, ok := Canonical(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownFeature, name)
		}

		v := values[field]
		if v == nil || math.IsNaN(*v) {
			vector[i] = FillValue
			continue
		}
		vector[i] = *v
	}
	return vector, nil
}

// AssembleSubmission is Assemble over a submission's values.
func AssembleSubmission(s *Submission, featureNames []string) ([]float64, error) {
	return Assemble(s.Values(), featureNames)
}
