/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package models

import "errors"

var (
	ErrUnknownKind        = errors.New("unknown model kind")
	ErrDimensionMismatch  = errors.New("vector length does not match model")
	ErrNoFeatures         = errors.New("model declares no features")
	ErrNoClasses          = errors.New("classifier declares no classes")
	ErrUnknownLabel       = errors.New("label code not known to encoder")
	ErrEmptyEncoder       = errors.New("encoder declares no classes")
	ErrMissingEndpoint    = errors.New("remote model requires an endpoint")
	ErrRemotePrediction   = errors.New("remote prediction failed")
	ErrNonIntegerCategory = errors.New("classifier returned a non-integer code")
	ErrMissingModel       = errors.New("no model loaded for task")
)
