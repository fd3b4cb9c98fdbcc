/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import "errors"

var (
	errInvalidNumber     = errors.New("not a number")
	errInvalidSubmission = errors.New("invalid submission")
)
