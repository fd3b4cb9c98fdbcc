/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package reference

import "errors"

var (
	ErrNonMonotonic      = errors.New("anchors are not non-decreasing")
	ErrInvalidStatistics = errors.New("invalid statistics artifact")
	ErrEmptyStatistics   = errors.New("statistics artifact has no quantities")
)
