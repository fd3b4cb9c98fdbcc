/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import "errors"

var (
	errDatabaseURLRequired   = errors.New("database-url is required (set via --database-url or DATABASE_URL env var)")
	errMigrationNameRequired = errors.New("migration name is required")
	errCSRFSecretRequired    = errors.New("CSRF_SECRET is required outside development mode")
	errStatsFileRequired     = errors.New("statistics file is required")
	errQuantityRequired      = errors.New("quantity is required")
	errPasscodeRequired      = errors.New("passcode is required")
	errInputRequired         = errors.New("input file is required (use - for stdin)")
)
