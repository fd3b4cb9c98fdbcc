/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package config

import "errors"

var (
	ErrModelDirRequired     = errors.New("model_dir is required")
	ErrInvalidStatsSource   = errors.New("stats_source must be one of: file, database")
	ErrInvalidRemoteTimeout = errors.New("remote_timeout must be positive")
	ErrNoCredentials        = errors.New("at least one user must be configured")
	ErrCredentialID         = errors.New("user id is required")
	ErrCredentialPasscode   = errors.New("exactly one of passcode and passcode_hash is required")
	ErrDuplicateCredential  = errors.New("duplicate user id")
	ErrInvalidPasscodeHash  = errors.New("passcode_hash is not a bcrypt hash")
)
