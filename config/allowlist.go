/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package config

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// AllowList is the static set of user id / passcode pairs allowed to use the
// service. It is immutable once built.
type AllowList struct {
	entries map[string]Credential
}

// NewAllowList validates the credentials and builds an allow-list.
func NewAllowList(creds []Credential) (*AllowList, error) {
	if len(creds) == 0 {
		return nil, ErrNoCredentials
	}

	entries := make(map[string]Credential, len(creds))
	for i, c := range creds {
		c.ID = strings.TrimSpace(c.ID)
		if c.ID == "" {
			return nil, fmt.Errorf("user %d: %w", i+1, ErrCredentialID)
		}
		if (c.Passcode == "") == (c.PasscodeHash == "") {
			return nil, fmt.Errorf("user %s: %w", c.ID, ErrCredentialPasscode)
		}
		if c.PasscodeHash != "" {
			if _, err := bcrypt.Cost([]byte(c.PasscodeHash)); err != nil {
				return nil, fmt.Errorf("user %s: %w", c.ID, ErrInvalidPasscodeHash)
			}
		}
		if _, exists := entries[c.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCredential, c.ID)
		}
		entries[c.ID] = c
	}

	return &AllowList{entries: entries}, nil
}

// Verify reports whether the id/passcode pair is on the allow-list.
func (a *AllowList) Verify(id, passcode string) bool {
	if a == nil || passcode == "" {
		return false
	}

	c, ok := a.entries[strings.TrimSpace(id)]
	if !ok {
		return false
	}

	if c.PasscodeHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(c.PasscodeHash), []byte(passcode)) == nil
	}

	return subtle.ConstantTimeCompare([]byte(c.Passcode), []byte(passcode)) == 1
}

// Len returns the number of allowed users.
func (a *AllowList) Len() int {
	if a == nil {
		return 0
	}
	return len(a.entries)
}

// HashPasscode returns a bcrypt hash suitable for passcode_hash.
func HashPasscode(passcode string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(passcode), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash passcode: %w", err)
	}
	return string(hash), nil
}
