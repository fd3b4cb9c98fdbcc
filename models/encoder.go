/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package models

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// LabelEncoder decodes integer class codes back to their labels.
type LabelEncoder struct {
	Classes []string `json:"classes"`
}

// Decode returns the label for a class code.
func (e *LabelEncoder) Decode(code int) (string, error) {
	if code < 0 || code >= len(e.Classes) {
		return "", fmt.Errorf("%w: %d", ErrUnknownLabel, code)
	}
	return e.Classes[code], nil
}

// ParseEncoder reads a label encoder artifact.
func ParseEncoder(r io.Reader) (*LabelEncoder, error) {
	var enc LabelEncoder
	if err := json.NewDecoder(r).Decode(&enc); err != nil {
		return nil, fmt.Errorf("failed to decode encoder: %w", err)
	}
	if len(enc.Classes) == 0 {
		return nil, ErrEmptyEncoder
	}
	return &enc, nil
}

// LoadEncoder reads a label encoder artifact from disk.
func LoadEncoder(path string) (*LabelEncoder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open encoder: %w", err)
	}
	defer f.Close()

	enc, err := ParseEncoder(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return enc, nil
}
