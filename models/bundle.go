/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package models

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/humaidq/gnprotocol/features"
)

// Kind selects how a bundle's predictor is evaluated.
type Kind string

// Supported bundle kinds.
const (
	KindLinearRegressor  Kind = "linear_regressor"
	KindLinearClassifier Kind = "linear_classifier"
	KindRemote           Kind = "remote"
)

// Bundle is a loaded model artifact: its declared feature order and the
// predictor that consumes vectors in that order.
type Bundle struct {
	Name      string
	Kind      Kind
	Features  []string
	Predictor Predictor
}

// Predict assembles the bundle's vector from values and runs the predictor.
func (b *Bundle) Predict(ctx context.Context, values map[string]*float64) (float64, error) {
	vector, err := features.Assemble(values, b.Features)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", b.Name, err)
	}

	out, err := b.Predictor.Predict(ctx, vector)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", b.Name, err)
	}
	return out, nil
}

// bundleFile is the on-disk JSON form of a model artifact.
type bundleFile struct {
	Name     string   `json:"name"`
	Kind     Kind     `json:"kind"`
	Features []string `json:"features"`

	Center []float64 `json:"center,omitempty"`
	Scale  []float64 `json:"scale,omitempty"`

	Intercept    float64   `json:"intercept,omitempty"`
	Coefficients []float64 `json:"coefficients,omitempty"`

	Classes         []int       `json:"classes,omitempty"`
	Intercepts      []float64   `json:"intercepts,omitempty"`
	CoefficientRows [][]float64 `json:"coefficient_rows,omitempty"`

	Endpoint string `json:"endpoint,omitempty"`
}

// ParseBundle reads a model artifact. The client is used by remote bundles and
// may be nil.
func ParseBundle(r io.Reader, client *http.Client) (*Bundle, error) {
	return parseBundle(r, client, "")
}

func parseBundle(r io.Reader, client *http.Client, defaultName string) (*Bundle, error) {
	var f bundleFile
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode bundle: %w", err)
	}
	if f.Name == "" {
		f.Name = defaultName
	}

	if len(f.Features) == 0 {
		return nil, ErrNoFeatures
	}
	if err := features.Validate(f.Features); err != nil {
		return nil, err
	}

	n := len(f.Features)
	if len(f.Center) != 0 && len(f.Center) != n {
		return nil, fmt.Errorf("%w: center has %d values for %d features", ErrDimensionMismatch, len(f.Center), n)
	}
	if len(f.Scale) != 0 && len(f.Scale) != n {
		return nil, fmt.Errorf("%w: scale has %d values for %d features", ErrDimensionMismatch, len(f.Scale), n)
	}
	std := standardizer{center: f.Center, scale: f.Scale}

	b := &Bundle{Name: f.Name, Kind: f.Kind, Features: f.Features}

	switch f.Kind {
	case KindLinearRegressor:
		if len(f.Coefficients) != n {
			return nil, fmt.Errorf("%w: %d coefficients for %d features", ErrDimensionMismatch, len(f.Coefficients), n)
		}
		b.Predictor = &linearRegressor{standardizer: std, intercept: f.Intercept, coefficients: f.Coefficients}

	case KindLinearClassifier:
		if len(f.Classes) == 0 {
			return nil, ErrNoClasses
		}
		if len(f.Intercepts) != len(f.Classes) || len(f.CoefficientRows) != len(f.Classes) {
			return nil, fmt.Errorf("%w: %d classes, %d intercepts, %d coefficient rows",
				ErrDimensionMismatch, len(f.Classes), len(f.Intercepts), len(f.CoefficientRows))
		}
		for i, row := range f.CoefficientRows {
			if len(row) != n {
				return nil, fmt.Errorf("%w: coefficient row %d has %d values for %d features", ErrDimensionMismatch, i, len(row), n)
			}
		}
		b.Predictor = &linearClassifier{
			standardizer: std,
			classes:      f.Classes,
			intercepts:   f.Intercepts,
			rows:         f.CoefficientRows,
		}

	case KindRemote:
		if strings.TrimSpace(f.Endpoint) == "" {
			return nil, ErrMissingEndpoint
		}
		b.Predictor = NewRemotePredictor(client, f.Endpoint, f.Name, f.Features)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, f.Kind)
	}

	return b, nil
}

// LoadBundle reads a model artifact from disk. A bundle without a name takes
// the file's base name.
func LoadBundle(path string, client *http.Client) (*Bundle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open model: %w", err)
	}
	defer f.Close()

	b, err := parseBundle(f, client, strings.TrimSuffix(filepath.Base(path), ".json"))
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return b, nil
}
