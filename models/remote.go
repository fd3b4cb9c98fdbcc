/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package models

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultRemoteTimeout bounds a single call to a remote scoring service.
const DefaultRemoteTimeout = 10 * time.Second

type remoteRequest struct {
	Model    string    `json:"model"`
	Features []string  `json:"features"`
	Values   []float64 `json:"values"`
}

type remoteResponse struct {
	Prediction *float64 `json:"prediction"`
	Error      string   `json:"error,omitempty"`
}

// remotePredictor delegates scoring to an external service that hosts the
// serialized pipeline.
type remotePredictor struct {
	client   *http.Client
	endpoint string
	model    string
	features []string
}

// NewRemotePredictor returns a Predictor that POSTs the vector as JSON to
// endpoint and reads back {"prediction": number}.
func NewRemotePredictor(client *http.Client, endpoint, model string, featureNames []string) Predictor {
	if client == nil {
		client = &http.Client{Timeout: DefaultRemoteTimeout}
	}
	return &remotePredictor{
		client:   client,
		endpoint: endpoint,
		model:    model,
		features: featureNames,
	}
}

func (m *remotePredictor) Predict(ctx context.Context, vector []float64) (float64, error) {
	if len(vector) != len(m.features) {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(vector), len(m.features))
	}

	body, err := json.Marshal(remoteRequest{Model: m.model, Features: m.features, Values: vector})
	if err != nil {
		return 0, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrRemotePrediction, m.model, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, fmt.Errorf("%w: %s: failed to read response: %w", ErrRemotePrediction, m.model, err)
	}

	var decoded remoteResponse
	if err := json.Unmarshal(payload, &decoded); err != nil && resp.StatusCode == http.StatusOK {
		return 0, fmt.Errorf("%w: %s: invalid response: %w", ErrRemotePrediction, m.model, err)
	}

	if resp.StatusCode != http.StatusOK {
		if decoded.Error != "" {
			return 0, fmt.Errorf("%w: %s: status %d: %s", ErrRemotePrediction, m.model, resp.StatusCode, decoded.Error)
		}
		return 0, fmt.Errorf("%w: %s: status %d", ErrRemotePrediction, m.model, resp.StatusCode)
	}

	if decoded.Prediction == nil {
		return 0, fmt.Errorf("%w: %s: response has no prediction", ErrRemotePrediction, m.model)
	}

	return *decoded.Prediction, nil
}
