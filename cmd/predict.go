/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/humaidq/gnprotocol/db"
	"github.com/humaidq/gnprotocol/features"
	"github.com/humaidq/gnprotocol/models"
)

var CmdPredict = &cli.Command{
	Name:  "predict",
	Usage: "Run one submission through the models and print the result as JSON",
	Flags: append([]cli.Flag{
		&cli.StringFlag{
			Name:    "input",
			Aliases: []string{"i"},
			Usage:   "submission JSON file (- for stdin)",
		},
	}, artifactFlags()...),
	Action: predict,
}

func predict(ctx context.Context, cmd *cli.Command) error {
	input := cmd.String("input")
	if input == "" {
		return errInputRequired
	}

	submission, err := readSubmission(input)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	a, err := loadArtifacts(ctx, cmd, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	return writeReport(ctx, os.Stdout, a, submission)
}

func readSubmission(path string) (*features.Submission, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	return decodeSubmission(r)
}

func decodeSubmission(r io.Reader) (*features.Submission, error) {
	var s features.Submission

	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to decode submission: %w", err)
	}

	return &s, nil
}

func writeReport(ctx context.Context, w io.Writer, a *models.Artifacts, s *features.Submission) error {
	report, err := a.Report(ctx, s)
	if err != nil {
		return fmt.Errorf("prediction failed: %w", err)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
