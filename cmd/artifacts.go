/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/humaidq/gnprotocol/config"
	"github.com/humaidq/gnprotocol/db"
	"github.com/humaidq/gnprotocol/models"
	"github.com/humaidq/gnprotocol/reference"
)

// artifactFlags are shared by every command that loads the models.
func artifactFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Sources: cli.EnvVars("GNP_CONFIG"),
			Usage:   "path to the configuration file (YAML, JSON or TOML)",
		},
		&cli.StringFlag{
			Name:    "model-dir",
			Sources: cli.EnvVars("MODEL_DIR"),
			Usage:   "directory holding the model, encoder and statistics artifacts",
		},
		&cli.StringFlag{
			Name:    "database-url",
			Sources: cli.EnvVars("DATABASE_URL"),
			Usage:   "PostgreSQL connection string, used when stats_source is database",
		},
	}
}

func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	if dir := strings.TrimSpace(cmd.String("model-dir")); dir != "" {
		cfg.ModelDir = dir
	}

	return cfg, nil
}

// loadArtifacts reads the models and reference statistics. When statistics
// come from Postgres the pool is opened and must be closed by the caller via
// db.Close.
func loadArtifacts(ctx context.Context, cmd *cli.Command, cfg *config.Config) (*models.Artifacts, error) {
	var stats *reference.Table

	if cfg.UsesDatabase() {
		databaseURL := cmd.String("database-url")
		if databaseURL == "" {
			return nil, errDatabaseURLRequired
		}

		appLogger.Info("Connecting to database")
		if err := db.Init(ctx, databaseURL); err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}

		appLogger.Info("Syncing database schema")
		if err := db.SyncSchema(ctx, databaseURL); err != nil {
			return nil, fmt.Errorf("failed to sync schema: %w", err)
		}

		var err error
		if stats, err = db.LoadReferenceStats(ctx); err != nil {
			return nil, fmt.Errorf("failed to load reference statistics: %w", err)
		}
	}

	a, err := models.LoadArtifacts(models.LoadOptions{
		Dir:        cfg.ModelDir,
		Files:      cfg.Files,
		Client:     &http.Client{Timeout: cfg.RemoteTimeout},
		Statistics: stats,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load artifacts from %s: %w", cfg.ModelDir, err)
	}

	return a, nil
}
