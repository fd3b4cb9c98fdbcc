/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/humaidq/gnprotocol/models"
)

// Statistics sources.
const (
	StatsSourceFile     = "file"
	StatsSourceDatabase = "database"
)

// EnvPrefix is prepended to every environment override, e.g. GNP_MODEL_DIR.
const EnvPrefix = "GNP"

// DefaultModelDir is used when neither the config file nor the environment
// names a model directory.
const DefaultModelDir = "final_models"

// Config is the service configuration loaded at startup.
type Config struct {
	ModelDir      string           `mapstructure:"model_dir"`
	Files         models.FileNames `mapstructure:"files"`
	StatsSource   string           `mapstructure:"stats_source"`
	SiteTitle     string           `mapstructure:"site_title"`
	RemoteTimeout time.Duration    `mapstructure:"remote_timeout"`
	Users         []Credential     `mapstructure:"users"`
}

// Credential is one allow-list entry. Exactly one of Passcode and
// PasscodeHash (bcrypt) is set.
type Credential struct {
	ID           string `mapstructure:"id"`
	Passcode     string `mapstructure:"passcode"`
	PasscodeHash string `mapstructure:"passcode_hash"`
}

// Load reads the configuration file at path (YAML, JSON or TOML by
// extension). An empty path loads defaults and environment overrides only.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("model_dir", DefaultModelDir)
	v.SetDefault("stats_source", StatsSourceFile)
	v.SetDefault("site_title", "Gn Starting Protocol Prediction")
	v.SetDefault("remote_timeout", models.DefaultRemoteTimeout)

	defaults := models.DefaultFileNames()
	v.SetDefault("files.start_dose", defaults.StartDose)
	v.SetDefault("files.total_dose", defaults.TotalDose)
	v.SetDefault("files.drug", defaults.Drug)
	v.SetDefault("files.protocol", defaults.Protocol)
	v.SetDefault("files.trigger_day", defaults.TriggerDay)
	v.SetDefault("files.total_days", defaults.TotalDays)
	v.SetDefault("files.drug_encoder", defaults.DrugEncoder)
	v.SetDefault("files.protocol_encoder", defaults.ProtocolEncoder)
	v.SetDefault("files.statistics", defaults.Statistics)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.StatsSource = strings.ToLower(strings.TrimSpace(cfg.StatsSource))

	return cfg, nil
}

// Validate checks that the configuration can run the service.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ModelDir) == "" {
		return ErrModelDirRequired
	}

	switch c.StatsSource {
	case StatsSourceFile, StatsSourceDatabase:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStatsSource, c.StatsSource)
	}

	if c.RemoteTimeout <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidRemoteTimeout, c.RemoteTimeout)
	}

	if len(c.Users) == 0 {
		return ErrNoCredentials
	}

	return nil
}

// UsesDatabase reports whether reference statistics come from Postgres.
func (c *Config) UsesDatabase() bool {
	return c.StatsSource == StatsSourceDatabase
}
