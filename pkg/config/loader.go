package config

import (
	"context"
	"fmt"
	"log/slog"
)

// Initialize loads, validates, and returns ready-to-use configuration.
// This is the primary entry point for configuration loading.
//
// Steps performed:
//  1. Start from the Builder's built-in defaults.
//  2. If a config file is found (configPath, or the first of
//     configPaths that exists), apply it.
//  3. Apply environment variable overrides — env always wins over file.
//  4. Build, filling in any remaining defaults.
//  5. Validate the fully resolved configuration.
func Initialize(_ context.Context, configPath string) (*Config, error) {
	log := slog.With("config_path", configPath)
	log.Info("initializing configuration")

	b := NewBuilder()

	path := configPath
	found := path != ""
	if !found {
		path, found = FindConfigFile()
	}

	if found {
		log = log.With("config_file", path)
		var err error
		b, err = LoadFromFile(path, b)
		if err != nil {
			return nil, NewLoadError(path, err)
		}
		log.Info("loaded configuration file")
	} else {
		log.Info("no configuration file found, using built-in defaults and environment")
	}

	b, err := LoadFromEnv(b)
	if err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	cfg, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build configuration: %w", err)
	}

	if err := NewValidator(cfg).ValidateAll(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	log.Info("configuration initialized successfully",
		"transport", cfg.Transport.Mode,
		"read_only", cfg.ReadOnly,
		"dml_enabled", cfg.DML.AllowDML,
		"procedures_enabled", cfg.Procedure.AllowProcedures,
		"cache_enabled", cfg.Cache.Enabled,
	)

	return cfg, nil
}
