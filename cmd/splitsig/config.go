// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the optional splitsig.yaml settings. Every field has a
// default, so running without a config file is the normal case.
type Config struct {
	Defaults struct {
		// Alpha is the significance level for analyze runs.
		Alpha float64 `yaml:"alpha"`

		// Confidence and Power seed the sizing calculator.
		Confidence float64 `yaml:"confidence"`
		Power      float64 `yaml:"power"`

		// Allocation is the treatment fraction for sizing runs.
		Allocation float64 `yaml:"allocation"`
	} `yaml:"defaults"`

	Output struct {
		// Personality overrides the UX personality level
		// (full/standard/minimal/machine).
		Personality string `yaml:"personality"`

		// LogDir enables file logging when set.
		LogDir string `yaml:"log_dir"`
	} `yaml:"output"`
}

// defaultConfig returns the built-in settings.
func defaultConfig() Config {
	var c Config
	c.Defaults.Alpha = 0.05
	c.Defaults.Confidence = 0.95
	c.Defaults.Power = 0.80
	c.Defaults.Allocation = 0.5
	return c
}

// loadConfig reads the YAML config at path, layering it over the defaults.
// A missing file is not an error; a malformed one is.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	// Zero values mean the key was omitted; fall back per field.
	base := defaultConfig()
	if cfg.Defaults.Alpha == 0 {
		cfg.Defaults.Alpha = base.Defaults.Alpha
	}
	if cfg.Defaults.Confidence == 0 {
		cfg.Defaults.Confidence = base.Defaults.Confidence
	}
	if cfg.Defaults.Power == 0 {
		cfg.Defaults.Power = base.Defaults.Power
	}
	if cfg.Defaults.Allocation == 0 {
		cfg.Defaults.Allocation = base.Defaults.Allocation
	}
	return cfg, nil
}
