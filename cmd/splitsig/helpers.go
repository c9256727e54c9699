// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/splitsig/pkg/stats"
)

// resolveFloat prefers an explicitly set flag over the config default.
func resolveFloat(cmd *cobra.Command, name string, flagVal, cfgVal float64) float64 {
	if cmd.Flags().Changed(name) {
		return flagVal
	}
	return cfgVal
}

// parseTestType maps the --type flag onto the engine's test types.
func parseTestType(s string) (stats.TestType, error) {
	switch s {
	case string(stats.TestConversionRate):
		return stats.TestConversionRate, nil
	case string(stats.TestARPU):
		return stats.TestARPU, nil
	default:
		return "", fmt.Errorf("unknown test type %q (want %s or %s)",
			s, stats.TestConversionRate, stats.TestARPU)
	}
}

// newCalculator builds the sizing calculator from flags and config.
func newCalculator(cmd *cobra.Command) (*stats.Calculator, error) {
	confidence := resolveFloat(cmd, "confidence", confidenceFlag, cfg.Defaults.Confidence)
	power := resolveFloat(cmd, "power", powerFlag, cfg.Defaults.Power)
	return stats.NewCalculator(confidence, power)
}
