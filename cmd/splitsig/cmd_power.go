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
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/splitsig/pkg/ux"
)

// runPower answers the dual question of samplesize: given a fixed total
// sample, how much power does the test have.
func runPower(cmd *cobra.Command, args []string) {
	start := time.Now()
	outCfg := OutputConfig{JSON: jsonOutput}

	testType, err := parseTestType(testTypeFlag)
	if err != nil {
		os.Exit(OutputResult(outCfg, "power", start, nil, err))
	}
	calc, err := newCalculator(cmd)
	if err != nil {
		os.Exit(OutputResult(outCfg, "power", start, nil, err))
	}
	allocation := resolveFloat(cmd, "allocation", allocationFlag, cfg.Defaults.Allocation)

	result, err := calc.AchievedPower(testType, controlFlag, liftFlag, sampleSizeFlag, allocation, priceFlag)
	if err != nil {
		os.Exit(OutputResult(outCfg, "power", start, nil, err))
	}
	logger.Info("power computed", "test_type", testType, "sample_size", sampleSizeFlag, "power", result.Power)

	if !jsonOutput {
		ux.Title(fmt.Sprintf("Achieved Power (%.0f%% confidence)", calc.Confidence*100))
		ux.Info(fmt.Sprintf("Sample size: %d at allocation %.2f", result.SampleSize, allocation))
		ux.Info(fmt.Sprintf("Effect size: %.4f (se %.6f)", result.EffectSize, result.StandardError))
		line := fmt.Sprintf("Power: %.1f%%", result.Power*100)
		if result.Power >= calc.Power {
			ux.Success(line)
		} else {
			ux.Warning(line + fmt.Sprintf(" (below the %.0f%% target)", calc.Power*100))
		}
	}

	os.Exit(OutputResult(outCfg, "power", start, result, nil))
}
