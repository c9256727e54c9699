// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/splitsig/pkg/stats"
	"github.com/AleutianAI/splitsig/pkg/ux"
)

// runSampleSize computes either one sizing plan (--lift) or a table of
// plans (--lifts).
func runSampleSize(cmd *cobra.Command, args []string) {
	start := time.Now()
	outCfg := OutputConfig{JSON: jsonOutput}

	testType, err := parseTestType(testTypeFlag)
	if err != nil {
		os.Exit(OutputResult(outCfg, "samplesize", start, nil, err))
	}
	calc, err := newCalculator(cmd)
	if err != nil {
		os.Exit(OutputResult(outCfg, "samplesize", start, nil, err))
	}
	allocation := resolveFloat(cmd, "allocation", allocationFlag, cfg.Defaults.Allocation)

	if len(liftsFlag) > 0 {
		plans, err := calc.SampleSizeTable(testType, controlFlag, liftsFlag, allocation, priceFlag)
		if err != nil {
			os.Exit(OutputResult(outCfg, "samplesize", start, nil, err))
		}
		logger.Info("sample size table computed", "test_type", testType, "rows", len(plans))

		if !jsonOutput {
			ux.Title(fmt.Sprintf("Sample Size Table (%.0f%% confidence, %.0f%% power)",
				calc.Confidence*100, calc.Power*100))
			renderPlanTable(plans)
		}
		if saveFile != "" {
			if err := savePlansJSON(plans, saveFile); err != nil {
				os.Exit(OutputResult(outCfg, "samplesize", start, nil, err))
			}
			if !jsonOutput {
				ux.Success("Plans saved to: " + saveFile)
			}
		}
		os.Exit(OutputResult(outCfg, "samplesize", start, plans, nil))
	}

	var plan *stats.SampleSizePlan
	if testType == stats.TestARPU {
		plan, err = calc.ARPUSampleSize(controlFlag, liftFlag, priceFlag, allocation)
	} else {
		plan, err = calc.RateSampleSize(controlFlag, liftFlag, allocation)
	}
	if err != nil {
		os.Exit(OutputResult(outCfg, "samplesize", start, nil, err))
	}
	logger.Info("sample size computed", "test_type", testType, "total", plan.TotalSampleSize)

	if !jsonOutput {
		renderPlan(plan)
	}
	if saveFile != "" {
		if err := savePlansJSON(plan, saveFile); err != nil {
			os.Exit(OutputResult(outCfg, "samplesize", start, nil, err))
		}
		if !jsonOutput {
			ux.Success("Plan saved to: " + saveFile)
		}
	}
	os.Exit(OutputResult(outCfg, "samplesize", start, plan, nil))
}

func renderPlan(p *stats.SampleSizePlan) {
	ux.Title(fmt.Sprintf("Sample Size Plan (%.0f%% confidence, %.0f%% power)",
		p.Confidence*100, p.Power*100))

	if p.TestType == stats.TestARPU {
		ux.Info(fmt.Sprintf("Baseline ARPU %.4f, target %.4f (price %.2f)",
			p.ControlARPU, p.TreatmentARPU, p.Price))
	} else {
		ux.Info(fmt.Sprintf("Baseline rate %.4f, target %.4f",
			p.ControlRate, p.TreatmentRate))
	}
	ux.Info(fmt.Sprintf("Minimum detectable effect: %.4f", p.MinimumDetectableEffect))
	ux.Info(fmt.Sprintf("Total sample size: %d (control %d, treatment %d)",
		p.TotalSampleSize, p.ControlSize, p.TreatmentSize))
	ux.Info(fmt.Sprintf("Expected conversions: control %d, treatment %d",
		p.ExpectedControlConversions, p.ExpectedTreatmentConversions))
}

func renderPlanTable(plans []*stats.SampleSizePlan) {
	tbl := &ux.Table{Headers: []string{"lift", "target", "mde", "total", "control", "treatment"}}
	for _, p := range plans {
		target := ux.Float4(p.TreatmentRate)
		if p.TestType == stats.TestARPU {
			target = ux.Float4(p.TreatmentARPU)
		}
		tbl.AddRow(
			fmt.Sprintf("%.0f%%", p.Lift*100),
			target,
			ux.Float4(p.MinimumDetectableEffect),
			strconv.Itoa(p.TotalSampleSize),
			strconv.Itoa(p.ControlSize),
			strconv.Itoa(p.TreatmentSize),
		)
	}
	tbl.Print()
}

func savePlansJSON(v interface{}, path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding plans: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
