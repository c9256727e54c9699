// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"testing"

	"github.com/AleutianAI/splitsig/pkg/experiment"
)

// TestParsePriceCounts tests the manual-entry price tier format.
func TestParsePriceCounts(t *testing.T) {
	got, err := parsePriceCounts("39.99:50, 49.99:20,29.99:3")
	if err != nil {
		t.Fatalf("parsePriceCounts() error = %v, want nil", err)
	}

	want := []experiment.PriceCount{
		{Price: 39.99, Count: 50},
		{Price: 49.99, Count: 20},
		{Price: 29.99, Count: 3},
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("pc[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

// TestParsePriceCounts_Empty tests that no tiers is a valid zero-conversion
// group.
func TestParsePriceCounts_Empty(t *testing.T) {
	got, err := parsePriceCounts("   ")
	if err != nil {
		t.Fatalf("parsePriceCounts() error = %v, want nil", err)
	}
	if got != nil {
		t.Errorf("parsePriceCounts() = %v, want nil", got)
	}
}

// TestParsePriceCounts_Invalid tests rejection of malformed pairs.
func TestParsePriceCounts_Invalid(t *testing.T) {
	for _, input := range []string{
		"39.99",
		"abc:50",
		"39.99:x",
		"-1:5",
		"39.99:-5",
	} {
		if _, err := parsePriceCounts(input); err == nil {
			t.Errorf("parsePriceCounts(%q) error = nil, want error", input)
		}
	}
}

// TestSampleDataset tests the built-in demo data for both analysis types.
func TestSampleDataset(t *testing.T) {
	oldCfg := cfg
	t.Cleanup(func() { cfg = oldCfg })
	cfg = defaultConfig()

	arpu := sampleDataset(experiment.AnalysisARPU)
	if err := arpu.Validate(); err != nil {
		t.Errorf("ARPU sample invalid: %v", err)
	}
	if len(arpu.Groups) != 3 {
		t.Errorf("ARPU groups = %d, want 3", len(arpu.Groups))
	}
	if arpu.Groups[0].Name != "Control Group" {
		t.Errorf("Groups[0].Name = %q, want Control Group", arpu.Groups[0].Name)
	}

	rate := sampleDataset(experiment.AnalysisConversionRate)
	if err := rate.Validate(); err != nil {
		t.Errorf("rate sample invalid: %v", err)
	}
	if rate.AnalysisType != experiment.AnalysisConversionRate {
		t.Errorf("AnalysisType = %q, want conversion_rate", rate.AnalysisType)
	}
}

// TestInputValidators tests the huh field validators.
func TestInputValidators(t *testing.T) {
	if err := validatePositiveInt("815"); err != nil {
		t.Errorf("validatePositiveInt(815) = %v, want nil", err)
	}
	if err := validatePositiveInt("0"); err == nil {
		t.Error("validatePositiveInt(0) = nil, want error")
	}
	if err := validatePositiveInt("abc"); err == nil {
		t.Error("validatePositiveInt(abc) = nil, want error")
	}

	if err := validateNonNegativeInt("0"); err != nil {
		t.Errorf("validateNonNegativeInt(0) = %v, want nil", err)
	}
	if err := validateNonNegativeInt("-1"); err == nil {
		t.Error("validateNonNegativeInt(-1) = nil, want error")
	}
}
