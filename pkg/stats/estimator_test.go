// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package stats

import (
	"errors"
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// TestEstimateRateGroup_Baseline checks the canonical 73/1000 example
// against hand-computed values.
func TestEstimateRateGroup_Baseline(t *testing.T) {
	gs, err := EstimateRateGroup("control", 1000, 73, 0.05)
	if err != nil {
		t.Fatalf("EstimateRateGroup returned error: %v", err)
	}

	if gs.Estimate != 0.073 {
		t.Errorf("Estimate = %v, want 0.073", gs.Estimate)
	}
	if !almostEqual(gs.StdErr, 0.0082263, 1e-6) {
		t.Errorf("StdErr = %v, want ~0.0082263", gs.StdErr)
	}
	if !almostEqual(gs.CILower, 0.056877, 1e-4) {
		t.Errorf("CILower = %v, want ~0.0569", gs.CILower)
	}
	if !almostEqual(gs.CIUpper, 0.089123, 1e-4) {
		t.Errorf("CIUpper = %v, want ~0.0891", gs.CIUpper)
	}
	if gs.Metric != MetricConversionRate {
		t.Errorf("Metric = %q, want %q", gs.Metric, MetricConversionRate)
	}
	if gs.Users != 1000 || gs.Conversions != 73 {
		t.Errorf("Users/Conversions = %d/%d, want 1000/73", gs.Users, gs.Conversions)
	}
}

// TestEstimateRateGroup_DegenerateRates verifies that rates of exactly 0
// and 1 produce a zero standard error and a collapsed interval, not an
// error.
func TestEstimateRateGroup_DegenerateRates(t *testing.T) {
	cases := []struct {
		name        string
		conversions int
		wantRate    float64
	}{
		{"all converted", 100, 1.0},
		{"none converted", 0, 0.0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gs, err := EstimateRateGroup("g", 100, tc.conversions, 0.05)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if gs.Estimate != tc.wantRate {
				t.Errorf("Estimate = %v, want %v", gs.Estimate, tc.wantRate)
			}
			if gs.StdErr != 0 {
				t.Errorf("StdErr = %v, want 0", gs.StdErr)
			}
			if gs.CILower != tc.wantRate || gs.CIUpper != tc.wantRate {
				t.Errorf("CI = [%v, %v], want collapsed onto %v", gs.CILower, gs.CIUpper, tc.wantRate)
			}
		})
	}
}

// TestEstimateRateGroup_CIClamped verifies the [0, 1] clamp on rate
// intervals with an extreme rate on a small sample.
func TestEstimateRateGroup_CIClamped(t *testing.T) {
	gs, err := EstimateRateGroup("g", 10, 1, 0.05)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Unclamped lower bound would be 0.1 - 1.96*sqrt(0.09/10) ~= -0.086.
	if gs.CILower != 0 {
		t.Errorf("CILower = %v, want clamped to 0", gs.CILower)
	}
	if gs.CIUpper > 1 {
		t.Errorf("CIUpper = %v, want <= 1", gs.CIUpper)
	}
}

func TestEstimateRateGroup_InvalidInputs(t *testing.T) {
	cases := []struct {
		name        string
		users       int
		conversions int
		alpha       float64
		wantField   string
	}{
		{"zero users", 0, 0, 0.05, "users"},
		{"negative users", -5, 0, 0.05, "users"},
		{"negative conversions", 100, -1, 0.05, "conversions"},
		{"conversions exceed users", 100, 101, 0.05, "conversions"},
		{"alpha zero", 100, 10, 0, "alpha"},
		{"alpha one", 100, 10, 1, "alpha"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := EstimateRateGroup("g", tc.users, tc.conversions, tc.alpha)
			var invalid *InvalidInputError
			if !errors.As(err, &invalid) {
				t.Fatalf("error = %v, want *InvalidInputError", err)
			}
			if invalid.Field != tc.wantField {
				t.Errorf("Field = %q, want %q", invalid.Field, tc.wantField)
			}
		})
	}
}

// TestEstimateRevenueGroup_PaddedVariance checks the zero-padding of
// non-converters with a small hand-computed case: 2 users, one $10
// conversion. Padded vector [10, 0], mean 5, unbiased variance 50.
func TestEstimateRevenueGroup_PaddedVariance(t *testing.T) {
	gs, err := EstimateRevenueGroup("g", 2, []float64{10}, 0.05)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gs.Estimate != 5 {
		t.Errorf("ARPU = %v, want 5", gs.Estimate)
	}
	if gs.Variance != 50 {
		t.Errorf("Variance = %v, want 50", gs.Variance)
	}
	if gs.StdErr != 5 {
		t.Errorf("StdErr = %v, want 5", gs.StdErr)
	}
	// Revenue intervals are deliberately unclamped; this one dips below 0.
	if gs.CILower >= 0 {
		t.Errorf("CILower = %v, want negative (unclamped)", gs.CILower)
	}
	if !almostEqual(gs.CIUpper-gs.Estimate, gs.Estimate-gs.CILower, 1e-9) {
		t.Errorf("CI not symmetric: [%v, %v] around %v", gs.CILower, gs.CIUpper, gs.Estimate)
	}
}

func TestEstimateRevenueGroup_DerivedFields(t *testing.T) {
	gs, err := EstimateRevenueGroup("g", 100, []float64{40, 40, 50, 30}, 0.05)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gs.TotalRevenue != 160 {
		t.Errorf("TotalRevenue = %v, want 160", gs.TotalRevenue)
	}
	if gs.Estimate != 1.6 {
		t.Errorf("ARPU = %v, want 1.6", gs.Estimate)
	}
	if gs.ConversionRate != 0.04 {
		t.Errorf("ConversionRate = %v, want 0.04", gs.ConversionRate)
	}
	if gs.AvgConversionValue != 40 {
		t.Errorf("AvgConversionValue = %v, want 40", gs.AvgConversionValue)
	}
	if gs.Conversions != 4 {
		t.Errorf("Conversions = %d, want 4", gs.Conversions)
	}
}

// TestEstimateRevenueGroup_NoConversions pins the all-zero collapse: a
// group nobody converted in has ARPU 0, no variance, and a [0, 0] interval.
func TestEstimateRevenueGroup_NoConversions(t *testing.T) {
	gs, err := EstimateRevenueGroup("g", 500, nil, 0.05)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gs.Estimate != 0 || gs.Variance != 0 || gs.StdErr != 0 {
		t.Errorf("stats = (%v, %v, %v), want all zero", gs.Estimate, gs.Variance, gs.StdErr)
	}
	if gs.CILower != 0 || gs.CIUpper != 0 {
		t.Errorf("CI = [%v, %v], want [0, 0]", gs.CILower, gs.CIUpper)
	}
	if gs.AvgConversionValue != 0 {
		t.Errorf("AvgConversionValue = %v, want 0", gs.AvgConversionValue)
	}
}

func TestEstimateRevenueGroup_SingleUser(t *testing.T) {
	gs, err := EstimateRevenueGroup("g", 1, []float64{9.99}, 0.05)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gs.Variance != 0 {
		t.Errorf("Variance = %v, want 0 for a single-user group", gs.Variance)
	}
	if gs.Estimate != 9.99 {
		t.Errorf("ARPU = %v, want 9.99", gs.Estimate)
	}
}

func TestEstimateRevenueGroup_InvalidInputs(t *testing.T) {
	cases := []struct {
		name      string
		users     int
		revenues  []float64
		wantField string
	}{
		{"zero users", 0, nil, "users"},
		{"more conversions than users", 2, []float64{1, 2, 3}, "revenues"},
		{"negative revenue", 10, []float64{5, -1}, "revenues"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := EstimateRevenueGroup("g", tc.users, tc.revenues, 0.05)
			var invalid *InvalidInputError
			if !errors.As(err, &invalid) {
				t.Fatalf("error = %v, want *InvalidInputError", err)
			}
			if invalid.Field != tc.wantField {
				t.Errorf("Field = %q, want %q", invalid.Field, tc.wantField)
			}
		})
	}
}
