// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Metric identifies which quantity a GroupStats estimates.
type Metric string

const (
	// MetricARPU is average revenue per user, non-converters included.
	MetricARPU Metric = "arpu"

	// MetricConversionRate is the fraction of users who converted.
	MetricConversionRate Metric = "conversion_rate"
)

// GroupStats holds the derived statistics for a single experimental group.
// It is immutable once returned: downstream consumers (the comparator,
// report rendering) read it and never write it.
//
// Estimate is the ARPU for MetricARPU groups and the conversion rate for
// MetricConversionRate groups. The confidence interval is symmetric around
// Estimate before clamping; rate intervals are clamped to [0, 1], revenue
// intervals are not (a negative lower bound is meaningful there).
type GroupStats struct {
	Name        string  `json:"group"`
	Metric      Metric  `json:"metric"`
	Users       int     `json:"users"`
	Conversions int     `json:"conversions"`
	Estimate    float64 `json:"estimate"`
	Variance    float64 `json:"variance"`
	StdErr      float64 `json:"se"`
	CILower     float64 `json:"ci_lower"`
	CIUpper     float64 `json:"ci_upper"`

	// Revenue-only fields, zero for conversion-rate groups.
	TotalRevenue       float64 `json:"total_revenue,omitempty"`
	ConversionRate     float64 `json:"cvr,omitempty"`
	AvgConversionValue float64 `json:"avg_conversion_value,omitempty"`
}

// criticalValue returns the two-tailed critical value z such that a standard
// normal variable exceeds ±z with total probability alpha.
func criticalValue(alpha float64) float64 {
	return distuv.UnitNormal.Quantile(1 - alpha/2)
}

// EstimateRevenueGroup computes ARPU statistics for one group.
//
// # Inputs
//
//   - name: Group label, carried through to the result.
//   - users: Total users in the group. Must be positive.
//   - revenues: One non-negative revenue value per converting user. At most
//     users entries; users without a conversion contribute an implicit 0.
//   - alpha: Significance level for the confidence interval, in (0, 1).
//
// # Outputs
//
//   - GroupStats with Estimate = ARPU, the unbiased sample variance of the
//     zero-padded per-user revenue vector, its standard error, and an
//     unclamped two-sided (1-alpha) confidence interval.
//   - *InvalidInputError when a precondition fails.
//
// A group with no conversions is valid and collapses to all-zero statistics
// (ARPU 0, variance 0, CI [0, 0]).
func EstimateRevenueGroup(name string, users int, revenues []float64, alpha float64) (GroupStats, error) {
	if err := validateAlpha(alpha); err != nil {
		return GroupStats{}, err
	}
	if users <= 0 {
		return GroupStats{}, invalidInput("users", "must be a positive integer, got %d", users)
	}
	if len(revenues) > users {
		return GroupStats{}, invalidInput("revenues", "%d conversion values exceed %d users", len(revenues), users)
	}

	var total float64
	for i, r := range revenues {
		if r < 0 || math.IsNaN(r) {
			return GroupStats{}, invalidInput("revenues", "value at index %d must be non-negative, got %v", i, r)
		}
		total += r
	}

	conversions := len(revenues)
	arpu := total / float64(users)

	// Unbiased (n-1) variance over the full per-user vector, padding
	// non-converters with zero revenue. A single-user group or a group with
	// no conversions has no spread to estimate.
	var variance float64
	if users > 1 && conversions > 0 {
		padded := make([]float64, users)
		copy(padded, revenues)
		variance = stat.Variance(padded, nil)
	}

	se := math.Sqrt(variance / float64(users))
	z := criticalValue(alpha)

	gs := GroupStats{
		Name:           name,
		Metric:         MetricARPU,
		Users:          users,
		Conversions:    conversions,
		Estimate:       arpu,
		Variance:       variance,
		StdErr:         se,
		CILower:        arpu - z*se,
		CIUpper:        arpu + z*se,
		TotalRevenue:   total,
		ConversionRate: float64(conversions) / float64(users),
	}
	if conversions > 0 {
		gs.AvgConversionValue = total / float64(conversions)
	}
	return gs, nil
}

// EstimateRateGroup computes conversion-rate statistics for one group using
// the normal approximation to the binomial.
//
// # Inputs
//
//   - name: Group label, carried through to the result.
//   - users: Total users in the group. Must be positive.
//   - conversions: Converting users, in [0, users].
//   - alpha: Significance level for the confidence interval, in (0, 1).
//
// # Outputs
//
//   - GroupStats with Estimate = conversions/users, the binomial standard
//     error, and a two-sided (1-alpha) confidence interval clamped to [0, 1].
//   - *InvalidInputError when a precondition fails.
//
// A rate of exactly 0 or 1 has a degenerate binomial variance; the standard
// error is defined to be 0 and the interval collapses onto the estimate.
func EstimateRateGroup(name string, users, conversions int, alpha float64) (GroupStats, error) {
	if err := validateAlpha(alpha); err != nil {
		return GroupStats{}, err
	}
	if users <= 0 {
		return GroupStats{}, invalidInput("users", "must be a positive integer, got %d", users)
	}
	if conversions < 0 {
		return GroupStats{}, invalidInput("conversions", "must be a non-negative integer, got %d", conversions)
	}
	if conversions > users {
		return GroupStats{}, invalidInput("conversions", "%d conversions cannot exceed %d users", conversions, users)
	}

	rate := float64(conversions) / float64(users)

	var se float64
	if rate > 0 && rate < 1 {
		se = math.Sqrt(rate * (1 - rate) / float64(users))
	}

	z := criticalValue(alpha)

	return GroupStats{
		Name:        name,
		Metric:      MetricConversionRate,
		Users:       users,
		Conversions: conversions,
		Estimate:    rate,
		Variance:    rate * (1 - rate),
		StdErr:      se,
		CILower:     math.Max(0, rate-z*se),
		CIUpper:     math.Min(1, rate+z*se),
	}, nil
}
