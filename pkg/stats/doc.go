// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package stats implements the frequentist engine behind the splitsig CLI:
// per-group estimation, pairwise significance testing, and sample-size /
// power planning for online experiments.
//
// The package is organized around three independent stages:
//
//   - Estimation: EstimateRevenueGroup and EstimateRateGroup turn raw
//     per-group observations into a GroupStats value (point estimate,
//     variance, standard error, two-sided confidence interval).
//   - Comparison: ComparePairwise runs a two-sided z-test for every
//     unordered pair of groups with a Bonferroni-corrected significance
//     threshold, and SignificantWinner reduces the results to a verdict.
//   - Planning: Calculator inverts the two-proportion test to answer
//     "how many users do I need" (RateSampleSize, ARPUSampleSize,
//     SampleSizeTable) and its dual "how much power do I have"
//     (AchievedPower).
//
// All functions are pure: they take values, return values, never log, and
// never touch I/O. Results are safe to serialize directly (every exported
// struct carries JSON tags) and safe to share between goroutines once
// returned.
//
// Out-of-domain parameters (non-positive user counts, conversions exceeding
// users, rates outside (0,1), non-positive lifts or prices) are rejected
// with *InvalidInputError naming the offending field. Degenerate but valid
// inputs (zero conversions, a rate of exactly 0 or 1, zero variance) are
// not errors; they produce the defined zero or clamped outputs.
package stats
