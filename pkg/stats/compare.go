// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// PairwiseResult holds the two-sided z-test for one unordered pair of
// groups. Created once by ComparePairwise and never mutated.
type PairwiseResult struct {
	GroupA      string  `json:"group_a"`
	GroupB      string  `json:"group_b"`
	EstimateA   float64 `json:"estimate_a"`
	EstimateB   float64 `json:"estimate_b"`
	Difference  float64 `json:"difference"`
	DiffStdErr  float64 `json:"diff_se"`
	DiffCILower float64 `json:"diff_ci_lower"`
	DiffCIUpper float64 `json:"diff_ci_upper"`
	ZScore      float64 `json:"z_score"`
	PValue      float64 `json:"p_value"`
	Significant bool    `json:"significant"`
}

// BonferroniAlpha returns the family-wise significance threshold for
// numGroups simultaneous pairwise comparisons: alpha divided by the number
// of unordered pairs. With fewer than two groups there are no comparisons
// and alpha is returned unchanged.
func BonferroniAlpha(alpha float64, numGroups int) float64 {
	pairs := numGroups * (numGroups - 1) / 2
	if pairs == 0 {
		return alpha
	}
	return alpha / float64(pairs)
}

// ComparePairwise runs a two-sided z-test for every unordered pair (i, j)
// with i < j in input order, in combinatorial enumeration order.
//
// The difference standard error adds the groups' variances as independent
// samples: sqrt(se_i^2 + se_j^2). When both standard errors are zero the
// z-score is defined as 0 (p-value 1), not an error.
//
// The significance flag is tested against the Bonferroni-corrected
// threshold alpha/C for C pairs, while the difference confidence interval
// is built from the uncorrected per-comparison alpha. The two can disagree:
// a CI excluding zero with Significant == false simply means the comparison
// clears the per-pair bar but not the family-wise one. This is intentional,
// so interval width stays interpretable per comparison regardless of how
// many groups the experiment has.
//
// Fewer than two groups yield an empty result slice and no error.
func ComparePairwise(groups []GroupStats, alpha float64) ([]PairwiseResult, error) {
	if err := validateAlpha(alpha); err != nil {
		return nil, err
	}
	if len(groups) < 2 {
		return []PairwiseResult{}, nil
	}

	correctedAlpha := BonferroniAlpha(alpha, len(groups))
	z := criticalValue(alpha)

	results := make([]PairwiseResult, 0, len(groups)*(len(groups)-1)/2)
	for i := 0; i < len(groups); i++ {
		for j := i + 1; j < len(groups); j++ {
			a, b := groups[i], groups[j]

			diff := a.Estimate - b.Estimate
			diffSE := math.Sqrt(a.StdErr*a.StdErr + b.StdErr*b.StdErr)

			var zScore float64
			if diffSE > 0 {
				zScore = diff / diffSE
			}
			pValue := 2 * (1 - distuv.UnitNormal.CDF(math.Abs(zScore)))

			results = append(results, PairwiseResult{
				GroupA:      a.Name,
				GroupB:      b.Name,
				EstimateA:   a.Estimate,
				EstimateB:   b.Estimate,
				Difference:  diff,
				DiffStdErr:  diffSE,
				DiffCILower: diff - z*diffSE,
				DiffCIUpper: diff + z*diffSE,
				ZScore:      zScore,
				PValue:      pValue,
				Significant: pValue < correctedAlpha,
			})
		}
	}
	return results, nil
}

// SignificantWinner reduces pairwise results to a single verdict. A group
// wins when it is the higher-value side of every significant comparison:
// equivalently, when the set of higher-value sides across all significant
// comparisons has exactly one member. Multiple members (disjoint winners,
// or a cycle, which always produces at least two) or no significant
// comparisons at all return ("", false).
func SignificantWinner(results []PairwiseResult) (string, bool) {
	winners := make(map[string]struct{})
	for _, r := range results {
		if !r.Significant {
			continue
		}
		if r.Difference > 0 {
			winners[r.GroupA] = struct{}{}
		} else {
			winners[r.GroupB] = struct{}{}
		}
	}
	if len(winners) != 1 {
		return "", false
	}
	for name := range winners {
		return name, true
	}
	return "", false
}
