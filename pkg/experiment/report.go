// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package experiment

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/AleutianAI/splitsig/pkg/stats"
)

// Summary condenses an analysis into the fields a reader scans first.
type Summary struct {
	TotalGroups int `json:"total_groups"`

	// BestGroup holds the group with the highest point estimate, ties
	// going to the earlier group. A best group is not necessarily a
	// winner; see Winner.
	BestGroup string  `json:"best_group"`
	BestValue float64 `json:"best_value"`

	SignificantComparisons int `json:"significant_comparisons"`

	// Winner is set only when every significant comparison points at the
	// same group.
	Winner     string `json:"winner,omitempty"`
	Conclusion string `json:"conclusion"`
}

// Analysis is the complete result of analyzing one dataset.
type Analysis struct {
	AnalysisType    AnalysisType           `json:"analysis_type"`
	Alpha           float64                `json:"alpha"`
	ConfidenceLevel string                 `json:"confidence_level"`
	Groups          []stats.GroupStats     `json:"group_statistics"`
	Comparisons     []stats.PairwiseResult `json:"comparisons"`
	Summary         Summary                `json:"summary"`
}

// Snapshot is an Analysis stamped for writing to disk. There is no
// persistence layer behind snapshots; the flat file is the whole story.
type Snapshot struct {
	SnapshotID  string `json:"snapshot_id"`
	GeneratedAt string `json:"generated_at"`
	Analysis
}

// Analyze runs the full pipeline on a dataset: estimate every group,
// compare all pairs, and assemble the summary.
//
// # Description
//
// Validation is all-or-nothing: the dataset is re-validated up front so a
// malformed group can never leave behind a partial result set. Group order
// is preserved throughout, and comparisons enumerate pairs in the same
// order as the input.
//
// # Inputs
//
//   - ds: The dataset to analyze. Defaults are applied if the caller has
//     not done so already.
//
// # Outputs
//
//   - *Analysis, or an error naming the offending field.
func Analyze(ds *Dataset) (*Analysis, error) {
	ds.EnsureDefaults()
	if err := ds.Validate(); err != nil {
		return nil, err
	}

	groups := make([]stats.GroupStats, 0, len(ds.Groups))
	for i, g := range ds.Groups {
		var (
			gs  stats.GroupStats
			err error
		)
		switch ds.AnalysisType {
		case AnalysisARPU:
			gs, err = stats.EstimateRevenueGroup(g.Name, g.Users, g.Revenues(), ds.Alpha)
		case AnalysisConversionRate:
			gs, err = stats.EstimateRateGroup(g.Name, g.Users, *g.Conversions, ds.Alpha)
		}
		if err != nil {
			return nil, fmt.Errorf("groups[%d]: %w", i, err)
		}
		groups = append(groups, gs)
	}

	comparisons, err := stats.ComparePairwise(groups, ds.Alpha)
	if err != nil {
		return nil, err
	}

	return &Analysis{
		AnalysisType:    ds.AnalysisType,
		Alpha:           ds.Alpha,
		ConfidenceLevel: fmt.Sprintf("%.0f%%", (1-ds.Alpha)*100),
		Groups:          groups,
		Comparisons:     comparisons,
		Summary:         summarize(groups, comparisons),
	}, nil
}

func summarize(groups []stats.GroupStats, comparisons []stats.PairwiseResult) Summary {
	best := groups[0]
	for _, g := range groups[1:] {
		if g.Estimate > best.Estimate {
			best = g
		}
	}

	significant := 0
	for _, c := range comparisons {
		if c.Significant {
			significant++
		}
	}

	s := Summary{
		TotalGroups:            len(groups),
		BestGroup:              best.Name,
		BestValue:              best.Estimate,
		SignificantComparisons: significant,
	}

	winner, unique := stats.SignificantWinner(comparisons)
	switch {
	case significant == 0:
		s.Conclusion = "No statistically significant winner (all group differences are not significant)"
	case unique:
		s.Winner = winner
		s.Conclusion = fmt.Sprintf("Statistically significant winner is %s", winner)
	default:
		s.Conclusion = "Multiple statistically significant winning groups exist"
	}
	return s
}

// WriteSnapshot stamps the analysis with a fresh snapshot ID and an RFC3339
// timestamp and writes it to path as indented JSON.
func WriteSnapshot(a *Analysis, path string) (*Snapshot, error) {
	snap := &Snapshot{
		SnapshotID:  uuid.NewString(),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Analysis:    *a,
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("writing snapshot %s: %w", path, err)
	}
	return snap, nil
}
