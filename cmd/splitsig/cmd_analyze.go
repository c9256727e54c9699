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
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/splitsig/pkg/experiment"
	"github.com/AleutianAI/splitsig/pkg/stats"
	"github.com/AleutianAI/splitsig/pkg/ux"
)

// runAnalyze loads a dataset (file or interactive), runs the full
// estimation and comparison pipeline, and renders the results.
func runAnalyze(cmd *cobra.Command, args []string) {
	start := time.Now()
	outCfg := OutputConfig{JSON: jsonOutput, Compact: compact}

	var (
		ds  *experiment.Dataset
		err error
	)
	switch {
	case jsonFile != "":
		logger.Debug("loading dataset", "path", jsonFile)
		ds, err = experiment.LoadFile(jsonFile)
	case ux.IsInteractive():
		ds, err = promptDataset() // Defined in interactive.go
	default:
		err = fmt.Errorf("no input: pass --json, or run in a terminal for interactive mode")
	}
	if err != nil {
		os.Exit(OutputResult(outCfg, "analyze", start, nil, err))
	}

	// An explicit flag beats whatever the dataset or config says.
	if cmd.Flags().Changed("alpha") {
		ds.Alpha = alphaFlag
	}

	analysis, err := experiment.Analyze(ds)
	if err != nil {
		os.Exit(OutputResult(outCfg, "analyze", start, nil, err))
	}
	logger.Info("analysis complete",
		"analysis_type", analysis.AnalysisType,
		"groups", len(analysis.Groups),
		"significant", analysis.Summary.SignificantComparisons,
	)

	if !jsonOutput {
		renderAnalysis(analysis)
	}

	if outputFile != "" {
		snap, err := experiment.WriteSnapshot(analysis, outputFile)
		if err != nil {
			os.Exit(OutputResult(outCfg, "analyze", start, nil, err))
		}
		logger.Debug("snapshot written", "snapshot_id", snap.SnapshotID, "path", outputFile)
		if !jsonOutput {
			ux.Success("Results saved to: " + outputFile)
		}
	}

	os.Exit(OutputResult(outCfg, "analyze", start, analysis, nil))
}

func renderAnalysis(a *experiment.Analysis) {
	switch a.AnalysisType {
	case experiment.AnalysisARPU:
		ux.Title("Experimental Group Details (ARPU Analysis)")
		renderARPUGroups(a)
	default:
		ux.Title("Experimental Group Details (Conversion Rate Analysis)")
		renderRateGroups(a)
	}

	fmt.Println()
	ux.Title("Group Comparison Results")
	renderComparisons(a.Comparisons)

	fmt.Println()
	ux.Title("Experiment Conclusions")
	renderConclusions(a)
}

func renderARPUGroups(a *experiment.Analysis) {
	ci := a.ConfidenceLevel + " CI"
	tbl := &ux.Table{Headers: []string{"group", "users", "conversions", "revenue", "arpu", ci, "cvr", "avg value", "se"}}
	for _, g := range a.Groups {
		tbl.AddRow(
			g.Name,
			strconv.Itoa(g.Users),
			strconv.Itoa(g.Conversions),
			fmt.Sprintf("%.2f", g.TotalRevenue),
			ux.Float4(g.Estimate),
			ux.Interval(g.CILower, g.CIUpper),
			ux.Float4(g.ConversionRate),
			fmt.Sprintf("%.2f", g.AvgConversionValue),
			ux.Float4(g.StdErr),
		)
	}
	tbl.Print()
}

func renderRateGroups(a *experiment.Analysis) {
	ci := a.ConfidenceLevel + " CI"
	tbl := &ux.Table{Headers: []string{"group", "users", "conversions", "rate", ci, "se"}}
	for _, g := range a.Groups {
		tbl.AddRow(
			g.Name,
			strconv.Itoa(g.Users),
			strconv.Itoa(g.Conversions),
			ux.Float4(g.Estimate),
			ux.Interval(g.CILower, g.CIUpper),
			ux.Float4(g.StdErr),
		)
	}
	tbl.Print()
}

func renderComparisons(comparisons []stats.PairwiseResult) {
	tbl := &ux.Table{Headers: []string{"group a", "group b", "difference", "diff ci", "z-score", "p-value", "significant"}}
	for _, c := range comparisons {
		sig := string(ux.IconError)
		if c.Significant {
			sig = string(ux.IconSuccess)
		}
		tbl.AddRow(
			c.GroupA,
			c.GroupB,
			ux.Float4(c.Difference),
			ux.Interval(c.DiffCILower, c.DiffCIUpper),
			ux.Float4(c.ZScore),
			ux.Float4(c.PValue),
			sig,
		)
	}
	tbl.Print()
}

func renderConclusions(a *experiment.Analysis) {
	s := a.Summary

	metric := "conversion rate"
	if a.AnalysisType == experiment.AnalysisARPU {
		metric = "ARPU"
	}
	ux.Info(fmt.Sprintf("Group with highest %s: %s (%s)", metric, s.BestGroup, ux.Float4(s.BestValue)))
	for _, g := range a.Groups {
		if g.Name == s.BestGroup {
			ux.Info(fmt.Sprintf("  %s %s CI: %s", metric, a.ConfidenceLevel, ux.Interval(g.CILower, g.CIUpper)))
			break
		}
	}

	if s.Winner != "" {
		ux.Success("Conclusion: " + s.Conclusion)
	} else {
		ux.Info("Conclusion: " + s.Conclusion)
	}
}
