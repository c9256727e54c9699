// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/AleutianAI/splitsig/pkg/experiment"
)

// promptDataset collects an experiment dataset interactively: analysis
// type first, then either the built-in sample data or manual group entry.
func promptDataset() (*experiment.Dataset, error) {
	var analysisType string
	var inputMethod string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Select analysis type").
				Options(
					huh.NewOption("ARPU analysis", string(experiment.AnalysisARPU)),
					huh.NewOption("Conversion rate analysis", string(experiment.AnalysisConversionRate)),
				).
				Value(&analysisType),
			huh.NewSelect[string]().
				Title("Select input method").
				Options(
					huh.NewOption("Use sample data", "sample"),
					huh.NewOption("Manual input", "manual"),
				).
				Value(&inputMethod),
		),
	)
	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("interactive input aborted: %w", err)
	}

	at := experiment.AnalysisType(analysisType)
	if inputMethod == "sample" {
		return sampleDataset(at), nil
	}
	return promptGroups(at)
}

// sampleDataset mirrors the built-in demo data: three paywall arms for
// ARPU, three conversion counts for rates.
func sampleDataset(at experiment.AnalysisType) *experiment.Dataset {
	if at == experiment.AnalysisConversionRate {
		return experiment.Template(experiment.AnalysisConversionRate)
	}

	return &experiment.Dataset{
		AnalysisType: experiment.AnalysisARPU,
		Alpha:        cfg.Defaults.Alpha,
		Groups: []experiment.Group{
			{
				Name:  "Control Group",
				Users: 815,
				PriceCounts: []experiment.PriceCount{
					{Price: 39.99, Count: 50}, {Price: 49.99, Count: 20}, {Price: 29.99, Count: 3},
				},
			},
			{
				Name:  "Treatment Group 1",
				Users: 1563,
				PriceCounts: []experiment.PriceCount{
					{Price: 39.99, Count: 80}, {Price: 49.99, Count: 40}, {Price: 19.99, Count: 6},
				},
			},
			{
				Name:  "Treatment Group 2",
				Users: 1200,
				PriceCounts: []experiment.PriceCount{
					{Price: 49.99, Count: 30}, {Price: 79.99, Count: 15},
				},
			},
		},
	}
}

// promptGroups runs the per-group entry loop until the user stops adding
// groups.
func promptGroups(at experiment.AnalysisType) (*experiment.Dataset, error) {
	ds := &experiment.Dataset{
		AnalysisType: at,
		Alpha:        cfg.Defaults.Alpha,
	}

	for {
		idx := len(ds.Groups)
		group, err := promptGroup(at, idx)
		if err != nil {
			return nil, err
		}
		ds.Groups = append(ds.Groups, *group)

		var more bool
		confirm := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title("Add another group?").
				Affirmative("Yes").
				Negative("No").
				Value(&more),
		))
		if err := confirm.Run(); err != nil {
			return nil, fmt.Errorf("interactive input aborted: %w", err)
		}
		if !more {
			break
		}
	}

	if len(ds.Groups) < 2 {
		return nil, fmt.Errorf("need at least 2 groups to compare, got %d", len(ds.Groups))
	}
	return ds, nil
}

func promptGroup(at experiment.AnalysisType, idx int) (*experiment.Group, error) {
	name := fmt.Sprintf("Group %d", idx)
	var usersStr, dataStr string

	fields := []huh.Field{
		huh.NewInput().
			Title(fmt.Sprintf("Group %d name", idx)).
			Value(&name),
		huh.NewInput().
			Title("Total users").
			Validate(validatePositiveInt).
			Value(&usersStr),
	}
	if at == experiment.AnalysisConversionRate {
		fields = append(fields, huh.NewInput().
			Title("Number of conversions").
			Validate(validateNonNegativeInt).
			Value(&dataStr))
	} else {
		fields = append(fields, huh.NewInput().
			Title("Price counts (price:count, comma separated, e.g. 39.99:50,49.99:20)").
			Validate(func(s string) error {
				_, err := parsePriceCounts(s)
				return err
			}).
			Value(&dataStr))
	}

	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		return nil, fmt.Errorf("interactive input aborted: %w", err)
	}

	users, err := strconv.Atoi(strings.TrimSpace(usersStr))
	if err != nil {
		return nil, fmt.Errorf("invalid user count %q", usersStr)
	}

	group := &experiment.Group{Name: name, Users: users}
	if at == experiment.AnalysisConversionRate {
		conversions, err := strconv.Atoi(strings.TrimSpace(dataStr))
		if err != nil {
			return nil, fmt.Errorf("invalid conversion count %q", dataStr)
		}
		group.Conversions = &conversions
	} else {
		priceCounts, err := parsePriceCounts(dataStr)
		if err != nil {
			return nil, err
		}
		group.PriceCounts = priceCounts
	}
	return group, nil
}

// parsePriceCounts parses "39.99:50,49.99:20" into price tiers. An empty
// string is a group with no conversions.
func parsePriceCounts(s string) ([]experiment.PriceCount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	var out []experiment.PriceCount
	for _, pair := range strings.Split(s, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("expected price:count, got %q", pair)
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil || price < 0 {
			return nil, fmt.Errorf("invalid price %q", parts[0])
		}
		count, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil || count < 0 {
			return nil, fmt.Errorf("invalid count %q", parts[1])
		}
		out = append(out, experiment.PriceCount{Price: price, Count: count})
	}
	return out, nil
}

func validatePositiveInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return fmt.Errorf("enter a positive integer")
	}
	return nil
}

func validateNonNegativeInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return fmt.Errorf("enter a non-negative integer")
	}
	return nil
}
