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
)

// Parse decodes a dataset document, applies defaults, and validates it.
//
// # Inputs
//
//   - data: Raw JSON bytes in the dataset format.
//
// # Outputs
//
//   - *Dataset ready for Analyze, or an error naming the offending field.
func Parse(data []byte) (*Dataset, error) {
	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	ds.EnsureDefaults()
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return &ds, nil
}

// LoadFile reads and parses a dataset from disk.
func LoadFile(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset %s: %w", path, err)
	}
	ds, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing dataset %s: %w", path, err)
	}
	return ds, nil
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

// Template returns the canonical example dataset for the given analysis
// type. The ARPU template demonstrates both revenue encodings; the
// conversion-rate template uses bare conversion counts.
func Template(analysisType AnalysisType) *Dataset {
	if analysisType == AnalysisConversionRate {
		return &Dataset{
			AnalysisType: AnalysisConversionRate,
			Alpha:        DefaultAlpha,
			Groups: []Group{
				{Name: "Control Group", Users: 1000, Conversions: intPtr(73)},
				{Name: "Treatment Group 1", Users: 1000, Conversions: intPtr(126)},
				{Name: "Treatment Group 2", Users: 1000, Conversions: intPtr(95)},
			},
		}
	}

	return &Dataset{
		AnalysisType: AnalysisARPU,
		Alpha:        DefaultAlpha,
		Groups: []Group{
			{
				Name:  "Control Group",
				Users: 815,
				PriceCounts: []PriceCount{
					{Price: 39.99, Count: 50},
					{Price: 49.99, Count: 20},
					{Price: 29.99, Count: 3},
				},
			},
			{
				Name:  "Treatment Group 1",
				Users: 1563,
				PriceCounts: []PriceCount{
					{Price: 39.99, Count: 80},
					{Price: 49.99, Count: 40},
					{Price: 19.99, Count: 6},
				},
			},
			{
				Name:            "Treatment Group 2",
				Users:           1200,
				TotalRevenue:    floatPtr(2999.55),
				ConversionCount: intPtr(45),
			},
		},
	}
}

// WriteTemplate renders the template as indented JSON, optionally writing
// it to a file when path is non-empty.
func WriteTemplate(analysisType AnalysisType, path string) (string, error) {
	data, err := json.MarshalIndent(Template(analysisType), "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding template: %w", err)
	}
	if path != "" {
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return "", fmt.Errorf("writing template %s: %w", path, err)
		}
	}
	return string(data), nil
}
