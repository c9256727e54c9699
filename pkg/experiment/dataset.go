// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package experiment is the data contract between the CLI shell and the
// stats engine: the JSON dataset format, its validation rules, analysis
// orchestration, and flat result snapshots.
package experiment

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// AnalysisType selects which metric an experiment dataset measures.
type AnalysisType string

const (
	// AnalysisARPU compares average revenue per user across groups.
	AnalysisARPU AnalysisType = "arpu"

	// AnalysisConversionRate compares binomial conversion rates.
	AnalysisConversionRate AnalysisType = "conversion_rate"
)

// DefaultAlpha is the significance level used when a dataset omits one.
const DefaultAlpha = 0.05

// datasetValidate is the shared validator instance for dataset types.
var datasetValidate *validator.Validate

func init() {
	datasetValidate = validator.New()
}

// PriceCount is one price tier in the expanded ARPU encoding: count users
// converted at this price.
type PriceCount struct {
	Price float64 `json:"price" validate:"gte=0"`
	Count int     `json:"count" validate:"gte=0"`
}

// Group is one experimental arm. Exactly one of three encodings carries the
// conversion data:
//
//   - PriceCounts: per-price conversion counts (ARPU analysis).
//   - TotalRevenue + ConversionCount: aggregated revenue (ARPU analysis).
//     The loader spreads the total evenly across the conversions.
//   - Conversions: a bare conversion count (conversion-rate analysis).
//
// Pointer fields distinguish "absent" from a legitimate zero.
type Group struct {
	Name  string `json:"name,omitempty"`
	Users int    `json:"users" validate:"required,gt=0"`

	PriceCounts     []PriceCount `json:"price_counts,omitempty" validate:"omitempty,dive"`
	TotalRevenue    *float64     `json:"total_revenue,omitempty" validate:"omitempty,gte=0"`
	ConversionCount *int         `json:"conversion_count,omitempty" validate:"omitempty,gte=0"`

	Conversions *int `json:"conversions,omitempty" validate:"omitempty,gte=0"`
}

// Dataset is the top-level JSON input document.
type Dataset struct {
	AnalysisType AnalysisType `json:"analysis_type" validate:"oneof=arpu conversion_rate"`
	Alpha        float64      `json:"alpha" validate:"gt=0,lt=1"`
	Groups       []Group      `json:"groups" validate:"required,min=1,dive"`
}

// EnsureDefaults populates optional fields the way the JSON contract
// promises: analysis type arpu, alpha 0.05, group names "Group N".
func (d *Dataset) EnsureDefaults() {
	if d.AnalysisType == "" {
		d.AnalysisType = AnalysisARPU
	}
	if d.Alpha == 0 {
		d.Alpha = DefaultAlpha
	}
	for i := range d.Groups {
		if d.Groups[i].Name == "" {
			d.Groups[i].Name = fmt.Sprintf("Group %d", i)
		}
	}
}

// Validate checks the whole dataset eagerly, tag rules first and then the
// cross-field rules the tags cannot express. A dataset that passes Validate
// never fails later in the engine, so a bad group can never produce a
// partial result set.
//
// Call EnsureDefaults first; Validate treats a zero alpha as out of range.
func (d *Dataset) Validate() error {
	if err := datasetValidate.Struct(d); err != nil {
		return fmt.Errorf("dataset validation failed: %w", err)
	}

	for i := range d.Groups {
		g := &d.Groups[i]
		switch d.AnalysisType {
		case AnalysisARPU:
			if err := g.validateARPU(); err != nil {
				return fmt.Errorf("groups[%d]: %w", i, err)
			}
		case AnalysisConversionRate:
			if err := g.validateRate(); err != nil {
				return fmt.Errorf("groups[%d]: %w", i, err)
			}
		}
	}
	return nil
}

func (g *Group) validateARPU() error {
	hasPriceCounts := len(g.PriceCounts) > 0
	hasAggregate := g.TotalRevenue != nil || g.ConversionCount != nil

	switch {
	case hasPriceCounts && hasAggregate:
		return fmt.Errorf("price_counts and total_revenue/conversion_count are mutually exclusive")
	case hasAggregate:
		if g.TotalRevenue == nil || g.ConversionCount == nil {
			return fmt.Errorf("total_revenue and conversion_count must be provided together")
		}
		if *g.ConversionCount > g.Users {
			return fmt.Errorf("conversion_count: %d conversions exceed %d users", *g.ConversionCount, g.Users)
		}
		if *g.ConversionCount == 0 && *g.TotalRevenue > 0 {
			return fmt.Errorf("total_revenue: %v revenue with zero conversions", *g.TotalRevenue)
		}
	case hasPriceCounts:
		total := 0
		for _, pc := range g.PriceCounts {
			total += pc.Count
		}
		if total > g.Users {
			return fmt.Errorf("price_counts: %d conversions exceed %d users", total, g.Users)
		}
	default:
		return fmt.Errorf("arpu groups need either price_counts or total_revenue with conversion_count")
	}
	return nil
}

func (g *Group) validateRate() error {
	if g.Conversions == nil {
		return fmt.Errorf("conversion rate groups need a conversions field")
	}
	if *g.Conversions > g.Users {
		return fmt.Errorf("conversions: %d conversions exceed %d users", *g.Conversions, g.Users)
	}
	return nil
}

// Revenues expands an ARPU group into the per-conversion revenue vector the
// engine consumes. Aggregated groups spread the total evenly; price-count
// groups repeat each price.
//
// Only meaningful after Validate has passed for an ARPU dataset.
func (g *Group) Revenues() []float64 {
	if g.TotalRevenue != nil && g.ConversionCount != nil {
		n := *g.ConversionCount
		if n == 0 {
			return nil
		}
		avg := *g.TotalRevenue / float64(n)
		revenues := make([]float64, n)
		for i := range revenues {
			revenues[i] = avg
		}
		return revenues
	}

	var revenues []float64
	for _, pc := range g.PriceCounts {
		for i := 0; i < pc.Count; i++ {
			revenues = append(revenues, pc.Price)
		}
	}
	return revenues
}
