// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package experiment

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse_RateDatasetDefaults(t *testing.T) {
	ds, err := Parse([]byte(`{
		"analysis_type": "conversion_rate",
		"groups": [
			{"users": 1000, "conversions": 73},
			{"name": "variant", "users": 1000, "conversions": 126}
		]
	}`))
	require.NoError(t, err)

	if ds.Alpha != 0.05 {
		t.Errorf("Alpha = %v, want default 0.05", ds.Alpha)
	}
	if ds.Groups[0].Name != "Group 0" {
		t.Errorf("Groups[0].Name = %q, want %q", ds.Groups[0].Name, "Group 0")
	}
	if ds.Groups[1].Name != "variant" {
		t.Errorf("Groups[1].Name = %q, want %q", ds.Groups[1].Name, "variant")
	}
}

func TestParse_DefaultAnalysisTypeIsARPU(t *testing.T) {
	ds, err := Parse([]byte(`{
		"groups": [{"users": 100, "total_revenue": 50.0, "conversion_count": 5}]
	}`))
	require.NoError(t, err)
	if ds.AnalysisType != AnalysisARPU {
		t.Errorf("AnalysisType = %q, want %q", ds.AnalysisType, AnalysisARPU)
	}
}

func TestParse_InvalidDatasets(t *testing.T) {
	cases := []struct {
		name    string
		json    string
		wantSub string
	}{
		{
			name:    "not json",
			json:    `{"groups": [`,
			wantSub: "invalid JSON",
		},
		{
			name:    "no groups",
			json:    `{"analysis_type": "arpu", "groups": []}`,
			wantSub: "validation failed",
		},
		{
			name:    "bad analysis type",
			json:    `{"analysis_type": "bayesian", "groups": [{"users": 10, "conversions": 1}]}`,
			wantSub: "validation failed",
		},
		{
			name:    "alpha out of range",
			json:    `{"analysis_type": "conversion_rate", "alpha": 1.5, "groups": [{"users": 10, "conversions": 1}]}`,
			wantSub: "validation failed",
		},
		{
			name:    "conversions exceed users",
			json:    `{"analysis_type": "conversion_rate", "groups": [{"users": 10, "conversions": 11}]}`,
			wantSub: "groups[0]",
		},
		{
			name:    "rate group without conversions",
			json:    `{"analysis_type": "conversion_rate", "groups": [{"users": 10}]}`,
			wantSub: "groups[0]",
		},
		{
			name:    "arpu group without an encoding",
			json:    `{"analysis_type": "arpu", "groups": [{"users": 10}]}`,
			wantSub: "groups[0]",
		},
		{
			name: "both arpu encodings",
			json: `{"analysis_type": "arpu", "groups": [{
				"users": 100,
				"price_counts": [{"price": 9.99, "count": 3}],
				"total_revenue": 29.97, "conversion_count": 3
			}]}`,
			wantSub: "mutually exclusive",
		},
		{
			name:    "aggregate missing its other half",
			json:    `{"analysis_type": "arpu", "groups": [{"users": 100, "total_revenue": 29.97}]}`,
			wantSub: "together",
		},
		{
			name:    "negative price",
			json:    `{"analysis_type": "arpu", "groups": [{"users": 100, "price_counts": [{"price": -1, "count": 3}]}]}`,
			wantSub: "validation failed",
		},
		{
			name:    "revenue with zero conversions",
			json:    `{"analysis_type": "arpu", "groups": [{"users": 100, "total_revenue": 10, "conversion_count": 0}]}`,
			wantSub: "zero conversions",
		},
		{
			name:    "price count conversions exceed users",
			json:    `{"analysis_type": "arpu", "groups": [{"users": 5, "price_counts": [{"price": 9.99, "count": 6}]}]}`,
			wantSub: "exceed",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.json))
			if err == nil {
				t.Fatal("Parse succeeded, want error")
			}
			if !strings.Contains(err.Error(), tc.wantSub) {
				t.Errorf("error = %q, want it to mention %q", err, tc.wantSub)
			}
		})
	}
}

func TestGroupRevenues_PriceCounts(t *testing.T) {
	g := Group{
		Users: 815,
		PriceCounts: []PriceCount{
			{Price: 39.99, Count: 2},
			{Price: 49.99, Count: 1},
		},
	}

	revenues := g.Revenues()
	want := []float64{39.99, 39.99, 49.99}
	require.Equal(t, want, revenues)
}

func TestGroupRevenues_AggregateSpreadsEvenly(t *testing.T) {
	g := Group{
		Users:           1200,
		TotalRevenue:    floatPtr(2999.55),
		ConversionCount: intPtr(45),
	}

	revenues := g.Revenues()
	if len(revenues) != 45 {
		t.Fatalf("len(revenues) = %d, want 45", len(revenues))
	}
	var total float64
	for _, r := range revenues {
		if r != revenues[0] {
			t.Fatalf("revenues not uniform: %v vs %v", r, revenues[0])
		}
		total += r
	}
	if math.Abs(total-2999.55) > 1e-9 {
		t.Errorf("total = %v, want 2999.55", total)
	}
}

func TestGroupRevenues_ZeroConversions(t *testing.T) {
	g := Group{Users: 100, TotalRevenue: floatPtr(0), ConversionCount: intPtr(0)}
	if got := g.Revenues(); len(got) != 0 {
		t.Errorf("Revenues() = %v, want empty", got)
	}
}

func TestTemplate_RoundTrips(t *testing.T) {
	for _, at := range []AnalysisType{AnalysisARPU, AnalysisConversionRate} {
		t.Run(string(at), func(t *testing.T) {
			rendered, err := WriteTemplate(at, "")
			require.NoError(t, err)

			ds, err := Parse([]byte(rendered))
			require.NoError(t, err)
			if ds.AnalysisType != at {
				t.Errorf("AnalysisType = %q, want %q", ds.AnalysisType, at)
			}
			if len(ds.Groups) != 3 {
				t.Errorf("len(Groups) = %d, want 3", len(ds.Groups))
			}
		})
	}
}

func TestTemplate_ARPUShowsBothEncodings(t *testing.T) {
	tpl := Template(AnalysisARPU)
	require.Len(t, tpl.Groups, 3)

	if len(tpl.Groups[0].PriceCounts) == 0 {
		t.Error("first template group should use price_counts")
	}
	if tpl.Groups[2].TotalRevenue == nil || tpl.Groups[2].ConversionCount == nil {
		t.Error("last template group should use the aggregated encoding")
	}
}
