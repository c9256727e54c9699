// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"strings"
	"testing"
)

func withPersonality(t *testing.T, level PersonalityLevel) {
	t.Helper()
	prev := GetPersonality()
	SetPersonalityLevel(level)
	t.Cleanup(func() { SetPersonality(prev) })
}

func TestTableRender_Machine(t *testing.T) {
	withPersonality(t, PersonalityMachine)

	tbl := &Table{Headers: []string{"group", "users", "rate"}}
	tbl.AddRow("Control", "1000", "0.0730")
	tbl.AddRow("Treatment", "1000", "0.1260")

	got := tbl.Render()
	want := "group\tusers\trate\nControl\t1000\t0.0730\nTreatment\t1000\t0.1260"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestTableRender_AlignsColumns(t *testing.T) {
	withPersonality(t, PersonalityStandard)

	tbl := &Table{Headers: []string{"group", "rate"}}
	tbl.AddRow("A", "0.0730")
	tbl.AddRow("Treatment Group 1", "0.1260")

	lines := strings.Split(tbl.Render(), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want header, rule, and 2 rows", len(lines))
	}
	// Both data rows should place the rate column at the same offset.
	if strings.Index(lines[2], "0.0730") != strings.Index(lines[3], "0.1260") {
		t.Errorf("columns misaligned:\n%s", tbl.Render())
	}
}

func TestTableAddRow_PadsShortRows(t *testing.T) {
	tbl := &Table{Headers: []string{"a", "b", "c"}}
	tbl.AddRow("only")

	if len(tbl.Rows[0]) != 3 {
		t.Errorf("row has %d cells, want 3", len(tbl.Rows[0]))
	}
}

func TestTableRender_Empty(t *testing.T) {
	tbl := &Table{}
	if got := tbl.Render(); got != "" {
		t.Errorf("Render() = %q, want empty", got)
	}
}

func TestFloat4(t *testing.T) {
	if got := Float4(0.073); got != "0.0730" {
		t.Errorf("Float4(0.073) = %q", got)
	}
	if got := Float4(-0.0529999); got != "-0.0530" {
		t.Errorf("Float4(-0.0529999) = %q", got)
	}
}

func TestInterval(t *testing.T) {
	if got := Interval(0.056877, 0.089123); got != "[0.0569, 0.0891]" {
		t.Errorf("Interval = %q", got)
	}
}
