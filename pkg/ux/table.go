// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Table renders tabular results with styled headers and aligned columns.
// Machine personality degrades to tab-separated plain text so output stays
// parseable in pipes.
type Table struct {
	Headers []string
	Rows    [][]string
}

// AddRow appends one row. Short rows are padded with empty cells.
func (t *Table) AddRow(cells ...string) {
	for len(cells) < len(t.Headers) {
		cells = append(cells, "")
	}
	t.Rows = append(t.Rows, cells)
}

// Render returns the formatted table as a string without a trailing newline.
func (t *Table) Render() string {
	if len(t.Headers) == 0 {
		return ""
	}

	if GetPersonality().Level == PersonalityMachine {
		lines := make([]string, 0, len(t.Rows)+1)
		lines = append(lines, strings.Join(t.Headers, "\t"))
		for _, row := range t.Rows {
			lines = append(lines, strings.Join(row, "\t"))
		}
		return strings.Join(lines, "\n")
	}

	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	var b strings.Builder
	for i, h := range t.Headers {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(Styles.Subtitle.Bold(true).Render(pad(h, widths[i])))
	}
	b.WriteString("\n")
	for i, w := range widths {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(Styles.Muted.Render(strings.Repeat("─", w)))
	}
	for _, row := range t.Rows {
		b.WriteString("\n")
		for i, cell := range row {
			if i > 0 {
				b.WriteString("  ")
			}
			if i < len(widths) {
				b.WriteString(pad(cell, widths[i]))
			} else {
				b.WriteString(cell)
			}
		}
	}
	return b.String()
}

// Print writes the rendered table to stdout.
func (t *Table) Print() {
	fmt.Println(t.Render())
}

// pad right-pads s with spaces to the given display width. lipgloss.Width
// ignores ANSI sequences, so styled cells align correctly.
func pad(s string, width int) string {
	gap := width - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}

// Float4 formats a statistic to four decimals, the house precision for
// rates and z-scores.
func Float4(v float64) string {
	return fmt.Sprintf("%.4f", v)
}

// Interval formats a confidence interval.
func Interval(lower, upper float64) string {
	return fmt.Sprintf("[%.4f, %.4f]", lower, upper)
}
