// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"testing"
)

func TestParsePersonalityLevel(t *testing.T) {
	cases := []struct {
		input string
		want  PersonalityLevel
	}{
		{"full", PersonalityFull},
		{"f", PersonalityFull},
		{"standard", PersonalityStandard},
		{"STD", PersonalityStandard},
		{"minimal", PersonalityMinimal},
		{"machine", PersonalityMachine},
		{"quiet", PersonalityMachine},
		{"q", PersonalityMachine},
		{"nonsense", PersonalityStandard},
		{"", PersonalityStandard},
	}
	for _, tc := range cases {
		if got := ParsePersonalityLevel(tc.input); got != tc.want {
			t.Errorf("ParsePersonalityLevel(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestSetPersonalityLevel(t *testing.T) {
	withPersonality(t, PersonalityMinimal)

	if got := GetPersonality().Level; got != PersonalityMinimal {
		t.Errorf("Level = %q, want minimal", got)
	}

	SetPersonalityLevel(PersonalityMachine)
	if got := GetPersonality().Level; got != PersonalityMachine {
		t.Errorf("Level = %q, want machine", got)
	}
}

func TestInitPersonality_EnvOverride(t *testing.T) {
	withPersonality(t, PersonalityFull)
	t.Setenv("SPLITSIG_PERSONALITY", "machine")

	InitPersonality()

	if got := GetPersonality().Level; got != PersonalityMachine {
		t.Errorf("Level = %q, want machine from env", got)
	}
}

func TestShouldShowColors(t *testing.T) {
	withPersonality(t, PersonalityMachine)
	if ShouldShowColors() {
		t.Error("ShouldShowColors() = true under machine personality")
	}

	SetPersonalityLevel(PersonalityFull)
	if !ShouldShowColors() {
		t.Error("ShouldShowColors() = false under full personality")
	}
}

func TestIconRender_UnstyledPassthrough(t *testing.T) {
	if got := IconArrow.Render(); got != string(IconArrow) {
		t.Errorf("IconArrow.Render() = %q, want passthrough", got)
	}
}
