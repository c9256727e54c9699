// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package stats

import "fmt"

// InvalidInputError reports a parameter that is outside the domain of the
// requested computation. Field names the offending parameter, Reason says
// what was wrong with it.
//
// Callers that need to branch on the failure kind should use errors.As:
//
//	var invalid *stats.InvalidInputError
//	if errors.As(err, &invalid) {
//	    fmt.Println("bad field:", invalid.Field)
//	}
type InvalidInputError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

// invalidInput builds an *InvalidInputError with a formatted reason.
func invalidInput(field, format string, args ...any) *InvalidInputError {
	return &InvalidInputError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// validateAlpha rejects significance levels outside (0, 1).
func validateAlpha(alpha float64) error {
	if alpha <= 0 || alpha >= 1 {
		return invalidInput("alpha", "must be between 0 and 1, got %v", alpha)
	}
	return nil
}
