// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package monkey

import "fmt"

// ParseError locates a problem in the troop description. Line and Column
// are 1-based; Column counts runes within the line.
type ParseError struct {
	Line   int
	Column int

	// Found is the offending text, or empty when a line or the input ended
	// too early.
	Found string
	// Expected lists what would have been accepted at this location.
	Expected []string
	// Msg is the human-readable summary.
	Msg string
	// Err is the underlying cause, e.g. an *expr.ParseError for a malformed
	// operation or ErrInvalidOperation for a wrongly shaped one.
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Summary())
}

// Summary is the error message without the location prefix.
func (e *ParseError) Summary() string {
	return e.Msg
}

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Location returns the 1-based line and column of the problem.
func (e *ParseError) Location() (int, int) {
	return e.Line, e.Column
}

// Unexpected returns the offending text.
func (e *ParseError) Unexpected() string {
	return e.Found
}

// ExpectedTokens returns what would have been accepted at the location.
func (e *ParseError) ExpectedTokens() []string {
	return e.Expected
}
