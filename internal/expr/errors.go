// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package expr

import (
	"fmt"
	"strings"
)

// Pos is a location in expression source. Offset is in bytes; Line and
// Column are 1-based, Column counts runes.
type Pos struct {
	Offset int
	Line   int
	Column int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// ParseError describes the first token the parser could not accept.
type ParseError struct {
	Pos Pos
	// Found is the offending token text, or empty at end of input.
	Found string
	// Expected lists the tokens that would have been accepted, sorted.
	Expected []string
	// Msg replaces the generated summary when the token itself was
	// well-formed but unusable (an out-of-range literal, for instance).
	Msg string
}

func (e *ParseError) Error() string {
	return e.Pos.String() + ": " + e.Summary()
}

// Summary is the error message without the position prefix.
func (e *ParseError) Summary() string {
	if e.Msg != "" {
		return e.Msg
	}
	var b strings.Builder
	if e.Found == "" {
		b.WriteString("unexpected end of input")
	} else {
		fmt.Fprintf(&b, "unexpected token %q", e.Found)
	}
	b.WriteString(", expected ")
	if len(e.Expected) == 0 {
		b.WriteString("something else")
	} else {
		b.WriteString(strings.Join(e.Expected, ", "))
	}
	return b.String()
}

// Location returns the 1-based line and column of the offending token.
func (e *ParseError) Location() (int, int) {
	return e.Pos.Line, e.Pos.Column
}

// Unexpected returns the offending token text.
func (e *ParseError) Unexpected() string {
	return e.Found
}

// ExpectedTokens returns the tokens that would have been accepted.
func (e *ParseError) ExpectedTokens() []string {
	return e.Expected
}

// InvariantError is the panic value raised by Eval for trees the parser
// can never produce in an operation position.
type InvariantError struct {
	Node   Expr
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("expr: invariant violated: %s in %q", e.Reason, e.Node.String())
}
