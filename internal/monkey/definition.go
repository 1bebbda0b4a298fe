// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package monkey

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/specialistvlad/keepaway/internal/expr"
)

// ErrInvalidOperation is wrapped by every operation shape error.
var ErrInvalidOperation = errors.New("invalid operation")

// Outcome is the result of a monkey's divisibility test.
type Outcome int

const (
	// OutcomeFalse selects the `If false` branch.
	OutcomeFalse Outcome = iota
	// OutcomeTrue selects the `If true` branch.
	OutcomeTrue
)

func (o Outcome) String() string {
	if o == OutcomeTrue {
		return "true"
	}
	return "false"
}

// OutcomeOf maps a boolean test result to its Outcome.
func OutcomeOf(divisible bool) Outcome {
	if divisible {
		return OutcomeTrue
	}
	return OutcomeFalse
}

// Definition is one parsed monkey record. It is never modified after
// Parse returns it; the simulation copies what it needs to mutate.
type Definition struct {
	ID            int
	StartingItems []uint64
	Operation     Operation
	Divisor       uint64
	IfTrue        int
	IfFalse       int

	// Line is the 1-based line of the record header in the source.
	Line int
}

// Target returns the monkey that receives an item for the given outcome.
func (d Definition) Target(o Outcome) int {
	if o == OutcomeTrue {
		return d.IfTrue
	}
	return d.IfFalse
}

func (d Definition) String() string {
	return fmt.Sprintf("Monkey %d: items=%v op=%q divisible_by=%d true->%d false->%d",
		d.ID, d.StartingItems, d.Operation.String(), d.Divisor, d.IfTrue, d.IfFalse)
}

// Operation is the validated right-hand side of `new = <expr>`. The zero
// value has no expression and must not be applied.
type Operation struct {
	rhs expr.Expr
}

// NewOperation narrows a parsed operation expression. It accepts
// `new = <expr>` and a bare `<expr>`, and rejects any other assignment as
// well as `new` used as a value.
func NewOperation(e expr.Expr) (Operation, error) {
	if e == nil {
		return Operation{}, fmt.Errorf("%w: empty expression", ErrInvalidOperation)
	}

	rhs := e
	if a, ok := e.(expr.Assign); ok {
		if !expr.IsNew(a.LHS) {
			return Operation{}, fmt.Errorf("%w: assignment target must be new, got %q", ErrInvalidOperation, a.LHS.String())
		}
		rhs = a.RHS
	}

	if expr.Contains(rhs, expr.IsAssign) {
		return Operation{}, fmt.Errorf("%w: only one assignment is allowed", ErrInvalidOperation)
	}
	if expr.Contains(rhs, expr.IsNew) {
		return Operation{}, fmt.Errorf("%w: new may only appear as the assignment target", ErrInvalidOperation)
	}
	return Operation{rhs: rhs}, nil
}

// MustOperation is like NewOperation over source text but panics on error.
func MustOperation(src string) Operation {
	op, err := NewOperation(expr.MustParse(src))
	if err != nil {
		panic(err)
	}
	return op
}

// Apply computes the new worry value for old.
func (o Operation) Apply(old *big.Int) *big.Int {
	return expr.Eval(o.rhs, old)
}

// Expr returns the right-hand side expression.
func (o Operation) Expr() expr.Expr {
	return o.rhs
}

// IsZero reports whether o was never initialised.
func (o Operation) IsZero() bool {
	return o.rhs == nil
}

func (o Operation) String() string {
	if o.rhs == nil {
		return ""
	}
	return "new = " + o.rhs.String()
}
