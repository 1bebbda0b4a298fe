// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the expression tree. Every node type implements the
// sealed Expr interface, so a type switch over the six node kinds is
// exhaustive for any tree built inside or outside this package.
package expr

import "strconv"

// Expr is a node of an operation expression tree.
type Expr interface {
	// String renders the node back to source form. For any tree returned by
	// Parse the rendered text parses back into an identical tree.
	String() string
	exprNode()
}

// Num is an unsigned integer literal.
type Num struct {
	Value uint64
}

// Add is the sum of two sub-expressions.
type Add struct {
	LHS, RHS Expr
}

// Mul is the product of two sub-expressions.
type Mul struct {
	LHS, RHS Expr
}

// Assign is `LHS = RHS`. Only `new = <expr>` is meaningful.
type Assign struct {
	LHS, RHS Expr
}

// Old refers to the worry value currently being processed.
type Old struct{}

// New is the assignment target placeholder.
type New struct{}

func (Num) exprNode()    {}
func (Add) exprNode()    {}
func (Mul) exprNode()    {}
func (Assign) exprNode() {}
func (Old) exprNode()    {}
func (New) exprNode()    {}

func (n Num) String() string    { return strconv.FormatUint(n.Value, 10) }
func (n Add) String() string    { return n.LHS.String() + " + " + n.RHS.String() }
func (n Mul) String() string    { return n.LHS.String() + " * " + n.RHS.String() }
func (n Assign) String() string { return n.LHS.String() + " = " + n.RHS.String() }
func (Old) String() string      { return "old" }
func (New) String() string      { return "new" }

// Walk visits e and its descendants depth-first, left to right. If fn
// returns false the children of that node are skipped.
func Walk(e Expr, fn func(Expr) bool) {
	if e == nil || !fn(e) {
		return
	}
	switch n := e.(type) {
	case Add:
		Walk(n.LHS, fn)
		Walk(n.RHS, fn)
	case Mul:
		Walk(n.LHS, fn)
		Walk(n.RHS, fn)
	case Assign:
		Walk(n.LHS, fn)
		Walk(n.RHS, fn)
	}
}

// Contains reports whether any node of e satisfies pred.
func Contains(e Expr, pred func(Expr) bool) bool {
	found := false
	Walk(e, func(n Expr) bool {
		if found {
			return false
		}
		if pred(n) {
			found = true
			return false
		}
		return true
	})
	return found
}

// IsNew reports whether e is the `new` placeholder.
func IsNew(e Expr) bool {
	_, ok := e.(New)
	return ok
}

// IsAssign reports whether e is an assignment node.
func IsAssign(e Expr) bool {
	_, ok := e.(Assign)
	return ok
}
