// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package expr

import (
	"fmt"
	"math/big"
)

// Eval computes e for the given input value. The result is always a fresh
// *big.Int; old is never modified.
//
// Eval panics with *InvariantError when it meets `new` outside the target
// of an assignment, or an assignment whose target is not `new`.
func Eval(e Expr, old *big.Int) *big.Int {
	switch n := e.(type) {
	case Num:
		return new(big.Int).SetUint64(n.Value)
	case Add:
		return new(big.Int).Add(Eval(n.LHS, old), Eval(n.RHS, old))
	case Mul:
		return new(big.Int).Mul(Eval(n.LHS, old), Eval(n.RHS, old))
	case Old:
		return new(big.Int).Set(old)
	case Assign:
		if !IsNew(n.LHS) {
			panic(&InvariantError{Node: n, Reason: "assignment target is not new"})
		}
		return Eval(n.RHS, old)
	case New:
		panic(&InvariantError{Node: n, Reason: "new evaluated outside an assignment target"})
	}
	panic(fmt.Sprintf("expr: unknown node type %T", e))
}
