// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package expr implements the small arithmetic language used by the
// `Operation:` line of a monkey record, e.g. `new = old * 19`.
//
// # Grammar
//
// From the tightest binding to the loosest:
//
//	primand    := "old" | "new" | <unsigned-integer>
//	product    := primand ("*" primand)*
//	sum        := product ("+" product)*
//	assignment := sum ("=" sum)*
//
// Every repetition folds to the left, so `1 + 2 + 3` is `Add(Add(1, 2), 3)`.
// Spaces and tabs between tokens are ignored. Line breaks are not part of
// the language; an expression always lives on a single line.
//
// # Evaluation
//
// Eval reduces a tree to a *big.Int. Worry values grow without bound when no
// relief is applied, so fixed-width integers would silently wrap after a few
// hundred rounds.
//
// The `new` keyword only makes sense as the target of the single top-level
// assignment. Trees that use it anywhere else are rejected by callers before
// evaluation; Eval itself treats them as an InvariantError panic because a
// well-formed parser never hands such a tree to the interpreter.
package expr
