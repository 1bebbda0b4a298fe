// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package monkey turns the troop description file into immutable
// Definitions, one per `Monkey <id>:` record.
//
// # Record format
//
//	Monkey 0:
//	  Starting items: 79, 98
//	  Operation: new = old * 19
//	  Test: divisible by 23
//	    If true: throw to monkey 2
//	    If false: throw to monkey 3
//
// Records are separated by blank lines. Inside a record the three fields
// appear exactly once and in this order; the two `If` lines follow the test
// in either order. Indentation is not significant.
//
// # Why narrow the operation?
//
// The expression parser accepts a general tree so that every syntax error is
// reported the same way. A monkey only ever needs the right-hand side of
// `new = <expr>`, so NewOperation validates the shape once, at parse time,
// and stores just that side. The simulation can then apply an Operation
// without ever meeting a tree the interpreter refuses to evaluate.
package monkey
