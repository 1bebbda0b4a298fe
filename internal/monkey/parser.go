// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package monkey

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/specialistvlad/keepaway/internal/expr"
)

type field int

const (
	fieldItems field = iota
	fieldOperation
	fieldTest
	fieldCount
)

var fieldLabels = [fieldCount]string{
	fieldItems:     "Starting items:",
	fieldOperation: "Operation:",
	fieldTest:      "Test:",
}

const (
	headerKeyword = "Monkey"
	branchKeyword = "If"
	throwPhrase   = "throw to monkey"
	testPhrase    = "divisible by"
)

// idBits keeps monkey identifiers inside a non-negative int on every platform.
const idBits = 31

// parser walks the input record by record.
type parser struct {
	lines []srcLine
	idx   int
}

// Parse reads every monkey record in src, in order of appearance. The first
// problem aborts parsing and is returned as a *ParseError.
func Parse(src string) ([]Definition, error) {
	p := &parser{lines: splitLines(src)}

	defs := []Definition{}
	for p.skipBlank() {
		def, err := p.parseRecord()
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// skipBlank advances past blank lines and reports whether input remains.
func (p *parser) skipBlank() bool {
	for p.idx < len(p.lines) && isBlank(p.lines[p.idx].text) {
		p.idx++
	}
	return p.idx < len(p.lines)
}

func (p *parser) parseRecord() (Definition, error) {
	header := p.lines[p.idx]
	p.idx++

	id, err := parseHeader(header)
	if err != nil {
		return Definition{}, err
	}

	def := Definition{ID: id, Line: header.num}
	var (
		seen     [fieldCount]bool
		branches [2]bool // indexed by Outcome
		next     = fieldItems
		last     = header
	)

	for ; p.idx < len(p.lines); p.idx++ {
		ln := p.lines[p.idx]
		if isBlank(ln.text) {
			break
		}

		sc := newScanner(ln)
		sc.skipSpace()
		rest := sc.rest()
		if strings.HasPrefix(rest, headerKeyword) {
			// The next record starts without a separating blank line.
			break
		}
		last = ln

		if strings.HasPrefix(rest, branchKeyword) {
			if !seen[fieldTest] {
				return Definition{}, sc.errorf(sc.token(), []string{fieldLabels[next]},
					"monkey %d: branch line before the %q field", id, fieldLabels[fieldTest])
			}
			outcome, target, err := parseBranch(sc)
			if err != nil {
				return Definition{}, err
			}
			if branches[outcome] {
				return Definition{}, &ParseError{
					Line:   ln.num,
					Column: 1 + leadingBlanks(ln.text),
					Found:  strings.TrimSpace(ln.text),
					Msg:    fmt.Sprintf("monkey %d: duplicate %q branch", id, branchLabel(outcome)),
				}
			}
			branches[outcome] = true
			if outcome == OutcomeTrue {
				def.IfTrue = target
			} else {
				def.IfFalse = target
			}
			continue
		}

		f, ok := classify(rest)
		if !ok {
			return Definition{}, sc.errorf(sc.token(), expectedAfter(next, branches),
				"monkey %d: unknown line %q", id, strings.TrimSpace(rest))
		}
		if seen[f] {
			return Definition{}, sc.errorf(fieldLabels[f], expectedAfter(next, branches),
				"monkey %d: duplicate %q field", id, fieldLabels[f])
		}
		if f != next {
			return Definition{}, sc.errorf(fieldLabels[f], []string{fieldLabels[next]},
				"monkey %d: missing %q field before %q", id, fieldLabels[next], fieldLabels[f])
		}

		switch f {
		case fieldItems:
			def.StartingItems, err = parseItems(sc)
		case fieldOperation:
			def.Operation, err = parseOperation(sc)
		case fieldTest:
			def.Divisor, err = parseTest(sc)
		}
		if err != nil {
			return Definition{}, err
		}
		seen[f] = true
		next = f + 1
	}

	if next < fieldCount || !branches[OutcomeTrue] || !branches[OutcomeFalse] {
		expected := expectedAfter(next, branches)
		what := fmt.Sprintf("%q field", expected[0])
		if next == fieldCount {
			what = fmt.Sprintf("%q branch in the test block", expected[0])
		}
		return Definition{}, &ParseError{
			Line:     last.num,
			Column:   utf8.RuneCountInString(last.text) + 1,
			Expected: expected,
			Msg:      fmt.Sprintf("monkey %d: missing %s", id, what),
		}
	}
	return def, nil
}

// expectedAfter lists what may follow once the fields before next and the
// given branches have been read.
func expectedAfter(next field, branches [2]bool) []string {
	if next < fieldCount {
		return []string{fieldLabels[next]}
	}
	var expected []string
	for _, o := range []Outcome{OutcomeTrue, OutcomeFalse} {
		if !branches[o] {
			expected = append(expected, branchLabel(o))
		}
	}
	if len(expected) == 0 {
		expected = append(expected, "end of record")
	}
	return expected
}

func branchLabel(o Outcome) string {
	return branchKeyword + " " + o.String() + ":"
}

func classify(rest string) (field, bool) {
	for f, label := range fieldLabels {
		if strings.HasPrefix(rest, label) {
			return field(f), true
		}
	}
	return 0, false
}

func leadingBlanks(text string) int {
	return len(text) - len(strings.TrimLeft(text, " \t"))
}

// parseHeader reads `Monkey <id>:`.
func parseHeader(ln srcLine) (int, error) {
	sc := newScanner(ln)
	sc.skipSpace()
	if err := sc.literal(headerKeyword); err != nil {
		return 0, err
	}
	sc.skipSpace()
	id, err := sc.uint(idBits)
	if err != nil {
		return 0, err
	}
	if err := sc.literal(":"); err != nil {
		return 0, err
	}
	if err := sc.end(); err != nil {
		return 0, err
	}
	return int(id), nil
}

// parseItems reads `Starting items: <int>, <int>, ...`. The list may be empty.
func parseItems(sc *scanner) ([]uint64, error) {
	if err := sc.literal(fieldLabels[fieldItems]); err != nil {
		return nil, err
	}
	items := []uint64{}
	sc.skipSpace()
	if sc.atEnd() {
		return items, nil
	}
	for {
		v, err := sc.uint(64)
		if err != nil {
			return nil, err
		}
		items = append(items, v)

		sc.skipSpace()
		if sc.atEnd() {
			return items, nil
		}
		if !sc.consume(",") {
			return nil, sc.unexpected(",", "end of line")
		}
		sc.skipSpace()
	}
}

// parseOperation reads `Operation: <expr>` and narrows the expression.
func parseOperation(sc *scanner) (Operation, error) {
	if err := sc.literal(fieldLabels[fieldOperation]); err != nil {
		return Operation{}, err
	}
	sc.skipSpace()
	startCol := sc.col()
	src := sc.rest()

	e, err := expr.Parse(src)
	if err != nil {
		var perr *expr.ParseError
		if !errors.As(err, &perr) {
			return Operation{}, err
		}
		return Operation{}, &ParseError{
			Line:     sc.line.num,
			Column:   startCol + perr.Pos.Column - 1,
			Found:    perr.Found,
			Expected: perr.Expected,
			Msg:      "malformed operation: " + perr.Summary(),
			Err:      perr,
		}
	}

	op, err := NewOperation(e)
	if err != nil {
		return Operation{}, &ParseError{
			Line:   sc.line.num,
			Column: startCol,
			Found:  strings.TrimRight(src, " \t"),
			Msg:    err.Error(),
			Err:    err,
		}
	}
	return op, nil
}

// parseTest reads `Test: divisible by <int>`.
func parseTest(sc *scanner) (uint64, error) {
	if err := sc.literal(fieldLabels[fieldTest]); err != nil {
		return 0, err
	}
	sc.skipSpace()
	if err := sc.literal(testPhrase); err != nil {
		return 0, err
	}
	sc.skipSpace()
	col := sc.col()
	divisor, err := sc.uint(64)
	if err != nil {
		return 0, err
	}
	if divisor == 0 {
		return 0, &ParseError{
			Line:     sc.line.num,
			Column:   col,
			Found:    "0",
			Expected: []string{"integer"},
			Msg:      "divisor must be positive",
		}
	}
	if err := sc.end(); err != nil {
		return 0, err
	}
	return divisor, nil
}

// parseBranch reads `If <true|false>: throw to monkey <id>`.
func parseBranch(sc *scanner) (Outcome, int, error) {
	if err := sc.literal(branchKeyword); err != nil {
		return 0, 0, err
	}
	sc.skipSpace()

	var outcome Outcome
	switch {
	case sc.consume("true"):
		outcome = OutcomeTrue
	case sc.consume("false"):
		outcome = OutcomeFalse
	default:
		return 0, 0, sc.unexpected("true", "false")
	}
	if err := sc.literal(":"); err != nil {
		return 0, 0, err
	}
	sc.skipSpace()
	if err := sc.literal(throwPhrase); err != nil {
		return 0, 0, err
	}
	sc.skipSpace()
	target, err := sc.uint(idBits)
	if err != nil {
		return 0, 0, err
	}
	if err := sc.end(); err != nil {
		return 0, 0, err
	}
	return outcome, int(target), nil
}
