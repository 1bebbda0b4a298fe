// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package expr

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	expectPrimand = []string{"integer", "new", "old"}
	expectTail    = []string{"*", "+", "=", "end of input"}
)

// parser is a recursive-descent parser with a single token of lookahead.
type parser struct {
	lx  *lexer
	cur token
}

func newParser(src string) *parser {
	p := &parser{lx: newLexer(src)}
	p.advance()
	return p
}

func (p *parser) advance() {
	p.cur = p.lx.next()
}

// Parse turns one line of operation source into an expression tree. The
// whole input must be consumed; on failure the returned error is a
// *ParseError.
func Parse(src string) (Expr, error) {
	p := newParser(src)

	e, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	if p.cur.kind != tokEOF {
		return nil, p.unexpected(expectTail)
	}
	return e, nil
}

// MustParse is like Parse but panics on error. Intended for fixtures.
func MustParse(src string) Expr {
	e, err := Parse(src)
	if err != nil {
		panic(fmt.Sprintf("expr: MustParse(%q): %v", src, err))
	}
	return e
}

// parseAssignment := sum ("=" sum)*
func (p *parser) parseAssignment() (Expr, error) {
	lhs, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokAssign {
		p.advance()
		rhs, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		lhs = Assign{LHS: lhs, RHS: rhs}
	}
	return lhs, nil
}

// parseSum := product ("+" product)*
func (p *parser) parseSum() (Expr, error) {
	lhs, err := p.parseProduct()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokPlus {
		p.advance()
		rhs, err := p.parseProduct()
		if err != nil {
			return nil, err
		}
		lhs = Add{LHS: lhs, RHS: rhs}
	}
	return lhs, nil
}

// parseProduct := primand ("*" primand)*
func (p *parser) parseProduct() (Expr, error) {
	lhs, err := p.parsePrimand()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokStar {
		p.advance()
		rhs, err := p.parsePrimand()
		if err != nil {
			return nil, err
		}
		lhs = Mul{LHS: lhs, RHS: rhs}
	}
	return lhs, nil
}

// parsePrimand := "old" | "new" | <unsigned-integer>
func (p *parser) parsePrimand() (Expr, error) {
	tok := p.cur
	switch tok.kind {
	case tokOld:
		p.advance()
		return Old{}, nil
	case tokNew:
		p.advance()
		return New{}, nil
	case tokInt:
		v, err := strconv.ParseUint(tok.text, 10, 64)
		if err != nil {
			if errors.Is(err, strconv.ErrRange) {
				return nil, &ParseError{
					Pos:      tok.pos,
					Found:    tok.text,
					Expected: expectPrimand,
					Msg:      fmt.Sprintf("integer literal %s out of range", tok.text),
				}
			}
			// Unreachable: the lexer only emits ASCII digit runs.
			return nil, fmt.Errorf("internal error parsing literal %q: %w", tok.text, err)
		}
		p.advance()
		return Num{Value: v}, nil
	}
	return nil, p.unexpected(expectPrimand)
}

func (p *parser) unexpected(expected []string) *ParseError {
	return &ParseError{
		Pos:      p.cur.pos,
		Found:    p.cur.text,
		Expected: append([]string(nil), expected...),
	}
}
