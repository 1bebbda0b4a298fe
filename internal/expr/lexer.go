// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package expr

import (
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokIllegal tokenKind = iota
	tokEOF
	tokOld
	tokNew
	tokInt
	tokStar
	tokPlus
	tokAssign
)

// token is a single lexeme with the position of its first rune.
type token struct {
	kind tokenKind
	text string
	pos  Pos
}

// lexer splits one line of operation source into tokens. It never fails;
// anything it does not understand becomes a tokIllegal for the parser to
// report with the right expectation set.
type lexer struct {
	src    string
	offset int // byte offset of the next unread rune
	line   int
	column int // column of the next unread rune, 1-based
}

func newLexer(src string) *lexer {
	return &lexer{src: src, line: 1, column: 1}
}

func (l *lexer) peek() (rune, int) {
	if l.offset >= len(l.src) {
		return 0, 0
	}
	return utf8.DecodeRuneInString(l.src[l.offset:])
}

func (l *lexer) advance(width int) {
	l.offset += width
	l.column++
}

func (l *lexer) here() Pos {
	return Pos{Offset: l.offset, Line: l.line, Column: l.column}
}

// next returns the next token, skipping spaces and tabs.
func (l *lexer) next() token {
	for {
		r, w := l.peek()
		if w == 0 || (r != ' ' && r != '\t') {
			break
		}
		l.advance(w)
	}

	start := l.here()
	r, w := l.peek()
	if w == 0 {
		return token{kind: tokEOF, pos: start}
	}

	switch {
	case r == '*':
		l.advance(w)
		return token{kind: tokStar, text: "*", pos: start}
	case r == '+':
		l.advance(w)
		return token{kind: tokPlus, text: "+", pos: start}
	case r == '=':
		l.advance(w)
		return token{kind: tokAssign, text: "=", pos: start}
	case r >= '0' && r <= '9':
		for {
			r, w = l.peek()
			if w == 0 || r < '0' || r > '9' {
				break
			}
			l.advance(w)
		}
		return token{kind: tokInt, text: l.src[start.Offset:l.offset], pos: start}
	case isWordRune(r):
		for {
			r, w = l.peek()
			if w == 0 || !(isWordRune(r) || unicode.IsDigit(r)) {
				break
			}
			l.advance(w)
		}
		word := l.src[start.Offset:l.offset]
		switch word {
		case "old":
			return token{kind: tokOld, text: word, pos: start}
		case "new":
			return token{kind: tokNew, text: word, pos: start}
		}
		return token{kind: tokIllegal, text: word, pos: start}
	}

	l.advance(w)
	return token{kind: tokIllegal, text: string(r), pos: start}
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}
