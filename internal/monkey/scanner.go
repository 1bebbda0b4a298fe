// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package monkey

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// srcLine is one line of input without its terminator.
type srcLine struct {
	num  int
	text string
}

func splitLines(src string) []srcLine {
	raw := strings.Split(src, "\n")
	lines := make([]srcLine, 0, len(raw))
	for i, text := range raw {
		lines = append(lines, srcLine{num: i + 1, text: strings.TrimSuffix(text, "\r")})
	}
	return lines
}

func isBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}

// scanner walks a single line and produces located errors.
type scanner struct {
	line srcLine
	off  int // byte offset into line.text
}

func newScanner(ln srcLine) *scanner {
	return &scanner{line: ln}
}

func (s *scanner) col() int {
	return utf8.RuneCountInString(s.line.text[:s.off]) + 1
}

func (s *scanner) rest() string {
	return s.line.text[s.off:]
}

func (s *scanner) atEnd() bool {
	return s.off >= len(s.line.text)
}

func (s *scanner) skipSpace() {
	for s.off < len(s.line.text) && (s.line.text[s.off] == ' ' || s.line.text[s.off] == '\t') {
		s.off++
	}
}

// token returns the run of non-blank text at the cursor without consuming it.
func (s *scanner) token() string {
	rest := s.rest()
	if i := strings.IndexAny(rest, " \t"); i >= 0 {
		return rest[:i]
	}
	return rest
}

func (s *scanner) errorf(found string, expected []string, format string, args ...any) *ParseError {
	return &ParseError{
		Line:     s.line.num,
		Column:   s.col(),
		Found:    found,
		Expected: expected,
		Msg:      fmt.Sprintf(format, args...),
	}
}

// unexpected reports the token at the cursor together with what was wanted.
func (s *scanner) unexpected(expected ...string) *ParseError {
	found := s.token()

	var b strings.Builder
	if found == "" {
		b.WriteString("unexpected end of line")
	} else {
		fmt.Fprintf(&b, "unexpected token %q", found)
	}
	b.WriteString(", expected ")
	for i, e := range expected {
		if i > 0 {
			b.WriteString(", ")
		}
		if e == "end of line" || e == "integer" {
			b.WriteString(e)
		} else {
			fmt.Fprintf(&b, "%q", e)
		}
	}
	return s.errorf(found, expected, "%s", b.String())
}

// consume advances past lit if it is next.
func (s *scanner) consume(lit string) bool {
	if strings.HasPrefix(s.rest(), lit) {
		s.off += len(lit)
		return true
	}
	return false
}

func (s *scanner) literal(lit string) error {
	if s.consume(lit) {
		return nil
	}
	return s.unexpected(lit)
}

// uint reads an unsigned decimal integer that fits in bits.
func (s *scanner) uint(bits int) (uint64, error) {
	start := s.off
	text := s.line.text
	for s.off < len(text) && text[s.off] >= '0' && text[s.off] <= '9' {
		s.off++
	}
	if s.off == start {
		return 0, s.unexpected("integer")
	}

	digits := text[start:s.off]
	if s.off < len(text) && isWordByte(text[s.off]) {
		s.off = start
		tok := s.token()
		return 0, s.errorf(tok, []string{"integer"}, "malformed integer %q", tok)
	}

	v, err := strconv.ParseUint(digits, 10, bits)
	if err != nil {
		s.off = start
		return 0, s.errorf(digits, []string{"integer"}, "malformed integer %q: out of range", digits)
	}
	return v, nil
}

// end requires that only blanks remain on the line.
func (s *scanner) end() error {
	s.skipSpace()
	if !s.atEnd() {
		return s.unexpected("end of line")
	}
	return nil
}

func isWordByte(c byte) bool {
	return c == '_' || c == '.' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
