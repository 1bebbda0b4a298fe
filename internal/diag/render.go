package diag

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Located is an error that knows where in the source it happened.
type Located interface {
	error
	// Location returns the 1-based line and rune column.
	Location() (line, column int)
	// Summary is the message without any location prefix.
	Summary() string
	// Unexpected is the offending text, empty at the end of a line or input.
	Unexpected() string
}

// expecter is implemented by located errors that carry an expected set.
type expecter interface {
	ExpectedTokens() []string
}

type styles struct {
	header   lipgloss.Style
	location lipgloss.Style
	gutter   lipgloss.Style
	caret    lipgloss.Style
	note     lipgloss.Style
}

// Renderer writes diagnostics for one output stream.
type Renderer struct {
	color  bool
	styles styles
}

// NewRenderer prepares a renderer for w. Colors follow mode.
func NewRenderer(w io.Writer, mode ColorMode) *Renderer {
	r := &Renderer{color: mode.Enabled(w)}
	if !r.color {
		return r
	}

	lr := lipgloss.NewRenderer(w)
	lr.SetColorProfile(termenv.ANSI256)
	r.styles = styles{
		header:   lr.NewStyle().Bold(true).Foreground(lipgloss.Color("#E74C3C")),
		location: lr.NewStyle().Foreground(lipgloss.Color("#20B9B4")),
		gutter:   lr.NewStyle().Foreground(lipgloss.Color("#2C4A54")),
		caret:    lr.NewStyle().Bold(true).Foreground(lipgloss.Color("#E74C3C")),
		note:     lr.NewStyle().Foreground(lipgloss.Color("#F4D03F")),
	}
	return r
}

func (r *Renderer) paint(s lipgloss.Style, text string) string {
	if !r.color {
		return text
	}
	return s.Render(text)
}

// Render writes err to w. Located errors are shown against src under the
// given file name; anything else is written as a single error line.
func (r *Renderer) Render(w io.Writer, filename, src string, err error) error {
	var loc Located
	if !errors.As(err, &loc) {
		_, werr := fmt.Fprintf(w, "%s %v\n", r.paint(r.styles.header, "error:"), err)
		return werr
	}

	line, col := loc.Location()
	text, ok := sourceLine(src, line)
	gutterWidth := len(strconv.Itoa(line))
	gutter := strings.Repeat(" ", gutterWidth)
	bar := r.paint(r.styles.gutter, "|")

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", r.paint(r.styles.header, "error:"), loc.Summary())
	fmt.Fprintf(&b, "%s %s %s\n", gutter, r.paint(r.styles.gutter, "-->"),
		r.paint(r.styles.location, fmt.Sprintf("%s:%d:%d", filename, line, col)))

	if ok {
		fmt.Fprintf(&b, "%s %s\n", gutter, bar)
		fmt.Fprintf(&b, "%s %s %s\n", r.paint(r.styles.gutter, strconv.Itoa(line)), bar, text)
		fmt.Fprintf(&b, "%s %s %s%s %s\n", gutter, bar, padding(text, col),
			r.paint(r.styles.caret, underline(loc.Unexpected())), label(loc.Unexpected()))
		fmt.Fprintf(&b, "%s %s\n", gutter, bar)
	}

	if ex, ok := loc.(expecter); ok && len(ex.ExpectedTokens()) > 0 {
		fmt.Fprintf(&b, "%s %s %s\n", gutter, r.paint(r.styles.note, "= expected:"), strings.Join(quoteAll(ex.ExpectedTokens()), ", "))
	}

	_, werr := io.WriteString(w, b.String())
	return werr
}

// sourceLine returns the 1-based line of src without its terminator.
func sourceLine(src string, line int) (string, bool) {
	if line < 1 {
		return "", false
	}
	lines := strings.Split(src, "\n")
	if line > len(lines) {
		return "", false
	}
	return strings.TrimSuffix(lines[line-1], "\r"), true
}

// padding reproduces the whitespace before column col so that tabs in the
// source line keep the caret aligned.
func padding(text string, col int) string {
	var b strings.Builder
	i := 1
	for _, r := range text {
		if i >= col {
			break
		}
		if r == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
		i++
	}
	for ; i < col; i++ {
		b.WriteByte(' ')
	}
	return b.String()
}

func underline(found string) string {
	n := utf8.RuneCountInString(found)
	if n < 1 {
		n = 1
	}
	return strings.Repeat("^", n)
}

func label(found string) string {
	if found == "" {
		return "unexpected end of input"
	}
	return fmt.Sprintf("unexpected token %q", found)
}

var bareTokens = map[string]bool{
	"integer":       true,
	"end of input":  true,
	"end of line":   true,
	"end of record": true,
}

func quoteAll(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		if bareTokens[t] {
			out[i] = t
		} else {
			out[i] = strconv.Quote(t)
		}
	}
	return out
}
