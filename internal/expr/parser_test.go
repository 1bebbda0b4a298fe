package expr

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name     string
		src      string
		expected Expr
	}{
		{
			name:     "literal",
			src:      "42",
			expected: Num{Value: 42},
		},
		{
			name:     "old keyword",
			src:      "old",
			expected: Old{},
		},
		{
			name:     "assignment with product",
			src:      "new = old * 19",
			expected: Assign{LHS: New{}, RHS: Mul{LHS: Old{}, RHS: Num{Value: 19}}},
		},
		{
			name:     "assignment with square",
			src:      "new = old * old",
			expected: Assign{LHS: New{}, RHS: Mul{LHS: Old{}, RHS: Old{}}},
		},
		{
			name: "product binds tighter than sum",
			src:  "2 + 3 * 4",
			expected: Add{
				LHS: Num{Value: 2},
				RHS: Mul{LHS: Num{Value: 3}, RHS: Num{Value: 4}},
			},
		},
		{
			name: "sum folds left",
			src:  "1 + 2 + 3",
			expected: Add{
				LHS: Add{LHS: Num{Value: 1}, RHS: Num{Value: 2}},
				RHS: Num{Value: 3},
			},
		},
		{
			name: "product folds left",
			src:  "old * 2 * 3",
			expected: Mul{
				LHS: Mul{LHS: Old{}, RHS: Num{Value: 2}},
				RHS: Num{Value: 3},
			},
		},
		{
			name: "assignment folds left",
			src:  "new = old = 1",
			expected: Assign{
				LHS: Assign{LHS: New{}, RHS: Old{}},
				RHS: Num{Value: 1},
			},
		},
		{
			name:     "whitespace is insignificant",
			src:      " \tnew=old+\t6  ",
			expected: Assign{LHS: New{}, RHS: Add{LHS: Old{}, RHS: Num{Value: 6}}},
		},
		{
			name:     "max uint64 literal",
			src:      "18446744073709551615",
			expected: Num{Value: 18446744073709551615},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.src)
			require.NoError(t, err)
			if diff := cmp.Diff(tc.expected, got); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tc.src, diff)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	testCases := []struct {
		name     string
		src      string
		found    string
		column   int
		expected []string
		summary  string
	}{
		{
			name:     "empty input",
			src:      "",
			found:    "",
			column:   1,
			expected: expectPrimand,
			summary:  "unexpected end of input, expected integer, new, old",
		},
		{
			name:     "dangling operator",
			src:      "new = old *",
			found:    "",
			column:   12,
			expected: expectPrimand,
		},
		{
			name:     "unrecognized operator",
			src:      "new = old - 3",
			found:    "-",
			column:   11,
			expected: expectTail,
			summary:  `unexpected token "-", expected *, +, =, end of input`,
		},
		{
			name:     "identifier that is not a keyword",
			src:      "new = older",
			found:    "older",
			column:   7,
			expected: expectPrimand,
		},
		{
			name:     "newline is not whitespace",
			src:      "old\n+ 1",
			found:    "\n",
			column:   4,
			expected: expectTail,
		},
		{
			name:     "two primands in a row",
			src:      "old 3",
			found:    "3",
			column:   5,
			expected: expectTail,
		},
		{
			name:     "operator where primand expected",
			src:      "* 3",
			found:    "*",
			column:   1,
			expected: expectPrimand,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.src)
			require.Error(t, err)

			var perr *ParseError
			require.True(t, errors.As(err, &perr), "expected *ParseError, got %T", err)
			assert.Equal(t, tc.found, perr.Found)
			assert.Equal(t, 1, perr.Pos.Line)
			assert.Equal(t, tc.column, perr.Pos.Column)
			assert.Equal(t, tc.expected, perr.Expected)
			if tc.summary != "" {
				assert.Equal(t, tc.summary, perr.Summary())
			}
		})
	}
}

func TestParse_LiteralOutOfRange(t *testing.T) {
	_, err := Parse("new = old * 18446744073709551616")

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "18446744073709551616", perr.Found)
	assert.Equal(t, 13, perr.Pos.Column)
	assert.Contains(t, perr.Error(), "out of range")
}

func TestString_RoundTrip(t *testing.T) {
	sources := []string{
		"new = old * 19",
		"new = old + 6",
		"new = old * old",
		"2 + 3 * 4",
		"old * 2 + old * 3 + 1",
		"new   =  old+old*old",
	}

	for _, src := range sources {
		t.Run(src, func(t *testing.T) {
			first, err := Parse(src)
			require.NoError(t, err)

			second, err := Parse(first.String())
			require.NoError(t, err)
			assert.Equal(t, first, second, "re-parsed tree differs, rendered as %q", first.String())
		})
	}
}

func TestMustParse_Panics(t *testing.T) {
	assert.Panics(t, func() { MustParse("new = ") })
	assert.NotPanics(t, func() { MustParse("new = old") })
}
