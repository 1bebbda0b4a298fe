package app

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/specialistvlad/keepaway/internal/report"
	"github.com/specialistvlad/keepaway/internal/simulation"
	"github.com/specialistvlad/keepaway/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runApp executes a full run over src and returns stdout, stderr and the error.
func runApp(t *testing.T, src string, mutate func(*Config)) (*App, string, string, error) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.InputPath = testutil.WriteFile(t, "troop.txt", src)
	cfg.Color = "never"
	if mutate != nil {
		mutate(&cfg)
	}
	validated, err := NewConfig(cfg)
	require.NoError(t, err)

	var outW, errW testutil.SafeBuffer
	a := NewApp(&outW, &errW, validated)
	runErr := a.Run(context.Background())
	return a, outW.String(), errW.String(), runErr
}

func TestRun_CanonicalTroopWithRelief(t *testing.T) {
	a, out, _, err := runApp(t, testutil.CanonicalTroop, func(c *Config) { c.Relief = 3 })
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "== After round 1 ==\n"+
		"Monkey 0 inspected items 2 times.\n"+
		"Monkey 1 inspected items 4 times.\n"+
		"Monkey 2 inspected items 3 times.\n"+
		"Monkey 3 inspected items 5 times.\n\n"), "unexpected output:\n%s", out)
	assert.Contains(t, out, "== After round 20 ==\nMonkey 0 inspected items 101 times.\n")
	assert.Contains(t, out, "Standings after 20 rounds:\n  1. Monkey 3: 105 inspections\n  2. Monkey 0: 101 inspections\n")
	assert.True(t, strings.HasSuffix(out, "Monkey business: 10605\n"))

	require.NotNil(t, a.Result())
	assert.Equal(t, "10605", a.Result().Business)
	assert.Equal(t, a.RunID(), a.Result().RunID)
}

func TestRun_JSONReportWithoutRelief(t *testing.T) {
	_, out, _, err := runApp(t, testutil.CanonicalTroop, func(c *Config) {
		c.Format = "json"
		c.Snapshots = nil
		c.SnapshotEvery = 0
	})
	require.NoError(t, err)

	var rep report.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, "10197", rep.Business)
	assert.Equal(t, 20, rep.Rounds)
	assert.Equal(t, uint64(1), rep.Relief)
	require.Len(t, rep.Standings, 4)
	assert.Equal(t, report.Standing{Rank: 1, ID: 3, Activity: 103}, rep.Standings[0])
}

func TestRun_SnapshotSelection(t *testing.T) {
	_, out, _, err := runApp(t, testutil.PairTroop, func(c *Config) {
		c.Rounds = 6
		c.Snapshots = []int{2}
		c.SnapshotEvery = 3
	})
	require.NoError(t, err)

	assert.NotContains(t, out, "== After round 1 ==")
	assert.Contains(t, out, "== After round 2 ==")
	assert.Contains(t, out, "== After round 3 ==")
	assert.NotContains(t, out, "== After round 4 ==")
	assert.Contains(t, out, "== After round 6 ==")
}

func TestRun_ReportedErrors(t *testing.T) {
	testCases := []struct {
		name     string
		src      string
		expected []string
	}{
		{
			name:     "malformed operation",
			src:      "Monkey 0:\n  Starting items: 1\n  Operation: new = old -\n",
			expected: []string{"error: malformed operation", "troop.txt:3:"},
		},
		{
			name: "unknown target",
			src: "Monkey 0:\n  Starting items: 4\n  Operation: new = old\n  Test: divisible by 2\n" +
				"    If true: throw to monkey 9\n    If false: throw to monkey 0\n",
			expected: []string{"error: round 1: monkey 0 throws to unknown monkey 9"},
		},
		{
			name: "duplicate id",
			src: "Monkey 0:\n  Starting items: 4\n  Operation: new = old\n  Test: divisible by 2\n" +
				"    If true: throw to monkey 0\n    If false: throw to monkey 0\n\n" +
				"Monkey 0:\n  Starting items: 4\n  Operation: new = old\n  Test: divisible by 2\n" +
				"    If true: throw to monkey 0\n    If false: throw to monkey 0\n",
			expected: []string{"error: monkey 0 is defined twice (lines 1 and 8)"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a, _, errOut, err := runApp(t, tc.src, func(c *Config) { c.Rounds = 1 })
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrReported)
			for _, want := range tc.expected {
				assert.Contains(t, errOut, want)
			}
			assert.Nil(t, a.Result())
		})
	}
}

func TestRun_UnreportedErrors(t *testing.T) {
	t.Run("missing input", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.InputPath = filepath.Join(t.TempDir(), "missing.txt")
		var outW, errW testutil.SafeBuffer

		err := NewApp(&outW, &errW, &cfg).Run(context.Background())

		require.Error(t, err)
		assert.False(t, errors.Is(err, ErrReported))
		assert.Contains(t, err.Error(), "failed to read input")
	})

	t.Run("too few monkeys", func(t *testing.T) {
		_, _, _, err := runApp(t, "", nil)
		assert.ErrorIs(t, err, simulation.ErrTooFewActors)
		assert.False(t, errors.Is(err, ErrReported))
	})

	t.Run("invalid publish url", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.InputPath = testutil.WriteFile(t, "troop.txt", testutil.PairTroop)
		cfg.PublishURL = "/relative/only"
		var outW, errW testutil.SafeBuffer

		err := NewApp(&outW, &errW, &cfg).Run(context.Background())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to connect publisher")
	})
}

func TestRun_DebugLogging(t *testing.T) {
	a, _, logs, err := runApp(t, testutil.PairTroop, func(c *Config) {
		c.Rounds = 1
		c.LogLevel = "debug"
		c.LogFormat = "json"
	})
	require.NoError(t, err)

	assert.Contains(t, logs, `"run_id":"`+a.RunID()+`"`)
	assert.Contains(t, logs, `"msg":"Input line."`)
	assert.Contains(t, logs, `"msg":"Monkey parsed."`)
	assert.Contains(t, logs, `"msg":"Round completed."`)
}

func TestNewApp_UniqueRunIDs(t *testing.T) {
	cfg := DefaultConfig()
	var w testutil.SafeBuffer
	a := NewApp(&w, &w, &cfg)
	b := NewApp(&w, &w, &cfg)
	assert.NotEmpty(t, a.RunID())
	assert.NotEqual(t, a.RunID(), b.RunID())
}
