package app

import (
	"testing"
	"time"

	"github.com/specialistvlad/keepaway/internal/runconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	testCases := []struct {
		name      string
		mutate    func(*Config)
		expectErr string
	}{
		{name: "defaults with input", mutate: func(c *Config) {}},
		{name: "missing input", mutate: func(c *Config) { c.InputPath = "" }, expectErr: "InputPath is a required configuration field"},
		{name: "unknown format", mutate: func(c *Config) { c.Format = "xml" }, expectErr: `Format must be one of [text json yaml], got "xml"`},
		{name: "unknown color", mutate: func(c *Config) { c.Color = "sometimes" }, expectErr: "Color must be one of"},
		{name: "zero relief", mutate: func(c *Config) { c.Relief = 0 }, expectErr: `Relief failed the "gte" check`},
		{name: "zero top", mutate: func(c *Config) { c.Top = 0 }, expectErr: `Top failed the "gte" check`},
		{name: "negative rounds", mutate: func(c *Config) { c.Rounds = -1 }, expectErr: `Rounds failed the "gte" check`},
		{name: "zero snapshot round", mutate: func(c *Config) { c.Snapshots = []int{1, 0} }, expectErr: "Snapshots[1]"},
		{name: "port out of range", mutate: func(c *Config) { c.HealthcheckPort = 70000 }, expectErr: "HealthcheckPort"},
		{name: "publish url", mutate: func(c *Config) { c.PublishURL = "http://localhost:3000/troop" }},
		{name: "bad publish url", mutate: func(c *Config) { c.PublishURL = "not a url" }, expectErr: "PublishURL"},
		{name: "two problems", mutate: func(c *Config) { c.Format = "xml"; c.Top = 0 }, expectErr: "; "},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.InputPath = "troop.txt"
			tc.mutate(&cfg)

			got, err := NewConfig(cfg)
			if tc.expectErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid configuration: ")
				assert.Contains(t, err.Error(), tc.expectErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, cfg, *got)
		})
	}
}

func TestConfig_ApplySettings(t *testing.T) {
	rounds, relief, every := 10000, uint64(3), 0
	snapshots := []int{5}
	format, url := "yaml", "http://localhost:3000"
	timeout := 5 * time.Second

	cfg := DefaultConfig()
	cfg.ApplySettings(&runconfig.Settings{
		Rounds:         &rounds,
		Relief:         &relief,
		Snapshots:      &snapshots,
		SnapshotEvery:  &every,
		Format:         &format,
		PublishURL:     &url,
		PublishTimeout: &timeout,
	})

	assert.Equal(t, 10000, cfg.Rounds)
	assert.Equal(t, uint64(3), cfg.Relief)
	assert.Equal(t, []int{5}, cfg.Snapshots)
	assert.Equal(t, 0, cfg.SnapshotEvery)
	assert.Equal(t, "yaml", cfg.Format)
	assert.Equal(t, "http://localhost:3000", cfg.PublishURL)
	assert.Equal(t, 5*time.Second, cfg.PublishTimeout)
	assert.Equal(t, 2, cfg.Top, "unset fields keep their defaults")
	assert.Equal(t, "round", cfg.PublishEvent)

	snapshots[0] = 99
	assert.Equal(t, []int{5}, cfg.Snapshots, "snapshots must be copied")

	before := cfg
	cfg.ApplySettings(nil)
	assert.Equal(t, before, cfg)
}
