package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/specialistvlad/keepaway/internal/app"
	"github.com/specialistvlad/keepaway/internal/runconfig"
	"github.com/spf13/cobra"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

const usageHint = "Run 'keepaway --help' for usage."

// flagValues holds the raw flag values before they are merged with the
// defaults and the run file.
type flagValues struct {
	configPath      string
	rounds          int
	relief          uint64
	top             int
	snapshots       []int
	snapshotEvery   int
	format          string
	color           string
	logLevel        string
	logFormat       string
	healthcheckPort int
	publishURL      string
	publishEvent    string
	publishTimeout  time.Duration
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	var (
		config *app.Config
		fv     flagValues
	)
	defaults := app.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "keepaway [flags] INPUT_PATH",
		Short: "Simulate monkeys passing items around and report the monkey business.",
		Long: `keepaway - A keep-away simulation over arbitrary-precision worry levels.

Reads a troop of monkey definitions from INPUT_PATH, plays the configured
number of rounds and reports how often each monkey inspected an item. The
product of the most active monkeys' counts is the monkey business.

Settings come from the built-in defaults, then the optional run file given
with --config, then any flag set explicitly on the command line.`,
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(cmd, args[0], fv, defaults)
			if err != nil {
				return err
			}
			config = cfg
			return nil
		},
	}
	cmd.SetArgs(args)
	cmd.SetOut(output)
	cmd.SetErr(output)

	flags := cmd.Flags()
	flags.StringVarP(&fv.configPath, "config", "c", "", "Path to an HCL run file.")
	flags.IntVarP(&fv.rounds, "rounds", "r", defaults.Rounds, "Number of rounds to simulate.")
	flags.Uint64Var(&fv.relief, "relief", defaults.Relief, "Divide every new worry level by this value. 1 disables relief.")
	flags.IntVar(&fv.top, "top", defaults.Top, "Number of most active monkeys multiplied into the monkey business.")
	flags.IntSliceVar(&fv.snapshots, "snapshot", defaults.Snapshots, "Print inspection counts after this round. Repeatable.")
	flags.IntVar(&fv.snapshotEvery, "snapshot-every", defaults.SnapshotEvery, "Print inspection counts every N rounds. 0 is disabled.")
	flags.StringVar(&fv.format, "format", defaults.Format, "Report format. Options: 'text', 'json' or 'yaml'.")
	flags.StringVar(&fv.color, "color", defaults.Color, "Color diagnostics. Options: 'auto', 'always' or 'never'.")
	flags.StringVar(&fv.logLevel, "log-level", defaults.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	flags.StringVar(&fv.logFormat, "log-format", defaults.LogFormat, "Log output format. Options: 'text' or 'json'.")
	flags.IntVar(&fv.healthcheckPort, "healthcheck-port", defaults.HealthcheckPort, "Port for the HTTP status server. 0 is disabled.")
	flags.StringVar(&fv.publishURL, "publish-url", defaults.PublishURL, "socket.io endpoint that receives round snapshots.")
	flags.StringVar(&fv.publishEvent, "publish-event", defaults.PublishEvent, "Event name for published snapshots.")
	flags.DurationVar(&fv.publishTimeout, "publish-timeout", defaults.PublishTimeout, "How long to wait for the publish endpoint to accept the connection.")

	if err := cmd.Execute(); err != nil {
		if _, ok := err.(*ExitError); ok {
			return nil, false, err
		}
		slog.Debug("Argument parsing failed.", "error", err)
		return nil, false, &ExitError{Code: 2, Message: err.Error() + "\n" + usageHint}
	}
	if config == nil {
		// Help was requested and printed.
		return nil, true, nil
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

// buildConfig merges defaults, the run file and explicitly set flags, in
// that order, and validates the result.
func buildConfig(cmd *cobra.Command, inputPath string, fv flagValues, defaults app.Config) (*app.Config, error) {
	cfg := defaults
	cfg.InputPath = inputPath
	cfg.ConfigPath = fv.configPath

	if fv.configPath != "" {
		settings, err := runconfig.Load(context.Background(), fv.configPath)
		if err != nil {
			return nil, &ExitError{Code: 1, Message: err.Error()}
		}
		cfg.ApplySettings(settings)
		slog.Debug("Run file applied.", "path", fv.configPath)
	}

	flags := cmd.Flags()
	set := func(name string, apply func()) {
		if flags.Changed(name) {
			apply()
		}
	}
	set("rounds", func() { cfg.Rounds = fv.rounds })
	set("relief", func() { cfg.Relief = fv.relief })
	set("top", func() { cfg.Top = fv.top })
	set("snapshot", func() { cfg.Snapshots = fv.snapshots })
	set("snapshot-every", func() { cfg.SnapshotEvery = fv.snapshotEvery })
	set("format", func() { cfg.Format = strings.ToLower(fv.format) })
	set("color", func() { cfg.Color = strings.ToLower(fv.color) })
	set("log-level", func() { cfg.LogLevel = strings.ToLower(fv.logLevel) })
	set("log-format", func() { cfg.LogFormat = strings.ToLower(fv.logFormat) })
	set("healthcheck-port", func() { cfg.HealthcheckPort = fv.healthcheckPort })
	set("publish-url", func() { cfg.PublishURL = fv.publishURL })
	set("publish-event", func() { cfg.PublishEvent = fv.publishEvent })
	set("publish-timeout", func() { cfg.PublishTimeout = fv.publishTimeout })
	slog.Debug("CLI parameter merge complete.")

	config, err := app.NewConfig(cfg)
	if err != nil {
		return nil, &ExitError{Code: 2, Message: fmt.Sprintf("%v\n%s", err, usageHint)}
	}
	return config, nil
}
