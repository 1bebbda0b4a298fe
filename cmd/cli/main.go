package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/specialistvlad/keepaway/internal/app"
	"github.com/specialistvlad/keepaway/internal/cli"
)

// main is the entrypoint for the keepaway application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// The real main function handles errors and exit codes.
	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		os.Exit(exitCode(os.Stderr, err))
	}
}

// exitCode prints err unless it was already reported and returns the
// process exit code for it.
func exitCode(errW io.Writer, err error) int {
	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		fmt.Fprintln(errW, exitErr.Message)
		return exitErr.Code
	}
	if !errors.Is(err, app.ErrReported) {
		fmt.Fprintln(errW, err)
	}
	return 1
}

// run encapsulates the main application logic for easier testing and error handling.
func run(outW, errW io.Writer, args []string) error {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	return guard(func() error {
		keepaway := app.NewApp(outW, errW, appConfig)
		return keepaway.Run(context.Background())
	})
}

// guard runs fn and turns a panic into an error so the user gets a clean
// message instead of a stack trace.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("a critical error occurred: %v", r)
		}
	}()
	return fn()
}
