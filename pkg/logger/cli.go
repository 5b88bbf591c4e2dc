package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// CLIOptions are the logging flags shared by every command.
type CLIOptions struct {
	Debug   bool
	JSON    bool
	LogFile string
}

// ForCLI builds the logger for a command writing to w: pretty when w is a
// terminal, JSON with --log-json, and additionally JSON at debug level with
// source locations to LogFile when one is set. The returned close func must be called once the
// command is done.
func ForCLI(w io.Writer, opts CLIOptions) (*slog.Logger, func() error, error) {
	terminal := New(
		WithWriter(w),
		WithPretty(IsTerminal(w)),
		WithJSON(opts.JSON),
		WithDebug(opts.Debug),
	)

	if opts.LogFile == "" {
		return terminal, func() error { return nil }, nil
	}

	f, err := os.OpenFile(opts.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	file := New(WithWriter(f), WithJSON(true), WithLevel(slog.LevelDebug), WithSource(true))
	return Multi(terminal, file), f.Close, nil
}

// FromCommand builds the CLI logger from the persistent --debug, --log-json
// and --log-file flags of cmd, writing to its stderr.
func FromCommand(cmd *cobra.Command) (*slog.Logger, func() error, error) {
	debug, _ := cmd.Flags().GetBool("debug")
	logJSON, _ := cmd.Flags().GetBool("log-json")
	logFile, _ := cmd.Flags().GetString("log-file")

	return ForCLI(cmd.ErrOrStderr(), CLIOptions{
		Debug:   debug,
		JSON:    logJSON,
		LogFile: logFile,
	})
}
