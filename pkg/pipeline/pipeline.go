// Package pipeline runs one export-to-JSONL conversion: load, extract,
// record diagnostics, normalize, format and write.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/0xsalt/chatgpt-generate-finetune-jsonl/pkg/diagnostics"
	"github.com/0xsalt/chatgpt-generate-finetune-jsonl/pkg/export"
	"github.com/0xsalt/chatgpt-generate-finetune-jsonl/pkg/extract"
	"github.com/0xsalt/chatgpt-generate-finetune-jsonl/pkg/logger"
	"github.com/0xsalt/chatgpt-generate-finetune-jsonl/pkg/normalize"
	"github.com/0xsalt/chatgpt-generate-finetune-jsonl/pkg/record"
	"github.com/0xsalt/chatgpt-generate-finetune-jsonl/pkg/tokenizer"
)

// DefaultErrorsPath is where diagnostics go unless configured otherwise.
const DefaultErrorsPath = "errors.jsonl"

// Options configures a run.
type Options struct {
	InputPath  string
	OutputPath string

	// ErrorsPath is the diagnostics JSONL destination. Empty disables it.
	ErrorsPath string

	// Instruction is the fixed user turn. Empty selects
	// record.DefaultInstruction.
	Instruction string

	MaxTokens        int
	RemoveDuplicates bool
}

// DefaultOptions returns options for converting input into output with
// every other setting at its default.
func DefaultOptions(input, output string) Options {
	return Options{
		InputPath:        input,
		OutputPath:       output,
		ErrorsPath:       DefaultErrorsPath,
		Instruction:      record.DefaultInstruction,
		MaxTokens:        normalize.DefaultMaxTokens,
		RemoveDuplicates: true,
	}
}

// Runner executes conversion runs with a shared tokenizer.
type Runner struct {
	tok    tokenizer.Tokenizer
	logger *slog.Logger
}

// NewRunner creates a Runner. A nil logger discards output.
func NewRunner(tok tokenizer.Tokenizer, log *slog.Logger) *Runner {
	if log == nil {
		log = logger.Nop()
	}
	return &Runner{tok: tok, logger: log}
}

// Run converts opts.InputPath into opts.OutputPath. Only fatal errors are
// returned: export.ErrLoad, export.ErrParse and record.ErrWrite. A failure
// writing diagnostics is reported in Result.DiagnosticsErr and does not fail
// the run.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()
	result := &Result{RunID: uuid.NewString()}
	log := r.logger.With("run", result.RunID)

	log.Info("loading export", "path", opts.InputPath)
	exp, err := export.Load(opts.InputPath)
	if err != nil {
		return nil, err
	}
	log.Info("loaded conversations", "count", exp.Len())

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	extracted := extract.New(log).Extract(exp)
	result.Conversations = extracted.Conversations
	result.Fragments = len(extracted.Fragments)
	result.Skipped = extracted.Skipped
	result.Diagnostics = len(extracted.Diagnostics)

	sink := diagnostics.NewSink(opts.ErrorsPath)
	written, err := sink.Write(extracted.Diagnostics)
	result.DiagnosticsWritten = written
	if err != nil {
		log.Error("could not write diagnostics", "path", sink.Path(), "error", err)
		result.DiagnosticsErr = err
	} else if written > 0 {
		result.DiagnosticsPath = sink.Path()
		log.Info("wrote diagnostics", "path", sink.Path(), "entries", written)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	norm := normalize.New(r.tok, normalize.Options{
		MaxTokens:        opts.MaxTokens,
		RemoveDuplicates: opts.RemoveDuplicates,
	}, log)
	fragments, stats := norm.Normalize(extracted.Fragments)
	result.Normalize = stats

	records := record.NewFormatter(opts.Instruction).Format(fragments)

	n, err := record.WriteFile(opts.OutputPath, records)
	if err != nil {
		return nil, err
	}
	result.Records = n
	result.Duration = time.Since(start)

	log.Info("wrote records", "path", opts.OutputPath, "records", n, "duration", result.Duration)
	return result, nil
}

// IsFatal reports whether err aborted a run because of its input or output
// files, as opposed to cancellation.
func IsFatal(err error) bool {
	var (
		loadErr  export.ErrLoad
		parseErr export.ErrParse
		writeErr record.ErrWrite
	)
	return errors.As(err, &loadErr) || errors.As(err, &parseErr) || errors.As(err, &writeErr)
}
