package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/0xsalt/chatgpt-generate-finetune-jsonl/pkg/normalize"
)

// Result contains statistics from a conversion run.
type Result struct {
	RunID string

	Conversations int
	Fragments     int
	Skipped       int
	Diagnostics   int

	Normalize normalize.Stats
	Records   int

	// DiagnosticsPath is set when at least one entry was written.
	DiagnosticsPath    string
	DiagnosticsWritten int
	DiagnosticsErr     error

	Duration time.Duration
}

// Summary returns a human-readable summary of the run.
func (r *Result) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b,
		"Converted %d conversations into %d records\n"+
			"Extracted %d user messages, skipped %d conversations\n"+
			"Truncated %d, removed %d duplicates and %d empty entries",
		r.Conversations, r.Records,
		r.Fragments, r.Skipped,
		r.Normalize.Truncated, r.Normalize.DuplicatesRemoved, r.Normalize.EmptyRemoved,
	)

	switch {
	case r.DiagnosticsErr != nil:
		fmt.Fprintf(&b, "\nDiagnostics could not be written: %v", r.DiagnosticsErr)
	case r.DiagnosticsPath != "":
		fmt.Fprintf(&b, "\nLogged %d diagnostics to %s", r.DiagnosticsWritten, r.DiagnosticsPath)
	}

	return b.String()
}
