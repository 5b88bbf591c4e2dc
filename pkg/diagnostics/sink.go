package diagnostics

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
)

// Sink writes diagnostic entries to a JSONL file. A Sink with an empty path
// discards everything.
type Sink struct {
	path string
}

// NewSink creates a Sink that writes to path.
func NewSink(path string) *Sink {
	return &Sink{path: path}
}

// Path returns the destination path, empty when the sink is disabled.
func (s *Sink) Path() string {
	return s.path
}

// Enabled reports whether the sink has a destination.
func (s *Sink) Enabled() bool {
	return s != nil && s.path != ""
}

// Write serializes entries one per line, in order. Nothing is written (and
// no file is created) when entries is empty or the sink is disabled. The
// number of entries written is returned.
func (s *Sink) Write(entries []Entry) (int, error) {
	if !s.Enabled() || len(entries) == 0 {
		return 0, nil
	}

	f, err := os.Create(s.path)
	if err != nil {
		return 0, fmt.Errorf("creating diagnostics file %s: %w", s.path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	for i, entry := range entries {
		if err := enc.Encode(entry); err != nil {
			return i, fmt.Errorf("writing diagnostic %d to %s: %w", i, s.path, err)
		}
	}

	if err := w.Flush(); err != nil {
		return 0, fmt.Errorf("flushing diagnostics file %s: %w", s.path, err)
	}

	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("closing diagnostics file %s: %w", s.path, err)
	}

	return len(entries), nil
}
