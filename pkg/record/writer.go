package record

import (
	"bufio"
	"fmt"
	"os"
)

// ErrWrite is returned when the output file cannot be written. A partially
// written file is left in place.
type ErrWrite struct {
	Path string
	Err  error
}

func (e ErrWrite) Error() string {
	return fmt.Sprintf("could not write to output file %q: %v", e.Path, e.Err)
}

func (e ErrWrite) Unwrap() error {
	return e.Err
}

// WriteFile creates or truncates path and writes one record per line. It
// returns the number of records written.
func WriteFile(path string, records []ChatRecord) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, ErrWrite{Path: path, Err: err}
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for i, r := range records {
		line, err := r.MarshalLine()
		if err != nil {
			return i, ErrWrite{Path: path, Err: fmt.Errorf("encoding record %d: %w", i, err)}
		}
		if _, err := w.Write(line); err != nil {
			return i, ErrWrite{Path: path, Err: err}
		}
		if err := w.WriteByte('\n'); err != nil {
			return i, ErrWrite{Path: path, Err: err}
		}
	}

	if err := w.Flush(); err != nil {
		return 0, ErrWrite{Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return 0, ErrWrite{Path: path, Err: err}
	}

	return len(records), nil
}
