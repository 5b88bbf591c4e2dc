package export

import "fmt"

// ErrLoad is returned when the export file cannot be read.
type ErrLoad struct {
	Path string
	Err  error
}

func (e ErrLoad) Error() string {
	return fmt.Sprintf("reading input file %q: %v", e.Path, e.Err)
}

func (e ErrLoad) Unwrap() error {
	return e.Err
}

// ErrParse is returned when the export file is not a JSON array.
type ErrParse struct {
	Path string
	Err  error
}

func (e ErrParse) Error() string {
	return fmt.Sprintf("invalid JSON format in %q: %v", e.Path, e.Err)
}

func (e ErrParse) Unwrap() error {
	return e.Err
}
