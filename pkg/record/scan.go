package record

import (
	"bufio"
	"io"
)

// maxLineSize bounds a single JSONL line.
const maxLineSize = 10 * 1024 * 1024

// ScanLines calls fn for every line of r, numbering lines from 1. Lines are
// passed without their newline and are only valid for the duration of the
// call. Scanning stops at the first error returned by fn.
func ScanLines(r io.Reader, fn func(lineNo int, line []byte) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if err := fn(lineNo, scanner.Bytes()); err != nil {
			return err
		}
	}

	return scanner.Err()
}
