// Package blogfilter keeps the records of a fine-tuning JSONL file whose
// assistant turn reads like blog prose rather than a question or a command.
package blogfilter

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/0xsalt/chatgpt-generate-finetune-jsonl/pkg/record"
)

const (
	DefaultMinLength    = 40
	DefaultMinSentences = 3
)

var (
	defaultQuestionPrefixes = []string{"how ", "what ", "when ", "where ", "why ", "can ", "could ", "should "}
	defaultBlockedKeywords  = []string{"$ ", "openai ", "jsonl", "flag", "--help", "curl", "python "}
)

// Rules decide what counts as blog-style text. Prefixes and keywords are
// matched against the lower-cased text.
type Rules struct {
	MinLength        int
	MinSentences     int
	QuestionPrefixes []string
	BlockedKeywords  []string
}

func DefaultRules() Rules {
	return Rules{
		MinLength:        DefaultMinLength,
		MinSentences:     DefaultMinSentences,
		QuestionPrefixes: defaultQuestionPrefixes,
		BlockedKeywords:  defaultBlockedKeywords,
	}
}

// IsBloggy reports whether the trimmed text passes every rule.
func (r Rules) IsBloggy(text string) bool {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < r.MinLength {
		return false
	}

	if sentenceMarks(text) < r.MinSentences {
		return false
	}

	lower := strings.ToLower(text)
	for _, prefix := range r.QuestionPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return false
		}
	}
	for _, keyword := range r.BlockedKeywords {
		if strings.Contains(lower, keyword) {
			return false
		}
	}

	return true
}

func sentenceMarks(text string) int {
	n := 0
	for _, r := range text {
		switch r {
		case '.', '!', '?':
			n++
		}
	}
	return n
}

// Result counts kept lines against every line read.
type Result struct {
	Kept  int
	Total int
}

// Summary returns a human-readable summary of the filter run.
func (r *Result) Summary(outputPath string) string {
	return fmt.Sprintf(
		"Filtered %d blog-style entries out of %d total lines.\nOutput written to: %s",
		r.Kept, r.Total, outputPath,
	)
}

// Filter copies the bloggy records of inputPath to outputPath unchanged.
// Invalid lines and records without an assistant turn count toward the
// total but are never kept.
func (r Rules) Filter(inputPath, outputPath string) (*Result, error) {
	in, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", inputPath, err)
	}
	defer in.Close()

	out, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", outputPath, err)
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	result := &Result{}

	err = record.ScanLines(in, func(_ int, line []byte) error {
		result.Total++

		rec, err := record.ParseLine(line)
		if err != nil {
			return nil
		}
		content, _ := rec.Assistant()
		if !r.IsBloggy(content) {
			return nil
		}

		if _, err := w.Write(line); err != nil {
			return err
		}
		if err := w.WriteByte('\n'); err != nil {
			return err
		}
		result.Kept++
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("filtering %s: %w", inputPath, err)
	}

	if err := w.Flush(); err != nil {
		return nil, fmt.Errorf("writing %s: %w", outputPath, err)
	}
	if err := out.Close(); err != nil {
		return nil, fmt.Errorf("closing %s: %w", outputPath, err)
	}

	return result, nil
}
