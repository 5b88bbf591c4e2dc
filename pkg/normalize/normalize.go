// Package normalize prepares extracted fragments for formatting: it enforces
// the token budget, removes duplicates and drops empty entries, always in
// that order.
package normalize

import (
	"log/slog"
	"strings"

	"github.com/0xsalt/chatgpt-generate-finetune-jsonl/pkg/logger"
	"github.com/0xsalt/chatgpt-generate-finetune-jsonl/pkg/tokenizer"
)

// DefaultMaxTokens is the per-fragment token budget.
const DefaultMaxTokens = 2048

// Options configures a Normalizer.
type Options struct {
	MaxTokens        int
	RemoveDuplicates bool
}

// DefaultOptions returns the standard budget with deduplication enabled.
func DefaultOptions() Options {
	return Options{
		MaxTokens:        DefaultMaxTokens,
		RemoveDuplicates: true,
	}
}

// Stats reports what each pass changed.
type Stats struct {
	Input             int
	Truncated         int
	DuplicatesRemoved int
	EmptyRemoved      int
	Output            int
}

// Normalizer runs the truncate, dedup and filter-empty passes.
type Normalizer struct {
	tok    tokenizer.Tokenizer
	opts   Options
	logger *slog.Logger
}

// New creates a Normalizer. A non-positive MaxTokens selects DefaultMaxTokens.
func New(tok tokenizer.Tokenizer, opts Options, log *slog.Logger) *Normalizer {
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Normalizer{tok: tok, opts: opts, logger: log}
}

// Options returns the effective options.
func (n *Normalizer) Options() Options {
	return n.opts
}

// Normalize returns the surviving fragments in their original relative order.
// Truncation runs before deduplication so fragments that only become equal
// after truncation are caught.
func (n *Normalizer) Normalize(fragments []string) ([]string, Stats) {
	stats := Stats{Input: len(fragments)}

	var out []string
	out, stats.Truncated = Truncate(n.tok, fragments, n.opts.MaxTokens)

	if n.opts.RemoveDuplicates {
		out, stats.DuplicatesRemoved = Dedup(out)
	}

	out, stats.EmptyRemoved = FilterEmpty(out)
	stats.Output = len(out)

	n.logger.Info("normalized messages",
		"input", stats.Input,
		"truncated", stats.Truncated,
		"max_tokens", n.opts.MaxTokens,
		"duplicates_removed", stats.DuplicatesRemoved,
		"dedup", n.opts.RemoveDuplicates,
		"empty_removed", stats.EmptyRemoved,
		"output", stats.Output,
	)
	return out, stats
}

// Truncate replaces every fragment longer than limit tokens with its
// truncation. It returns the new slice and the number of fragments changed.
func Truncate(tok tokenizer.Tokenizer, fragments []string, limit int) ([]string, int) {
	out := make([]string, 0, len(fragments))
	truncated := 0

	for _, f := range fragments {
		if tok.Count(f) > limit {
			out = append(out, tok.Truncate(f, limit))
			truncated++
			continue
		}
		out = append(out, f)
	}

	return out, truncated
}

// Dedup keeps the first occurrence of each distinct fragment. Equality is
// exact: fragments differing only in whitespace or case are distinct.
func Dedup(fragments []string) ([]string, int) {
	seen := make(map[string]struct{}, len(fragments))
	out := make([]string, 0, len(fragments))

	for _, f := range fragments {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}

	return out, len(fragments) - len(out)
}

// FilterEmpty drops fragments that are empty or whitespace-only.
func FilterEmpty(fragments []string) ([]string, int) {
	out := make([]string, 0, len(fragments))
	for _, f := range fragments {
		if strings.TrimSpace(f) != "" {
			out = append(out, f)
		}
	}
	return out, len(fragments) - len(out)
}
