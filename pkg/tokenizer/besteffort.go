package tokenizer

import (
	"log/slog"
	"unicode/utf8"

	"github.com/0xsalt/chatgpt-generate-finetune-jsonl/pkg/logger"
)

// BestEffort uses a precise backend when it can and the Heuristic otherwise.
// It never returns an error.
type BestEffort struct {
	backend  Backend
	fallback Heuristic
	logger   *slog.Logger
}

// New creates a BestEffort tokenizer for the named encoding. If the encoding
// cannot be loaded every call uses the heuristic.
func New(encoding string, log *slog.Logger) *BestEffort {
	if log == nil {
		log = logger.Nop()
	}

	backend, err := NewTiktoken(encoding)
	if err != nil {
		log.Warn("tokenizer unavailable, using character heuristic",
			"encoding", encoding,
			"error", err,
		)
		return NewWithBackend(nil, log)
	}

	return NewWithBackend(backend, log)
}

// NewWithBackend creates a BestEffort tokenizer around backend, which may be
// nil.
func NewWithBackend(backend Backend, log *slog.Logger) *BestEffort {
	if log == nil {
		log = logger.Nop()
	}
	return &BestEffort{backend: backend, logger: log}
}

// Precise reports whether a backend is configured.
func (b *BestEffort) Precise() bool {
	return b.backend != nil
}

// Name describes the active tokenizer.
func (b *BestEffort) Name() string {
	if b.backend == nil {
		return "heuristic"
	}
	return b.backend.Name()
}

func (b *BestEffort) Count(text string) int {
	if b.backend == nil {
		return b.fallback.Count(text)
	}

	tokens, err := b.backend.Encode(text)
	if err != nil {
		b.logger.Warn("could not count tokens, using estimate", "error", err)
		return b.fallback.Count(text)
	}
	return len(tokens)
}

// Truncate decodes the first limit tokens of text. The decoded prefix is
// re-counted and shortened further until it fits, so the limit holds exactly
// whenever the backend succeeds.
func (b *BestEffort) Truncate(text string, limit int) string {
	if limit < 0 {
		limit = 0
	}
	if b.backend == nil {
		return b.fallback.Truncate(text, limit)
	}

	tokens, err := b.backend.Encode(text)
	if err != nil {
		b.logger.Warn("could not truncate text properly, slicing characters", "error", err)
		return b.fallback.Truncate(text, limit)
	}
	if len(tokens) <= limit {
		return text
	}

	for n := limit; n > 0; n-- {
		prefix, err := b.backend.Decode(tokens[:n])
		if err != nil {
			b.logger.Warn("could not truncate text properly, slicing characters", "error", err)
			return b.fallback.Truncate(text, limit)
		}
		prefix = trimPartialRune(prefix)

		recount, err := b.backend.Encode(prefix)
		if err == nil && len(recount) <= limit {
			return prefix
		}
	}

	return ""
}

// trimPartialRune drops trailing bytes of a multi-byte character that was
// split at a token boundary.
func trimPartialRune(s string) string {
	for len(s) > 0 {
		r, size := utf8.DecodeLastRuneInString(s)
		if r != utf8.RuneError || size > 1 {
			break
		}
		s = s[:len(s)-1]
	}
	return s
}
