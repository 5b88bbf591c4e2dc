// Package extract walks a conversation export and pulls out user-authored
// text fragments, recording a diagnostic for everything it has to drop.
package extract

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/0xsalt/chatgpt-generate-finetune-jsonl/pkg/diagnostics"
	"github.com/0xsalt/chatgpt-generate-finetune-jsonl/pkg/export"
	"github.com/0xsalt/chatgpt-generate-finetune-jsonl/pkg/logger"
)

// Result holds the output of one extraction pass.
type Result struct {
	// Fragments are the trimmed, non-empty user texts in export order.
	Fragments []string

	// Diagnostics explain every dropped conversation or part, in the order
	// they were encountered.
	Diagnostics []diagnostics.Entry

	// Conversations is the number of conversations visited.
	Conversations int

	// Skipped counts conversations dropped entirely (missing mapping or
	// processing error).
	Skipped int
}

// Extractor turns an export into fragments.
type Extractor struct {
	logger *slog.Logger
	decode func(json.RawMessage) (*export.Conversation, error)
}

// New creates an Extractor. A nil logger discards output.
func New(log *slog.Logger) *Extractor {
	if log == nil {
		log = logger.Nop()
	}
	return &Extractor{logger: log, decode: export.DecodeConversation}
}

// Extract walks every conversation of exp. A failing conversation is skipped
// and recorded; Extract itself never fails.
func (e *Extractor) Extract(exp *export.Export) *Result {
	result := &Result{}
	if exp == nil {
		return result
	}

	for i, raw := range exp.Conversations {
		result.Conversations++

		fragments, skipped := e.extractConversation(i, raw, result)
		if skipped {
			result.Skipped++
			continue
		}
		result.Fragments = append(result.Fragments, fragments...)
	}

	if result.Skipped > 0 {
		e.logger.Warn("skipped malformed conversations", "skipped", result.Skipped)
	}
	e.logger.Info("extracted user messages",
		"fragments", len(result.Fragments),
		"conversations", result.Conversations,
		"diagnostics", len(result.Diagnostics),
	)

	return result
}

// extractConversation returns the fragments of conversation i. Diagnostics
// are appended to result as they occur, so entries recorded before a
// failure are kept even though the conversation's fragments are discarded.
func (e *Extractor) extractConversation(i int, raw json.RawMessage, result *Result) (fragments []string, skipped bool) {
	defer func() {
		if r := recover(); r != nil {
			e.recordException(i, raw, fmt.Errorf("panic: %v", r), result)
			fragments, skipped = nil, true
		}
	}()

	conv, err := e.decode(raw)
	if err != nil {
		e.recordException(i, raw, err, result)
		return nil, true
	}

	if !conv.HasMapping() {
		entry := diagnostics.MissingMapping(i, raw)
		e.logger.Warn("conversation has no mapping, skipping", "conversation", i)
		result.Diagnostics = append(result.Diagnostics, entry)
		return nil, true
	}

	fragments, err = e.walk(i, conv, result)
	if err != nil {
		e.recordException(i, raw, err, result)
		return nil, true
	}

	return fragments, false
}

func (e *Extractor) walk(i int, conv *export.Conversation, result *Result) ([]string, error) {
	var fragments []string

	for _, entry := range conv.Mapping {
		msg := entry.Node.Message
		if !msg.IsUser() {
			continue
		}

		parts, err := msg.Parts()
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", entry.ID, err)
		}

		for _, raw := range parts {
			part, err := export.ParsePart(raw)
			if err != nil {
				return nil, fmt.Errorf("node %s: %w", entry.ID, err)
			}

			switch {
			case part.IsText():
				if text := strings.TrimSpace(part.Text); text != "" {
					fragments = append(fragments, text)
				}

			case part.Kind == export.PartOther:
				e.logger.Debug("skipping non-text content",
					"conversation", i,
					"node", entry.ID,
					"content_type", part.ContentType,
				)
				result.Diagnostics = append(result.Diagnostics,
					diagnostics.NonTextContent(i, entry.ID, part.ContentType, part.Raw))

			default:
				e.logger.Warn("part is not a string or object, skipping",
					"conversation", i,
					"node", entry.ID,
				)
				result.Diagnostics = append(result.Diagnostics,
					diagnostics.NonStringPart(i, entry.ID, part.Raw))
			}
		}
	}

	return fragments, nil
}

func (e *Extractor) recordException(i int, raw json.RawMessage, err error, result *Result) {
	e.logger.Warn("error processing conversation, skipping", "conversation", i, "error", err)
	result.Diagnostics = append(result.Diagnostics, diagnostics.Exception(i, raw, err))
}
