// Package estimate counts the tokens in a fine-tuning JSONL file and prices
// a training run.
package estimate

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/0xsalt/chatgpt-generate-finetune-jsonl/pkg/logger"
	"github.com/0xsalt/chatgpt-generate-finetune-jsonl/pkg/record"
	"github.com/0xsalt/chatgpt-generate-finetune-jsonl/pkg/tokenizer"
)

// Report is the outcome of an estimate.
type Report struct {
	Path    string
	Lines   int
	Invalid int
	Tokens  int
	Pricing Pricing
}

func (r *Report) TrainCost() float64 {
	return r.Pricing.TrainCost(r.Tokens)
}

func (r *Report) InferCost() float64 {
	return r.Pricing.InferCost(r.Tokens)
}

// Summary returns a human-readable summary of the estimate.
func (r *Report) Summary() string {
	return fmt.Sprintf(
		"File: %s\n"+
			"Lines processed: %d (%d invalid skipped)\n"+
			"Estimated total tokens (1 epoch): %d\n"+
			"Estimated training cost (%d epochs): $%.2f @ $%g/1K\n"+
			"Estimated inference cost only: $%.2f @ $%g/1K",
		r.Path,
		r.Lines, r.Invalid,
		r.Tokens,
		r.Pricing.Epochs, r.TrainCost(), r.Pricing.TrainPricePer1K,
		r.InferCost(), r.Pricing.InferPricePer1K,
	)
}

// line accepts both the chat format and the legacy prompt/completion format.
type line struct {
	Messages   []record.Message `json:"messages"`
	Prompt     string           `json:"prompt"`
	Completion string           `json:"completion"`
}

func (l *line) text() string {
	if l.Messages == nil {
		return l.Prompt + l.Completion
	}

	var b strings.Builder
	for _, m := range l.Messages {
		b.WriteString(m.Content)
	}
	return b.String()
}

// Estimator counts tokens with a shared tokenizer.
type Estimator struct {
	tok     tokenizer.Tokenizer
	pricing Pricing
	logger  *slog.Logger
}

// New creates an Estimator. A nil logger discards output.
func New(tok tokenizer.Tokenizer, pricing Pricing, log *slog.Logger) *Estimator {
	if log == nil {
		log = logger.Nop()
	}
	return &Estimator{tok: tok, pricing: pricing, logger: log}
}

// EstimateFile estimates the JSONL file at path.
func (e *Estimator) EstimateFile(path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	report, err := e.Estimate(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	report.Path = path
	return report, nil
}

// Estimate reads JSONL from r. Lines that are not valid JSON objects are
// skipped with a warning and counted as invalid.
func (e *Estimator) Estimate(r io.Reader) (*Report, error) {
	report := &Report{Pricing: e.pricing}

	err := record.ScanLines(r, func(lineNo int, raw []byte) error {
		var l line
		if err := json.Unmarshal(raw, &l); err != nil {
			e.logger.Warn("skipping invalid JSON line", "line", lineNo, "error", err)
			report.Invalid++
			return nil
		}

		report.Tokens += e.tok.Count(l.text())
		report.Lines++
		return nil
	})
	if err != nil {
		return nil, err
	}

	return report, nil
}
