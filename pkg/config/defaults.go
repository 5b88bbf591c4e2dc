package config

import (
	"github.com/0xsalt/chatgpt-generate-finetune-jsonl/pkg/blogfilter"
	"github.com/0xsalt/chatgpt-generate-finetune-jsonl/pkg/estimate"
	"github.com/0xsalt/chatgpt-generate-finetune-jsonl/pkg/normalize"
	"github.com/0xsalt/chatgpt-generate-finetune-jsonl/pkg/pipeline"
	"github.com/0xsalt/chatgpt-generate-finetune-jsonl/pkg/record"
	"github.com/0xsalt/chatgpt-generate-finetune-jsonl/pkg/tokenizer"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	removeDuplicates := true
	errorsPath := pipeline.DefaultErrorsPath

	return &Config{
		Version: CurrentV,
		Generate: GenerateConfig{
			MaxTokens:        normalize.DefaultMaxTokens,
			RemoveDuplicates: &removeDuplicates,
			ErrorsPath:       &errorsPath,
			Instruction:      record.DefaultInstruction,
		},
		Tokenizer: TokenizerConfig{
			Encoding: tokenizer.DefaultEncoding,
		},
		Estimate: EstimateConfig{
			Epochs:          estimate.DefaultEpochs,
			TrainPricePer1K: estimate.DefaultTrainPricePer1K,
			InferPricePer1K: estimate.DefaultInferPricePer1K,
		},
		Filter: FilterConfig{
			MinLength:    blogfilter.DefaultMinLength,
			MinSentences: blogfilter.DefaultMinSentences,
		},
	}
}
