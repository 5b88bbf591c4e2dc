package config

import (
	"fmt"
	"strconv"
)

// Config represents the persistent finetune configuration stored as
// config.toml in the .finetune/ directory. The TOML layout uses sections for
// logical grouping.
type Config struct {
	Version   int             `toml:"version"`
	Generate  GenerateConfig  `toml:"generate"`
	Tokenizer TokenizerConfig `toml:"tokenizer"`
	Estimate  EstimateConfig  `toml:"estimate"`
	Filter    FilterConfig    `toml:"filter"`
}

// GenerateConfig holds settings for the export-to-JSONL conversion.
// RemoveDuplicates and ErrorsPath are pointers because false and "" are
// meaningful values that must survive a load.
type GenerateConfig struct {
	MaxTokens        int     `toml:"max_tokens,omitempty"`
	RemoveDuplicates *bool   `toml:"remove_duplicates,omitempty"`
	ErrorsPath       *string `toml:"errors_path,omitempty"`
	Instruction      string  `toml:"instruction,omitempty"`
}

// TokenizerConfig selects the BPE encoding.
type TokenizerConfig struct {
	Encoding string `toml:"encoding,omitempty"`
}

// EstimateConfig holds the fine-tuning price list used by "finetune estimate".
type EstimateConfig struct {
	Epochs          int     `toml:"epochs,omitempty"`
	TrainPricePer1K float64 `toml:"train_price_per_1k,omitempty"`
	InferPricePer1K float64 `toml:"infer_price_per_1k,omitempty"`
}

// FilterConfig holds the thresholds used by "finetune filter".
type FilterConfig struct {
	MinLength    int `toml:"min_length,omitempty"`
	MinSentences int `toml:"min_sentences,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"generate.max_tokens": {
		get: func(c *Config) string { return strconv.Itoa(c.Generate.MaxTokens) },
		set: func(c *Config, v string) error {
			n, err := parsePositiveInt("generate.max_tokens", v)
			if err != nil {
				return err
			}
			c.Generate.MaxTokens = n
			return nil
		},
	},
	"generate.remove_duplicates": {
		get: func(c *Config) string {
			if c.Generate.RemoveDuplicates == nil {
				return ""
			}
			return strconv.FormatBool(*c.Generate.RemoveDuplicates)
		},
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid value for generate.remove_duplicates: %w", err)
			}
			c.Generate.RemoveDuplicates = &b
			return nil
		},
	},
	"generate.errors_path": {
		get: func(c *Config) string {
			if c.Generate.ErrorsPath == nil {
				return ""
			}
			return *c.Generate.ErrorsPath
		},
		set: func(c *Config, v string) error { c.Generate.ErrorsPath = &v; return nil },
	},
	"generate.instruction": {
		get: func(c *Config) string { return c.Generate.Instruction },
		set: func(c *Config, v string) error { c.Generate.Instruction = v; return nil },
	},
	"tokenizer.encoding": {
		get: func(c *Config) string { return c.Tokenizer.Encoding },
		set: func(c *Config, v string) error { c.Tokenizer.Encoding = v; return nil },
	},
	"estimate.epochs": {
		get: func(c *Config) string { return strconv.Itoa(c.Estimate.Epochs) },
		set: func(c *Config, v string) error {
			n, err := parsePositiveInt("estimate.epochs", v)
			if err != nil {
				return err
			}
			c.Estimate.Epochs = n
			return nil
		},
	},
	"estimate.train_price_per_1k": {
		get: func(c *Config) string { return formatPrice(c.Estimate.TrainPricePer1K) },
		set: func(c *Config, v string) error {
			f, err := parsePrice("estimate.train_price_per_1k", v)
			if err != nil {
				return err
			}
			c.Estimate.TrainPricePer1K = f
			return nil
		},
	},
	"estimate.infer_price_per_1k": {
		get: func(c *Config) string { return formatPrice(c.Estimate.InferPricePer1K) },
		set: func(c *Config, v string) error {
			f, err := parsePrice("estimate.infer_price_per_1k", v)
			if err != nil {
				return err
			}
			c.Estimate.InferPricePer1K = f
			return nil
		},
	},
	"filter.min_length": {
		get: func(c *Config) string { return strconv.Itoa(c.Filter.MinLength) },
		set: func(c *Config, v string) error {
			n, err := parsePositiveInt("filter.min_length", v)
			if err != nil {
				return err
			}
			c.Filter.MinLength = n
			return nil
		},
	},
	"filter.min_sentences": {
		get: func(c *Config) string { return strconv.Itoa(c.Filter.MinSentences) },
		set: func(c *Config, v string) error {
			n, err := parsePositiveInt("filter.min_sentences", v)
			if err != nil {
				return err
			}
			c.Filter.MinSentences = n
			return nil
		},
	},
}

func parsePositiveInt(key, v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("invalid value for %s: must be positive, got %d", key, n)
	}
	return n, nil
}

func parsePrice(key, v string) (float64, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %w", key, err)
	}
	if f < 0 {
		return 0, fmt.Errorf("invalid value for %s: must not be negative", key)
	}
	return f, nil
}

func formatPrice(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
