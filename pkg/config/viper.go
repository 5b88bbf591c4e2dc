package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/0xsalt/chatgpt-generate-finetune-jsonl/pkg/dotdir"
)

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads the config.toml file
// (if found via dotdir resolution), and binds environment variables
// with the FINETUNE_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via BindRegisteredFlags)
//  2. Environment variables (FINETUNE_GENERATE_MAX_TOKENS, etc.)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	// 1. Register all defaults from NewDefaultConfig().
	setViperDefaults(v)

	// 2. Config file discovery via dotdir resolution.
	v.SetConfigName("config")
	v.SetConfigType("toml")

	ddm := dotdir.NewManager()
	target, err := ddm.Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}

	if target != "" {
		v.AddConfigPath(target)
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	// 3. Environment variables: FINETUNE_GENERATE_MAX_TOKENS, FINETUNE_TOKENIZER_ENCODING, etc.
	v.SetEnvPrefix("FINETUNE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	// Generate
	v.SetDefault("generate.max_tokens", d.Generate.MaxTokens)
	v.SetDefault("generate.remove_duplicates", *d.Generate.RemoveDuplicates)
	v.SetDefault("generate.errors_path", *d.Generate.ErrorsPath)
	v.SetDefault("generate.instruction", d.Generate.Instruction)

	// Tokenizer
	v.SetDefault("tokenizer.encoding", d.Tokenizer.Encoding)

	// Estimate
	v.SetDefault("estimate.epochs", d.Estimate.Epochs)
	v.SetDefault("estimate.train_price_per_1k", d.Estimate.TrainPricePer1K)
	v.SetDefault("estimate.infer_price_per_1k", d.Estimate.InferPricePer1K)

	// Filter
	v.SetDefault("filter.min_length", d.Filter.MinLength)
	v.SetDefault("filter.min_sentences", d.Filter.MinSentences)
}
