package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag is the single source of truth for a CLI flag.
// Commands reference flags by registry key rather than hard-coding names,
// shorthands, defaults, and descriptions inline. This prevents flag drift
// when the same logical flag appears on multiple commands (e.g., --encoding
// on both "finetune" and "finetune estimate").
type Flag struct {
	// Name is the long flag name (e.g. "max-tokens").
	Name string

	// Shorthand is the one-letter short flag (e.g. "m"). Empty for no shorthand.
	Shorthand string

	// ViperKey is the dotted config key this flag maps to (e.g. "generate.max_tokens").
	ViperKey string

	// Description is the help text shown in --help output.
	Description string
}

// FlagSet is a mapping of flag names to Flag structs that hold their name,
// shorthand, viper key, etc.
type FlagSet map[string]Flag

// Flag registry keys.
// Use these constants when calling AddStringFlag, AddIntFlag, AddFloatFlag
// and BindRegisteredFlags to avoid typos or drift from one command to another.
const (
	FlagMaxTokens    = "max-tokens"
	FlagErrors       = "errors"
	FlagInstruction  = "instruction"
	FlagEncoding     = "encoding"
	FlagEpochs       = "epochs"
	FlagTrainPrice   = "train-price"
	FlagInferPrice   = "infer-price"
	FlagMinLength    = "min-length"
	FlagMinSentences = "min-sentences"
)

// Flags is the registry shared by every finetune command.
var Flags = FlagSet{
	FlagMaxTokens: {
		Name:        "max-tokens",
		Shorthand:   "m",
		ViperKey:    "generate.max_tokens",
		Description: "Maximum tokens per assistant message",
	},
	FlagErrors: {
		Name:        "errors",
		Shorthand:   "e",
		ViperKey:    "generate.errors_path",
		Description: "Diagnostics JSONL path (empty disables it)",
	},
	FlagInstruction: {
		Name:        "instruction",
		ViperKey:    "generate.instruction",
		Description: "Fixed user instruction of every record",
	},
	FlagEncoding: {
		Name:        "encoding",
		ViperKey:    "tokenizer.encoding",
		Description: "BPE encoding used to count tokens",
	},
	FlagEpochs: {
		Name:        "epochs",
		ViperKey:    "estimate.epochs",
		Description: "Number of training epochs",
	},
	FlagTrainPrice: {
		Name:        "train-price",
		ViperKey:    "estimate.train_price_per_1k",
		Description: "Training price per 1K tokens",
	},
	FlagInferPrice: {
		Name:        "infer-price",
		ViperKey:    "estimate.infer_price_per_1k",
		Description: "Inference price per 1K tokens",
	},
	FlagMinLength: {
		Name:        "min-length",
		ViperKey:    "filter.min_length",
		Description: "Minimum characters of a kept assistant message",
	},
	FlagMinSentences: {
		Name:        "min-sentences",
		ViperKey:    "filter.min_sentences",
		Description: "Minimum sentence marks (.!?) of a kept assistant message",
	},
}

// AddStringFlag registers a string flag on cmd from the given FlagSet.
// The flag's name, shorthand, default, and description all come from the
// FlagSet entry so they cannot drift across commands.
func AddStringFlag(cmd *cobra.Command, fs FlagSet, key string, target *string) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaults().GetString(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().StringVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().StringVar(target, def.Name, defaultVal, def.Description)
	}
}

// AddIntFlag registers an int flag on cmd from the given FlagSet.
func AddIntFlag(cmd *cobra.Command, fs FlagSet, key string, target *int) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaults().GetInt(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().IntVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().IntVar(target, def.Name, defaultVal, def.Description)
	}
}

// AddFloatFlag registers a float64 flag on cmd from the given FlagSet.
func AddFloatFlag(cmd *cobra.Command, fs FlagSet, key string, target *float64) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaults().GetFloat64(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().Float64VarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().Float64Var(target, def.Name, defaultVal, def.Description)
	}
}

// BindRegisteredFlags binds already-registered flags to viper using definitions
// from the given FlagSet. Call this in PreRunE after InitViper to connect flags
// to the viper precedence chain (flag > env > config file > default).
func BindRegisteredFlags(v *viper.Viper, cmd *cobra.Command, fs FlagSet, registryKeys []string) {
	for _, registryKey := range registryKeys {
		def, ok := fs[registryKey]
		if !ok {
			continue
		}

		f := cmd.Flags().Lookup(def.Name)
		if f == nil {
			continue
		}

		_ = v.BindPFlag(def.ViperKey, f)
	}
}

// defaults returns a viper instance holding only the values from NewDefaultConfig.
func defaults() *viper.Viper {
	v := viper.New()
	setViperDefaults(v)
	return v
}
