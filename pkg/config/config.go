package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/0xsalt/chatgpt-generate-finetune-jsonl/pkg/dotdir"
)

const (
	configFile = "config.toml"

	// v0 is the alpha version of the config
	v0 = 0

	// CurrentV is the currently supported version, points to v0
	CurrentV = v0
)

type Configer struct {
	ddm        *dotdir.Manager
	override   string
	targetPath string
}

// NewConfiger resolves the config.toml location without creating anything.
// The directory is created on the first SaveConfig.
func NewConfiger(override string) (*Configer, error) {
	cfger := &Configer{
		ddm:      dotdir.NewManager(),
		override: override,
	}

	target, err := cfger.ddm.Target(override)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(target, configFile)
	_, err = os.Stat(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfger.targetPath = path

	return cfger, nil
}

// ValidConfigKeys returns the list of all supported configuration key names
// in TOML section order.
func ValidConfigKeys() []string {
	ordered := []string{
		"generate.max_tokens",
		"generate.remove_duplicates",
		"generate.errors_path",
		"generate.instruction",
		"tokenizer.encoding",
		"estimate.epochs",
		"estimate.train_price_per_1k",
		"estimate.infer_price_per_1k",
		"filter.min_length",
		"filter.min_sentences",
	}

	// Sanity: only return keys that actually exist in the map.
	result := make([]string, 0, len(configKeys))
	seen := make(map[string]bool, len(configKeys))
	for _, k := range ordered {
		if _, ok := configKeys[k]; ok {
			result = append(result, k)
			seen[k] = true
		}
	}

	// Append any keys in the map that we missed in the ordered list.
	for k := range configKeys {
		if !seen[k] {
			result = append(result, k)
		}
	}

	return result
}

// IsValidConfigKey returns true if the given key is a supported configuration key.
func IsValidConfigKey(key string) bool {
	_, ok := configKeys[key]
	return ok
}

func (c *Configer) GetTarget() string {
	return c.targetPath
}

// LoadConfig loads the configuration from config.toml in the target
// .finetune/ directory. If the file does not exist, returns
// NewDefaultConfig() so callers always receive a fully-populated Config.
// Fields explicitly set in the file override the defaults.
func (c *Configer) LoadConfig() (*Config, error) {
	if c.targetPath == "" {
		return NewDefaultConfig(), nil
	}

	data, err := os.ReadFile(c.targetPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewDefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg, err := ParseConfigTOML(data)
	if err != nil {
		return nil, err
	}

	// Merge in defaults: fill in any zero-value fields from the loaded config
	applyDefaults(cfg)

	return cfg, nil
}

// applyDefaults fills zero-value fields in cfg with values from NewDefaultConfig().
func applyDefaults(cfg *Config) {
	defaults := NewDefaultConfig()

	if cfg.Version == 0 {
		cfg.Version = defaults.Version
	}

	if cfg.Generate.MaxTokens == 0 {
		cfg.Generate.MaxTokens = defaults.Generate.MaxTokens
	}
	if cfg.Generate.RemoveDuplicates == nil {
		cfg.Generate.RemoveDuplicates = defaults.Generate.RemoveDuplicates
	}
	if cfg.Generate.ErrorsPath == nil {
		cfg.Generate.ErrorsPath = defaults.Generate.ErrorsPath
	}
	if cfg.Generate.Instruction == "" {
		cfg.Generate.Instruction = defaults.Generate.Instruction
	}

	if cfg.Tokenizer.Encoding == "" {
		cfg.Tokenizer.Encoding = defaults.Tokenizer.Encoding
	}

	if cfg.Estimate.Epochs == 0 {
		cfg.Estimate.Epochs = defaults.Estimate.Epochs
	}
	if cfg.Estimate.TrainPricePer1K == 0 {
		cfg.Estimate.TrainPricePer1K = defaults.Estimate.TrainPricePer1K
	}
	if cfg.Estimate.InferPricePer1K == 0 {
		cfg.Estimate.InferPricePer1K = defaults.Estimate.InferPricePer1K
	}

	if cfg.Filter.MinLength == 0 {
		cfg.Filter.MinLength = defaults.Filter.MinLength
	}
	if cfg.Filter.MinSentences == 0 {
		cfg.Filter.MinSentences = defaults.Filter.MinSentences
	}
}

// SaveConfig persists the configuration to config.toml, creating the
// .finetune/ directory if needed.
func (c *Configer) SaveConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("cannot save nil config")
	}

	if c.targetPath == "" {
		return errors.New("cannot save empty target path")
	}

	if _, err := c.ddm.Ensure(filepath.Dir(c.targetPath)); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := EncodeTOML(&buf, cfg); err != nil {
		return err
	}

	if err := os.WriteFile(c.targetPath, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// SetConfigValue loads the config, sets the given key to the given value, and saves it.
// Returns an error if the key is not a valid config key.
func (c *Configer) SetConfigValue(key string, value string) error {
	info, ok := configKeys[key]
	if !ok {
		return fmt.Errorf("unknown config key: %q", key)
	}

	cfg, err := c.LoadConfig()
	if err != nil {
		return err
	}

	if err := info.set(cfg, value); err != nil {
		return err
	}

	return c.SaveConfig(cfg)
}

// UnsetConfigValue restores key to its default value and saves the config.
func (c *Configer) UnsetConfigValue(key string) error {
	def, ok := DefaultConfigValue(key)
	if !ok {
		return fmt.Errorf("unknown config key: %q", key)
	}
	return c.SetConfigValue(key, def)
}

// GetConfigValue loads the config and returns the string representation of the given key.
// Returns an error if the key is not a valid config key.
func (c *Configer) GetConfigValue(key string) (string, error) {
	info, ok := configKeys[key]
	if !ok {
		return "", fmt.Errorf("unknown config key: %q", key)
	}

	cfg, err := c.LoadConfig()
	if err != nil {
		return "", err
	}

	return info.get(cfg), nil
}

// EncodeTOML writes cfg to w in the config.toml layout.
func EncodeTOML(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return nil
}

// DefaultConfigValue returns the string form of key under NewDefaultConfig.
func DefaultConfigValue(key string) (string, bool) {
	info, ok := configKeys[key]
	if !ok {
		return "", false
	}
	return info.get(NewDefaultConfig()), true
}

// ParseConfigTOML parses raw TOML bytes into a Config.
// Returns an error if the version field is present and not equal to CurrentV.
func ParseConfigTOML(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config TOML: %w", err)
	}

	if cfg.Version != 0 && cfg.Version != CurrentV {
		return nil, fmt.Errorf("unsupported config version %d (expected %d)", cfg.Version, CurrentV)
	}

	return cfg, nil
}
