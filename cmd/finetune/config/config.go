// Package configcmder provides the config command for managing persistent
// finetune configuration stored in the .finetune/ directory.
package configcmder

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/0xsalt/chatgpt-generate-finetune-jsonl/pkg/cliui"
	"github.com/0xsalt/chatgpt-generate-finetune-jsonl/pkg/config"
)

const configLongDesc string = `Manage persistent finetune configuration.

Configuration is stored as config.toml in the .finetune/ directory and
provides default values for command flags. CLI flags and FINETUNE_*
environment variables always take precedence over config file values.

Keys use dotted notation matching the TOML section structure:
  generate.max_tokens, generate.remove_duplicates,
  generate.errors_path, generate.instruction,
  tokenizer.encoding,
  estimate.epochs, estimate.train_price_per_1k, estimate.infer_price_per_1k,
  filter.min_length, filter.min_sentences

Subcommands:
  finetune config set <key> <value>    Set a configuration value
  finetune config get <key>            Get a configuration value
  finetune config unset <key>          Reset a value to its default
  finetune config list [--toml]        List all configuration values

Examples:
  finetune config set generate.max_tokens 1024
  finetune config set generate.errors_path ""
  finetune config get tokenizer.encoding
  finetune config list`

const configShortDesc string = "Manage persistent finetune configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newUnsetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}

func completeKeys(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return config.ValidConfigKeys(), cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

func unknownKeyError(key string) error {
	return fmt.Errorf("unknown config key: %q\n\nValid keys: %s",
		key, strings.Join(config.ValidConfigKeys(), ", "))
}

func printTarget(w io.Writer, target string) {
	fmt.Fprintf(w, "\n  %s %s\n\n",
		cliui.KeyStyle.Render("Config file:"),
		cliui.DimStyle.Render(target),
	)
}
