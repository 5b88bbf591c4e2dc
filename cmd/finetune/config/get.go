package configcmder

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/0xsalt/chatgpt-generate-finetune-jsonl/pkg/cliui"
	"github.com/0xsalt/chatgpt-generate-finetune-jsonl/pkg/config"
)

const getLongDesc string = `Get a configuration value.

Reads the value for the given key from the config.toml file stored in the
.finetune/ directory, falling back to the default. Keys use dotted notation
matching the TOML section structure.

Examples:
  finetune config get generate.max_tokens
  finetune config get tokenizer.encoding`

const getShortDesc string = "Get a configuration value"

func newGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: getShortDesc,
		Long:  getLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runGet(cmd.OutOrStdout(), args[0], configDir)
		},
		ValidArgsFunction: completeKeys,
	}

	return cmd
}

func runGet(w io.Writer, key, configDir string) error {
	if !config.IsValidConfigKey(key) {
		return unknownKeyError(key)
	}

	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	printTarget(w, cfger.GetTarget())

	value, err := cfger.GetConfigValue(key)
	if err != nil {
		return err
	}

	cliui.Field(w, key, value)
	fmt.Fprintln(w)
	return nil
}
