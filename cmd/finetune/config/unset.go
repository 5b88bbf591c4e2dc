package configcmder

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/0xsalt/chatgpt-generate-finetune-jsonl/pkg/config"
)

const unsetLongDesc string = `Reset a configuration value to its default.

Examples:
  finetune config unset generate.max_tokens
  finetune config unset generate.errors_path`

const unsetShortDesc string = "Reset a configuration value to its default"

func newUnsetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unset <key>",
		Short: unsetShortDesc,
		Long:  unsetLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runUnset(cmd.OutOrStdout(), args[0], configDir)
		},
		ValidArgsFunction: completeKeys,
	}

	return cmd
}

func runUnset(w io.Writer, key, configDir string) error {
	if !config.IsValidConfigKey(key) {
		return unknownKeyError(key)
	}

	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	printTarget(w, cfger.GetTarget())

	previous, err := cfger.GetConfigValue(key)
	if err != nil {
		return err
	}

	if err := cfger.UnsetConfigValue(key); err != nil {
		return err
	}

	value, err := cfger.GetConfigValue(key)
	if err != nil {
		return err
	}

	printChange(w, key, previous, value)
	return nil
}
