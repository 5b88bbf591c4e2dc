// Package filtercmder provides the filter command, which keeps only the
// blog-style records of a fine-tuning JSONL file.
package filtercmder

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/0xsalt/chatgpt-generate-finetune-jsonl/pkg/blogfilter"
	"github.com/0xsalt/chatgpt-generate-finetune-jsonl/pkg/cliui"
	"github.com/0xsalt/chatgpt-generate-finetune-jsonl/pkg/config"
)

const filterLongDesc string = `Keep only blog-style records of a fine-tuning JSONL file.

A record is kept when its assistant message is long enough, has enough
sentences, does not open like a question (how, what, why, ...) and does not
mention commands or tooling (curl, python, --help, ...). Kept lines are
copied unchanged; invalid lines are dropped.

Examples:
  finetune filter train.jsonl blog.jsonl
  finetune filter train.jsonl blog.jsonl --min-length 120 --min-sentences 5`

const filterShortDesc string = "Keep only blog-style records"

var filterFlags = []string{
	config.FlagMinLength,
	config.FlagMinSentences,
}

type filterCommander struct {
	minLength    int
	minSentences int

	viper *viper.Viper
}

func NewFilterCmd() *cobra.Command {
	cmder := &filterCommander{}

	cmd := &cobra.Command{
		Use:   "filter <input.jsonl> <output.jsonl>",
		Short: filterShortDesc,
		Long:  filterLongDesc,
		Args:  cobra.ExactArgs(2),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, config.Flags, filterFlags)
			cmder.viper = v
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return cmder.run(cmd, args[0], args[1])
		},
	}

	config.AddIntFlag(cmd, config.Flags, config.FlagMinLength, &cmder.minLength)
	config.AddIntFlag(cmd, config.Flags, config.FlagMinSentences, &cmder.minSentences)

	return cmd
}

func (c *filterCommander) run(cmd *cobra.Command, input, output string) error {
	rules := blogfilter.DefaultRules()
	rules.MinLength = c.viper.GetInt("filter.min_length")
	rules.MinSentences = c.viper.GetInt("filter.min_sentences")

	result, err := rules.Filter(input, output)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "  %s %s\n", cliui.SuccessMark, result.Summary(output))
	return nil
}
