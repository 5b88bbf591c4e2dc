// Package estimatecmder provides the estimate command, which prices a
// fine-tuning run for a JSONL file.
package estimatecmder

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/0xsalt/chatgpt-generate-finetune-jsonl/pkg/cliui"
	"github.com/0xsalt/chatgpt-generate-finetune-jsonl/pkg/config"
	"github.com/0xsalt/chatgpt-generate-finetune-jsonl/pkg/estimate"
	"github.com/0xsalt/chatgpt-generate-finetune-jsonl/pkg/logger"
	"github.com/0xsalt/chatgpt-generate-finetune-jsonl/pkg/tokenizer"
)

const estimateLongDesc string = `Estimate the cost of fine-tuning on a JSONL file.

Counts the tokens of every line (chat "messages" or legacy "prompt" and
"completion" records), then prices training for every epoch and inference
for a single pass. Invalid lines are skipped with a warning.

Examples:
  finetune estimate train.jsonl
  finetune estimate train.jsonl --epochs 3 --train-price 0.008`

const estimateShortDesc string = "Estimate fine-tuning cost for a JSONL file"

var estimateFlags = []string{
	config.FlagEncoding,
	config.FlagEpochs,
	config.FlagTrainPrice,
	config.FlagInferPrice,
}

type estimateCommander struct {
	encoding   string
	epochs     int
	trainPrice float64
	inferPrice float64

	viper  *viper.Viper
	logger *slog.Logger
}

func NewEstimateCmd() *cobra.Command {
	cmder := &estimateCommander{}

	cmd := &cobra.Command{
		Use:   "estimate <file.jsonl>",
		Short: estimateShortDesc,
		Long:  estimateLongDesc,
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, config.Flags, estimateFlags)
			cmder.viper = v
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			log, closeLog, err := logger.FromCommand(cmd)
			if err != nil {
				return err
			}
			defer closeLog()
			cmder.logger = log

			return cmder.run(cmd, args[0])
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagEncoding, &cmder.encoding)
	config.AddIntFlag(cmd, config.Flags, config.FlagEpochs, &cmder.epochs)
	config.AddFloatFlag(cmd, config.Flags, config.FlagTrainPrice, &cmder.trainPrice)
	config.AddFloatFlag(cmd, config.Flags, config.FlagInferPrice, &cmder.inferPrice)

	return cmd
}

func (c *estimateCommander) run(cmd *cobra.Command, path string) error {
	pricing := estimate.Pricing{
		Epochs:          c.viper.GetInt("estimate.epochs"),
		TrainPricePer1K: c.viper.GetFloat64("estimate.train_price_per_1k"),
		InferPricePer1K: c.viper.GetFloat64("estimate.infer_price_per_1k"),
	}
	if pricing.Epochs <= 0 {
		return fmt.Errorf("--epochs must be a positive integer, got %d", pricing.Epochs)
	}

	tok := tokenizer.New(c.viper.GetString("tokenizer.encoding"), c.logger)
	estimator := estimate.New(tok, pricing, c.logger)

	var report *estimate.Report
	if err := cliui.Step(cmd.OutOrStdout(), "Counting tokens", func() error {
		var err error
		report, err = estimator.EstimateFile(path)
		return err
	}); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n", report.Summary())
	return nil
}
