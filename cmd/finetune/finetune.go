// Package finetunecmder is the root finetune command: it converts a
// conversation export into fine-tuning JSONL.
package finetunecmder

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	configcmder "github.com/0xsalt/chatgpt-generate-finetune-jsonl/cmd/finetune/config"
	estimatecmder "github.com/0xsalt/chatgpt-generate-finetune-jsonl/cmd/finetune/estimate"
	filtercmder "github.com/0xsalt/chatgpt-generate-finetune-jsonl/cmd/finetune/filter"
	versioncmder "github.com/0xsalt/chatgpt-generate-finetune-jsonl/cmd/version"
	"github.com/0xsalt/chatgpt-generate-finetune-jsonl/pkg/cliui"
	"github.com/0xsalt/chatgpt-generate-finetune-jsonl/pkg/config"
	"github.com/0xsalt/chatgpt-generate-finetune-jsonl/pkg/logger"
	"github.com/0xsalt/chatgpt-generate-finetune-jsonl/pkg/pipeline"
	"github.com/0xsalt/chatgpt-generate-finetune-jsonl/pkg/tokenizer"
	"github.com/0xsalt/chatgpt-generate-finetune-jsonl/pkg/utils"
)

const finetuneLongDesc string = `Convert a ChatGPT conversations.json export into fine-tuning JSONL.

Every user-authored message becomes one chat record whose assistant turn is
the message, truncated to a token budget and deduplicated. Skipped content is
logged to a diagnostics JSONL file.

Run without arguments for a usage guide.

Examples:
  finetune conversations.json train.jsonl
  finetune conversations.json train.jsonl --max-tokens 1024
  finetune conversations.json train.jsonl --no-remove-duplicates --errors ""
  finetune conversations.json train.jsonl --watch`

const finetuneShortDesc string = "Generate fine-tuning JSONL from a conversation export"

var finetuneFlags = []string{
	config.FlagMaxTokens,
	config.FlagErrors,
	config.FlagInstruction,
	config.FlagEncoding,
}

type finetuneCommander struct {
	maxTokens          int
	noRemoveDuplicates bool
	errorsPath         string
	instruction        string
	encoding           string
	watch              bool

	viper  *viper.Viper
	logger *slog.Logger
}

func NewFinetuneCmd() *cobra.Command {
	cmder := &finetuneCommander{}

	cmd := &cobra.Command{
		Use:     "finetune <input_file> <output_file>",
		Short:   finetuneShortDesc,
		Long:    finetuneLongDesc,
		Version: utils.Version,
		Args:    noneOrPair,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return nil
			}

			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, config.Flags, finetuneFlags)
			if cmder.noRemoveDuplicates {
				v.Set("generate.remove_duplicates", false)
			}

			if n := v.GetInt("generate.max_tokens"); n <= 0 {
				return fmt.Errorf("--max-tokens must be a positive integer, got %d", n)
			}

			cmder.viper = v
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return printUsageGuide(cmd.OutOrStdout())
			}
			cmd.SilenceUsage = true

			log, closeLog, err := logger.FromCommand(cmd)
			if err != nil {
				return err
			}
			defer closeLog()
			cmder.logger = log

			return cmder.run(cmd, args[0], args[1])
		},
	}

	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")
	cmd.PersistentFlags().String("log-file", "", "Also write debug JSON logs to this file")
	cmd.PersistentFlags().String("config-dir", "", "Override path to .finetune/ config directory")

	config.AddIntFlag(cmd, config.Flags, config.FlagMaxTokens, &cmder.maxTokens)
	config.AddStringFlag(cmd, config.Flags, config.FlagErrors, &cmder.errorsPath)
	config.AddStringFlag(cmd, config.Flags, config.FlagInstruction, &cmder.instruction)
	config.AddStringFlag(cmd, config.Flags, config.FlagEncoding, &cmder.encoding)
	cmd.Flags().BoolVar(&cmder.noRemoveDuplicates, "no-remove-duplicates", false, "Keep exact duplicate messages")
	cmd.Flags().BoolVarP(&cmder.watch, "watch", "w", false, "Re-run whenever the input file changes")

	cmd.AddCommand(estimatecmder.NewEstimateCmd())
	cmd.AddCommand(filtercmder.NewFilterCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}

func (c *finetuneCommander) run(cmd *cobra.Command, input, output string) error {
	opts := pipeline.Options{
		InputPath:        input,
		OutputPath:       output,
		ErrorsPath:       c.viper.GetString("generate.errors_path"),
		Instruction:      c.viper.GetString("generate.instruction"),
		MaxTokens:        c.viper.GetInt("generate.max_tokens"),
		RemoveDuplicates: c.viper.GetBool("generate.remove_duplicates"),
	}

	tok := tokenizer.New(c.viper.GetString("tokenizer.encoding"), c.logger)
	c.logger.Debug("tokenizer ready", "backend", tok.Name())

	runner := pipeline.NewRunner(tok, c.logger)
	out := cmd.OutOrStdout()

	if !c.watch {
		result, err := runner.Run(cmd.Context(), opts)
		if err != nil {
			return err
		}
		printResult(out, opts, result)
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c.logger.Info("watching for changes, press Ctrl+C to stop", "path", input)
	return runner.Watch(ctx, opts, pipeline.DefaultDebounce, func(result *pipeline.Result, err error) {
		if err != nil {
			c.logger.Error("run failed", "error", err)
			fmt.Fprintf(out, "  %s %v\n", cliui.FailMark, err)
			return
		}
		printResult(out, opts, result)
	})
}

func printResult(w io.Writer, opts pipeline.Options, result *pipeline.Result) {
	fmt.Fprintf(w, "  %s Wrote %d records to %s %s\n",
		cliui.SuccessMark,
		result.Records,
		cliui.ValueStyle.Render(opts.OutputPath),
		cliui.Elapsed(result.Duration),
	)
	cliui.Field(w, "Instruction:", utils.Truncate(opts.Instruction, 60))
	fmt.Fprintln(w, cliui.DimStyle.Render(result.Summary()))
	if result.DiagnosticsErr != nil {
		cliui.Warn(w, "diagnostics were not saved")
	}
}

func printUsageGuide(w io.Writer) error {
	rendered, err := cliui.RenderMarkdown(usageGuide, cliui.DefaultWrap)
	if err != nil {
		rendered = usageGuide
	}
	_, err = fmt.Fprint(w, rendered)
	return err
}

// noneOrPair accepts either no arguments (usage guide) or input and output.
func noneOrPair(_ *cobra.Command, args []string) error {
	if len(args) == 0 || len(args) == 2 {
		return nil
	}
	return fmt.Errorf("requires <input_file> and <output_file>, received %d arg(s)", len(args))
}
