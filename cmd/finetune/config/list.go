package configcmder

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/0xsalt/chatgpt-generate-finetune-jsonl/pkg/cliui"
	"github.com/0xsalt/chatgpt-generate-finetune-jsonl/pkg/config"
)

const listLongDesc string = `List the effective value of every configuration key.

Values come from config.toml in the .finetune/ directory with defaults
filled in; keys still at their default are marked. With --toml the effective
configuration is printed as a config.toml document instead.

Examples:
  finetune config list
  finetune config list --toml > .finetune/config.toml`

const listShortDesc string = "List all configuration values"

type listCommander struct {
	asTOML bool
}

func newListCmd() *cobra.Command {
	cmder := &listCommander{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: listShortDesc,
		Long:  listLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return cmder.run(cmd.OutOrStdout(), configDir)
		},
	}

	cmd.Flags().BoolVar(&cmder.asTOML, "toml", false, "Print the effective config as TOML")

	return cmd
}

func (c *listCommander) run(w io.Writer, configDir string) error {
	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if c.asTOML {
		cfg, err := cfger.LoadConfig()
		if err != nil {
			return err
		}
		return config.EncodeTOML(w, cfg)
	}

	printTarget(w, cfger.GetTarget())

	keys := config.ValidConfigKeys()
	width := 0
	for _, k := range keys {
		width = max(width, len(k))
	}

	section := ""
	for _, key := range keys {
		if s, _, _ := strings.Cut(key, "."); s != section {
			section = s
			fmt.Fprintf(w, "  %s\n", cliui.DimStyle.Render("["+section+"]"))
		}

		value, err := cfger.GetConfigValue(key)
		if err != nil {
			return err
		}

		rendered := cliui.DimStyle.Render("<not set>")
		if value != "" {
			rendered = cliui.ValueStyle.Render(strconv.Quote(value))
		}
		if def, _ := config.DefaultConfigValue(key); def == value {
			rendered += " " + cliui.DimStyle.Render("(default)")
		}

		fmt.Fprintf(w, "    %-*s = %s\n", width, key, rendered)
	}

	fmt.Fprintln(w)
	return nil
}
