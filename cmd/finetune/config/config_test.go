package configcmder_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/x/ansi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	configcmder "github.com/0xsalt/chatgpt-generate-finetune-jsonl/cmd/finetune/config"
	"github.com/0xsalt/chatgpt-generate-finetune-jsonl/pkg/config"
)

var _ = Describe("NewConfigCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := configcmder.NewConfigCmd()
		Expect(cmd.Use).To(Equal("config"))
	})

	It("has set, get, and list subcommands", func() {
		cmd := configcmder.NewConfigCmd()
		cmds := cmd.Commands()
		subcommands := make([]string, 0, len(cmds))
		for _, sub := range cmds {
			subcommands = append(subcommands, sub.Name())
		}
		Expect(subcommands).To(ContainElements("set", "get", "unset", "list"))
	})
})

var _ = Describe("Config command execution", func() {
	var (
		tmpDir string
		out    *bytes.Buffer
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()

		// Create a local .finetune dir so the manager picks it up
		Expect(os.MkdirAll(filepath.Join(tmpDir, ".finetune"), 0o755)).To(Succeed())

		origDir, err := os.Getwd()
		Expect(err).NotTo(HaveOccurred())
		Expect(os.Chdir(tmpDir)).To(Succeed())
		DeferCleanup(func() { Expect(os.Chdir(origDir)).To(Succeed()) })

		out = &bytes.Buffer{}
	})

	execute := func(args ...string) error {
		cmd := configcmder.NewConfigCmd()
		cmd.SetArgs(args)
		cmd.SetOut(out)
		cmd.SetErr(io.Discard)
		return cmd.Execute()
	}

	Describe("set subcommand", func() {
		It("sets a config value successfully", func() {
			Expect(execute("set", "generate.max_tokens", "1024")).To(Succeed())
			Expect(filepath.Join(tmpDir, ".finetune", "config.toml")).To(BeAnExistingFile())
			Expect(ansi.Strip(out.String())).To(ContainSubstring("generate.max_tokens"))
		})

		It("rejects unknown keys", func() {
			Expect(execute("set", "invalid_key", "value")).NotTo(Succeed())
		})

		It("requires exactly two arguments", func() {
			Expect(execute("set", "generate.max_tokens")).NotTo(Succeed())
			Expect(execute("set")).NotTo(Succeed())
		})

		It("rejects invalid values", func() {
			Expect(execute("set", "generate.max_tokens", "0")).NotTo(Succeed())
		})
	})

	Describe("get subcommand", func() {
		It("gets a previously set value", func() {
			Expect(execute("set", "tokenizer.encoding", "o200k_base")).To(Succeed())

			out.Reset()
			Expect(execute("get", "tokenizer.encoding")).To(Succeed())
			Expect(ansi.Strip(out.String())).To(ContainSubstring("o200k_base"))
		})

		It("shows the default for an unset key", func() {
			Expect(execute("get", "generate.instruction")).To(Succeed())
			Expect(ansi.Strip(out.String())).To(ContainSubstring("Write a blog post in my voice."))
		})

		It("rejects unknown keys", func() {
			Expect(execute("get", "invalid_key")).NotTo(Succeed())
		})

		It("requires exactly one argument", func() {
			Expect(execute("get")).NotTo(Succeed())
		})
	})

	Describe("unset subcommand", func() {
		It("restores the default value", func() {
			Expect(execute("set", "generate.max_tokens", "64")).To(Succeed())

			out.Reset()
			Expect(execute("unset", "generate.max_tokens")).To(Succeed())
			Expect(ansi.Strip(out.String())).To(ContainSubstring(`generate.max_tokens = "2048" (was "64")`))

			out.Reset()
			Expect(execute("get", "generate.max_tokens")).To(Succeed())
			Expect(ansi.Strip(out.String())).To(ContainSubstring("2048"))
		})

		It("rejects unknown keys", func() {
			Expect(execute("unset", "invalid_key")).NotTo(Succeed())
		})
	})

	Describe("list subcommand", func() {
		It("lists every key with defaults when no config exists", func() {
			Expect(execute("list")).To(Succeed())
			Expect(ansi.Strip(out.String())).To(ContainSubstring(`generate.max_tokens`))
			Expect(ansi.Strip(out.String())).To(ContainSubstring(`"2048"`))
			Expect(ansi.Strip(out.String())).To(ContainSubstring(`filter.min_sentences`))
		})

		It("shows an empty value as not set", func() {
			Expect(execute("set", "generate.errors_path", "")).To(Succeed())

			out.Reset()
			Expect(execute("list")).To(Succeed())
			Expect(ansi.Strip(out.String())).To(MatchRegexp(`generate\.errors_path\s+= <not set>`))
		})

		It("marks values that differ from the defaults", func() {
			Expect(execute("set", "filter.min_length", "90")).To(Succeed())

			out.Reset()
			Expect(execute("list")).To(Succeed())
			Expect(ansi.Strip(out.String())).To(MatchRegexp(`filter\.min_length\s+= "90"\n`))
			Expect(ansi.Strip(out.String())).To(MatchRegexp(`filter\.min_sentences\s+= "3" \(default\)`))
			Expect(ansi.Strip(out.String())).To(ContainSubstring("[estimate]"))
		})

		It("prints the effective config as TOML", func() {
			Expect(execute("set", "generate.max_tokens", "512")).To(Succeed())

			out.Reset()
			Expect(execute("list", "--toml")).To(Succeed())
			cfg, err := config.ParseConfigTOML(out.Bytes())
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Generate.MaxTokens).To(Equal(512))
			Expect(cfg.Tokenizer.Encoding).To(Equal("cl100k_base"))
		})

		It("rejects any arguments", func() {
			Expect(execute("list", "extra")).NotTo(Succeed())
		})
	})

	It("honors --config-dir from the parent command", func() {
		override := filepath.Join(tmpDir, "elsewhere")

		root := &cobra.Command{Use: "finetune"}
		root.PersistentFlags().String("config-dir", "", "")
		root.AddCommand(configcmder.NewConfigCmd())
		root.SetArgs([]string{"config", "set", "filter.min_length", "90", "--config-dir", override})
		root.SetOut(out)

		Expect(root.Execute()).To(Succeed())
		Expect(filepath.Join(override, "config.toml")).To(BeAnExistingFile())
	})
})
