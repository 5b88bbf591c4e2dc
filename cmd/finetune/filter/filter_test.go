package filtercmder_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	filtercmder "github.com/0xsalt/chatgpt-generate-finetune-jsonl/cmd/finetune/filter"
	"github.com/0xsalt/chatgpt-generate-finetune-jsonl/pkg/record"
)

const prose = "I spent the weekend in the mountains. The air was cold! Would I go back? Absolutely."

var _ = Describe("filter command", func() {
	var (
		dir     string
		in, dst string
		out     *bytes.Buffer
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		in = filepath.Join(dir, "train.jsonl")
		dst = filepath.Join(dir, "blog.jsonl")
		out = &bytes.Buffer{}

		var content []byte
		for _, text := range []string{prose, "How do I fix this?"} {
			line, err := record.New(record.DefaultInstruction, text).MarshalLine()
			Expect(err).NotTo(HaveOccurred())
			content = append(content, line...)
			content = append(content, '\n')
		}
		Expect(os.WriteFile(in, content, 0o644)).To(Succeed())
	})

	execute := func(args ...string) error {
		cmd := filtercmder.NewFilterCmd()
		cmd.SetArgs(args)
		cmd.SetOut(out)
		cmd.SetErr(io.Discard)
		return cmd.Execute()
	}

	It("requires two arguments", func() {
		Expect(execute(in)).NotTo(Succeed())
	})

	It("keeps only blog-style records", func() {
		Expect(execute(in, dst)).To(Succeed())
		Expect(out.String()).To(ContainSubstring("Filtered 1 blog-style entries out of 2 total lines."))

		raw, err := os.ReadFile(dst)
		Expect(err).NotTo(HaveOccurred())
		r, err := record.ParseLine(bytes.TrimSpace(raw))
		Expect(err).NotTo(HaveOccurred())
		content, _ := r.Assistant()
		Expect(content).To(ContainSubstring("mountains"))
	})

	It("honors --min-length", func() {
		Expect(execute(in, dst, "--min-length", "1000")).To(Succeed())
		Expect(out.String()).To(ContainSubstring("Filtered 0 blog-style entries"))
	})
})
