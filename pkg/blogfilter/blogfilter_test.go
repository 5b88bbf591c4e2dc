package blogfilter_test

import (
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/0xsalt/chatgpt-generate-finetune-jsonl/pkg/blogfilter"
	"github.com/0xsalt/chatgpt-generate-finetune-jsonl/pkg/record"
)

const prose = "I spent the weekend in the mountains. The air was cold! Would I go back? Absolutely."

var _ = Describe("Rules", func() {
	rules := blogfilter.DefaultRules()

	DescribeTable("IsBloggy",
		func(text string, expected bool) {
			Expect(rules.IsBloggy(text)).To(Equal(expected))
		},
		Entry("prose", prose, true),
		Entry("surrounding whitespace ignored", "\n  "+prose+"  \n", true),
		Entry("too short", "Short. Very. Short.", false),
		Entry("too few sentences", strings.Repeat("word ", 20)+"end.", false),
		Entry("question opener", "How do I make this work. I tried it. It broke!", false),
		Entry("question opener any case", "WHY is this broken. I tried it. It broke! Help.", false),
		Entry("opener needs a trailing space", "However, the trail was steep. We kept going. It was worth it.", true),
		Entry("shell prompt", "Run this. $ ls -la shows it. Then continue. Done.", false),
		Entry("tool mention", "I wrote some Python code. It used the OpenAI API. Neat! Done.", false),
		Entry("flag keyword", "Set the flag in the file. Then restart. Then it works.", false),
	)
})

var _ = Describe("Filter", func() {
	var dir, in, out string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		in = filepath.Join(dir, "in.jsonl")
		out = filepath.Join(dir, "out.jsonl")
	})

	line := func(fragment string) string {
		b, err := record.New(record.DefaultInstruction, fragment).MarshalLine()
		Expect(err).NotTo(HaveOccurred())
		return string(b)
	}

	It("keeps bloggy records unchanged and counts every line", func() {
		keep := line(prose)
		input := strings.Join([]string{
			keep,
			line("What is this?"),
			"not json",
			`{"messages": [{"role": "user", "content": "x"}]}`,
		}, "\n") + "\n"
		Expect(os.WriteFile(in, []byte(input), 0o644)).To(Succeed())

		result, err := blogfilter.DefaultRules().Filter(in, out)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Kept).To(Equal(1))
		Expect(result.Total).To(Equal(4))
		Expect(result.Summary(out)).To(ContainSubstring("Filtered 1 blog-style entries out of 4 total lines."))

		data, err := os.ReadFile(out)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal(keep + "\n"))
	})

	It("applies custom thresholds", func() {
		Expect(os.WriteFile(in, []byte(line("Tiny. Post.")+"\n"), 0o644)).To(Succeed())

		rules := blogfilter.DefaultRules()
		rules.MinLength = 5
		rules.MinSentences = 2

		result, err := rules.Filter(in, out)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Kept).To(Equal(1))
	})

	It("fails when the input is missing", func() {
		_, err := blogfilter.DefaultRules().Filter(filepath.Join(dir, "missing.jsonl"), out)
		Expect(err).To(HaveOccurred())
		Expect(out).NotTo(BeAnExistingFile())
	})
})
