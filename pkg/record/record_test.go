package record_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/0xsalt/chatgpt-generate-finetune-jsonl/pkg/record"
)

var _ = Describe("AssistantContent", func() {
	DescribeTable("renders fragments with a leading space and one trailing newline",
		func(fragment, expected string) {
			Expect(record.AssistantContent(fragment)).To(Equal(expected))
		},
		Entry("plain", "Hello world.", " Hello world.\n"),
		Entry("trailing whitespace", "Hello world.  \n\t", " Hello world.\n"),
		Entry("leading whitespace kept", "  indented", "   indented\n"),
		Entry("unicode trailing space", "done ", " done\n"),
	)
})

var _ = Describe("ChatRecord", func() {
	It("marshals to the exact line format", func() {
		line, err := record.New(record.DefaultInstruction, "Hello world. Great!").MarshalLine()
		Expect(err).NotTo(HaveOccurred())
		Expect(string(line)).To(Equal(
			`{"messages": [{"role": "user", "content": "Write a blog post in my voice."}, {"role": "assistant", "content": " Hello world. Great!\n"}]}`,
		))
	})

	It("keeps non-ASCII and HTML characters unescaped", func() {
		line, err := record.New("inst", `café <b>"ok"</b>`).MarshalLine()
		Expect(err).NotTo(HaveOccurred())
		Expect(string(line)).To(ContainSubstring(`" café <b>\"ok\"</b>\n"`))
	})

	It("writes line and paragraph separators raw", func() {
		line, err := record.New("inst", "one\u2028two\u2029three").MarshalLine()
		Expect(err).NotTo(HaveOccurred())
		Expect(string(line)).To(ContainSubstring("\" one\u2028two\u2029three\\n\""))
		Expect(string(line)).NotTo(ContainSubstring(`\u2028`))

		parsed, err := record.ParseLine(line)
		Expect(err).NotTo(HaveOccurred())
		content, _ := parsed.Assistant()
		Expect(content).To(Equal(" one\u2028two\u2029three\n"))
	})

	It("keeps an escaped backslash before a literal u2028", func() {
		line, err := record.New("inst", `path\u2028`).MarshalLine()
		Expect(err).NotTo(HaveOccurred())
		Expect(string(line)).To(ContainSubstring(`" path\\u2028\n"`))

		parsed, err := record.ParseLine(line)
		Expect(err).NotTo(HaveOccurred())
		content, _ := parsed.Assistant()
		Expect(content).To(Equal(" path\\u2028\n"))
	})

	It("round trips through ParseLine", func() {
		original := record.New("inst", "body")
		line, err := original.MarshalLine()
		Expect(err).NotTo(HaveOccurred())

		parsed, err := record.ParseLine(line)
		Expect(err).NotTo(HaveOccurred())
		Expect(*parsed).To(Equal(original))

		content, ok := parsed.Assistant()
		Expect(ok).To(BeTrue())
		Expect(content).To(Equal(" body\n"))
	})

	It("rejects invalid lines", func() {
		_, err := record.ParseLine([]byte("{not json"))
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Formatter", func() {
	It("uses the default instruction when none is given", func() {
		f := record.NewFormatter("")
		Expect(f.Instruction).To(Equal(record.DefaultInstruction))
	})

	It("creates one record per fragment in order", func() {
		records := record.NewFormatter("Write.").Format([]string{"a", "b"})
		Expect(records).To(HaveLen(2))
		Expect(records[0].Messages[0]).To(Equal(record.Message{Role: "user", Content: "Write."}))
		Expect(records[0].Messages[1].Content).To(Equal(" a\n"))
		Expect(records[1].Messages[1].Content).To(Equal(" b\n"))
	})

	It("returns an empty slice for no fragments", func() {
		Expect(record.NewFormatter("").Format(nil)).To(BeEmpty())
	})
})

var _ = Describe("WriteFile", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	It("writes one line per record", func() {
		path := filepath.Join(dir, "out.jsonl")
		records := record.NewFormatter("").Format([]string{"one", "two"})

		n, err := record.WriteFile(path, records)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(2))

		data, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
		Expect(lines).To(HaveLen(2))
		Expect(lines[1]).To(ContainSubstring(`"content": " two\n"`))
	})

	It("truncates an existing file and writes nothing for no records", func() {
		path := filepath.Join(dir, "out.jsonl")
		Expect(os.WriteFile(path, []byte("stale\n"), 0o644)).To(Succeed())

		n, err := record.WriteFile(path, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(BeZero())

		data, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(data).To(BeEmpty())
	})

	It("returns ErrWrite when the file cannot be created", func() {
		path := filepath.Join(dir, "missing", "out.jsonl")

		_, err := record.WriteFile(path, nil)
		var werr record.ErrWrite
		Expect(errors.As(err, &werr)).To(BeTrue())
		Expect(werr.Path).To(Equal(path))
		Expect(err.Error()).To(ContainSubstring("could not write to output file"))
	})
})

var _ = Describe("ScanLines", func() {
	It("numbers lines from one", func() {
		var seen []int
		err := record.ScanLines(bytes.NewBufferString("a\nb\nc"), func(n int, _ []byte) error {
			seen = append(seen, n)
			return nil
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(seen).To(Equal([]int{1, 2, 3}))
	})

	It("stops at the first callback error", func() {
		stop := errors.New("stop")
		calls := 0
		err := record.ScanLines(bytes.NewBufferString("a\nb"), func(int, []byte) error {
			calls++
			return stop
		})
		Expect(err).To(MatchError(stop))
		Expect(calls).To(Equal(1))
	})
})
