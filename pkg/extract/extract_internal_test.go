package extract

import (
	"encoding/json"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/0xsalt/chatgpt-generate-finetune-jsonl/pkg/diagnostics"
	"github.com/0xsalt/chatgpt-generate-finetune-jsonl/pkg/export"
)

var _ = Describe("Extractor panics", func() {
	It("records a panicking conversation as an exception and keeps going", func() {
		e := New(nil)
		e.decode = func(raw json.RawMessage) (*export.Conversation, error) {
			if strings.Contains(string(raw), "explodes") {
				panic("unexpected node shape")
			}
			return export.DecodeConversation(raw)
		}

		exp, err := export.Parse([]byte(`[
			"explodes",
			{"mapping": {"u": {"message": {"author": {"role": "user"}, "content": {"parts": ["after"]}}}}}
		]`))
		Expect(err).NotTo(HaveOccurred())

		result := e.Extract(exp)
		Expect(result.Fragments).To(Equal([]string{"after"}))
		Expect(result.Skipped).To(Equal(1))
		Expect(result.Diagnostics).To(HaveLen(1))

		entry := result.Diagnostics[0]
		Expect(entry.Type).To(Equal(diagnostics.TypeException))
		Expect(entry.ConversationIndex).To(BeZero())
		Expect(entry.Error).To(ContainSubstring("panic: unexpected node shape"))
	})
})
