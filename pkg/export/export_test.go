package export_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/0xsalt/chatgpt-generate-finetune-jsonl/pkg/export"
)

var _ = Describe("Load", func() {
	var tmpDir string

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
	})

	It("loads an array of conversations", func() {
		path := filepath.Join(tmpDir, "conversations.json")
		Expect(os.WriteFile(path, []byte(`[{"mapping": {}}, {"title": "b"}]`), 0o644)).To(Succeed())

		exp, err := export.Load(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(exp.Len()).To(Equal(2))
		Expect(exp.Path).To(Equal(path))
	})

	It("returns ErrLoad for a missing file", func() {
		_, err := export.Load(filepath.Join(tmpDir, "missing.json"))
		Expect(err).To(HaveOccurred())

		var loadErr export.ErrLoad
		Expect(errors.As(err, &loadErr)).To(BeTrue())
		Expect(errors.Is(err, os.ErrNotExist)).To(BeTrue())
	})

	It("returns ErrParse for unparseable text", func() {
		path := filepath.Join(tmpDir, "broken.json")
		Expect(os.WriteFile(path, []byte(`[{"mapping": `), 0o644)).To(Succeed())

		_, err := export.Load(path)
		var parseErr export.ErrParse
		Expect(errors.As(err, &parseErr)).To(BeTrue())
		Expect(parseErr.Path).To(Equal(path))
		Expect(err.Error()).To(ContainSubstring("invalid JSON format"))
	})

	It("returns ErrParse when the top level is an object", func() {
		path := filepath.Join(tmpDir, "object.json")
		Expect(os.WriteFile(path, []byte(`{"mapping": {}}`), 0o644)).To(Succeed())

		_, err := export.Load(path)
		var parseErr export.ErrParse
		Expect(errors.As(err, &parseErr)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("an object"))
	})

	It("returns ErrParse for an empty file", func() {
		path := filepath.Join(tmpDir, "empty.json")
		Expect(os.WriteFile(path, nil, 0o644)).To(Succeed())

		_, err := export.Load(path)
		var parseErr export.ErrParse
		Expect(errors.As(err, &parseErr)).To(BeTrue())
	})
})

var _ = Describe("Parse", func() {
	DescribeTable("reports the decoder error for invalid JSON",
		func(doc, expected string) {
			_, err := export.Parse([]byte(doc))
			Expect(err).To(HaveOccurred())

			var syntaxErr *json.SyntaxError
			Expect(errors.As(err, &syntaxErr)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring(expected))
			Expect(err.Error()).NotTo(ContainSubstring("top level"))
		},
		Entry("plain text", "not json", "invalid character"),
		Entry("truncated object", `{"mapping": `, "unexpected end of JSON input"),
		Entry("truncated null", "nul", "unexpected end of JSON input"),
		Entry("truncated array", `[{"mapping": {}}`, "unexpected end of JSON input"),
	)

	DescribeTable("names the kind of a valid document that is not an array",
		func(doc, kind string) {
			_, err := export.Parse([]byte(doc))
			Expect(err).To(MatchError(ContainSubstring("top level must be an array of conversations, found " + kind)))
		},
		Entry("object", `{"mapping": {}}`, "an object"),
		Entry("string", `"conversations"`, "a string"),
		Entry("null", "null", "null"),
		Entry("number", "42", "a number"),
		Entry("boolean", "true", "a boolean"),
	)
})

var _ = Describe("DecodeConversation", func() {
	It("keeps nodes in document order", func() {
		raw := json.RawMessage(`{"title": "t", "mapping": {
			"z": {"message": null},
			"a": {"message": {"author": {"role": "user"}, "content": {"parts": ["one"]}}},
			"m": {"message": {"author": {"role": "assistant"}, "content": {"parts": ["two"]}}}
		}}`)

		conv, err := export.DecodeConversation(raw)
		Expect(err).NotTo(HaveOccurred())
		Expect(conv.Title).To(Equal("t"))
		Expect(conv.HasMapping()).To(BeTrue())
		Expect(conv.Mapping).To(HaveLen(3))
		Expect(conv.Mapping[0].ID).To(Equal("z"))
		Expect(conv.Mapping[1].ID).To(Equal("a"))
		Expect(conv.Mapping[2].ID).To(Equal("m"))

		Expect(conv.Mapping[0].Node.Message).To(BeNil())
		Expect(conv.Mapping[0].Node.Message.IsUser()).To(BeFalse())
		Expect(conv.Mapping[1].Node.Message.IsUser()).To(BeTrue())
		Expect(conv.Mapping[2].Node.Message.IsUser()).To(BeFalse())
	})

	DescribeTable("treats empty mappings as absent",
		func(raw string) {
			conv, err := export.DecodeConversation(json.RawMessage(raw))
			Expect(err).NotTo(HaveOccurred())
			Expect(conv.HasMapping()).To(BeFalse())
		},
		Entry("missing", `{"title": "x"}`),
		Entry("null", `{"mapping": null}`),
		Entry("empty object", `{"mapping": { }}`),
		Entry("empty array", `{"mapping": []}`),
		Entry("empty string", `{"mapping": ""}`),
		Entry("zero", `{"mapping": 0}`),
		Entry("false", `{"mapping": false}`),
	)

	DescribeTable("rejects malformed conversations",
		func(raw string) {
			_, err := export.DecodeConversation(json.RawMessage(raw))
			Expect(err).To(HaveOccurred())
		},
		Entry("not an object", `"conversation"`),
		Entry("null", `null`),
		Entry("mapping is an array", `{"mapping": [1]}`),
		Entry("mapping is a string", `{"mapping": "nodes"}`),
		Entry("node is null", `{"mapping": {"a": null}}`),
		Entry("node is a string", `{"mapping": {"a": "node"}}`),
		Entry("message is a number", `{"mapping": {"a": {"message": 3}}}`),
		Entry("message is an array", `{"mapping": {"a": {"message": [1]}}}`),
	)

	It("ignores node fields other than the message", func() {
		raw := json.RawMessage(`{"mapping": {
			"a": {"id": 7, "parent": 5, "children": "b", "message": {"id": [], "author": {"role": "user"}, "content": {"parts": ["kept"]}}}
		}}`)

		conv, err := export.DecodeConversation(raw)
		Expect(err).NotTo(HaveOccurred())
		Expect(conv.Mapping[0].Node.Message.IsUser()).To(BeTrue())

		parts, err := conv.Mapping[0].Node.Message.Parts()
		Expect(err).NotTo(HaveOccurred())
		Expect(parts).To(HaveLen(1))
	})

	DescribeTable("reads the author role leniently",
		func(message string, isUser bool) {
			conv, err := export.DecodeConversation(json.RawMessage(`{"mapping": {"a": {"message": ` + message + `}}}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(conv.Mapping[0].Node.Message.IsUser()).To(Equal(isUser))
		},
		Entry("user", `{"author": {"role": "user"}}`, true),
		Entry("tool with string content", `{"author": {"role": "tool"}, "content": "raw tool text"}`, false),
		Entry("missing author", `{"content": {"parts": ["x"]}}`, false),
		Entry("author is a string", `{"author": "user"}`, false),
		Entry("role is a number", `{"author": {"role": 1}}`, false),
	)
})

var _ = Describe("Message.Parts", func() {
	decodeMessage := func(message string) *export.Message {
		conv, err := export.DecodeConversation(json.RawMessage(`{"mapping": {"a": {"message": ` + message + `}}}`))
		Expect(err).NotTo(HaveOccurred())
		return conv.Mapping[0].Node.Message
	}

	DescribeTable("yields no parts without content",
		func(message string) {
			parts, err := decodeMessage(message).Parts()
			Expect(err).NotTo(HaveOccurred())
			Expect(parts).To(BeEmpty())
		},
		Entry("missing content", `{"author": {"role": "user"}}`),
		Entry("null content", `{"author": {"role": "user"}, "content": null}`),
		Entry("missing parts", `{"author": {"role": "user"}, "content": {"content_type": "text"}}`),
		Entry("null parts", `{"author": {"role": "user"}, "content": {"parts": null}}`),
	)

	DescribeTable("rejects content of the wrong shape",
		func(message string) {
			_, err := decodeMessage(message).Parts()
			Expect(err).To(HaveOccurred())
		},
		Entry("content is a string", `{"author": {"role": "user"}, "content": "text"}`),
		Entry("parts is an object", `{"author": {"role": "user"}, "content": {"parts": {"a": "b"}}}`),
		Entry("parts is a string", `{"author": {"role": "user"}, "content": {"parts": "text"}}`),
	)
})

var _ = Describe("ParsePart", func() {
	It("parses plain text", func() {
		part, err := export.ParsePart(json.RawMessage(`"  hello  "`))
		Expect(err).NotTo(HaveOccurred())
		Expect(part.Kind).To(Equal(export.PartPlainText))
		Expect(part.Text).To(Equal("  hello  "))
		Expect(part.IsText()).To(BeTrue())
	})

	It("parses audio transcriptions", func() {
		part, err := export.ParsePart(json.RawMessage(`{"content_type": "audio_transcription", "text": "hello"}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(part.Kind).To(Equal(export.PartAudioTranscription))
		Expect(part.Text).To(Equal("hello"))
		Expect(part.IsText()).To(BeTrue())
	})

	It("treats a missing transcription text as empty", func() {
		part, err := export.ParsePart(json.RawMessage(`{"content_type": "audio_transcription"}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(part.Kind).To(Equal(export.PartAudioTranscription))
		Expect(part.Text).To(BeEmpty())
	})

	It("fails when the transcription text is not a string", func() {
		_, err := export.ParsePart(json.RawMessage(`{"content_type": "audio_transcription", "text": 42}`))
		Expect(err).To(HaveOccurred())
	})

	It("tags other structured parts", func() {
		raw := json.RawMessage(`{"content_type": "image_asset_pointer", "asset_pointer": "file-service://x"}`)
		part, err := export.ParsePart(raw)
		Expect(err).NotTo(HaveOccurred())
		Expect(part.Kind).To(Equal(export.PartOther))
		Expect(part.ContentType).To(Equal("image_asset_pointer"))
		Expect(string(part.Raw)).To(Equal(string(raw)))
		Expect(part.IsText()).To(BeFalse())
	})

	It("reports untagged structured parts as unknown", func() {
		part, err := export.ParsePart(json.RawMessage(`{"width": 10}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(part.Kind).To(Equal(export.PartOther))
		Expect(part.ContentType).To(Equal(export.UnknownContentType))
	})

	DescribeTable("marks other shapes unsupported",
		func(raw string) {
			part, err := export.ParsePart(json.RawMessage(raw))
			Expect(err).NotTo(HaveOccurred())
			Expect(part.Kind).To(Equal(export.PartUnsupported))
		},
		Entry("number", `7`),
		Entry("null", `null`),
		Entry("array", `["a"]`),
		Entry("boolean", `true`),
	)
})
