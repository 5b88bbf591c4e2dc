// Package record builds chat fine-tuning records and reads and writes them
// as JSONL.
package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
)

// DefaultInstruction is the fixed user turn of every record.
const DefaultInstruction = "Write a blog post in my voice."

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a chat record.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRecord is one training example.
type ChatRecord struct {
	Messages []Message `json:"messages"`
}

// New builds a record pairing instruction with the assistant rendering of
// fragment.
func New(instruction, fragment string) ChatRecord {
	return ChatRecord{
		Messages: []Message{
			{Role: RoleUser, Content: instruction},
			{Role: RoleAssistant, Content: AssistantContent(fragment)},
		},
	}
}

// AssistantContent renders a fragment as " <fragment>\n" with trailing
// whitespace removed from the fragment first.
func AssistantContent(fragment string) string {
	return " " + strings.TrimRightFunc(fragment, unicode.IsSpace) + "\n"
}

// Assistant returns the content of the first assistant turn.
func (r ChatRecord) Assistant() (string, bool) {
	for _, m := range r.Messages {
		if m.Role == RoleAssistant {
			return m.Content, true
		}
	}
	return "", false
}

// MarshalLine encodes the record as a single JSON line without the trailing
// newline, using ", " and ": " separators. Strings are not HTML-escaped and
// non-ASCII characters, line and paragraph separators included, are kept as
// is.
func (r ChatRecord) MarshalLine() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"messages": [`)

	for i, m := range r.Messages {
		if i > 0 {
			buf.WriteString(", ")
		}

		role, err := quote(m.Role)
		if err != nil {
			return nil, err
		}
		content, err := quote(m.Content)
		if err != nil {
			return nil, err
		}

		buf.WriteString(`{"role": `)
		buf.Write(role)
		buf.WriteString(`, "content": `)
		buf.Write(content)
		buf.WriteByte('}')
	}

	buf.WriteString("]}")
	return buf.Bytes(), nil
}

// ParseLine decodes one JSONL line into a record.
func ParseLine(line []byte) (*ChatRecord, error) {
	var r ChatRecord
	if err := json.Unmarshal(line, &r); err != nil {
		return nil, fmt.Errorf("decoding record: %w", err)
	}
	return &r, nil
}

func quote(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return unescapeSeparators(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

var (
	lineSeparator      = []byte(`\u2028`)
	paragraphSeparator = []byte(`\u2029`)
)

// unescapeSeparators writes U+2028 and U+2029 as raw characters. The encoder
// always escapes them, unlike every other non-ASCII character. Escaped
// backslashes are skipped as pairs so a literal `\\u2028` is left alone.
func unescapeSeparators(b []byte) []byte {
	if !bytes.Contains(b, lineSeparator) && !bytes.Contains(b, paragraphSeparator) {
		return b
	}

	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		switch {
		case b[i] != '\\' || i+1 == len(b):
			out = append(out, b[i])
		case bytes.HasPrefix(b[i:], lineSeparator):
			out = append(out, "\u2028"...)
			i += len(lineSeparator) - 1
		case bytes.HasPrefix(b[i:], paragraphSeparator):
			out = append(out, "\u2029"...)
			i += len(paragraphSeparator) - 1
		default:
			out = append(out, b[i], b[i+1])
			i++
		}
	}
	return out
}
