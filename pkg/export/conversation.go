package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// RoleUser is the author role of user-authored messages.
const RoleUser = "user"

// Conversation is a single conversation of the export. Its node mapping is
// kept in document order.
type Conversation struct {
	Title   string
	Mapping Mapping
}

// HasMapping reports whether the conversation carries at least one node.
func (c *Conversation) HasMapping() bool {
	return c != nil && len(c.Mapping) > 0
}

// MappingEntry pairs an opaque node id with its node.
type MappingEntry struct {
	ID   string
	Node Node
}

// Mapping is the node graph of a conversation, ordered as the node ids appear
// in the document.
type Mapping []MappingEntry

// UnmarshalJSON decodes a JSON object into an ordered list of entries.
func (m *Mapping) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*m = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("mapping is not an object")
	}

	entries := Mapping{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected mapping key %v", keyTok)
		}

		var rawNode json.RawMessage
		if err := dec.Decode(&rawNode); err != nil {
			return fmt.Errorf("node %s: %w", key, err)
		}
		var node Node
		if err := json.Unmarshal(rawNode, &node); err != nil {
			return fmt.Errorf("node %s: %w", key, err)
		}
		entries = append(entries, MappingEntry{ID: key, Node: node})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*m = entries
	return nil
}

// Node is a vertex of the conversation graph. Only the message is read; ids
// and parent/children links are never decoded. Nodes without a message are
// inert.
type Node struct {
	Message *Message
}

// UnmarshalJSON decodes a node object. A null, false or empty message leaves
// Message nil.
func (n *Node) UnmarshalJSON(data []byte) error {
	fields, err := decodeObject(data, "node")
	if err != nil {
		return err
	}

	raw, ok := fields["message"]
	if !ok || isEmptyValue(raw) {
		n.Message = nil
		return nil
	}

	msg := &Message{}
	if err := json.Unmarshal(raw, msg); err != nil {
		return err
	}
	n.Message = msg
	return nil
}

// Message is a single authored message. Content is kept raw and decoded by
// Parts, so messages by other authors are never inspected past their role.
type Message struct {
	Author  Author
	Content json.RawMessage
}

// UnmarshalJSON decodes the author role and keeps the content undecoded.
func (m *Message) UnmarshalJSON(data []byte) error {
	fields, err := decodeObject(data, "message")
	if err != nil {
		return err
	}

	m.Author = Author{}
	if raw, ok := fields["author"]; ok {
		var author map[string]json.RawMessage
		// An author that is not an object has no role.
		if json.Unmarshal(raw, &author) == nil {
			// A role that is not a string is never the user role.
			_ = json.Unmarshal(author["role"], &m.Author.Role)
		}
	}
	m.Content = fields["content"]
	return nil
}

// IsUser reports whether the message was authored by the user.
func (m *Message) IsUser() bool {
	return m != nil && m.Author.Role == RoleUser
}

// Parts decodes the ordered raw parts of the message content. Parts are
// classified with ParsePart since their shape varies. Absent content or
// parts yield no parts; content that is not an object or parts that are not
// an array are errors.
func (m *Message) Parts() ([]json.RawMessage, error) {
	if m == nil || len(m.Content) == 0 || isNull(m.Content) {
		return nil, nil
	}

	fields, err := decodeObject(m.Content, "content")
	if err != nil {
		return nil, err
	}

	raw, ok := fields["parts"]
	if !ok {
		return nil, nil
	}

	var parts []json.RawMessage
	if err := json.Unmarshal(raw, &parts); err != nil {
		return nil, fmt.Errorf("parts is not an array: %w", err)
	}
	return parts, nil
}

// Author carries the role of a message author ("user", "assistant", "system", "tool").
type Author struct {
	Role string
}

// DecodeConversation decodes one raw conversation. An absent or empty
// mapping yields a conversation without nodes; a mapping of the wrong shape
// is an error.
func DecodeConversation(raw json.RawMessage) (*Conversation, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("conversation is not an object: %w", err)
	}
	if fields == nil {
		return nil, errors.New("conversation is null")
	}

	conv := &Conversation{}
	if title, ok := fields["title"]; ok {
		// Titles are informational only, a non-string title is ignored.
		_ = json.Unmarshal(title, &conv.Title)
	}

	mapping, ok := fields["mapping"]
	if !ok || isEmptyValue(mapping) {
		return conv, nil
	}

	if err := json.Unmarshal(mapping, &conv.Mapping); err != nil {
		return nil, fmt.Errorf("decoding mapping: %w", err)
	}

	return conv, nil
}

// isEmptyValue reports whether a JSON value is null, false, zero or an empty
// string, array or object.
func isEmptyValue(raw json.RawMessage) bool {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return false
	}

	switch s := buf.String(); s {
	case "", "null", "false", `""`, "[]", "{}":
		return true
	default:
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return n == 0
		}
		return false
	}
}

// decodeObject decodes a JSON object into its raw fields. Null and non-object
// values are errors naming what.
func decodeObject(raw json.RawMessage, what string) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("%s is not an object: %w", what, err)
	}
	if fields == nil {
		return nil, fmt.Errorf("%s is null", what)
	}
	return fields, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
