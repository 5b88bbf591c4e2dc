// Package export decodes conversation exports produced by consumer chat
// products (conversations.json) into a tree of conversations, nodes,
// messages and parts.
//
// Load only checks that the top level is an array; each conversation is
// decoded on demand with DecodeConversation, so one malformed conversation
// fails alone.
package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Export is the parsed top-level document: an ordered sequence of raw
// conversations.
type Export struct {
	Path          string
	Conversations []json.RawMessage
}

// Len returns the number of conversations in the export.
func (e *Export) Len() int {
	if e == nil {
		return 0
	}
	return len(e.Conversations)
}

// Load reads and parses the export at path.
func Load(path string) (*Export, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrLoad{Path: path, Err: err}
	}

	exp, err := Parse(data)
	if err != nil {
		return nil, ErrParse{Path: path, Err: err}
	}
	exp.Path = path

	return exp, nil
}

// Parse parses raw export bytes. Invalid JSON is reported with the decoder's
// error; valid JSON must have an array at the top level.
func Parse(data []byte) (*Export, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("empty document")
	}
	if !json.Valid(trimmed) {
		var doc json.RawMessage
		return nil, json.Unmarshal(trimmed, &doc)
	}
	if trimmed[0] != '[' {
		return nil, fmt.Errorf("top level must be an array of conversations, found %s", jsonKind(trimmed))
	}

	var conversations []json.RawMessage
	if err := json.Unmarshal(trimmed, &conversations); err != nil {
		return nil, err
	}

	return &Export{Conversations: conversations}, nil
}

func jsonKind(raw []byte) string {
	if len(raw) == 0 {
		return "nothing"
	}
	switch raw[0] {
	case '{':
		return "an object"
	case '"':
		return "a string"
	case 't', 'f':
		return "a boolean"
	case 'n':
		return "null"
	case '[':
		return "an array"
	default:
		return "a number"
	}
}
