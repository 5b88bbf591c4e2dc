// Package diagnostics records why parts of an export were dropped and
// persists those records as newline-delimited JSON.
package diagnostics

import (
	"encoding/json"
	"fmt"
)

// Type tags a diagnostic entry.
type Type string

const (
	TypeMissingMapping Type = "missing_mapping"
	TypeNonTextContent Type = "non_text_content"
	TypeNonStringPart  Type = "non_string_part"
	TypeException      Type = "exception"
)

// Entry is one structured warning. Only the fields relevant to its Type are
// populated.
type Entry struct {
	Type              Type            `json:"type"`
	ConversationIndex int             `json:"conversation_index"`
	NodeID            string          `json:"node_id,omitempty"`
	ContentType       string          `json:"content_type,omitempty"`
	Part              json.RawMessage `json:"part,omitempty"`
	Conversation      json.RawMessage `json:"conversation,omitempty"`
	Error             string          `json:"error,omitempty"`
	Warning           string          `json:"warning"`
}

// MissingMapping records a conversation without nodes.
func MissingMapping(index int, conversation json.RawMessage) Entry {
	return Entry{
		Type:              TypeMissingMapping,
		ConversationIndex: index,
		Conversation:      conversation,
		Warning:           fmt.Sprintf("Warning: Conversation %d has no mapping, skipping...", index),
	}
}

// NonTextContent records a structured part that carries no extractable text.
func NonTextContent(index int, nodeID, contentType string, part json.RawMessage) Entry {
	return Entry{
		Type:              TypeNonTextContent,
		ConversationIndex: index,
		NodeID:            nodeID,
		ContentType:       contentType,
		Part:              part,
		Warning: fmt.Sprintf("Warning: Conversation %d, node %s - skipping non-text content: %s",
			index, nodeID, contentType),
	}
}

// NonStringPart records a part that is neither a string nor an object.
func NonStringPart(index int, nodeID string, part json.RawMessage) Entry {
	return Entry{
		Type:              TypeNonStringPart,
		ConversationIndex: index,
		NodeID:            nodeID,
		Part:              part,
		Warning: fmt.Sprintf("Warning: Conversation %d, node %s - part is not a string or dict, skipping.",
			index, nodeID),
	}
}

// Exception records a conversation that failed to process.
func Exception(index int, conversation json.RawMessage, err error) Entry {
	return Entry{
		Type:              TypeException,
		ConversationIndex: index,
		Conversation:      conversation,
		Error:             err.Error(),
		Warning: fmt.Sprintf("Warning: Error processing conversation %d, skipping... Error: %v",
			index, err),
	}
}

// Count returns how many entries of the given type are in entries.
func Count(entries []Entry, t Type) int {
	n := 0
	for _, e := range entries {
		if e.Type == t {
			n++
		}
	}
	return n
}
