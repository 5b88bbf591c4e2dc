// Package testutils holds fakes and fixture builders shared by package tests.
package testutils

import (
	"encoding/json"
	"strings"
)

// UserNode returns a mapping node JSON object holding a user message whose
// parts are the given raw JSON values.
func UserNode(parts ...string) string {
	raw, err := json.Marshal(map[string]any{
		"message": map[string]any{
			"author":  map[string]any{"role": "user"},
			"content": map[string]any{"content_type": "text", "parts": json.RawMessage("[" + strings.Join(parts, ",") + "]")},
		},
	})
	if err != nil {
		panic(err)
	}
	return string(raw)
}

// UserTextNode is UserNode with plain string parts.
func UserTextNode(texts ...string) string {
	parts := make([]string, 0, len(texts))
	for _, t := range texts {
		raw, err := json.Marshal(t)
		if err != nil {
			panic(err)
		}
		parts = append(parts, string(raw))
	}
	return UserNode(parts...)
}
