package testutils

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// WordTokenizer counts whitespace-separated words and truncates to the first
// limit words.
type WordTokenizer struct{}

func (WordTokenizer) Count(text string) int {
	return len(strings.Fields(text))
}

func (WordTokenizer) Truncate(text string, limit int) string {
	words := strings.Fields(text)
	if len(words) <= limit {
		return text
	}
	return strings.Join(words[:limit], " ")
}

// RuneTokenizer counts one token per rune and truncates to limit runes.
type RuneTokenizer struct{}

func (RuneTokenizer) Count(text string) int {
	return utf8.RuneCountInString(text)
}

func (RuneTokenizer) Truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}

// FailingBackend is a tokenizer backend whose every call fails.
type FailingBackend struct{}

func (FailingBackend) Name() string { return "failing" }

func (FailingBackend) Encode(string) ([]int, error) { return nil, errors.New("encoder offline") }

func (FailingBackend) Decode([]int) (string, error) { return "", errors.New("decoder offline") }
