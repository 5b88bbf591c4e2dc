package tokenizer

import "unicode/utf8"

// charsPerToken is the rough number of characters a token covers in English text.
const charsPerToken = 4

// Heuristic approximates tokens as groups of four characters. It does not
// guarantee the true token limit and callers must tolerate slight overage.
type Heuristic struct{}

// Count returns ceil(characters / 4).
func (Heuristic) Count(text string) int {
	n := utf8.RuneCountInString(text)
	return (n + charsPerToken - 1) / charsPerToken
}

// Truncate keeps the first limit*4 characters of text.
func (h Heuristic) Truncate(text string, limit int) string {
	if limit < 0 {
		limit = 0
	}

	maxChars := limit * charsPerToken
	if utf8.RuneCountInString(text) <= maxChars {
		return text
	}

	i := 0
	for pos := range text {
		if i == maxChars {
			return text[:pos]
		}
		i++
	}
	return text
}
