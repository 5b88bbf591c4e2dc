// Package tokenizer counts and truncates text in sub-word tokens.
//
// A precise Backend (tiktoken) does the real work. BestEffort wraps it and
// falls back to a character heuristic whenever the backend is unavailable or
// fails on a particular input, so tokenization problems never abort a run.
package tokenizer

// DefaultEncoding is the BPE encoding used by chat fine-tuning models.
const DefaultEncoding = "cl100k_base"

// Tokenizer counts tokens and truncates text to a token budget.
type Tokenizer interface {
	// Count returns the number of tokens in text.
	Count(text string) int

	// Truncate returns a prefix of text whose token count is at most limit.
	Truncate(text string, limit int) string
}

// Backend is a precise tokenizer that may fail.
type Backend interface {
	Name() string
	Encode(text string) ([]int, error)
	Decode(tokens []int) (string, error)
}
