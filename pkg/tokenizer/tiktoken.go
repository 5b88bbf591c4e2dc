package tokenizer

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

var loaderOnce sync.Once

// tiktokenBackend encodes with an embedded BPE ranks file, no network access
// is needed.
type tiktokenBackend struct {
	encoding string
	enc      *tiktoken.Tiktoken
}

// NewTiktoken loads the named encoding (e.g. "cl100k_base").
func NewTiktoken(encoding string) (Backend, error) {
	loaderOnce.Do(func() {
		tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
	})

	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("loading encoding %s: %w", encoding, err)
	}

	return &tiktokenBackend{encoding: encoding, enc: enc}, nil
}

func (t *tiktokenBackend) Name() string {
	return "tiktoken/" + t.encoding
}

// Encode tokenizes text. Special tokens such as <|endoftext|> are disallowed
// in input text and make encoding fail.
func (t *tiktokenBackend) Encode(text string) (tokens []int, err error) {
	defer func() {
		if r := recover(); r != nil {
			tokens = nil
			err = fmt.Errorf("encoding text: %v", r)
		}
	}()

	return t.enc.Encode(text, nil, []string{"all"}), nil
}

func (t *tiktokenBackend) Decode(tokens []int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("decoding tokens: %v", r)
		}
	}()

	return t.enc.Decode(tokens), nil
}
