package tiktoken

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"

	"github.com/sweetpotato0/questflow/pipeline"
)

// Tokenizer counts and trims text using tiktoken encodings. It satisfies
// pipeline.TokenCounter so prompt budgets are enforced in tokens rather
// than runes.
type Tokenizer struct {
	enc *tiktoken.Tiktoken
}

var _ pipeline.TokenCounter = (*Tokenizer)(nil)

// New resolves the encoding by model name first, then by encoding name.
func New(name string) (*Tokenizer, error) {
	enc, err := tiktoken.EncodingForModel(name)
	if err != nil {
		enc, err = tiktoken.GetEncoding(name)
		if err != nil {
			return nil, fmt.Errorf("unknown tokenizer %q: %w", name, err)
		}
	}
	return &Tokenizer{enc: enc}, nil
}

// Count implements pipeline.TokenCounter
func (t *Tokenizer) Count(text string) int {
	return len(t.enc.Encode(text, nil, nil))
}

// Truncate implements pipeline.TokenCounter. Text within the budget is
// returned unchanged.
func (t *Tokenizer) Truncate(text string, maxTokens int) string {
	if maxTokens <= 0 {
		return ""
	}
	ids := t.enc.Encode(text, nil, nil)
	if len(ids) <= maxTokens {
		return text
	}
	return t.enc.Decode(ids[:maxTokens])
}
