package tokenizer

import (
	"fmt"
	"strings"
)

// charVocabSize covers the 128 ASCII code points shifted by one plus the
// reserved id 0.
const charVocabSize = 129

// CharTokenizer encodes text one ASCII character per token.
//
// Code point cp encodes as cp+1; id 0 is reserved as end-of-sequence and
// padding. Characters outside ASCII are replaced by '?' before encoding.
type CharTokenizer struct{}

// NewCharTokenizer creates a character-level tokenizer.
func NewCharTokenizer() *CharTokenizer {
	return &CharTokenizer{}
}

// Encode converts text to token IDs.
func (c *CharTokenizer) Encode(text string) ([]int32, error) {
	ids := make([]int32, 0, len(text))
	for _, r := range text {
		if r > 127 {
			r = '?'
		}
		ids = append(ids, r+1)
	}
	return ids, nil
}

// Decode converts token IDs back to text. Decoding stops at the first 0.
func (c *CharTokenizer) Decode(tokens []int32) (string, error) {
	var sb strings.Builder
	for i, t := range tokens {
		if t == 0 {
			break
		}
		if t < 0 || t >= charVocabSize {
			return "", fmt.Errorf("%w: %d at position %d", ErrInvalidToken, t, i)
		}
		sb.WriteByte(byte(t - 1)) //nolint:gosec // G115: t-1 is in [0, 127]
	}
	return sb.String(), nil
}

// VocabSize returns 129.
func (c *CharTokenizer) VocabSize() int {
	return charVocabSize
}

// EosToken returns 0.
func (c *CharTokenizer) EosToken() int32 {
	return 0
}

// PadToken returns 0.
func (c *CharTokenizer) PadToken() int32 {
	return 0
}

// Name returns "char".
func (c *CharTokenizer) Name() string {
	return "char"
}
