package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// Encodings with known vocabulary layout.
const (
	EncodingO200kBase  = "o200k_base"
	EncodingCL100kBase = "cl100k_base"
	EncodingP50kBase   = "p50k_base"
	EncodingP50kEdit   = "p50k_edit"
	EncodingR50kBase   = "r50k_base"
)

// tiktokenLayout is the one-hot depth and <|endoftext|> id of an encoding.
// The depth is the highest special token id plus one.
type tiktokenLayout struct {
	vocabSize int
	eos       int32
}

var tiktokenLayouts = map[string]tiktokenLayout{
	EncodingO200kBase:  {vocabSize: 200019, eos: 199999},
	EncodingCL100kBase: {vocabSize: 100277, eos: 100257},
	EncodingP50kBase:   {vocabSize: 50281, eos: 50256},
	EncodingP50kEdit:   {vocabSize: 50284, eos: 50256},
	EncodingR50kBase:   {vocabSize: 50257, eos: 50256},
}

// TikToken wraps the pkoukk/tiktoken-go library so BPE token ids can feed
// the cell in place of characters.
//
// The BPE ranks are fetched by tiktoken-go on first use and cached according
// to its TIKTOKEN_CACHE_DIR setting.
type TikToken struct {
	encoding *tiktoken.Tiktoken
	name     string
	layout   tiktokenLayout
}

// NewTikToken creates a TikToken tokenizer with the specified encoding.
// Only encodings listed in tiktokenLayouts are accepted.
func NewTikToken(encodingName string) (*TikToken, error) {
	layout, ok := tiktokenLayouts[encodingName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, encodingName)
	}
	encoding, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("failed to load tiktoken encoding %q: %w", encodingName, err)
	}

	return &TikToken{
		encoding: encoding,
		name:     encodingName,
		layout:   layout,
	}, nil
}

// Encode converts text to token IDs.
func (t *TikToken) Encode(text string) ([]int32, error) {
	tokens := t.encoding.Encode(text, nil, nil)

	result := make([]int32, len(tokens))
	for i, tok := range tokens {
		result[i] = int32(tok) //nolint:gosec // G115: Token ID fits in int32 - vocab size < 2^31.
	}

	return result, nil
}

// Decode converts token IDs back to text.
func (t *TikToken) Decode(tokens []int32) (string, error) {
	ids := make([]int, len(tokens))
	for i, tok := range tokens {
		ids[i] = int(tok)
	}
	return t.encoding.Decode(ids), nil
}

// VocabSize returns the highest id the encoding can emit plus one, special
// tokens included, so every id fits a one-hot of this depth.
func (t *TikToken) VocabSize() int {
	return t.layout.vocabSize
}

// EosToken returns the <|endoftext|> id of the encoding.
func (t *TikToken) EosToken() int32 {
	return t.layout.eos
}

// PadToken returns -1; tiktoken defines no padding token.
func (t *TikToken) PadToken() int32 {
	return -1
}

// Name returns the encoding name.
func (t *TikToken) Name() string {
	return t.name
}
