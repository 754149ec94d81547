package tokenizer

import (
	"fmt"
	"path/filepath"
	"strings"

	hf "github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
)

// Special tokens tried, in order, when resolving EOS and padding ids.
var (
	hfEosCandidates = []string{"<eos>", "</s>", "<|endoftext|>", "[SEP]"}
	hfPadCandidates = []string{"<pad>", "[PAD]"}
)

// HFTokenizer loads a HuggingFace tokenizer.json through sugarme/tokenizer.
type HFTokenizer struct {
	tk   *hf.Tokenizer
	name string
	eos  int32
	pad  int32
}

// NewHFTokenizer loads the tokenizer stored at path.
func NewHFTokenizer(path string) (*HFTokenizer, error) {
	tk, err := pretrained.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load tokenizer %q: %w", path, err)
	}
	return &HFTokenizer{
		tk:   tk,
		name: filepath.Base(path),
		eos:  lookupSpecial(tk, hfEosCandidates),
		pad:  lookupSpecial(tk, hfPadCandidates),
	}, nil
}

func lookupSpecial(tk *hf.Tokenizer, candidates []string) int32 {
	for _, tok := range candidates {
		if id, ok := tk.TokenToId(tok); ok {
			return int32(id) //nolint:gosec // G115: vocab size < 2^31
		}
	}
	return -1
}

// Encode converts text to token IDs without added special tokens.
func (t *HFTokenizer) Encode(text string) ([]int32, error) {
	enc, err := t.tk.EncodeSingle(text, false)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	ids := make([]int32, len(enc.Ids))
	for i, id := range enc.Ids {
		ids[i] = int32(id) //nolint:gosec // G115: vocab size < 2^31
	}
	return ids, nil
}

// Decode converts token IDs back to text, dropping special tokens.
func (t *HFTokenizer) Decode(tokens []int32) (string, error) {
	ids := make([]int, len(tokens))
	for i, tok := range tokens {
		if tok < 0 {
			return "", fmt.Errorf("%w: %d at position %d", ErrInvalidToken, tok, i)
		}
		ids[i] = int(tok)
	}
	return t.tk.Decode(ids, true), nil
}

// VocabSize returns the vocabulary size including added tokens.
func (t *HFTokenizer) VocabSize() int {
	return t.tk.GetVocabSize(true)
}

// EosToken returns the first of <eos>, </s>, <|endoftext|>, [SEP] found in
// the vocabulary, or -1.
func (t *HFTokenizer) EosToken() int32 {
	return t.eos
}

// PadToken returns the id of <pad> or [PAD], or -1.
func (t *HFTokenizer) PadToken() int32 {
	return t.pad
}

// Name returns the base name of the loaded file.
func (t *HFTokenizer) Name() string {
	return t.name
}

func isTokenizerFile(name string) bool {
	return strings.HasSuffix(name, ".json")
}
