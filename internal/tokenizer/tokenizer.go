package tokenizer

// Tokenizer is the core interface for text tokenization.
//
// CharTokenizer, TikToken and HFTokenizer implement it; SentenceEncoder batches the
// output of any implementation into padded id matrices.
type Tokenizer interface {
	// Encode converts text to token IDs.
	Encode(text string) ([]int32, error)

	// Decode converts token IDs back to text.
	Decode(tokens []int32) (string, error)

	// VocabSize returns the total vocabulary size.
	VocabSize() int

	// EosToken returns the end-of-sequence token ID.
	// Returns -1 if not applicable.
	EosToken() int32

	// PadToken returns the padding token ID.
	// Returns -1 if not applicable.
	PadToken() int32

	// Name returns the tokenizer name.
	Name() string
}

// New returns the tokenizer registered under name: "char" for
// CharTokenizer, a path ending in .json for a HuggingFace tokenizer file,
// anything else is treated as a tiktoken encoding name.
func New(name string) (Tokenizer, error) {
	if name == "" || name == "char" {
		return NewCharTokenizer(), nil
	}
	if isTokenizerFile(name) {
		tok, err := NewHFTokenizer(name)
		if err != nil {
			return nil, err
		}
		return tok, nil
	}
	tok, err := NewTikToken(name)
	if err != nil {
		return nil, err
	}
	return tok, nil
}
