package tokenizer

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrEmptyBatch   = errors.New("no sentences to encode")
	ErrInvalidToken = errors.New("token id outside vocabulary")

	ErrUnsupportedEncoding = errors.New("unsupported tiktoken encoding")
)

// Batch is a right-padded batch of encoded sentences.
type Batch struct {
	IDs     [][]int32 // [batch][MaxLen] token ids, padded with the pad id
	Lengths []int32   // tokens per row including the trailing EOS
	Mask    [][]bool  // true for the first Lengths[i] positions of row i
	MaxLen  int       // longest row length
}

// Size returns the number of rows.
func (b *Batch) Size() int {
	return len(b.IDs)
}

// SentenceEncoder turns sentences into padded id matrices and back.
//
// Every sentence is encoded by the wrapped Tokenizer and terminated with its
// EOS id (when it has one). Rows are right-padded to the longest sentence.
//
// Example:
//
//	enc := tokenizer.NewSentenceEncoder(tokenizer.NewCharTokenizer())
//	batch, _ := enc.Encode([]string{"Hello, world!", "Bye bye."})
//	// batch.IDs[1] = [67 122 102 33 99 122 102 47 0 0 0 0 0 0]
//	texts, _ := enc.Decode(batch.IDs) // round trip
type SentenceEncoder struct {
	tok Tokenizer
}

// NewSentenceEncoder creates an encoder over tok.
func NewSentenceEncoder(tok Tokenizer) *SentenceEncoder {
	return &SentenceEncoder{tok: tok}
}

// Tokenizer returns the wrapped tokenizer.
func (e *SentenceEncoder) Tokenizer() Tokenizer {
	return e.tok
}

// padID is the tokenizer's pad id, falling back to EOS, then to 0.
func (e *SentenceEncoder) padID() int32 {
	if p := e.tok.PadToken(); p >= 0 {
		return p
	}
	if eos := e.tok.EosToken(); eos >= 0 {
		return eos
	}
	return 0
}

// Encode encodes sentences into a Batch.
func (e *SentenceEncoder) Encode(sentences []string) (*Batch, error) {
	if len(sentences) == 0 {
		return nil, ErrEmptyBatch
	}

	rows := make([][]int32, len(sentences))
	maxLen := 0
	for i, s := range sentences {
		ids, err := e.tok.Encode(s)
		if err != nil {
			return nil, fmt.Errorf("encode sentence %d: %w", i, err)
		}
		if eos := e.tok.EosToken(); eos >= 0 {
			ids = append(ids, eos)
		}
		rows[i] = ids
		maxLen = max(maxLen, len(ids))
	}

	pad := e.padID()
	batch := &Batch{
		IDs:     make([][]int32, len(rows)),
		Lengths: make([]int32, len(rows)),
		Mask:    make([][]bool, len(rows)),
		MaxLen:  maxLen,
	}
	for i, ids := range rows {
		padded := make([]int32, maxLen)
		mask := make([]bool, maxLen)
		copy(padded, ids)
		for j := range padded {
			if j < len(ids) {
				mask[j] = true
			} else {
				padded[j] = pad
			}
		}
		batch.IDs[i] = padded
		batch.Mask[i] = mask
		batch.Lengths[i] = int32(len(ids)) //nolint:gosec // G115: sentence length fits in int32
	}
	return batch, nil
}

// Decode reverses Encode: each row is cut at its first EOS id and decoded.
func (e *SentenceEncoder) Decode(ids [][]int32) ([]string, error) {
	eos := e.tok.EosToken()
	out := make([]string, len(ids))
	for i, row := range ids {
		end := len(row)
		if eos >= 0 {
			for j, t := range row {
				if t == eos {
					end = j
					break
				}
			}
		}
		s, err := e.tok.Decode(row[:end])
		if err != nil {
			return nil, fmt.Errorf("decode row %d: %w", i, err)
		}
		out[i] = s
	}
	return out, nil
}
