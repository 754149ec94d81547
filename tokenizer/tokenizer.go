// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tokenizer turns sentences into padded token-id batches.
//
// Supported tokenizers:
//   - Char: one token per ASCII character, 0 is EOS and padding
//   - TikToken: OpenAI BPE tokenizers (GPT-3, GPT-4)
//   - HFTokenizer: HuggingFace tokenizer.json files
//
// Example usage:
//
//	import "github.com/born-ml/lstm/tokenizer"
//
//	enc := tokenizer.NewSentenceEncoder(tokenizer.NewCharTokenizer())
//	batch, err := enc.Encode([]string{"Hello, world!", "Bye bye."})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	texts, err := enc.Decode(batch.IDs)
package tokenizer

import (
	"github.com/born-ml/lstm/internal/tokenizer"
)

// Tokenizer converts text to token ids and back.
type Tokenizer = tokenizer.Tokenizer

// CharTokenizer encodes one ASCII character per token.
type CharTokenizer = tokenizer.CharTokenizer

// TikToken wraps OpenAI BPE encodings.
type TikToken = tokenizer.TikToken

// HFTokenizer wraps a HuggingFace tokenizer.json.
type HFTokenizer = tokenizer.HFTokenizer

// SentenceEncoder batches sentences into padded id matrices.
type SentenceEncoder = tokenizer.SentenceEncoder

// Batch is a right-padded batch of encoded sentences.
type Batch = tokenizer.Batch

// New returns "char", a tokenizer.json loader or a tiktoken encoding by name.
func New(name string) (Tokenizer, error) {
	return tokenizer.New(name)
}

// NewCharTokenizer creates a character-level tokenizer.
func NewCharTokenizer() *CharTokenizer {
	return tokenizer.NewCharTokenizer()
}

// NewTikToken creates a tokenizer for a tiktoken encoding.
func NewTikToken(encoding string) (*TikToken, error) {
	return tokenizer.NewTikToken(encoding)
}

// NewHFTokenizer loads a HuggingFace tokenizer.json.
func NewHFTokenizer(path string) (*HFTokenizer, error) {
	return tokenizer.NewHFTokenizer(path)
}

// NewSentenceEncoder creates an encoder over tok.
func NewSentenceEncoder(tok Tokenizer) *SentenceEncoder {
	return tokenizer.NewSentenceEncoder(tok)
}
