// Package data provides the batch sampler that feeds sentences to the
// encoder in fixed-size batches.
package data

import (
	"errors"
	"fmt"
	"iter"
	"math/rand/v2"

	"github.com/born-ml/lstm/internal/tokenizer"
)

// Common errors.
var (
	ErrInvalidBatchSize = errors.New("batch size must be positive")
	ErrNoItems          = errors.New("sampler needs at least one item")
)

// Sampler yields fixed-size batches of items, one shuffled pass per epoch.
//
// At the start of an epoch the items are shuffled once and dealt into
// ceil(n / batchSize) batches: item i of the shuffled order goes to batch
// i mod nBatches. A batch with fewer than batchSize items is topped up with
// items drawn without replacement from the whole shuffled pass, so every
// batch has exactly batchSize items.
//
// Example:
//
//	s, _ := data.NewSampler(sentences, 128, data.WithSeed(42))
//	for batch := range s.Batches() {
//	    encoded, _ := enc.Encode(batch)
//	}
type Sampler struct {
	items     []string
	batchSize int
	rng       *rand.Rand

	order    []string
	nBatches int
	next     int
	started  bool
}

// SamplerOption configures a Sampler.
type SamplerOption func(*Sampler)

// WithSeed makes shuffling reproducible.
func WithSeed(seed uint64) SamplerOption {
	return func(s *Sampler) {
		s.rng = rand.New(rand.NewPCG(seed, seed))
	}
}

// NewSampler creates a sampler over a copy of items.
func NewSampler(items []string, batchSize int, opts ...SamplerOption) (*Sampler, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBatchSize, batchSize)
	}
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	s := &Sampler{
		items:     append([]string(nil), items...),
		batchSize: batchSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) //nolint:gosec // G404: shuffling is not security-sensitive
	}
	return s, nil
}

// BatchSize returns the number of items per batch.
func (s *Sampler) BatchSize() int {
	return s.batchSize
}

// NumBatches returns the number of batches per epoch.
func (s *Sampler) NumBatches() int {
	return (len(s.items) + s.batchSize - 1) / s.batchSize
}

// Epoch starts a new pass: items are reshuffled and batching restarts.
func (s *Sampler) Epoch() {
	s.order = append(s.order[:0], s.items...)
	s.rng.Shuffle(len(s.order), func(i, j int) {
		s.order[i], s.order[j] = s.order[j], s.order[i]
	})
	s.nBatches = s.NumBatches()
	s.next = 0
	s.started = true
}

// Next returns the next batch of the current epoch, starting one if needed.
// It returns false once the epoch is exhausted; call Epoch to restart.
func (s *Sampler) Next() ([]string, bool) {
	if !s.started {
		s.Epoch()
	}
	if s.next >= s.nBatches {
		return nil, false
	}

	k := s.next
	s.next++

	batch := make([]string, 0, s.batchSize)
	for i := k; i < len(s.order); i += s.nBatches {
		batch = append(batch, s.order[i])
	}
	if short := s.batchSize - len(batch); short > 0 {
		batch = append(batch, s.sample(short)...)
	}
	return batch, true
}

// NextEncoded returns the next batch encoded by enc.
func (s *Sampler) NextEncoded(enc *tokenizer.SentenceEncoder) (*tokenizer.Batch, bool, error) {
	batch, ok := s.Next()
	if !ok {
		return nil, false, nil
	}
	encoded, err := enc.Encode(batch)
	if err != nil {
		return nil, false, err
	}
	return encoded, true, nil
}

// Batches runs a fresh epoch and yields each of its batches.
func (s *Sampler) Batches() iter.Seq[[]string] {
	return func(yield func([]string) bool) {
		s.Epoch()
		for {
			batch, ok := s.Next()
			if !ok || !yield(batch) {
				return
			}
		}
	}
}

// sample draws n items without replacement from the shuffled pass. When n
// exceeds the number of items, draws wrap around a fresh permutation.
func (s *Sampler) sample(n int) []string {
	out := make([]string, 0, n)
	for len(out) < n {
		for _, idx := range s.rng.Perm(len(s.order)) {
			if len(out) == n {
				break
			}
			out = append(out, s.order[idx])
		}
	}
	return out
}
