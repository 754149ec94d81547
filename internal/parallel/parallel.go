// Package parallel splits row-wise work on dense matrices across goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls how work is split.
type Config struct {
	Enabled      bool // run chunks on separate goroutines
	NumWorkers   int  // upper bound on goroutines
	MinChunkSize int  // items per goroutine below which work stays sequential
}

// DefaultConfig returns a configuration sized to the CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 4096,
	}
}

// Sequential returns a configuration that never spawns goroutines.
func Sequential() Config {
	return Config{NumWorkers: 1, MinChunkSize: 1}
}

// For calls f(start, end) over disjoint chunks covering [0, n).
// Chunks run concurrently when cfg allows it; f must only write
// to indices inside its own chunk.
func For(n int, f func(start, end int), cfg Config) {
	if n <= 0 {
		return
	}
	if !cfg.Enabled || cfg.NumWorkers < 2 || n < 2*cfg.MinChunkSize {
		f(0, n)
		return
	}

	chunk := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize)

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		wg.Add(1)
		go func() {
			defer wg.Done()
			f(start, end)
		}()
	}
	wg.Wait()
}

// ForRows calls f(i) for every row of a rows x cols matrix. The chunk
// threshold is measured in elements, so wide rows parallelize sooner.
func ForRows(rows, cols int, f func(i int), cfg Config) {
	if cols > 0 && cfg.MinChunkSize > 0 {
		cfg.MinChunkSize = max(1, cfg.MinChunkSize/cols)
	}
	For(rows, func(start, end int) {
		for i := start; i < end; i++ {
			f(i)
		}
	}, cfg)
}
