package parallel

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFor_CoversRange(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 4, MinChunkSize: 8}

	n := 1000
	hits := make([]int32, n)
	For(n, func(start, end int) {
		for i := start; i < end; i++ {
			atomic.AddInt32(&hits[i], 1)
		}
	}, cfg)

	for i, h := range hits {
		assert.Equal(t, int32(1), h, "index %d", i)
	}
}

func TestFor_SequentialSingleChunk(t *testing.T) {
	var calls int
	For(100, func(start, end int) {
		calls++
		assert.Equal(t, 0, start)
		assert.Equal(t, 100, end)
	}, Sequential())

	assert.Equal(t, 1, calls)
}

func TestFor_SmallInputStaysSequential(t *testing.T) {
	cfg := DefaultConfig()

	var calls int32
	For(cfg.MinChunkSize, func(_, _ int) {
		atomic.AddInt32(&calls, 1)
	}, cfg)

	assert.Equal(t, int32(1), calls)
}

func TestFor_Empty(t *testing.T) {
	For(0, func(_, _ int) {
		t.Fatal("f must not be called for n == 0")
	}, DefaultConfig())
}

func TestForRows(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 3, MinChunkSize: 16}

	rows, cols := 50, 4
	seen := make([]bool, rows)
	ForRows(rows, cols, func(i int) {
		seen[i] = true
	}, cfg)

	for i, ok := range seen {
		assert.True(t, ok, "row %d", i)
	}
}

func BenchmarkFor(b *testing.B) {
	n := 1 << 16
	data := make([]float64, n)

	b.Run("parallel", func(b *testing.B) {
		cfg := DefaultConfig()
		for i := 0; i < b.N; i++ {
			For(n, func(start, end int) {
				for j := start; j < end; j++ {
					data[j] = float64(j) * 0.5
				}
			}, cfg)
		}
	})

	b.Run("sequential", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			For(n, func(start, end int) {
				for j := start; j < end; j++ {
					data[j] = float64(j) * 0.5
				}
			}, Sequential())
		}
	})
}
