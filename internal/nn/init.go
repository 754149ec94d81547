package nn

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/born-ml/lstm/internal/tensor"
)

// Initializer produces the initial value of a weight tensor.
type Initializer interface {
	// Init returns a freshly drawn tensor of the given 2-D shape.
	Init(shape tensor.Shape) (*tensor.Dense, error)
}

// Distribution selects the base distribution of VarianceScaling.
type Distribution int

// Supported base distributions.
const (
	Normal  Distribution = iota // standard normal N(0, 1)
	Uniform                     // uniform U(-1, 1)
)

// String returns the distribution name.
func (d Distribution) String() string {
	switch d {
	case Normal:
		return "normal"
	case Uniform:
		return "uniform"
	default:
		return "unknown"
	}
}

// SeedFunc derives the random seed of a draw from the requested shape.
type SeedFunc func(shape tensor.Shape) uint64

// SumSeed seeds a draw with the sum of the shape's dimensions.
func SumSeed(shape tensor.Shape) uint64 {
	return uint64(shape.Sum()) //nolint:gosec // G115: dimensions are validated positive
}

// VarianceScaling draws weights from a base distribution seeded by the
// tensor shape and scales them by 6/sqrt(rows+cols).
//
// Every draw uses its own PCG source, so a given shape always yields the
// same values and no process-wide random state is read or advanced. This
// determinism is what lets two backends start from identical weights.
//
// Example:
//
//	init := nn.NewVarianceScaling()
//	w, err := init.Init(tensor.Shape{4, 5}) // seed 9, stddev 6/3
type VarianceScaling struct {
	dist Distribution
	seed SeedFunc
}

// Option configures a VarianceScaling initializer.
type Option func(*VarianceScaling)

// WithDistribution selects the base distribution (default Normal).
func WithDistribution(d Distribution) Option {
	return func(v *VarianceScaling) {
		v.dist = d
	}
}

// WithSeedFunc replaces the shape-to-seed mapping (default SumSeed).
func WithSeedFunc(fn SeedFunc) Option {
	return func(v *VarianceScaling) {
		v.seed = fn
	}
}

// NewVarianceScaling creates a variance-scaled initializer.
func NewVarianceScaling(opts ...Option) *VarianceScaling {
	v := &VarianceScaling{
		dist: Normal,
		seed: SumSeed,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Init draws a tensor of the given shape.
//
// Returns an error wrapping tensor.ErrInvalidShape if shape is not 2-D with
// positive dimensions.
func (v *VarianceScaling) Init(shape tensor.Shape) (*tensor.Dense, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("init weights: %w", err)
	}

	seed := v.seed(shape)
	src := rand.NewPCG(seed, seed)

	var draw func() float64
	switch v.dist {
	case Normal:
		draw = distuv.Normal{Mu: 0, Sigma: 1, Src: src}.Rand
	case Uniform:
		draw = distuv.Uniform{Min: -1, Max: 1, Src: src}.Rand
	default:
		return nil, fmt.Errorf("init weights: unknown distribution %d", v.dist)
	}

	stddev := Scale(shape)

	data := make([]float64, shape.NumElements())
	for i := range data {
		data[i] = stddev * draw()
	}

	return tensor.New(shape, data)
}

// Scale returns the multiplier applied to base draws for shape.
func Scale(shape tensor.Shape) float64 {
	return 6.0 / math.Sqrt(float64(shape.Sum()))
}
