// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the peephole LSTM cell and its input helpers.
//
// # Overview
//
// This package contains:
//   - Cell: single-layer LSTM cell, lazily initialized on the first Step
//   - VarianceScaling: shape-seeded, reproducible weight initializer
//   - Unroll: runs a cell over a sequence of time steps
//   - OneHot, Embedding: turn token ids into per-step input matrices
//
// The cell is generic over the backend's tensor handle, so the same code
// runs eagerly on backend/cpu and deferred on backend/graph.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/lstm/backend/cpu"
//	    "github.com/born-ml/lstm/nn"
//	    "github.com/born-ml/lstm/tensor"
//	)
//
//	func main() {
//	    cell, _ := nn.NewCell[*tensor.Dense](cpu.New(), nn.NewVarianceScaling(), 5, 3)
//	    state, _ := cell.InitState(1)
//	    x, _ := tensor.FromSlice([]float64{0.1, 0.2, 0.3, 0.4}, tensor.Shape{1, 4})
//
//	    h, state, err := cell.Step(x, state) // h: [1, 3]
//	}
package nn
