// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public value and backend types of the LSTM module.
//
// # Overview
//
// The recurrence is written against Backend[T], a small capability set
// (MatMul, Add, Mul, Sigmoid, Tanh) over an opaque tensor handle T:
//   - Dense: concrete 2-D float64 values, the handle of the eager CPU backend
//   - Shape: tensor dimensions; all tensors here are rank 2
//   - ErrInvalidShape: returned for malformed dimensions
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/lstm/tensor"
//	    "github.com/born-ml/lstm/backend/cpu"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    x, _ := tensor.FromSlice([]float64{1, 2, 3, 4}, tensor.Shape{2, 2})
//	    y, _ := backend.MatMul(x, x)
//	}
package tensor
