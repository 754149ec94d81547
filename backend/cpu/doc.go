// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the eager CPU backend.
//
// Every operation computes its result immediately; matrix products go
// through gonum's BLAS implementation.
//
// Example:
//
//	import (
//	    "github.com/born-ml/lstm/backend/cpu"
//	    "github.com/born-ml/lstm/nn"
//	)
//
//	cell, err := nn.NewCell(cpu.New(), nn.NewVarianceScaling(), 5, 3)
package cpu
