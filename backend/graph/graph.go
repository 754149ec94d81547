// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package graph provides the deferred-graph backend.
//
// Operations record gorgonia nodes instead of computing. A Session compiles
// the recorded graph once and runs it with placeholders bound to values:
//
//	b := graph.New()
//	x, _ := b.Placeholder("x", tensor.Shape{1, 4})
//	cell, _ := nn.NewCell[*gorgonia.Node](b, nn.NewVarianceScaling(), 5, 3)
//	state, _ := cell.InitState(1)
//	h, _, _ := cell.Step(x, state)
//
//	sess, _ := graph.NewSession(b, h)
//	defer sess.Close()
//	out, _ := sess.Run(graph.Feeds{x: input})
package graph

import (
	"gorgonia.org/gorgonia"

	internalgraph "github.com/born-ml/lstm/internal/backend/graph"
	"github.com/born-ml/lstm/tensor"
)

// Backend records operations into a gorgonia expression graph.
type Backend = internalgraph.Backend

// Session executes a recorded graph.
type Session = internalgraph.Session

// Feeds binds placeholders to values for one run.
type Feeds = internalgraph.Feeds

// Errors returned by Session.Run.
var (
	ErrUnboundPlaceholder = internalgraph.ErrUnboundPlaceholder
	ErrSessionClosed      = internalgraph.ErrSessionClosed
)

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend[*gorgonia.Node] = (*Backend)(nil)

// New creates a backend recording into a fresh graph.
func New() *Backend {
	return internalgraph.New()
}

// NewSession compiles the graph recorded by b, fetching outputs on each run.
func NewSession(b *Backend, outputs ...*gorgonia.Node) (*Session, error) {
	return internalgraph.NewSession(b, outputs...)
}
