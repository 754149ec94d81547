package nn

import "fmt"

// Unroll runs cell over a sequence of time-step inputs, threading the state
// from each step into the next.
//
// On the eager backend this computes the outputs; on the graph backend it
// records one unrolled graph that a session can then run repeatedly.
//
// Returns the per-step outputs and the state after the last step. An empty
// sequence returns the initial state unchanged.
func Unroll[T any](cell *Cell[T], xs []T, state CellState[T]) ([]T, CellState[T], error) {
	outputs := make([]T, 0, len(xs))
	for t, x := range xs {
		h, next, err := cell.Step(x, state)
		if err != nil {
			return nil, CellState[T]{}, fmt.Errorf("time step %d: %w", t, err)
		}
		outputs = append(outputs, h)
		state = next
	}
	return outputs, state, nil
}
