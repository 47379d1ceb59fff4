package scene

import (
	"github.com/Carmen-Shannon/oxy-flipbook/engine/sequence"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithActive sets whether the scene is active for ticking and rendering.
//
// Parameters:
//   - active: whether the scene is active
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithActive(active bool) SceneBuilderOption {
	return func(s *scene) {
		s.active = active
	}
}

// WithSequences adds initial sequences to the scene.
//
// Parameters:
//   - sequences: the sequences to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithSequences(sequences ...sequence.Sequence) SceneBuilderOption {
	return func(s *scene) {
		for _, seq := range sequences {
			if seq != nil {
				s.sequences = append(s.sequences, seq)
			}
		}
	}
}

// WithTickWorkers sets the number of worker goroutines used by Tick.
// Defaults to runtime.NumCPU()-1. Sequences are independent, so more workers help scenes
// with many large sequences; a single worker ticks them in order.
//
// Parameters:
//   - n: the number of tick workers (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithTickWorkers(n int) SceneBuilderOption {
	return func(s *scene) {
		if n < 1 {
			n = 1
		}
		s.tickWorkers = n
	}
}
