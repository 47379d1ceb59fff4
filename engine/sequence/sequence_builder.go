package sequence

import (
	"github.com/Carmen-Shannon/oxy-flipbook/engine/flipbook"
	"github.com/Carmen-Shannon/oxy-flipbook/engine/material"
	"github.com/Carmen-Shannon/oxy-flipbook/engine/mesh"
)

// SequenceBuilderOption is a functional option for configuring a Sequence via NewSequence.
type SequenceBuilderOption func(*sequence)

// WithConfig replaces the whole config. Options after it still apply on top.
//
// Parameters:
//   - cfg: the config to use
//
// Returns:
//   - SequenceBuilderOption: a function that applies the config to a sequence
func WithConfig(cfg Config) SequenceBuilderOption {
	return func(s *sequence) {
		s.cfg = cfg
	}
}

// WithName sets the sequence name used for its anchor object and meshes.
//
// Parameters:
//   - name: the sequence name
//
// Returns:
//   - SequenceBuilderOption: a function that applies the name to a sequence
func WithName(name string) SequenceBuilderOption {
	return func(s *sequence) {
		s.cfg.Name = name
	}
}

// WithBatching selects the merged-mesh strategy (true) or one object per sprite (false).
// Defaults to true.
//
// Parameters:
//   - batching: true for one merged mesh
//
// Returns:
//   - SequenceBuilderOption: a function that applies the batching mode to a sequence
func WithBatching(batching bool) SequenceBuilderOption {
	return func(s *sequence) {
		s.cfg.UseBatching = batching
	}
}

// WithAnimSpeed sets the factor applied to elapsed time. Defaults to 1.
//
// Parameters:
//   - speed: the animation speed, must be > 0
//
// Returns:
//   - SequenceBuilderOption: a function that applies the speed to a sequence
func WithAnimSpeed(speed float32) SequenceBuilderOption {
	return func(s *sequence) {
		s.cfg.AnimSpeed = speed
	}
}

// WithMaterial sets the atlas material attached to the sequence's meshes.
//
// Parameters:
//   - mat: the material, may be nil
//
// Returns:
//   - SequenceBuilderOption: a function that applies the material to a sequence
func WithMaterial(mat material.Material) SequenceBuilderOption {
	return func(s *sequence) {
		s.material = mat
		if mat != nil {
			s.cfg.Material = mat.Name()
		}
	}
}

// WithAmount sets the number of sprites. Defaults to 100.
//
// Parameters:
//   - amount: the sprite count, must be >= 0
//
// Returns:
//   - SequenceBuilderOption: a function that applies the amount to a sequence
func WithAmount(amount int) SequenceBuilderOption {
	return func(s *sequence) {
		s.cfg.Amount = amount
	}
}

// WithIndividualScale sets the width and height of each sprite. Defaults to 2x2.
// Only the merged mesh uses it; unbatched sprites keep their prefab's size.
//
// Parameters:
//   - width: the quad width
//   - height: the quad height
//
// Returns:
//   - SequenceBuilderOption: a function that applies the scale to a sequence
func WithIndividualScale(width, height float32) SequenceBuilderOption {
	return func(s *sequence) {
		s.cfg.IndividualScale = flipbook.Scale{Width: width, Height: height}
	}
}

// WithGrid sets the atlas subdivision. Defaults to 4 columns by 2 rows.
//
// Parameters:
//   - columns: atlas columns, must be >= 1
//   - rows: atlas rows, must be >= 1
//
// Returns:
//   - SequenceBuilderOption: a function that applies the grid to a sequence
func WithGrid(columns, rows int) SequenceBuilderOption {
	return func(s *sequence) {
		s.cfg.Grid = flipbook.Grid{Columns: columns, Rows: rows}
	}
}

// WithPositionRange sets the placement volume. Defaults to 30x30x30.
//
// Parameters:
//   - x, y, z: the extent along each axis
//
// Returns:
//   - SequenceBuilderOption: a function that applies the range to a sequence
func WithPositionRange(x, y, z float32) SequenceBuilderOption {
	return func(s *sequence) {
		s.cfg.PositionRange = flipbook.Range{X: x, Y: y, Z: z}
	}
}

// WithSpritePrefab sets the 4-vertex mesh cloned for every sprite in unbatched mode.
//
// Parameters:
//   - prefab: the quad prefab
//
// Returns:
//   - SequenceBuilderOption: a function that applies the prefab to a sequence
func WithSpritePrefab(prefab mesh.Mesh) SequenceBuilderOption {
	return func(s *sequence) {
		s.prefab = prefab
		if prefab != nil {
			s.cfg.SpritePrefab = prefab.Name()
		}
	}
}

// WithSeed sets the random seed used for placement and initial phases.
//
// Parameters:
//   - seed: the seed
//
// Returns:
//   - SequenceBuilderOption: a function that applies the seed to a sequence
func WithSeed(seed int64) SequenceBuilderOption {
	return func(s *sequence) {
		s.cfg.Seed = seed
	}
}

// WithOrigin sets the world position of the sequence's anchor object.
//
// Parameters:
//   - x, y, z: the anchor position
//
// Returns:
//   - SequenceBuilderOption: a function that applies the origin to a sequence
func WithOrigin(x, y, z float32) SequenceBuilderOption {
	return func(s *sequence) {
		s.origin = [3]float32{x, y, z}
	}
}
