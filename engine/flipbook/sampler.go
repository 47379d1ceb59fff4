package flipbook

import "math/rand"

// Sampler is the pseudo-random source used for quad placement and initial phases.
// A Sampler is owned by a single sequence and is not safe for concurrent use.
type Sampler struct {
	rng *rand.Rand
}

// NewSampler creates a Sampler seeded with seed. Equal seeds reproduce equal geometry and phases.
//
// Parameters:
//   - seed: the random seed
//
// Returns:
//   - *Sampler: the seeded sampler
func NewSampler(seed int64) *Sampler {
	return &Sampler{rng: rand.New(rand.NewSource(seed))}
}

// Position draws a point uniformly from [0,r.X) x [0,r.Y) x [0,r.Z).
// Components are drawn in x, y, z order.
//
// Parameters:
//   - r: the extent of the placement volume
//
// Returns:
//   - [3]float32: the sampled position
func (s *Sampler) Position(r Range) [3]float32 {
	x := s.rng.Float32() * r.X
	y := s.rng.Float32() * r.Y
	z := s.rng.Float32() * r.Z
	return [3]float32{x, y, z}
}

// Phase draws an initial phase uniformly from [0, frameCount-2].
// The last frame is never chosen as a starting phase. A single-frame atlas always yields 0.
//
// Parameters:
//   - frameCount: columns*rows of the atlas
//
// Returns:
//   - int: the initial phase
func (s *Sampler) Phase(frameCount int) int {
	n := frameCount - 1
	if n <= 0 {
		return 0
	}
	return s.rng.Intn(n)
}
