package flipbook

// Scale is the width and height of a single quad in world units.
type Scale struct {
	Width  float32 `yaml:"width"`
	Height float32 `yaml:"height"`
}

// Range is the extent of the volume quads are randomly placed in. Each axis spans [0, extent).
type Range struct {
	X float32 `yaml:"x"`
	Y float32 `yaml:"y"`
	Z float32 `yaml:"z"`
}

// Quad is one sprite record of the arena. Index i of the arena owns vertices [4i, 4i+4).
type Quad struct {
	// Position is the base (v0) corner of the quad.
	Position [3]float32
	// Phase counts animation ticks. It only grows; Grid.FrameUV reduces it.
	Phase int
}

// Geometry is the output of BuildGeometry: the quad arena plus the flat buffers of the merged mesh.
type Geometry struct {
	Quads     []Quad
	Positions [][3]float32
	Indices   []uint32
	UVs       [][2]float32
}

// quadIndices lists the two triangles of a quad relative to its first vertex.
var quadIndices = [6]uint32{0, 1, 2, 0, 2, 3}

// BuildGeometry constructs the merged buffers for amount quads.
// For every quad the base position is drawn first, then its initial phase, so a given seed
// reproduces both arrays exactly. Quads lie in the X-Z plane:
// p, p+(0,0,h), p+(w,0,h), p+(w,0,0). Every quad starts on frame 0.
//
// Parameters:
//   - amount: the number of quads (0 yields empty buffers)
//   - scale: the quad width and height
//   - positionRange: the placement volume
//   - grid: the atlas subdivision
//   - sampler: the random source
//
// Returns:
//   - *Geometry: the arena and buffers
//   - error: a *ConfigurationError if amount is negative or the grid is invalid
func BuildGeometry(amount int, scale Scale, positionRange Range, grid Grid, sampler *Sampler) (*Geometry, error) {
	if amount < 0 {
		return nil, configError("amount", "must be >= 0, got %d", amount)
	}
	if err := grid.Validate(); err != nil {
		return nil, err
	}

	g := &Geometry{
		Quads:     make([]Quad, amount),
		Positions: make([][3]float32, 0, amount*4),
		Indices:   make([]uint32, 0, amount*6),
		UVs:       make([][2]float32, amount*4),
	}

	initial := grid.FrameUV(0)
	frames := grid.FrameCount()
	w, h := scale.Width, scale.Height

	for i := 0; i < amount; i++ {
		p := sampler.Position(positionRange)

		g.Positions = append(g.Positions,
			p,
			[3]float32{p[0], p[1], p[2] + h},
			[3]float32{p[0] + w, p[1], p[2] + h},
			[3]float32{p[0] + w, p[1], p[2]},
		)

		base := uint32(i * 4)
		for _, idx := range quadIndices {
			g.Indices = append(g.Indices, base+idx)
		}

		initial.Apply(g.UVs[i*4:i*4+4], BatchedSlots)

		g.Quads[i] = Quad{
			Position: p,
			Phase:    sampler.Phase(frames),
		}
	}

	return g, nil
}

// Phases returns a copy of the current phase of every quad.
func (g *Geometry) Phases() []int {
	phases := make([]int, len(g.Quads))
	for i, q := range g.Quads {
		phases[i] = q.Phase
	}
	return phases
}
