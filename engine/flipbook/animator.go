package flipbook

// animator is the implementation of the Animator interface.
type animator struct {
	grid  Grid
	quads []Quad
	uvs   [][2]float32
	order SlotOrder
	ticks int
}

// Animator owns the per-quad phase counters of a sequence and rewrites each quad's four UVs in place.
type Animator interface {
	// Advance steps every quad by one frame. The phase is post-incremented: the value held
	// before the call selects the UVs written by this call, and the stored phase grows by one.
	// Every quad's UVs are written before Advance returns.
	Advance()

	// Grid returns the atlas subdivision the animator was built with.
	//
	// Returns:
	//   - Grid: the atlas grid
	Grid() Grid

	// Quads returns the quad arena. The slice is shared with the animator.
	//
	// Returns:
	//   - []Quad: the arena
	Quads() []Quad

	// UVs returns the UV buffer written by Advance. The slice is shared with the animator.
	//
	// Returns:
	//   - [][2]float32: four entries per quad
	UVs() [][2]float32

	// Phases returns a copy of every quad's stored phase.
	//
	// Returns:
	//   - []int: the phases
	Phases() []int

	// Ticks returns how many times Advance has been called.
	//
	// Returns:
	//   - int: the advance count
	Ticks() int
}

var _ Animator = &animator{}

// NewAnimator creates an Animator over an existing quad arena and UV buffer.
// uvs must hold 4*len(quads) entries; it is usually the UV slice of the mesh being animated.
//
// Parameters:
//   - grid: a validated atlas grid
//   - quads: the quad arena
//   - uvs: the UV buffer to mutate
//   - options: functional options (e.g. WithSlotOrder)
//
// Returns:
//   - Animator: the new animator
func NewAnimator(grid Grid, quads []Quad, uvs [][2]float32, options ...AnimatorBuilderOption) Animator {
	a := &animator{
		grid:  grid,
		quads: quads,
		uvs:   uvs,
		order: BatchedSlots,
	}
	for _, opt := range options {
		opt(a)
	}
	return a
}

func (a *animator) Advance() {
	for i := range a.quads {
		phase := a.quads[i].Phase
		a.quads[i].Phase++

		a.grid.FrameUV(phase).Apply(a.uvs[i*4:i*4+4], a.order)
	}
	a.ticks++
}

func (a *animator) Grid() Grid {
	return a.grid
}

func (a *animator) Quads() []Quad {
	return a.quads
}

func (a *animator) UVs() [][2]float32 {
	return a.uvs
}

func (a *animator) Phases() []int {
	phases := make([]int, len(a.quads))
	for i, q := range a.quads {
		phases[i] = q.Phase
	}
	return phases
}

func (a *animator) Ticks() int {
	return a.ticks
}
