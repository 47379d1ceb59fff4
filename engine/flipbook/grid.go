package flipbook

// Grid describes how a single texture atlas is subdivided into Columns x Rows frames.
// Frames are numbered row-major starting at the top-left cell of the atlas.
type Grid struct {
	Columns int `yaml:"columns"`
	Rows    int `yaml:"rows"`
}

// UVRect holds the four texture coordinates of one quad in winding order:
// v0 bottom-left, v1 top-left, v2 top-right, v3 bottom-right.
type UVRect [4][2]float32

// SlotOrder maps each UVRect corner to the vertex slot that receives it.
// SlotOrder[i] is the slot written with corner i.
type SlotOrder [4]int

var (
	// BatchedSlots writes corners to slots in winding order. Used by the merged mesh.
	BatchedSlots = SlotOrder{0, 1, 2, 3}

	// UnbatchedSlots swaps the v1 and v2 targets. Used by per-sprite prefab meshes.
	UnbatchedSlots = SlotOrder{0, 2, 1, 3}
)

// Validate checks that the grid has at least one column and one row.
//
// Returns:
//   - error: a *ConfigurationError if either dimension is below 1
func (g Grid) Validate() error {
	if g.Columns < 1 {
		return configError("grid.columns", "must be >= 1, got %d", g.Columns)
	}
	if g.Rows < 1 {
		return configError("grid.rows", "must be >= 1, got %d", g.Rows)
	}
	return nil
}

// FrameCount returns the number of frames in the atlas.
func (g Grid) FrameCount() int {
	return g.Columns * g.Rows
}

// Frame returns the displayed frame index for a phase value.
//
// Parameters:
//   - phase: a non-negative phase counter
//
// Returns:
//   - int: phase modulo the frame count
func (g Grid) Frame(phase int) int {
	return phase % g.FrameCount()
}

// Cell maps a phase to its atlas cell. The phase does not need to be reduced first:
// (phase / Columns) % Rows equals the row of phase mod FrameCount.
//
// Parameters:
//   - phase: a non-negative phase counter
//
// Returns:
//   - col: the atlas column
//   - row: the atlas row, counted from the top of the texture
func (g Grid) Cell(phase int) (col, row int) {
	return phase % g.Columns, (phase / g.Columns) % g.Rows
}

// CellSize returns the width and height of one atlas cell in UV space.
func (g Grid) CellSize() (w, h float32) {
	return 1.0 / float32(g.Columns), 1.0 / float32(g.Rows)
}

// FrameUV computes the UV rectangle displayed for a phase.
//
// Parameters:
//   - phase: a non-negative phase counter
//
// Returns:
//   - UVRect: the four corners in winding order
func (g Grid) FrameUV(phase int) UVRect {
	cellW, cellH := g.CellSize()
	col, row := g.Cell(phase)
	u := float32(col) * cellW
	v := float32(row) * cellH

	return UVRect{
		{u, 1 - v - cellH},
		{u, 1 - v},
		{u + cellW, 1 - v},
		{u + cellW, 1 - v - cellH},
	}
}

// Apply writes the rectangle's corners into dst according to order.
// dst must have at least 4 elements.
//
// Parameters:
//   - dst: the 4-slot UV window of one quad
//   - order: the corner-to-slot mapping
func (r UVRect) Apply(dst [][2]float32, order SlotOrder) {
	for corner, slot := range order {
		dst[slot] = r[corner]
	}
}
