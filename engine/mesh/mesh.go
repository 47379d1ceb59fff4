package mesh

// mesh is the implementation of the Mesh interface.
type mesh struct {
	name      string
	positions [][3]float32
	indices   []uint32
	uvs       [][2]float32
	dirty     DirtyFlags
}

// Mesh defines the interface for a CPU-side triangle mesh.
// A Mesh holds separate position, index, and UV arrays plus a set of dirty flags that tell an
// Uploader which arrays changed. The slices returned by the accessors are shared with the mesh,
// so writers mutate them in place and then call MarkDirty.
type Mesh interface {
	// Name retrieves the mesh identifier.
	//
	// Returns:
	//   - string: the mesh name
	Name() string

	// Positions returns the vertex positions.
	//
	// Returns:
	//   - [][3]float32: the shared position slice
	Positions() [][3]float32

	// Indices returns the triangle list indices.
	//
	// Returns:
	//   - []uint32: the shared index slice
	Indices() []uint32

	// UVs returns the per-vertex texture coordinates.
	//
	// Returns:
	//   - [][2]float32: the shared UV slice
	UVs() [][2]float32

	// VertexCount returns the number of vertices in the mesh.
	//
	// Returns:
	//   - int: the vertex count
	VertexCount() int

	// IndexCount returns the number of indices in the mesh.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int

	// Dirty returns the buffers changed since the last successful upload.
	//
	// Returns:
	//   - DirtyFlags: the dirty set
	Dirty() DirtyFlags

	// MarkDirty adds flags to the dirty set.
	//
	// Parameters:
	//   - flags: the buffers that changed
	MarkDirty(flags DirtyFlags)

	// ClearDirty removes flags from the dirty set.
	//
	// Parameters:
	//   - flags: the buffers that were uploaded
	ClearDirty(flags DirtyFlags)

	// PositionData returns the position buffer serialized for GPU upload.
	//
	// Returns:
	//   - []byte: the marshalled positions
	PositionData() []byte

	// UVData returns the UV buffer serialized for GPU upload.
	//
	// Returns:
	//   - []byte: the marshalled UVs
	UVData() []byte

	// IndexData returns the index buffer serialized for GPU upload.
	//
	// Returns:
	//   - []byte: the marshalled indices
	IndexData() []byte

	// Clone creates a deep copy of the mesh under a new name. The copy starts fully dirty.
	//
	// Parameters:
	//   - name: the name of the copy
	//
	// Returns:
	//   - Mesh: the cloned mesh
	Clone(name string) Mesh
}

var _ Mesh = &mesh{}

// NewMesh creates a new Mesh instance with the specified options applied.
// The mesh starts with every dirty flag set.
//
// Parameters:
//   - options: a variadic list of MeshBuilderOption functions to configure the Mesh
//
// Returns:
//   - Mesh: a new instance of Mesh configured with the provided options
func NewMesh(options ...MeshBuilderOption) Mesh {
	m := &mesh{dirty: DirtyAll}
	for _, opt := range options {
		opt(m)
	}
	return m
}

// NewQuad creates the unit quad prefab used for unbatched sprites.
// It is centred on the origin in the X-Y plane with vertices ordered
// bottom-left, bottom-right, top-left, top-right.
//
// Parameters:
//   - name: the mesh name
//
// Returns:
//   - Mesh: a 4-vertex, 6-index quad
func NewQuad(name string) Mesh {
	return NewMesh(
		WithName(name),
		WithPositions([][3]float32{
			{-0.5, -0.5, 0},
			{0.5, -0.5, 0},
			{-0.5, 0.5, 0},
			{0.5, 0.5, 0},
		}),
		WithUVs([][2]float32{
			{0, 0},
			{1, 0},
			{0, 1},
			{1, 1},
		}),
		WithIndices([]uint32{0, 3, 1, 3, 0, 2}),
	)
}

func (m *mesh) Name() string {
	return m.name
}

func (m *mesh) Positions() [][3]float32 {
	return m.positions
}

func (m *mesh) Indices() []uint32 {
	return m.indices
}

func (m *mesh) UVs() [][2]float32 {
	return m.uvs
}

func (m *mesh) VertexCount() int {
	return len(m.positions)
}

func (m *mesh) IndexCount() int {
	return len(m.indices)
}

func (m *mesh) Dirty() DirtyFlags {
	return m.dirty
}

func (m *mesh) MarkDirty(flags DirtyFlags) {
	m.dirty |= flags
}

func (m *mesh) ClearDirty(flags DirtyFlags) {
	m.dirty &^= flags
}

func (m *mesh) PositionData() []byte {
	return MarshalPositions(m.positions)
}

func (m *mesh) UVData() []byte {
	return MarshalUVs(m.uvs)
}

func (m *mesh) IndexData() []byte {
	return MarshalIndices(m.indices)
}

func (m *mesh) Clone(name string) Mesh {
	c := &mesh{
		name:      name,
		positions: make([][3]float32, len(m.positions)),
		indices:   make([]uint32, len(m.indices)),
		uvs:       make([][2]float32, len(m.uvs)),
		dirty:     DirtyAll,
	}
	copy(c.positions, m.positions)
	copy(c.indices, m.indices)
	copy(c.uvs, m.uvs)
	return c
}
