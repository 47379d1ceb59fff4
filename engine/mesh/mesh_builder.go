package mesh

// MeshBuilderOption is a functional option for configuring a Mesh via NewMesh.
type MeshBuilderOption func(*mesh)

// WithName is an option builder that sets the name of the Mesh.
//
// Parameters:
//   - name: the mesh identifier
//
// Returns:
//   - MeshBuilderOption: a function that applies the name option to a mesh
func WithName(name string) MeshBuilderOption {
	return func(m *mesh) {
		m.name = name
	}
}

// WithPositions is an option builder that sets the vertex positions of the Mesh.
// The slice is used directly, not copied.
//
// Parameters:
//   - positions: the vertex positions
//
// Returns:
//   - MeshBuilderOption: a function that applies the positions option to a mesh
func WithPositions(positions [][3]float32) MeshBuilderOption {
	return func(m *mesh) {
		m.positions = positions
	}
}

// WithIndices is an option builder that sets the triangle list indices of the Mesh.
//
// Parameters:
//   - indices: the index data
//
// Returns:
//   - MeshBuilderOption: a function that applies the indices option to a mesh
func WithIndices(indices []uint32) MeshBuilderOption {
	return func(m *mesh) {
		m.indices = indices
	}
}

// WithUVs is an option builder that sets the texture coordinates of the Mesh.
// The slice is used directly, so an animator built over the same slice mutates the mesh.
//
// Parameters:
//   - uvs: the per-vertex texture coordinates
//
// Returns:
//   - MeshBuilderOption: a function that applies the UVs option to a mesh
func WithUVs(uvs [][2]float32) MeshBuilderOption {
	return func(m *mesh) {
		m.uvs = uvs
	}
}
