package mesh

import (
	_ "embed"
	"encoding/binary"
	"math"
)

// GPUVertexSource is the canonical WGSL definition of the VertexInput struct for sprite pipelines.
// Positions and UVs live in two separate vertex buffers so a UV-only upload never touches positions.
//
//go:embed assets/vertex.wgsl
var GPUVertexSource string

const (
	// PositionStride is the byte size of one vertex in the position buffer (vec3<f32>).
	PositionStride = 12
	// UVStride is the byte size of one vertex in the UV buffer (vec2<f32>).
	UVStride = 8
	// IndexStride is the byte size of one index (u32).
	IndexStride = 4
)

// MarshalPositions serializes positions into a tightly packed little-endian buffer suitable for GPU upload.
//
// Parameters:
//   - positions: the vertex positions
//
// Returns:
//   - []byte: len(positions)*PositionStride bytes
func MarshalPositions(positions [][3]float32) []byte {
	buf := make([]byte, len(positions)*PositionStride)
	for i, p := range positions {
		o := i * PositionStride
		binary.LittleEndian.PutUint32(buf[o:o+4], math.Float32bits(p[0]))
		binary.LittleEndian.PutUint32(buf[o+4:o+8], math.Float32bits(p[1]))
		binary.LittleEndian.PutUint32(buf[o+8:o+12], math.Float32bits(p[2]))
	}
	return buf
}

// MarshalUVs serializes texture coordinates into a tightly packed little-endian buffer suitable for GPU upload.
//
// Parameters:
//   - uvs: the vertex texture coordinates
//
// Returns:
//   - []byte: len(uvs)*UVStride bytes
func MarshalUVs(uvs [][2]float32) []byte {
	buf := make([]byte, len(uvs)*UVStride)
	for i, uv := range uvs {
		o := i * UVStride
		binary.LittleEndian.PutUint32(buf[o:o+4], math.Float32bits(uv[0]))
		binary.LittleEndian.PutUint32(buf[o+4:o+8], math.Float32bits(uv[1]))
	}
	return buf
}

// MarshalIndices serializes indices into a little-endian u32 buffer suitable for GPU upload.
//
// Parameters:
//   - indices: the triangle list indices
//
// Returns:
//   - []byte: len(indices)*IndexStride bytes
func MarshalIndices(indices []uint32) []byte {
	buf := make([]byte, len(indices)*IndexStride)
	for i, idx := range indices {
		binary.LittleEndian.PutUint32(buf[i*IndexStride:], idx)
	}
	return buf
}
