package preview

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Carmen-Shannon/oxy-flipbook/engine/mesh"
)

const (
	// MaxChunkQuads is the most quads one DrawTriangles call can address with uint16 indices.
	MaxChunkQuads = 16384
	// MaxChunkVertices is the vertex window of one chunk.
	MaxChunkVertices = MaxChunkQuads * 4
	// MaxChunkIndices is the index count of one full chunk.
	MaxChunkIndices = MaxChunkQuads * 6
)

// mirror is the CPU copy of an uploaded mesh in ebiten vertex form.
// DstX holds world X and DstY holds the height Y+Z, so quads built in the X-Z plane and
// prefab quads in the X-Y plane both face the viewer. SrcX/SrcY hold the normalized texture
// coordinate with v flipped to image space. Draw converts both to pixels.
type mirror struct {
	name     string
	vertices []ebiten.Vertex
	chunks   [][]uint16
}

// chunkVertices returns the vertex window addressed by chunk c.
func (mr *mirror) chunkVertices(c int) []ebiten.Vertex {
	base := c * MaxChunkVertices
	end := min(base+MaxChunkVertices, len(mr.vertices))
	return mr.vertices[base:end]
}

// rebuild copies every buffer of m into the mirror.
func (mr *mirror) rebuild(m mesh.Mesh) error {
	positions, uvs := m.Positions(), m.UVs()
	if len(uvs) != len(positions) {
		return fmt.Errorf("mesh %q has %d UVs for %d positions", m.Name(), len(uvs), len(positions))
	}

	chunks, err := chunkIndices(m.Indices(), len(positions))
	if err != nil {
		return fmt.Errorf("mesh %q: %w", m.Name(), err)
	}

	vertices := make([]ebiten.Vertex, len(positions))
	for i, p := range positions {
		vertices[i] = ebiten.Vertex{
			DstX:   p[0],
			DstY:   p[1] + p[2],
			SrcX:   uvs[i][0],
			SrcY:   1 - uvs[i][1],
			ColorR: 1,
			ColorG: 1,
			ColorB: 1,
			ColorA: 1,
		}
	}

	mr.name = m.Name()
	mr.vertices = vertices
	mr.chunks = chunks
	return nil
}

// writeUVs refreshes only the texture coordinates.
func (mr *mirror) writeUVs(uvs [][2]float32) error {
	if len(uvs) != len(mr.vertices) {
		return fmt.Errorf("mesh %q has %d UVs for %d mirrored vertices", mr.name, len(uvs), len(mr.vertices))
	}
	for i, uv := range uvs {
		mr.vertices[i].SrcX = uv[0]
		mr.vertices[i].SrcY = 1 - uv[1]
	}
	return nil
}

// chunkIndices splits a 32-bit index buffer into uint16 runs of at most MaxChunkIndices.
// Run k is rebased to vertex k*MaxChunkVertices and may only reference that window.
func chunkIndices(indices []uint32, vertexCount int) ([][]uint16, error) {
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("index count %d is not a multiple of 3", len(indices))
	}

	chunks := make([][]uint16, 0, (len(indices)+MaxChunkIndices-1)/MaxChunkIndices)
	for start := 0; start < len(indices); start += MaxChunkIndices {
		end := min(start+MaxChunkIndices, len(indices))
		base := uint32(len(chunks) * MaxChunkVertices)

		run := make([]uint16, end-start)
		for i, idx := range indices[start:end] {
			if int(idx) >= vertexCount {
				return nil, fmt.Errorf("index %d out of range for %d vertices", idx, vertexCount)
			}
			if idx < base || idx-base >= MaxChunkVertices {
				return nil, fmt.Errorf("index %d crosses the %d-vertex chunk starting at %d", idx, MaxChunkVertices, base)
			}
			run[i] = uint16(idx - base)
		}
		chunks = append(chunks, run)
	}
	return chunks, nil
}
