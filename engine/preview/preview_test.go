package preview

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-flipbook/engine/flipbook"
	"github.com/Carmen-Shannon/oxy-flipbook/engine/material"
	"github.com/Carmen-Shannon/oxy-flipbook/engine/mesh"
)

func buildMesh(t *testing.T, amount int) mesh.Mesh {
	t.Helper()
	geo, err := flipbook.BuildGeometry(amount, flipbook.Scale{Width: 2, Height: 2}, flipbook.Range{X: 10, Y: 10, Z: 10},
		flipbook.Grid{Columns: 4, Rows: 2}, flipbook.NewSampler(7))
	if err != nil {
		t.Fatalf("BuildGeometry: %v", err)
	}
	return mesh.NewMesh(
		mesh.WithName("merged"),
		mesh.WithPositions(geo.Positions),
		mesh.WithIndices(geo.Indices),
		mesh.WithUVs(geo.UVs),
	)
}

func TestChunkIndices(t *testing.T) {
	tests := []struct {
		name       string
		quads      int
		wantChunks int
		lastLen    int
	}{
		{"empty", 0, 0, 0},
		{"one quad", 1, 1, 6},
		{"exactly one chunk", MaxChunkQuads, 1, MaxChunkIndices},
		{"one over", MaxChunkQuads + 1, 2, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			indices := make([]uint32, 0, tt.quads*6)
			for i := 0; i < tt.quads; i++ {
				b := uint32(4 * i)
				indices = append(indices, b, b+1, b+2, b, b+2, b+3)
			}
			chunks, err := chunkIndices(indices, tt.quads*4)
			if err != nil {
				t.Fatalf("chunkIndices: %v", err)
			}
			if len(chunks) != tt.wantChunks {
				t.Fatalf("got %d chunks, want %d", len(chunks), tt.wantChunks)
			}
			if tt.wantChunks == 0 {
				return
			}
			last := chunks[len(chunks)-1]
			if len(last) != tt.lastLen {
				t.Errorf("last chunk has %d indices, want %d", len(last), tt.lastLen)
			}
			if last[0] != 0 {
				t.Errorf("last chunk should be rebased to 0, starts at %d", last[0])
			}
		})
	}
}

func TestChunkIndicesRejects(t *testing.T) {
	tests := []struct {
		name        string
		indices     []uint32
		vertexCount int
	}{
		{"partial triangle", []uint32{0, 1}, 4},
		{"out of range", []uint32{0, 1, 9}, 4},
		{"crosses window", []uint32{0, 1, MaxChunkVertices}, MaxChunkVertices + 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := chunkIndices(tt.indices, tt.vertexCount); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestUploadMirrorsMesh(t *testing.T) {
	m := buildMesh(t, 3)
	p := NewPreview().(*preview)

	if err := mesh.Flush(p, m); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	mr := p.mirrors[m]
	if len(mr.vertices) != 12 || len(mr.chunks) != 1 || len(mr.chunks[0]) != 18 {
		t.Fatalf("unexpected mirror: %d vertices, %d chunks", len(mr.vertices), len(mr.chunks))
	}

	pos := m.Positions()[1]
	if v := mr.vertices[1]; v.DstX != pos[0] || v.DstY != pos[1]+pos[2] {
		t.Errorf("vertex 1 at (%v, %v), want (%v, %v)", v.DstX, v.DstY, pos[0], pos[1]+pos[2])
	}
	// Frame 0 on a 4x2 grid: v0 is (0, 0.5), which lands halfway down the image.
	if v := mr.vertices[0]; v.SrcX != 0 || v.SrcY != 0.5 {
		t.Errorf("vertex 0 src (%v, %v), want (0, 0.5)", v.SrcX, v.SrcY)
	}
}

func TestUploadUVOnly(t *testing.T) {
	m := buildMesh(t, 2)
	p := NewPreview().(*preview)
	if err := mesh.Flush(p, m); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	before := p.mirrors[m]

	m.UVs()[0] = [2]float32{0.25, 1}
	m.MarkDirty(mesh.DirtyUVs)
	if err := mesh.Flush(p, m); err != nil {
		t.Fatalf("Upload: %v", err)
	}

	after := p.mirrors[m]
	if after != before {
		t.Error("a UV-only upload should update the mirror in place")
	}
	if v := after.vertices[0]; v.SrcX != 0.25 || v.SrcY != 0 {
		t.Errorf("vertex 0 src (%v, %v), want (0.25, 0)", v.SrcX, v.SrcY)
	}
}

func TestUploadRejectsMismatchedUVs(t *testing.T) {
	m := mesh.NewMesh(
		mesh.WithName("bad"),
		mesh.WithPositions([][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 0, 1}}),
		mesh.WithUVs([][2]float32{{0, 0}}),
		mesh.WithIndices([]uint32{0, 1, 2}),
	)
	p := NewPreview()
	if err := p.Upload(m); err == nil {
		t.Fatal("expected an error for mismatched UVs")
	}
	if err := p.Upload(nil); err == nil {
		t.Fatal("expected an error for a nil mesh")
	}
}

func TestDrawMeshFrameLifecycle(t *testing.T) {
	m := buildMesh(t, 2)
	p := NewPreview()

	if err := p.DrawMesh(m, nil, [3]float32{}); !errors.Is(err, ErrNoFrame) {
		t.Fatalf("DrawMesh outside a frame: got %v, want ErrNoFrame", err)
	}

	_ = p.BeginFrame()
	if err := p.DrawMesh(m, nil, [3]float32{}); !errors.Is(err, ErrNotUploaded) {
		t.Fatalf("DrawMesh before upload: got %v, want ErrNotUploaded", err)
	}
	if err := p.Upload(m); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if err := p.DrawMesh(m, nil, [3]float32{}); err != nil {
		t.Fatalf("DrawMesh: %v", err)
	}
	if p.Batches() != 0 {
		t.Error("nothing should be presented before Present")
	}
	p.EndFrame()
	if err := p.DrawMesh(m, nil, [3]float32{}); !errors.Is(err, ErrNoFrame) {
		t.Errorf("DrawMesh after EndFrame: got %v, want ErrNoFrame", err)
	}
	p.Present()
	if p.Batches() != 1 {
		t.Errorf("got %d batches, want 1", p.Batches())
	}

	p.Forget(m)
	_ = p.BeginFrame()
	if err := p.DrawMesh(m, nil, [3]float32{}); !errors.Is(err, ErrNotUploaded) {
		t.Errorf("DrawMesh after Forget: got %v, want ErrNotUploaded", err)
	}
}

func TestDrawMeshMergesByMaterial(t *testing.T) {
	fire := material.NewMaterial(material.WithName("fire"), material.WithTint([4]float32{1, 0.5, 0.25, 1}))
	smoke := material.NewMaterial(material.WithName("smoke"))

	sprites := make([]mesh.Mesh, 5)
	p := NewPreview().(*preview)
	for i := range sprites {
		sprites[i] = mesh.NewQuad("sprite")
		if err := p.Upload(sprites[i]); err != nil {
			t.Fatalf("Upload: %v", err)
		}
	}

	_ = p.BeginFrame()
	for i, mat := range []material.Material{fire, fire, fire, smoke, fire} {
		if err := p.DrawMesh(sprites[i], mat, [3]float32{float32(i), 0, 1}); err != nil {
			t.Fatalf("DrawMesh: %v", err)
		}
	}
	p.EndFrame()
	p.Present()

	batches := p.presented.batches
	if len(batches) != 3 {
		t.Fatalf("got %d batches, want 3", len(batches))
	}
	first := batches[0]
	if len(first.vertices) != 12 || len(first.indices) != 18 {
		t.Fatalf("first batch has %d vertices and %d indices", len(first.vertices), len(first.indices))
	}
	// The third sprite's indices are offset past the first two.
	if first.indices[12] != 8+0 || first.indices[13] != 8+3 {
		t.Errorf("third sprite indices %v not offset by 8", first.indices[12:18])
	}
	// Prefab vertex 0 is (-0.5, -0.5, 0); translated by (2, 0, 1).
	if v := first.vertices[8]; v.DstX != 1.5 || v.DstY != 0.5 || v.ColorG != 0.5 {
		t.Errorf("third sprite vertex 0 = (%v, %v) green %v", v.DstX, v.DstY, v.ColorG)
	}
}

func TestDrawMeshSplitsLargeMeshes(t *testing.T) {
	m := buildMesh(t, MaxChunkQuads+10)
	p := NewPreview().(*preview)
	if err := p.Upload(m); err != nil {
		t.Fatalf("Upload: %v", err)
	}

	_ = p.BeginFrame()
	if err := p.DrawMesh(m, nil, [3]float32{}); err != nil {
		t.Fatalf("DrawMesh: %v", err)
	}
	p.EndFrame()
	p.Present()

	batches := p.presented.batches
	if len(batches) != 2 {
		t.Fatalf("got %d batches, want 2", len(batches))
	}
	if len(batches[0].vertices) != MaxChunkVertices || len(batches[1].vertices) != 40 {
		t.Errorf("batch vertex counts %d and %d", len(batches[0].vertices), len(batches[1].vertices))
	}
	if len(batches[1].indices) != 60 || batches[1].indices[0] != 0 {
		t.Errorf("second batch indices not rebased: %v", batches[1].indices[:6])
	}
}

func TestProject(t *testing.T) {
	p := NewPreview(WithView(10, 5, 4)).(*preview)
	tests := []struct {
		x, h   float32
		sx, sy float32
	}{
		{10, 5, 100, 50},
		{11, 5, 104, 50},
		{10, 6, 100, 46},
	}
	for _, tt := range tests {
		sx, sy := p.project(tt.x, tt.h, 100, 50)
		if sx != tt.sx || sy != tt.sy {
			t.Errorf("project(%v, %v) = (%v, %v), want (%v, %v)", tt.x, tt.h, sx, sy, tt.sx, tt.sy)
		}
	}
}
