package mesh

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"
)

type recordingUploader struct {
	seen []DirtyFlags
	err  error
}

func (u *recordingUploader) Upload(m Mesh) error {
	u.seen = append(u.seen, m.Dirty())
	return u.err
}

func TestNewMeshStartsDirty(t *testing.T) {
	m := NewMesh(WithName("m"))
	if m.Dirty() != DirtyAll {
		t.Errorf("Dirty() = %b, want %b", m.Dirty(), DirtyAll)
	}
	if m.Name() != "m" {
		t.Errorf("Name() = %q, want %q", m.Name(), "m")
	}
}

func TestDirtyFlags(t *testing.T) {
	m := NewMesh()
	m.ClearDirty(DirtyAll)
	if m.Dirty() != 0 {
		t.Fatalf("Dirty() = %b after clear", m.Dirty())
	}

	m.MarkDirty(DirtyUVs)
	if !m.Dirty().Has(DirtyUVs) || m.Dirty().Has(DirtyPositions) {
		t.Errorf("Dirty() = %b, want only UVs", m.Dirty())
	}

	m.MarkDirty(DirtyIndices)
	m.ClearDirty(DirtyUVs)
	if m.Dirty() != DirtyIndices {
		t.Errorf("Dirty() = %b, want %b", m.Dirty(), DirtyIndices)
	}
}

func TestQuadPrefab(t *testing.T) {
	q := NewQuad("quad")
	if q.VertexCount() != 4 || len(q.UVs()) != 4 {
		t.Fatalf("quad has %d vertices and %d uvs, want 4", q.VertexCount(), len(q.UVs()))
	}
	if q.IndexCount() != 6 {
		t.Fatalf("IndexCount() = %d, want 6", q.IndexCount())
	}
	for _, idx := range q.Indices() {
		if idx > 3 {
			t.Errorf("index %d out of range", idx)
		}
	}
}

func TestClone(t *testing.T) {
	q := NewQuad("quad")
	q.ClearDirty(DirtyAll)

	c := q.Clone("copy")
	if c.Name() != "copy" {
		t.Errorf("Name() = %q, want %q", c.Name(), "copy")
	}
	if c.Dirty() != DirtyAll {
		t.Errorf("clone Dirty() = %b, want %b", c.Dirty(), DirtyAll)
	}

	c.UVs()[0] = [2]float32{0.5, 0.5}
	c.Positions()[0] = [3]float32{9, 9, 9}
	if q.UVs()[0] == c.UVs()[0] || q.Positions()[0] == c.Positions()[0] {
		t.Error("clone shares storage with its source")
	}
}

func TestSharedUVSlice(t *testing.T) {
	uvs := make([][2]float32, 4)
	m := NewMesh(WithUVs(uvs))
	uvs[2] = [2]float32{0.25, 1}
	if m.UVs()[2] != uvs[2] {
		t.Error("mesh copied the UV slice instead of sharing it")
	}
}

func TestMarshalLayout(t *testing.T) {
	m := NewMesh(
		WithPositions([][3]float32{{1, 2, 3}, {4, 5, 6}}),
		WithUVs([][2]float32{{0.25, 0.5}, {0.75, 1}}),
		WithIndices([]uint32{0, 1, 7}),
	)

	pos := m.PositionData()
	if len(pos) != 2*PositionStride {
		t.Fatalf("len(PositionData) = %d, want %d", len(pos), 2*PositionStride)
	}
	wantPos := []float32{1, 2, 3, 4, 5, 6}
	for i, want := range wantPos {
		got := math.Float32frombits(binary.LittleEndian.Uint32(pos[i*4:]))
		if got != want {
			t.Errorf("position float %d = %v, want %v", i, got, want)
		}
	}

	uv := m.UVData()
	if len(uv) != 2*UVStride {
		t.Fatalf("len(UVData) = %d, want %d", len(uv), 2*UVStride)
	}
	wantUV := []float32{0.25, 0.5, 0.75, 1}
	for i, want := range wantUV {
		got := math.Float32frombits(binary.LittleEndian.Uint32(uv[i*4:]))
		if got != want {
			t.Errorf("uv float %d = %v, want %v", i, got, want)
		}
	}

	idx := m.IndexData()
	if len(idx) != 3*IndexStride {
		t.Fatalf("len(IndexData) = %d, want %d", len(idx), 3*IndexStride)
	}
	if got := binary.LittleEndian.Uint32(idx[8:]); got != 7 {
		t.Errorf("index 2 = %d, want 7", got)
	}
}

func TestFlush(t *testing.T) {
	m := NewQuad("quad")
	u := &recordingUploader{}

	if err := Flush(u, m); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if m.Dirty() != 0 {
		t.Errorf("Dirty() = %b after successful flush", m.Dirty())
	}
	if len(u.seen) != 1 || u.seen[0] != DirtyAll {
		t.Errorf("uploader saw %v, want [%b]", u.seen, DirtyAll)
	}
}

func TestFlushFailureKeepsDirty(t *testing.T) {
	m := NewQuad("quad")
	m.ClearDirty(DirtyAll)
	m.MarkDirty(DirtyUVs)

	boom := errors.New("device lost")
	u := &recordingUploader{err: boom}
	if err := Flush(u, m); !errors.Is(err, boom) {
		t.Fatalf("Flush() error = %v, want %v", err, boom)
	}
	if m.Dirty() != DirtyUVs {
		t.Errorf("Dirty() = %b after failed flush, want %b", m.Dirty(), DirtyUVs)
	}
}

type forgettingUploader struct {
	recordingUploader
	forgotten []string
}

func (u *forgettingUploader) Forget(m Mesh) {
	u.forgotten = append(u.forgotten, m.Name())
}

func TestForget(t *testing.T) {
	a, b := NewQuad("a"), NewQuad("b")

	u := &forgettingUploader{}
	Forget(u, a, nil, b)
	if len(u.forgotten) != 2 || u.forgotten[0] != "a" || u.forgotten[1] != "b" {
		t.Errorf("forgotten = %v, want [a b]", u.forgotten)
	}

	// An uploader without Forget is left alone.
	Forget(&recordingUploader{}, a, b)
}

func TestReleaseQueue(t *testing.T) {
	var q ReleaseQueue
	q.Add(NewQuad("a"), nil)
	q.Add(NewQuad("b"))
	if q.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", q.Len())
	}

	u := &forgettingUploader{}
	q.Release(u)
	if len(u.forgotten) != 2 || u.forgotten[0] != "a" || u.forgotten[1] != "b" {
		t.Errorf("forgotten = %v, want [a b]", u.forgotten)
	}
	if q.Len() != 0 {
		t.Errorf("Len() = %d after Release, want 0", q.Len())
	}

	q.Release(u)
	if len(u.forgotten) != 2 {
		t.Error("empty queue should forget nothing")
	}
}
