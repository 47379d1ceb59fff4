package scene

import (
	"errors"
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-flipbook/engine/material"
	"github.com/Carmen-Shannon/oxy-flipbook/engine/mesh"
	"github.com/Carmen-Shannon/oxy-flipbook/engine/sequence"
)

type countingUploader struct {
	mu     sync.Mutex
	counts map[string]int
	err    error
}

func (u *countingUploader) Upload(m mesh.Mesh) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.err != nil {
		return u.err
	}
	if u.counts == nil {
		u.counts = make(map[string]int)
	}
	u.counts[m.Name()]++
	return nil
}

func (u *countingUploader) count(name string) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.counts[name]
}

type draw struct {
	name     string
	mat      material.Material
	position [3]float32
}

type recordingDrawer struct {
	draws []draw
	err   error
}

func (d *recordingDrawer) DrawMesh(m mesh.Mesh, mat material.Material, position [3]float32) error {
	if d.err != nil {
		return d.err
	}
	d.draws = append(d.draws, draw{name: m.Name(), mat: mat, position: position})
	return nil
}

func newSequence(up mesh.Uploader, name string, options ...sequence.SequenceBuilderOption) sequence.Sequence {
	opts := append([]sequence.SequenceBuilderOption{sequence.WithName(name), sequence.WithAmount(4)}, options...)
	return sequence.NewSequence(up, opts...)
}

func TestSceneRegistry(t *testing.T) {
	up := &countingUploader{}
	a, b := newSequence(up, "a"), newSequence(up, "b")
	s := NewScene("main", WithSequences(a, b), WithActive(true), WithTickWorkers(2))
	defer s.Release()

	if s.Name() != "main" || !s.Active() || s.Count() != 2 {
		t.Fatalf("unexpected scene: name %q active %v count %d", s.Name(), s.Active(), s.Count())
	}
	if s.Get("b") != b || s.Get("missing") != nil {
		t.Error("Get returned the wrong sequence")
	}

	c := newSequence(up, "c")
	s.Replace("a", c)
	if seqs := s.Sequences(); seqs[0] != c || seqs[1] != b {
		t.Error("Replace should keep draw order")
	}

	s.Remove("c")
	if s.Count() != 1 || s.Get("c") != nil {
		t.Errorf("Remove left %d sequences", s.Count())
	}

	s.Clear()
	if s.Count() != 0 {
		t.Error("Clear should remove every sequence")
	}
}

func TestSceneInitializeAndTickFanOut(t *testing.T) {
	up := &countingUploader{}
	s := NewScene("main", WithTickWorkers(3))
	defer s.Release()

	names := []string{"s0", "s1", "s2", "s3", "s4"}
	for _, n := range names {
		s.Add(newSequence(up, n))
	}
	if err := s.Initialize(); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	s.Tick(0.2)
	s.Tick(0.2)

	for _, n := range names {
		if got := up.count(n + "/merged"); got != 2 {
			t.Errorf("%s uploads = %d, want 2 (initial + one advance)", n, got)
		}
		if got := s.Get(n).Animator().Ticks(); got != 1 {
			t.Errorf("%s ticks = %d, want 1", n, got)
		}
	}
}

func TestSceneTickSkipsUninitialized(t *testing.T) {
	up := &countingUploader{}
	s := NewScene("main")
	defer s.Release()

	seq := newSequence(up, "lazy")
	s.Add(seq)
	s.Tick(1)
	s.Tick(1)

	if seq.Initialized() || up.count("lazy/merged") != 0 {
		t.Error("uninitialized sequences must not be ticked")
	}
}

func TestSceneInitializeJoinsErrors(t *testing.T) {
	up := &countingUploader{}
	s := NewScene("main", WithSequences(
		newSequence(up, "ok"),
		newSequence(up, "bad-grid", sequence.WithGrid(0, 1)),
		newSequence(up, "bad-amount", sequence.WithAmount(-1)),
	))
	defer s.Release()

	err := s.Initialize()
	if err == nil {
		t.Fatal("expected an error")
	}
	if !s.Get("ok").Initialized() {
		t.Error("valid sequences should still initialize")
	}
	if s.Get("bad-grid").Initialized() || s.Get("bad-amount").Initialized() {
		t.Error("invalid sequences must stay uninitialized")
	}
}

func TestSceneDrawCallsBatched(t *testing.T) {
	up := &countingUploader{}
	mat := material.NewMaterial(material.WithName("smoke"))
	s := NewScene("main", WithSequences(
		newSequence(up, "fx", sequence.WithMaterial(mat), sequence.WithOrigin(5, 0, 0)),
	))
	defer s.Release()
	if err := s.Initialize(); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	d := &recordingDrawer{}
	if err := s.DrawCalls(d); err != nil {
		t.Fatalf("DrawCalls() error = %v", err)
	}
	if len(d.draws) != 1 {
		t.Fatalf("draws = %d, want one merged draw", len(d.draws))
	}
	got := d.draws[0]
	if got.name != "fx/merged" || got.mat != mat || got.position != [3]float32{5, 0, 0} {
		t.Errorf("unexpected draw %+v", got)
	}
}

func TestSceneDrawCallsUnbatched(t *testing.T) {
	up := &countingUploader{}
	seq := newSequence(up, "fx",
		sequence.WithBatching(false),
		sequence.WithSpritePrefab(mesh.NewQuad("quad")),
		sequence.WithOrigin(0, 10, 0),
	)
	s := NewScene("main", WithSequences(seq))
	defer s.Release()
	if err := s.Initialize(); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	seq.Sprites()[2].SetEnabled(false)

	d := &recordingDrawer{}
	if err := s.DrawCalls(d); err != nil {
		t.Fatalf("DrawCalls() error = %v", err)
	}
	if len(d.draws) != 3 {
		t.Fatalf("draws = %d, want 3 enabled sprites", len(d.draws))
	}
	for _, dr := range d.draws {
		if dr.name == "fx/sprite-2" {
			t.Error("disabled sprite was drawn")
		}
		if dr.position[1] < 10 {
			t.Errorf("sprite %s position %v should include the origin", dr.name, dr.position)
		}
	}
}

func TestSceneDrawCallsErrors(t *testing.T) {
	s := NewScene("main", WithSequences(newSequence(&countingUploader{}, "fx")))
	defer s.Release()
	if err := s.Initialize(); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	if err := s.DrawCalls(nil); err == nil {
		t.Error("expected an error without a drawer")
	}

	boom := errors.New("no pipeline")
	if err := s.DrawCalls(&recordingDrawer{err: boom}); !errors.Is(err, boom) {
		t.Errorf("DrawCalls() error = %v, want %v", err, boom)
	}
}
