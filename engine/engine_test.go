package engine

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-flipbook/engine/material"
	"github.com/Carmen-Shannon/oxy-flipbook/engine/mesh"
	"github.com/Carmen-Shannon/oxy-flipbook/engine/scene"
	"github.com/Carmen-Shannon/oxy-flipbook/engine/sequence"
)

type nopUploader struct{}

func (nopUploader) Upload(mesh.Mesh) error { return nil }

type fakeRenderer struct {
	mu       sync.Mutex
	frames   int
	draws    int
	failNext bool
}

func (r *fakeRenderer) BeginFrame() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failNext {
		r.failNext = false
		return errors.New("surface lost")
	}
	return nil
}

func (r *fakeRenderer) DrawMesh(mesh.Mesh, material.Material, [3]float32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.draws++
	return nil
}

func (r *fakeRenderer) EndFrame() {}

func (r *fakeRenderer) Present() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames++
}

func (r *fakeRenderer) counts() (frames, draws int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames, r.draws
}

type closingLoop struct {
	after time.Duration
}

func (l closingLoop) ProcessMessages() {
	time.Sleep(l.after)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func newActiveScene(t *testing.T) (scene.Scene, sequence.Sequence) {
	t.Helper()
	seq := sequence.NewSequence(nopUploader{}, sequence.WithName("fire"), sequence.WithAmount(3))
	s := scene.NewScene("main", scene.WithSequences(seq), scene.WithActive(true))
	if err := s.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	t.Cleanup(s.Release)
	return s, seq
}

func TestRunTicksAndDraws(t *testing.T) {
	s, _ := newActiveScene(t)
	r := &fakeRenderer{failNext: true}

	var mu sync.Mutex
	var ticks, renders int
	e := NewEngine(WithRenderer(r), WithScene(0, s), WithTickRate(500), WithRenderFrameLimit(500))
	e.SetTickCallback(func(float32) {
		mu.Lock()
		ticks++
		mu.Unlock()
	})
	e.SetRenderCallback(func(float32) {
		mu.Lock()
		renders++
		mu.Unlock()
	})

	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		frames, _ := r.counts()
		return ticks >= 3 && renders >= 3 && frames >= 2
	})
	e.Quit()
	e.Quit()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Quit")
	}

	frames, draws := r.counts()
	if draws != frames {
		t.Errorf("batched scene should issue one draw per frame: %d draws over %d frames", draws, frames)
	}
}

func TestInactiveScenesAreSkipped(t *testing.T) {
	s, _ := newActiveScene(t)
	s.SetActive(false)
	r := &fakeRenderer{}

	e := NewEngine(WithRenderer(r), WithScene(1, s), WithRenderFrameLimit(500))
	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()
	waitFor(t, func() bool {
		frames, _ := r.counts()
		return frames >= 3
	})
	e.Quit()
	<-done

	if _, draws := r.counts(); draws != 0 {
		t.Errorf("inactive scene drew %d meshes", draws)
	}
}

func TestRunReturnsWhenMessageLoopEnds(t *testing.T) {
	e := NewEngine(WithMessageLoop(closingLoop{after: 20 * time.Millisecond}))
	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after the message loop ended")
	}
}

func TestRenderPanicQuits(t *testing.T) {
	e := NewEngine(WithRenderFrameLimit(1000))
	e.SetRenderCallback(func(float32) { panic("boom") })

	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("a render panic should stop the engine")
	}
}

func TestSceneRegistry(t *testing.T) {
	a := scene.NewScene("a")
	b := scene.NewScene("b")
	t.Cleanup(a.Release)
	t.Cleanup(b.Release)

	e := NewEngine(WithScene(2, b))
	e.AddScene(1, a)
	if e.Scene(1) != a || e.Scene(2) != b || e.Scene(3) != nil {
		t.Fatal("Scene lookup returned the wrong scene")
	}

	cp := e.Scenes()
	delete(cp, 1)
	if e.Scene(1) == nil {
		t.Error("Scenes should return a copy")
	}

	e.RemoveScene(1)
	if len(e.Scenes()) != 1 {
		t.Errorf("expected one scene left, got %d", len(e.Scenes()))
	}
}

func TestFrameDuration(t *testing.T) {
	tests := []struct {
		fps  float64
		want time.Duration
	}{
		{0, 0},
		{-5, 0},
		{100, 10 * time.Millisecond},
		{60, time.Second / 60},
	}
	for _, tt := range tests {
		if got := frameDuration(tt.fps); got != tt.want {
			t.Errorf("frameDuration(%v) = %v, want %v", tt.fps, got, tt.want)
		}
	}
}
