package flipbook

import "testing"

func newTestAnimator(grid Grid, phases []int, options ...AnimatorBuilderOption) Animator {
	quads := make([]Quad, len(phases))
	for i, p := range phases {
		quads[i].Phase = p
	}
	return NewAnimator(grid, quads, make([][2]float32, len(phases)*4), options...)
}

func quadUV(a Animator, i int) UVRect {
	var r UVRect
	copy(r[:], a.UVs()[i*4:i*4+4])
	return r
}

func TestAnimatorScenario(t *testing.T) {
	g := Grid{Columns: 4, Rows: 2}
	a := newTestAnimator(g, []int{0})

	a.Advance()
	if got, want := quadUV(a, 0), (UVRect{{0, 0.5}, {0, 1}, {0.25, 1}, {0.25, 0.5}}); got != want {
		t.Errorf("advance from phase 0: uv = %v, want %v", got, want)
	}
	if a.Phases()[0] != 1 {
		t.Errorf("phase after first advance = %d, want 1", a.Phases()[0])
	}

	a.Advance()
	if got, want := quadUV(a, 0), (UVRect{{0.25, 0.5}, {0.25, 1}, {0.5, 1}, {0.5, 0.5}}); got != want {
		t.Errorf("advance from phase 1: uv = %v, want %v", got, want)
	}
	if a.Phases()[0] != 2 {
		t.Errorf("phase after second advance = %d, want 2", a.Phases()[0])
	}
}

func TestAnimatorFrameAfterAdvances(t *testing.T) {
	g := Grid{Columns: 3, Rows: 4}
	initial := []int{0, 1, 5, 10, 7}
	a := newTestAnimator(g, initial)

	for k := 1; k <= 40; k++ {
		a.Advance()
		for i, p0 := range initial {
			shown := g.Frame(p0 + k - 1)
			if got, want := quadUV(a, i), g.FrameUV(shown); got != want {
				t.Fatalf("quad %d after %d advances: uv = %v, want frame %d %v", i, k, got, shown, want)
			}
			if a.Phases()[i] != p0+k {
				t.Fatalf("quad %d after %d advances: phase = %d, want %d", i, k, a.Phases()[i], p0+k)
			}
		}
	}
	if a.Ticks() != 40 {
		t.Errorf("Ticks() = %d, want 40", a.Ticks())
	}
}

func TestAnimatorWrapsToFirstCell(t *testing.T) {
	g := Grid{Columns: 4, Rows: 2}
	a := newTestAnimator(g, []int{g.FrameCount() - 1})

	a.Advance()
	if got, want := quadUV(a, 0), g.FrameUV(7); got != want {
		t.Errorf("last cell uv = %v, want %v", got, want)
	}

	a.Advance()
	if got, want := quadUV(a, 0), g.FrameUV(0); got != want {
		t.Errorf("wrapped uv = %v, want cell (0,0) %v", got, want)
	}
	if col, row := g.Cell(a.Phases()[0] - 1); col != 0 || row != 0 {
		t.Errorf("wrapped cell = (%d, %d), want (0, 0)", col, row)
	}
}

func TestAnimatorUnbatchedSlots(t *testing.T) {
	g := Grid{Columns: 4, Rows: 2}
	batched := newTestAnimator(g, []int{3})
	unbatched := newTestAnimator(g, []int{3}, WithSlotOrder(UnbatchedSlots))

	batched.Advance()
	unbatched.Advance()

	b, u := quadUV(batched, 0), quadUV(unbatched, 0)
	if u[0] != b[0] || u[3] != b[3] {
		t.Errorf("slots 0 and 3 must match: batched %v, unbatched %v", b, u)
	}
	if u[1] != b[2] || u[2] != b[1] {
		t.Errorf("slots 1 and 2 must be swapped: batched %v, unbatched %v", b, u)
	}
}

func TestAnimatorEmpty(t *testing.T) {
	a := NewAnimator(Grid{4, 2}, nil, nil)
	a.Advance()
	if len(a.UVs()) != 0 || len(a.Phases()) != 0 {
		t.Error("empty animator should stay empty")
	}
}

func TestAnimatorSharesUVBuffer(t *testing.T) {
	uvs := make([][2]float32, 4)
	a := NewAnimator(Grid{2, 2}, []Quad{{Phase: 1}}, uvs)
	a.Advance()
	if uvs[0] != (Grid{2, 2}).FrameUV(1)[0] {
		t.Errorf("animator did not write into the caller's buffer: %v", uvs)
	}
}
