package flipbook

import (
	"errors"
	"math"
	"testing"
)

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-6
}

func TestGridValidate(t *testing.T) {
	tests := []struct {
		name    string
		grid    Grid
		wantErr bool
		field   string
	}{
		{name: "4x2", grid: Grid{Columns: 4, Rows: 2}},
		{name: "1x1", grid: Grid{Columns: 1, Rows: 1}},
		{name: "zero columns", grid: Grid{Columns: 0, Rows: 2}, wantErr: true, field: "grid.columns"},
		{name: "negative rows", grid: Grid{Columns: 4, Rows: -1}, wantErr: true, field: "grid.rows"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.grid.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				return
			}
			if !errors.Is(err, ErrConfiguration) {
				t.Errorf("expected errors.Is(err, ErrConfiguration), got %v", err)
			}
			var cfgErr *ConfigurationError
			if !errors.As(err, &cfgErr) || cfgErr.Field != tt.field {
				t.Errorf("expected ConfigurationError on %q, got %v", tt.field, err)
			}
		})
	}
}

func TestGridCellRowMajor(t *testing.T) {
	g := Grid{Columns: 4, Rows: 2}
	want := [][2]int{{0, 0}, {1, 0}, {2, 0}, {3, 0}, {0, 1}, {1, 1}, {2, 1}, {3, 1}, {0, 0}, {1, 0}}
	for phase, cell := range want {
		col, row := g.Cell(phase)
		if col != cell[0] || row != cell[1] {
			t.Errorf("Cell(%d) = (%d, %d), want (%d, %d)", phase, col, row, cell[0], cell[1])
		}
	}
}

func TestGridCellUnreducedPhase(t *testing.T) {
	g := Grid{Columns: 3, Rows: 5}
	for phase := 0; phase < 200; phase++ {
		col, row := g.Cell(phase)
		rc, rr := g.Cell(g.Frame(phase))
		if col != rc || row != rr {
			t.Fatalf("Cell(%d) = (%d, %d), Cell(Frame) = (%d, %d)", phase, col, row, rc, rr)
		}
	}
}

func TestFrameUVScenario(t *testing.T) {
	g := Grid{Columns: 4, Rows: 2}

	frame0 := g.FrameUV(0)
	want0 := UVRect{{0, 0.5}, {0, 1}, {0.25, 1}, {0.25, 0.5}}
	if frame0 != want0 {
		t.Errorf("FrameUV(0) = %v, want %v", frame0, want0)
	}

	frame1 := g.FrameUV(1)
	want1 := UVRect{{0.25, 0.5}, {0.25, 1}, {0.5, 1}, {0.5, 0.5}}
	if frame1 != want1 {
		t.Errorf("FrameUV(1) = %v, want %v", frame1, want1)
	}

	// second row sits below the first in UV space
	frame4 := g.FrameUV(4)
	want4 := UVRect{{0, 0}, {0, 0.5}, {0.25, 0.5}, {0.25, 0}}
	if frame4 != want4 {
		t.Errorf("FrameUV(4) = %v, want %v", frame4, want4)
	}

	// last cell wraps back to (0,0)
	if g.FrameUV(8) != frame0 {
		t.Errorf("FrameUV(8) = %v, want frame 0 %v", g.FrameUV(8), frame0)
	}
}

func TestFrameUVRectSize(t *testing.T) {
	grids := []Grid{{1, 1}, {4, 2}, {3, 7}, {8, 8}, {5, 3}}
	for _, g := range grids {
		cw, ch := g.CellSize()
		for phase := 0; phase < g.FrameCount()*2; phase++ {
			r := g.FrameUV(phase)
			if !approx(r[2][0]-r[1][0], cw) || !approx(r[3][0]-r[0][0], cw) {
				t.Errorf("grid %v phase %d: width = %v, want %v", g, phase, r[2][0]-r[1][0], cw)
			}
			if !approx(r[1][1]-r[0][1], ch) || !approx(r[2][1]-r[3][1], ch) {
				t.Errorf("grid %v phase %d: height = %v, want %v", g, phase, r[1][1]-r[0][1], ch)
			}
			for _, uv := range r {
				if uv[0] < -1e-6 || uv[0] > 1+1e-6 || uv[1] < -1e-6 || uv[1] > 1+1e-6 {
					t.Errorf("grid %v phase %d: uv %v outside [0,1]", g, phase, uv)
				}
			}
		}
	}
}

func TestUVRectApply(t *testing.T) {
	r := UVRect{{0, 0}, {0, 1}, {1, 1}, {1, 0}}

	batched := make([][2]float32, 4)
	r.Apply(batched, BatchedSlots)
	for i := range r {
		if batched[i] != r[i] {
			t.Errorf("batched slot %d = %v, want %v", i, batched[i], r[i])
		}
	}

	unbatched := make([][2]float32, 4)
	r.Apply(unbatched, UnbatchedSlots)
	want := [][2]float32{r[0], r[2], r[1], r[3]}
	for i := range want {
		if unbatched[i] != want[i] {
			t.Errorf("unbatched slot %d = %v, want %v", i, unbatched[i], want[i])
		}
	}
}
