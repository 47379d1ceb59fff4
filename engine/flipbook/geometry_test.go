package flipbook

import (
	"errors"
	"reflect"
	"testing"
)

func TestBuildGeometryCounts(t *testing.T) {
	g := Grid{Columns: 4, Rows: 2}
	for _, amount := range []int{0, 1, 2, 17, 100} {
		geo, err := BuildGeometry(amount, Scale{2, 2}, Range{30, 30, 30}, g, NewSampler(1))
		if err != nil {
			t.Fatalf("amount %d: BuildGeometry() error = %v", amount, err)
		}
		if len(geo.Positions) != 4*amount {
			t.Errorf("amount %d: vertices = %d, want %d", amount, len(geo.Positions), 4*amount)
		}
		if len(geo.Indices) != 6*amount {
			t.Errorf("amount %d: indices = %d, want %d", amount, len(geo.Indices), 6*amount)
		}
		if len(geo.UVs) != len(geo.Positions) {
			t.Errorf("amount %d: uvs = %d, want %d", amount, len(geo.UVs), len(geo.Positions))
		}
		if len(geo.Quads) != amount {
			t.Errorf("amount %d: quads = %d, want %d", amount, len(geo.Quads), amount)
		}
	}
}

func TestBuildGeometryQuadLayout(t *testing.T) {
	w, h := float32(2), float32(3)
	rng := Range{10, 20, 30}
	geo, err := BuildGeometry(8, Scale{w, h}, rng, Grid{4, 2}, NewSampler(42))
	if err != nil {
		t.Fatalf("BuildGeometry() error = %v", err)
	}

	initial := Grid{4, 2}.FrameUV(0)
	for i, q := range geo.Quads {
		p := q.Position
		if p[0] < 0 || p[0] >= rng.X || p[1] < 0 || p[1] >= rng.Y || p[2] < 0 || p[2] >= rng.Z {
			t.Errorf("quad %d: position %v outside range %v", i, p, rng)
		}

		want := [4][3]float32{
			p,
			{p[0], p[1], p[2] + h},
			{p[0] + w, p[1], p[2] + h},
			{p[0] + w, p[1], p[2]},
		}
		for v := 0; v < 4; v++ {
			if geo.Positions[i*4+v] != want[v] {
				t.Errorf("quad %d vertex %d = %v, want %v", i, v, geo.Positions[i*4+v], want[v])
			}
			if geo.UVs[i*4+v] != initial[v] {
				t.Errorf("quad %d uv %d = %v, want %v", i, v, geo.UVs[i*4+v], initial[v])
			}
		}

		base := uint32(i * 4)
		wantIdx := []uint32{base, base + 1, base + 2, base, base + 2, base + 3}
		if !reflect.DeepEqual(geo.Indices[i*6:i*6+6], wantIdx) {
			t.Errorf("quad %d indices = %v, want %v", i, geo.Indices[i*6:i*6+6], wantIdx)
		}
	}
}

func TestBuildGeometryPhaseRange(t *testing.T) {
	g := Grid{Columns: 4, Rows: 2}
	geo, err := BuildGeometry(2000, Scale{1, 1}, Range{1, 1, 1}, g, NewSampler(7))
	if err != nil {
		t.Fatalf("BuildGeometry() error = %v", err)
	}

	seen := make(map[int]bool)
	for _, p := range geo.Phases() {
		if p < 0 || p > g.FrameCount()-2 {
			t.Fatalf("phase %d outside [0, %d]", p, g.FrameCount()-2)
		}
		seen[p] = true
	}
	if seen[g.FrameCount()-1] {
		t.Error("last frame must not be an initial phase")
	}
	if len(seen) != g.FrameCount()-1 {
		t.Errorf("expected every phase in [0, %d] to be drawn, saw %d distinct", g.FrameCount()-2, len(seen))
	}
}

func TestBuildGeometrySingleFrameGrid(t *testing.T) {
	geo, err := BuildGeometry(10, Scale{1, 1}, Range{1, 1, 1}, Grid{1, 1}, NewSampler(3))
	if err != nil {
		t.Fatalf("BuildGeometry() error = %v", err)
	}
	for i, p := range geo.Phases() {
		if p != 0 {
			t.Errorf("quad %d phase = %d, want 0", i, p)
		}
	}
}

func TestBuildGeometryDeterministic(t *testing.T) {
	build := func(seed int64) *Geometry {
		geo, err := BuildGeometry(50, Scale{2, 2}, Range{30, 30, 30}, Grid{4, 2}, NewSampler(seed))
		if err != nil {
			t.Fatalf("BuildGeometry() error = %v", err)
		}
		return geo
	}

	a, b := build(99), build(99)
	if !reflect.DeepEqual(a, b) {
		t.Error("equal seeds produced different geometry")
	}

	c := build(100)
	if reflect.DeepEqual(a.Positions, c.Positions) {
		t.Error("different seeds produced identical positions")
	}
}

func TestBuildGeometryErrors(t *testing.T) {
	tests := []struct {
		name   string
		amount int
		grid   Grid
		field  string
	}{
		{name: "negative amount", amount: -1, grid: Grid{4, 2}, field: "amount"},
		{name: "zero columns", amount: 1, grid: Grid{0, 2}, field: "grid.columns"},
		{name: "zero rows", amount: 1, grid: Grid{4, 0}, field: "grid.rows"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			geo, err := BuildGeometry(tt.amount, Scale{1, 1}, Range{1, 1, 1}, tt.grid, NewSampler(0))
			if geo != nil {
				t.Error("expected nil geometry on error")
			}
			var cfgErr *ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected *ConfigurationError, got %v", err)
			}
			if cfgErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", cfgErr.Field, tt.field)
			}
		})
	}
}
