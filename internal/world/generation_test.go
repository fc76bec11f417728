package world

import "testing"

func TestGenerateDeterministic(t *testing.T) {
	cfg := SmallTestConfig()
	a := Generate(cfg)
	b := Generate(cfg)

	if a.Len() != cfg.Width*cfg.Height {
		t.Fatalf("Len() = %d, want %d", a.Len(), cfg.Width*cfg.Height)
	}
	for _, c := range a.Coords() {
		if a.CellType(c) != b.CellType(c) {
			t.Fatalf("seed %d produced different cell at %v: %s vs %s", cfg.Seed, c, a.CellType(c), b.CellType(c))
		}
	}
}

func TestGenerateNoTerrain(t *testing.T) {
	cfg := SmallTestConfig()
	cfg.WallLevel = 0
	cfg.DirtLevel = 0
	g := Generate(cfg)
	counts := CellCounts(g)
	if counts[CellEmpty] != g.Len() {
		t.Errorf("expected all empty cells, got %v", counts)
	}
}

func TestGenerateOnlyPaintsPopulated(t *testing.T) {
	cfg := DefaultGenConfig()
	cfg.Seed = 7
	cfg.Shape = ShapeHexagonal
	cfg.Width = 6
	cfg.WallLevel = 0.5
	cfg.DirtLevel = 0.5
	g := Generate(cfg)
	for c := range g.types {
		if !g.Contains(c) {
			t.Errorf("painted unpopulated cell %v", c)
		}
	}
}

func TestPlaceEndpoints(t *testing.T) {
	cfg := SmallTestConfig()
	cfg.WallLevel = 0
	cfg.DirtLevel = 0
	g := Generate(cfg)

	start, end, ok := PlaceEndpoints(g)
	if !ok {
		t.Fatal("PlaceEndpoints failed on an open grid")
	}
	if start == end {
		t.Fatalf("start and end coincide at %v", start)
	}
	if s, _ := g.Start(); s != start {
		t.Errorf("Start() = %v, want %v", s, start)
	}
	if e, _ := g.End(); e != end {
		t.Errorf("End() = %v, want %v", e, end)
	}
	if g.Center(start).X >= g.Center(end).X {
		t.Errorf("start %v is not left of end %v", start, end)
	}
}

func TestPlaceEndpointsTooSmall(t *testing.T) {
	g := NewGrid(NewLayout(Pointy, Point{X: 1, Y: 1}, Point{}), Dimensions{})
	g.Populate(ShapeHexagonal)
	if _, _, ok := PlaceEndpoints(g); ok {
		t.Error("PlaceEndpoints succeeded on a single-cell grid")
	}
}
