// Grid generation: builds a layout, populates a shape, and scatters walls and
// dirt with layered simplex noise.
package world

import (
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// GenConfig holds grid generation parameters.
type GenConfig struct {
	Shape       Shape
	Orientation Orientation
	Width       int     // Columns, or radius for hexagonal shapes
	Height      int     // Rows (rectangular only)
	HexSize     float64 // Pixel radius of one hex
	Seed        int64   // Random seed (0 = random)
	WallLevel   float64 // Noise threshold for walls (0.0–1.0, 0 = no walls)
	DirtLevel   float64 // Noise threshold for dirt (0.0–1.0, 0 = no dirt)
	Frequency   float64 // Base noise frequency per hex
}

// DefaultGenConfig matches the interactive editor's default board:
// a 37x25 pointy rectangle of 15px hexes.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Shape:       ShapeRectangular,
		Orientation: Pointy,
		Width:       37,
		Height:      25,
		HexSize:     15,
		Seed:        0,
		WallLevel:   0.68,
		DirtLevel:   0.62,
		Frequency:   0.12,
	}
}

// SmallTestConfig returns a tiny board for rapid iteration.
func SmallTestConfig() GenConfig {
	return GenConfig{
		Shape:       ShapeRectangular,
		Orientation: Pointy,
		Width:       9,
		Height:      7,
		HexSize:     10,
		Seed:        42,
		WallLevel:   0.70,
		DirtLevel:   0.60,
		Frequency:   0.2,
	}
}

// Generate creates a populated grid with noise-painted terrain.
func Generate(cfg GenConfig) *Grid {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}

	orientation := cfg.Orientation
	if orientation.Name() == "" {
		orientation = Pointy
	}
	layout := NewLayout(orientation, Point{X: cfg.HexSize, Y: cfg.HexSize}, Point{})
	g := NewGrid(layout, Dimensions{Width: cfg.Width, Height: cfg.Height})
	g.Populate(cfg.Shape)

	if cfg.WallLevel <= 0 && cfg.DirtLevel <= 0 {
		return g
	}

	wallNoise := opensimplex.NewNormalized(seed)
	dirtNoise := opensimplex.NewNormalized(seed + 1)
	freq := cfg.Frequency
	if freq <= 0 {
		freq = 0.1
	}

	for _, c := range g.Coords() {
		// Axial to cartesian so noise features are isotropic on the lattice.
		x := float64(c.Q) + float64(c.R)*0.5
		y := float64(c.R) * math.Sqrt(3.0) / 2.0

		if cfg.WallLevel > 0 && octaveNoise(wallNoise, x, y, 3, freq, 0.5) > cfg.WallLevel {
			g.types[c] = CellWall
			continue
		}
		if cfg.DirtLevel > 0 && octaveNoise(dirtNoise, x, y, 2, freq*0.8, 0.5) > cfg.DirtLevel {
			g.types[c] = CellDirt
		}
	}

	return g
}

// PlaceEndpoints marks the leftmost and rightmost passable cells as start and
// end, scanning in Coords order. Returns false when fewer than two passable
// cells exist.
func PlaceEndpoints(g *Grid) (start, end HexCoord, ok bool) {
	var passable []HexCoord
	for _, c := range g.Coords() {
		if g.CellType(c).Passable() {
			passable = append(passable, c)
		}
	}
	if len(passable) < 2 {
		return HexCoord{}, HexCoord{}, false
	}

	start, end = passable[0], passable[0]
	for _, c := range passable[1:] {
		if g.Center(c).X < g.Center(start).X {
			start = c
		}
		if g.Center(c).X > g.Center(end).X {
			end = c
		}
	}
	if start == end {
		start, end = passable[0], passable[len(passable)-1]
	}

	if err := g.SetCellType(start, CellStart); err != nil {
		return HexCoord{}, HexCoord{}, false
	}
	if err := g.SetCellType(end, CellEnd); err != nil {
		return HexCoord{}, HexCoord{}, false
	}
	return start, end, true
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
