// Package termview draws a hex grid and search progress on a terminal.
package termview

import (
	"math"

	"github.com/talgya/hexpath/internal/world"
)

// Cell is a terminal position, column then row.
type Cell struct {
	X, Y int
}

// Projection maps every populated hex of a grid to a distinct terminal cell.
// Pointy grids use two columns per hex so alternate rows interleave; flat
// grids use two rows per hex so alternate columns interleave.
type Projection struct {
	Width, Height int // Extent of the projected area in cells

	cells map[world.HexCoord]Cell
	hexes map[Cell]world.HexCoord
}

// Project lays out g's populated hexes. Positions come from the grid's pixel
// layout, quantized to the smallest step between neighboring hex centers.
func Project(g *world.Grid) Projection {
	p := Projection{
		cells: make(map[world.HexCoord]Cell, g.Len()),
		hexes: make(map[Cell]world.HexCoord, g.Len()),
	}
	coords := g.Coords()
	if len(coords) == 0 {
		return p
	}

	f := g.Layout.Orientation.Forward()
	unitX := minNonZero(f[0], f[1]) * g.Layout.Size.X
	unitY := minNonZero(f[2], f[3]) * g.Layout.Size.Y

	minX, minY := math.Inf(1), math.Inf(1)
	for _, h := range coords {
		c := g.Center(h)
		minX = math.Min(minX, c.X)
		minY = math.Min(minY, c.Y)
	}

	for _, h := range coords {
		c := g.Center(h)
		cell := Cell{
			X: int(math.Round((c.X - minX) / unitX)),
			Y: int(math.Round((c.Y - minY) / unitY)),
		}
		p.cells[h] = cell
		p.hexes[cell] = h
		p.Width = max(p.Width, cell.X+1)
		p.Height = max(p.Height, cell.Y+1)
	}
	return p
}

// Cell returns the terminal cell of h.
func (p Projection) Cell(h world.HexCoord) (Cell, bool) {
	c, ok := p.cells[h]
	return c, ok
}

// HexAt returns the hex drawn at a projected cell.
func (p Projection) HexAt(c Cell) (world.HexCoord, bool) {
	h, ok := p.hexes[c]
	return h, ok
}

// Len returns the number of projected hexes.
func (p Projection) Len() int {
	return len(p.cells)
}

func minNonZero(a, b float64) float64 {
	a, b = math.Abs(a), math.Abs(b)
	switch {
	case a == 0:
		return b
	case b == 0:
		return a
	default:
		return math.Min(a, b)
	}
}
