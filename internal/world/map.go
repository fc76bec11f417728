package world

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Marker assignment errors, returned only under MarkersReject.
var (
	ErrMarkerExists   = errors.New("marker already placed")
	ErrMarkerConflict = errors.New("cannot wall over a marker")
)

// Shape selects how Populate lays out cells.
type Shape uint8

const (
	ShapeRectangular Shape = iota // Offset-coordinate rectangle, Width x Height
	ShapeHexagonal                // All hexes within Width of the origin
)

// String returns the lowercase shape name.
func (s Shape) String() string {
	switch s {
	case ShapeRectangular:
		return "rectangular"
	case ShapeHexagonal:
		return "hexagonal"
	default:
		return "unknown"
	}
}

// ParseShape maps a shape name to a Shape.
func ParseShape(name string) (Shape, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "rectangular", "rect", "":
		return ShapeRectangular, nil
	case "hexagonal", "hex":
		return ShapeHexagonal, nil
	default:
		return ShapeRectangular, fmt.Errorf("unknown shape %q", name)
	}
}

// Dimensions sizes a shape. Hexagonal shapes use Width as the radius.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// MarkerPolicy decides what happens when start/end markers collide.
type MarkerPolicy uint8

const (
	// MarkersOverwrite moves a marker, resetting its previous cell to Empty.
	MarkersOverwrite MarkerPolicy = iota
	// MarkersReject refuses a second marker or a wall over a marker.
	MarkersReject
)

// Grid holds populated hex cells and their painted types.
// It is not safe for concurrent use.
type Grid struct {
	Layout Layout       `json:"-"`
	Dims   Dimensions   `json:"dims"`
	Shape  Shape        `json:"shape"`
	Policy MarkerPolicy `json:"-"`

	cells map[HexCoord]struct{} // Populated membership
	types map[HexCoord]CellType // Painted types; absent means Empty

	start, end       HexCoord
	hasStart, hasEnd bool
}

// NewGrid creates an unpopulated grid.
func NewGrid(layout Layout, dims Dimensions) *Grid {
	return &Grid{
		Layout: layout,
		Dims:   dims,
		cells:  make(map[HexCoord]struct{}),
		types:  make(map[HexCoord]CellType),
	}
}

// Populate regenerates cell membership for the given shape using the grid's
// dimensions. Painted types are kept.
func (g *Grid) Populate(shape Shape) {
	clear(g.cells)
	g.Shape = shape
	w, h := g.Dims.Width, g.Dims.Height

	switch shape {
	case ShapeHexagonal:
		for _, c := range Disk(Origin, w) {
			g.cells[c] = struct{}{}
		}
	case ShapeRectangular:
		if g.Layout.Orientation == Flat {
			for q := 0; q < w; q++ {
				qOffset := q >> 1
				for r := -qOffset; r < h-qOffset; r++ {
					g.cells[HexCoord{Q: q, R: r}] = struct{}{}
				}
			}
			return
		}
		qStart := -floorDiv(w, 2)
		rStart := -floorDiv(h, 2)
		for r := rStart; r < rStart+h; r++ {
			rOffset := -floorDiv(r, 2)
			for q := qStart + rOffset; q < qStart+w+rOffset; q++ {
				g.cells[HexCoord{Q: q, R: r}] = struct{}{}
			}
		}
	}
}

// PopulateWith resizes the grid and repopulates it.
func (g *Grid) PopulateWith(shape Shape, dims Dimensions) {
	g.Dims = dims
	g.Populate(shape)
}

// Reset removes every cell and every painted type.
func (g *Grid) Reset() {
	clear(g.cells)
	g.Clear()
}

// Clear removes painted types and markers but keeps the shape.
func (g *Grid) Clear() {
	clear(g.types)
	g.hasStart, g.hasEnd = false, false
}

// FromOffset converts offset coordinates, counted from the top-left cell of
// the Width x Height rectangle, to axial coordinates.
func (g *Grid) FromOffset(col, row int) HexCoord {
	if g.Layout.Orientation == Flat {
		return HexCoord{Q: col, R: row - floorDiv(col, 2)}
	}
	r := -floorDiv(g.Dims.Height, 2) + row
	return HexCoord{Q: -floorDiv(g.Dims.Width, 2) + col - floorDiv(r, 2), R: r}
}

// ToOffset is the inverse of FromOffset.
func (g *Grid) ToOffset(h HexCoord) (col, row int) {
	if g.Layout.Orientation == Flat {
		return h.Q, h.R + floorDiv(h.Q, 2)
	}
	return h.Q + floorDiv(g.Dims.Width, 2) + floorDiv(h.R, 2), h.R + floorDiv(g.Dims.Height, 2)
}

// Contains reports whether h is a populated cell.
func (g *Grid) Contains(h HexCoord) bool {
	_, ok := g.cells[h]
	return ok
}

// Len returns the number of populated cells.
func (g *Grid) Len() int {
	return len(g.cells)
}

// Coords returns all populated cells ordered by r, then q.
func (g *Grid) Coords() []HexCoord {
	out := make([]HexCoord, 0, len(g.cells))
	for c := range g.cells {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].R != out[j].R {
			return out[i].R < out[j].R
		}
		return out[i].Q < out[j].Q
	})
	return out
}

// Neighbors returns the populated, non-wall cells adjacent to h in
// HexNeighborDirections order. An unpopulated h has no neighbors.
func (g *Grid) Neighbors(h HexCoord) []HexCoord {
	if !g.Contains(h) {
		return nil
	}
	out := make([]HexCoord, 0, 6)
	for _, n := range h.Neighbors() {
		if g.Contains(n) && g.CellType(n).Passable() {
			out = append(out, n)
		}
	}
	return out
}

// MovementCost is the cost of stepping into to. The source cell does not matter.
func (g *Grid) MovementCost(from, to HexCoord) float64 {
	return g.CellType(to).Cost()
}

// StraightDistance is the hex distance between two cells.
func (g *Grid) StraightDistance(from, to HexCoord) float64 {
	return float64(Distance(from, to))
}

// CellType returns the painted type at h, Empty when unset.
func (g *Grid) CellType(h HexCoord) CellType {
	if t, ok := g.types[h]; ok {
		return t
	}
	return CellEmpty
}

// SetCellType paints h. Placing a start or end marker moves any existing
// marker of that kind; under MarkersReject the call fails instead.
func (g *Grid) SetCellType(h HexCoord, t CellType) error {
	prev := g.CellType(h)

	if t.IsMarker() {
		if cur, ok := g.marker(t); ok && cur != h {
			if g.Policy == MarkersReject {
				return fmt.Errorf("%w: %s at %s", ErrMarkerExists, t, cur)
			}
			delete(g.types, cur)
		}
	}
	if t == CellWall && prev.IsMarker() && g.Policy == MarkersReject {
		return fmt.Errorf("%w: %s at %s", ErrMarkerConflict, prev, h)
	}

	if prev.IsMarker() && prev != t {
		g.setMarker(prev, h, false)
	}
	if t == CellEmpty {
		delete(g.types, h)
	} else {
		g.types[h] = t
	}
	if t.IsMarker() {
		g.setMarker(t, h, true)
	}
	return nil
}

// Start returns the start marker, if placed.
func (g *Grid) Start() (HexCoord, bool) {
	return g.start, g.hasStart
}

// End returns the end marker, if placed.
func (g *Grid) End() (HexCoord, bool) {
	return g.end, g.hasEnd
}

func (g *Grid) marker(t CellType) (HexCoord, bool) {
	if t == CellStart {
		return g.Start()
	}
	return g.End()
}

func (g *Grid) setMarker(t CellType, h HexCoord, present bool) {
	if t == CellStart {
		g.start, g.hasStart = h, present
		return
	}
	g.end, g.hasEnd = h, present
}

// HexAt returns the populated cell under pixel p.
func (g *Grid) HexAt(p Point) (HexCoord, bool) {
	h := g.Layout.HexAt(p)
	return h, g.Contains(h)
}

// Center returns the pixel center of h.
func (g *Grid) Center(h HexCoord) Point {
	return g.Layout.ToPixel(h)
}

// Corners returns the polygon corners of h.
func (g *Grid) Corners(h HexCoord) [6]Point {
	return g.Layout.Corners(h)
}

// CellCounts returns how many populated cells carry each type.
func CellCounts(g *Grid) map[CellType]int {
	counts := make(map[CellType]int)
	for c := range g.cells {
		counts[g.CellType(c)]++
	}
	return counts
}

// String returns a summary of the grid.
func (g *Grid) String() string {
	return fmt.Sprintf("Grid(shape=%s, %dx%d, hexes=%d)", g.Shape, g.Dims.Width, g.Dims.Height, g.Len())
}
