package termview

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/talgya/hexpath/internal/search"
	"github.com/talgya/hexpath/internal/world"
)

// Surface is the part of tcell.Screen the view draws on.
type Surface interface {
	SetContent(x, y int, mainc rune, combc []rune, style tcell.Style)
	Size() (width, height int)
}

// Overlay is the search state shown on a hex.
type Overlay uint8

const (
	OverlayNone Overlay = iota
	OverlayFrontier
	OverlayVisited
	OverlayPath
)

var (
	styleBase     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleWall     = tcell.StyleDefault.Foreground(tcell.ColorMediumBlue)
	styleDirt     = tcell.StyleDefault.Foreground(tcell.ColorSaddleBrown)
	styleStart    = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleEnd      = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleFrontier = tcell.StyleDefault.Foreground(tcell.NewHexColor(0x6688cc))
	styleVisited  = tcell.StyleDefault.Foreground(tcell.NewHexColor(0xd6e87d))
	stylePath     = tcell.StyleDefault.Foreground(tcell.ColorOrange).Bold(true)
	styleStatus   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Reverse(true)
)

// View renders a grid with search overlays. It is not safe for concurrent use.
type View struct {
	Status string // Shown on the bottom row

	grid    *world.Grid
	proj    Projection
	overlay map[world.HexCoord]Overlay
}

// New creates a view of g. Call Reproject after repopulating the grid.
func New(g *world.Grid) *View {
	return &View{
		grid:    g,
		proj:    Project(g),
		overlay: make(map[world.HexCoord]Overlay),
	}
}

// Projection returns the current hex to cell mapping.
func (v *View) Projection() Projection {
	return v.proj
}

// Reproject recomputes the layout after the grid's shape changed.
func (v *View) Reproject() {
	v.proj = Project(v.grid)
}

// Apply records a search event. A hex keeps its strongest overlay:
// path over visited over frontier.
func (v *View) Apply(ev search.Event) {
	var o Overlay
	switch ev.Kind {
	case search.EventFrontier:
		o = OverlayFrontier
	case search.EventVisited:
		o = OverlayVisited
	case search.EventPath:
		o = OverlayPath
	default:
		return
	}
	if o > v.overlay[ev.Coord] {
		v.overlay[ev.Coord] = o
	}
}

// OverlayAt returns the overlay on h.
func (v *View) OverlayAt(h world.HexCoord) Overlay {
	return v.overlay[h]
}

// ClearOverlay drops all search marks, keeping terrain.
func (v *View) ClearOverlay() {
	clear(v.overlay)
}

// Glyph returns what is drawn for h. Start and end markers always show
// through overlays; walls never carry one.
func (v *View) Glyph(h world.HexCoord) (rune, tcell.Style) {
	t := v.grid.CellType(h)
	switch t {
	case world.CellStart:
		return 'S', styleStart
	case world.CellEnd:
		return 'E', styleEnd
	case world.CellWall:
		return '#', styleWall
	}

	switch v.overlay[h] {
	case OverlayPath:
		return '*', stylePath
	case OverlayVisited:
		if t == world.CellDirt {
			return '%', styleVisited
		}
		return 'o', styleVisited
	case OverlayFrontier:
		return '+', styleFrontier
	}

	if t == world.CellDirt {
		return '~', styleDirt
	}
	return '.', styleBase
}

// Draw paints the grid centered on s with the status line on the last row.
// Hexes falling outside the surface are clipped.
func (v *View) Draw(s Surface) {
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return
	}
	rows := h - 1
	offX := max(0, (w-v.proj.Width)/2)
	offY := max(0, (rows-v.proj.Height)/2)

	for hex, c := range v.proj.cells {
		x, y := c.X+offX, c.Y+offY
		if x >= w || y >= rows {
			continue
		}
		r, st := v.Glyph(hex)
		s.SetContent(x, y, r, nil, st)
	}

	status := v.Status
	if status == "" {
		status = fmt.Sprintf("%s  [u]cs [g]reedy [a]* [c]lear [space] pause [+/-] speed [q]uit", v.grid)
	}
	x := 0
	for _, r := range status {
		if x >= w {
			break
		}
		s.SetContent(x, h-1, r, nil, styleStatus)
		x++
	}
	for ; x < w; x++ {
		s.SetContent(x, h-1, ' ', nil, styleStatus)
	}
}
