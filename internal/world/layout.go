package world

import (
	"fmt"
	"math"
)

// Point is a position in pixel space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p + o.
func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

// String formats the point.
func (p Point) String() string {
	return fmt.Sprintf("(%.3f, %.3f)", p.X, p.Y)
}

// Orientation holds the hex→pixel matrix, its inverse, and the angle of the
// first polygon corner in sixths of a turn.
type Orientation struct {
	name           string
	f0, f1, f2, f3 float64
	b0, b1, b2, b3 float64
	startAngle     float64
}

var sqrt3 = math.Sqrt(3.0)

// The two supported orientations. These are the only values callers can use.
var (
	Pointy = Orientation{
		name:       "pointy",
		f0:         sqrt3,
		f1:         sqrt3 / 2.0,
		f2:         0.0,
		f3:         3.0 / 2.0,
		b0:         sqrt3 / 3.0,
		b1:         -1.0 / 3.0,
		b2:         0.0,
		b3:         2.0 / 3.0,
		startAngle: 0.5,
	}
	Flat = Orientation{
		name:       "flat",
		f0:         3.0 / 2.0,
		f1:         0.0,
		f2:         sqrt3 / 2.0,
		f3:         sqrt3,
		b0:         2.0 / 3.0,
		b1:         0.0,
		b2:         -1.0 / 3.0,
		b3:         sqrt3 / 3.0,
		startAngle: 0.0,
	}
)

// Name returns "pointy" or "flat".
func (o Orientation) Name() string { return o.name }

// StartAngle returns the first corner angle in sixths of a turn.
func (o Orientation) StartAngle() float64 { return o.startAngle }

// Forward returns the hex→pixel matrix in row-major order.
func (o Orientation) Forward() [4]float64 { return [4]float64{o.f0, o.f1, o.f2, o.f3} }

// Inverse returns the pixel→hex matrix in row-major order.
func (o Orientation) Inverse() [4]float64 { return [4]float64{o.b0, o.b1, o.b2, o.b3} }

// ParseOrientation maps "pointy" or "flat" to an Orientation.
func ParseOrientation(name string) (Orientation, error) {
	switch name {
	case "pointy", "":
		return Pointy, nil
	case "flat":
		return Flat, nil
	default:
		return Orientation{}, fmt.Errorf("unknown orientation %q", name)
	}
}

// Layout converts between hex coordinates and pixel space.
type Layout struct {
	Orientation Orientation
	Size        Point // Per-axis hex radius in pixels
	Origin      Point // Pixel position of the origin hex center
}

// NewLayout creates a layout.
func NewLayout(o Orientation, size, origin Point) Layout {
	return Layout{Orientation: o, Size: size, Origin: origin}
}

// ToPixel returns the pixel center of h.
func (l Layout) ToPixel(h HexCoord) Point {
	m := l.Orientation
	x := (m.f0*float64(h.Q) + m.f1*float64(h.R)) * l.Size.X
	y := (m.f2*float64(h.Q) + m.f3*float64(h.R)) * l.Size.Y
	return Point{X: x + l.Origin.X, Y: y + l.Origin.Y}
}

// ToFractional projects a pixel position back into fractional hex space.
func (l Layout) ToFractional(p Point) FractionalHex {
	m := l.Orientation
	px := (p.X - l.Origin.X) / l.Size.X
	py := (p.Y - l.Origin.Y) / l.Size.Y
	q := m.b0*px + m.b1*py
	r := m.b2*px + m.b3*py
	return AxialFraction(q, r)
}

// HexAt returns the hex whose region contains p.
func (l Layout) HexAt(p Point) HexCoord {
	return l.ToFractional(p).Round()
}

// CornerOffset returns the offset of polygon corner i from a hex center.
func (l Layout) CornerOffset(i int) Point {
	angle := 2.0 * math.Pi * (l.Orientation.startAngle + float64(i)) / 6
	return Point{X: l.Size.X * math.Cos(angle), Y: l.Size.Y * math.Sin(angle)}
}

// Corners returns the six polygon corners of h, starting at the orientation's
// start angle and proceeding in increasing angle.
func (l Layout) Corners(h HexCoord) [6]Point {
	var corners [6]Point
	center := l.ToPixel(h)
	for i := 0; i < 6; i++ {
		corners[i] = center.Add(l.CornerOffset(i))
	}
	return corners
}
