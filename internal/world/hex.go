// Package world provides the hex grid, cell types, and pixel layout math.
// Uses axial coordinates (q, r) for storage; the cube coordinate s is derived.
package world

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidCoordinate is returned when a cube triple does not sum to zero.
var ErrInvalidCoordinate = errors.New("invalid coordinate: q+r+s must be 0")

// HexCoord represents a position on the hex grid using axial coordinates.
// The third cube coordinate s is derived: s = -q - r.
type HexCoord struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// Origin is the hex at (0, 0, 0).
var Origin = HexCoord{}

// NewHexCoord builds a coordinate from a full cube triple.
func NewHexCoord(q, r, s int) (HexCoord, error) {
	if q+r+s != 0 {
		return HexCoord{}, fmt.Errorf("%w: (%d, %d, %d)", ErrInvalidCoordinate, q, r, s)
	}
	return HexCoord{Q: q, R: r}, nil
}

// Axial builds a coordinate from q and r.
func Axial(q, r int) HexCoord {
	return HexCoord{Q: q, R: r}
}

// S returns the implicit third cube coordinate.
func (h HexCoord) S() int {
	return -h.Q - h.R
}

// Add returns h + o.
func (h HexCoord) Add(o HexCoord) HexCoord {
	return HexCoord{Q: h.Q + o.Q, R: h.R + o.R}
}

// Subtract returns h - o.
func (h HexCoord) Subtract(o HexCoord) HexCoord {
	return HexCoord{Q: h.Q - o.Q, R: h.R - o.R}
}

// Scale multiplies every component by k.
func (h HexCoord) Scale(k int) HexCoord {
	return HexCoord{Q: h.Q * k, R: h.R * k}
}

// Length is the distance from the origin.
func (h HexCoord) Length() int {
	return Distance(h, Origin)
}

// DistanceTo returns the hex distance to o.
func (h HexCoord) DistanceTo(o HexCoord) int {
	return Distance(h, o)
}

// String formats the full cube triple.
func (h HexCoord) String() string {
	return fmt.Sprintf("Hex[%d, %d, %d]", h.Q, h.R, h.S())
}

// HexNeighborDirections defines the six neighbor offsets in axial coordinates.
// Neighbor iteration everywhere follows this order.
var HexNeighborDirections = [6]HexCoord{
	{Q: 1, R: 0},
	{Q: 1, R: -1},
	{Q: 0, R: -1},
	{Q: -1, R: 0},
	{Q: -1, R: 1},
	{Q: 0, R: 1},
}

// Direction returns one of the six unit directions. Any index is accepted
// and wrapped into [0, 5].
func Direction(i int) HexCoord {
	i %= 6
	if i < 0 {
		i += 6
	}
	return HexNeighborDirections[i]
}

// Neighbor returns the adjacent hex in direction i.
func (h HexCoord) Neighbor(i int) HexCoord {
	return h.Add(Direction(i))
}

// Neighbors returns the six adjacent hex coordinates.
func (h HexCoord) Neighbors() [6]HexCoord {
	var result [6]HexCoord
	for i, dir := range HexNeighborDirections {
		result[i] = HexCoord{Q: h.Q + dir.Q, R: h.R + dir.R}
	}
	return result
}

// Distance returns the hex distance between two coordinates.
func Distance(a, b HexCoord) int {
	dq := abs(a.Q - b.Q)
	dr := abs(a.R - b.R)
	ds := abs(a.S() - b.S())
	return (dq + dr + ds) / 2
}

// Ring returns the hexes at exactly distance k from center, walking the ring
// from center + 4th direction * k. Ring(c, 0) is [c].
func Ring(center HexCoord, k int) []HexCoord {
	if k <= 0 {
		return []HexCoord{center}
	}
	res := make([]HexCoord, 0, 6*k)
	cur := center.Add(Direction(4).Scale(k))
	for side := 0; side < 6; side++ {
		for step := 0; step < k; step++ {
			res = append(res, cur)
			cur = cur.Neighbor(side)
		}
	}
	return res
}

// Disk returns every hex within distance k of center, ordered by q then r.
func Disk(center HexCoord, k int) []HexCoord {
	if k < 0 {
		return nil
	}
	res := make([]HexCoord, 0, 1+3*k*(k+1))
	for q := -k; q <= k; q++ {
		r1 := max(-k, -q-k)
		r2 := min(k, -q+k)
		for r := r1; r <= r2; r++ {
			res = append(res, center.Add(HexCoord{Q: q, R: r}))
		}
	}
	return res
}

// FractionalHex is a real-valued cube coordinate, typically the result of an
// inverse pixel projection before it is snapped to a lattice cell.
type FractionalHex struct {
	Q, R, S float64
}

// fractionalTolerance absorbs float error in q+r+s for computed triples.
const fractionalTolerance = 1e-9

// NewFractionalHex builds a fractional coordinate from a full cube triple.
func NewFractionalHex(q, r, s float64) (FractionalHex, error) {
	if math.Abs(q+r+s) > fractionalTolerance {
		return FractionalHex{}, fmt.Errorf("%w: (%g, %g, %g)", ErrInvalidCoordinate, q, r, s)
	}
	return FractionalHex{Q: q, R: r, S: s}, nil
}

// AxialFraction builds a fractional coordinate from q and r.
func AxialFraction(q, r float64) FractionalHex {
	return FractionalHex{Q: q, R: r, S: -q - r}
}

// Round snaps to the nearest lattice hex. The component with the largest
// rounding error is recomputed from the other two: q first, then r, else s.
// Only Q and R are read; s is always derived as -Q-R.
func (f FractionalHex) Round() HexCoord {
	fs := -f.Q - f.R
	q := roundHalfUp(f.Q)
	r := roundHalfUp(f.R)
	s := roundHalfUp(fs)
	dq := math.Abs(q - f.Q)
	dr := math.Abs(r - f.R)
	ds := math.Abs(s - fs)
	if dq > dr && dq > ds {
		q = -r - s
	} else if dr > ds {
		r = -q - s
	}
	return HexCoord{Q: int(q), R: int(r)}
}

// Lerp interpolates linearly between two fractional coordinates.
func (f FractionalHex) Lerp(o FractionalHex, t float64) FractionalHex {
	return FractionalHex{
		Q: f.Q*(1-t) + o.Q*t,
		R: f.R*(1-t) + o.R*t,
		S: f.S*(1-t) + o.S*t,
	}
}

// Fraction lifts an integer coordinate to a fractional one.
func (h HexCoord) Fraction() FractionalHex {
	return FractionalHex{Q: float64(h.Q), R: float64(h.R), S: float64(h.S())}
}

// LineTo returns the hexes on the straight line from h to end, inclusive.
func (h HexCoord) LineTo(end HexCoord) []HexCoord {
	n := Distance(h, end)
	if n == 0 {
		return []HexCoord{h}
	}
	// Nudge off exact edges so ties resolve the same way in both directions.
	a := h.Fraction().Add(1e-6, 2e-6, -3e-6)
	b := end.Fraction().Add(1e-6, 2e-6, -3e-6)
	results := make([]HexCoord, 0, n+1)
	step := 1.0 / float64(n)
	for i := 0; i <= n; i++ {
		results = append(results, a.Lerp(b, step*float64(i)).Round())
	}
	return results
}

// Add offsets each component.
func (f FractionalHex) Add(dq, dr, ds float64) FractionalHex {
	return FractionalHex{Q: f.Q + dq, R: f.R + dr, S: f.S + ds}
}

// roundHalfUp rounds x.5 toward +Inf for both signs, so -0.5 becomes 0.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
