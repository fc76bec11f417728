package world

import (
	"fmt"
	"strings"
)

// CellType is the painted type of a grid cell.
type CellType uint8

const (
	CellEmpty CellType = iota // Open ground, cost 1
	CellWall                  // Impassable
	CellDirt                  // Slow ground, cost 3
	CellStart                 // Search start marker, cost 1
	CellEnd                   // Search goal marker, cost 1
)

// Movement costs by destination cell.
const (
	BaseMoveCost = 1.0
	DirtMoveCost = 3.0
)

// Passable reports whether a cell can be entered.
func (t CellType) Passable() bool {
	return t != CellWall
}

// Cost returns the cost of moving into a cell of this type.
func (t CellType) Cost() float64 {
	if t == CellDirt {
		return DirtMoveCost
	}
	return BaseMoveCost
}

// IsMarker reports whether the type is a start or end marker.
func (t CellType) IsMarker() bool {
	return t == CellStart || t == CellEnd
}

// String returns the lowercase name of the cell type.
func (t CellType) String() string {
	return strings.ToLower(CellTypeName(t))
}

// CellTypeName returns a human-readable name for a cell type.
func CellTypeName(t CellType) string {
	switch t {
	case CellEmpty:
		return "Empty"
	case CellWall:
		return "Wall"
	case CellDirt:
		return "Dirt"
	case CellStart:
		return "Start"
	case CellEnd:
		return "End"
	default:
		return "Unknown"
	}
}

// ParseCellType accepts a cell type name in any case.
func ParseCellType(name string) (CellType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "empty":
		return CellEmpty, nil
	case "wall":
		return CellWall, nil
	case "dirt":
		return CellDirt, nil
	case "start":
		return CellStart, nil
	case "end", "goal":
		return CellEnd, nil
	default:
		return CellEmpty, fmt.Errorf("unknown cell type %q", name)
	}
}
