package search

import (
	"fmt"

	"github.com/talgya/hexpath/internal/world"
)

// EventKind tags a search event.
type EventKind uint8

const (
	EventVisited  EventKind = iota // Node removed from the frontier
	EventFrontier                  // Unexplored neighbor examined
	EventPath                      // Node on the final path, emitted goal to start
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EventVisited:
		return "visited"
	case EventFrontier:
		return "frontier"
	case EventPath:
		return "path"
	default:
		return "unknown"
	}
}

// Event is one step of a search, in the order the engine performed it.
type Event struct {
	Kind  EventKind      `json:"kind"`
	Coord world.HexCoord `json:"coord"`
}

// Visited builds a visited event.
func Visited(c world.HexCoord) Event { return Event{Kind: EventVisited, Coord: c} }

// FrontierAdded builds a frontier event.
func FrontierAdded(c world.HexCoord) Event { return Event{Kind: EventFrontier, Coord: c} }

// PathStep builds a path event.
func PathStep(c world.HexCoord) Event { return Event{Kind: EventPath, Coord: c} }

// String formats the event as kind(q, r, s).
func (e Event) String() string {
	return fmt.Sprintf("%s(%d, %d, %d)", e.Kind, e.Coord.Q, e.Coord.R, e.Coord.S())
}
