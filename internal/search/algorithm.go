// Package search runs best-first searches over a world.Grid.
// Uniform-cost, greedy and A* share one loop and differ only in how a
// frontier node's priority combines its path cost g and heuristic h.
package search

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownAlgorithm is returned by ParseAlgorithm.
var ErrUnknownAlgorithm = errors.New("unknown search algorithm")

// Algorithm selects the priority policy.
type Algorithm uint8

const (
	UniformCost Algorithm = iota // priority = g
	Greedy                       // priority = h
	AStar                        // priority = g + h
)

// Algorithms lists every supported algorithm in display order.
var Algorithms = []Algorithm{UniformCost, Greedy, AStar}

// weights returns the g and h coefficients of the priority function.
func (a Algorithm) weights() (wg, wh float64) {
	switch a {
	case Greedy:
		return 0, 1
	case AStar:
		return 1, 1
	default:
		return 1, 0
	}
}

// Priority combines path cost and heuristic for this algorithm.
func (a Algorithm) Priority(g, h float64) float64 {
	wg, wh := a.weights()
	p := 0.0
	if wg != 0 {
		p += wg * g
	}
	if wh != 0 {
		p += wh * h
	}
	return p
}

// UsesHeuristic reports whether h affects ordering.
func (a Algorithm) UsesHeuristic() bool {
	_, wh := a.weights()
	return wh != 0
}

// Valid reports whether a is a known algorithm.
func (a Algorithm) Valid() bool {
	return a <= AStar
}

// String returns the display name.
func (a Algorithm) String() string {
	switch a {
	case UniformCost:
		return "Uniform Cost Search"
	case Greedy:
		return "Greedy Search"
	case AStar:
		return "A* Search"
	default:
		return "Unknown"
	}
}

// Key returns the short identifier used on the command line and in the ledger.
func (a Algorithm) Key() string {
	switch a {
	case UniformCost:
		return "ucs"
	case Greedy:
		return "greedy"
	case AStar:
		return "astar"
	default:
		return "unknown"
	}
}

// ParseAlgorithm maps a name such as "ucs", "greedy" or "a*" to an Algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "ucs", "uniform", "uniform-cost", "u":
		return UniformCost, nil
	case "greedy", "g":
		return Greedy, nil
	case "astar", "a*", "a":
		return AStar, nil
	default:
		return UniformCost, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
}
