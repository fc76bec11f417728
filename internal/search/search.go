package search

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/talgya/hexpath/internal/world"
)

// ErrInvalidEndpoints is returned when a run's start or goal is missing or
// not a populated cell.
var ErrInvalidEndpoints = errors.New("invalid search endpoints")

// State is the lifecycle of a run.
type State uint8

const (
	StateInitialized State = iota
	StateRunning
	StateSucceeded // Goal popped with a finite cost
	StateExhausted // Frontier emptied without reaching the goal
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateInitialized:
		return "initialized"
	case StateRunning:
		return "running"
	case StateSucceeded:
		return "succeeded"
	case StateExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Terminal reports whether the run has finished.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateExhausted
}

// Result is the outcome of a finished run. Cost is +Inf and Path is nil when
// the goal was not reached.
type Result struct {
	Reached bool             `json:"reached"`
	Cost    float64          `json:"cost"`
	Path    []world.HexCoord `json:"path"`
}

// Stats counts work done by a run.
type Stats struct {
	Visited      int           `json:"visited"`       // Visited events emitted
	Frontier     int           `json:"frontier"`      // Frontier events emitted
	Pushes       int           `json:"pushes"`        // Heap insertions, including re-insertions
	PeakFrontier int           `json:"peak_frontier"` // Largest heap size seen
	Elapsed      time.Duration `json:"elapsed"`       // Time inside expansion steps only, not consumer pacing
}

// Run is one search invocation. It owns its whole working set, so separate
// runs never share state even against the same grid. The grid must not be
// edited while a run is in progress.
type Run struct {
	ID        uuid.UUID
	Algorithm Algorithm
	Start     world.HexCoord
	Goal      world.HexCoord

	grid      *world.Grid
	cost      map[world.HexCoord]float64 // g; absent means +Inf
	heuristic map[world.HexCoord]float64 // h, cached on first discovery
	parent    map[world.HexCoord]world.HexCoord
	explored  map[world.HexCoord]struct{}
	frontier  *frontier

	pending []Event
	quiet   bool // Drop events instead of buffering them

	state  State
	result Result
	stats  Stats
}

// New validates the endpoints and seeds a run with start on the frontier.
// No search work happens until events or the result are pulled.
func New(g *world.Grid, start, goal world.HexCoord, alg Algorithm) (*Run, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: no grid", ErrInvalidEndpoints)
	}
	if !alg.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownAlgorithm, alg)
	}
	if !g.Contains(start) {
		return nil, fmt.Errorf("%w: start %s is not on the grid", ErrInvalidEndpoints, start)
	}
	if !g.Contains(goal) {
		return nil, fmt.Errorf("%w: goal %s is not on the grid", ErrInvalidEndpoints, goal)
	}

	r := &Run{
		ID:        uuid.New(),
		Algorithm: alg,
		Start:     start,
		Goal:      goal,
		grid:      g,
		cost:      make(map[world.HexCoord]float64),
		heuristic: make(map[world.HexCoord]float64),
		parent:    make(map[world.HexCoord]world.HexCoord),
		explored:  make(map[world.HexCoord]struct{}),
		frontier:  newFrontier(),
	}
	r.cost[start] = 0
	r.frontier.push(start, alg.Priority(0, r.heuristicOf(start)))
	return r, nil
}

// FromMarkers starts a run between the grid's start and end markers.
func FromMarkers(g *world.Grid, alg Algorithm) (*Run, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: no grid", ErrInvalidEndpoints)
	}
	start, ok := g.Start()
	if !ok {
		return nil, fmt.Errorf("%w: no start marker", ErrInvalidEndpoints)
	}
	goal, ok := g.End()
	if !ok {
		return nil, fmt.Errorf("%w: no end marker", ErrInvalidEndpoints)
	}
	return New(g, start, goal, alg)
}

// State returns the current lifecycle state.
func (r *Run) State() State {
	return r.state
}

// Stats returns the work counters so far.
func (r *Run) Stats() Stats {
	s := r.stats
	s.Pushes = r.frontier.pushes
	s.PeakFrontier = r.frontier.peak
	return s
}

// Next returns the next event, doing just enough search work to produce it.
// It returns false once the run is finished and every event was delivered.
func (r *Run) Next() (Event, bool) {
	for len(r.pending) == 0 {
		if !r.step() {
			return Event{}, false
		}
	}
	ev := r.pending[0]
	r.pending = r.pending[1:]
	return ev, true
}

// Events yields the run's events in order. Stopping early is safe and leaves
// the run paused where the consumer left it.
func (r *Run) Events() iter.Seq[Event] {
	return func(yield func(Event) bool) {
		for {
			ev, ok := r.Next()
			if !ok || !yield(ev) {
				return
			}
		}
	}
}

// Result runs the search to completion and returns its outcome. Events not
// yet pulled are discarded.
func (r *Run) Result() Result {
	r.quiet = true
	r.pending = nil
	for r.step() {
	}
	return r.result
}

// step performs one frontier pop. It returns false when the run is terminal.
func (r *Run) step() bool {
	switch r.state {
	case StateInitialized:
		r.state = StateRunning
		slog.Debug("search started",
			"run_id", r.ID,
			"algorithm", r.Algorithm.Key(),
			"start", r.Start,
			"goal", r.Goal,
		)
	case StateRunning:
	default:
		return false
	}
	t0 := time.Now()
	r.expand()
	r.stats.Elapsed += time.Since(t0)
	return true
}

func (r *Run) expand() {
	current, ok := r.frontier.pop()
	if !ok {
		r.finish(false)
		return
	}
	// Stale entry left behind by a cheaper re-insertion.
	if _, done := r.explored[current]; done {
		return
	}

	r.emit(Visited(current))
	r.stats.Visited++

	if current == r.Goal {
		r.finish(!math.IsInf(r.costOf(current), 1))
		return
	}

	// Explored nodes are never reopened, even if a cheaper path shows up later.
	r.explored[current] = struct{}{}
	g := r.costOf(current)

	for _, next := range r.grid.Neighbors(current) {
		if _, done := r.explored[next]; done {
			continue
		}
		r.emit(FrontierAdded(next))
		r.stats.Frontier++

		newCost := g + r.grid.MovementCost(current, next)
		if newCost < r.costOf(next) {
			r.cost[next] = newCost
			r.parent[next] = current
			r.frontier.push(next, r.Algorithm.Priority(newCost, r.heuristicOf(next)))
		}
	}
}

func (r *Run) finish(reached bool) {
	if !reached {
		r.state = StateExhausted
		r.result = Result{Reached: false, Cost: math.Inf(1)}
		slog.Debug("search exhausted",
			"run_id", r.ID,
			"algorithm", r.Algorithm.Key(),
			"visited", r.stats.Visited,
		)
		return
	}

	r.state = StateSucceeded
	var reversed []world.HexCoord
	for c := r.Goal; ; {
		reversed = append(reversed, c)
		r.emit(PathStep(c))
		p, ok := r.parent[c]
		if !ok {
			break
		}
		c = p
	}
	path := make([]world.HexCoord, len(reversed))
	for i, c := range reversed {
		path[len(reversed)-1-i] = c
	}
	r.result = Result{Reached: true, Cost: r.cost[r.Goal], Path: path}
	slog.Debug("search succeeded",
		"run_id", r.ID,
		"algorithm", r.Algorithm.Key(),
		"visited", r.stats.Visited,
		"cost", r.result.Cost,
		"path_len", len(path),
	)
}

func (r *Run) emit(ev Event) {
	if r.quiet {
		return
	}
	r.pending = append(r.pending, ev)
}

func (r *Run) costOf(c world.HexCoord) float64 {
	if g, ok := r.cost[c]; ok {
		return g
	}
	return math.Inf(1)
}

func (r *Run) heuristicOf(c world.HexCoord) float64 {
	if h, ok := r.heuristic[c]; ok {
		return h
	}
	h := r.grid.StraightDistance(c, r.Goal)
	r.heuristic[c] = h
	return h
}
