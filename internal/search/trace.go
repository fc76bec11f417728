package search

import (
	"iter"

	"github.com/google/uuid"

	"github.com/talgya/hexpath/internal/world"
)

// Trace is a fully drained run: every event in order plus the outcome.
// It can be replayed any number of times.
type Trace struct {
	RunID     uuid.UUID `json:"run_id"`
	Algorithm Algorithm `json:"algorithm"`
	Events    []Event   `json:"events"`
	Result    Result    `json:"result"`
	Stats     Stats     `json:"stats"`
}

// Execute runs a search to completion, collecting its events.
func Execute(g *world.Grid, start, goal world.HexCoord, alg Algorithm) (Trace, error) {
	r, err := New(g, start, goal, alg)
	if err != nil {
		return Trace{}, err
	}
	return Collect(r), nil
}

// Collect drains r into a Trace.
func Collect(r *Run) Trace {
	var events []Event
	for ev := range r.Events() {
		events = append(events, ev)
	}
	return Trace{
		RunID:     r.ID,
		Algorithm: r.Algorithm,
		Events:    events,
		Result:    r.Result(),
		Stats:     r.Stats(),
	}
}

// Exploration returns the visited and frontier events, without the path.
func (t Trace) Exploration() []Event {
	out := make([]Event, 0, len(t.Events))
	for _, ev := range t.Events {
		if ev.Kind != EventPath {
			out = append(out, ev)
		}
	}
	return out
}

// PathSteps returns the path events in emission order (goal to start).
func (t Trace) PathSteps() []Event {
	var out []Event
	for _, ev := range t.Events {
		if ev.Kind == EventPath {
			out = append(out, ev)
		}
	}
	return out
}

// Replay yields the recorded events in order.
func (t Trace) Replay() iter.Seq[Event] {
	return func(yield func(Event) bool) {
		for _, ev := range t.Events {
			if !yield(ev) {
				return
			}
		}
	}
}
