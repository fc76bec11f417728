package search

import (
	"errors"
	"math"
	"slices"
	"testing"
	"time"

	"github.com/talgya/hexpath/internal/world"
)

func rectGrid(w, h int) *world.Grid {
	g := world.NewGrid(world.NewLayout(world.Pointy, world.Point{X: 10, Y: 10}, world.Point{}), world.Dimensions{Width: w, Height: h})
	g.Populate(world.ShapeRectangular)
	return g
}

// checkPath verifies the path is a connected walk from start to goal over
// passable cells whose terrain costs add up to want.
func checkPath(t *testing.T, g *world.Grid, res Result, start, goal world.HexCoord) {
	t.Helper()
	if len(res.Path) == 0 {
		t.Fatal("empty path")
	}
	if res.Path[0] != start || res.Path[len(res.Path)-1] != goal {
		t.Fatalf("path runs %v..%v, want %v..%v", res.Path[0], res.Path[len(res.Path)-1], start, goal)
	}
	total := 0.0
	for i := 1; i < len(res.Path); i++ {
		a, b := res.Path[i-1], res.Path[i]
		if world.Distance(a, b) != 1 {
			t.Fatalf("path step %d jumps %v -> %v", i, a, b)
		}
		if !g.Contains(b) || !g.CellType(b).Passable() {
			t.Fatalf("path step %d enters blocked cell %v", i, b)
		}
		total += g.MovementCost(a, b)
	}
	if total != res.Cost {
		t.Errorf("path cost sums to %g, result says %g", total, res.Cost)
	}
}

func TestOpenGridShortestPath(t *testing.T) {
	g := rectGrid(5, 5)
	start, goal := g.FromOffset(0, 0), g.FromOffset(4, 0)

	for _, alg := range []Algorithm{UniformCost, AStar} {
		tr, err := Execute(g, start, goal, alg)
		if err != nil {
			t.Fatalf("%s: %v", alg, err)
		}
		if !tr.Result.Reached {
			t.Fatalf("%s: goal not reached", alg)
		}
		if tr.Result.Cost != 4 {
			t.Errorf("%s: cost = %g, want 4", alg, tr.Result.Cost)
		}
		if len(tr.Result.Path) != 5 {
			t.Errorf("%s: path length = %d, want 5", alg, len(tr.Result.Path))
		}
		checkPath(t, g, tr.Result, start, goal)
	}

	tr, err := Execute(g, start, goal, Greedy)
	if err != nil {
		t.Fatal(err)
	}
	if !tr.Result.Reached {
		t.Fatal("greedy: goal not reached")
	}
	checkPath(t, g, tr.Result, start, goal)
}

func TestWallColumnExhausts(t *testing.T) {
	g := rectGrid(5, 5)
	for row := 0; row < 5; row++ {
		if err := g.SetCellType(g.FromOffset(2, row), world.CellWall); err != nil {
			t.Fatal(err)
		}
	}
	start, goal := g.FromOffset(0, 0), g.FromOffset(4, 0)

	for _, alg := range Algorithms {
		r, err := New(g, start, goal, alg)
		if err != nil {
			t.Fatalf("%s: %v", alg, err)
		}
		res := r.Result()
		if res.Reached {
			t.Errorf("%s: reached goal through a wall", alg)
		}
		if !math.IsInf(res.Cost, 1) {
			t.Errorf("%s: cost = %g, want +Inf", alg, res.Cost)
		}
		if len(res.Path) != 0 {
			t.Errorf("%s: path = %v, want empty", alg, res.Path)
		}
		if r.State() != StateExhausted {
			t.Errorf("%s: state = %s, want exhausted", alg, r.State())
		}
	}
}

func TestEventOrderOnLine(t *testing.T) {
	g := rectGrid(3, 1)
	start, mid, goal := g.FromOffset(0, 0), g.FromOffset(1, 0), g.FromOffset(2, 0)

	for _, alg := range Algorithms {
		tr, err := Execute(g, start, goal, alg)
		if err != nil {
			t.Fatal(err)
		}
		want := []Event{
			Visited(start),
			FrontierAdded(mid),
			Visited(mid),
			FrontierAdded(goal),
			Visited(goal),
		}
		if got := tr.Exploration(); !slices.Equal(got, want) {
			t.Errorf("%s: exploration = %v, want %v", alg, got, want)
		}
		wantPath := []Event{PathStep(goal), PathStep(mid), PathStep(start)}
		if got := tr.PathSteps(); !slices.Equal(got, wantPath) {
			t.Errorf("%s: path steps = %v, want %v", alg, got, wantPath)
		}
		if got := tr.Events[len(tr.Events)-3:]; !slices.Equal(got, wantPath) {
			t.Errorf("%s: path steps are not the trailing events: %v", alg, tr.Events)
		}
	}
}

func TestDirtCost(t *testing.T) {
	const n = 6
	open := rectGrid(n, 1)
	dirt := rectGrid(n, 1)
	if err := dirt.SetCellType(dirt.FromOffset(2, 0), world.CellDirt); err != nil {
		t.Fatal(err)
	}

	for _, alg := range Algorithms {
		a, err := Execute(open, open.FromOffset(0, 0), open.FromOffset(n-1, 0), alg)
		if err != nil {
			t.Fatal(err)
		}
		b, err := Execute(dirt, dirt.FromOffset(0, 0), dirt.FromOffset(n-1, 0), alg)
		if err != nil {
			t.Fatal(err)
		}
		if a.Result.Cost != n-1 {
			t.Errorf("%s: open cost = %g, want %d", alg, a.Result.Cost, n-1)
		}
		if b.Result.Cost != (n-1)+2 {
			t.Errorf("%s: dirt cost = %g, want %d", alg, b.Result.Cost, (n-1)+2)
		}
	}
}

func TestDirtDetour(t *testing.T) {
	// A dirt strip in the middle row is cheaper to walk around than through.
	g := rectGrid(7, 5)
	for col := 1; col < 6; col++ {
		_ = g.SetCellType(g.FromOffset(col, 2), world.CellDirt)
	}
	start, goal := g.FromOffset(3, 0), g.FromOffset(3, 4)

	ucs, err := Execute(g, start, goal, UniformCost)
	if err != nil {
		t.Fatal(err)
	}
	astar, err := Execute(g, start, goal, AStar)
	if err != nil {
		t.Fatal(err)
	}
	if ucs.Result.Cost != astar.Result.Cost {
		t.Errorf("UCS cost %g != A* cost %g", ucs.Result.Cost, astar.Result.Cost)
	}
	checkPath(t, g, ucs.Result, start, goal)
	checkPath(t, g, astar.Result, start, goal)
}

func TestAlgorithmsAgreeOnGeneratedGrids(t *testing.T) {
	for seed := int64(1); seed <= 12; seed++ {
		cfg := world.SmallTestConfig()
		cfg.Seed = seed
		cfg.Width, cfg.Height = 15, 11
		g := world.Generate(cfg)
		start, goal, ok := world.PlaceEndpoints(g)
		if !ok {
			continue
		}

		results := make(map[Algorithm]Result)
		for _, alg := range Algorithms {
			tr, err := Execute(g, start, goal, alg)
			if err != nil {
				t.Fatalf("seed %d %s: %v", seed, alg, err)
			}
			results[alg] = tr.Result
			if tr.Result.Reached {
				checkPath(t, g, tr.Result, start, goal)
			}
		}

		ucs, astar, greedy := results[UniformCost], results[AStar], results[Greedy]
		if ucs.Reached != astar.Reached || ucs.Reached != greedy.Reached {
			t.Errorf("seed %d: reachability disagrees: ucs=%v astar=%v greedy=%v", seed, ucs.Reached, astar.Reached, greedy.Reached)
			continue
		}
		if !ucs.Reached {
			continue
		}
		if ucs.Cost != astar.Cost {
			t.Errorf("seed %d: UCS cost %g, A* cost %g", seed, ucs.Cost, astar.Cost)
		}
		if greedy.Cost < ucs.Cost {
			t.Errorf("seed %d: greedy cost %g beats optimal %g", seed, greedy.Cost, ucs.Cost)
		}
	}
}

func TestInvalidEndpoints(t *testing.T) {
	g := rectGrid(3, 3)
	inside := g.FromOffset(1, 1)
	outside := world.Axial(50, 50)

	if _, err := New(g, outside, inside, AStar); !errors.Is(err, ErrInvalidEndpoints) {
		t.Errorf("start off grid: err = %v, want ErrInvalidEndpoints", err)
	}
	if _, err := New(g, inside, outside, AStar); !errors.Is(err, ErrInvalidEndpoints) {
		t.Errorf("goal off grid: err = %v, want ErrInvalidEndpoints", err)
	}
	if _, err := New(nil, inside, inside, AStar); !errors.Is(err, ErrInvalidEndpoints) {
		t.Errorf("nil grid: err = %v, want ErrInvalidEndpoints", err)
	}
	if _, err := FromMarkers(g, AStar); !errors.Is(err, ErrInvalidEndpoints) {
		t.Errorf("no markers: err = %v, want ErrInvalidEndpoints", err)
	}
	if _, err := New(g, inside, inside, Algorithm(9)); !errors.Is(err, ErrUnknownAlgorithm) {
		t.Errorf("bad algorithm: err = %v, want ErrUnknownAlgorithm", err)
	}
}

func TestFromMarkers(t *testing.T) {
	g := rectGrid(4, 1)
	_ = g.SetCellType(g.FromOffset(0, 0), world.CellStart)
	_ = g.SetCellType(g.FromOffset(3, 0), world.CellEnd)

	r, err := FromMarkers(g, UniformCost)
	if err != nil {
		t.Fatal(err)
	}
	res := r.Result()
	if !res.Reached || res.Cost != 3 {
		t.Errorf("Result = %+v, want reached with cost 3", res)
	}
}

func TestStartIsGoal(t *testing.T) {
	g := rectGrid(3, 3)
	h := g.FromOffset(1, 1)
	tr, err := Execute(g, h, h, AStar)
	if err != nil {
		t.Fatal(err)
	}
	want := []Event{Visited(h), PathStep(h)}
	if !slices.Equal(tr.Events, want) {
		t.Errorf("events = %v, want %v", tr.Events, want)
	}
	if !tr.Result.Reached || tr.Result.Cost != 0 || len(tr.Result.Path) != 1 {
		t.Errorf("Result = %+v, want reached, cost 0, one-cell path", tr.Result)
	}
}

func TestLazyConsumption(t *testing.T) {
	g := rectGrid(9, 9)
	start, goal := g.FromOffset(0, 0), g.FromOffset(8, 8)

	full, err := Execute(g, start, goal, UniformCost)
	if err != nil {
		t.Fatal(err)
	}

	r, err := New(g, start, goal, UniformCost)
	if err != nil {
		t.Fatal(err)
	}
	if r.State() != StateInitialized {
		t.Fatalf("state before pulling = %s, want initialized", r.State())
	}

	var got []Event
	for ev := range r.Events() {
		got = append(got, ev)
		if len(got) == 4 {
			break
		}
	}
	if !slices.Equal(got, full.Events[:4]) {
		t.Errorf("first events = %v, want %v", got, full.Events[:4])
	}
	if r.State() != StateRunning {
		t.Errorf("state after partial pull = %s, want running", r.State())
	}

	// Pulling resumes where the consumer stopped.
	ev, ok := r.Next()
	if !ok || ev != full.Events[4] {
		t.Errorf("Next() = %v, %v, want %v", ev, ok, full.Events[4])
	}

	res := r.Result()
	if res.Cost != full.Result.Cost || !slices.Equal(res.Path, full.Result.Path) {
		t.Errorf("Result after partial pull = %+v, want %+v", res, full.Result)
	}
	if _, ok := r.Next(); ok {
		t.Error("Next() after Result returned an event")
	}
}

func TestRunsAreIsolated(t *testing.T) {
	g := rectGrid(6, 6)
	start, goal := g.FromOffset(0, 0), g.FromOffset(5, 5)

	a, err := New(g, start, goal, AStar)
	if err != nil {
		t.Fatal(err)
	}
	b, err := New(g, start, goal, AStar)
	if err != nil {
		t.Fatal(err)
	}
	if a.ID == b.ID {
		t.Error("two runs share an ID")
	}

	// Interleave pulls; each run must still see its own full event stream.
	ta := Collect(a)
	for range 3 {
		b.Next()
	}
	rb := b.Result()
	if ta.Result.Cost != rb.Cost {
		t.Errorf("interleaved runs disagree: %g vs %g", ta.Result.Cost, rb.Cost)
	}
}

func TestStats(t *testing.T) {
	g := rectGrid(5, 5)
	tr, err := Execute(g, g.FromOffset(0, 0), g.FromOffset(4, 4), AStar)
	if err != nil {
		t.Fatal(err)
	}
	visited, frontier := 0, 0
	for _, ev := range tr.Events {
		switch ev.Kind {
		case EventVisited:
			visited++
		case EventFrontier:
			frontier++
		}
	}
	if tr.Stats.Visited != visited || tr.Stats.Frontier != frontier {
		t.Errorf("Stats = %+v, counted visited=%d frontier=%d", tr.Stats, visited, frontier)
	}
	if tr.Stats.Pushes < tr.Stats.Visited {
		t.Errorf("pushes %d < visited %d", tr.Stats.Pushes, tr.Stats.Visited)
	}
	if tr.Stats.PeakFrontier < 1 {
		t.Errorf("PeakFrontier = %d", tr.Stats.PeakFrontier)
	}
}

func TestVisitedNeverRepeats(t *testing.T) {
	g := rectGrid(8, 8)
	_ = g.SetCellType(g.FromOffset(3, 3), world.CellDirt)
	_ = g.SetCellType(g.FromOffset(4, 3), world.CellDirt)
	for _, alg := range Algorithms {
		tr, err := Execute(g, g.FromOffset(0, 0), g.FromOffset(7, 7), alg)
		if err != nil {
			t.Fatal(err)
		}
		seen := make(map[world.HexCoord]bool)
		for _, ev := range tr.Events {
			if ev.Kind != EventVisited {
				continue
			}
			if seen[ev.Coord] {
				t.Errorf("%s: %v visited twice", alg, ev.Coord)
			}
			seen[ev.Coord] = true
		}
	}
}

func TestElapsedExcludesConsumerTime(t *testing.T) {
	g := rectGrid(5, 5)
	r, err := New(g, g.FromOffset(0, 0), g.FromOffset(4, 4), AStar)
	if err != nil {
		t.Fatal(err)
	}

	const pause = 5 * time.Millisecond
	pulled := 0
	for range r.Events() {
		time.Sleep(pause)
		pulled++
		if pulled == 10 {
			break
		}
	}
	r.Result()

	if got := r.Stats().Elapsed; got >= time.Duration(pulled)*pause {
		t.Errorf("Elapsed = %v after %d paced pulls of %v; consumer time was counted", got, pulled, pause)
	}
}
