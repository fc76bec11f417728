// Command hexview replays a search step by step in the terminal.
//
// Keys: u, g, a start a uniform-cost, greedy or A* search; c clears the
// overlay; n generates the next seed's grid; space pauses; + and - change
// speed; q or Esc quits.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/talgya/hexpath/internal/config"
	"github.com/talgya/hexpath/internal/replay"
	"github.com/talgya/hexpath/internal/search"
	"github.com/talgya/hexpath/internal/termview"
	"github.com/talgya/hexpath/internal/world"
)

const frameInterval = 16 * time.Millisecond // ~60 FPS

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// The screen owns stdout, so logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	})))

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	v := newViewer(ctx, cfg, screen)
	v.regenerate(cfg.Gen.Seed)
	v.run()
}

// viewer owns the grid, the view and at most one playing search.
type viewer struct {
	ctx    context.Context
	cfg    config.Config
	screen tcell.Screen

	grid *world.Grid
	view *termview.View
	seed int64

	player     *replay.Player
	playing    search.Algorithm
	finished   bool
	playerEnd  chan struct{}
	stopReplay context.CancelFunc // Unblocks callbacks waiting on the draw loop

	events chan search.Event
	done   chan uint64
	dirty  bool
}

func newViewer(ctx context.Context, cfg config.Config, screen tcell.Screen) *viewer {
	return &viewer{
		ctx:    ctx,
		cfg:    cfg,
		screen: screen,
		events: make(chan search.Event),
		done:   make(chan uint64),
	}
}

func (v *viewer) run() {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	input := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			input <- ev
		}
	}()

	for {
		select {
		case <-v.ctx.Done():
			v.stopPlayer()
			return
		case ev := <-input:
			if !v.handleInput(ev) {
				v.stopPlayer()
				return
			}
		case ev := <-v.events:
			v.view.Apply(ev)
			v.dirty = true
		case step := <-v.done:
			v.finished = true
			slog.Info("replay finished", "algorithm", v.playing.Key(), "events", step)
			v.dirty = true
		case <-ticker.C:
			if v.dirty {
				v.draw()
			}
		}
	}
}

func (v *viewer) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case 'u':
				v.startSearch(search.UniformCost)
			case 'g':
				v.startSearch(search.Greedy)
			case 'a':
				v.startSearch(search.AStar)
			case 'c':
				v.stopPlayer()
				v.view.ClearOverlay()
			case 'n':
				v.regenerate(v.seed + 1)
			case ' ':
				if v.player != nil {
					if v.player.Speed() > 0 {
						v.player.SetSpeed(0)
					} else {
						v.player.SetSpeed(v.cfg.Replay.Speed)
					}
				}
			case '+', '=':
				v.scaleSpeed(2)
			case '-':
				v.scaleSpeed(0.5)
			}
		}
		v.dirty = true
	case *tcell.EventResize:
		v.screen.Sync()
		v.dirty = true
	}
	return true
}

// regenerate builds the grid for seed and places its endpoints.
func (v *viewer) regenerate(seed int64) {
	v.stopPlayer()
	gen := v.cfg.Gen
	gen.Seed = seed
	v.seed = seed
	v.grid = world.Generate(gen)
	if _, _, ok := world.PlaceEndpoints(v.grid); !ok {
		slog.Warn("grid has no room for endpoints", "seed", seed)
	}
	v.view = termview.New(v.grid)
	v.dirty = true
	slog.Info("grid generated", "grid", v.grid.String(), "seed", seed)
}

func (v *viewer) startSearch(alg search.Algorithm) {
	v.stopPlayer()
	v.view.ClearOverlay()

	r, err := search.FromMarkers(v.grid, alg)
	if err != nil {
		slog.Warn("cannot start search", "algorithm", alg.Key(), "error", err)
		return
	}

	ctx, cancel := context.WithCancel(v.ctx)
	p := replay.NewPlayer(v.cfg.Replay)
	p.OnEvent = func(_ uint64, ev search.Event) {
		select {
		case v.events <- ev:
		case <-ctx.Done():
		}
	}
	p.OnDone = func(step uint64) {
		select {
		case v.done <- step:
		case <-ctx.Done():
		}
	}

	end := make(chan struct{})
	go func() {
		defer close(end)
		defer cancel()
		if err := p.Run(ctx, r.Events()); err != nil {
			slog.Debug("replay interrupted", "run_id", r.ID, "error", err)
		}
	}()

	v.player = p
	v.playing = alg
	v.finished = false
	v.playerEnd = end
	v.stopReplay = cancel
}

// stopPlayer interrupts the current replay and waits for it to exit, so no
// stale events arrive after it returns.
func (v *viewer) stopPlayer() {
	if v.player == nil {
		return
	}
	// The draw loop is not receiving while we wait, so the callbacks' context
	// must be cancelled too or a pending send never returns.
	v.player.Stop()
	v.stopReplay()
	<-v.playerEnd
	v.player = nil
	v.playerEnd = nil
	v.stopReplay = nil
}

func (v *viewer) scaleSpeed(f float64) {
	s := v.cfg.Replay.Speed * f
	s = min(max(s, 0.125), 64)
	v.cfg.Replay.Speed = s
	if v.player != nil && v.player.Speed() > 0 {
		v.player.SetSpeed(s)
	}
}

func (v *viewer) draw() {
	v.view.Status = v.status()
	v.screen.Clear()
	v.view.Draw(v.screen)
	v.screen.Show()
	v.dirty = false
}

func (v *viewer) status() string {
	switch {
	case v.player != nil && !v.finished:
		state := "playing"
		if v.player.Speed() <= 0 {
			state = "paused"
		}
		return fmt.Sprintf(" %s  %s  step %d  speed x%g  seed %d  [space] pause [+/-] speed [c]lear [q]uit",
			v.playing, state, v.player.Step(), v.cfg.Replay.Speed, v.seed)
	case v.player != nil:
		return fmt.Sprintf(" %s  done in %d steps  seed %d  [u]cs [g]reedy [a]* [c]lear [n]ext grid [q]uit",
			v.playing, v.player.Step(), v.seed)
	default:
		return fmt.Sprintf(" %s  seed %d  [u]cs [g]reedy [a]* [c]lear [n]ext grid [q]uit", v.grid, v.seed)
	}
}
