// Package replay paces a search event stream for a viewer.
package replay

import (
	"context"
	"iter"
	"log/slog"
	"sync"
	"time"

	"github.com/talgya/hexpath/internal/search"
)

// pausePoll is how often a paused player checks whether it was resumed.
const pausePoll = 50 * time.Millisecond

// Config holds the pacing settings of a Player.
type Config struct {
	Interval time.Duration // Base delay between events; 0 plays as fast as possible
	Speed    float64       // Multiplier: 1.0 = Interval per event, 0 = paused
}

// DefaultConfig returns the pacing used by the terminal viewer.
func DefaultConfig() Config {
	return Config{
		Interval: 40 * time.Millisecond,
		Speed:    1.0,
	}
}

// Player delivers events one at a time on a schedule.
type Player struct {
	Interval time.Duration

	// Callbacks, populated during setup. Both run on the Run goroutine.
	OnEvent func(step uint64, ev search.Event) // Every event, step counts from 1
	OnDone  func(step uint64)                  // Once, when the stream is exhausted

	mu      sync.Mutex
	speed   float64
	step    uint64
	running bool
	cancel  context.CancelFunc
}

// NewPlayer creates a player with the given pacing.
func NewPlayer(cfg Config) *Player {
	return &Player{
		Interval: cfg.Interval,
		speed:    cfg.Speed,
	}
}

// Speed returns the current speed multiplier.
func (p *Player) Speed() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.speed
}

// SetSpeed changes the speed multiplier. Zero or negative pauses playback.
func (p *Player) SetSpeed(s float64) {
	p.mu.Lock()
	p.speed = s
	p.mu.Unlock()
}

// Step returns the number of events delivered so far.
func (p *Player) Step() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.step
}

// Running reports whether Run is in progress.
func (p *Player) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Run plays seq until it ends, ctx is cancelled, or Stop is called. It returns
// the context error when interrupted and nil when every event was delivered.
func (p *Player) Run(ctx context.Context, seq iter.Seq[search.Event]) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p.mu.Lock()
	p.running = true
	p.cancel = cancel
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		p.running = false
		p.cancel = nil
		p.mu.Unlock()
	}()

	next, stop := iter.Pull(seq)
	defer stop()

	slog.Debug("replay started", "interval", p.Interval, "speed", p.Speed())

	for {
		if err := p.wait(ctx); err != nil {
			slog.Debug("replay stopped", "step", p.Step())
			return err
		}

		ev, ok := next()
		if !ok {
			break
		}

		p.mu.Lock()
		p.step++
		step := p.step
		p.mu.Unlock()

		if p.OnEvent != nil {
			p.OnEvent(step, ev)
		}
	}

	step := p.Step()
	slog.Debug("replay finished", "step", step)
	if p.OnDone != nil {
		p.OnDone(step)
	}
	return nil
}

// Stop interrupts a Run in progress.
func (p *Player) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// wait sleeps for one event slot, adjusted for speed, and blocks while paused.
func (p *Player) wait(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		speed := p.Speed()
		if speed <= 0 {
			if err := sleep(ctx, pausePoll); err != nil {
				return err
			}
			continue
		}
		if p.Interval <= 0 {
			return nil
		}
		return sleep(ctx, time.Duration(float64(p.Interval)/speed))
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
