// Package playback replays a finished simulation one step at a time.
package playback

import (
	"context"
	"sync"
	"time"

	"github.com/sarchlab/pagesim/paging"
)

// Interval limits of a Player.
const (
	MinInterval     = 200 * time.Millisecond
	MaxInterval     = 2000 * time.Millisecond
	DefaultInterval = time.Second
)

// StepFunc receives the steps played by a Player.
type StepFunc func(step paging.Step)

// A Player walks through the steps of a trace on a timer. Pausing is done by
// cancelling the context passed to Play. The position is kept, so a later
// Play continues where the last one stopped.
type Player struct {
	lock     sync.Mutex
	trace    paging.Trace
	interval time.Duration
	position int
	onStep   StepFunc
}

// NewPlayer creates a player that calls onStep for every step of the trace.
func NewPlayer(trace paging.Trace, onStep StepFunc) *Player {
	return &Player{
		trace:    trace,
		interval: DefaultInterval,
		onStep:   onStep,
	}
}

// WithInterval sets the time between two steps, clamped to
// [MinInterval, MaxInterval].
func (p *Player) WithInterval(d time.Duration) *Player {
	p.SetInterval(d)
	return p
}

// SetInterval changes the time between two steps. A running Play picks up
// the new interval after its next step.
func (p *Player) SetInterval(d time.Duration) {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.interval = ClampInterval(d)
}

// Interval returns the time between two steps.
func (p *Player) Interval() time.Duration {
	p.lock.Lock()
	defer p.lock.Unlock()

	return p.interval
}

// ClampInterval limits d to [MinInterval, MaxInterval].
func ClampInterval(d time.Duration) time.Duration {
	if d < MinInterval {
		return MinInterval
	}

	if d > MaxInterval {
		return MaxInterval
	}

	return d
}

// Position returns the number of steps played so far.
func (p *Player) Position() int {
	p.lock.Lock()
	defer p.lock.Unlock()

	return p.position
}

// Done tells if every step has been played.
func (p *Player) Done() bool {
	p.lock.Lock()
	defer p.lock.Unlock()

	return p.position >= len(p.trace.Steps)
}

// Reset rewinds the player to the first step.
func (p *Player) Reset() {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.position = 0
}

// Next plays a single step right away. It returns false at the end of the
// trace.
func (p *Player) Next() bool {
	p.lock.Lock()

	if p.position >= len(p.trace.Steps) {
		p.lock.Unlock()
		return false
	}

	step := p.trace.Steps[p.position]
	p.position++
	p.lock.Unlock()

	if p.onStep != nil {
		p.onStep(step)
	}

	return true
}

// Play emits the next step immediately and one more step every interval,
// until the trace ends or the context is done. It returns the context error
// if it was interrupted. A context that is already done emits nothing.
func (p *Player) Play(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if !p.Next() || p.Done() {
		return nil
	}

	interval := p.Interval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if !p.Next() || p.Done() {
				return nil
			}

			if d := p.Interval(); d != interval {
				interval = d
				ticker.Reset(interval)
			}
		}
	}
}
