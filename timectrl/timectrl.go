package timectrl

import (
	"context"
	"sync"
	"time"
)

// PlaybackClock exposes the current playback position in seconds of
// simulated descent time.
type PlaybackClock interface {
	Elapsed() float64
}

// Mode describes how Playback advances.
type Mode int

const (
	// RealTime waits one Tick of wall-clock time between advances.
	RealTime Mode = iota
	// Accelerated advances as quickly as the loop can run while still
	// stepping by Tick·Speed.
	Accelerated
)

// Playback replays a trajectory timeline. Each tick advances the playback
// position by Tick·Speed and notifies listeners with the new position.
type Playback struct {
	mu    sync.RWMutex
	Tick  time.Duration
	Speed float64
	Mode  Mode

	elapsed   float64
	listeners []func(elapsedS float64)
}

// NewPlayback constructs a playback clock. A non-positive speed is
// treated as 1.
func NewPlayback(tick time.Duration, speed float64, mode Mode) *Playback {
	if speed <= 0 {
		speed = 1
	}
	return &Playback{
		Tick:  tick,
		Speed: speed,
		Mode:  mode,
	}
}

// Elapsed returns the current playback position. Implements PlaybackClock.
func (p *Playback) Elapsed() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.elapsed
}

// Seek moves the playback position.
func (p *Playback) Seek(elapsedS float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.elapsed = max(0, elapsedS)
}

// AddListener registers a callback invoked on every tick.
func (p *Playback) AddListener(fn func(elapsedS float64)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, fn)
}

// Start plays from the current position until durationS seconds of
// simulated time have been covered or ctx is cancelled. The final tick is
// shortened so playback lands exactly on durationS. It returns a channel
// that is closed when playback finishes.
func (p *Playback) Start(ctx context.Context, durationS float64) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)

		step := p.Tick.Seconds() * p.Speed
		if step <= 0 {
			return
		}

		var ticks <-chan time.Time
		if p.Mode == RealTime {
			ticker := time.NewTicker(p.Tick)
			defer ticker.Stop()
			ticks = ticker.C
		}

		for {
			pos := p.Elapsed()
			if pos >= durationS {
				return
			}

			if ticks != nil {
				select {
				case <-ctx.Done():
					return
				case <-ticks:
				}
			} else if ctx.Err() != nil {
				return
			}

			pos = min(pos+step, durationS)
			p.mu.Lock()
			p.elapsed = pos
			listeners := append([]func(float64){}, p.listeners...)
			p.mu.Unlock()

			for _, fn := range listeners {
				fn(pos)
			}
		}
	}()
	return done
}
