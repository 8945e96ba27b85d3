package app

import (
	"errors"
	"sync"
	"time"

	"github.com/kilianp07/deaconrota/core/rotation"
)

// ErrDebounced is returned when a run is refused by the Guard.
var ErrDebounced = errors.New("generation debounced")

// Guard serialises generation runs and rejects a run started within window
// of the previous one. A zero window only prevents overlapping runs.
type Guard struct {
	clock   rotation.Clock
	window  time.Duration
	mu      sync.Mutex
	last    time.Time
	running bool
}

// NewGuard returns a Guard reading time from clock. A nil clock uses the
// system clock.
func NewGuard(clock rotation.Clock, window time.Duration) *Guard {
	if clock == nil {
		clock = rotation.SystemClock{}
	}
	return &Guard{clock: clock, window: window}
}

// Acquire marks a run as started. The returned release must be called when
// the run ends.
func (g *Guard) Acquire() (release func(), err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.clock.Now()
	if g.running {
		return nil, ErrDebounced
	}
	if !g.last.IsZero() && now.Sub(g.last) < g.window {
		return nil, ErrDebounced
	}
	g.running = true
	g.last = now
	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			g.running = false
			g.mu.Unlock()
		})
	}, nil
}

// Last returns the start time of the most recent accepted run.
func (g *Guard) Last() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.last
}
