package app

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// manualClock returns a fixed time until advanced.
type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestGuard_Debounce(t *testing.T) {
	clock := &manualClock{now: time.Date(2025, 1, 5, 8, 0, 0, 0, time.UTC)}
	g := NewGuard(clock, 5*time.Second)

	release, err := g.Acquire()
	require.NoError(t, err)
	release()
	assert.Equal(t, clock.Now(), g.Last())

	clock.Advance(4 * time.Second)
	_, err = g.Acquire()
	assert.ErrorIs(t, err, ErrDebounced)

	clock.Advance(time.Second)
	release, err = g.Acquire()
	require.NoError(t, err)
	release()
}

func TestGuard_RejectsOverlap(t *testing.T) {
	clock := &manualClock{now: time.Date(2025, 1, 5, 8, 0, 0, 0, time.UTC)}
	g := NewGuard(clock, 0)

	release, err := g.Acquire()
	require.NoError(t, err)
	clock.Advance(time.Minute)
	_, err = g.Acquire()
	assert.ErrorIs(t, err, ErrDebounced)

	release()
	release()
	release, err = g.Acquire()
	require.NoError(t, err)
	release()
}

func TestGuard_DefaultClock(t *testing.T) {
	g := NewGuard(nil, 0)
	release, err := g.Acquire()
	require.NoError(t, err)
	release()
	assert.False(t, g.Last().IsZero())
}
