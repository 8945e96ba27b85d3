package rotation

import "time"

// Clock abstracts wall-clock time so budgets can be tested.
type Clock interface {
	Now() time.Time
}

// SystemClock reads time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// budget tracks the time spent by one generation run.
type budget struct {
	clock Clock
	start time.Time
	limit time.Duration
}

func startBudget(c Clock, limit time.Duration) budget {
	return budget{clock: c, start: c.Now(), limit: limit}
}

// exceeded reports the elapsed time and whether it is over the limit.
// A zero limit disables the check.
func (b budget) exceeded() (time.Duration, bool) {
	if b.limit <= 0 {
		return 0, false
	}
	el := b.clock.Now().Sub(b.start)
	return el, el > b.limit
}

func (b budget) elapsed() time.Duration { return b.clock.Now().Sub(b.start) }
