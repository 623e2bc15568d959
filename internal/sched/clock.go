// internal/sched/clock.go

package sched

import (
	"sync/atomic"
	"time"
)

// Clock is a concrete now_ms() source: an atomically-counted,
// time.Ticker-driven monotonic millisecond counter. This is the only file of
// the package that imports time; the Scheduler type never reads a clock and
// only sees the now its caller passes to Run.
type Clock struct {
	Ticks chan struct{}
	start time.Time
	now   atomic.Uint32
	stop  chan struct{}
}

// NewClock creates a clock but does not start it.
func NewClock(buffer int) *Clock {
	return &Clock{
		Ticks: make(chan struct{}, buffer),
		stop:  make(chan struct{}),
	}
}

// Start begins advancing the clock by interval every tick, starting from
// now the goroutine is launched. The tick resolution must match the
// scheduler's own tickMs for NowMS readings to land exactly on its cadence
// boundaries, though Run's cadence gate tolerates coarser callers too.
func (c *Clock) Start(interval time.Duration) {
	c.start = time.Now()
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.now.Store(uint32(time.Since(c.start).Milliseconds()))
				select {
				case c.Ticks <- struct{}{}:
				default:
				}
			case <-c.stop:
				close(c.Ticks)
				return
			}
		}
	}()
}

// Stop signals the clock to stop advancing.
func (c *Clock) Stop() { close(c.stop) }

// NowMS returns the clock's current millisecond reading, monotonic modulo
// 32-bit wrap.
func (c *Clock) NowMS() uint32 { return c.now.Load() }
