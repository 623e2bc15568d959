// Package job holds example task bodies for cmd/ticksched. None of this is
// part of the scheduler's own semantics (spec §1's "out of scope" list);
// it exists only to give the CLI demo something to run.
package job

import (
	"github.com/google/uuid"

	"ticksched/internal/sched"
)

// Label returns a short correlation id for a demo task, suitable for log
// fields, the same way pewbot and edirooss-zmux-server tag long-lived units
// of work with a uuid.
func Label(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}

// Periodic returns a callback that calls fn, then phase-locks its next
// release to every period milliseconds via DelayUntil — "fire every period
// ms, never drift, and skip ahead rather than double-fire when late".
func Periodic(s *sched.Scheduler, period uint32, fn func()) sched.Callback {
	return func() {
		fn()
		s.DelayUntil(period)
	}
}

// OneShot returns a callback that calls fn once and then auto-suspends
// (it makes no scheduler call of its own), the default "fire once, then go
// quiet" behaviour described in spec §4.7.
func OneShot(fn func()) sched.Callback {
	return func() { fn() }
}

// Backoff returns a callback that calls fn, then delays by ms — a plain
// re-arm rather than a phase-locked one, for tasks that don't need to stay
// locked to a fixed period (e.g. retry loops).
func Backoff(s *sched.Scheduler, ms uint32, fn func()) sched.Callback {
	return func() {
		fn()
		s.Delay(ms)
	}
}
