package job

import (
	"golang.org/x/time/rate"

	"ticksched/internal/sched"
)

// Producer returns a callback that, once per release, asks next for a value
// and sends it on q, throttled by limiter so a misbehaving producer can't
// flood the queue's single waiter with notifications faster than
// limiter allows. It re-arms itself every periodMs via DelayUntil.
func Producer(s *sched.Scheduler, q *sched.NotifyingQueue[int], limiter *rate.Limiter, periodMs uint32, next func() int) sched.Callback {
	return func() {
		if limiter.Allow() {
			q.Send(next())
		}
		s.DelayUntil(periodMs)
	}
}

// Consumer returns a callback that drains everything currently queued,
// handing each value to onValue, then registers itself as the queue's
// waiter and auto-suspends (makes no scheduler call) — it wakes again only
// when a Producer's Send calls NotifyGive on it.
func Consumer(q *sched.NotifyingQueue[int], onValue func(int)) sched.Callback {
	return func() {
		for {
			v, ok := q.Receive(false)
			if !ok {
				break
			}
			onValue(v)
		}
		// Re-register as waiter on the now-empty queue and go quiet until
		// notified; Receive(block) with nothing queued does exactly that.
		q.Receive(true)
	}
}
