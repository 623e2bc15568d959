package job

import (
	"testing"

	"golang.org/x/time/rate"

	"ticksched/internal/sched"
)

func TestProducerConsumerDeliversThroughQueue(t *testing.T) {
	s := sched.New(4, 1, 0)
	q := sched.NewNotifyingQueue[int](4)
	limiter := rate.NewLimiter(rate.Inf, 1)

	var next int
	s.Create(Producer(s, q, limiter, 5, func() int {
		next++
		return next
	}), 0, 5)

	var got []int
	s.Create(Consumer(q, func(v int) { got = append(got, v) }), 1, 1)

	for now := uint32(0); now <= 12; now++ {
		s.Run(now)
	}

	want := []int{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("got = %v, want %v", got, want)
	}
	for i, w := range want {
		if got[i] != w {
			t.Fatalf("got[%d] = %d, want %d", i, got[i], w)
		}
	}
}

func TestProducerRespectsRateLimit(t *testing.T) {
	s := sched.New(4, 1, 0)
	q := sched.NewNotifyingQueue[int](8)
	limiter := rate.NewLimiter(0, 0) // zero burst capacity: Allow() can never succeed

	sent := 0
	s.Create(Producer(s, q, limiter, 1, func() int { sent++; return sent }), 0, 5)

	for now := uint32(0); now <= 5; now++ {
		s.Run(now)
	}

	if sent != 0 {
		t.Fatalf("sent = %d, want 0 (rate limiter should have blocked every attempt)", sent)
	}
	if !q.Empty() {
		t.Fatal("queue should be empty when the limiter never allows a send")
	}
}
