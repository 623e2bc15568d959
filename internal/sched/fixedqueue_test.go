package sched

import "testing"

func TestFixedQueueNewPanicsOnBadCapacity(t *testing.T) {
	bad := []int{0, -1, 256}
	for _, cap := range bad {
		func() {
			defer func() {
				if recover() == nil {
					t.Fatalf("NewFixedQueue(%d) should panic", cap)
				}
			}()
			NewFixedQueue[int](cap)
		}()
	}
}

func TestFixedQueuePushPopRoundTrip(t *testing.T) {
	q := NewFixedQueue[int](4)
	if !q.TryPush(1) || !q.TryPush(2) {
		t.Fatal("push into non-full queue should succeed")
	}
	v, ok := q.TryPop()
	if !ok || v != 1 {
		t.Fatalf("TryPop() = %d, %v; want 1, true", v, ok)
	}
	v, ok = q.TryPop()
	if !ok || v != 2 {
		t.Fatalf("TryPop() = %d, %v; want 2, true", v, ok)
	}
	if _, ok := q.TryPop(); ok {
		t.Fatal("pop from empty queue should fail")
	}
}

func TestFixedQueueFullRejectsPush(t *testing.T) {
	q := NewFixedQueue[int](3)
	for i := 0; i < 3; i++ {
		if !q.TryPush(i) {
			t.Fatalf("push %d unexpectedly failed", i)
		}
	}
	if !q.Full() {
		t.Fatal("queue should report full at capacity")
	}
	if q.TryPush(99) {
		t.Fatal("push into full queue should fail")
	}
}

func TestFixedQueuePushOverwriteDropsOldest(t *testing.T) {
	q := NewFixedQueue[int](2)
	q.TryPush(1)
	q.TryPush(2)
	if !q.PushOverwrite(3) {
		t.Fatal("push_overwrite should always succeed")
	}
	// oldest (1) dropped; FIFO order preserved for the rest
	v, _ := q.TryPop()
	if v != 2 {
		t.Fatalf("TryPop() = %d, want 2 (oldest element 1 should have been dropped)", v)
	}
	v, _ = q.TryPop()
	if v != 3 {
		t.Fatalf("TryPop() = %d, want 3", v)
	}
}

func TestFixedQueuePeekDoesNotConsume(t *testing.T) {
	q := NewFixedQueue[int](2)
	q.TryPush(7)
	v, ok := q.Peek()
	if !ok || v != 7 {
		t.Fatalf("Peek() = %d, %v; want 7, true", v, ok)
	}
	if q.Size() != 1 {
		t.Fatal("Peek must not remove the element")
	}
}

func TestFixedQueueWrapAroundNonPowerOfTwo(t *testing.T) {
	q := NewFixedQueue[int](3)
	q.TryPush(1)
	q.TryPush(2)
	q.TryPop()
	q.TryPush(3)
	q.TryPush(4)
	want := []int{2, 3, 4}
	for _, w := range want {
		v, ok := q.TryPop()
		if !ok || v != w {
			t.Fatalf("TryPop() = %d, %v; want %d, true", v, ok, w)
		}
	}
}
