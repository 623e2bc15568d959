package sched

// NotifyingQueue composes a FixedQueue with a single registered waiter
// handle. Producers push and wake the registered waiter through the
// scheduler; there is exactly one waiter slot, so multi-consumer
// wake-one is not supported.
type NotifyingQueue[T any] struct {
	q      *FixedQueue[T]
	waiter uint8
}

// NewNotifyingQueue constructs a queue with the given capacity.
func NewNotifyingQueue[T any](capacity int) *NotifyingQueue[T] {
	return &NotifyingQueue[T]{
		q:      NewFixedQueue[T](capacity),
		waiter: Invalid,
	}
}

// Send pushes v. On success, if a scheduler is active and a waiter is
// registered, the waiter is notified. Returns the push's success, matching
// FixedQueue.TryPush's own signature.
func (nq *NotifyingQueue[T]) Send(v T) bool {
	if !nq.q.TryPush(v) {
		return false
	}
	if activeNotifier != nil && nq.waiter != Invalid {
		activeNotifier.NotifyGive(nq.waiter)
	}
	return true
}

// Receive pops the oldest element if the queue is non-empty, registering
// the current task as the new waiter. If the queue is empty and block is
// true, the current task is registered as waiter so a future Send wakes it,
// and Receive returns false. If the queue is empty and block is false,
// the waiter registration is left untouched.
func (nq *NotifyingQueue[T]) Receive(block bool) (T, bool) {
	if v, ok := nq.q.TryPop(); ok {
		if activeNotifier != nil {
			nq.waiter = activeNotifier.CurrentTask()
		}
		return v, true
	}

	var zero T
	if block && activeNotifier != nil {
		nq.waiter = activeNotifier.CurrentTask()
	}
	return zero, false
}

// Size returns the number of queued elements.
func (nq *NotifyingQueue[T]) Size() uint8 { return nq.q.Size() }

// Empty reports whether the queue holds no elements.
func (nq *NotifyingQueue[T]) Empty() bool { return nq.q.Empty() }
