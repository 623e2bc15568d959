package sched

// Callback is a task's work function. It takes no arguments and returns
// nothing; it communicates with the scheduler only through the Scheduler
// methods meaningful from inside a callback (Delay, YieldNextTick,
// DelayUntil, NotifyTake, CurrentTask, PriorityGet).
type Callback func()

// task is one schedulable slot.
type task struct {
	nextWake uint32
	callback Callback
	meta     taskMeta
}

func (t *task) ready() bool {
	return t.meta.inUse() && t.meta.enabled() && t.callback != nil
}

func (t *task) markFree() {
	t.meta.clear()
	t.callback = nil
}
