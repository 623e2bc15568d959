// internal/sched/scheduler.go

package sched

// Invalid is the sentinel handle returned when an operation fails or there
// is no current task.
const Invalid uint8 = 0xff

const maxNotifyCount uint8 = 255

// Notifier is the narrow capability set a NotifyingQueue needs: give a
// notification to a handle, and ask which task is currently running. The
// scheduler satisfies it; leaf components depend on the interface rather
// than on *Scheduler directly, per the polymorphism note in DESIGN.md.
type Notifier interface {
	NotifyGive(h uint8)
	CurrentTask() uint8
}

// activeNotifier is the process-wide pointer to the active scheduler, set
// by New and read by NotifyingQueue. This mirrors IScheduler::Instance() in
// the original source. It is deliberately not synchronised: the scheduler
// contract (spec §5) is single-core and cooperative, and a host embedding
// it across goroutines is already required to serialise run() and every
// mutator call itself.
var activeNotifier Notifier

// Scheduler is the dispatch core: storage for a fixed number of tasks, the
// priority-ordered index vector, the next-due cache, per-task notification
// counters, and the tick runner. It is not safe for concurrent use.
type Scheduler struct {
	// storage
	tasks       []task
	order       *FixedVector[taskKey]
	notifyCount []uint8

	// timing
	tickMs   uint8
	lastTick uint32
	tickNow  uint32
	nextDue  uint32

	// current-task context
	currentID     uint8
	currentAnchor uint32
	overrideSet   bool
	overrideNext  uint32

	// same-tick cascade control
	cascadePending bool
	ranMask        bitSet32

	// observability hook; nil unless attached (see telemetry.go)
	observer Observer
}

// New constructs a scheduler with room for capacity tasks (must be in
// [1, 32], since the per-tick ran mask is 32 bits wide and TaskKey packs
// the index into 5 bits) and a cadence quantum of tickMs milliseconds
// (must be >= 1). now is the initial clock reading used to bind the
// scheduler's phase, the same way the original binds lastTick to millis()
// in its constructor.
func New(capacity int, tickMs uint8, now uint32) *Scheduler {
	if capacity <= 0 || capacity > 32 {
		panic("sched: capacity must be in [1, 32]")
	}
	if tickMs == 0 {
		panic("sched: tickMs must be >= 1")
	}

	s := &Scheduler{
		tasks:       make([]task, capacity),
		order:       NewFixedVector[taskKey](capacity),
		notifyCount: make([]uint8, capacity),
		tickMs:      tickMs,
		// Offset by one quantum (wrap-safe) so a task due immediately at
		// construction can dispatch on the very first Run call, rather than
		// that call being gated out because no time has passed yet.
		lastTick:  now - uint32(tickMs),
		tickNow:   now,
		nextDue:   ^uint32(0),
		currentID: Invalid,
	}
	for i := range s.tasks {
		s.tasks[i].markFree()
	}
	activeNotifier = s
	return s
}

func earlier(a, b uint32) bool {
	return int32(a-b) < 0
}

func (s *Scheduler) isValid(h uint8) bool {
	return int(h) < len(s.tasks) && s.tasks[h].meta.inUse()
}

func (s *Scheduler) hasCurrentTask() bool { return s.currentID != Invalid }

func (s *Scheduler) findPosByIdx(idx uint8) uint8 {
	for k := uint8(0); k < s.order.Size(); k++ {
		if s.order.At(k).idx() == idx {
			return k
		}
	}
	return InvalidIndex
}

// Create allocates the lowest free slot for cb, due delayMs from now at
// priority prio (masked to its low 3 bits by TaskMeta). Returns Invalid if cb is
// nil or no slot is free.
func (s *Scheduler) Create(cb Callback, delayMs uint32, prio uint8) uint8 {
	if cb == nil {
		return Invalid
	}
	for i := range s.tasks {
		if s.tasks[i].meta.inUse() {
			continue
		}
		t := &s.tasks[i]
		t.callback = cb
		t.nextWake = s.tickNow + delayMs
		t.meta.clear()
		t.meta.setInUse(true)
		t.meta.setEnabled(true)
		t.meta.setPrio(prio)
		s.notifyCount[i] = 0

		s.order.PushBack(newTaskKey(t.meta.prio(), uint8(i)))
		s.order.SortDescending(taskKeyCompare)

		if t.ready() && earlier(t.nextWake, s.nextDue) {
			s.nextDue = t.nextWake
		}
		s.emit(eventCreate, uint8(i))
		return uint8(i)
	}
	return Invalid
}

// Delete frees h. No-op if h is invalid or already free.
func (s *Scheduler) Delete(h uint8) {
	if !s.isValid(h) {
		return
	}
	s.tasks[h].markFree()
	s.notifyCount[h] = 0
	if pos := s.findPosByIdx(h); pos != InvalidIndex {
		s.order.Erase(pos)
	}
	s.emit(eventDelete, h)
}

// Suspend clears h's enabled flag only; next wake and notify count are
// untouched.
func (s *Scheduler) Suspend(h uint8) {
	if !s.isValid(h) {
		return
	}
	s.tasks[h].meta.disable()
	s.emit(eventSuspend, h)
}

// Resume makes h eligible to run this tick (unless it already ran).
func (s *Scheduler) Resume(h uint8) {
	if !s.isValid(h) {
		return
	}
	t := &s.tasks[h]
	t.nextWake = s.tickNow
	t.meta.enable()
	s.cascadePending = true
	if earlier(t.nextWake, s.nextDue) {
		s.nextDue = t.nextWake
	}
	s.emit(eventResume, h)
}

// ResumeAfter enables h to run ms from now. ms == 0 behaves like Resume.
func (s *Scheduler) ResumeAfter(h uint8, ms uint32) {
	if !s.isValid(h) {
		return
	}
	t := &s.tasks[h]
	t.nextWake = s.tickNow + ms
	t.meta.enable()
	if ms == 0 {
		s.cascadePending = true
		if earlier(t.nextWake, s.nextDue) {
			s.nextDue = t.nextWake
		}
	} else if t.ready() && earlier(t.nextWake, s.nextDue) {
		s.nextDue = t.nextWake
	}
	s.emit(eventResume, h)
}

// NotifyGive saturating-increments h's notification counter (cap 255),
// enables it, and wakes it this tick. Safe to call from outside a
// callback, satisfying the Notifier interface.
func (s *Scheduler) NotifyGive(h uint8) {
	if !s.isValid(h) {
		return
	}
	if s.notifyCount[h] != maxNotifyCount {
		s.notifyCount[h]++
	}
	t := &s.tasks[h]
	t.meta.enable()
	t.nextWake = s.tickNow
	s.cascadePending = true
	if earlier(t.nextWake, s.nextDue) {
		s.nextDue = t.nextWake
	}
	s.emit(eventNotify, h)
}

// NotifyTake is valid only inside a callback. With clearOnExit it reads and
// zeros the current task's counter (counting semaphore); otherwise it
// decrements by one if nonzero (binary semaphore). Returns the amount
// taken, 0 if there is no current task or nothing pending.
func (s *Scheduler) NotifyTake(clearOnExit bool) uint8 {
	if !s.hasCurrentTask() {
		return 0
	}
	c := &s.notifyCount[s.currentID]
	if *c == 0 {
		return 0
	}
	if clearOnExit {
		n := *c
		*c = 0
		return n
	}
	*c--
	return 1
}

// CurrentTask returns the handle of the task whose callback is executing,
// or Invalid outside a callback. Satisfies the Notifier interface.
func (s *Scheduler) CurrentTask() uint8 { return s.currentID }

// TickCount returns the scheduler's current tick time in milliseconds.
func (s *Scheduler) TickCount() uint32 { return s.tickNow }

// Delay arms the current task's next wake at tickNow+ms. No-op outside a
// callback.
func (s *Scheduler) Delay(ms uint32) {
	if !s.hasCurrentTask() {
		return
	}
	s.overrideSet = true
	s.overrideNext = s.tickNow + ms
}

// YieldNextTick reschedules the current task for the next tick (the
// ranMask prevents a same-tick re-run). No-op outside a callback.
func (s *Scheduler) YieldNextTick() {
	if !s.hasCurrentTask() {
		return
	}
	s.overrideSet = true
	s.overrideNext = s.tickNow
}

// DelayUntil phase-locks the current task's next wake to the first future
// multiple of period from this run's release time (currentAnchor), not
// from tickNow. period == 0 behaves like YieldNextTick. No-op outside a
// callback.
func (s *Scheduler) DelayUntil(period uint32) {
	if !s.hasCurrentTask() {
		return
	}
	if period == 0 {
		s.overrideSet = true
		s.overrideNext = s.tickNow
		return
	}

	anchor := s.currentAnchor
	late := s.tickNow - anchor // wrap-safe: computed and used only as a magnitude below

	if late < period {
		s.overrideSet = true
		s.overrideNext = anchor + period
		return
	}

	k := late/period + 1 // one integer division, only when genuinely late
	s.overrideSet = true
	s.overrideNext = anchor + k*period
}

// PrioritySet changes h's priority and rebuilds the priority-ordered index
// vector. Wake times are untouched. No-op if h is invalid.
func (s *Scheduler) PrioritySet(h uint8, prio uint8) {
	if !s.isValid(h) {
		return
	}
	s.tasks[h].meta.setPrio(prio)
	s.order.Clear()
	for i := range s.tasks {
		if s.tasks[i].meta.inUse() {
			s.order.PushBack(newTaskKey(s.tasks[i].meta.prio(), uint8(i)))
		}
	}
	s.order.SortDescending(taskKeyCompare)
}

// PriorityGetHandle returns h's priority, or 0 if h is invalid.
func (s *Scheduler) PriorityGetHandle(h uint8) uint8 {
	if !s.isValid(h) {
		return 0
	}
	return s.tasks[h].meta.prio()
}

// PriorityGet returns the current task's priority, or 0 if there is none.
func (s *Scheduler) PriorityGet() uint8 {
	if !s.hasCurrentTask() {
		return 0
	}
	return s.tasks[s.currentID].meta.prio()
}

// Run drives one scheduler tick at the real time now. The cadence gate
// requires at least tick_ms to have elapsed since the last processed call;
// a call that arrives too soon is a no-op. A single Run call performs at
// most one drain (the bounded cascade below), even if now has jumped many
// quanta past the last call: no internal catch-up loop runs the missed
// quanta one by one (see DESIGN.md's Open Question on cadence catch-up).
// Every due task still sees the real now, so a task whose wake was
// computed against an earlier anchor (delay_until) can become due in a
// single jump rather than one tick at a time.
func (s *Scheduler) Run(now uint32) {
	if uint32(now-s.lastTick) < uint32(s.tickMs) {
		return
	}
	s.lastTick = now
	s.tickNow = now

	if earlier(s.tickNow, s.nextDue) {
		return
	}

	newNextDue := ^uint32(0)
	s.ranMask.clear()
	s.cascadePending = false

	passes := uint8(0)
	for {
		anyRan := false

		for k := uint8(0); k < s.order.Size(); k++ {
			idx := s.order.At(k).idx()
			t := &s.tasks[idx]
			if !t.ready() {
				continue
			}
			if s.ranMask.get(idx) {
				continue
			}

			if earlier(s.tickNow, t.nextWake) {
				if earlier(t.nextWake, newNextDue) {
					newNextDue = t.nextWake
				}
				continue
			}

			s.currentID = idx
			s.currentAnchor = t.nextWake
			s.overrideSet = false

			cb := t.callback
			cb()

			s.currentID = Invalid
			s.ranMask.set(idx)
			anyRan = true
			s.emit(eventDispatch, idx)

			if s.overrideSet {
				t.nextWake = s.overrideNext
				t.meta.enable()
				if earlier(t.nextWake, newNextDue) {
					newNextDue = t.nextWake
				}
			} else {
				t.meta.disable()
				s.emit(eventAutoSuspend, idx)
			}
		}

		s.cascadePending = s.cascadePending && anyRan
		passes++
		if !s.cascadePending || passes >= uint8(len(s.tasks)) {
			break
		}
	}

	s.nextDue = newNextDue
}
