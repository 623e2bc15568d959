// internal/sched/telemetry.go

package sched

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/emirpasic/gods/trees/redblacktree"
)

// EventKind identifies a scheduler lifecycle transition.
type EventKind int

const (
	eventCreate EventKind = iota
	eventDelete
	eventSuspend
	eventResume
	eventNotify
	eventDispatch
	eventAutoSuspend
)

func (k EventKind) String() string {
	switch k {
	case eventCreate:
		return "Create"
	case eventDelete:
		return "Delete"
	case eventSuspend:
		return "Suspend"
	case eventResume:
		return "Resume"
	case eventNotify:
		return "Notify"
	case eventDispatch:
		return "Dispatch"
	case eventAutoSuspend:
		return "AutoSuspend"
	default:
		return "Unknown"
	}
}

// Event is one recorded scheduler lifecycle transition.
type Event struct {
	Tick   uint32
	Handle uint8
	Kind   EventKind
	Seq    uint64
}

// Observer receives scheduler lifecycle events as they happen. Attaching
// one costs a single interface call per transition; a nil Scheduler
// observer costs nothing.
type Observer interface {
	OnEvent(ev Event)
}

func (s *Scheduler) emit(kind EventKind, handle uint8) {
	if s.observer == nil {
		return
	}
	s.observer.OnEvent(Event{Tick: s.tickNow, Handle: handle, Kind: kind})
}

// Attach registers obs to receive every future lifecycle event. Pass nil to
// detach.
func (s *Scheduler) Attach(obs Observer) { s.observer = obs }

// eventKey orders events by (tick, handle, sequence) so a dump comes out
// tick by tick without a separate sort pass. Within one tick, events are
// grouped by handle (lowest first), not kept in arrival order; sequence
// only orders the events of one handle within one tick.
type eventKey struct {
	tick   uint32
	handle uint8
	seq    uint64
}

func eventKeyCompare(a, b any) int {
	ka, kb := a.(eventKey), b.(eventKey)
	switch {
	case ka.tick < kb.tick:
		return -1
	case ka.tick > kb.tick:
		return 1
	case ka.handle < kb.handle:
		return -1
	case ka.handle > kb.handle:
		return 1
	case ka.seq < kb.seq:
		return -1
	case ka.seq > kb.seq:
		return 1
	default:
		return 0
	}
}

// EventLog is a bounded record of scheduler lifecycle events, ordered by
// (tick, handle, sequence), built as an Observer attachment. It never feeds back
// into dispatch order; it only reads.
type EventLog struct {
	rbt      *redblacktree.Tree
	cap      int
	seq      uint64
	csvFile  *os.File
	csvWrite *csv.Writer
}

// NewEventLog creates a log that retains at most capacity events, evicting
// the entry with the smallest (tick, handle, sequence) key once full.
func NewEventLog(capacity int) *EventLog {
	return &EventLog{
		rbt: redblacktree.NewWith(eventKeyCompare),
		cap: capacity,
	}
}

// EnableCSV opens path for CSV export of every recorded event. Must be
// called before the log starts receiving events if a complete export is
// wanted.
func (l *EventLog) EnableCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	w.Write([]string{"tick", "handle", "event"})
	w.Flush()
	l.csvFile = f
	l.csvWrite = w
	return nil
}

// Close flushes and closes any open CSV export.
func (l *EventLog) Close() error {
	if l.csvFile == nil {
		return nil
	}
	l.csvWrite.Flush()
	return l.csvFile.Close()
}

// OnEvent implements Observer.
func (l *EventLog) OnEvent(ev Event) {
	key := eventKey{tick: ev.Tick, handle: ev.Handle, seq: l.seq}
	l.seq++
	l.rbt.Put(key, ev)

	if l.cap > 0 {
		for l.rbt.Size() > l.cap {
			oldest := l.rbt.Left()
			if oldest == nil {
				break
			}
			l.rbt.Remove(oldest.Key)
		}
	}

	if l.csvWrite != nil {
		l.csvWrite.Write([]string{
			strconv.FormatUint(uint64(ev.Tick), 10),
			strconv.FormatUint(uint64(ev.Handle), 10),
			ev.Kind.String(),
		})
		l.csvWrite.Flush()
	}
}

// Events returns all retained events in (tick, handle, sequence) order.
func (l *EventLog) Events() []Event {
	out := make([]Event, 0, l.rbt.Size())
	it := l.rbt.Iterator()
	for it.Next() {
		out = append(out, it.Value().(Event))
	}
	return out
}

// Len returns the number of retained events.
func (l *EventLog) Len() int { return l.rbt.Size() }
