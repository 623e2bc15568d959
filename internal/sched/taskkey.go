package sched

// taskKey packs (priority:3, index:5) into a single byte so that ordering
// tasks by priority, then by index, is a single byte compare. Sorting a
// slice of taskKey descending puts the highest priority first, and within
// equal priority, higher indices before lower ones — a deliberate tie-break,
// not insertion order.
type taskKey uint8

func newTaskKey(prio, idx uint8) taskKey {
	return taskKey((prio&7)<<5 | (idx & 0x1f))
}

func (k taskKey) prio() uint8 { return uint8(k) >> 5 }

func (k taskKey) idx() uint8 { return uint8(k) & 0x1f }

// taskKeyCompare orders two keys the way emirpasic/gods comparators do:
// negative if a < b, zero if equal, positive if a > b.
func taskKeyCompare(a, b taskKey) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
