package sched

import "testing"

func TestTaskKeyPriorityAndIndex(t *testing.T) {
	k := newTaskKey(5, 17)
	if k.prio() != 5 {
		t.Fatalf("prio() = %d, want 5", k.prio())
	}
	if k.idx() != 17 {
		t.Fatalf("idx() = %d, want 17", k.idx())
	}
}

func TestTaskKeyOrdersByPriorityThenIndexDescending(t *testing.T) {
	// Higher priority always beats lower priority, regardless of index.
	high := newTaskKey(5, 0)
	low := newTaskKey(2, 31)
	if taskKeyCompare(high, low) <= 0 {
		t.Fatal("higher priority key should compare greater than lower priority key")
	}

	// Equal priority: higher index compares greater (descending sort puts
	// it first), which is a deliberate tie-break, not insertion order.
	a := newTaskKey(3, 2)
	b := newTaskKey(3, 9)
	if taskKeyCompare(b, a) <= 0 {
		t.Fatal("equal-priority tie-break should favor the higher index")
	}
}

func TestTaskKeyMasksOutOfRangeFields(t *testing.T) {
	k := newTaskKey(0xff, 0xff)
	if k.prio() != 7 {
		t.Fatalf("prio() = %d, want masked to 7", k.prio())
	}
	if k.idx() != 31 {
		t.Fatalf("idx() = %d, want masked to 31", k.idx())
	}
}
