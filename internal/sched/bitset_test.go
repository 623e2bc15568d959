package sched

import "testing"

func TestBitSet32SetGet(t *testing.T) {
	var b bitSet32
	if b.get(0) {
		t.Fatal("fresh bitset should read false everywhere")
	}
	b.set(3)
	b.set(31)
	if !b.get(3) || !b.get(31) {
		t.Fatal("set bits should read true")
	}
	if b.get(4) {
		t.Fatal("unset bit read true")
	}
}

func TestBitSet32Clear(t *testing.T) {
	var b bitSet32
	b.set(5)
	b.clear()
	if b.get(5) {
		t.Fatal("clear should reset every bit")
	}
}
