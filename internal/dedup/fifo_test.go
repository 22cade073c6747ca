package dedup

import "testing"

// Contract: entries come back out in the order they went in, and Get
// resolves any still-buffered position in one step.
func Test_Fifo_ReturnsEntriesInOrder_When_PushedThenPopped(t *testing.T) {
	t.Parallel()

	q := newFIFO(3)
	for i := int64(0); i < 3; i++ {
		q.Push(PendingEntry{Position: i, Raw: []byte{byte('A' + i)}})
	}

	if got, ok := q.Get(1); !ok || got.Raw[0] != 'B' {
		t.Fatalf("Get(1) = %v, %v", got, ok)
	}

	for i := int64(0); i < 3; i++ {
		e, ok := q.PopFront()
		if !ok || e.Position != i {
			t.Fatalf("PopFront() = %v, %v; want position %d", e, ok, i)
		}
	}

	if _, ok := q.PopFront(); ok {
		t.Fatal("expected empty fifo")
	}
}

// Contract: Push beyond capacity is a driver bug, not a runtime error.
func Test_Fifo_Panics_When_PushedBeyondCapacity(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()

	q := newFIFO(1)
	q.Push(PendingEntry{Position: 0})
	q.Push(PendingEntry{Position: 1})
}

// Contract: the fifo keeps working correctly after the backing array has
// wrapped around via pop-driven reclamation.
func Test_Fifo_Sustains_When_PushPopCycledPastCapacity(t *testing.T) {
	t.Parallel()

	q := newFIFO(2)
	var pos int64
	for cycle := 0; cycle < 50; cycle++ {
		q.Push(PendingEntry{Position: pos})
		pos++
		if q.Len() == 2 {
			e, ok := q.PopFront()
			if !ok || e.Position != pos-2 {
				t.Fatalf("cycle %d: PopFront() = %v, %v", cycle, e, ok)
			}
		}
	}
}

// Contract: Get returns false for positions that have already been
// popped or have not yet been pushed.
func Test_Fifo_ReturnsFalse_When_PositionNotBuffered(t *testing.T) {
	t.Parallel()

	q := newFIFO(2)
	q.Push(PendingEntry{Position: 0})
	q.Push(PendingEntry{Position: 1})
	q.PopFront()

	if _, ok := q.Get(0); ok {
		t.Fatal("expected false for popped position")
	}
	if _, ok := q.Get(5); ok {
		t.Fatal("expected false for unseen position")
	}
	if got, ok := q.Get(1); !ok || got.Position != 1 {
		t.Fatalf("Get(1) = %v, %v", got, ok)
	}
}
