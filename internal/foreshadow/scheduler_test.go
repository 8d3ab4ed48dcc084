package foreshadow

import "testing"

func TestSchedulerFiresInTimeOrder(t *testing.T) {
	s := NewScheduler()
	var got []int
	s.After(3.0, func() { got = append(got, 3) })
	s.After(1.0, func() { got = append(got, 1) })
	s.After(2.0, func() { got = append(got, 2) })

	s.Drain(2.5)
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("drained %v, want [1 2]", got)
	}
	s.Drain(5)
	if len(got) != 3 || got[2] != 3 {
		t.Fatalf("drained %v, want [1 2 3]", got)
	}
}

func TestSchedulerTieBreaksBySequence(t *testing.T) {
	s := NewScheduler()
	var got []int
	s.After(1.0, func() { got = append(got, 1) })
	s.After(1.0, func() { got = append(got, 2) })
	s.Drain(1)
	if len(got) != 2 || got[0] != 1 {
		t.Fatalf("order = %v", got)
	}
}

func TestSchedulerCancelIsIdempotent(t *testing.T) {
	s := NewScheduler()
	fired := false
	h := s.After(1.0, func() { fired = true })
	s.Cancel(h)
	s.Cancel(h)
	s.Cancel(999) // Unknown handle.
	s.Drain(2)
	if fired {
		t.Fatal("cancelled callback fired")
	}
	if s.Pending() != 0 {
		t.Fatalf("pending = %d", s.Pending())
	}
}

func TestSchedulerClear(t *testing.T) {
	s := NewScheduler()
	fired := false
	s.After(1.0, func() { fired = true })
	s.Clear()
	s.Drain(10)
	if fired || s.Pending() != 0 {
		t.Fatal("clear did not drop the queue")
	}
}
