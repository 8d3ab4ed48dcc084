package foreshadow

import "container/heap"

// Scheduler is a priority queue of (time, callback) pairs drained against
// the monotonic simulation clock. Cancellation is idempotent; cancelled
// entries are dropped lazily when they surface.
type Scheduler struct {
	items     itemHeap
	cancelled map[int]struct{}
	nextSeq   int
}

type item struct {
	at  float64
	seq int
	fn  func()
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{cancelled: make(map[int]struct{})}
}

// After schedules fn to run once the clock reaches at. Returns a handle for
// Cancel.
func (s *Scheduler) After(at float64, fn func()) int {
	seq := s.nextSeq
	s.nextSeq++
	heap.Push(&s.items, item{at: at, seq: seq, fn: fn})
	return seq
}

// Cancel drops a scheduled callback. Unknown or already-fired handles are
// ignored, and cancelling twice is a no-op.
func (s *Scheduler) Cancel(handle int) {
	s.cancelled[handle] = struct{}{}
}

// Drain fires every callback whose time has arrived, in schedule order.
func (s *Scheduler) Drain(now float64) {
	for s.items.Len() > 0 && s.items[0].at <= now {
		it := heap.Pop(&s.items).(item)
		if _, dead := s.cancelled[it.seq]; dead {
			delete(s.cancelled, it.seq)
			continue
		}
		it.fn()
	}
}

// Pending reports how many callbacks are queued, cancelled ones included.
func (s *Scheduler) Pending() int { return s.items.Len() }

// Clear drops everything without firing.
func (s *Scheduler) Clear() {
	s.items = nil
	s.cancelled = make(map[int]struct{})
}

type itemHeap []item

func (h itemHeap) Len() int { return len(h) }
func (h itemHeap) Less(i, j int) bool {
	if h[i].at != h[j].at {
		return h[i].at < h[j].at
	}
	return h[i].seq < h[j].seq
}
func (h itemHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *itemHeap) Push(x any) { *h = append(*h, x.(item)) }

func (h *itemHeap) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	*h = old[:n-1]
	return it
}
