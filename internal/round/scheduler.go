package round

import (
	"container/heap"
	"time"
)

// Scheduler resumes paced work after a delay. Implementations call fn on
// the goroutine that drives them, never concurrently.
type Scheduler interface {
	After(d time.Duration, fn func())
	Now() time.Duration
}

type timer struct {
	at    time.Duration
	seq   uint64
	fn    func()
	index int
}

type timerQueue []*timer

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].at != q[j].at {
		return q[i].at < q[j].at
	}
	return q[i].seq < q[j].seq
}

func (q timerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *timerQueue) Push(x interface{}) {
	t := x.(*timer)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *timerQueue) Pop() interface{} {
	old := *q
	t := old[len(old)-1]
	old[len(old)-1] = nil
	*q = old[:len(old)-1]
	return t
}

// TickScheduler is a virtual clock. Time only moves when Advance or
// RunNext is called, so a render loop can pace it per frame and tests can
// drive it synchronously.
type TickScheduler struct {
	now   time.Duration
	seq   uint64
	queue timerQueue
}

func NewTickScheduler() *TickScheduler {
	return &TickScheduler{}
}

// Now returns the virtual time elapsed since creation.
func (s *TickScheduler) Now() time.Duration { return s.now }

// After schedules fn at Now()+d. Callbacks due at the same instant run in
// scheduling order.
func (s *TickScheduler) After(d time.Duration, fn func()) {
	if d < 0 {
		d = 0
	}
	heap.Push(&s.queue, &timer{at: s.now + d, seq: s.seq, fn: fn})
	s.seq++
}

// Pending returns the number of scheduled callbacks.
func (s *TickScheduler) Pending() int { return s.queue.Len() }

// Next returns the deadline of the earliest callback.
func (s *TickScheduler) Next() (time.Duration, bool) {
	if s.queue.Len() == 0 {
		return 0, false
	}
	return s.queue[0].at, true
}

// Advance moves the clock forward by dt, running every callback that falls
// due, including ones scheduled by callbacks during this call. It returns
// how many callbacks ran.
func (s *TickScheduler) Advance(dt time.Duration) int {
	target := s.now + dt
	fired := 0
	for s.queue.Len() > 0 && s.queue[0].at <= target {
		t := heap.Pop(&s.queue).(*timer)
		s.now = t.at
		t.fn()
		fired++
	}
	s.now = target
	return fired
}

// RunNext jumps the clock to the earliest deadline and runs that callback.
// It reports false when nothing is scheduled.
func (s *TickScheduler) RunNext() bool {
	if s.queue.Len() == 0 {
		return false
	}
	t := heap.Pop(&s.queue).(*timer)
	if t.at > s.now {
		s.now = t.at
	}
	t.fn()
	return true
}

// RunUntilIdle runs callbacks until none remain or limit callbacks have run
// (limit <= 0 means no limit). It returns how many ran.
func (s *TickScheduler) RunUntilIdle(limit int) int {
	n := 0
	for (limit <= 0 || n < limit) && s.RunNext() {
		n++
	}
	return n
}
