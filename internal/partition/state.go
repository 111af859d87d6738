package partition

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/vk/fractalgrid/internal/ctxlog"
	"github.com/vk/fractalgrid/internal/model"
)

// Stats summarizes one run.
type Stats struct {
	// Leaves is the number of rows handed to the RowFunc.
	Leaves int64
	// Skipped counts leaf rows outside [0, bound) and rows whose claim
	// collided with an earlier one.
	Skipped int64
	// Cancelled counts rows never started because the run was cancelled.
	Cancelled int64
	// Spawned is the number of tasks created besides the calling goroutine.
	Spawned int64
	// PeakTasks is the highest number of tasks alive at once, the calling
	// goroutine included.
	PeakTasks int64
	// Degraded counts ranges that ran in their parent task because the task
	// budget was exhausted.
	Degraded int64
	// Inline counts ranges a Pool worker kept because the queue was full.
	Inline int64
	// Violations counts failed disjointness checks.
	Violations int64
}

// runState is shared by every task of a single run.
type runState struct {
	ctx    context.Context
	cancel context.CancelCauseFunc
	bound  int
	fill   RowFunc
	strict bool

	claimed []atomic.Bool

	nextTask   atomic.Int64
	live       atomic.Int64
	peak       atomic.Int64
	leaves     atomic.Int64
	skipped    atomic.Int64
	cancelled  atomic.Int64
	degraded   atomic.Int64
	inline     atomic.Int64
	violations atomic.Int64

	errMu    sync.Mutex
	firstErr error
}

func newRunState(ctx context.Context, cancel context.CancelCauseFunc, bound int, fill RowFunc, strict bool) *runState {
	if bound < 0 {
		bound = 0
	}
	st := &runState{
		ctx:     ctx,
		cancel:  cancel,
		bound:   bound,
		fill:    fill,
		strict:  strict,
		claimed: make([]atomic.Bool, bound),
	}
	st.live.Store(1)
	st.peak.Store(1)
	return st
}

// leaf claims row y and computes it.
func (s *runState) leaf(task int64, y int) {
	if y < 0 || y >= s.bound {
		s.skipped.Add(1)
		if s.strict {
			s.violate(fmt.Errorf("%w: row %d outside [0,%d)", ErrOutOfBounds, y, s.bound))
		}
		return
	}
	if !s.claimed[y].CompareAndSwap(false, true) {
		s.skipped.Add(1)
		s.violate(fmt.Errorf("%w: row %d claimed twice", ErrOverlap, y))
		return
	}
	s.fill(task, y)
	s.leaves.Add(1)
}

// split halves r and verifies that the halves partition it.
func (s *runState) split(r model.RowRange) (lower, upper model.RowRange, ok bool) {
	lower, upper, ok = r.Split()
	if ok && !r.Partitions(lower, upper) {
		s.violate(fmt.Errorf("%w: %s split into %s and %s", ErrOverlap, r, lower, upper))
		return lower, upper, false
	}
	return lower, upper, ok
}

// skip accounts for a range that will never run.
func (s *runState) skip(r model.RowRange) {
	s.cancelled.Add(int64(r.Len()))
}

// violate records a broken disjointness contract. Strict runs fail on the
// first one; other runs log it and carry on.
func (s *runState) violate(err error) {
	s.violations.Add(1)
	if s.strict {
		s.fail(err)
		return
	}
	ctxlog.FromContext(s.ctx).Warn("Partition invariant violated, row skipped.", "error", err)
}

// fail records the first run error and cancels the remaining work.
func (s *runState) fail(err error) {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	if s.firstErr == nil {
		s.firstErr = err
		s.cancel(err)
	}
}

func (s *runState) err() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.firstErr
}

// taskStarted registers a new task and returns its id.
func (s *runState) taskStarted() int64 {
	id := s.nextTask.Add(1)
	n := s.live.Add(1)
	for {
		p := s.peak.Load()
		if n <= p || s.peak.CompareAndSwap(p, n) {
			break
		}
	}
	return id
}

func (s *runState) taskExited() {
	s.live.Add(-1)
}

func (s *runState) snapshot() Stats {
	return Stats{
		Leaves:     s.leaves.Load(),
		Skipped:    s.skipped.Load(),
		Cancelled:  s.cancelled.Load(),
		Spawned:    s.nextTask.Load(),
		PeakTasks:  s.peak.Load(),
		Degraded:   s.degraded.Load(),
		Inline:     s.inline.Load(),
		Violations: s.violations.Load(),
	}
}
