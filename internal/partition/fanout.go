package partition

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vk/fractalgrid/internal/model"
)

// fanout starts one goroutine per split. The group is the completion barrier
// and, when a budget is set, the limit on live goroutines.
type fanout struct {
	st     *runState
	g      errgroup.Group
	limit  int
	policy ExhaustPolicy
}

func runFanout(ctx context.Context, st *runState, rows model.RowRange, limit int, policy ExhaustPolicy) {
	f := &fanout{st: st, limit: limit, policy: policy}
	if limit > 0 {
		f.g.SetLimit(limit)
	}
	f.dispatch(ctx, 0, rows)
	_ = f.g.Wait()
}

// dispatch handles r on the current task: the upper half of every split goes
// to a new task, the lower half stays here.
func (f *fanout) dispatch(ctx context.Context, task int64, r model.RowRange) {
	for !r.Empty() {
		if ctx.Err() != nil {
			f.st.skip(r)
			return
		}
		if r.Leaf() {
			f.st.leaf(task, r.Lo)
			return
		}
		lower, upper, ok := f.st.split(r)
		if !ok {
			return
		}
		f.spawn(ctx, task, upper)
		r = lower
	}
}

func (f *fanout) spawn(ctx context.Context, parent int64, r model.RowRange) {
	run := func() error {
		id := f.st.taskStarted()
		defer f.st.taskExited()
		f.dispatch(ctx, id, r)
		return nil
	}

	if f.limit <= 0 {
		f.g.Go(run)
		return
	}
	if f.g.TryGo(run) {
		return
	}

	switch f.policy {
	case Reject:
		f.st.skip(r)
		f.st.fail(fmt.Errorf("%w: %d live tasks, range %s not dispatched", ErrBudgetExhausted, f.limit, r))
	default:
		f.st.degraded.Add(1)
		f.dispatch(ctx, parent, r)
	}
}
