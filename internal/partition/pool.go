package partition

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/vk/fractalgrid/internal/ctxlog"
	"github.com/vk/fractalgrid/internal/model"
)

// pool runs a fixed set of workers over a queue of pending row ranges.
// pending counts ranges that are queued or being processed; the queue is
// closed once it drops to zero.
type pool struct {
	st      *runState
	queue   chan model.RowRange
	pending sync.WaitGroup
}

func runPool(ctx context.Context, st *runState, rows model.RowRange, workers, depth int) {
	if rows.Empty() {
		return
	}
	p := &pool{st: st, queue: make(chan model.RowRange, depth)}

	p.pending.Add(1)
	p.queue <- rows

	var g errgroup.Group
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			p.worker(ctx)
			return nil
		})
	}

	p.pending.Wait()
	close(p.queue)
	_ = g.Wait()
}

// worker is the processing loop for a single pool worker.
func (p *pool) worker(ctx context.Context) {
	workerID := p.st.taskStarted()
	defer p.st.taskExited()

	logger := ctxlog.FromContext(ctx).With("workerID", workerID)
	logger.Debug("Worker started.")

	for r := range p.queue {
		if ctx.Err() != nil {
			p.st.skip(r)
			p.pending.Done()
			continue
		}
		p.process(ctx, workerID, r)
		p.pending.Done()
	}
	logger.Debug("Worker finished.")
}

// process splits r until it reaches a leaf, pushing every upper half back
// onto the queue. If the queue is full the worker keeps the half itself.
func (p *pool) process(ctx context.Context, workerID int64, r model.RowRange) {
	for !r.Empty() {
		if ctx.Err() != nil {
			p.st.skip(r)
			return
		}
		if r.Leaf() {
			p.st.leaf(workerID, r.Lo)
			return
		}
		lower, upper, ok := p.st.split(r)
		if !ok {
			return
		}

		p.pending.Add(1)
		select {
		case p.queue <- upper:
		default:
			p.pending.Done()
			p.st.inline.Add(1)
			p.process(ctx, workerID, upper)
		}
		r = lower
	}
}
