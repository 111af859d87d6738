package partition

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/vk/fractalgrid/internal/ctxlog"
	"github.com/vk/fractalgrid/internal/model"
)

// Strategy selects how split ranges are executed.
type Strategy string

const (
	Fanout     Strategy = "fanout"
	Pool       Strategy = "pool"
	Sequential Strategy = "sequential"
)

// ExhaustPolicy decides what Fanout does when its task budget is used up.
type ExhaustPolicy string

const (
	// Degrade runs the range in the current task instead of a new one.
	Degrade ExhaustPolicy = "degrade"
	// Reject stops dispatching and fails the run with ErrBudgetExhausted.
	Reject ExhaustPolicy = "reject"
)

var (
	// ErrBudgetExhausted is returned when Fanout runs out of task budget
	// under the Reject policy.
	ErrBudgetExhausted = errors.New("task budget exhausted")
	// ErrOverlap reports a row range dispatched to more than one task.
	ErrOverlap = errors.New("overlapping row ranges")
	// ErrOutOfBounds reports a leaf row outside the image.
	ErrOutOfBounds = errors.New("row out of bounds")
	// ErrUnknownStrategy is returned by New for an unrecognized strategy.
	ErrUnknownStrategy = errors.New("unknown partition strategy")
	// ErrUnknownPolicy is returned by New for an unrecognized exhaust policy.
	ErrUnknownPolicy = errors.New("unknown exhaust policy")
)

// RowFunc computes row y. task identifies the task performing the call; it is
// unique per goroutine of a run.
type RowFunc func(task int64, y int)

// Config holds the engine settings.
type Config struct {
	Strategy Strategy
	// Workers is the degree of parallelism of Pool. Zero means GOMAXPROCS.
	Workers int
	// QueueDepth bounds the Pool queue of pending ranges. Zero means
	// 4*Workers. A worker that finds the queue full keeps the range.
	QueueDepth int
	// TaskBudget caps the number of live Fanout goroutines. Zero means
	// unbounded.
	TaskBudget int
	// OnExhausted applies when TaskBudget is used up. Empty means Degrade.
	OnExhausted ExhaustPolicy
	// Strict turns skipped rows and overlapping claims into run errors.
	Strict bool
}

// Engine runs row partitioned computations. It is safe to call Run
// concurrently; every run keeps its own state.
type Engine struct {
	cfg Config
}

// New validates cfg, fills in defaults and returns an Engine.
func New(cfg Config) (*Engine, error) {
	cfg.Strategy = Strategy(strings.ToLower(string(cfg.Strategy)))
	if cfg.Strategy == "" {
		cfg.Strategy = Pool
	}
	switch cfg.Strategy {
	case Fanout, Pool, Sequential:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, cfg.Strategy)
	}

	cfg.OnExhausted = ExhaustPolicy(strings.ToLower(string(cfg.OnExhausted)))
	if cfg.OnExhausted == "" {
		cfg.OnExhausted = Degrade
	}
	switch cfg.OnExhausted {
	case Degrade, Reject:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, cfg.OnExhausted)
	}

	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	if cfg.QueueDepth <= 0 {
		cfg.QueueDepth = 4 * cfg.Workers
	}
	if cfg.TaskBudget < 0 {
		cfg.TaskBudget = 0
	}
	return &Engine{cfg: cfg}, nil
}

// Config returns the effective configuration, defaults included.
func (e *Engine) Config() Config {
	return e.cfg
}

// Run partitions rows and calls fill once for every leaf row inside
// [0, bound). It blocks until every dispatched range has finished.
//
// If ctx is cancelled, ranges that have not started are skipped, Run waits
// for the ranges in flight and returns the cancellation cause.
func (e *Engine) Run(ctx context.Context, rows model.RowRange, bound int, fill RowFunc) (Stats, error) {
	ctx = ctxlog.With(ctx, "strategy", string(e.cfg.Strategy))
	logger := ctxlog.FromContext(ctx)

	runCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	st := newRunState(runCtx, cancel, bound, fill, e.cfg.Strict)
	logger.Debug("Partition run starting.", "rows", rows.String(), "bound", bound, "workers", e.cfg.Workers, "task_budget", e.cfg.TaskBudget)

	switch e.cfg.Strategy {
	case Fanout:
		runFanout(runCtx, st, rows, e.cfg.TaskBudget, e.cfg.OnExhausted)
	case Pool:
		runPool(runCtx, st, rows, e.cfg.Workers, e.cfg.QueueDepth)
	case Sequential:
		runSequential(runCtx, st, rows)
	}

	stats := st.snapshot()
	logger.Debug("Partition run finished.", "leaves", stats.Leaves, "spawned", stats.Spawned, "peak_tasks", stats.PeakTasks, "skipped", stats.Skipped)
	if stats.Degraded > 0 {
		logger.Warn("Task budget exhausted, ranges ran in their parent task.", "degraded", stats.Degraded, "task_budget", e.cfg.TaskBudget)
	}

	if err := st.err(); err != nil {
		return stats, err
	}
	if err := ctx.Err(); err != nil {
		return stats, context.Cause(ctx)
	}
	return stats, nil
}
