package partition

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/fractalgrid/internal/model"
)

// rowRecorder counts, per row, how often it was filled and by which task.
type rowRecorder struct {
	mu      sync.Mutex
	calls   map[int]int
	writers map[int]int64
}

func newRowRecorder() *rowRecorder {
	return &rowRecorder{calls: make(map[int]int), writers: make(map[int]int64)}
}

func (r *rowRecorder) fill(task int64, y int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[y]++
	r.writers[y] = task
}

func (r *rowRecorder) requireExactlyOnce(t *testing.T, height int) {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.Len(t, r.calls, height)
	for y := 0; y < height; y++ {
		require.Equal(t, 1, r.calls[y], "row %d", y)
	}
}

func newEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	e, err := New(cfg)
	require.NoError(t, err)
	return e
}

var allStrategies = []Config{
	{Strategy: Sequential},
	{Strategy: Fanout},
	{Strategy: Fanout, TaskBudget: 3},
	{Strategy: Pool, Workers: 1, QueueDepth: 1},
	{Strategy: Pool, Workers: 4},
	{Strategy: Pool, Workers: 16, QueueDepth: 2},
}

func TestRun_EveryRowFilledExactlyOnce(t *testing.T) {
	heights := []int{1, 2, 3, 4, 5, 7, 8, 15, 16, 17, 31, 32, 33, 64, 100, 127, 128, 129, 255, 256, 1000}

	for _, cfg := range allStrategies {
		e := newEngine(t, cfg)
		for _, h := range heights {
			rec := newRowRecorder()
			stats, err := e.Run(context.Background(), model.RowRange{Lo: 0, Hi: h - 1}, h, rec.fill)

			require.NoError(t, err, "%+v height %d", cfg, h)
			rec.requireExactlyOnce(t, h)
			assert.Equal(t, int64(h), stats.Leaves)
			assert.Zero(t, stats.Skipped)
			assert.Zero(t, stats.Violations)
		}
	}
}

func TestRun_HeightUpperBoundIsSkipped(t *testing.T) {
	const h = 10

	for _, cfg := range allStrategies {
		rec := newRowRecorder()
		stats, err := newEngine(t, cfg).Run(context.Background(), model.RowRange{Lo: 0, Hi: h}, h, rec.fill)

		require.NoError(t, err)
		rec.requireExactlyOnce(t, h)
		assert.Equal(t, int64(1), stats.Skipped)
		assert.Equal(t, int64(h), stats.Leaves)
	}
}

func TestRun_StrictRejectsOutOfBounds(t *testing.T) {
	e := newEngine(t, Config{Strategy: Sequential, Strict: true})

	_, err := e.Run(context.Background(), model.RowRange{Lo: 0, Hi: 4}, 4, func(int64, int) {})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOutOfBounds))
}

func TestRun_DegenerateRangeIsNoop(t *testing.T) {
	for _, cfg := range allStrategies {
		called := false
		stats, err := newEngine(t, cfg).Run(context.Background(), model.RowRange{Lo: 5, Hi: 2}, 10, func(int64, int) { called = true })

		require.NoError(t, err)
		assert.False(t, called)
		assert.Zero(t, stats.Leaves)
	}
}

func TestFanout_SpawnsOneTaskPerSplit(t *testing.T) {
	e := newEngine(t, Config{Strategy: Fanout})

	for _, h := range []int{1, 2, 9, 64, 333} {
		stats, err := e.Run(context.Background(), model.RowRange{Lo: 0, Hi: h - 1}, h, func(int64, int) {})
		require.NoError(t, err)
		assert.Equal(t, int64(h-1), stats.Spawned, "height %d", h)
	}
}

func TestFanout_DistinctTasksWriteDistinctRows(t *testing.T) {
	const h = 32
	rec := newRowRecorder()

	_, err := newEngine(t, Config{Strategy: Fanout}).Run(context.Background(), model.RowRange{Lo: 0, Hi: h - 1}, h, rec.fill)
	require.NoError(t, err)

	// Every split hands a leaf-bearing range to a fresh task, so each row has
	// its own writer.
	seen := make(map[int64]int)
	for y, w := range rec.writers {
		prev, dup := seen[w]
		require.False(t, dup, "task %d wrote rows %d and %d", w, prev, y)
		seen[w] = y
	}
}

func TestFanout_BudgetDegradesToParentTask(t *testing.T) {
	const h = 200
	rec := newRowRecorder()
	e := newEngine(t, Config{Strategy: Fanout, TaskBudget: 1})

	stats, err := e.Run(context.Background(), model.RowRange{Lo: 0, Hi: h - 1}, h, rec.fill)

	require.NoError(t, err)
	rec.requireExactlyOnce(t, h)
	assert.Positive(t, stats.Degraded)
	assert.LessOrEqual(t, stats.PeakTasks, int64(2))
}

func TestFanout_BudgetRejectFailsFast(t *testing.T) {
	const h = 64
	e := newEngine(t, Config{Strategy: Fanout, TaskBudget: 1, OnExhausted: Reject})

	stats, err := e.Run(context.Background(), model.RowRange{Lo: 0, Hi: h - 1}, h, func(int64, int) {})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBudgetExhausted))
	assert.Less(t, stats.Leaves, int64(h))
	assert.Positive(t, stats.Cancelled)
	assert.Equal(t, int64(h), stats.Leaves+stats.Cancelled)
}

func TestPool_ParallelismIsBounded(t *testing.T) {
	const workers = 3
	var live, peak atomic.Int64
	fill := func(int64, int) {
		n := live.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		live.Add(-1)
	}

	stats, err := newEngine(t, Config{Strategy: Pool, Workers: workers}).Run(context.Background(), model.RowRange{Lo: 0, Hi: 511}, 512, fill)

	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int64(workers))
	assert.Equal(t, int64(workers), stats.Spawned)
	assert.LessOrEqual(t, stats.PeakTasks, int64(workers+1))
}

func TestRun_CancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, cfg := range allStrategies {
		called := false
		stats, err := newEngine(t, cfg).Run(ctx, model.RowRange{Lo: 0, Hi: 99}, 100, func(int64, int) { called = true })

		require.ErrorIs(t, err, context.Canceled)
		assert.False(t, called)
		assert.Equal(t, int64(100), stats.Cancelled)
	}
}

func TestRun_CancelMidwaySkipsUnstartedRows(t *testing.T) {
	const h = 256
	for _, cfg := range []Config{{Strategy: Pool, Workers: 2}, {Strategy: Sequential}, {Strategy: Fanout, TaskBudget: 2}} {
		ctx, cancel := context.WithCancel(context.Background())
		var filled atomic.Int64
		fill := func(int64, int) {
			if filled.Add(1) == 10 {
				cancel()
			}
		}

		stats, err := newEngine(t, cfg).Run(ctx, model.RowRange{Lo: 0, Hi: h - 1}, h, fill)
		cancel()

		require.ErrorIs(t, err, context.Canceled, "%+v", cfg)
		assert.Less(t, stats.Leaves, int64(h))
		assert.Equal(t, int64(h), stats.Leaves+stats.Cancelled, "%+v", cfg)
	}
}

func TestNew_Defaults(t *testing.T) {
	e := newEngine(t, Config{})
	cfg := e.Config()

	assert.Equal(t, Pool, cfg.Strategy)
	assert.Equal(t, Degrade, cfg.OnExhausted)
	assert.Positive(t, cfg.Workers)
	assert.Equal(t, 4*cfg.Workers, cfg.QueueDepth)
}

func TestNew_RejectsUnknownValues(t *testing.T) {
	_, err := New(Config{Strategy: "threads"})
	require.ErrorIs(t, err, ErrUnknownStrategy)

	_, err = New(Config{OnExhausted: "panic"})
	require.ErrorIs(t, err, ErrUnknownPolicy)

	e, err := New(Config{Strategy: "FANOUT"})
	require.NoError(t, err)
	assert.Equal(t, Fanout, e.Config().Strategy)
}
