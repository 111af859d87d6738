// Package render runs one computation pass of the fractal: it owns the
// framebuffer, drives the partition engine with the per-row fill and tells
// the consumer when the buffer is complete.
package render

import (
	"context"
	"fmt"
	"time"

	"github.com/vk/fractalgrid/internal/ctxlog"
	"github.com/vk/fractalgrid/internal/escape"
	"github.com/vk/fractalgrid/internal/framebuffer"
	"github.com/vk/fractalgrid/internal/model"
	"github.com/vk/fractalgrid/internal/partition"
)

// Runner is the part of the partition engine a pass depends on.
type Runner interface {
	Run(ctx context.Context, rows model.RowRange, bound int, fill partition.RowFunc) (partition.Stats, error)
}

// Timing holds the durations measured during a pass.
type Timing struct {
	Compute time.Duration
}

// Result is what a completed pass hands to the display sink.
type Result struct {
	// View is the read-only framebuffer. It is nil if the pass failed.
	View  *framebuffer.View
	Stats partition.Stats
	// Incomplete lists the rows that were never filled.
	Incomplete []int
	Timing     Timing
}

// Option configures a pass.
type Option func(*Pass)

// WithTracker records the writer of every framebuffer cell in o.
func WithTracker(o *framebuffer.Ownership) Option {
	return func(p *Pass) { p.tracker = o }
}

// WithRows replaces the initial row range [0, Height-1].
func WithRows(r model.RowRange) Option {
	return func(p *Pass) { p.rows = r }
}

// Pass is a single computation of the framebuffer.
type Pass struct {
	params  model.Params
	fb      *framebuffer.Framebuffer
	tracker *framebuffer.Ownership
	rows    model.RowRange

	done   chan struct{}
	result Result
	err    error
}

// Start validates params and begins computing in the background. The
// returned pass signals completion through Done.
func Start(ctx context.Context, params model.Params, runner Runner, opts ...Option) (*Pass, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	p := &Pass{
		params: params,
		fb:     framebuffer.New(params.Resolution),
		rows:   params.Resolution.Rows(),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}

	logger := ctxlog.FromContext(ctx)
	logger.Debug("Render pass started.", "width", params.Resolution.Width, "height", params.Resolution.Height, "max_iterations", params.MaxIterations)

	go func() {
		defer close(p.done)

		start := time.Now()
		stats, err := runner.Run(ctx, p.rows, params.Resolution.Height, p.fillRow)
		p.result = Result{
			Stats:      stats,
			Incomplete: p.fb.Unwritten(),
			Timing:     Timing{Compute: time.Since(start)},
		}
		if err == nil && len(p.result.Incomplete) > 0 {
			err = fmt.Errorf("render pass left %d rows unwritten", len(p.result.Incomplete))
		}
		if err != nil {
			p.err = fmt.Errorf("render pass failed: %w", err)
			return
		}
		p.result.View = p.fb.View()
		logger.Debug("Render pass complete.", "compute", p.result.Timing.Compute, "leaves", stats.Leaves)
	}()

	return p, nil
}

// Done is closed once every partition task has finished.
func (p *Pass) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the pass is complete or ctx is done.
func (p *Pass) Wait(ctx context.Context) (Result, error) {
	select {
	case <-p.done:
		return p.result, p.err
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Render runs a pass and waits for it.
func Render(ctx context.Context, params model.Params, runner Runner, opts ...Option) (Result, error) {
	p, err := Start(ctx, params, runner, opts...)
	if err != nil {
		return Result{}, err
	}
	return p.Wait(ctx)
}

// fillRow computes every pixel of row y.
func (p *Pass) fillRow(task int64, y int) {
	res := p.params.Resolution
	for x := 0; x < res.Width; x++ {
		re, im := p.params.Viewport.Point(x, y, res)
		p.fb.Set(x, y, Intensity(escape.Count(re, im, p.params.MaxIterations), p.params.Contrast))
		if p.tracker != nil {
			p.tracker.Record(task, x, y)
		}
	}
	p.fb.MarkRow(y)
}

// Intensity scales an escape count by contrast and truncates it to 8 bits.
func Intensity(count, contrast int) uint8 {
	return uint8(contrast * count)
}
