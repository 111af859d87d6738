package app

import (
	"context"
	"fmt"
	"time"

	"github.com/vk/fractalgrid/internal/ctxlog"
	"github.com/vk/fractalgrid/internal/display"
	"github.com/vk/fractalgrid/internal/render"
)

// Run computes the framebuffer and hands it to every configured sink.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	var sinks []display.Sink
	if a.model.Output.PNGPath != "" {
		sinks = append(sinks, display.PNGFile{Path: a.model.Output.PNGPath})
	}

	var server *display.Server
	if a.model.Output.ServePort > 0 {
		server = display.NewServer(ctx)
		if _, err := server.Listen(fmt.Sprintf(":%d", a.model.Output.ServePort)); err != nil {
			return fmt.Errorf("failed to start display server: %w", err)
		}
		defer a.closeServer(server)
		sinks = append(sinks, server)
	}

	params := a.model.Params
	a.logger.Info("🚀 Starting partitioned computation...",
		"width", params.Resolution.Width,
		"height", params.Resolution.Height,
		"max_iterations", params.MaxIterations,
		"strategy", a.engine.Config().Strategy,
	)

	pass, err := render.Start(ctx, params, a.engine)
	if err != nil {
		return fmt.Errorf("failed to start computation: %w", err)
	}
	result, err := pass.Wait(ctx)
	if err != nil {
		return fmt.Errorf("computation failed: %w", err)
	}
	a.logger.Info("🏁 Computation finished.",
		"leaves", result.Stats.Leaves,
		"spawned", result.Stats.Spawned,
		"peak_tasks", result.Stats.PeakTasks,
		"skipped", result.Stats.Skipped,
		"degraded", result.Stats.Degraded,
	)

	for _, sink := range sinks {
		if err := sink.Show(ctx, result.View); err != nil {
			return fmt.Errorf("display failed: %w", err)
		}
	}
	if len(sinks) == 0 {
		a.logger.Warn("No output configured, frame discarded.")
	}

	Report{Total: time.Since(a.started), Compute: result.Timing.Compute}.Log(a.logger)

	if server != nil && a.model.Output.Hold {
		a.logger.Info("Holding display server, interrupt to exit.")
		<-ctx.Done()
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

func (a *App) closeServer(s *display.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		a.logger.Error("Display server shutdown failed", "error", err)
	}
}
