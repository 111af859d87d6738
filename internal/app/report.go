package app

import (
	"log/slog"
	"math"
	"time"
)

// Report is the timing summary of a run.
type Report struct {
	// Total is the wall time from startup to delivery of the frame.
	Total time.Duration
	// Compute is the wall time of the render pass alone.
	Compute time.Duration
}

// ParallelFraction is the share of the total time spent computing.
func (r Report) ParallelFraction() float64 {
	if r.Total <= 0 {
		return 0
	}
	return float64(r.Compute) / float64(r.Total)
}

// PotentialSpeedup is the Amdahl bound on speedup if the computation took no
// time at all.
func (r Report) PotentialSpeedup() float64 {
	serial := r.Total - r.Compute
	if serial <= 0 {
		return math.Inf(1)
	}
	return float64(r.Total) / float64(serial)
}

// Log writes the report at info level.
func (r Report) Log(logger *slog.Logger) {
	logger.Info("⏱️ Timing report",
		"total_sec", r.Total.Seconds(),
		"compute_sec", r.Compute.Seconds(),
		"parallelizable_pct", 100*r.ParallelFraction(),
		"potential_speedup", r.PotentialSpeedup(),
	)
}
