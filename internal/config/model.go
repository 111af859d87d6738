package config

import (
	"github.com/vk/fractalgrid/internal/model"
	"github.com/vk/fractalgrid/internal/partition"
)

// Model is the unified representation of everything a run is configured
// with. It is fixed before the first pass starts.
type Model struct {
	Params model.Params
	Engine partition.Config
	Output Output
}

// Output describes where the finished framebuffer goes.
type Output struct {
	// PNGPath is the file the image is written to. Empty disables it.
	PNGPath string
	// ServePort is the port of the display server. Zero disables it.
	ServePort int
	// Hold keeps the display server running after the pass completes, until
	// the run context is cancelled.
	Hold bool
}

// Default returns the configuration of the classic full-set render.
func Default() *Model {
	return &Model{
		Params: model.DefaultParams(),
		Engine: partition.Config{
			Strategy:    partition.Pool,
			OnExhausted: partition.Degrade,
		},
	}
}
