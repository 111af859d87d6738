package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot decodes every top-level block a run file may contain.
type fileRoot struct {
	Render *renderBlock `hcl:"render,block"`
	Engine *engineBlock `hcl:"engine,block"`
	Output *outputBlock `hcl:"output,block"`
	Remain hcl.Body     `hcl:",remain"`
}

type renderBlock struct {
	Width         *int           `hcl:"width,optional"`
	Height        *int           `hcl:"height,optional"`
	Center        hcl.Expression `hcl:"center,optional"`
	Radius        *float64       `hcl:"radius,optional"`
	MaxIterations *int           `hcl:"max_iterations,optional"`
	Contrast      *int           `hcl:"contrast,optional"`
}

type engineBlock struct {
	Strategy    *string `hcl:"strategy,optional"`
	Workers     *int    `hcl:"workers,optional"`
	QueueDepth  *int    `hcl:"queue_depth,optional"`
	TaskBudget  *int    `hcl:"task_budget,optional"`
	OnExhausted *string `hcl:"on_exhausted,optional"`
	Strict      *bool   `hcl:"strict,optional"`
}

type outputBlock struct {
	PNG       *string `hcl:"png,optional"`
	ServePort *int    `hcl:"serve_port,optional"`
	Hold      *bool   `hcl:"hold,optional"`
}
