package hcl

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/vk/fractalgrid/internal/config"
	"github.com/vk/fractalgrid/internal/partition"
)

// applyRender overlays the render block onto the model's parameters.
func applyRender(m *config.Model, b *renderBlock, evalCtx *hcl.EvalContext) hcl.Diagnostics {
	if b == nil {
		return nil
	}
	p := &m.Params
	setInt(&p.Resolution.Width, b.Width)
	setInt(&p.Resolution.Height, b.Height)
	setInt(&p.MaxIterations, b.MaxIterations)
	setInt(&p.Contrast, b.Contrast)
	if b.Radius != nil {
		p.Viewport.Radius = *b.Radius
	}

	if b.Center == nil {
		return nil
	}
	center, diags := decodeCenter(b.Center, evalCtx)
	if diags.HasErrors() || center == nil {
		return diags
	}
	p.Viewport.CenterReal, p.Viewport.CenterImag = center[0], center[1]
	return diags
}

// decodeCenter evaluates a [real, imaginary] pair. It returns nil when the
// attribute was not set.
func decodeCenter(expr hcl.Expression, evalCtx *hcl.EvalContext) ([]float64, hcl.Diagnostics) {
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() || val.IsNull() {
		return nil, diags
	}

	invalid := func(detail string) hcl.Diagnostics {
		return append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid center",
			Detail:   detail,
			Subject:  expr.Range().Ptr(),
		})
	}

	list, err := convert.Convert(val, cty.List(cty.Number))
	if err != nil {
		return nil, invalid("center must be a list of two numbers: " + err.Error())
	}
	if !list.IsWhollyKnown() || list.LengthInt() != 2 {
		return nil, invalid("center must hold exactly two numbers, [real, imaginary].")
	}

	var pair []float64
	if err := gocty.FromCtyValue(list, &pair); err != nil {
		return nil, invalid(err.Error())
	}
	return pair, diags
}

// applyEngine overlays the engine block onto the partition settings.
func applyEngine(m *config.Model, b *engineBlock) {
	if b == nil {
		return
	}
	e := &m.Engine
	if b.Strategy != nil {
		e.Strategy = partition.Strategy(*b.Strategy)
	}
	if b.OnExhausted != nil {
		e.OnExhausted = partition.ExhaustPolicy(*b.OnExhausted)
	}
	setInt(&e.Workers, b.Workers)
	setInt(&e.QueueDepth, b.QueueDepth)
	setInt(&e.TaskBudget, b.TaskBudget)
	if b.Strict != nil {
		e.Strict = *b.Strict
	}
}

// applyOutput overlays the output block onto the sink settings.
func applyOutput(m *config.Model, b *outputBlock) {
	if b == nil {
		return
	}
	if b.PNG != nil {
		m.Output.PNGPath = *b.PNG
	}
	setInt(&m.Output.ServePort, b.ServePort)
	if b.Hold != nil {
		m.Output.Hold = *b.Hold
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}
