package hcl

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// landmark is a named view of the set.
type landmark struct {
	realPart, imagPart, radius float64
}

// landmarks are the classic regions of the Mandelbrot set.
var landmarks = map[string]landmark{
	"full_set": {-0.5, 0.0, 1.0},
	// dense filaments and repeating "seahorse" curls
	"seahorse_valley": {-0.75, 0.10, 0.05},
	// large bulb with trunk-like tendrils
	"elephant_valley": {-1.80, -0.06, 0.05},
	// small copy of the set with tight spiral arms
	"spiral_minibrot": {-0.74275, 0.13175, 0.00075},
	"triple_spiral":   {-0.7465, 0.0965, 0.0015},
	"dragon_valley":   {-0.7375, 0.1825, 0.0025},
	// self-similar copy inside a spiral arm
	"minibrot_in_mini_spiral": {-1.73825, -0.02275, 0.00075},
}

// evalContext exposes the landmarks to expressions as
// landmark.<name>.center and landmark.<name>.radius.
func evalContext() *hcl.EvalContext {
	marks := make(map[string]cty.Value, len(landmarks))
	for name, l := range landmarks {
		marks[name] = cty.ObjectVal(map[string]cty.Value{
			"center": cty.TupleVal([]cty.Value{cty.NumberFloatVal(l.realPart), cty.NumberFloatVal(l.imagPart)}),
			"radius": cty.NumberFloatVal(l.radius),
		})
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"landmark": cty.ObjectVal(marks),
		},
	}
}
