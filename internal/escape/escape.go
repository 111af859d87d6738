// Package escape implements the escape-time evaluation of a single point of
// the complex plane under Z = Z*Z + C.
//
// Functions in this package are pure and safe to call from any number of
// goroutines without coordination.
package escape

// Threshold is the squared magnitude of Z at which a point counts as
// divergent. It sits far above 4, so escape is detected long before the
// arithmetic overflows.
const Threshold = 100000

// Interior is the count reported for points that never diverged within the
// iteration cap.
const Interior = 0

// Result describes the outcome of one escape-time evaluation.
type Result struct {
	// Steps is the number of iterations performed.
	Steps int
	// Escaped is true if |Z|^2 reached Threshold after Steps iterations.
	Escaped bool
}

// Iterate runs Z = Z*Z + C from Z = 0 until |Z|^2 reaches Threshold or
// maxIterations steps have been performed.
func Iterate(cre, cim float64, maxIterations int) Result {
	var zre, zim float64
	for n := 1; n <= maxIterations; n++ {
		zre, zim = zre*zre-zim*zim+cre, 2*zre*zim+cim
		if zre*zre+zim*zim >= Threshold {
			return Result{Steps: n, Escaped: true}
		}
	}
	return Result{Steps: maxIterations}
}

// Count returns the iteration at which C diverged, or Interior when the cap
// was reached. Divergence on the last permitted step also reports Interior,
// so callers that must tell the two apart use Iterate.
func Count(cre, cim float64, maxIterations int) int {
	r := Iterate(cre, cim, maxIterations)
	if !r.Escaped || r.Steps >= maxIterations {
		return Interior
	}
	return r.Steps
}
