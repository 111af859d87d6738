package partition

import (
	"context"

	"github.com/vk/fractalgrid/internal/model"
)

// runSequential walks the split tree depth first in the calling goroutine,
// lower half before upper half.
func runSequential(ctx context.Context, st *runState, r model.RowRange) {
	if r.Empty() {
		return
	}
	if ctx.Err() != nil {
		st.skip(r)
		return
	}
	if r.Leaf() {
		st.leaf(0, r.Lo)
		return
	}
	lower, upper, ok := st.split(r)
	if !ok {
		return
	}
	runSequential(ctx, st, lower)
	runSequential(ctx, st, upper)
}
