// Package partition distributes the rows of an image across concurrently
// executing tasks by recursive halving.
//
// # How It Works
//
// A task holding the inclusive row range [lo, hi] behaves as follows:
//
//  1. lo > hi: nothing to do.
//  2. lo == hi: the single row is a leaf and is handed to the RowFunc,
//     unless it falls outside [0, bound), in which case it is skipped.
//  3. lo < hi: the range is split at mid = floor((lo+hi)/2). The upper half
//     [mid+1, hi] is given to another task, the current task continues with
//     the lower half [lo, mid].
//
// Because halves never overlap, every row is filled by exactly one task and
// the tasks may write a shared framebuffer without locking. The split and the
// leaf claims are checked at dispatch time rather than assumed.
//
// # Strategies
//
//   - Fanout: every split starts a new goroutine. This is an unbounded
//     fan-out, O(rows) goroutines in total; a TaskBudget caps it.
//   - Pool: a fixed number of workers pull row ranges from a queue. A worker
//     that splits pushes the upper half back onto the queue.
//   - Sequential: the same recursion in the calling goroutine.
//
// Run always returns after the last dispatched range has finished, so the
// caller may read whatever the RowFunc wrote as soon as Run returns.
package partition
