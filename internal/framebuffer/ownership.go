package framebuffer

import (
	"image"
	"sync/atomic"

	"github.com/vk/fractalgrid/internal/model"
)

// Ownership records, per cell, which writer stored a value and how many
// writes the cell received. It is safe for concurrent use and meant for
// instrumenting a pass in tests or debug runs.
type Ownership struct {
	res     model.Resolution
	writers []atomic.Int64 // writer id + 1 of the first write; 0 means none
	counts  []atomic.Int32
}

// NewOwnership returns an empty ledger for a buffer of the given resolution.
func NewOwnership(res model.Resolution) *Ownership {
	return &Ownership{
		res:     res,
		writers: make([]atomic.Int64, res.Pixels()),
		counts:  make([]atomic.Int32, res.Pixels()),
	}
}

// Record notes that writer stored a value at (x, y).
func (o *Ownership) Record(writer int64, x, y int) {
	i := y*o.res.Width + x
	o.writers[i].CompareAndSwap(0, writer+1)
	o.counts[i].Add(1)
}

// Writes returns how many times (x, y) was written.
func (o *Ownership) Writes(x, y int) int {
	return int(o.counts[y*o.res.Width+x].Load())
}

// Writer returns the first writer of (x, y).
func (o *Ownership) Writer(x, y int) (int64, bool) {
	w := o.writers[y*o.res.Width+x].Load()
	return w - 1, w != 0
}

// Collisions returns every cell written more than once.
func (o *Ownership) Collisions() []image.Point {
	return o.cells(func(n int32) bool { return n > 1 })
}

// Unwritten returns every cell that was never written.
func (o *Ownership) Unwritten() []image.Point {
	return o.cells(func(n int32) bool { return n == 0 })
}

// Writers returns the number of distinct writers seen.
func (o *Ownership) Writers() int {
	seen := make(map[int64]struct{})
	for i := range o.writers {
		if w := o.writers[i].Load(); w != 0 {
			seen[w] = struct{}{}
		}
	}
	return len(seen)
}

func (o *Ownership) cells(match func(int32) bool) []image.Point {
	var pts []image.Point
	for i := range o.counts {
		if match(o.counts[i].Load()) {
			pts = append(pts, image.Pt(i%o.res.Width, i/o.res.Width))
		}
	}
	return pts
}
