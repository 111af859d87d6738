// Package framebuffer provides the grayscale image buffer shared by the
// partition tasks of a render pass, and the read-only view handed to a
// display sink once the pass is complete.
//
// A Framebuffer is not locked. Concurrent writers are safe only while they
// touch disjoint rows, which the partition engine guarantees.
package framebuffer

import (
	"image"
	"sync/atomic"

	"github.com/vk/fractalgrid/internal/model"
)

// Framebuffer is a Height x Width grid of 8-bit intensities.
type Framebuffer struct {
	res  model.Resolution
	img  *image.Gray
	rows []atomic.Bool
}

// New allocates a zeroed framebuffer of the given resolution.
func New(res model.Resolution) *Framebuffer {
	return &Framebuffer{
		res:  res,
		img:  image.NewGray(image.Rect(0, 0, res.Width, res.Height)),
		rows: make([]atomic.Bool, res.Height),
	}
}

// Resolution returns the dimensions of the buffer.
func (f *Framebuffer) Resolution() model.Resolution {
	return f.res
}

// Set stores intensity v at (x, y).
func (f *Framebuffer) Set(x, y int, v uint8) {
	f.img.Pix[y*f.img.Stride+x] = v
}

// MarkRow records that every cell of row y has been written.
func (f *Framebuffer) MarkRow(y int) {
	f.rows[y].Store(true)
}

// RowDone reports whether row y has been marked.
func (f *Framebuffer) RowDone(y int) bool {
	return f.rows[y].Load()
}

// Unwritten returns the rows that have not been marked, in ascending order.
func (f *Framebuffer) Unwritten() []int {
	var missing []int
	for y := range f.rows {
		if !f.rows[y].Load() {
			missing = append(missing, y)
		}
	}
	return missing
}

// View returns a read-only view of the buffer. Callers must not request a
// view before the pass that fills the buffer has signalled completion.
func (f *Framebuffer) View() *View {
	return &View{img: f.img}
}
