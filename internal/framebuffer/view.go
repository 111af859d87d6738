package framebuffer

import (
	"image"
	"image/color"

	"github.com/vk/fractalgrid/internal/model"
)

// View is a read-only window onto a completed framebuffer. It implements
// image.Image so it can be encoded or drawn directly.
type View struct {
	img *image.Gray
}

var _ image.Image = (*View)(nil)

// ColorModel implements image.Image.
func (v *View) ColorModel() color.Model {
	return color.GrayModel
}

// Bounds implements image.Image.
func (v *View) Bounds() image.Rectangle {
	return v.img.Rect
}

// At implements image.Image.
func (v *View) At(x, y int) color.Color {
	return v.img.GrayAt(x, y)
}

// Resolution returns the dimensions of the underlying buffer.
func (v *View) Resolution() model.Resolution {
	return model.Resolution{Width: v.img.Rect.Dx(), Height: v.img.Rect.Dy()}
}

// Intensity returns the raw value stored at (x, y).
func (v *View) Intensity(x, y int) uint8 {
	return v.img.Pix[y*v.img.Stride+x]
}

// Row returns a copy of row y.
func (v *View) Row(y int) []uint8 {
	w := v.img.Rect.Dx()
	out := make([]uint8, w)
	copy(out, v.img.Pix[y*v.img.Stride:y*v.img.Stride+w])
	return out
}

// Rows returns a copy of the whole buffer as a row-major grid.
func (v *View) Rows() [][]uint8 {
	out := make([][]uint8, v.img.Rect.Dy())
	for y := range out {
		out[y] = v.Row(y)
	}
	return out
}

// RGB returns the buffer as packed RGB triples, Height x Width x 3 bytes,
// each channel a copy of the intensity.
func (v *View) RGB() []byte {
	w, h := v.img.Rect.Dx(), v.img.Rect.Dy()
	out := make([]byte, 0, w*h*3)
	for y := 0; y < h; y++ {
		for _, g := range v.img.Pix[y*v.img.Stride : y*v.img.Stride+w] {
			out = append(out, g, g, g)
		}
	}
	return out
}

// RGBA converts the view into an *image.RGBA, replicating the intensity into
// every color channel with full opacity.
func (v *View) RGBA() *image.RGBA {
	dst := image.NewRGBA(v.img.Rect)
	w, h := v.img.Rect.Dx(), v.img.Rect.Dy()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g := v.Intensity(x, y)
			dst.SetRGBA(x, y, color.RGBA{R: g, G: g, B: g, A: 255})
		}
	}
	return dst
}
