package render

import (
	"github.com/vk/fractalgrid/internal/escape"
	"github.com/vk/fractalgrid/internal/framebuffer"
	"github.com/vk/fractalgrid/internal/model"
)

// Sequential computes the whole image row by row in the calling goroutine,
// without the partition engine.
func Sequential(params model.Params) (*framebuffer.View, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	res := params.Resolution
	fb := framebuffer.New(res)
	for y := 0; y < res.Height; y++ {
		for x := 0; x < res.Width; x++ {
			re, im := params.Viewport.Point(x, y, res)
			fb.Set(x, y, Intensity(escape.Count(re, im, params.MaxIterations), params.Contrast))
		}
		fb.MarkRow(y)
	}
	return fb.View(), nil
}
