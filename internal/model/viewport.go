// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file models the mapping from image pixels to points of the complex
// plane.
package model

// Viewport is the square region of the complex plane mapped onto the image.
// It is fixed for the duration of a render pass.
type Viewport struct {
	CenterReal float64
	CenterImag float64
	// Radius is half the side of the mapped square.
	Radius float64
}

// Resolution holds the pixel dimensions of the output image.
type Resolution struct {
	Width  int
	Height int
}

// Pixels returns the number of cells in an image of this resolution.
func (r Resolution) Pixels() int {
	return r.Width * r.Height
}

// Rows returns the inclusive row range covering every row of the image.
func (r Resolution) Rows() RowRange {
	return RowRange{Lo: 0, Hi: r.Height - 1}
}

// Point maps the pixel (x, y) of an image with resolution res to a point C of
// the complex plane. The square of side 2*Radius is stretched over the whole
// image; aspect is not corrected when width and height differ.
func (v Viewport) Point(x, y int, res Resolution) (re, im float64) {
	re = v.CenterReal - v.Radius + (2*v.Radius*float64(x))/float64(res.Width)
	im = v.CenterImag - v.Radius + (2*v.Radius*float64(y))/float64(res.Height)
	return re, im
}
