// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file models the fixed inputs of a render pass.
package model

import (
	"errors"
	"fmt"
)

// Defaults of the classic full-set view.
const (
	DefaultWidth         = 1000
	DefaultHeight        = 1000
	DefaultCenterReal    = -0.5
	DefaultCenterImag    = 0.0
	DefaultRadius        = 1.0
	DefaultMaxIterations = 512
	DefaultContrast      = 4
)

// ErrInvalidParams is wrapped by every error returned from Params.Validate.
var ErrInvalidParams = errors.New("invalid render parameters")

// Params bundles everything a render pass needs. It is configured once
// before the pass starts and never mutated afterwards.
type Params struct {
	Viewport   Viewport
	Resolution Resolution
	// MaxIterations is the iteration cap of the escape-time loop.
	MaxIterations int
	// Contrast multiplies the escape count to obtain the pixel intensity.
	Contrast int
}

// DefaultParams returns the parameters of the classic full-set view.
func DefaultParams() Params {
	return Params{
		Viewport: Viewport{
			CenterReal: DefaultCenterReal,
			CenterImag: DefaultCenterImag,
			Radius:     DefaultRadius,
		},
		Resolution:    Resolution{Width: DefaultWidth, Height: DefaultHeight},
		MaxIterations: DefaultMaxIterations,
		Contrast:      DefaultContrast,
	}
}

// Validate checks that the parameters describe a computable pass.
func (p Params) Validate() error {
	switch {
	case p.Resolution.Width <= 0:
		return fmt.Errorf("%w: width must be positive, got %d", ErrInvalidParams, p.Resolution.Width)
	case p.Resolution.Height <= 0:
		return fmt.Errorf("%w: height must be positive, got %d", ErrInvalidParams, p.Resolution.Height)
	case p.MaxIterations <= 0:
		return fmt.Errorf("%w: max iterations must be positive, got %d", ErrInvalidParams, p.MaxIterations)
	case !(p.Viewport.Radius > 0):
		return fmt.Errorf("%w: radius must be positive, got %g", ErrInvalidParams, p.Viewport.Radius)
	}
	return nil
}
