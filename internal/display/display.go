// Package display holds the consumers of a finished framebuffer. A sink
// receives the read-only view only once the render pass has signalled
// completion and never writes back to the engine.
package display

import (
	"context"
	"fmt"
	"image/png"
	"os"

	"github.com/vk/fractalgrid/internal/ctxlog"
	"github.com/vk/fractalgrid/internal/framebuffer"
)

// Sink consumes a completed framebuffer.
type Sink interface {
	Show(ctx context.Context, frame *framebuffer.View) error
}

// PNGFile writes the frame to a PNG file at Path.
type PNGFile struct {
	Path string
}

// Show implements Sink.
func (s PNGFile) Show(ctx context.Context, frame *framebuffer.View) (err error) {
	f, err := os.Create(s.Path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()

	if err := png.Encode(f, frame); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	ctxlog.FromContext(ctx).Info("Frame saved.", "path", s.Path)
	return nil
}
