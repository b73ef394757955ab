package capture

import (
	"context"
	"image"

	"github.com/Pradhumn115/ruma-vision/pkg/vision"
)

// Frame is one captured screen or window image plus its metadata. The pixel
// buffer is owned by the analysis call that consumes it and discarded after.
type Frame struct {
	Image image.Image

	Title       string
	Application string

	Bounds vision.Rect
}

// Source supplies raster frames. The analysis engine consumes frames and
// never captures on its own.
type Source interface {
	Capture(ctx context.Context) (*Frame, error)
}
