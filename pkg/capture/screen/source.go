// Package screen captures the local display.
package screen

import (
	"context"
	"errors"
	"image"

	"github.com/Pradhumn115/ruma-vision/pkg/capture"
	"github.com/Pradhumn115/ruma-vision/pkg/vision"

	"github.com/kbinani/screenshot"
)

var _ capture.Source = (*Source)(nil)

type Source struct {
	display int

	bounds *image.Rectangle
}

type Option func(*Source)

func WithDisplay(display int) Option {
	return func(s *Source) {
		s.display = display
	}
}

// WithBounds restricts the capture to a sub-rectangle of the screen.
func WithBounds(bounds image.Rectangle) Option {
	return func(s *Source) {
		s.bounds = &bounds
	}
}

func New(options ...Option) (*Source, error) {
	s := &Source{}

	for _, option := range options {
		option(s)
	}

	if s.bounds == nil && screenshot.NumActiveDisplays() <= s.display {
		return nil, errors.New("no active display")
	}

	return s, nil
}

func (s *Source) Capture(ctx context.Context) (*capture.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bounds := screenshot.GetDisplayBounds(s.display)

	if s.bounds != nil {
		bounds = *s.bounds
	}

	img, err := screenshot.CaptureRect(bounds)

	if err != nil {
		return nil, err
	}

	return &capture.Frame{
		Image: img,

		Title:       "screen",
		Application: "display",

		Bounds: vision.Rect{
			X: float64(bounds.Min.X),
			Y: float64(bounds.Min.Y),

			Width:  float64(bounds.Dx()),
			Height: float64(bounds.Dy()),
		},
	}, nil
}
