// Package tesseract recognizes text lines locally through the Tesseract
// engine. It is the offline counterpart to the remote recognition backend.
package tesseract

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"strings"

	"github.com/Pradhumn115/ruma-vision/pkg/recognizer"
	"github.com/Pradhumn115/ruma-vision/pkg/vision"

	"github.com/otiai10/gosseract/v2"
)

var _ recognizer.TextRecognizer = (*Client)(nil)

type Client struct {
	languages []string
}

type Option func(*Client)

func WithLanguages(languages ...string) Option {
	return func(c *Client) {
		c.languages = languages
	}
}

func New(options ...Option) (*Client, error) {
	c := &Client{
		languages: []string{"eng"},
	}

	for _, option := range options {
		option(c)
	}

	return c, nil
}

func (c *Client) RecognizeText(ctx context.Context, img image.Image) ([]recognizer.Text, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var data bytes.Buffer

	if err := png.Encode(&data, img); err != nil {
		return nil, err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(c.languages...); err != nil {
		return nil, err
	}

	if err := client.SetImageFromBytes(data.Bytes()); err != nil {
		return nil, err
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)

	if err != nil {
		return nil, err
	}

	height := float64(img.Bounds().Dy())

	result := make([]recognizer.Text, 0, len(boxes))

	for _, box := range boxes {
		text := strings.TrimSpace(box.Word)

		if text == "" {
			continue
		}

		result = append(result, recognizer.Text{
			Text: text,

			// Tesseract reports 0-100.
			Confidence: box.Confidence / 100,

			Box: flip(box.Box, height),
		})
	}

	return result, nil
}

// flip converts a top-left origin rectangle into the bottom-left convention
// used throughout the analysis.
func flip(box image.Rectangle, height float64) vision.Rect {
	return vision.Rect{
		X: float64(box.Min.X),
		Y: height - float64(box.Max.Y),

		Width:  float64(box.Dx()),
		Height: float64(box.Dy()),
	}
}
