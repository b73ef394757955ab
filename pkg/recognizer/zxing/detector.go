// Package zxing detects barcode payloads via the zxing decoder port and adds
// a coarse document-segmentation pass based on a dominant bright region.
package zxing

import (
	"context"
	"image"

	"github.com/Pradhumn115/ruma-vision/pkg/recognizer"
	"github.com/Pradhumn115/ruma-vision/pkg/vision"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/qrcode"
)

var _ recognizer.PayloadDetector = (*Detector)(nil)

type Detector struct {
	readers []gozxing.Reader

	segmentDocuments bool
}

type Option func(*Detector)

// WithoutDocumentSegmentation disables the bright-region document pass.
func WithoutDocumentSegmentation() Option {
	return func(d *Detector) {
		d.segmentDocuments = false
	}
}

func New(options ...Option) (*Detector, error) {
	d := &Detector{
		readers: []gozxing.Reader{
			qrcode.NewQRCodeReader(),
			oned.NewMultiFormatOneDReader(nil),
		},

		segmentDocuments: true,
	}

	for _, option := range options {
		option(d)
	}

	return d, nil
}

func (d *Detector) DetectPayloads(ctx context.Context, img image.Image) ([]recognizer.Payload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var result []recognizer.Payload

	bmp, err := gozxing.NewBinaryBitmapFromImage(img)

	if err != nil {
		return nil, err
	}

	height := float64(img.Bounds().Dy())

	for _, reader := range d.readers {
		decoded, err := reader.Decode(bmp, nil)

		if err != nil {
			// No code of this symbology in the image.
			continue
		}

		box := pointsBox(decoded.GetResultPoints(), height)

		result = append(result, recognizer.Payload{
			Kind: recognizer.PayloadKindBarcode,

			Value:      decoded.GetText(),
			Confidence: 0.95,

			Box: box,
		})
	}

	if d.segmentDocuments {
		if box, ok := segmentDocument(img); ok {
			result = append(result, recognizer.Payload{
				Kind: recognizer.PayloadKindDocument,

				Value:      "document",
				Confidence: 0.6,

				Box: &box,
			})
		}
	}

	return result, nil
}

func pointsBox(points []gozxing.ResultPoint, height float64) *vision.Rect {
	if len(points) == 0 {
		return nil
	}

	minX, minY := points[0].GetX(), points[0].GetY()
	maxX, maxY := minX, minY

	for _, point := range points[1:] {
		minX = min(minX, point.GetX())
		minY = min(minY, point.GetY())
		maxX = max(maxX, point.GetX())
		maxY = max(maxY, point.GetY())
	}

	return &vision.Rect{
		X: minX,
		Y: height - maxY,

		Width:  maxX - minX,
		Height: maxY - minY,
	}
}

// segmentDocument looks for one dominant bright region, the usual signature
// of a page or sheet photographed against a darker background.
func segmentDocument(img image.Image) (vision.Rect, bool) {
	bounds := img.Bounds()

	width := bounds.Dx()
	height := bounds.Dy()

	if width == 0 || height == 0 {
		return vision.Rect{}, false
	}

	step := max(width/128, 1)

	minX, minY := width, height
	maxX, maxY := -1, -1

	var bright, sampled int

	for y := bounds.Min.Y; y < bounds.Max.Y; y += step {
		for x := bounds.Min.X; x < bounds.Max.X; x += step {
			sampled++

			r, g, b, _ := img.At(x, y).RGBA()

			luminance := (299*r + 587*g + 114*b) / 1000

			if luminance < 0xC000 {
				continue
			}

			bright++

			minX = min(minX, x-bounds.Min.X)
			minY = min(minY, y-bounds.Min.Y)
			maxX = max(maxX, x-bounds.Min.X)
			maxY = max(maxY, y-bounds.Min.Y)
		}
	}

	if maxX < 0 || sampled == 0 {
		return vision.Rect{}, false
	}

	ratio := float64(bright) / float64(sampled)

	// All-bright frames are plain windows, not documents.
	if ratio < 0.2 || ratio > 0.95 {
		return vision.Rect{}, false
	}

	return vision.Rect{
		X: float64(minX),
		Y: float64(height - maxY - 1),

		Width:  float64(maxX - minX + 1),
		Height: float64(maxY - minY + 1),
	}, true
}
