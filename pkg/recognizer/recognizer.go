package recognizer

import (
	"context"
	"image"

	"github.com/Pradhumn115/ruma-vision/pkg/vision"
)

// Text is a raw recognized text line, before characterization.
type Text struct {
	Text       string
	Confidence float64

	Box vision.Rect
}

// Rectangle is a raw rectangular UI-element candidate.
type Rectangle struct {
	Box        vision.Rect
	Confidence float64
}

// Label is one content-classification hit.
type Label struct {
	Identifier string
	Confidence float64
}

// Payload is a barcode payload or a document-segmentation hit. Barcode and
// document detection report a bounding box, object classification does not.
type Payload struct {
	Kind string

	Value      string
	Confidence float64

	Box *vision.Rect
}

const (
	PayloadKindBarcode  = "barcode"
	PayloadKindDocument = "document"
)

type TextRecognizer interface {
	RecognizeText(ctx context.Context, img image.Image) ([]Text, error)
}

type RectangleDetector interface {
	DetectRectangles(ctx context.Context, img image.Image) ([]Rectangle, error)
}

type Classifier interface {
	Classify(ctx context.Context, img image.Image) ([]Label, error)
}

type PayloadDetector interface {
	DetectPayloads(ctx context.Context, img image.Image) ([]Payload, error)
}
