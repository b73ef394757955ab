package analyzer

import (
	"github.com/Pradhumn115/ruma-vision/pkg/recognizer"
	"github.com/Pradhumn115/ruma-vision/pkg/vision"
)

type elementRule struct {
	label vision.ElementType
	match func(box vision.Rect, aspect float64) bool
}

// elementRules classify rectangle candidates by geometry alone. Evaluated in
// order, first match wins.
var elementRules = []elementRule{
	{
		label: vision.ElementTypeSeparator,
		match: func(box vision.Rect, aspect float64) bool {
			return box.Height <= 4 || aspect > 25
		},
	},
	{
		label: vision.ElementTypePanel,
		match: func(box vision.Rect, aspect float64) bool {
			return box.Area() > 100_000
		},
	},
	{
		label: vision.ElementTypeButton,
		match: func(box vision.Rect, aspect float64) bool {
			return aspect >= 1.5 && aspect <= 8 && box.Height >= 16 && box.Height <= 80
		},
	},
	{
		label: vision.ElementTypeTextField,
		match: func(box vision.Rect, aspect float64) bool {
			return aspect > 4 && box.Height <= 50
		},
	},
}

// ClassifyElement turns a raw rectangle candidate into a typed UI element.
// The properties map always carries aspectRatio and area.
func ClassifyElement(rect recognizer.Rectangle) vision.UIElementObservation {
	aspect := 0.0

	if rect.Box.Height > 0 {
		aspect = rect.Box.Width / rect.Box.Height
	}

	label := vision.ElementTypeUnknown

	for _, rule := range elementRules {
		if rule.match(rect.Box, aspect) {
			label = rule.label
			break
		}
	}

	return vision.UIElementObservation{
		Type: label,

		Box:        rect.Box,
		Confidence: rect.Confidence,

		Properties: map[string]float64{
			"aspectRatio": aspect,
			"area":        rect.Box.Area(),
		},
	}
}
