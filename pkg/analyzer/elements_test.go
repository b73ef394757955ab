package analyzer

import (
	"testing"

	"github.com/Pradhumn115/ruma-vision/pkg/recognizer"
	"github.com/Pradhumn115/ruma-vision/pkg/vision"
)

func TestClassifyElement(t *testing.T) {
	tests := []struct {
		name string
		box  vision.Rect
		want vision.ElementType
	}{
		{
			name: "thin line is a separator",
			box:  vision.Rect{Width: 500, Height: 2},
			want: vision.ElementTypeSeparator,
		},
		{
			name: "extreme aspect is a separator",
			box:  vision.Rect{Width: 800, Height: 10},
			want: vision.ElementTypeSeparator,
		},
		{
			name: "large area is a panel",
			box:  vision.Rect{Width: 600, Height: 400},
			want: vision.ElementTypePanel,
		},
		{
			name: "button",
			box:  vision.Rect{Width: 120, Height: 40},
			want: vision.ElementTypeButton,
		},
		{
			name: "text field",
			box:  vision.Rect{Width: 400, Height: 30},
			want: vision.ElementTypeTextField,
		},
		{
			name: "square stays unknown",
			box:  vision.Rect{Width: 100, Height: 100},
			want: vision.ElementTypeUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyElement(recognizer.Rectangle{Box: tt.box, Confidence: 0.5})

			if got.Type != tt.want {
				t.Errorf("ClassifyElement(%+v).Type = %q, want %q", tt.box, got.Type, tt.want)
			}

			if got.Properties["area"] != tt.box.Area() {
				t.Errorf("area property = %v, want %v", got.Properties["area"], tt.box.Area())
			}
		})
	}
}

func TestClassifyElementZeroHeight(t *testing.T) {
	got := ClassifyElement(recognizer.Rectangle{Box: vision.Rect{Width: 100, Height: 0}})

	if got.Type != vision.ElementTypeSeparator {
		t.Errorf("zero-height rectangle = %q, want separator", got.Type)
	}

	if got.Properties["aspectRatio"] != 0 {
		t.Errorf("aspect for zero height = %v, want 0", got.Properties["aspectRatio"])
	}
}
