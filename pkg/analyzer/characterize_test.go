package analyzer

import (
	"testing"

	"github.com/Pradhumn115/ruma-vision/pkg/recognizer"
	"github.com/Pradhumn115/ruma-vision/pkg/vision"
)

func TestClassifyText(t *testing.T) {
	tests := []struct {
		name string
		text recognizer.Text
		want vision.TextType
	}{
		{
			name: "url",
			text: recognizer.Text{Text: "https://example.com/docs", Confidence: 0.8, Box: vision.Rect{Width: 200, Height: 16}},
			want: vision.TextTypeURL,
		},
		{
			name: "url beats code",
			text: recognizer.Text{Text: "import site from example.com", Confidence: 0.8, Box: vision.Rect{Width: 200, Height: 16}},
			want: vision.TextTypeURL,
		},
		{
			name: "code",
			text: recognizer.Text{Text: "func main() {", Confidence: 0.8, Box: vision.Rect{Width: 120, Height: 16}},
			want: vision.TextTypeCode,
		},
		{
			name: "button",
			text: recognizer.Text{Text: "Submit", Confidence: 0.8, Box: vision.Rect{Width: 60, Height: 16}},
			want: vision.TextTypeButton,
		},
		{
			name: "button with punctuation",
			text: recognizer.Text{Text: "Save...", Confidence: 0.8, Box: vision.Rect{Width: 60, Height: 16}},
			want: vision.TextTypeButton,
		},
		{
			name: "long action phrase is not a button",
			text: recognizer.Text{Text: "Click here to save your work", Confidence: 0.8, Box: vision.Rect{Width: 200, Height: 16}},
			want: vision.TextTypeBody,
		},
		{
			name: "action word inside another word",
			text: recognizer.Text{Text: "broken token", Confidence: 0.8, Box: vision.Rect{Width: 100, Height: 16}},
			want: vision.TextTypeBody,
		},
		{
			name: "menu item",
			text: recognizer.Text{Text: "File", Confidence: 0.8, Box: vision.Rect{Width: 40, Height: 16}},
			want: vision.TextTypeMenuItem,
		},
		{
			name: "tall text is a heading",
			text: recognizer.Text{Text: "Welcome back", Confidence: 0.8, Box: vision.Rect{Width: 200, Height: 28}},
			want: vision.TextTypeHeading,
		},
		{
			name: "uppercase is a heading",
			text: recognizer.Text{Text: "OVERVIEW", Confidence: 0.8, Box: vision.Rect{Width: 100, Height: 16}},
			want: vision.TextTypeHeading,
		},
		{
			name: "high confidence counts as bold heading",
			text: recognizer.Text{Text: "Results", Confidence: 0.95, Box: vision.Rect{Width: 80, Height: 16}},
			want: vision.TextTypeHeading,
		},
		{
			name: "uppercase colon suffix is a heading not a label",
			text: recognizer.Text{Text: "STATUS:", Confidence: 0.8, Box: vision.Rect{Width: 80, Height: 16}},
			want: vision.TextTypeHeading,
		},
		{
			name: "label",
			text: recognizer.Text{Text: "Status:", Confidence: 0.8, Box: vision.Rect{Width: 60, Height: 16}},
			want: vision.TextTypeLabel,
		},
		{
			name: "caption",
			text: recognizer.Text{Text: "Figure 1. Quarterly totals", Confidence: 0.8, Box: vision.Rect{Width: 180, Height: 10}},
			want: vision.TextTypeCaption,
		},
		{
			name: "body",
			text: recognizer.Text{Text: "The quarterly totals improved across all regions", Confidence: 0.8, Box: vision.Rect{Width: 400, Height: 16}},
			want: vision.TextTypeBody,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Characterize(tt.text)

			if got.Type != tt.want {
				t.Errorf("Characterize(%q).Type = %q, want %q", tt.text.Text, got.Type, tt.want)
			}
		})
	}
}

func TestCharacteristics(t *testing.T) {
	obs := Characterize(recognizer.Text{Text: "TOTAL", Confidence: 0.95, Box: vision.Rect{Width: 60, Height: 16}})

	if !obs.Characteristics.IsBold {
		t.Error("confidence above 0.9 should mark bold")
	}

	if !obs.Characteristics.IsUppercase {
		t.Error("expected uppercase")
	}

	if obs.Characteristics.IsItalic {
		t.Error("italic has no signal and must stay false")
	}
}

func TestIsNumeric(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"12345", true},
		{"3.14", true},
		{"1,024", true},
		{"", false},
		{"12a", false},
		{"v1.2", false},
	}

	for _, tt := range tests {
		if got := isNumeric(tt.text); got != tt.want {
			t.Errorf("isNumeric(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestIsUppercase(t *testing.T) {
	if isUppercase("A") {
		t.Error("single characters never count as uppercase")
	}

	if !isUppercase("AB 12") {
		t.Error("uppercase with digits should count")
	}

	if isUppercase("Abc") {
		t.Error("mixed case should not count")
	}
}
