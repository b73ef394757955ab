package vision

import (
	"time"
)

// Rect is an axis-aligned rectangle in image-pixel space.
//
// The origin is the bottom-left corner of the image, so a larger Y means
// closer to the top of the screen.
type Rect struct {
	X float64
	Y float64

	Width  float64
	Height float64
}

func (r Rect) Area() float64 {
	return r.Width * r.Height
}

func (r Rect) MaxX() float64 {
	return r.X + r.Width
}

func (r Rect) MaxY() float64 {
	return r.Y + r.Height
}

func (r Rect) MidX() float64 {
	return r.X + r.Width/2
}

func (r Rect) MidY() float64 {
	return r.Y + r.Height/2
}

func (r Rect) Intersects(o Rect) bool {
	return r.X < o.MaxX() && o.X < r.MaxX() && r.Y < o.MaxY() && o.Y < r.MaxY()
}

type Size struct {
	Width  float64
	Height float64
}

type TextType string

const (
	TextTypeURL      TextType = "url"
	TextTypeCode     TextType = "code"
	TextTypeButton   TextType = "button"
	TextTypeMenuItem TextType = "menuItem"
	TextTypeHeading  TextType = "heading"
	TextTypeLabel    TextType = "label"
	TextTypeCaption  TextType = "caption"
	TextTypeBody     TextType = "bodyText"
)

type TextCharacteristics struct {
	IsBold      bool
	IsItalic    bool
	IsUppercase bool
	IsNumeric   bool
	IsLink      bool
}

// TextObservation is one recognized line of text plus its derived
// classification. Instances are immutable after creation.
type TextObservation struct {
	Text       string
	Confidence float64

	Box Rect

	Type            TextType
	Characteristics TextCharacteristics
}

type ElementType string

const (
	ElementTypeButton    ElementType = "button"
	ElementTypeTextField ElementType = "textField"
	ElementTypeSeparator ElementType = "separator"
	ElementTypePanel     ElementType = "panel"
	ElementTypeUnknown   ElementType = "unknown"
)

type UIElementObservation struct {
	Type ElementType

	Box        Rect
	Confidence float64

	Properties map[string]float64
}

type InsightType string

const (
	InsightTypeClassification InsightType = "classification"
	InsightTypeBarcode        InsightType = "barcode"
	InsightTypeDocument       InsightType = "document"
)

// LookupInsight is one content-classification, barcode or
// document-segmentation hit. Object classification yields no bounding box.
type LookupInsight struct {
	Type InsightType

	Content    string
	Confidence float64

	Box *Rect
}

type RegionType string

const (
	RegionTypeHeader      RegionType = "header"
	RegionTypeFooter      RegionType = "footer"
	RegionTypeSidebar     RegionType = "sidebar"
	RegionTypeMainContent RegionType = "mainContent"
)

// LayoutRegion groups text observations into a semantic band of the image.
// MemberTextIndices reference positions in the TextObservations sequence.
type LayoutRegion struct {
	Type RegionType

	Box Rect

	MemberTextIndices []int
}

type LayoutType string

const (
	LayoutTypeCode        LayoutType = "code"
	LayoutTypeMenu        LayoutType = "menu"
	LayoutTypeForm        LayoutType = "form"
	LayoutTypeDialog      LayoutType = "dialog"
	LayoutTypeDashboard   LayoutType = "dashboard"
	LayoutTypeWebpage     LayoutType = "webpage"
	LayoutTypeDocument    LayoutType = "document"
	LayoutTypeApplication LayoutType = "application"
)

type LayoutAnalysis struct {
	LayoutType LayoutType

	Regions []LayoutRegion

	// ReadingOrder is a permutation of [0, len(TextObservations)).
	ReadingOrder []int

	DominantLanguage string
	TextDensity      float64
}

// Summary holds derived counts over an analysis result. All values are
// computed by the aggregator, never stored redundantly.
type Summary struct {
	TextTypeCounts    map[string]int
	ElementTypeCounts map[string]int
	ConfidenceBuckets map[string]int
	InsightTypeCounts map[string]int
}

// AnalysisResult is the immutable root of one analysis. It is constructed
// once per capture and superseded, not updated, by the next capture.
type AnalysisResult struct {
	TextObservations []TextObservation
	UIElements       []UIElementObservation

	Layout   LayoutAnalysis
	Insights []LookupInsight

	OverallConfidence float64

	OrganizedText string

	ImageSize Size
	Duration  time.Duration

	Metadata Summary
}
