package analyzer

import (
	"sort"
	"unicode"

	"github.com/Pradhumn115/ruma-vision/pkg/vision"
)

const (
	headerBand  = 0.15
	footerBand  = 0.10
	sidebarBand = 0.20

	// Same-line tolerances in pixels. Reading order uses the tighter value,
	// organized-text ordering the looser one. The asymmetry is intentional
	// and both outputs are produced from the same observations.
	readingOrderTolerance  = 10.0
	organizedTextTolerance = 20.0
)

// segmentRegions partitions the image into fixed fractional bands. A band is
// dropped when it holds no text, except main content which is always present.
// The sidebar additionally requires more than two member observations.
func segmentRegions(texts []vision.TextObservation, size vision.Size) []vision.LayoutRegion {
	headerMinY := size.Height * (1 - headerBand)
	footerMaxY := size.Height * footerBand
	sidebarMaxX := size.Width * sidebarBand

	var header, footer, sidebar, main []int

	for i, text := range texts {
		switch {
		case text.Box.MidY() >= headerMinY:
			header = append(header, i)

		case text.Box.MidY() <= footerMaxY:
			footer = append(footer, i)

		case text.Box.MidX() <= sidebarMaxX:
			sidebar = append(sidebar, i)

		default:
			main = append(main, i)
		}
	}

	if len(sidebar) <= 2 {
		main = append(main, sidebar...)
		sort.Ints(main)

		sidebar = nil
	}

	var regions []vision.LayoutRegion

	if len(header) > 0 {
		regions = append(regions, vision.LayoutRegion{
			Type: vision.RegionTypeHeader,

			Box: vision.Rect{X: 0, Y: headerMinY, Width: size.Width, Height: size.Height * headerBand},

			MemberTextIndices: header,
		})
	}

	if len(footer) > 0 {
		regions = append(regions, vision.LayoutRegion{
			Type: vision.RegionTypeFooter,

			Box: vision.Rect{X: 0, Y: 0, Width: size.Width, Height: size.Height * footerBand},

			MemberTextIndices: footer,
		})
	}

	if len(sidebar) > 0 {
		regions = append(regions, vision.LayoutRegion{
			Type: vision.RegionTypeSidebar,

			Box: vision.Rect{X: 0, Y: footerMaxY, Width: sidebarMaxX, Height: headerMinY - footerMaxY},

			MemberTextIndices: sidebar,
		})
	}

	regions = append(regions, vision.LayoutRegion{
		Type: vision.RegionTypeMainContent,

		Box: vision.Rect{X: sidebarMaxX, Y: footerMaxY, Width: size.Width - sidebarMaxX, Height: headerMinY - footerMaxY},

		MemberTextIndices: main,
	})

	return regions
}

// orderIndices sorts observation indices into human reading sequence: top of
// the image first (higher Y under the bottom-left origin), and left to right
// within the same line. Two observations are on the same line when their
// vertical positions differ by no more than the given tolerance.
func orderIndices(texts []vision.TextObservation, tolerance float64) []int {
	order := make([]int, len(texts))

	for i := range order {
		order[i] = i
	}

	sort.SliceStable(order, func(a, b int) bool {
		boxA := texts[order[a]].Box
		boxB := texts[order[b]].Box

		dy := boxA.MidY() - boxB.MidY()

		if dy > tolerance {
			return true
		}

		if dy < -tolerance {
			return false
		}

		return boxA.X < boxB.X
	})

	return order
}

type layoutCounts struct {
	total int

	buttons    int
	textFields int
	headings   int
	menuItems  int
	code       int
	labels     int
	urls       int
	body       int
}

func countLayoutSignals(texts []vision.TextObservation, elements []vision.UIElementObservation) layoutCounts {
	counts := layoutCounts{
		total: len(texts),
	}

	for _, text := range texts {
		switch text.Type {
		case vision.TextTypeButton:
			counts.buttons++
		case vision.TextTypeHeading:
			counts.headings++
		case vision.TextTypeMenuItem:
			counts.menuItems++
		case vision.TextTypeCode:
			counts.code++
		case vision.TextTypeLabel:
			counts.labels++
		case vision.TextTypeURL:
			counts.urls++
		case vision.TextTypeBody:
			counts.body++
		}
	}

	for _, element := range elements {
		switch element.Type {
		case vision.ElementTypeButton:
			counts.buttons++
		case vision.ElementTypeTextField:
			counts.textFields++
		}
	}

	return counts
}

type layoutRule struct {
	label vision.LayoutType
	match func(c layoutCounts, size vision.Size) bool
}

// layoutRules is an ordered decision list over aggregate counts, evaluated
// once per analysis, first match wins.
var layoutRules = []layoutRule{
	{
		label: vision.LayoutTypeCode,
		match: func(c layoutCounts, size vision.Size) bool {
			return c.total > 0 && c.code*3 > c.total
		},
	},
	{
		label: vision.LayoutTypeMenu,
		match: func(c layoutCounts, size vision.Size) bool {
			return c.menuItems > 3 && c.buttons < 3
		},
	},
	{
		label: vision.LayoutTypeForm,
		match: func(c layoutCounts, size vision.Size) bool {
			return c.textFields > 2 || (c.buttons > 1 && c.labels > 2)
		},
	},
	{
		label: vision.LayoutTypeDialog,
		match: func(c layoutCounts, size vision.Size) bool {
			return size.Width < 600 && size.Height < 400 && c.buttons > 0
		},
	},
	{
		label: vision.LayoutTypeDashboard,
		match: func(c layoutCounts, size vision.Size) bool {
			return c.headings > 2 && c.total > 20
		},
	},
	{
		label: vision.LayoutTypeWebpage,
		match: func(c layoutCounts, size vision.Size) bool {
			return c.urls > 0 && c.headings > 1
		},
	},
	{
		label: vision.LayoutTypeDocument,
		match: func(c layoutCounts, size vision.Size) bool {
			return c.total > 0 && c.body*2 > c.total
		},
	},
}

func classifyLayout(counts layoutCounts, size vision.Size) vision.LayoutType {
	for _, rule := range layoutRules {
		if rule.match(counts, size) {
			return rule.label
		}
	}

	return vision.LayoutTypeApplication
}

// textDensity is the summed text box area over the image area. Overlapping
// boxes are not deduplicated, so values above 1.0 are possible and kept.
func textDensity(texts []vision.TextObservation, size vision.Size) float64 {
	area := size.Width * size.Height

	if area <= 0 {
		return 0
	}

	var sum float64

	for _, text := range texts {
		sum += text.Box.Area()
	}

	return sum / area
}

// overallConfidence weighs text confidence at 0.7 and UI-element confidence
// at 0.3. Absent UI elements contribute a full 1.0 term rather than zero, so
// their absence does not depress the score. No text means no confidence.
func overallConfidence(texts []vision.TextObservation, elements []vision.UIElementObservation) float64 {
	if len(texts) == 0 {
		return 0.0
	}

	var textSum float64

	for _, text := range texts {
		textSum += text.Confidence
	}

	elementTerm := 1.0

	if len(elements) > 0 {
		var elementSum float64

		for _, element := range elements {
			elementSum += element.Confidence
		}

		elementTerm = elementSum / float64(len(elements))
	}

	return 0.7*(textSum/float64(len(texts))) + 0.3*elementTerm
}

func dominantLanguage(texts []vision.TextObservation) string {
	var latin, letters int

	for _, text := range texts {
		for _, r := range text.Text {
			if !unicode.IsLetter(r) {
				continue
			}

			letters++

			if r < 0x250 {
				latin++
			}
		}
	}

	if letters == 0 {
		return "unknown"
	}

	if latin*2 > letters {
		return "en"
	}

	return "unknown"
}

func analyzeLayout(texts []vision.TextObservation, elements []vision.UIElementObservation, size vision.Size) vision.LayoutAnalysis {
	return vision.LayoutAnalysis{
		LayoutType: classifyLayout(countLayoutSignals(texts, elements), size),

		Regions:      segmentRegions(texts, size),
		ReadingOrder: orderIndices(texts, readingOrderTolerance),

		DominantLanguage: dominantLanguage(texts),
		TextDensity:      textDensity(texts, size),
	}
}
