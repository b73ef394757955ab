package analyzer

import (
	"strings"

	"github.com/Pradhumn115/ruma-vision/pkg/vision"
)

// organizeText concatenates the raw strings in visual order. It uses a looser
// same-line tolerance than the reading order on purpose; see layout.go.
func organizeText(texts []vision.TextObservation) string {
	order := orderIndices(texts, organizedTextTolerance)

	lines := make([]string, 0, len(order))

	for _, idx := range order {
		lines = append(lines, texts[idx].Text)
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func summarize(texts []vision.TextObservation, elements []vision.UIElementObservation, insights []vision.LookupInsight) vision.Summary {
	summary := vision.Summary{
		TextTypeCounts:    map[string]int{},
		ElementTypeCounts: map[string]int{},
		ConfidenceBuckets: map[string]int{},
		InsightTypeCounts: map[string]int{},
	}

	for _, text := range texts {
		summary.TextTypeCounts[string(text.Type)]++
		summary.ConfidenceBuckets[confidenceBucket(text.Confidence)]++
	}

	for _, element := range elements {
		summary.ElementTypeCounts[string(element.Type)]++
	}

	for _, insight := range insights {
		summary.InsightTypeCounts[string(insight.Type)]++
	}

	return summary
}

func confidenceBucket(confidence float64) string {
	switch {
	case confidence > 0.9:
		return "high"

	case confidence > 0.7:
		return "medium"

	default:
		return "low"
	}
}
