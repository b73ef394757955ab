package vision

import (
	"errors"
	"fmt"
)

var ErrInconsistent = errors.New("inconsistent analysis result")

// Validate checks the structural invariants of the result. A violation means
// aggregation produced a corrupt value and must not be passed on silently.
func (r *AnalysisResult) Validate() error {
	if len(r.Layout.ReadingOrder) != len(r.TextObservations) {
		return fmt.Errorf("%w: reading order covers %d of %d observations", ErrInconsistent, len(r.Layout.ReadingOrder), len(r.TextObservations))
	}

	seen := make([]bool, len(r.TextObservations))

	for _, idx := range r.Layout.ReadingOrder {
		if idx < 0 || idx >= len(r.TextObservations) {
			return fmt.Errorf("%w: reading order index %d out of range", ErrInconsistent, idx)
		}

		if seen[idx] {
			return fmt.Errorf("%w: reading order index %d duplicated", ErrInconsistent, idx)
		}

		seen[idx] = true
	}

	for _, region := range r.Layout.Regions {
		for _, idx := range region.MemberTextIndices {
			if idx < 0 || idx >= len(r.TextObservations) {
				return fmt.Errorf("%w: region %s member index %d out of range", ErrInconsistent, region.Type, idx)
			}
		}
	}

	if r.OverallConfidence < 0 || r.OverallConfidence > 1 {
		return fmt.Errorf("%w: overall confidence %v outside [0,1]", ErrInconsistent, r.OverallConfidence)
	}

	return nil
}

// Document serializes the result into a transport-neutral tree of primitive
// values, matching the wire contract of the remote inference service.
func (r *AnalysisResult) Document() map[string]any {
	regions := make([]any, 0, len(r.TextObservations))

	for _, o := range r.TextObservations {
		regions = append(regions, map[string]any{
			"text":         o.Text,
			"confidence":   o.Confidence,
			"bounding_box": boxDocument(o.Box),
			"text_type":    string(o.Type),
			"characteristics": map[string]any{
				"is_bold":      o.Characteristics.IsBold,
				"is_italic":    o.Characteristics.IsItalic,
				"is_uppercase": o.Characteristics.IsUppercase,
				"is_numeric":   o.Characteristics.IsNumeric,
				"is_link":      o.Characteristics.IsLink,
			},
		})
	}

	elements := make([]any, 0, len(r.UIElements))

	for _, e := range r.UIElements {
		properties := map[string]any{}

		for k, v := range e.Properties {
			properties[k] = v
		}

		elements = append(elements, map[string]any{
			"element_type": string(e.Type),
			"bounding_box": boxDocument(e.Box),
			"confidence":   e.Confidence,
			"properties":   properties,
		})
	}

	layoutRegions := make([]any, 0, len(r.Layout.Regions))

	for _, region := range r.Layout.Regions {
		indices := make([]any, 0, len(region.MemberTextIndices))

		for _, idx := range region.MemberTextIndices {
			indices = append(indices, idx)
		}

		layoutRegions = append(layoutRegions, map[string]any{
			"type":         string(region.Type),
			"bounding_box": boxDocument(region.Box),
			"text_indices": indices,
		})
	}

	readingOrder := make([]any, 0, len(r.Layout.ReadingOrder))

	for _, idx := range r.Layout.ReadingOrder {
		readingOrder = append(readingOrder, idx)
	}

	insights := make([]any, 0, len(r.Insights))

	for _, insight := range r.Insights {
		doc := map[string]any{
			"type":       string(insight.Type),
			"content":    insight.Content,
			"confidence": insight.Confidence,
		}

		if insight.Box != nil {
			doc["bounding_box"] = boxDocument(*insight.Box)
		}

		insights = append(insights, doc)
	}

	return map[string]any{
		"text_regions": regions,
		"ui_elements":  elements,

		"layout_analysis": map[string]any{
			"layout_type":       string(r.Layout.LayoutType),
			"text_density":      r.Layout.TextDensity,
			"dominant_language": r.Layout.DominantLanguage,
			"regions":           layoutRegions,
			"reading_order":     readingOrder,
		},

		"lookup_insights": insights,

		"overall_confidence": r.OverallConfidence,
		"extracted_text":     r.OrganizedText,

		"image_size": map[string]any{
			"width":  r.ImageSize.Width,
			"height": r.ImageSize.Height,
		},

		"analysis_duration_ms": r.Duration.Milliseconds(),

		"metadata": map[string]any{
			"text_type_counts":    countsDocument(r.Metadata.TextTypeCounts),
			"element_type_counts": countsDocument(r.Metadata.ElementTypeCounts),
			"confidence_buckets":  countsDocument(r.Metadata.ConfidenceBuckets),
			"insight_type_counts": countsDocument(r.Metadata.InsightTypeCounts),
		},
	}
}

func boxDocument(box Rect) map[string]any {
	return map[string]any{
		"x":      box.X,
		"y":      box.Y,
		"width":  box.Width,
		"height": box.Height,
	}
}

func countsDocument(counts map[string]int) map[string]any {
	result := map[string]any{}

	for k, v := range counts {
		result[k] = v
	}

	return result
}
