package analyzer

import (
	"context"
	"image"
	"log/slog"
	"sort"
	"time"

	"github.com/Pradhumn115/ruma-vision/pkg/recognizer"
	"github.com/Pradhumn115/ruma-vision/pkg/vision"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Engine runs the four recognition passes over a raster image and organizes
// their output into a single analysis result. Backends may be nil; a missing
// or failing pass contributes an empty set and never aborts its siblings.
type Engine struct {
	text       recognizer.TextRecognizer
	rectangles recognizer.RectangleDetector
	classifier recognizer.Classifier
	payloads   recognizer.PayloadDetector

	limiter *rate.Limiter

	topLabels int
}

type Option func(*Engine)

func WithTextRecognizer(text recognizer.TextRecognizer) Option {
	return func(e *Engine) {
		e.text = text
	}
}

func WithRectangleDetector(rectangles recognizer.RectangleDetector) Option {
	return func(e *Engine) {
		e.rectangles = rectangles
	}
}

func WithClassifier(classifier recognizer.Classifier) Option {
	return func(e *Engine) {
		e.classifier = classifier
	}
}

func WithPayloadDetector(payloads recognizer.PayloadDetector) Option {
	return func(e *Engine) {
		e.payloads = payloads
	}
}

func WithLimiter(limiter *rate.Limiter) Option {
	return func(e *Engine) {
		e.limiter = limiter
	}
}

func New(options ...Option) (*Engine, error) {
	e := &Engine{
		topLabels: 5,
	}

	for _, option := range options {
		option(e)
	}

	return e, nil
}

// Analyze runs all passes concurrently over the image and aggregates the
// result. The image is treated as immutable for the duration of the call.
func (e *Engine) Analyze(ctx context.Context, img image.Image) (*vision.AnalysisResult, error) {
	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	started := time.Now()

	bounds := img.Bounds()

	size := vision.Size{
		Width:  float64(bounds.Dx()),
		Height: float64(bounds.Dy()),
	}

	var (
		texts      []recognizer.Text
		rectangles []recognizer.Rectangle
		labels     []recognizer.Label
		payloads   []recognizer.Payload
	)

	var group errgroup.Group

	group.Go(func() error {
		texts = e.runTextPass(ctx, img)
		return nil
	})

	group.Go(func() error {
		rectangles = e.runRectanglePass(ctx, img)
		return nil
	})

	group.Go(func() error {
		labels = e.runClassifyPass(ctx, img)
		return nil
	})

	group.Go(func() error {
		payloads = e.runPayloadPass(ctx, img)
		return nil
	})

	group.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	observations := make([]vision.TextObservation, 0, len(texts))

	for _, text := range texts {
		observations = append(observations, Characterize(text))
	}

	elements := make([]vision.UIElementObservation, 0, len(rectangles))

	for _, rect := range rectangles {
		elements = append(elements, ClassifyElement(rect))
	}

	insights := collectInsights(labels, payloads)

	result := &vision.AnalysisResult{
		TextObservations: observations,
		UIElements:       elements,

		Layout:   analyzeLayout(observations, elements, size),
		Insights: insights,

		OverallConfidence: overallConfidence(observations, elements),

		OrganizedText: organizeText(observations),

		ImageSize: size,
		Duration:  time.Since(started),
	}

	result.Metadata = summarize(observations, elements, insights)

	if err := result.Validate(); err != nil {
		return nil, err
	}

	return result, nil
}

func (e *Engine) runTextPass(ctx context.Context, img image.Image) []recognizer.Text {
	if e.text == nil {
		return nil
	}

	texts, err := e.text.RecognizeText(ctx, img)

	if err != nil {
		slog.Warn("text recognition pass failed", "error", err)
		return nil
	}

	return texts
}

func (e *Engine) runRectanglePass(ctx context.Context, img image.Image) []recognizer.Rectangle {
	if e.rectangles == nil {
		return nil
	}

	rectangles, err := e.rectangles.DetectRectangles(ctx, img)

	if err != nil {
		slog.Warn("rectangle detection pass failed", "error", err)
		return nil
	}

	return rectangles
}

func (e *Engine) runClassifyPass(ctx context.Context, img image.Image) []recognizer.Label {
	if e.classifier == nil {
		return nil
	}

	labels, err := e.classifier.Classify(ctx, img)

	if err != nil {
		slog.Warn("classification pass failed", "error", err)
		return nil
	}

	// Top-K by confidence.
	sort.SliceStable(labels, func(a, b int) bool {
		return labels[a].Confidence > labels[b].Confidence
	})

	if len(labels) > e.topLabels {
		labels = labels[:e.topLabels]
	}

	return labels
}

func (e *Engine) runPayloadPass(ctx context.Context, img image.Image) []recognizer.Payload {
	if e.payloads == nil {
		return nil
	}

	payloads, err := e.payloads.DetectPayloads(ctx, img)

	if err != nil {
		slog.Warn("payload detection pass failed", "error", err)
		return nil
	}

	return payloads
}

func collectInsights(labels []recognizer.Label, payloads []recognizer.Payload) []vision.LookupInsight {
	insights := make([]vision.LookupInsight, 0, len(labels)+len(payloads))

	for _, label := range labels {
		insights = append(insights, vision.LookupInsight{
			Type: vision.InsightTypeClassification,

			Content:    label.Identifier,
			Confidence: label.Confidence,
		})
	}

	for _, payload := range payloads {
		kind := vision.InsightTypeBarcode

		if payload.Kind == recognizer.PayloadKindDocument {
			kind = vision.InsightTypeDocument
		}

		insights = append(insights, vision.LookupInsight{
			Type: kind,

			Content:    payload.Value,
			Confidence: payload.Confidence,

			Box: payload.Box,
		})
	}

	return insights
}
