// Package pipeline orchestrates the two-stage remote inference flow: a
// secondary visual-model pass over the captured image, then a context-fusion
// call combining local and secondary analyses into the final answer.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/Pradhumn115/ruma-vision/pkg/fusion"
	"github.com/Pradhumn115/ruma-vision/pkg/secondary"
	"github.com/Pradhumn115/ruma-vision/pkg/stream"
	"github.com/Pradhumn115/ruma-vision/pkg/vision"

	"github.com/google/uuid"
)

var (
	ErrRemoteUnavailable = errors.New("remote service unavailable")
	ErrRemoteRejected    = errors.New("remote service rejected request")
)

type State string

const (
	StateIdle               State = "idle"
	StatePrimaryReady       State = "primaryReady"
	StateSecondaryRequested State = "secondaryRequested"
	StateSecondaryComplete  State = "secondaryComplete"
	StateSecondaryFailed    State = "secondaryFailed"
	StateFusionRequested    State = "fusionRequested"
	StateFusionComplete     State = "fusionComplete"
	StateFusionFailed       State = "fusionFailed"
)

const (
	secondaryTimeout = 30 * time.Second
	fusionTimeout    = 60 * time.Second
)

type Pipeline struct {
	secondary secondary.Provider
	fusion    fusion.Provider

	secondaryTimeout time.Duration
	fusionTimeout    time.Duration
}

type Option func(*Pipeline)

func WithSecondary(provider secondary.Provider) Option {
	return func(p *Pipeline) {
		p.secondary = provider
	}
}

func WithSecondaryTimeout(timeout time.Duration) Option {
	return func(p *Pipeline) {
		p.secondaryTimeout = timeout
	}
}

func WithFusionTimeout(timeout time.Duration) Option {
	return func(p *Pipeline) {
		p.fusionTimeout = timeout
	}
}

func New(provider fusion.Provider, options ...Option) (*Pipeline, error) {
	if provider == nil {
		return nil, errors.New("fusion provider required")
	}

	p := &Pipeline{
		fusion: provider,

		secondaryTimeout: secondaryTimeout,
		fusionTimeout:    fusionTimeout,
	}

	for _, option := range options {
		option(p)
	}

	return p, nil
}

// Request carries one user question plus the primary analysis it refers to.
// The analysis must be complete before the pipeline starts.
type Request struct {
	Analysis *vision.AnalysisResult

	Image []byte

	Question string

	UserID string
	ChatID string

	AnalysisType string
}

// Exchange records the progress and outcome of one pipeline run. Its state
// advances idle → primaryReady → secondaryRequested →
// secondaryComplete|secondaryFailed → fusionRequested →
// fusionComplete|fusionFailed.
type Exchange struct {
	State State

	ChatID string

	SecondaryAnalysis string
	SecondaryModel    string

	Answer string
}

// Run executes the full pipeline and returns the final answer in one piece.
func (p *Pipeline) Run(ctx context.Context, request Request) (*Exchange, error) {
	exchange, fusionRequest, err := p.prepare(ctx, request)

	if err != nil {
		return exchange, err
	}

	exchange.State = StateFusionRequested

	ctx, cancel := context.WithTimeout(ctx, p.fusionTimeout)
	defer cancel()

	answer, err := p.fusion.Answer(ctx, *fusionRequest)

	if err != nil {
		exchange.State = StateFusionFailed
		return exchange, classify(err)
	}

	exchange.State = StateFusionComplete
	exchange.Answer = answer

	return exchange, nil
}

// Stream executes the pipeline and forwards answer tokens to the handler as
// they arrive. Cancelling ctx propagates into the in-flight stream read.
func (p *Pipeline) Stream(ctx context.Context, request Request, handler stream.Handler) (*Exchange, error) {
	exchange, fusionRequest, err := p.prepare(ctx, request)

	if err != nil {
		return exchange, err
	}

	exchange.State = StateFusionRequested

	if err := p.fusion.Stream(ctx, *fusionRequest, handler); err != nil {
		exchange.State = StateFusionFailed
		return exchange, classify(err)
	}

	exchange.State = StateFusionComplete

	return exchange, nil
}

// prepare validates the request, runs the secondary pass, and assembles the
// fusion request. Secondary failures are absorbed: the fusion call proceeds
// with an empty secondary analysis rather than aborting the whole exchange.
func (p *Pipeline) prepare(ctx context.Context, request Request) (*Exchange, *fusion.Request, error) {
	exchange := &Exchange{
		State: StateIdle,
	}

	if request.Analysis == nil {
		return exchange, nil, errors.New("primary analysis required")
	}

	if request.Question == "" {
		return exchange, nil, errors.New("question required")
	}

	exchange.State = StatePrimaryReady

	// The remote service is never called without session correlation.
	exchange.ChatID = request.ChatID

	if exchange.ChatID == "" {
		exchange.ChatID = uuid.NewString()
	}

	primaryText := request.Analysis.OrganizedText

	if p.secondary != nil {
		exchange.State = StateSecondaryRequested

		secondaryCtx, cancel := context.WithTimeout(ctx, p.secondaryTimeout)
		defer cancel()

		result, err := p.secondary.Analyze(secondaryCtx, secondary.Request{
			Image: request.Image,

			Question:    request.Question,
			PrimaryText: primaryText,

			UserID: request.UserID,
		})

		if err != nil {
			slog.Warn("secondary analysis failed, continuing without it", "error", err)

			exchange.State = StateSecondaryFailed
		} else {
			exchange.State = StateSecondaryComplete
			exchange.SecondaryAnalysis = result.Analysis
			exchange.SecondaryModel = result.Model
		}
	}

	if err := ctx.Err(); err != nil {
		return exchange, nil, err
	}

	analysisType := request.AnalysisType

	if analysisType == "" {
		analysisType = string(request.Analysis.Layout.LayoutType)
	}

	return exchange, &fusion.Request{
		Question: request.Question,

		PrimaryText:       primaryText,
		SecondaryAnalysis: exchange.SecondaryAnalysis,

		UserID: request.UserID,
		ChatID: exchange.ChatID,

		AnalysisType: analysisType,
	}, nil
}

// classify maps a fusion failure onto the error taxonomy: connectivity and
// timeout problems are unavailability, anything else is a rejection.
// Caller-initiated cancellation is not an error and passes through unchanged.
func classify(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s", ErrRemoteUnavailable, err.Error())
	}

	var netErr net.Error

	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %s", ErrRemoteUnavailable, err.Error())
	}

	return fmt.Errorf("%w: %s", ErrRemoteRejected, err.Error())
}
