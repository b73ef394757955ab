package fusion

import (
	"context"

	"github.com/Pradhumn115/ruma-vision/pkg/stream"
)

// Provider combines the local analysis and the secondary pass into a final
// natural-language answer.
type Provider interface {
	Answer(ctx context.Context, request Request) (string, error)
	Stream(ctx context.Context, request Request, handler stream.Handler) error
}

type Request struct {
	Question string

	PrimaryText       string
	SecondaryAnalysis string

	UserID string
	ChatID string

	AnalysisType string
}
