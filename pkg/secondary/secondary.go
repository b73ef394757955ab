package secondary

import (
	"context"
)

// Provider runs the server-side visual-model pass over the captured image.
type Provider interface {
	Analyze(ctx context.Context, request Request) (*Result, error)
}

type Request struct {
	Image []byte

	Question    string
	PrimaryText string

	UserID string
}

type Result struct {
	Analysis string
	Model    string
}
