package limiter

import (
	"context"

	"github.com/Pradhumn115/ruma-vision/pkg/fusion"
	"github.com/Pradhumn115/ruma-vision/pkg/stream"

	"golang.org/x/time/rate"
)

type limitedFusion struct {
	limiter  *rate.Limiter
	provider fusion.Provider
}

func NewFusion(l *rate.Limiter, p fusion.Provider) fusion.Provider {
	return &limitedFusion{
		limiter:  l,
		provider: p,
	}
}

func (p *limitedFusion) Answer(ctx context.Context, request fusion.Request) (string, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	return p.provider.Answer(ctx, request)
}

func (p *limitedFusion) Stream(ctx context.Context, request fusion.Request, handler stream.Handler) error {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	return p.provider.Stream(ctx, request, handler)
}
