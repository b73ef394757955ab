// Package limiter rate-limits calls to the remote inference providers.
package limiter

import (
	"context"

	"github.com/Pradhumn115/ruma-vision/pkg/secondary"

	"golang.org/x/time/rate"
)

type limitedSecondary struct {
	limiter  *rate.Limiter
	provider secondary.Provider
}

func NewSecondary(l *rate.Limiter, p secondary.Provider) secondary.Provider {
	return &limitedSecondary{
		limiter:  l,
		provider: p,
	}
}

func (p *limitedSecondary) Analyze(ctx context.Context, request secondary.Request) (*secondary.Result, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	return p.provider.Analyze(ctx, request)
}
