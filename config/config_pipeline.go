package config

import (
	"errors"

	"github.com/Pradhumn115/ruma-vision/pkg/fusion"
	"github.com/Pradhumn115/ruma-vision/pkg/fusion/custom"
	"github.com/Pradhumn115/ruma-vision/pkg/limiter"
	"github.com/Pradhumn115/ruma-vision/pkg/pipeline"
	"github.com/Pradhumn115/ruma-vision/pkg/secondary"
	secondarycustom "github.com/Pradhumn115/ruma-vision/pkg/secondary/custom"
	secondaryopenai "github.com/Pradhumn115/ruma-vision/pkg/secondary/openai"
)

func (c *Config) registerPipeline(file *configFile) error {
	// Without a fusion endpoint the server runs analysis-only.
	if file.Fusion == nil {
		return nil
	}

	var fusionOptions []custom.Option

	if file.Fusion.Token != "" {
		fusionOptions = append(fusionOptions, custom.WithToken(file.Fusion.Token))
	}

	fusionClient, err := custom.New(file.Fusion.URL, fusionOptions...)

	if err != nil {
		return err
	}

	var fusionProvider fusion.Provider = fusionClient

	if l := createLimiter(file.Fusion.Limit); l != nil {
		fusionProvider = limiter.NewFusion(l, fusionProvider)
	}

	var options []pipeline.Option

	if file.Secondary != nil {
		provider, err := createSecondary(file.Secondary)

		if err != nil {
			return err
		}

		if l := createLimiter(file.Secondary.Limit); l != nil {
			provider = limiter.NewSecondary(l, provider)
		}

		options = append(options, pipeline.WithSecondary(provider))
	}

	p, err := pipeline.New(fusionProvider, options...)

	if err != nil {
		return err
	}

	c.Pipeline = p

	return nil
}

func createSecondary(cfg *secondaryConfig) (secondary.Provider, error) {
	switch cfg.Type {
	case "", "custom":
		var options []secondarycustom.Option

		if cfg.Token != "" {
			options = append(options, secondarycustom.WithToken(cfg.Token))
		}

		return secondarycustom.New(cfg.URL, options...)

	case "openai":
		var options []secondaryopenai.Option

		if cfg.URL != "" {
			options = append(options, secondaryopenai.WithURL(cfg.URL))
		}

		if cfg.Model != "" {
			options = append(options, secondaryopenai.WithModel(cfg.Model))
		}

		return secondaryopenai.New(cfg.Token, options...)

	default:
		return nil, errors.New("unknown secondary type: " + cfg.Type)
	}
}
