package openai

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/Pradhumn115/ruma-vision/pkg/secondary"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

var _ secondary.Provider = (*Client)(nil)

// Client runs the secondary visual pass against an OpenAI-compatible
// vision model instead of the backing inference service.
type Client struct {
	*Config

	completions openai.ChatCompletionService
}

func New(token string, options ...Option) (*Client, error) {
	cfg := &Config{
		token: token,
	}

	for _, option := range options {
		option(cfg)
	}

	return &Client{
		Config: cfg,

		completions: openai.NewChatCompletionService(cfg.Options()...),
	}, nil
}

func (c *Client) Analyze(ctx context.Context, request secondary.Request) (*secondary.Result, error) {
	model := c.model

	if model == "" {
		model = "gpt-4o-mini"
	}

	prompt := strings.TrimSpace(`Describe the visual content of this screen capture as it relates to the question.
Question: ` + request.Question + `
Recognized text: ` + request.PrimaryText)

	parts := []openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart(prompt),
	}

	if len(request.Image) > 0 {
		imageURL := openai.ChatCompletionContentPartImageImageURLParam{
			URL: "data:image/png;base64," + base64.StdEncoding.EncodeToString(request.Image),
		}

		parts = append(parts, openai.ImageContentPart(imageURL))
	}

	body := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),

		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(parts),
		},
	}

	completion, err := c.completions.New(ctx, body)

	if err != nil {
		return nil, err
	}

	return &secondary.Result{
		Analysis: strings.TrimSpace(completion.Choices[0].Message.Content),
		Model:    completion.Model,
	}, nil
}

type Config struct {
	url string

	token string
	model string
}

type Option func(*Config)

func WithURL(url string) Option {
	return func(c *Config) {
		c.url = url
	}
}

func WithModel(model string) Option {
	return func(c *Config) {
		c.model = model
	}
}

func (c *Config) Options() []option.RequestOption {
	options := []option.RequestOption{}

	if c.url != "" {
		options = append(options, option.WithBaseURL(strings.TrimRight(c.url, "/")+"/"))
	}

	if c.token != "" {
		options = append(options, option.WithAPIKey(c.token))
	}

	return options
}
