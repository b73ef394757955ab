package custom

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/Pradhumn115/ruma-vision/pkg/fusion"
	"github.com/Pradhumn115/ruma-vision/pkg/stream"
)

var _ fusion.Provider = (*Client)(nil)

type Client struct {
	client *http.Client

	url   string
	token string
}

type Option func(*Client)

func WithClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

func New(url string, options ...Option) (*Client, error) {
	if url == "" {
		return nil, errors.New("invalid url")
	}

	c := &Client{
		client: http.DefaultClient,

		url: url,
	}

	for _, option := range options {
		option(c)
	}

	return c, nil
}

func (c *Client) Answer(ctx context.Context, request fusion.Request) (string, error) {
	resp, err := c.post(ctx, request, false)

	if err != nil {
		return "", err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", convertError(resp)
	}

	var result struct {
		Answer string `json:"answer"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}

	if result.Answer == "" {
		return "", errors.New("empty answer")
	}

	return result.Answer, nil
}

// Stream consumes the fusion endpoint's incremental event stream. The
// response body is bound to ctx, so caller cancellation closes the
// connection within the current read cycle.
func (c *Client) Stream(ctx context.Context, request fusion.Request, handler stream.Handler) error {
	resp, err := c.post(ctx, request, true)

	if err != nil {
		return err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return convertError(resp)
	}

	return stream.Consume(ctx, resp.Body, handler)
}

func (c *Client) post(ctx context.Context, request fusion.Request, streaming bool) (*http.Response, error) {
	body := map[string]any{
		"question":           request.Question,
		"primary_ocr_text":   request.PrimaryText,
		"secondary_analysis": request.SecondaryAnalysis,
		"user_id":            request.UserID,
		"chat_id":            request.ChatID,
		"analysis_type":      request.AnalysisType,
		"stream":             streaming,
	}

	data, err := json.Marshal(body)

	if err != nil {
		return nil, err
	}

	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(c.url, "/")+"/fusion", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")

	if streaming {
		req.Header.Set("Accept", "text/event-stream")
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	return c.client.Do(req)
}

func convertError(resp *http.Response) error {
	data, _ := io.ReadAll(resp.Body)

	if len(data) == 0 {
		return errors.New(http.StatusText(resp.StatusCode))
	}

	return errors.New(string(data))
}
