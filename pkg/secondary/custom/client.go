package custom

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/Pradhumn115/ruma-vision/pkg/secondary"
)

var _ secondary.Provider = (*Client)(nil)

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

func (c *Client) Analyze(ctx context.Context, request secondary.Request) (*secondary.Result, error) {
	body := map[string]any{
		"image_base64":     base64.StdEncoding.EncodeToString(request.Image),
		"question":         request.Question,
		"primary_ocr_text": request.PrimaryText,
		"user_id":          request.UserID,
	}

	data, err := json.Marshal(body)

	if err != nil {
		return nil, err
	}

	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(c.url, "/")+"/secondary-analysis", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)

	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, convertError(resp)
	}

	var result struct {
		Success bool `json:"success"`

		Analysis string `json:"analysis"`
		Error    string `json:"error"`

		Model string `json:"model_used"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	if !result.Success {
		if result.Error != "" {
			return nil, errors.New(result.Error)
		}

		return nil, errors.New("secondary analysis rejected")
	}

	return &secondary.Result{
		Analysis: result.Analysis,
		Model:    result.Model,
	}, nil
}

func convertError(resp *http.Response) error {
	data, _ := io.ReadAll(resp.Body)

	if len(data) == 0 {
		return errors.New(http.StatusText(resp.StatusCode))
	}

	return errors.New(string(data))
}
