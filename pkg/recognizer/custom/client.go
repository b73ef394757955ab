// Package custom runs recognition passes against a remote recognition
// service over a small JSON contract. One client serves all four passes.
package custom

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"io"
	"net/http"
	"strings"

	"github.com/Pradhumn115/ruma-vision/pkg/recognizer"
	"github.com/Pradhumn115/ruma-vision/pkg/vision"
)

var (
	_ recognizer.TextRecognizer    = (*Client)(nil)
	_ recognizer.RectangleDetector = (*Client)(nil)
	_ recognizer.Classifier        = (*Client)(nil)
	_ recognizer.PayloadDetector   = (*Client)(nil)
)

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

type boxDocument struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (b boxDocument) rect() vision.Rect {
	return vision.Rect{X: b.X, Y: b.Y, Width: b.Width, Height: b.Height}
}

func (c *Client) RecognizeText(ctx context.Context, img image.Image) ([]recognizer.Text, error) {
	var response struct {
		Lines []struct {
			Text       string      `json:"text"`
			Confidence float64     `json:"confidence"`
			Box        boxDocument `json:"bounding_box"`
		} `json:"lines"`
	}

	if err := c.post(ctx, "/recognize/text", img, &response); err != nil {
		return nil, err
	}

	result := make([]recognizer.Text, 0, len(response.Lines))

	for _, line := range response.Lines {
		result = append(result, recognizer.Text{
			Text:       line.Text,
			Confidence: line.Confidence,

			Box: line.Box.rect(),
		})
	}

	return result, nil
}

func (c *Client) DetectRectangles(ctx context.Context, img image.Image) ([]recognizer.Rectangle, error) {
	var response struct {
		Rectangles []struct {
			Box        boxDocument `json:"bounding_box"`
			Confidence float64     `json:"confidence"`
		} `json:"rectangles"`
	}

	if err := c.post(ctx, "/recognize/rectangles", img, &response); err != nil {
		return nil, err
	}

	result := make([]recognizer.Rectangle, 0, len(response.Rectangles))

	for _, rect := range response.Rectangles {
		result = append(result, recognizer.Rectangle{
			Box:        rect.Box.rect(),
			Confidence: rect.Confidence,
		})
	}

	return result, nil
}

func (c *Client) Classify(ctx context.Context, img image.Image) ([]recognizer.Label, error) {
	var response struct {
		Labels []struct {
			Identifier string  `json:"identifier"`
			Confidence float64 `json:"confidence"`
		} `json:"labels"`
	}

	if err := c.post(ctx, "/recognize/labels", img, &response); err != nil {
		return nil, err
	}

	result := make([]recognizer.Label, 0, len(response.Labels))

	for _, label := range response.Labels {
		result = append(result, recognizer.Label{
			Identifier: label.Identifier,
			Confidence: label.Confidence,
		})
	}

	return result, nil
}

func (c *Client) DetectPayloads(ctx context.Context, img image.Image) ([]recognizer.Payload, error) {
	var response struct {
		Payloads []struct {
			Kind       string       `json:"kind"`
			Value      string       `json:"value"`
			Confidence float64      `json:"confidence"`
			Box        *boxDocument `json:"bounding_box"`
		} `json:"payloads"`
	}

	if err := c.post(ctx, "/recognize/payloads", img, &response); err != nil {
		return nil, err
	}

	result := make([]recognizer.Payload, 0, len(response.Payloads))

	for _, payload := range response.Payloads {
		p := recognizer.Payload{
			Kind: payload.Kind,

			Value:      payload.Value,
			Confidence: payload.Confidence,
		}

		if payload.Box != nil {
			box := payload.Box.rect()
			p.Box = &box
		}

		result = append(result, p)
	}

	return result, nil
}

func (c *Client) post(ctx context.Context, path string, img image.Image, result any) error {
	var data bytes.Buffer

	if err := png.Encode(&data, img); err != nil {
		return err
	}

	body, err := json.Marshal(map[string]any{
		"image_base64": base64.StdEncoding.EncodeToString(data.Bytes()),
	})

	if err != nil {
		return err
	}

	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(c.url, "/")+path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)

	if err != nil {
		return err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return convertError(resp)
	}

	return json.NewDecoder(resp.Body).Decode(result)
}

func convertError(resp *http.Response) error {
	data, _ := io.ReadAll(resp.Body)

	if len(data) == 0 {
		return errors.New(http.StatusText(resp.StatusCode))
	}

	return errors.New(string(data))
}
