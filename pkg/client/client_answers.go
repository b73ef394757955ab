package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Pradhumn115/ruma-vision/pkg/stream"
)

type AnswerService struct {
	Options []RequestOption
}

func NewAnswerService(opts ...RequestOption) AnswerService {
	return AnswerService{
		Options: opts,
	}
}

type AnswerRequest struct {
	Image []byte

	Question string

	UserID string
	ChatID string

	// Stream, when set, receives answer fragments as they arrive and the
	// returned answer text is the concatenation of those fragments.
	Stream stream.Handler
}

type Answer struct {
	Text   string
	ChatID string
}

func (r *AnswerService) New(ctx context.Context, input AnswerRequest, opts ...RequestOption) (*Answer, error) {
	c := newRequestConfig(append(r.Options, opts...)...)

	body, _ := json.Marshal(map[string]any{
		"image_base64": base64.StdEncoding.EncodeToString(input.Image),
		"question":     input.Question,

		"user_id": input.UserID,
		"chat_id": input.ChatID,

		"stream": input.Stream != nil,
	})

	req, _ := http.NewRequestWithContext(ctx, "POST", c.URL+"/v1/ask", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	if input.Stream != nil {
		req.Header.Set("Accept", "text/event-stream")
	}

	resp, err := c.Client.Do(req)

	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(resp.Status)
	}

	if input.Stream == nil {
		var result struct {
			Answer string `json:"answer"`
			ChatID string `json:"chat_id"`
		}

		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return nil, err
		}

		return &Answer{
			Text:   result.Answer,
			ChatID: result.ChatID,
		}, nil
	}

	var text bytes.Buffer

	handler := func(ctx context.Context, token stream.Token) error {
		if token.Kind == stream.TokenContent {
			text.WriteString(token.Payload)
		}

		return input.Stream(ctx, token)
	}

	if err := stream.Consume(ctx, resp.Body, handler); err != nil {
		return nil, err
	}

	// The server assigns a chat id when the request carries none and
	// announces it ahead of the event stream.
	chatID := resp.Header.Get("X-Chat-Id")

	if chatID == "" {
		chatID = input.ChatID
	}

	return &Answer{
		Text:   text.String(),
		ChatID: chatID,
	}, nil
}
