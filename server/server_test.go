package server_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Pradhumn115/ruma-vision/config"
	"github.com/Pradhumn115/ruma-vision/pkg/analyzer"
	"github.com/Pradhumn115/ruma-vision/pkg/auth"
	"github.com/Pradhumn115/ruma-vision/pkg/auth/static"
	"github.com/Pradhumn115/ruma-vision/pkg/fusion"
	"github.com/Pradhumn115/ruma-vision/pkg/pipeline"
	"github.com/Pradhumn115/ruma-vision/pkg/recognizer"
	"github.com/Pradhumn115/ruma-vision/pkg/stream"
	"github.com/Pradhumn115/ruma-vision/pkg/vision"
	"github.com/Pradhumn115/ruma-vision/server"

	"github.com/stretchr/testify/require"
)

type staticRecognizer struct{}

func (r *staticRecognizer) RecognizeText(ctx context.Context, img image.Image) ([]recognizer.Text, error) {
	return []recognizer.Text{
		{
			Text:       "Hello screen",
			Confidence: 0.9,

			Box: vision.Rect{X: 100, Y: 400, Width: 120, Height: 16},
		},
	}, nil
}

type staticFusion struct{}

func (f *staticFusion) Answer(ctx context.Context, request fusion.Request) (string, error) {
	return "The screen greets you.", nil
}

func (f *staticFusion) Stream(ctx context.Context, request fusion.Request, handler stream.Handler) error {
	for _, part := range []string{"The screen ", "greets you."} {
		if err := handler(ctx, stream.Token{Kind: stream.TokenContent, Payload: part}); err != nil {
			return err
		}
	}

	return handler(ctx, stream.Token{Kind: stream.TokenDone})
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	engine, err := analyzer.New(analyzer.WithTextRecognizer(&staticRecognizer{}))
	require.NoError(t, err)

	p, err := pipeline.New(&staticFusion{})
	require.NoError(t, err)

	s, err := server.New(&config.Config{
		Address: ":0",

		Engine:   engine,
		Pipeline: p,
	})

	require.NoError(t, err)

	ts := httptest.NewServer(s)
	t.Cleanup(ts.Close)

	return ts
}

func testImage(t *testing.T) string {
	t.Helper()

	var data bytes.Buffer

	require.NoError(t, png.Encode(&data, image.NewRGBA(image.Rect(0, 0, 800, 600))))

	return base64.StdEncoding.EncodeToString(data.Bytes())
}

func postJSON(t *testing.T, url string, body map[string]any) *http.Response {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)

	return resp
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)

	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAnalyze(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/v1/analyze", map[string]any{
		"image_base64": testImage(t),
	})

	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var doc map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))

	require.Equal(t, "Hello screen", doc["extracted_text"])

	regions := doc["text_regions"].([]any)
	require.Len(t, regions, 1)
}

func TestAnalyzeInvalidImage(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/v1/analyze", map[string]any{
		"image_base64": "bm90IGFuIGltYWdl",
	})

	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAsk(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/v1/ask", map[string]any{
		"image_base64": testImage(t),
		"question":     "what does it say?",
	})

	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Answer string `json:"answer"`
		ChatID string `json:"chat_id"`
	}

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))

	require.Equal(t, "The screen greets you.", result.Answer)
	require.NotEmpty(t, result.ChatID)
}

func TestAskRequiresQuestion(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/v1/ask", map[string]any{
		"image_base64": testImage(t),
	})

	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAuthorization(t *testing.T) {
	engine, err := analyzer.New(analyzer.WithTextRecognizer(&staticRecognizer{}))
	require.NoError(t, err)

	authorizer, err := static.New("secret")
	require.NoError(t, err)

	s, err := server.New(&config.Config{
		Address: ":0",

		Authorizers: []auth.Provider{authorizer},

		Engine: engine,
	})

	require.NoError(t, err)

	ts := httptest.NewServer(s)
	defer ts.Close()

	body, err := json.Marshal(map[string]any{"image_base64": testImage(t)})
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/v1/analyze", bytes.NewReader(body))
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, err = http.NewRequest(http.MethodPost, ts.URL+"/v1/analyze", bytes.NewReader(body))
	require.NoError(t, err)

	req.Header.Set("Authorization", "Bearer secret")

	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	// The health probe stays open.
	health, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	health.Body.Close()

	require.Equal(t, http.StatusOK, health.StatusCode)
}

func TestAskStream(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/v1/ask", map[string]any{
		"image_base64": testImage(t),
		"question":     "what does it say?",
		"stream":       true,
	})

	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	require.NotEmpty(t, resp.Header.Get("X-Chat-Id"))

	var text strings.Builder
	var done bool

	err := stream.Consume(context.Background(), resp.Body, func(ctx context.Context, token stream.Token) error {
		switch token.Kind {
		case stream.TokenContent:
			text.WriteString(token.Payload)
		case stream.TokenDone:
			done = true
		}

		return nil
	})

	require.NoError(t, err)
	require.Equal(t, "The screen greets you.", text.String())
	require.True(t, done)
}
