package custom_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Pradhumn115/ruma-vision/pkg/secondary"
	"github.com/Pradhumn115/ruma-vision/pkg/secondary/custom"

	"github.com/stretchr/testify/require"
)

func TestAnalyze(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/secondary-analysis", r.URL.Path)
		require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		require.Equal(t, "what is shown?", body["question"])
		require.Equal(t, "File Edit View", body["primary_ocr_text"])
		require.Equal(t, "u1", body["user_id"])
		require.NotEmpty(t, body["image_base64"])

		json.NewEncoder(w).Encode(map[string]any{
			"success":    true,
			"analysis":   "a settings window",
			"model_used": "vision-1",
		})
	}))

	defer server.Close()

	c, err := custom.New(server.URL, custom.WithToken("secret"))
	require.NoError(t, err)

	result, err := c.Analyze(context.Background(), secondary.Request{
		Image: []byte{0x89, 0x50, 0x4e, 0x47},

		Question:    "what is shown?",
		PrimaryText: "File Edit View",

		UserID: "u1",
	})

	require.NoError(t, err)
	require.Equal(t, "a settings window", result.Analysis)
	require.Equal(t, "vision-1", result.Model)
}

func TestAnalyzeRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"error":   "image too large",
		})
	}))

	defer server.Close()

	c, err := custom.New(server.URL)
	require.NoError(t, err)

	_, err = c.Analyze(context.Background(), secondary.Request{Question: "q"})
	require.ErrorContains(t, err, "image too large")
}

func TestAnalyzeServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))

	defer server.Close()

	c, err := custom.New(server.URL)
	require.NoError(t, err)

	_, err = c.Analyze(context.Background(), secondary.Request{Question: "q"})
	require.ErrorContains(t, err, "upstream unavailable")
}

func TestNewRequiresURL(t *testing.T) {
	_, err := custom.New("")
	require.Error(t, err)
}
