package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
)

type AnalysisService struct {
	Options []RequestOption
}

func NewAnalysisService(opts ...RequestOption) AnalysisService {
	return AnalysisService{
		Options: opts,
	}
}

type AnalysisRequest struct {
	Image []byte
}

func (r *AnalysisService) New(ctx context.Context, input AnalysisRequest, opts ...RequestOption) (map[string]any, error) {
	c := newRequestConfig(append(r.Options, opts...)...)

	body, _ := json.Marshal(map[string]any{
		"image_base64": base64.StdEncoding.EncodeToString(input.Image),
	})

	req, _ := http.NewRequestWithContext(ctx, "POST", c.URL+"/v1/analyze", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.Client.Do(req)

	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(resp.Status)
	}

	var result map[string]any

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	return result, nil
}
