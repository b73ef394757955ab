package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image"
	"net/http"

	_ "image/jpeg"
	_ "image/png"
)

type analyzeRequest struct {
	Image string `json:"image_base64"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	img, _, err := decodeImage(req.Image)

	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := s.Engine.Analyze(r.Context(), img)

	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJson(w, result.Document())
}

func decodeImage(data string) (image.Image, []byte, error) {
	if data == "" {
		return nil, nil, errors.New("image required")
	}

	raw, err := base64.StdEncoding.DecodeString(data)

	if err != nil {
		return nil, nil, errors.New("invalid image encoding")
	}

	img, _, err := image.Decode(bytes.NewReader(raw))

	if err != nil {
		return nil, nil, errors.New("invalid image data")
	}

	return img, raw, nil
}
