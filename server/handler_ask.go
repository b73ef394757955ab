package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Pradhumn115/ruma-vision/pkg/auth"
	"github.com/Pradhumn115/ruma-vision/pkg/pipeline"
	"github.com/Pradhumn115/ruma-vision/pkg/stream"

	"github.com/google/uuid"
)

type askRequest struct {
	Image    string `json:"image_base64"`
	Question string `json:"question"`

	UserID string `json:"user_id"`
	ChatID string `json:"chat_id"`

	Stream bool `json:"stream"`
}

type askResponse struct {
	Answer string `json:"answer"`
	ChatID string `json:"chat_id"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if s.Pipeline == nil {
		writeError(w, http.StatusNotImplemented, errors.New("no fusion backend configured"))
		return
	}

	var req askRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if req.Question == "" {
		writeError(w, http.StatusBadRequest, errors.New("question required"))
		return
	}

	img, raw, err := decodeImage(req.Image)

	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := s.Engine.Analyze(r.Context(), img)

	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	userID := req.UserID

	if userID == "" {
		userID = auth.User(r.Context())
	}

	// The chat id is assigned before streaming starts so it can travel in a
	// response header ahead of the event stream.
	chatID := req.ChatID

	if chatID == "" {
		chatID = uuid.NewString()
	}

	request := pipeline.Request{
		Analysis: result,
		Image:    raw,

		Question: req.Question,

		UserID: userID,
		ChatID: chatID,
	}

	if req.Stream {
		s.streamAsk(w, r, request)
		return
	}

	exchange, err := s.Pipeline.Run(r.Context(), request)

	if err != nil {
		writeError(w, askErrorStatus(err), err)
		return
	}

	writeJson(w, askResponse{
		Answer: exchange.Answer,
		ChatID: exchange.ChatID,
	})
}

func (s *Server) streamAsk(w http.ResponseWriter, r *http.Request, request pipeline.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Chat-Id", request.ChatID)

	handler := func(ctx context.Context, token stream.Token) error {
		switch token.Kind {
		case stream.TokenContent:
			return writeEventData(w, stream.Event{Type: stream.EventTypeChunk, Content: token.Payload})

		case stream.TokenError:
			return writeEventData(w, stream.Event{Type: stream.EventTypeError, Content: token.Payload})

		default:
			return nil
		}
	}

	if _, err := s.Pipeline.Stream(r.Context(), request, handler); err != nil {
		writeEventData(w, stream.Event{Type: stream.EventTypeError, Content: err.Error()})
	}

	fmt.Fprintf(w, "data: [DONE]\n\n")
	http.NewResponseController(w).Flush()
}

func askErrorStatus(err error) int {
	switch {
	case errors.Is(err, pipeline.ErrRemoteUnavailable):
		return http.StatusBadGateway

	case errors.Is(err, pipeline.ErrRemoteRejected):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}
