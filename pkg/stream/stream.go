// Package stream consumes newline-delimited inference events from a raw byte
// stream and yields ordered text tokens. Parsing is chunk-boundary agnostic:
// partial lines are buffered until the terminating newline arrives.
package stream

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
)

type TokenKind string

const (
	TokenContent TokenKind = "content"
	TokenError   TokenKind = "error"
	TokenDone    TokenKind = "done"
)

// Token is one incremental unit of a streamed answer. A done token is final:
// no token follows it.
type Token struct {
	Kind    TokenKind
	Payload string
}

type Handler = func(ctx context.Context, token Token) error

// Event is the wire payload carried by a data line.
type Event struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

const (
	EventTypeHeader   = "header"
	EventTypeChunk    = "chunk"
	EventTypeFooter   = "footer"
	EventTypeComplete = "complete"
	EventTypeError    = "error"
)

const (
	dataPrefix   = "data:"
	doneSentinel = "[DONE]"
)

// Consume reads the stream until a terminating event, end of input, caller
// cancellation, or a connection failure. Content fragments are delivered to
// the handler in arrival order; malformed or unrecognized events are skipped.
//
// The reader must be bound to ctx by the caller (an HTTP response body from a
// context-carrying request is), so cancellation closes the connection within
// the current read cycle.
func Consume(ctx context.Context, r io.Reader, handler Handler) error {
	var buffer []byte

	chunk := make([]byte, 4096)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := r.Read(chunk)

		if n > 0 {
			buffer = append(buffer, chunk[:n]...)

			lines, rest := splitLines(buffer)
			buffer = rest

			for _, line := range lines {
				// Cancellation stops delivery even for lines already
				// buffered from the current read.
				if err := ctx.Err(); err != nil {
					return err
				}

				done, err := processLine(ctx, line, handler)

				if err != nil {
					return err
				}

				if done {
					return nil
				}
			}
		}

		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}

			if err == io.EOF {
				return handler(ctx, Token{Kind: TokenDone})
			}

			handler(ctx, Token{Kind: TokenError, Payload: err.Error()})
			return err
		}
	}
}

// splitLines extracts all complete lines from the buffer. Trailing partial
// data is returned for the next read.
func splitLines(buffer []byte) ([]string, []byte) {
	var lines []string

	for {
		idx := -1

		for i, b := range buffer {
			if b == '\n' {
				idx = i
				break
			}
		}

		if idx < 0 {
			return lines, buffer
		}

		lines = append(lines, strings.TrimRight(string(buffer[:idx]), "\r"))
		buffer = buffer[idx+1:]
	}
}

// processLine dispatches one complete line. It reports true when the stream
// has terminated and no further bytes must be read.
func processLine(ctx context.Context, line string, handler Handler) (bool, error) {
	line = strings.TrimSpace(line)

	if !strings.HasPrefix(line, dataPrefix) {
		return false, nil
	}

	data := strings.TrimSpace(strings.TrimPrefix(line, dataPrefix))

	if data == "" {
		return false, nil
	}

	if data == doneSentinel {
		return true, handler(ctx, Token{Kind: TokenDone})
	}

	var event Event

	if err := json.Unmarshal([]byte(data), &event); err != nil {
		slog.Debug("skipping malformed stream event", "error", err)
		return false, nil
	}

	switch event.Type {
	case EventTypeHeader, EventTypeChunk, EventTypeFooter:
		return false, handler(ctx, Token{Kind: TokenContent, Payload: event.Content})

	case EventTypeComplete:
		return true, handler(ctx, Token{Kind: TokenDone})

	case EventTypeError:
		if err := handler(ctx, Token{Kind: TokenError, Payload: event.Content}); err != nil {
			return true, err
		}

		return true, handler(ctx, Token{Kind: TokenDone})

	default:
		slog.Debug("skipping unrecognized stream event", "type", event.Type)
		return false, nil
	}
}
