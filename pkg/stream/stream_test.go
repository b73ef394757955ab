package stream

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"strings"
	"testing"
)

func collect(t *testing.T, input string) []Token {
	t.Helper()

	var tokens []Token

	err := Consume(context.Background(), strings.NewReader(input), func(ctx context.Context, token Token) error {
		tokens = append(tokens, token)
		return nil
	})

	if err != nil {
		t.Fatal(err)
	}

	return tokens
}

func contentOf(tokens []Token) string {
	var text strings.Builder

	for _, token := range tokens {
		if token.Kind == TokenContent {
			text.WriteString(token.Payload)
		}
	}

	return text.String()
}

func TestConsume(t *testing.T) {
	input := "data: {\"type\":\"header\",\"content\":\"# Answer\\n\"}\n" +
		"data: {\"type\":\"chunk\",\"content\":\"Hello, \"}\n" +
		"data: {\"type\":\"chunk\",\"content\":\"world.\"}\n" +
		"data: {\"type\":\"footer\",\"content\":\"\\n-- end\"}\n" +
		"data: [DONE]\n"

	tokens := collect(t, input)

	if got := contentOf(tokens); got != "# Answer\nHello, world.\n-- end" {
		t.Errorf("content = %q", got)
	}

	last := tokens[len(tokens)-1]

	if last.Kind != TokenDone {
		t.Errorf("last token = %+v, want done", last)
	}
}

func TestConsumeCompleteEvent(t *testing.T) {
	input := "data: {\"type\":\"chunk\",\"content\":\"hi\"}\n" +
		"data: {\"type\":\"complete\",\"content\":\"\"}\n" +
		"data: {\"type\":\"chunk\",\"content\":\"after\"}\n"

	tokens := collect(t, input)

	if got := contentOf(tokens); got != "hi" {
		t.Errorf("content after terminator delivered: %q", got)
	}

	if tokens[len(tokens)-1].Kind != TokenDone {
		t.Error("complete event must terminate with a done token")
	}
}

func TestConsumeErrorEvent(t *testing.T) {
	input := "data: {\"type\":\"error\",\"content\":\"model overloaded\"}\n"

	tokens := collect(t, input)

	if len(tokens) != 2 {
		t.Fatalf("tokens = %+v, want error then done", tokens)
	}

	if tokens[0].Kind != TokenError || tokens[0].Payload != "model overloaded" {
		t.Errorf("error token = %+v", tokens[0])
	}

	if tokens[1].Kind != TokenDone {
		t.Errorf("final token = %+v, want done", tokens[1])
	}
}

func TestConsumeSkipsNoise(t *testing.T) {
	input := ": comment line\n" +
		"\n" +
		"event: message\n" +
		"data: not json at all\n" +
		"data: {\"type\":\"telemetry\",\"content\":\"x\"}\n" +
		"data: {\"type\":\"chunk\",\"content\":\"kept\"}\n" +
		"data: [DONE]\n"

	tokens := collect(t, input)

	if got := contentOf(tokens); got != "kept" {
		t.Errorf("content = %q, want only the valid chunk", got)
	}
}

func TestConsumeEOFWithoutSentinel(t *testing.T) {
	tokens := collect(t, "data: {\"type\":\"chunk\",\"content\":\"partial answer\"}\n")

	if tokens[len(tokens)-1].Kind != TokenDone {
		t.Error("end of input must yield a done token")
	}
}

func TestConsumeCRLF(t *testing.T) {
	tokens := collect(t, "data: {\"type\":\"chunk\",\"content\":\"hi\"}\r\ndata: [DONE]\r\n")

	if got := contentOf(tokens); got != "hi" {
		t.Errorf("content = %q", got)
	}
}

// chunkedReader returns the underlying data in caller-chosen slice sizes,
// simulating arbitrary TCP segmentation.
type chunkedReader struct {
	data  []byte
	sizes []int
	pos   int
	step  int
}

func (r *chunkedReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}

	size := len(p)

	if r.step < len(r.sizes) && r.sizes[r.step] < size {
		size = r.sizes[r.step]
	}

	r.step++

	if r.pos+size > len(r.data) {
		size = len(r.data) - r.pos
	}

	n := copy(p, r.data[r.pos:r.pos+size])
	r.pos += n

	return n, nil
}

func TestConsumeChunkBoundaries(t *testing.T) {
	input := "data: {\"type\":\"chunk\",\"content\":\"The answer \"}\n" +
		"data: {\"type\":\"chunk\",\"content\":\"is 42.\"}\n" +
		"data: [DONE]\n"

	want := "The answer is 42."

	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 100; run++ {
		sizes := make([]int, 64)

		for i := range sizes {
			sizes[i] = 1 + rng.Intn(16)
		}

		reader := &chunkedReader{data: []byte(input), sizes: sizes}

		var tokens []Token

		err := Consume(context.Background(), reader, func(ctx context.Context, token Token) error {
			tokens = append(tokens, token)
			return nil
		})

		if err != nil {
			t.Fatal(err)
		}

		if got := contentOf(tokens); got != want {
			t.Fatalf("run %d: content = %q, want %q (sizes %v)", run, got, want, sizes)
		}
	}
}

func TestConsumeConnectionError(t *testing.T) {
	reader := io.MultiReader(
		strings.NewReader("data: {\"type\":\"chunk\",\"content\":\"hi\"}\n"),
		&failingReader{},
	)

	var tokens []Token

	err := Consume(context.Background(), reader, func(ctx context.Context, token Token) error {
		tokens = append(tokens, token)
		return nil
	})

	if err == nil {
		t.Fatal("expected the read error to propagate")
	}

	last := tokens[len(tokens)-1]

	if last.Kind != TokenError {
		t.Errorf("last token = %+v, want error", last)
	}
}

type failingReader struct{}

func (r *failingReader) Read(p []byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestConsumeCancellation(t *testing.T) {
	input := "data: {\"type\":\"chunk\",\"content\":\"first\"}\n" +
		"data: {\"type\":\"chunk\",\"content\":\"second\"}\n" +
		"data: {\"type\":\"chunk\",\"content\":\"third\"}\n"

	ctx, cancel := context.WithCancel(context.Background())

	var tokens []Token

	err := Consume(ctx, strings.NewReader(input), func(ctx context.Context, token Token) error {
		tokens = append(tokens, token)

		cancel()
		return nil
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}

	// All three lines arrive in one read, but nothing may be delivered past
	// the cancellation point.
	if len(tokens) != 1 {
		t.Fatalf("tokens after cancel = %+v, want only the first", tokens)
	}

	if tokens[0].Payload != "first" {
		t.Errorf("token = %+v, want the first chunk", tokens[0])
	}
}

func TestConsumeHandlerError(t *testing.T) {
	sentinel := errors.New("stop")

	err := Consume(context.Background(), strings.NewReader("data: {\"type\":\"chunk\",\"content\":\"a\"}\n"), func(ctx context.Context, token Token) error {
		return sentinel
	})

	if !errors.Is(err, sentinel) {
		t.Fatalf("err = %v, want handler error", err)
	}
}
