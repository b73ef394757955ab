package main

import (
	"bufio"
	"bytes"
	"context"
	"flag"
	"fmt"
	"image/png"
	"os"
	"strings"

	"github.com/Pradhumn115/ruma-vision/pkg/capture/screen"
	"github.com/Pradhumn115/ruma-vision/pkg/client"
	"github.com/Pradhumn115/ruma-vision/pkg/stream"
)

func main() {
	urlFlag := flag.String("url", "http://localhost:8080", "server url")
	tokenFlag := flag.String("token", "", "server token")
	displayFlag := flag.Int("display", 0, "display index")
	fileFlag := flag.String("file", "", "image file instead of screen capture")

	flag.Parse()

	ctx := context.Background()

	options := []client.RequestOption{}

	if *tokenFlag != "" {
		options = append(options, client.WithToken(*tokenFlag))
	}

	c := client.New(*urlFlag, options...)

	image, err := grab(ctx, *displayFlag, *fileFlag)

	if err != nil {
		panic(err)
	}

	chat(ctx, c, image, *displayFlag)
}

func grab(ctx context.Context, display int, file string) ([]byte, error) {
	if file != "" {
		return os.ReadFile(file)
	}

	source, err := screen.New(screen.WithDisplay(display))

	if err != nil {
		return nil, err
	}

	frame, err := source.Capture(ctx)

	if err != nil {
		return nil, err
	}

	var data bytes.Buffer

	if err := png.Encode(&data, frame.Image); err != nil {
		return nil, err
	}

	return data.Bytes(), nil
}

func chat(ctx context.Context, c *client.Client, image []byte, display int) {
	reader := bufio.NewReader(os.Stdin)
	output := os.Stdout

	chatID := ""

LOOP:
	for {
		output.WriteString(">>> ")
		input, err := reader.ReadString('\n')

		if err != nil {
			panic(err)
		}

		input = strings.TrimSpace(input)

		if strings.HasPrefix(input, "/") {
			switch strings.ToLower(input) {
			case "/capture":
				data, err := grab(ctx, display, "")

				if err != nil {
					output.WriteString(err.Error() + "\n")
					continue LOOP
				}

				image = data
				output.WriteString("Captured\n")
				continue LOOP

			case "/analyze":
				result, err := c.Analyses.New(ctx, client.AnalysisRequest{Image: image})

				if err != nil {
					output.WriteString(err.Error() + "\n")
					continue LOOP
				}

				fmt.Fprintf(output, "%v\n", result["extracted_text"])
				continue LOOP

			case "/reset":
				chatID = ""
				continue LOOP

			default:
				output.WriteString("Unknown command\n")
				continue LOOP
			}
		}

		answer, err := c.Answers.New(ctx, client.AnswerRequest{
			Image: image,

			Question: input,
			ChatID:   chatID,

			Stream: func(ctx context.Context, token stream.Token) error {
				if token.Kind == stream.TokenContent {
					output.WriteString(token.Payload)
				}

				return nil
			},
		})

		if err != nil {
			output.WriteString(err.Error() + "\n")
			continue LOOP
		}

		chatID = answer.ChatID

		output.WriteString("\n")
		output.WriteString("\n")
	}
}
