package config

import (
	"errors"

	"github.com/Pradhumn115/ruma-vision/pkg/analyzer"
	"github.com/Pradhumn115/ruma-vision/pkg/recognizer"
	"github.com/Pradhumn115/ruma-vision/pkg/recognizer/custom"
	"github.com/Pradhumn115/ruma-vision/pkg/recognizer/raster"
	"github.com/Pradhumn115/ruma-vision/pkg/recognizer/tesseract"
	"github.com/Pradhumn115/ruma-vision/pkg/recognizer/zxing"

	"golang.org/x/time/rate"
)

func (c *Config) registerEngine(file *configFile) error {
	var options []analyzer.Option

	if text, err := createTextRecognizer(file.Recognizers.Text); err != nil {
		return err
	} else if text != nil {
		options = append(options, analyzer.WithTextRecognizer(text))
	}

	if rectangles, err := createRectangleDetector(file.Recognizers.Rectangles); err != nil {
		return err
	} else if rectangles != nil {
		options = append(options, analyzer.WithRectangleDetector(rectangles))
	}

	if classifier, err := createClassifier(file.Recognizers.Labels); err != nil {
		return err
	} else if classifier != nil {
		options = append(options, analyzer.WithClassifier(classifier))
	}

	if payloads, err := createPayloadDetector(file.Recognizers.Payloads); err != nil {
		return err
	} else if payloads != nil {
		options = append(options, analyzer.WithPayloadDetector(payloads))
	}

	if limiter := createLimiter(file.Limit); limiter != nil {
		options = append(options, analyzer.WithLimiter(limiter))
	}

	engine, err := analyzer.New(options...)

	if err != nil {
		return err
	}

	c.Engine = engine

	return nil
}

func createTextRecognizer(cfg *recognizerConfig) (recognizer.TextRecognizer, error) {
	if cfg == nil {
		return tesseract.New()
	}

	switch cfg.Type {
	case "", "tesseract":
		var options []tesseract.Option

		if len(cfg.Languages) > 0 {
			options = append(options, tesseract.WithLanguages(cfg.Languages...))
		}

		return tesseract.New(options...)

	case "custom":
		return createCustom(cfg)

	default:
		return nil, errors.New("unknown text recognizer type: " + cfg.Type)
	}
}

func createRectangleDetector(cfg *recognizerConfig) (recognizer.RectangleDetector, error) {
	if cfg == nil {
		return raster.New()
	}

	switch cfg.Type {
	case "", "raster":
		return raster.New()

	case "custom":
		return createCustom(cfg)

	default:
		return nil, errors.New("unknown rectangle detector type: " + cfg.Type)
	}
}

func createClassifier(cfg *recognizerConfig) (recognizer.Classifier, error) {
	if cfg == nil {
		return nil, nil
	}

	switch cfg.Type {
	case "", "custom":
		return createCustom(cfg)

	default:
		return nil, errors.New("unknown classifier type: " + cfg.Type)
	}
}

func createPayloadDetector(cfg *recognizerConfig) (recognizer.PayloadDetector, error) {
	if cfg == nil {
		return zxing.New()
	}

	switch cfg.Type {
	case "", "zxing":
		return zxing.New()

	case "custom":
		return createCustom(cfg)

	default:
		return nil, errors.New("unknown payload detector type: " + cfg.Type)
	}
}

func createCustom(cfg *recognizerConfig) (*custom.Client, error) {
	var options []custom.Option

	if cfg.Token != "" {
		options = append(options, custom.WithToken(cfg.Token))
	}

	return custom.New(cfg.URL, options...)
}

func createLimiter(limit *int) *rate.Limiter {
	if limit == nil {
		return nil
	}

	return rate.NewLimiter(rate.Limit(*limit), *limit)
}
