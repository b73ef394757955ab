package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestParse(t *testing.T) {
	t.Setenv("FUSION_TOKEN", "secret")

	path := writeConfig(t, `
address: ":9090"

limit: 4

recognizers:
  text:
    type: custom
    url: http://localhost:9001

  labels:
    type: custom
    url: http://localhost:9002

secondary:
  type: custom
  url: http://localhost:9003

fusion:
  url: http://localhost:9004
  token: ${FUSION_TOKEN}
`)

	cfg, err := Parse(path)

	if err != nil {
		t.Fatal(err)
	}

	if cfg.Address != ":9090" {
		t.Errorf("address = %q", cfg.Address)
	}

	if cfg.Engine == nil {
		t.Error("expected an engine")
	}

	if cfg.Pipeline == nil {
		t.Error("expected a pipeline")
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(writeConfig(t, "{}"))

	if err != nil {
		t.Fatal(err)
	}

	if cfg.Address != ":8080" {
		t.Errorf("default address = %q", cfg.Address)
	}

	if cfg.Engine == nil {
		t.Error("expected a default engine")
	}

	if cfg.Pipeline != nil {
		t.Error("pipeline requires a fusion endpoint")
	}
}

func TestParseUnknownField(t *testing.T) {
	if _, err := Parse(writeConfig(t, "adress: \":9090\"\n")); err == nil {
		t.Error("expected error for unknown field")
	}
}

func TestParseUnknownRecognizerType(t *testing.T) {
	path := writeConfig(t, `
recognizers:
  text:
    type: cloudvision
`)

	if _, err := Parse(path); err == nil {
		t.Error("expected error for unknown recognizer type")
	}
}

func TestParseMissingFile(t *testing.T) {
	if _, err := Parse(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
