package config

import (
	"bytes"
	"os"

	"github.com/Pradhumn115/ruma-vision/pkg/analyzer"
	"github.com/Pradhumn115/ruma-vision/pkg/auth"
	"github.com/Pradhumn115/ruma-vision/pkg/pipeline"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Address string

	Authorizers []auth.Provider

	Engine   *analyzer.Engine
	Pipeline *pipeline.Pipeline
}

func Parse(path string) (*Config, error) {
	file, err := parseFile(path)

	if err != nil {
		return nil, err
	}

	c := &Config{
		Address: ":8080",
	}

	if file.Address != "" {
		c.Address = file.Address
	}

	if err := c.registerAuthorizer(file); err != nil {
		return nil, err
	}

	if err := c.registerEngine(file); err != nil {
		return nil, err
	}

	if err := c.registerPipeline(file); err != nil {
		return nil, err
	}

	return c, nil
}

type configFile struct {
	Address string `yaml:"address"`

	Authorizers []authorizerConfig `yaml:"authorizers"`

	Limit *int `yaml:"limit"`

	Recognizers recognizersConfig `yaml:"recognizers"`

	Secondary *secondaryConfig `yaml:"secondary"`
	Fusion    *fusionConfig    `yaml:"fusion"`
}

type recognizersConfig struct {
	Text       *recognizerConfig `yaml:"text"`
	Rectangles *recognizerConfig `yaml:"rectangles"`
	Labels     *recognizerConfig `yaml:"labels"`
	Payloads   *recognizerConfig `yaml:"payloads"`
}

type recognizerConfig struct {
	Type string `yaml:"type"`

	URL   string `yaml:"url"`
	Token string `yaml:"token"`

	Languages []string `yaml:"languages"`
}

type secondaryConfig struct {
	Type string `yaml:"type"`

	URL   string `yaml:"url"`
	Token string `yaml:"token"`
	Model string `yaml:"model"`

	Limit *int `yaml:"limit"`
}

type fusionConfig struct {
	URL   string `yaml:"url"`
	Token string `yaml:"token"`

	Limit *int `yaml:"limit"`
}

func parseFile(path string) (*configFile, error) {
	data, err := os.ReadFile(path)

	if err != nil {
		return nil, err
	}

	data = []byte(os.ExpandEnv(string(data)))

	var config configFile

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
