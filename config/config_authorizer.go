package config

import (
	"errors"
	"strings"

	"github.com/Pradhumn115/ruma-vision/pkg/auth"
	"github.com/Pradhumn115/ruma-vision/pkg/auth/header"
	"github.com/Pradhumn115/ruma-vision/pkg/auth/oidc"
	"github.com/Pradhumn115/ruma-vision/pkg/auth/static"
)

type authorizerConfig struct {
	Type string `yaml:"type"`

	Token string `yaml:"token"`

	Issuer   string `yaml:"issuer"`
	Audience string `yaml:"audience"`
}

func (c *Config) registerAuthorizer(file *configFile) error {
	for _, a := range file.Authorizers {
		authorizer, err := createAuthorizer(a)

		if err != nil {
			return err
		}

		c.Authorizers = append(c.Authorizers, authorizer)
	}

	return nil
}

func createAuthorizer(cfg authorizerConfig) (auth.Provider, error) {
	switch strings.ToLower(cfg.Type) {
	case "header":
		return header.New()

	case "static":
		return static.New(cfg.Token)

	case "oidc":
		return oidc.New(cfg.Issuer, cfg.Audience)

	default:
		return nil, errors.New("invalid authorizer type: " + cfg.Type)
	}
}
