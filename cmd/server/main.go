package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/Pradhumn115/ruma-vision/config"
	"github.com/Pradhumn115/ruma-vision/server"
)

func main() {
	configFlag := flag.String("config", "config.yaml", "configuration file")
	addressFlag := flag.String("address", "", "listen address")

	flag.Parse()

	cfg, err := config.Parse(*configFlag)

	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if *addressFlag != "" {
		cfg.Address = *addressFlag
	}

	s, err := server.New(cfg)

	if err != nil {
		slog.Error("unable to start server", "error", err)
		os.Exit(1)
	}

	slog.Info("starting server", "address", cfg.Address)

	if err := s.ListenAndServe(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
