package main

import (
	"flag"
	"log"
	"os"

	"github.com/Nate99091/crypto/internal/di"
	"github.com/Nate99091/crypto/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	log.Printf("env=%s exchange=%s interval=%dm batch=%d",
		cfg.Environment, cfg.Exchange.BaseURL, cfg.Fetch.Interval, cfg.Fetch.BatchSize)

	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	if err := app.Run(); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
