package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Black-And-White-Club/volley-analyst/app"
	"github.com/Black-And-White-Club/volley-analyst/app/observability"
	"github.com/Black-And-White-Club/volley-analyst/config"
)

func main() {
	configFile := flag.String("config", "config.yaml", "Path to the configuration file")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	obs := observability.New(cfg.Observability)
	logger := obs.Logger

	application := app.NewApp(cfg, obs)
	if err := application.Initialize(ctx); err != nil {
		logger.Error("Failed to initialize application", "error", err)
		_ = application.Close()
		os.Exit(1)
	}

	runErr := application.Run(ctx)
	if runErr != nil {
		logger.Error("Application stopped with error", "error", runErr)
	}
	if err := application.Close(); err != nil {
		logger.Error("Error during shutdown", "error", err)
	}
	if runErr != nil {
		os.Exit(1)
	}
}
