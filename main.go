package main

import (
	"context"
	"flag"
	"log"

	"github.com/Black-And-White-Club/chart-ladders/app"
	"github.com/Black-And-White-Club/chart-ladders/config"
)

func main() {
	configFile := flag.String("config", "config.yaml", "Path to the configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	application, err := app.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}

	startErr := application.Start(ctx)
	cancel()

	if err := application.Close(); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	if startErr != nil {
		log.Fatalf("Server error: %v", startErr)
	}
}
