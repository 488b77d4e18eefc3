package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"pro_market/internal/bootstrap"
)

var (
	// Version information (set via build flags)
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	configPath := flag.String("config", "configs/marketplace.yaml", "Path to configuration file")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("marketplace version %s (built %s)\n", version, buildTime)
		os.Exit(0)
	}

	app, err := bootstrap.NewApp(context.Background(), *configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		os.Exit(1)
	}

	if err := app.Run(); err != nil {
		app.Logger.Error("Client stopped with error", "error", err.Error())
		os.Exit(1)
	}
}
