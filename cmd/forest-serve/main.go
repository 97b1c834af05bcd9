package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"forest-disease/internal/api"
	"forest-disease/internal/metrics"
	"forest-disease/internal/sims/forest"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
)

func main() {
	addr := pflag.String("addr", ":8080", "listen address")
	configPath := pflag.String("config", "", "YAML file with forest parameters")
	seed := pflag.Int64("seed", 0, "seed for the first run (0 keeps the config seed)")
	debug := pflag.Bool("debug", false, "log every request")
	pflag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "forest-serve", ReportTimestamp: true})
	if *debug {
		logger.SetLevel(log.DebugLevel)
	}

	cfg := forest.DefaultConfig()
	if *configPath != "" {
		loaded, err := forest.LoadConfig(*configPath)
		if err != nil {
			logger.Fatal("load config", "err", err)
		}
		cfg = loaded
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	world, err := forest.NewWorld(cfg)
	if err != nil {
		logger.Fatal("build world", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := api.New(world, metrics.New(), logger)
	if err := server.Run(ctx, *addr); err != nil {
		logger.Fatal("serve", "err", err)
	}
}
