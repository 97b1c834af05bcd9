//go:build ebiten

package main

import (
	"os"

	"forest-disease/internal/app"
	"forest-disease/internal/core"
	"forest-disease/internal/sims/forest"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/spf13/pflag"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "forest"})

	cfg := app.NewConfig()
	cfg.Bind(pflag.CommandLine)
	pflag.Parse()

	sim, err := buildSim(cfg)
	if err != nil {
		logger.Fatal("cannot build simulation", "sim", cfg.Sim, "err", err)
	}
	sim.Reset(cfg.Seed)

	game := app.New(sim, cfg.Scale, cfg.Seed, cfg.HUD)
	size := sim.Size()

	ebiten.SetWindowTitle("forest-disease: " + sim.Name())
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(size.W*cfg.Scale+cfg.HUD, size.H*cfg.Scale)

	logger.Info("window open", "w", size.W, "h", size.H, "seed", cfg.Seed)
	if err := ebiten.RunGame(game); err != nil && !ierrors.Is(err, ebiten.Termination) {
		logger.Fatal("game loop", "err", err)
	}
}

func buildSim(cfg *app.Config) (core.Sim, error) {
	if cfg.Config != "" {
		fc, err := forest.LoadConfig(cfg.Config)
		if err != nil {
			return nil, err
		}
		return forest.NewWorld(fc)
	}
	factory, ok := core.Sims()[cfg.Sim]
	if !ok {
		return nil, ierrors.Errorf("unknown sim %q", cfg.Sim)
	}
	return factory(nil), nil
}
