package app

import (
	"github.com/spf13/pflag"
)

// Config represents the command-line parameters for the application.
type Config struct {
	Sim    string
	Scale  int
	TPS    int
	Seed   int64
	HUD    int
	Config string
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{Sim: "forest", Scale: 5, TPS: 10, Seed: 42, HUD: 260}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *pflag.FlagSet) {
	fs.StringVar(&c.Sim, "sim", c.Sim, "simulation to run")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for simulation reset")
	fs.IntVar(&c.HUD, "hud", c.HUD, "width of the parameter panel in pixels (0 hides it)")
	fs.StringVar(&c.Config, "config", c.Config, "optional YAML file with forest parameters")
}
