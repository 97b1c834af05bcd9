package forest

import (
	"os"
	"strconv"

	"github.com/iotaledger/hive.go/ierrors"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every configuration validation failure.
var ErrInvalidConfig = ierrors.New("invalid forest config")

// Params holds the disease parameters of a run.
type Params struct {
	// Density is the chance an empty cell receives a tree at seeding.
	Density float64 `yaml:"density" json:"density"`
	// Mortality is how many ticks a tree stays infected before it dies.
	Mortality int       `yaml:"mortality" json:"mortality"`
	Wind      Direction `yaml:"wind" json:"wind"`
	// Distance is the Moore radius an infected tree spreads over.
	Distance int `yaml:"distance" json:"distance"`

	// CarrierMoore switches the carrier from 4- to 8-connected movement.
	CarrierMoore bool `yaml:"carrier_moore" json:"carrier_moore"`
}

// Config controls the forest simulation dimensions and parameters.
type Config struct {
	Width  int   `yaml:"width" json:"width"`
	Height int   `yaml:"height" json:"height"`
	Seed   int64 `yaml:"seed" json:"seed"`

	Params Params `yaml:",inline" json:"params"`
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:  100,
		Height: 100,
		Seed:   1337,
		Params: Params{
			Density:   0.65,
			Mortality: 1,
			Wind:      North,
			Distance:  1,
		},
	}
}

// Validate reports every parameter outside its allowed range.
func (c Config) Validate() error {
	var errs []error
	if c.Width <= 0 {
		errs = append(errs, ierrors.Wrapf(ErrInvalidConfig, "width must be positive, got %d", c.Width))
	}
	if c.Height <= 0 {
		errs = append(errs, ierrors.Wrapf(ErrInvalidConfig, "height must be positive, got %d", c.Height))
	}
	if !(c.Params.Density > 0 && c.Params.Density <= 1) {
		errs = append(errs, ierrors.Wrapf(ErrInvalidConfig, "density must be in (0,1], got %v", c.Params.Density))
	}
	if c.Params.Mortality <= 0 {
		errs = append(errs, ierrors.Wrapf(ErrInvalidConfig, "mortality must be positive, got %d", c.Params.Mortality))
	}
	if !c.Params.Wind.Valid() {
		errs = append(errs, ierrors.Wrapf(ErrInvalidConfig, "wind must be one of N, S, E, W, got %q", c.Params.Wind.String()))
	}
	if c.Params.Distance <= 0 {
		errs = append(errs, ierrors.Wrapf(ErrInvalidConfig, "distance must be positive, got %d", c.Params.Distance))
	}
	if len(errs) == 0 {
		return nil
	}
	return ierrors.Join(errs...)
}

// LoadConfig reads a YAML file on top of DefaultConfig and validates the result.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	b, err := os.ReadFile(path)
	if err != nil {
		return c, ierrors.Wrapf(err, "read config %s", path)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return c, ierrors.Wrapf(err, "parse config %s", path)
	}
	if err := c.Validate(); err != nil {
		return c, ierrors.Wrapf(err, "config %s", path)
	}
	return c, nil
}

// FromMap populates the default config from a string map (flag-style
// key/value pairs).
func FromMap(cfg map[string]string) Config {
	return DefaultConfig().Apply(cfg)
}

// Apply returns c with the recognised keys of cfg overridden. Values that fail
// to parse or fall outside their range are ignored.
func (c Config) Apply(cfg map[string]string) Config {
	if cfg == nil {
		return c
	}
	if v, ok := cfg["width"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["height"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["density"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 && parsed <= 1 {
			c.Params.Density = parsed
		}
	}
	if v, ok := cfg["mortality"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Params.Mortality = parsed
		}
	}
	if v, ok := cfg["wind"]; ok {
		if parsed, err := ParseDirection(v); err == nil {
			c.Params.Wind = parsed
		}
	}
	if v, ok := cfg["distance"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Params.Distance = parsed
		}
	}
	if v, ok := cfg["carrier_moore"]; ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			c.Params.CarrierMoore = parsed
		}
	}
	return c
}
