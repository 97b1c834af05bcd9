package forest

import (
	"github.com/iotaledger/hive.go/ierrors"
	"gopkg.in/yaml.v3"

	"forest-disease/internal/core"
)

// Direction is one of the four cardinal wind directions.
type Direction byte

const (
	North Direction = 'N'
	South Direction = 'S'
	East  Direction = 'E'
	West  Direction = 'W'
)

// Directions lists the cardinal directions in a fixed order.
var Directions = [4]Direction{North, South, East, West}

// ParseDirection converts "N", "S", "E" or "W" into a Direction.
func ParseDirection(s string) (Direction, error) {
	if len(s) == 1 {
		if d := Direction(s[0]); d.Valid() {
			return d, nil
		}
	}
	return 0, ierrors.Wrapf(ErrInvalidConfig, "unknown wind direction %q", s)
}

// Valid reports whether d is one of the four cardinal directions.
func (d Direction) Valid() bool {
	switch d {
	case North, South, East, West:
		return true
	}
	return false
}

func (d Direction) String() string {
	if !d.Valid() {
		return "?"
	}
	return string(rune(d))
}

// Matches reports whether to lies strictly in direction d as seen from from.
// Increasing y counts as north. A zero delta on the relevant axis never matches.
func (d Direction) Matches(from, to core.Pos) bool {
	dx := to.X - from.X
	dy := to.Y - from.Y
	switch d {
	case North:
		return dy > 0
	case South:
		return dy < 0
	case East:
		return dx > 0
	case West:
		return dx < 0
	}
	return false
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, ierrors.Wrapf(ErrInvalidConfig, "cannot encode direction %d", byte(d))
	}
	return []byte{byte(d)}, nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Direction) UnmarshalYAML(value *yaml.Node) error {
	return d.UnmarshalText([]byte(value.Value))
}

// MarshalYAML implements yaml.Marshaler.
func (d Direction) MarshalYAML() (any, error) {
	return d.String(), nil
}

const prevailingWeight = 3

// windRose is the discrete distribution spread directions are drawn from: the
// prevailing wind has weight 3, every other direction weight 1.
type windRose struct {
	weights [4]int
	total   int
}

func newWindRose(wind Direction) windRose {
	var r windRose
	for i, d := range Directions {
		r.weights[i] = 1
		if d == wind {
			r.weights[i] = prevailingWeight
		}
		r.total += r.weights[i]
	}
	return r
}

// Weight returns the relative weight of d.
func (r windRose) Weight(d Direction) int {
	for i, candidate := range Directions {
		if candidate == d {
			return r.weights[i]
		}
	}
	return 0
}

// Draw picks a direction according to the weights.
func (r windRose) Draw(rng *core.RNG) Direction {
	n := rng.IntN(r.total)
	for i, w := range r.weights {
		if n < w {
			return Directions[i]
		}
		n -= w
	}
	return Directions[len(Directions)-1]
}

// Vector returns the unit grid offset of d, with north pointing to +y.
func (d Direction) Vector() (dx, dy int) {
	switch d {
	case North:
		return 0, 1
	case South:
		return 0, -1
	case East:
		return 1, 0
	case West:
		return -1, 0
	}
	return 0, 0
}
