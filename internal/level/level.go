// Package level loads the level catalogue: board shapes, faction counts,
// special tiles and rival behavior for each level.
package level

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/vancomm/sanctum-sweeper/internal/board"
	"github.com/vancomm/sanctum-sweeper/internal/clue"
	"github.com/vancomm/sanctum-sweeper/internal/rival"
)

var ErrUnknownLevel = errors.New("unknown level")

//go:embed levels.yaml
var defaultLevels []byte

type Counts struct {
	Player  int `yaml:"player" json:"player"`
	Rival   int `yaml:"rival" json:"rival"`
	Neutral int `yaml:"neutral" json:"neutral"`
	Hazard  int `yaml:"hazard" json:"hazard"`
}

func (c Counts) byOwner() map[board.Owner]int {
	return map[board.Owner]int{
		board.Player:  c.Player,
		board.Rival:   c.Rival,
		board.Neutral: c.Neutral,
		board.Hazard:  c.Hazard,
	}
}

type Rival struct {
	Behaviors map[string]int `yaml:"behaviors" json:"behaviors,omitempty"`
	Override  string         `yaml:"override" json:"override,omitempty"`
	// Clue is the kind of hidden clue the rival plays from.
	Clue             board.ClueKind `yaml:"clue" json:"clue,omitempty"`
	HazardsPerTurn   int            `yaml:"hazards_per_turn" json:"hazards_per_turn"`
	HazardProtection int            `yaml:"hazard_protection" json:"hazard_protection"`
}

type Level struct {
	Name     string              `yaml:"name" json:"name"`
	Title    string              `yaml:"title" json:"title"`
	Width    int                 `yaml:"width" json:"width"`
	Height   int                 `yaml:"height" json:"height"`
	Rule     board.AdjacencyRule `yaml:"rule" json:"rule"`
	Counts   Counts              `yaml:"counts" json:"counts"`
	Holes    []board.Position    `yaml:"holes" json:"holes,omitempty"`
	Specials []board.Special     `yaml:"specials" json:"specials,omitempty"`
	Rival    Rival               `yaml:"rival" json:"rival"`

	// HazardProtection is how many hazard reveals the player survives.
	HazardProtection int `yaml:"hazard_protection" json:"hazard_protection"`
}

func (l Level) Params() board.Params {
	return board.Params{
		Width:    l.Width,
		Height:   l.Height,
		Counts:   l.Counts.byOwner(),
		Holes:    l.Holes,
		Specials: l.Specials,
		Rule:     l.Rule,
	}
}

// Validate is the pre-flight check run before any board is built.
func (l Level) Validate() error {
	if l.Name == "" {
		return errors.New("level has no name")
	}
	if err := l.Params().Validate(); err != nil {
		return fmt.Errorf("level %s: %w", l.Name, err)
	}
	for name, w := range l.Rival.Behaviors {
		if w < 0 {
			return fmt.Errorf("level %s: negative weight for %s", l.Name, name)
		}
		if _, err := rival.Lookup(name); err != nil {
			return fmt.Errorf("level %s: %w", l.Name, err)
		}
	}
	if l.Rival.Override != "" {
		if _, err := rival.Lookup(l.Rival.Override); err != nil {
			return fmt.Errorf("level %s: %w", l.Name, err)
		}
	}
	switch l.Rival.Clue {
	case "", board.Imperious, board.Vague:
	default:
		return fmt.Errorf("level %s: rival cannot play %q clues", l.Name, l.Rival.Clue)
	}
	if l.HazardProtection < 0 || l.Rival.HazardProtection < 0 || l.Rival.HazardsPerTurn < 0 {
		return fmt.Errorf("level %s: negative hazard settings", l.Name)
	}
	return nil
}

func (l Level) NewBoard(r *rand.Rand) (*board.Board, error) {
	return board.New(l.Params(), r)
}

func (l Level) RivalOptions() rival.Options {
	opts := rival.Options{
		Behaviors:        l.Rival.Behaviors,
		Override:         l.Rival.Override,
		HazardsPerTurn:   l.Rival.HazardsPerTurn,
		HazardProtection: l.Rival.HazardProtection,
	}
	if l.Rival.Clue == board.Vague {
		opts.ClueKind = board.Vague
		opts.ClueParams = clue.VagueParams
	}
	return opts
}

// Catalogue keeps levels in file order.
type Catalogue struct {
	Levels []Level `yaml:"levels" json:"levels"`
}

func Load(r io.Reader) (*Catalogue, error) {
	var c Catalogue
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("unable to decode levels: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func LoadFile(path string) (*Catalogue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open levels file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Default returns the built-in catalogue.
func Default() *Catalogue {
	c, err := Load(bytes.NewReader(defaultLevels))
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalogue) Validate() error {
	if len(c.Levels) == 0 {
		return errors.New("no levels defined")
	}
	seen := make(map[string]bool, len(c.Levels))
	for _, l := range c.Levels {
		if err := l.Validate(); err != nil {
			return err
		}
		if seen[l.Name] {
			return fmt.Errorf("duplicate level %s", l.Name)
		}
		seen[l.Name] = true
	}
	return nil
}

func (c *Catalogue) Lookup(name string) (Level, error) {
	i := slices.IndexFunc(c.Levels, func(l Level) bool { return l.Name == name })
	if i < 0 {
		return Level{}, fmt.Errorf("%w: %q", ErrUnknownLevel, name)
	}
	return c.Levels[i], nil
}

func (c *Catalogue) Names() []string {
	names := make([]string, len(c.Levels))
	for i, l := range c.Levels {
		names[i] = l.Name
	}
	return names
}
