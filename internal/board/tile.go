package board

import (
	"fmt"
	"slices"
	"strings"
)

type Owner int8

const (
	Empty Owner = iota
	Player
	Rival
	Neutral
	Hazard
)

// factions lists the owners a level can place, in label generation order.
var factions = []Owner{Player, Rival, Neutral, Hazard}

var ownerNames = map[Owner]string{
	Empty:   "empty",
	Player:  "player",
	Rival:   "rival",
	Neutral: "neutral",
	Hazard:  "hazard",
}

func (o Owner) String() string {
	if name, ok := ownerNames[o]; ok {
		return name
	}
	return fmt.Sprintf("owner(%d)", int8(o))
}

func (o Owner) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Owner) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	for owner, name := range ownerNames {
		if name == s {
			*o = owner
			return nil
		}
	}
	return fmt.Errorf("unknown owner %q", s)
}

// Actor is whoever performs a reveal.
type Actor int8

const (
	Nobody Actor = iota
	ByPlayer
	ByRival
)

func (a Actor) Faction() Owner {
	switch a {
	case ByPlayer:
		return Player
	case ByRival:
		return Rival
	case Nobody:
		return Empty
	default:
		panic(AssertionError{fmt.Sprintf("unknown actor %d", a)})
	}
}

func (a Actor) String() string {
	switch a {
	case ByPlayer:
		return "player"
	case ByRival:
		return "rival"
	default:
		return "nobody"
	}
}

func (a Actor) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Actor) UnmarshalText(text []byte) error {
	switch string(text) {
	case "player":
		*a = ByPlayer
	case "rival":
		*a = ByRival
	case "nobody", "":
		*a = Nobody
	default:
		return fmt.Errorf("unknown actor %q", text)
	}
	return nil
}

// Obstructions is a set of independent tile flags. A single flag is an
// Obstructions value with one bit set.
type Obstructions uint8

const (
	HeavilySoiled Obstructions = 1 << iota
	MobileObstacle
	Destroyed
	Den
	VisibleHazard
	Sanctum
)

var obstructionNames = []struct {
	flag Obstructions
	name string
}{
	{HeavilySoiled, "soiled"},
	{MobileObstacle, "obstacle"},
	{Destroyed, "destroyed"},
	{Den, "den"},
	{VisibleHazard, "visible_hazard"},
	{Sanctum, "sanctum"},
}

func (o Obstructions) Has(flag Obstructions) bool {
	return o&flag == flag
}

func (o Obstructions) With(flag Obstructions) Obstructions {
	return o | flag
}

func (o Obstructions) Without(flag Obstructions) Obstructions {
	return o &^ flag
}

func (o Obstructions) None() bool {
	return o == 0
}

func (o Obstructions) Names() []string {
	names := make([]string, 0)
	for _, n := range obstructionNames {
		if o.Has(n.flag) {
			names = append(names, n.name)
		}
	}
	return names
}

func (o Obstructions) String() string {
	return strings.Join(o.Names(), "|")
}

func (o Obstructions) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Obstructions) UnmarshalText(text []byte) error {
	var flags Obstructions
	for _, part := range strings.Split(string(text), "|") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		found := false
		for _, n := range obstructionNames {
			if n.name == part {
				flags |= n.flag
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("unknown obstruction %q", part)
		}
	}
	*o = flags
	return nil
}

type Tile struct {
	Pos        Position
	Owner      Owner
	Revealed   bool
	RevealedBy Actor

	// AdjacencyCount is frozen at reveal time; nil while unrevealed.
	AdjacencyCount *int

	Obstructions Obstructions
	Annotations  []Annotation

	// ConnectedSanctums is non-empty exactly when the tile is an inner tile.
	ConnectedSanctums []Position

	CleanedOnce bool
}

func (t *Tile) IsInner() bool {
	return len(t.ConnectedSanctums) > 0
}

func (t *Tile) ConnectedTo(sanctum Position) bool {
	return slices.Contains(t.ConnectedSanctums, sanctum)
}

func (t *Tile) Has(flag Obstructions) bool {
	return t.Obstructions.Has(flag)
}

// Count returns the frozen adjacency count, or -1 when the tile has none.
func (t *Tile) Count() int {
	if t.AdjacencyCount == nil {
		return -1
	}
	return *t.AdjacencyCount
}

func (t *Tile) SetCount(n int) {
	t.AdjacencyCount = &n
}

func (t *Tile) Clone() *Tile {
	c := *t
	if t.AdjacencyCount != nil {
		c.SetCount(*t.AdjacencyCount)
	}
	c.ConnectedSanctums = slices.Clone(t.ConnectedSanctums)
	if t.Annotations != nil {
		c.Annotations = make([]Annotation, len(t.Annotations))
		for i, a := range t.Annotations {
			c.Annotations[i] = a.clone()
		}
	}
	return &c
}

func (t *Tile) String() string {
	switch {
	case t.Owner == Empty:
		return "x"
	case t.Revealed:
		return fmt.Sprintf("%c%d", t.Owner.String()[0], t.Count())
	case t.Has(MobileObstacle):
		return "o"
	case t.Has(VisibleHazard):
		return "!"
	case t.Has(Den):
		return "d"
	case t.Has(Sanctum):
		return "s"
	case t.Has(HeavilySoiled):
		return "~"
	case t.IsInner():
		return "i"
	default:
		return "."
	}
}
