package board

import (
	"cmp"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/zyedidia/generic/mapset"
)

type Placement int8

const (
	AnyTile Placement = iota
	NonHazard
	PlayerOrNeutral
	Explicit
	OwnedBy
)

var placementNames = map[Placement]string{
	AnyTile:         "random",
	NonHazard:       "non_hazard",
	PlayerOrNeutral: "player_or_neutral",
	Explicit:        "explicit",
	OwnedBy:         "owned_by",
}

func (p Placement) String() string {
	return placementNames[p]
}

func (p Placement) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Placement) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	if s == "" {
		*p = AnyTile
		return nil
	}
	for placement, name := range placementNames {
		if name == s {
			*p = placement
			return nil
		}
	}
	return fmt.Errorf("unknown placement rule %q", s)
}

// Special asks for Count tiles to receive the Kind flag.
type Special struct {
	Kind      Obstructions `yaml:"kind" json:"kind"`
	Count     int          `yaml:"count" json:"count"`
	Placement Placement    `yaml:"placement" json:"placement"`
	Positions []Position   `yaml:"positions" json:"positions,omitempty"`
	Owners    []Owner      `yaml:"owners" json:"owners,omitempty"`
	// NearDens weighs cells next to a den four times as heavily.
	NearDens bool `yaml:"near_dens" json:"near_dens,omitempty"`
}

// specialPriority places dens before anything whose eligibility depends on
// proximity to them.
var specialPriority = map[Obstructions]int{
	Sanctum:        0,
	Den:            1,
	MobileObstacle: 2,
	VisibleHazard:  3,
	HeavilySoiled:  4,
}

const denWeight = 4

type Params struct {
	Width, Height int
	Counts        map[Owner]int
	Holes         []Position
	Specials      []Special
	Rule          AdjacencyRule
}

// Cells lists the non-hole grid cells in scan order.
func (p Params) Cells() []Position {
	holes := mapset.New[Position]()
	for _, h := range p.Holes {
		holes.Put(h)
	}
	cells := make([]Position, 0, p.Width*p.Height)
	for y := range p.Height {
		for x := range p.Width {
			if pos := (Position{x, y}); !holes.Has(pos) {
				cells = append(cells, pos)
			}
		}
	}
	return cells
}

func (p Params) TileCount() (n int) {
	for _, o := range factions {
		n += p.Counts[o]
	}
	return
}

func (p Params) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("invalid board size %dx%d", p.Width, p.Height)
	}
	for o, n := range p.Counts {
		if n < 0 || !slices.Contains(factions, o) {
			return fmt.Errorf("invalid count %d for %s", n, o)
		}
	}
	if cells, tiles := len(p.Cells()), p.TileCount(); cells != tiles {
		return fmt.Errorf("%w: %d cells, %d tiles", ErrTileCountMismatch, cells, tiles)
	}
	for _, s := range p.Specials {
		if _, ok := specialPriority[s.Kind]; !ok {
			return fmt.Errorf("%w: kind %q", ErrBadSpecial, s.Kind)
		}
		if s.Count < 0 {
			return fmt.Errorf("%w: negative count", ErrBadSpecial)
		}
	}
	return nil
}

// New builds a board from validated level parameters. Every random choice
// is drawn from r, in a fixed order.
func New(p Params, r *rand.Rand) (b *Board, err error) {
	defer func() {
		var ae AssertionError
		if rec := recover(); rec != nil {
			if e, ok := rec.(error); ok && errors.As(e, &ae) {
				b, err = nil, ae
				return
			}
			panic(rec)
		}
	}()

	if err := p.Validate(); err != nil {
		return nil, err
	}

	labels := make([]Owner, 0, p.TileCount())
	for _, o := range factions {
		for range p.Counts[o] {
			labels = append(labels, o)
		}
	}
	r.Shuffle(len(labels), func(i, j int) {
		labels[i], labels[j] = labels[j], labels[i]
	})

	b = &Board{
		Width:  p.Width,
		Height: p.Height,
		Rule:   p.Rule,
		Tiles:  make(map[Position]*Tile, len(labels)),
	}
	for i, pos := range p.Cells() {
		b.Tiles[pos] = &Tile{Pos: pos, Owner: labels[i]}
	}

	specials := slices.Clone(p.Specials)
	slices.SortStableFunc(specials, func(a, c Special) int {
		return cmp.Compare(specialPriority[a.Kind], specialPriority[c.Kind])
	})
	for _, s := range specials {
		b.placeSpecial(s, r)
	}

	b.linkSanctums(r)

	if err := b.CheckSymmetry(); err != nil {
		return nil, err
	}

	Log.WithFields(b.Fields()).Debug("board generated")
	return b, nil
}

func (s Special) eligible(t *Tile) bool {
	if !t.Obstructions.None() || t.Owner == Empty {
		return false
	}
	switch s.Placement {
	case AnyTile:
		return true
	case NonHazard:
		return t.Owner != Hazard
	case PlayerOrNeutral:
		return t.Owner == Player || t.Owner == Neutral
	case Explicit:
		return slices.Contains(s.Positions, t.Pos)
	case OwnedBy:
		return slices.Contains(s.Owners, t.Owner)
	default:
		panic(AssertionError{fmt.Sprintf("unknown placement %d", s.Placement)})
	}
}

func (b *Board) placeSpecial(s Special, r *rand.Rand) {
	candidates := b.Select(s.eligible)

	var chosen []Position
	if s.NearDens {
		chosen = b.pickNearDens(candidates, s.Count, r)
	} else {
		chosen = Pick(candidates, s.Count, r)
	}
	for _, pos := range chosen {
		t := b.Tiles[pos]
		t.Obstructions = t.Obstructions.With(s.Kind)
	}

	Log.WithFields(logrus.Fields{
		"kind":       s.Kind.String(),
		"requested":  s.Count,
		"candidates": len(candidates),
		"placed":     len(chosen),
	}).Debug("special tiles placed")
}

// Pick draws up to n distinct positions uniformly at random, in draw order.
// candidates is reordered.
func Pick(candidates []Position, n int, r *rand.Rand) []Position {
	n = min(n, len(candidates))
	k := len(candidates)
	chosen := make([]Position, 0, n)
	for range n {
		i := r.IntN(k)
		chosen = append(chosen, candidates[i])
		k--
		candidates[i] = candidates[k]
	}
	return chosen
}

// pickNearDens draws one weighted cell at a time, removing it from the pool
// and recomputing weights before the next draw.
func (b *Board) pickNearDens(candidates []Position, n int, r *rand.Rand) []Position {
	pool := slices.Clone(candidates)
	chosen := make([]Position, 0, min(n, len(pool)))
	for len(chosen) < n && len(pool) > 0 {
		weights := make([]int, len(pool))
		total := 0
		for i, pos := range pool {
			weights[i] = 1
			if b.nextToDen(pos) {
				weights[i] = denWeight
			}
			total += weights[i]
		}
		x := r.IntN(total)
		i := 0
		for ; x >= weights[i]; i++ {
			x -= weights[i]
		}
		chosen = append(chosen, pool[i])
		pool = slices.Delete(pool, i, i+1)
	}
	return chosen
}

func (b *Board) nextToDen(p Position) bool {
	for _, q := range b.SpatialNeighbors(p) {
		if b.Tiles[q].Has(Den) {
			return true
		}
	}
	return false
}

// linkSanctums marks half (rounded up) of each sanctum's spatial neighbors
// as inner tiles, then connects every inner tile to all sanctums around it.
func (b *Board) linkSanctums(r *rand.Rand) {
	sanctums := b.Select(func(t *Tile) bool { return t.Has(Sanctum) })
	if len(sanctums) == 0 {
		return
	}

	marked := mapset.New[Position]()
	for _, s := range sanctums {
		candidates := make([]Position, 0)
		for _, q := range b.SpatialNeighbors(s) {
			t := b.Tiles[q]
			if !t.Has(Sanctum) && t.Owner != Empty {
				candidates = append(candidates, q)
			}
		}
		for _, q := range Pick(candidates, (len(candidates)+1)/2, r) {
			marked.Put(q)
		}
	}

	for p := range b.Positions() {
		if !marked.Has(p) {
			continue
		}
		t := b.Tiles[p]
		t.ConnectedSanctums = nil
		for _, q := range b.SpatialNeighbors(p) {
			if b.Tiles[q].Has(Sanctum) {
				t.ConnectedSanctums = append(t.ConnectedSanctums, q)
			}
		}
	}

	Log.WithFields(logrus.Fields{
		"sanctums": len(sanctums),
		"inner":    marked.Size(),
	}).Debug("sanctums linked")
}
