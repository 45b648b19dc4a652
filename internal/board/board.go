package board

import (
	"fmt"
	"iter"
	"strings"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

type AdjacencyRule int8

const (
	Standard AdjacencyRule = iota
	Manhattan2
)

func (r AdjacencyRule) String() string {
	switch r {
	case Standard:
		return "standard"
	case Manhattan2:
		return "manhattan2"
	default:
		return fmt.Sprintf("rule(%d)", int8(r))
	}
}

func (r AdjacencyRule) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *AdjacencyRule) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "", "standard":
		*r = Standard
	case "manhattan2":
		*r = Manhattan2
	default:
		return fmt.Errorf("unknown adjacency rule %q", text)
	}
	return nil
}

// TurnFlags are reset by the owner of the turn loop.
type TurnFlags struct {
	ObstacleCleared bool
}

type Board struct {
	Width, Height int
	Rule          AdjacencyRule
	Tiles         map[Position]*Tile
	Turn          TurnFlags

	// ClueSeq numbers clues in the order they were attached.
	ClueSeq int
}

func (b *Board) InBounds(p Position) bool {
	return 0 <= p.X && p.X < b.Width && 0 <= p.Y && p.Y < b.Height
}

// Tile returns the tile at p, or nil for holes and out-of-bounds positions.
func (b *Board) Tile(p Position) *Tile {
	return b.Tiles[p]
}

// Positions yields every tile position in scan order.
func (b *Board) Positions() iter.Seq[Position] {
	return func(yield func(Position) bool) {
		for y := range b.Height {
			for x := range b.Width {
				p := Position{x, y}
				if _, ok := b.Tiles[p]; !ok {
					continue
				}
				if !yield(p) {
					return
				}
			}
		}
	}
}

// Select returns the positions, in scan order, whose tile satisfies keep.
func (b *Board) Select(keep func(*Tile) bool) []Position {
	ps := make([]Position, 0)
	for p := range b.Positions() {
		if keep(b.Tiles[p]) {
			ps = append(ps, p)
		}
	}
	return ps
}

func (b *Board) Clone() *Board {
	c := *b
	c.Tiles = make(map[Position]*Tile, len(b.Tiles))
	for p, t := range b.Tiles {
		c.Tiles[p] = t.Clone()
	}
	return &c
}

// Remaining counts unrevealed tiles owned by o.
func (b *Board) Remaining(o Owner) (count int) {
	for _, t := range b.Tiles {
		if t.Owner == o && !t.Revealed {
			count++
		}
	}
	return
}

func (b *Board) String() string {
	var sb strings.Builder
	for y := range b.Height {
		for x := range b.Width {
			t, ok := b.Tiles[Position{x, y}]
			if !ok {
				fmt.Fprint(&sb, "   ")
				continue
			}
			fmt.Fprintf(&sb, "%-3s", t.String())
		}
		fmt.Fprint(&sb, "\n")
	}
	return sb.String()
}

func (b *Board) Fields() logrus.Fields {
	return logrus.Fields{
		"width":  b.Width,
		"height": b.Height,
		"rule":   b.Rule.String(),
		"tiles":  len(b.Tiles),
	}
}
