package board

import (
	"fmt"
	"slices"
	"strings"
)

// layoutOwners maps layout characters to owners. '.' marks a hole.
var layoutOwners = map[rune]Owner{
	'P': Player,
	'R': Rival,
	'N': Neutral,
	'H': Hazard,
	'X': Empty,
}

// FromRows builds a board from a fixed layout, one string per row. Rows may
// be ragged; missing cells are holes. Obstructions and sanctum links are
// left for the caller to set.
func FromRows(rule AdjacencyRule, rows ...string) (*Board, error) {
	b := &Board{
		Height: len(rows),
		Rule:   rule,
		Tiles:  make(map[Position]*Tile),
	}
	for y, row := range rows {
		row = strings.TrimRight(row, " ")
		b.Width = max(b.Width, len([]rune(row)))
		for x, c := range []rune(row) {
			if c == '.' || c == ' ' {
				continue
			}
			owner, ok := layoutOwners[c]
			if !ok {
				return nil, fmt.Errorf("unknown layout character %q at %d,%d", c, x, y)
			}
			pos := Position{x, y}
			b.Tiles[pos] = &Tile{Pos: pos, Owner: owner}
		}
	}
	if len(b.Tiles) == 0 {
		return nil, fmt.Errorf("empty layout")
	}
	return b, nil
}

// Link connects inner to the given sanctums, flagging them as sanctums.
// It is meant for fixed layouts; generated boards link themselves.
func (b *Board) Link(inner Position, sanctums ...Position) error {
	t := b.Tiles[inner]
	if t == nil {
		return fmt.Errorf("no tile at %s", inner)
	}
	for _, s := range sanctums {
		st := b.Tiles[s]
		if st == nil {
			return fmt.Errorf("no sanctum tile at %s", s)
		}
		if !slices.Contains(b.SpatialNeighbors(s), inner) {
			return fmt.Errorf("%s is not next to sanctum %s", inner, s)
		}
		st.Obstructions = st.Obstructions.With(Sanctum)
		if !t.ConnectedTo(s) {
			t.ConnectedSanctums = append(t.ConnectedSanctums, s)
		}
	}
	SortScan(t.ConnectedSanctums)
	return b.CheckSymmetry()
}
