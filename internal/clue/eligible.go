package clue

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/vancomm/sanctum-sweeper/internal/board"
)

// Excluded returns the unrevealed tiles that provably do not belong to
// faction: neighbors of a tile revealed by that faction whose adjacency
// count is already matched by revealed same-faction neighbors.
func Excluded(b *board.Board, faction board.Owner) mapset.Set[board.Position] {
	out := mapset.New[board.Position]()
	for p := range b.Positions() {
		t := b.Tile(p)
		if !t.Revealed || t.AdjacencyCount == nil || t.RevealedBy.Faction() != faction {
			continue
		}
		known := 0
		hidden := make([]board.Position, 0)
		for _, q := range b.Neighbors(p) {
			n := b.Tile(q)
			switch {
			case n.Revealed && n.Owner == faction:
				known++
			case !n.Revealed && n.Owner != board.Empty:
				hidden = append(hidden, q)
			}
		}
		if known == *t.AdjacencyCount {
			for _, q := range hidden {
				out.Put(q)
			}
		}
	}
	return out
}

// Eligible lists, in scan order, the unrevealed tiles a clue about target
// may touch.
func Eligible(b *board.Board, target board.Owner) []board.Position {
	excluded := Excluded(b, target)
	return b.Select(func(t *board.Tile) bool {
		return !t.Revealed && t.Owner != board.Empty && !excluded.Has(t.Pos)
	})
}
