package board

import (
	"fmt"

	"github.com/zyedidia/generic/mapset"
)

var (
	standardOffsets = []Position{
		{-1, -1}, {0, -1}, {1, -1},
		{-1, 0}, {1, 0},
		{-1, 1}, {0, 1}, {1, 1},
	}
	manhattanOffsets = []Position{
		{0, -2},
		{-1, -1}, {0, -1}, {1, -1},
		{-2, 0}, {-1, 0}, {1, 0}, {2, 0},
		{-1, 1}, {0, 1}, {1, 1},
		{0, 2},
	}
	orthogonalOffsets = []Position{{0, -1}, {-1, 0}, {1, 0}, {0, 1}}
)

func (b *Board) offsets() []Position {
	switch b.Rule {
	case Standard:
		return standardOffsets
	case Manhattan2:
		return manhattanOffsets
	default:
		panic(AssertionError{fmt.Sprintf("unknown adjacency rule %d", b.Rule)})
	}
}

func (b *Board) around(p Position, offsets []Position) []Position {
	ps := make([]Position, 0, len(offsets))
	for _, d := range offsets {
		q := p.Add(d)
		if _, ok := b.Tiles[q]; ok {
			ps = append(ps, q)
		}
	}
	return ps
}

// SpatialNeighbors ignores portals: it is pure grid proximity under the
// board's adjacency rule.
func (b *Board) SpatialNeighbors(p Position) []Position {
	return b.around(p, b.offsets())
}

func (b *Board) orthogonalNeighbors(p Position) []Position {
	return b.around(p, orthogonalOffsets)
}

// linkedThrough reports whether q may take part in a long portal across
// sanctum s: regular tiles always can, inner tiles only through their own
// sanctums.
func (b *Board) linkedThrough(q, s Position) bool {
	t := b.Tiles[q]
	return !t.IsInner() || t.ConnectedTo(s)
}

// Neighbors returns the neighbor set of p in scan order. The relation is
// symmetric:
//
//   - an inner tile sees only its connected sanctums;
//   - a regular tile sees its spatial neighbors, minus inner tiles it is
//     not a sanctum of;
//   - under Manhattan2, tiles orthogonally adjacent to the same sanctum are
//     joined when at least one of them is an inner tile of that sanctum.
func (b *Board) Neighbors(p Position) []Position {
	t, ok := b.Tiles[p]
	if !ok {
		return nil
	}
	found := mapset.New[Position]()

	if t.IsInner() {
		for _, s := range t.ConnectedSanctums {
			if _, ok := b.Tiles[s]; ok {
				found.Put(s)
			}
		}
		if b.Rule == Manhattan2 {
			for _, s := range t.ConnectedSanctums {
				if !orthogonallyAdjacent(p, s) {
					continue
				}
				for _, q := range b.orthogonalNeighbors(s) {
					if b.linkedThrough(q, s) {
						found.Put(q)
					}
				}
			}
		}
	} else {
		for _, q := range b.SpatialNeighbors(p) {
			n := b.Tiles[q]
			if n.IsInner() && !n.ConnectedTo(p) {
				continue
			}
			found.Put(q)
		}
		if b.Rule == Manhattan2 {
			for _, s := range b.orthogonalNeighbors(p) {
				for _, q := range b.orthogonalNeighbors(s) {
					n := b.Tiles[q]
					if n.IsInner() && n.ConnectedTo(s) {
						found.Put(q)
					}
				}
			}
		}
	}

	found.Remove(p)
	ps := make([]Position, 0, found.Size())
	found.Each(func(q Position) {
		ps = append(ps, q)
	})
	return SortScan(ps)
}

// CountNeighbors counts neighbors of p owned by o.
func (b *Board) CountNeighbors(p Position, o Owner) (count int) {
	for _, q := range b.Neighbors(p) {
		if b.Tiles[q].Owner == o {
			count++
		}
	}
	return
}

// CheckSymmetry verifies the neighbor relation over the whole board.
func (b *Board) CheckSymmetry() error {
	sets := make(map[Position]mapset.Set[Position], len(b.Tiles))
	for p := range b.Positions() {
		set := mapset.New[Position]()
		for _, q := range b.Neighbors(p) {
			set.Put(q)
		}
		sets[p] = set
	}
	for p := range b.Positions() {
		var err error
		sets[p].Each(func(q Position) {
			if err == nil && !sets[q].Has(p) {
				err = AssertionError{fmt.Sprintf(
					"asymmetric adjacency: %s sees %s but not the reverse", p, q,
				)}
			}
		})
		if err != nil {
			return err
		}
	}
	return nil
}
