package moves

import (
	"slices"

	"github.com/sirupsen/logrus"
	"github.com/zyedidia/generic/mapset"

	"github.com/vancomm/sanctum-sweeper/internal/board"
)

// Destroy turns pos into an empty, destroyed tile. It reports false and
// returns b unchanged when there is nothing left to destroy.
func Destroy(b *board.Board, pos board.Position) (*board.Board, bool) {
	if !destructible(b, pos) {
		return b, false
	}
	next := b.Clone()
	destroy(next, pos)
	return next, true
}

func destructible(b *board.Board, pos board.Position) bool {
	t := b.Tile(pos)
	if t == nil {
		return false
	}
	return t.Owner != board.Empty || !t.Obstructions.Without(board.Destroyed).None()
}

// destroy mutates b.
func destroy(b *board.Board, pos board.Position) {
	t := b.Tile(pos)

	affected := mapset.New[board.Position]()
	for _, q := range b.Neighbors(pos) {
		affected.Put(q)
	}

	var released []board.Position
	if t.Has(board.Sanctum) {
		released = b.Select(func(it *board.Tile) bool { return it.ConnectedTo(pos) })
		for _, ip := range released {
			it := b.Tile(ip)
			affected.Put(ip)
			for _, q := range b.Neighbors(ip) {
				affected.Put(q)
			}
			it.ConnectedSanctums = slices.DeleteFunc(it.ConnectedSanctums, func(s board.Position) bool {
				return s == pos
			})
			if len(it.ConnectedSanctums) == 0 {
				it.ConnectedSanctums = nil
			}
		}
	}

	t.Owner = board.Empty
	t.Revealed = false
	t.RevealedBy = board.Nobody
	t.AdjacencyCount = nil
	t.Obstructions = board.Destroyed
	t.Annotations = nil
	t.CleanedOnce = false

	// Released inner tiles see their spatial neighbors again.
	for _, ip := range released {
		for _, q := range b.Neighbors(ip) {
			affected.Put(q)
		}
	}
	affected.Remove(pos)

	recounted := 0
	for _, q := range b.Select(func(it *board.Tile) bool { return affected.Has(it.Pos) }) {
		nt := b.Tile(q)
		if !nt.Revealed {
			continue
		}
		nt.SetCount(b.CountNeighbors(q, nt.RevealedBy.Faction()))
		recounted++
	}

	b.RefreshAdjacencyInfo()
	b.StripFromClues(pos)

	Log.WithFields(logrus.Fields{
		"pos":       pos.Key(),
		"released":  len(released),
		"recounted": recounted,
	}).Debug("tile destroyed")
}
