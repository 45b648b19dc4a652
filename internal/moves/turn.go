package moves

import (
	"math/rand/v2"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/sanctum-sweeper/internal/board"
)

type Spawn struct {
	Den      board.Position `json:"den"`
	At       board.Position `json:"at"`
	Exploded bool           `json:"exploded,omitempty"`
}

// spawnTier ranks a den neighbor; lower tiers are used first and -1 means
// the tile cannot take an obstacle.
func spawnTier(t *board.Tile) int {
	if !obstacleFree(t) {
		return -1
	}
	switch hazard, visible := t.Owner == board.Hazard, t.Has(board.VisibleHazard); {
	case !hazard && !visible:
		return 0
	case hazard && !visible:
		return 1
	case !hazard && visible:
		return 2
	default:
		return 3
	}
}

// SpawnFromDens lets every unrevealed den drop a mobile obstacle on a
// neighbor from its best non-empty tier. Dens act in scan order and see
// the obstacles placed before them.
func SpawnFromDens(b *board.Board, r *rand.Rand) (*board.Board, []Spawn) {
	dens := b.Select(func(t *board.Tile) bool {
		return !t.Revealed && t.Has(board.Den)
	})
	if len(dens) == 0 {
		return b, nil
	}

	next := b.Clone()
	spawns := make([]Spawn, 0, len(dens))
	for _, den := range dens {
		var tiers [4][]board.Position
		for _, q := range next.Neighbors(den) {
			if tier := spawnTier(next.Tile(q)); tier >= 0 {
				tiers[tier] = append(tiers[tier], q)
			}
		}
		for _, tier := range tiers {
			if len(tier) == 0 {
				continue
			}
			at := tier[r.IntN(len(tier))]
			spawns = append(spawns, Spawn{
				Den:      den,
				At:       at,
				Exploded: place(next, at) == Exploded,
			})
			break
		}
	}

	Log.WithFields(logrus.Fields{
		"dens":   len(dens),
		"spawns": len(spawns),
	}).Debug("dens spawned")
	return next, spawns
}

// PlaceHazards flags up to count random unrevealed tiles that are not
// rival-owned and carry no hazard or obstacle yet.
func PlaceHazards(b *board.Board, count int, r *rand.Rand) (*board.Board, []board.Position) {
	if count <= 0 {
		return b, nil
	}
	candidates := b.Select(func(t *board.Tile) bool {
		return !t.Revealed &&
			t.Owner != board.Rival &&
			t.Owner != board.Empty &&
			!t.Has(board.VisibleHazard) &&
			!t.Has(board.MobileObstacle)
	})
	chosen := board.Pick(candidates, count, r)
	if len(chosen) == 0 {
		return b, nil
	}
	next := b.Clone()
	for _, pos := range chosen {
		t := next.Tile(pos)
		t.Obstructions = t.Obstructions.With(board.VisibleHazard)
	}
	Log.WithField("placed", len(chosen)).Debug("hazards placed")
	return next, chosen
}

// ResetTurn clears the per-turn flags.
func ResetTurn(b *board.Board) *board.Board {
	if b.Turn == (board.TurnFlags{}) {
		return b
	}
	next := b.Clone()
	next.Turn = board.TurnFlags{}
	return next
}
