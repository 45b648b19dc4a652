// Package moves implements the tile state machine. Every exported operation
// leaves its input board untouched and returns the board after the move.
package moves

import (
	"fmt"
	"math/rand/v2"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/sanctum-sweeper/internal/board"
)

var Log = logrus.New()

// Cause tells whether a reveal is an ordinary targeted action or an effect
// that bypasses normal targeting.
type Cause int8

const (
	Direct Cause = iota
	Effect
)

type Outcome int8

const (
	Nothing Outcome = iota
	Unreachable
	Relocated
	Cleaned
	Revealed
)

func (o Outcome) String() string {
	switch o {
	case Unreachable:
		return "unreachable"
	case Relocated:
		return "relocated"
	case Cleaned:
		return "cleaned"
	case Revealed:
		return "revealed"
	default:
		return "nothing"
	}
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Outcome) UnmarshalText(text []byte) error {
	for v := Nothing; v <= Revealed; v++ {
		if v.String() == string(text) {
			*o = v
			return nil
		}
	}
	return fmt.Errorf("unknown reveal outcome %q", text)
}

type RevealResult struct {
	Outcome Outcome        `json:"outcome"`
	Pos     board.Position `json:"pos"`
	Owner   board.Owner    `json:"owner"`
	Count   int            `json:"count"`
	// Hazard is set when the revealed tile carried a visible hazard.
	Hazard   bool            `json:"hazard,omitempty"`
	Obstacle *ObstacleResult `json:"obstacle,omitempty"`
}

// Reachable reports whether a direct player action may target pos: inner
// tiles need at least one revealed connected sanctum.
func Reachable(b *board.Board, pos board.Position) bool {
	t := b.Tile(pos)
	if t == nil {
		return false
	}
	if !t.IsInner() {
		return true
	}
	for _, s := range t.ConnectedSanctums {
		if st := b.Tile(s); st != nil && st.Revealed {
			return true
		}
	}
	return false
}

// Reveal opens pos on behalf of actor. Probing a missing, revealed or empty
// tile is not an error: b comes back unchanged with Outcome Nothing.
func Reveal(
	b *board.Board, pos board.Position, actor board.Actor, cause Cause, r *rand.Rand,
) (*board.Board, RevealResult) {
	res := RevealResult{Pos: pos}
	t := b.Tile(pos)
	if t == nil || t.Revealed || t.Owner == board.Empty || actor == board.Nobody {
		return b, res
	}
	if cause == Direct && actor == board.ByPlayer && !Reachable(b, pos) {
		res.Outcome = Unreachable
		return b, res
	}

	next := b.Clone()

	if t.Has(board.MobileObstacle) {
		moved := moveObstacle(next, pos, r)
		res.Outcome = Relocated
		res.Obstacle = &moved
		return next, res
	}

	nt := next.Tile(pos)
	if nt.Has(board.HeavilySoiled) && actor == board.ByPlayer {
		nt.Obstructions = nt.Obstructions.Without(board.HeavilySoiled)
		res.Outcome = Cleaned
		return next, res
	}

	count := next.CountNeighbors(pos, actor.Faction())
	nt.SetCount(count)
	nt.Revealed = true
	nt.RevealedBy = actor
	nt.CleanedOnce = false
	res.Hazard = nt.Has(board.VisibleHazard)
	nt.Obstructions &= board.Sanctum

	res.Outcome = Revealed
	res.Owner = nt.Owner
	res.Count = count

	Log.WithFields(logrus.Fields{
		"pos":   pos.Key(),
		"actor": actor.String(),
		"owner": nt.Owner.String(),
		"count": count,
	}).Debug("tile revealed")

	return next, res
}
