package moves

import (
	"fmt"
	"math/rand/v2"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/sanctum-sweeper/internal/board"
)

type ObstacleOutcome int8

const (
	NoObstacle ObstacleOutcome = iota
	Vanished
	Moved
	Exploded
)

func (o ObstacleOutcome) String() string {
	switch o {
	case Vanished:
		return "vanished"
	case Moved:
		return "moved"
	case Exploded:
		return "exploded"
	default:
		return "none"
	}
}

func (o ObstacleOutcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *ObstacleOutcome) UnmarshalText(text []byte) error {
	for v := NoObstacle; v <= Exploded; v++ {
		if v.String() == string(text) {
			*o = v
			return nil
		}
	}
	return fmt.Errorf("unknown obstacle outcome %q", text)
}

type ObstacleResult struct {
	Outcome ObstacleOutcome `json:"outcome"`
	From    board.Position  `json:"from"`
	To      board.Position  `json:"to"`
	// FirstThisTurn is set by ClearObstacle on the first clear of a turn.
	FirstThisTurn bool `json:"first_this_turn,omitempty"`
}

// MoveObstacle relocates the mobile obstacle at from to a random free
// neighbor, preferring tiles that are not hazards.
func MoveObstacle(b *board.Board, from board.Position, r *rand.Rand) (*board.Board, ObstacleResult) {
	if t := b.Tile(from); t == nil || !t.Has(board.MobileObstacle) {
		return b, ObstacleResult{From: from}
	}
	next := b.Clone()
	return next, moveObstacle(next, from, r)
}

// ClearObstacle is MoveObstacle for player tools; it stamps the per-turn
// flag so effects can reward the first clear of a turn.
func ClearObstacle(b *board.Board, from board.Position, r *rand.Rand) (*board.Board, ObstacleResult) {
	next, res := MoveObstacle(b, from, r)
	if res.Outcome == NoObstacle {
		return next, res
	}
	res.FirstThisTurn = !b.Turn.ObstacleCleared
	next.Turn.ObstacleCleared = true
	return next, res
}

func obstacleFree(t *board.Tile) bool {
	return !t.Revealed &&
		t.Owner != board.Empty &&
		!t.Has(board.MobileObstacle) &&
		!t.Has(board.Den)
}

// moveObstacle mutates b.
func moveObstacle(b *board.Board, from board.Position, r *rand.Rand) ObstacleResult {
	res := ObstacleResult{From: from}
	t := b.Tile(from)
	t.Obstructions = t.Obstructions.Without(board.MobileObstacle)

	// Only hidden ownership is avoided; a visible hazard is a fair target
	// and explodes on landing.
	var safe, hazards []board.Position
	for _, q := range b.Neighbors(from) {
		n := b.Tile(q)
		if !obstacleFree(n) {
			continue
		}
		if n.Owner == board.Hazard {
			hazards = append(hazards, q)
		} else {
			safe = append(safe, q)
		}
	}

	targets := safe
	if len(targets) == 0 {
		targets = hazards
	}
	if len(targets) == 0 {
		res.Outcome = Vanished
		Log.WithField("from", from.Key()).Debug("obstacle vanished")
		return res
	}

	res.To = targets[r.IntN(len(targets))]
	res.Outcome = place(b, res.To)

	Log.WithFields(logrus.Fields{
		"from":    from.Key(),
		"to":      res.To.Key(),
		"outcome": res.Outcome.String(),
	}).Debug("obstacle relocated")
	return res
}

// place puts a mobile obstacle on pos; landing on a visible hazard
// explodes the tile instead. Mutates b.
func place(b *board.Board, pos board.Position) ObstacleOutcome {
	t := b.Tile(pos)
	if t.Has(board.VisibleHazard) {
		destroy(b, pos)
		return Exploded
	}
	t.Obstructions = t.Obstructions.With(board.MobileObstacle)
	return Moved
}
