package moves

import "github.com/vancomm/sanctum-sweeper/internal/board"

// DefuseReward is granted by tools that always defuse.
const DefuseReward = 1

type DefuseResult struct {
	Defused bool `json:"defused"`
	// FirstHit is set when a two-hit tool only marked the hazard.
	FirstHit bool `json:"first_hit,omitempty"`
	Reward   int  `json:"reward,omitempty"`
}

// DefuseAlways removes a visible hazard at once. The tile stays unrevealed.
func DefuseAlways(b *board.Board, pos board.Position) (*board.Board, DefuseResult) {
	t := b.Tile(pos)
	if t == nil || !t.Has(board.VisibleHazard) {
		return b, DefuseResult{}
	}
	next := b.Clone()
	defuse(next.Tile(pos))
	return next, DefuseResult{Defused: true, Reward: DefuseReward}
}

// Scrub is the two-hit tool: the first contact only marks the hazard as
// cleaned once, the second defuses it. passive is the upgrade that makes
// the first contact count.
func Scrub(b *board.Board, pos board.Position, passive bool) (*board.Board, DefuseResult) {
	t := b.Tile(pos)
	if t == nil || !t.Has(board.VisibleHazard) {
		return b, DefuseResult{}
	}
	next := b.Clone()
	nt := next.Tile(pos)
	if nt.CleanedOnce || passive {
		defuse(nt)
		return next, DefuseResult{Defused: true}
	}
	nt.CleanedOnce = true
	return next, DefuseResult{FirstHit: true}
}

func defuse(t *board.Tile) {
	t.Obstructions = t.Obstructions.Without(board.VisibleHazard)
	t.CleanedOnce = false
}
