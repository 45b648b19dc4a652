// Package clue produces imperfect ownership information by drawing tiles
// from a weighted bag and turning the draw counts into pips.
package clue

import (
	"cmp"
	"math/rand/v2"
	"slices"

	"github.com/google/uuid"

	"github.com/vancomm/sanctum-sweeper/internal/board"
)

type Pip struct {
	Pos      board.Position `json:"pos"`
	Strength int            `json:"strength"`
}

type Clue struct {
	ID       uuid.UUID      `json:"id"`
	Kind     board.ClueKind `json:"kind"`
	Enhanced bool           `json:"enhanced"`
	Target   board.Owner    `json:"target"`
	Anti     bool           `json:"anti,omitempty"`

	// Pips are ordered by strength, strongest first, then scan order.
	Pips []Pip `json:"pips"`

	// Guaranteed lists the true tiles drawn before the random draws.
	Guaranteed []board.Position `json:"-"`
}

func (c Clue) Empty() bool {
	return len(c.Pips) == 0
}

func (c Clue) Strength(pos board.Position) int {
	for _, p := range c.Pips {
		if p.Pos == pos {
			return p.Strength
		}
	}
	return 0
}

// Total sums the pips handed out.
func (c Clue) Total() (n int) {
	for _, p := range c.Pips {
		n += p.Strength
	}
	return
}

// Affected lists the clue's tiles in scan order.
func (c Clue) Affected() []board.Position {
	ps := make([]board.Position, len(c.Pips))
	for i, p := range c.Pips {
		ps[i] = p.Pos
	}
	return board.SortScan(ps)
}

// Apply records the clue on every tile it touches.
func Apply(b *board.Board, c Clue) *board.Board {
	if c.Empty() {
		return b
	}
	next := b.Clone()
	next.ClueSeq++
	affected := c.Affected()
	for rank, p := range c.Pips {
		t := next.Tile(p.Pos)
		if t == nil {
			continue
		}
		t.Annotations = append(t.Annotations, board.ClueMark{
			ID:       c.ID,
			Kind:     c.Kind,
			Enhanced: c.Enhanced,
			Strength: p.Strength,
			Affected: slices.Clone(affected),
			Sequence: next.ClueSeq,
			Rank:     rank,
			Anti:     c.Anti,
		})
	}
	return next
}

type randReader struct {
	r *rand.Rand
}

func (rr randReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(rr.r.Uint32())
	}
	return len(p), nil
}

// newID draws the clue id from r so seeded runs stay reproducible.
func newID(r *rand.Rand) uuid.UUID {
	return uuid.Must(uuid.NewRandomFromReader(randReader{r}))
}

// tally turns draws into pips, strongest first.
func tally(draws []board.Position) []Pip {
	counts := make(map[board.Position]int)
	for _, p := range draws {
		counts[p]++
	}
	pips := make([]Pip, 0, len(counts))
	for p, n := range counts {
		pips = append(pips, Pip{Pos: p, Strength: n})
	}
	sortPips(pips)
	return pips
}

func sortPips(pips []Pip) {
	slices.SortFunc(pips, func(a, b Pip) int {
		if c := cmp.Compare(b.Strength, a.Strength); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Pos.Y, b.Pos.Y); c != 0 {
			return c
		}
		return cmp.Compare(a.Pos.X, b.Pos.X)
	})
}
