package clue

import (
	"math/rand/v2"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/sanctum-sweeper/internal/board"
)

var Log = logrus.New()

// Params shape one bag clue. These numbers drive game balance.
type Params struct {
	TrueCount   int
	NoiseCount  int
	CopiesTrue  int
	CopiesNoise int
	TotalDraws  int
	Guaranteed  int
}

var (
	ImperiousParams = Params{
		TrueCount: 2, NoiseCount: 6,
		CopiesTrue: 12, CopiesNoise: 4,
		TotalDraws: 10, Guaranteed: 2,
	}
	VagueParams = Params{
		TrueCount: 5, NoiseCount: 14,
		CopiesTrue: 4, CopiesNoise: 2,
		TotalDraws: 10, Guaranteed: 3,
	}
	VagueEnhancedParams = Params{
		TrueCount: 5, NoiseCount: 14,
		CopiesTrue: 4, CopiesNoise: 2,
		TotalDraws: 10, Guaranteed: 5,
	}
)

// spoiler returns how many copies a noise tile loses.
type spoiler func(t *board.Tile) int

// targetSpoiler keeps noise from looking like true tiles: hazards lose a
// copy and tiles that happen to share the target faction lose another.
func targetSpoiler(target board.Owner) spoiler {
	return func(t *board.Tile) int {
		n := 0
		if t.Owner == board.Hazard || t.Has(board.VisibleHazard) {
			n++
		}
		if t.Owner == target {
			n++
		}
		return n
	}
}

// bag is a multiset of positions stored as repeated entries.
type bag struct {
	entries []board.Position
}

func buildBag(b *board.Board, trueSet, noise []board.Position, p Params, spoil spoiler) *bag {
	bg := &bag{}
	for _, pos := range trueSet {
		bg.put(pos, p.CopiesTrue)
	}
	for _, pos := range noise {
		bg.put(pos, p.CopiesNoise-spoil(b.Tile(pos)))
	}
	return bg
}

func (bg *bag) put(pos board.Position, copies int) {
	for range max(copies, 0) {
		bg.entries = append(bg.entries, pos)
	}
}

func (bg *bag) size() int {
	return len(bg.entries)
}

func (bg *bag) copies(pos board.Position) (n int) {
	for _, e := range bg.entries {
		if e == pos {
			n++
		}
	}
	return
}

// take removes one copy of pos, reporting whether there was one.
func (bg *bag) take(pos board.Position) bool {
	i := slices.Index(bg.entries, pos)
	if i < 0 {
		return false
	}
	bg.entries = slices.Delete(bg.entries, i, i+1)
	return true
}

// draw removes and returns a uniformly chosen entry.
func (bg *bag) draw(r *rand.Rand) board.Position {
	i := r.IntN(len(bg.entries))
	pos := bg.entries[i]
	last := len(bg.entries) - 1
	bg.entries[i] = bg.entries[last]
	bg.entries = bg.entries[:last]
	return pos
}

// drawBag draws min(TotalDraws, bag size) entries: the first guaranteed
// draws are the leading true tiles, the rest come out of the bag at random.
func drawBag(bg *bag, trueSet []board.Position, p Params, r *rand.Rand) (draws, guaranteed []board.Position) {
	g := min(p.Guaranteed, len(trueSet), p.TotalDraws)
	draws = make([]board.Position, 0, min(p.TotalDraws, bg.size()))
	for _, pos := range trueSet[:max(g, 0)] {
		if bg.take(pos) {
			draws = append(draws, pos)
			guaranteed = append(guaranteed, pos)
		}
	}
	for len(draws) < p.TotalDraws && bg.size() > 0 {
		draws = append(draws, bg.draw(r))
	}
	return draws, guaranteed
}

// Generate builds a bag clue hinting at target. Small pools shrink the clue
// rather than failing it.
func Generate(b *board.Board, kind board.ClueKind, target board.Owner, p Params, r *rand.Rand) Clue {
	eligible := Eligible(b, target)

	trueCands := make([]board.Position, 0)
	for _, pos := range eligible {
		if b.Tile(pos).Owner == target {
			trueCands = append(trueCands, pos)
		}
	}
	trueSet := board.Pick(trueCands, p.TrueCount, r)

	noiseCands := slices.DeleteFunc(slices.Clone(eligible), func(pos board.Position) bool {
		return slices.Contains(trueSet, pos)
	})
	noise := board.Pick(noiseCands, p.NoiseCount, r)

	bg := buildBag(b, trueSet, noise, p, targetSpoiler(target))
	bagSize := bg.size()
	draws, guaranteed := drawBag(bg, trueSet, p, r)

	c := Clue{
		ID:         newID(r),
		Kind:       kind,
		Target:     target,
		Pips:       tally(draws),
		Guaranteed: guaranteed,
	}

	Log.WithFields(logrus.Fields{
		"kind":   kind,
		"target": target.String(),
		"true":   len(trueSet),
		"noise":  len(noise),
		"bag":    bagSize,
		"draws":  len(draws),
	}).Debug("clue generated")
	return c
}

func Imperious(b *board.Board, target board.Owner, r *rand.Rand) Clue {
	return Generate(b, board.Imperious, target, ImperiousParams, r)
}

// Vague spreads fewer pips over more tiles; enhanced guarantees all five
// true tiles.
func Vague(b *board.Board, target board.Owner, enhanced bool, r *rand.Rand) Clue {
	p := VagueParams
	if enhanced {
		p = VagueEnhancedParams
	}
	c := Generate(b, board.Vague, target, p, r)
	c.Enhanced = enhanced
	return c
}
