package clue

import (
	"math/rand/v2"
	"slices"

	"github.com/sirupsen/logrus"
	"github.com/zyedidia/generic/mapset"

	"github.com/vancomm/sanctum-sweeper/internal/board"
)

// Sarcastic tuning. Literal balance constants; keep them as they are.
const (
	antiTileCount = 3
)

// antiShapes lists (unrevealed neighbors, target neighbors) pairs that never
// qualify as anti-clue tiles even though the target holds a majority.
var antiShapes = map[[2]int]bool{
	{1, 1}: true,
	{2, 2}: true,
}

var (
	greenParams = Params{
		TrueCount: 3, NoiseCount: 6,
		CopiesTrue: 6, CopiesNoise: 3,
		TotalDraws: 8, Guaranteed: 2,
	}
	redParams = Params{
		TrueCount: 3, NoiseCount: 4,
		CopiesTrue: 5, CopiesNoise: 2,
		TotalDraws: 5, Guaranteed: 1,
	}
)

type plan struct {
	pips  []Pip
	anti  bool
	score int
}

// Sarcastic builds two candidate clues, an anti-clue that marks non-target
// tiles surrounded by target tiles and a green/red bag pair with negative
// pips, and keeps whichever disambiguates more target tiles. Ties go to the
// green/red plan.
func Sarcastic(b *board.Board, target board.Owner, r *rand.Rand) Clue {
	eligible := Eligible(b, target)
	anti := antiPlan(b, eligible, target, r)
	greenRed := greenRedPlan(b, eligible, target, r)

	chosen := greenRed
	if anti.score > greenRed.score {
		chosen = anti
	}

	Log.WithFields(logrus.Fields{
		"target":          target.String(),
		"anti_score":      anti.score,
		"green_red_score": greenRed.score,
		"anti":            chosen.anti,
	}).Debug("sarcastic clue scored")

	return Clue{
		ID:     newID(r),
		Kind:   board.Sarcastic,
		Target: target,
		Anti:   chosen.anti,
		Pips:   chosen.pips,
	}
}

// antiQualifies reports whether a tile with n unrevealed neighbors, k of
// them owned by the target, may carry an anti-clue.
func antiQualifies(n, k int) bool {
	return 2*k > n && !antiShapes[[2]int{n, k}]
}

func antiPlan(b *board.Board, eligible []board.Position, target board.Owner, r *rand.Rand) plan {
	type candidate struct {
		targets []board.Position
	}
	cands := make(map[board.Position]candidate)
	order := make([]board.Position, 0)
	for _, pos := range eligible {
		if b.Tile(pos).Owner == target {
			continue
		}
		n := 0
		var targets []board.Position
		for _, q := range b.Neighbors(pos) {
			t := b.Tile(q)
			if t.Revealed || t.Owner == board.Empty {
				continue
			}
			n++
			if t.Owner == target {
				targets = append(targets, q)
			}
		}
		if antiQualifies(n, len(targets)) {
			cands[pos] = candidate{targets}
			order = append(order, pos)
		}
	}

	chosen := board.Pick(order, antiTileCount, r)
	disambiguated := mapset.New[board.Position]()
	pips := make([]Pip, 0, len(chosen))
	for _, pos := range chosen {
		c := cands[pos]
		for _, q := range c.targets {
			disambiguated.Put(q)
		}
		pips = append(pips, Pip{Pos: pos, Strength: len(c.targets)})
	}
	sortPips(pips)
	return plan{pips: pips, anti: true, score: disambiguated.Size()}
}

func greenRedPlan(b *board.Board, eligible []board.Position, target board.Owner, r *rand.Rand) plan {
	var targets, others []board.Position
	for _, pos := range eligible {
		if b.Tile(pos).Owner == target {
			targets = append(targets, pos)
		} else {
			others = append(others, pos)
		}
	}

	net := make(map[board.Position]int)

	greenTrue := board.Pick(slices.Clone(targets), greenParams.TrueCount, r)
	greenNoise := board.Pick(without(eligible, greenTrue), greenParams.NoiseCount, r)
	green := buildBag(b, greenTrue, greenNoise, greenParams, targetSpoiler(target))
	draws, _ := drawBag(green, greenTrue, greenParams, r)
	for _, pos := range draws {
		net[pos]++
	}

	redTrue := board.Pick(slices.Clone(others), redParams.TrueCount, r)
	redNoise := board.Pick(without(eligible, redTrue), redParams.NoiseCount, r)
	red := buildBag(b, redTrue, redNoise, redParams, func(t *board.Tile) int {
		if t.Owner == target {
			return 1
		}
		return 0
	})
	draws, _ = drawBag(red, redTrue, redParams, r)
	for _, pos := range draws {
		net[pos]--
	}

	pips := make([]Pip, 0, len(net))
	score := 0
	for _, pos := range eligible {
		s, ok := net[pos]
		if !ok || s == 0 {
			continue
		}
		pips = append(pips, Pip{Pos: pos, Strength: s})
		if s > 0 && b.Tile(pos).Owner == target {
			score++
		}
	}
	sortPips(pips)
	return plan{pips: pips, score: score}
}

func without(ps, drop []board.Position) []board.Position {
	return slices.DeleteFunc(slices.Clone(ps), func(p board.Position) bool {
		return slices.Contains(drop, p)
	})
}
