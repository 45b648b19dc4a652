// Package rival picks and plays the automated opponent's reveals.
package rival

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"sort"
	"sync"

	"github.com/vancomm/sanctum-sweeper/internal/board"
	"github.com/vancomm/sanctum-sweeper/internal/clue"
)

var ErrUnknownStrategy = errors.New("unknown rival strategy")

// DefaultStrategy is used when a level declares no behaviors.
const DefaultStrategy = "greedy"

// Context carries what a strategy may use besides the board and the clue.
type Context struct {
	Rand *rand.Rand
}

// Strategy orders the tiles the rival wants to reveal this turn. The list
// must be finite and hold only unrevealed, non-empty tiles; callers still
// re-check each entry before revealing it.
type Strategy interface {
	Name() string
	SelectTilesToReveal(b *board.Board, c clue.Clue, ctx Context) []board.Position
}

var (
	mu       sync.RWMutex
	registry = make(map[string]Strategy)
)

// Register adds s under its name, replacing any earlier entry.
func Register(s Strategy) {
	mu.Lock()
	defer mu.Unlock()
	registry[s.Name()] = s
}

func Lookup(name string) (Strategy, error) {
	mu.RLock()
	defer mu.RUnlock()
	s, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
	return s, nil
}

// Names lists registered strategies alphabetically.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Pick resolves the strategy for a turn: an explicit override wins,
// otherwise behaviors are drawn by weight. Names are walked alphabetically
// so a seeded r always picks the same one.
func Pick(behaviors map[string]int, override string, r *rand.Rand) (Strategy, error) {
	if override != "" {
		return Lookup(override)
	}
	names := make([]string, 0, len(behaviors))
	total := 0
	for name, w := range behaviors {
		if w > 0 {
			names = append(names, name)
			total += w
		}
	}
	if total == 0 {
		return Lookup(DefaultStrategy)
	}
	slices.Sort(names)
	x := r.IntN(total)
	for _, name := range names {
		if x < behaviors[name] {
			return Lookup(name)
		}
		x -= behaviors[name]
	}
	return Lookup(names[len(names)-1])
}

func init() {
	Register(greedy{})
	Register(cautious{})
	Register(reckless{})
}

func candidate(b *board.Board, pos board.Position) bool {
	t := b.Tile(pos)
	return t != nil && !t.Revealed && t.Owner != board.Empty
}

// greedy trusts the clue: every clue tile, strongest first.
type greedy struct{}

func (greedy) Name() string { return "greedy" }

func (greedy) SelectTilesToReveal(b *board.Board, c clue.Clue, _ Context) []board.Position {
	ps := make([]board.Position, 0, len(c.Pips))
	for _, p := range c.Pips {
		if p.Strength > 0 && candidate(b, p.Pos) {
			ps = append(ps, p.Pos)
		}
	}
	return ps
}

// cautious only takes clue tiles it knows are its own, and falls back to a
// single random own tile when the clue holds none.
type cautious struct{}

func (cautious) Name() string { return "cautious" }

func (cautious) SelectTilesToReveal(b *board.Board, c clue.Clue, ctx Context) []board.Position {
	ps := make([]board.Position, 0)
	for _, p := range c.Pips {
		if p.Strength > 0 && candidate(b, p.Pos) && b.Tile(p.Pos).Owner == board.Rival {
			ps = append(ps, p.Pos)
		}
	}
	if len(ps) > 0 {
		return ps
	}
	own := b.Select(func(t *board.Tile) bool {
		return candidate(b, t.Pos) && t.Owner == board.Rival
	})
	return board.Pick(own, 1, ctx.Rand)
}

// recklessExtra is how many blind guesses reckless appends.
const recklessExtra = 3

// reckless takes its own clue tiles, then guesses blindly.
type reckless struct{}

func (reckless) Name() string { return "reckless" }

func (reckless) SelectTilesToReveal(b *board.Board, c clue.Clue, ctx Context) []board.Position {
	ps := cautious{}.SelectTilesToReveal(b, c, ctx)
	rest := b.Select(func(t *board.Tile) bool {
		return candidate(b, t.Pos) && !slices.Contains(ps, t.Pos)
	})
	return append(ps, board.Pick(rest, recklessExtra, ctx.Rand)...)
}
