package rival

import (
	"math/rand/v2"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/sanctum-sweeper/internal/board"
	"github.com/vancomm/sanctum-sweeper/internal/clue"
	"github.com/vancomm/sanctum-sweeper/internal/moves"
)

var Log = logrus.New()

type Options struct {
	Behaviors map[string]int
	Override  string

	// ClueKind and ClueParams shape the hidden clue; zero values mean
	// Imperious.
	ClueKind   board.ClueKind
	ClueParams clue.Params

	// HazardsPerTurn visible hazards are scattered once the rival is done.
	HazardsPerTurn int

	// HazardProtection charges let the rival keep going after revealing a
	// hazard instead of ending the turn.
	HazardProtection int
}

type Turn struct {
	Strategy string        `json:"strategy"`
	Spawns   []moves.Spawn `json:"spawns,omitempty"`
	Clue     clue.Clue     `json:"clue"`

	// Plan is the strategy's full wish list, Steps what actually happened.
	Plan  []board.Position     `json:"plan"`
	Steps []moves.RevealResult `json:"steps"`

	Hazards        []board.Position `json:"hazards,omitempty"`
	ProtectionUsed int              `json:"protection_used,omitempty"`

	// Stopped is the reveal that ended the turn early, if any.
	Stopped *moves.RevealResult `json:"stopped,omitempty"`
	// HitHazard is set when the turn ended on an unprotected hazard.
	HitHazard bool `json:"hit_hazard,omitempty"`

	Board *board.Board `json:"-"`
}

func hazardous(res moves.RevealResult) bool {
	return res.Owner == board.Hazard || res.Hazard
}

// PlayTurn runs one full rival turn on a copy of b.
func PlayTurn(b *board.Board, opts Options, r *rand.Rand) (Turn, error) {
	strategy, err := Pick(opts.Behaviors, opts.Override, r)
	if err != nil {
		return Turn{}, err
	}
	turn := Turn{Strategy: strategy.Name()}

	b, turn.Spawns = moves.SpawnFromDens(b, r)

	kind, params := opts.ClueKind, opts.ClueParams
	if kind == "" {
		kind = board.Imperious
	}
	if params == (clue.Params{}) {
		params = clue.ImperiousParams
	}
	turn.Clue = clue.Generate(b, kind, board.Rival, params, r)
	turn.Plan = strategy.SelectTilesToReveal(b, turn.Clue, Context{Rand: r})

	protection := opts.HazardProtection
	for _, pos := range turn.Plan {
		if t := b.Tile(pos); t == nil || t.Revealed || t.Owner == board.Empty {
			continue
		}
		var res moves.RevealResult
		b, res = moves.Reveal(b, pos, board.ByRival, moves.Effect, r)
		turn.Steps = append(turn.Steps, res)
		if res.Outcome != moves.Revealed {
			continue
		}
		// A visible hazard on the rival's own tile still goes off.
		if hazardous(res) {
			if protection > 0 {
				protection--
				turn.ProtectionUsed++
				continue
			}
			turn.Stopped = &res
			turn.HitHazard = true
			break
		}
		if res.Owner == board.Rival {
			continue
		}
		turn.Stopped = &res
		break
	}

	b, turn.Hazards = moves.PlaceHazards(b, opts.HazardsPerTurn, r)
	turn.Board = b

	Log.WithFields(logrus.Fields{
		"strategy": turn.Strategy,
		"planned":  len(turn.Plan),
		"revealed": len(turn.Steps),
		"spawns":   len(turn.Spawns),
		"hazards":  len(turn.Hazards),
		"stopped":  turn.Stopped != nil,
	}).Debug("rival turn played")
	return turn, nil
}
