package main

import (
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/sanctum-sweeper/internal/board"
	"github.com/vancomm/sanctum-sweeper/internal/clue"
	"github.com/vancomm/sanctum-sweeper/internal/moves"
	"github.com/vancomm/sanctum-sweeper/internal/rival"
	"github.com/vancomm/sanctum-sweeper/internal/session"
)

func setEngineLevel(level logrus.Level) {
	for _, log := range []*logrus.Logger{board.Log, moves.Log, clue.Log, rival.Log} {
		log.SetLevel(level)
	}
}

type turnReport struct {
	Turn    int
	Clue    clue.Clue
	Reveals []moves.RevealResult
	Rival   *rival.Turn
}

type summary struct {
	Turns         int
	PlayerReveals int
	RivalReveals  int
	Clues         int
}

// autopilot asks for one clue per turn and follows its pips, strongest
// first, until the turn passes to the rival.
type autopilot struct {
	clue   board.ClueKind
	report func(turnReport)
}

func (p autopilot) playerTurn(s *session.Session) (turnReport, error) {
	r := turnReport{Turn: s.Turn}
	c, err := s.Clue(p.clue, false)
	if err != nil {
		return r, err
	}
	r.Clue = c

	pips := slices.Clone(c.Pips)
	slices.SortStableFunc(pips, func(a, b clue.Pip) int { return b.Strength - a.Strength })
	for _, pip := range pips {
		if s.Over() || s.Phase != session.PlayerTurn {
			break
		}
		res, err := s.Reveal(pip.Pos)
		if err != nil {
			return r, err
		}
		if res.Outcome != moves.Nothing {
			r.Reveals = append(r.Reveals, res)
		}
	}
	if !s.Over() && s.Phase == session.PlayerTurn {
		if err := s.EndTurn(); err != nil {
			return r, err
		}
	}
	return r, nil
}

func (p autopilot) play(s *session.Session, maxTurns int) (summary, error) {
	var sum summary
	for !s.Over() && s.Turn <= maxTurns {
		r, err := p.playerTurn(s)
		if err != nil {
			return sum, err
		}
		sum.Clues++
		sum.PlayerReveals += len(r.Reveals)

		if !s.Over() {
			turn, err := s.RivalTurn()
			if err != nil {
				return sum, err
			}
			r.Rival = &turn
			sum.RivalReveals += len(turn.Steps)
		}
		sum.Turns++
		if p.report != nil {
			p.report(r)
		}
	}
	return sum, nil
}
