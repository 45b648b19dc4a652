// Package session runs one level from the first reveal to a win or a loss.
package session

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/vancomm/sanctum-sweeper/internal/board"
	"github.com/vancomm/sanctum-sweeper/internal/clue"
	"github.com/vancomm/sanctum-sweeper/internal/level"
	"github.com/vancomm/sanctum-sweeper/internal/moves"
	"github.com/vancomm/sanctum-sweeper/internal/rival"
)

var (
	ErrSessionOver   = errors.New("session is over")
	ErrNotPlayerTurn = errors.New("it is the rival's turn")
	ErrNotRivalTurn  = errors.New("it is the player's turn")
	ErrClueUsed      = errors.New("a clue was already used this turn")
	ErrBadClueKind   = errors.New("unknown clue kind")
)

type Status int8

const (
	Playing Status = iota
	Won
	Lost
)

var statusNames = []string{"playing", "won", "lost"}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("status(%d)", int8(s))
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	for i, name := range statusNames {
		if name == string(text) {
			*s = Status(i)
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", text)
}

type Phase int8

const (
	PlayerTurn Phase = iota
	RivalTurn
)

func (p Phase) String() string {
	if p == RivalTurn {
		return "rival"
	}
	return "player"
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	switch string(text) {
	case "player":
		*p = PlayerTurn
	case "rival":
		*p = RivalTurn
	default:
		return fmt.Errorf("unknown phase %q", text)
	}
	return nil
}

type Session struct {
	Level  string
	Board  *board.Board
	Turn   int
	Phase  Phase
	Status Status

	// Protection is the number of hazard reveals the player still survives.
	Protection int
	ClueUsed   bool
	LastClue   *clue.Clue
	LastRival  *rival.Turn
	Rival      rival.Options

	// RandState is the serialized generator, refreshed by Bytes.
	RandState []byte

	pcg *rand.PCG
	rnd *rand.Rand
}

// New starts a session on a fresh board for l. The seeds fully determine
// the session.
func New(l level.Level, seed1, seed2 uint64) (*Session, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	pcg := rand.NewPCG(seed1, seed2)
	rnd := rand.New(pcg)
	b, err := l.NewBoard(rnd)
	if err != nil {
		return nil, err
	}
	return &Session{
		Level:      l.Name,
		Board:      b,
		Turn:       1,
		Protection: l.HazardProtection,
		Rival:      l.RivalOptions(),
		pcg:        pcg,
		rnd:        rnd,
	}, nil
}

func (s *Session) Over() bool {
	return s.Status != Playing
}

func (s *Session) playerMove() error {
	switch {
	case s.Over():
		return ErrSessionOver
	case s.Phase != PlayerTurn:
		return ErrNotPlayerTurn
	}
	return nil
}

func hazardous(res moves.RevealResult) bool {
	return res.Owner == board.Hazard || res.Hazard
}

// Reveal opens pos for the player. Revealing an own tile keeps the turn
// going; anything else hands the turn to the rival. Probes that change
// nothing are reported through the result, not as errors.
func (s *Session) Reveal(pos board.Position) (moves.RevealResult, error) {
	if err := s.playerMove(); err != nil {
		return moves.RevealResult{Pos: pos}, err
	}
	b, res := moves.Reveal(s.Board, pos, board.ByPlayer, moves.Direct, s.rnd)
	s.Board = b

	switch res.Outcome {
	case moves.Nothing, moves.Unreachable:
		return res, nil
	case moves.Relocated, moves.Cleaned:
		s.endPlayerTurn()
		return res, nil
	}

	switch {
	case hazardous(res) && s.Protection > 0:
		s.Protection--
		s.endPlayerTurn()
	case hazardous(res):
		s.Status = Lost
	case res.Owner == board.Player:
		if s.Board.Remaining(board.Player) == 0 {
			s.Status = Won
		}
	case res.Owner == board.Rival && s.Board.Remaining(board.Rival) == 0:
		s.Status = Lost
	default:
		s.endPlayerTurn()
	}
	return res, nil
}

// Clue asks for one clue about the player's tiles and records it on the
// board.
func (s *Session) Clue(kind board.ClueKind, enhanced bool) (clue.Clue, error) {
	if err := s.playerMove(); err != nil {
		return clue.Clue{}, err
	}
	if s.ClueUsed {
		return clue.Clue{}, ErrClueUsed
	}
	var c clue.Clue
	switch kind {
	case board.Imperious:
		c = clue.Imperious(s.Board, board.Player, s.rnd)
	case board.Vague:
		c = clue.Vague(s.Board, board.Player, enhanced, s.rnd)
	case board.Sarcastic:
		c = clue.Sarcastic(s.Board, board.Player, s.rnd)
	default:
		return clue.Clue{}, fmt.Errorf("%w: %q", ErrBadClueKind, kind)
	}
	s.Board = clue.Apply(s.Board, c)
	s.ClueUsed = true
	s.LastClue = &c
	return c, nil
}

// EndTurn passes the rest of the player's turn.
func (s *Session) EndTurn() error {
	if err := s.playerMove(); err != nil {
		return err
	}
	s.endPlayerTurn()
	return nil
}

func (s *Session) endPlayerTurn() {
	s.Phase = RivalTurn
}

// RivalTurn plays the rival and hands the next turn back to the player.
func (s *Session) RivalTurn() (rival.Turn, error) {
	switch {
	case s.Over():
		return rival.Turn{}, ErrSessionOver
	case s.Phase != RivalTurn:
		return rival.Turn{}, ErrNotRivalTurn
	}
	turn, err := rival.PlayTurn(s.Board, s.Rival, s.rnd)
	if err != nil {
		return rival.Turn{}, err
	}
	s.Board = moves.ResetTurn(turn.Board)

	stored := turn
	stored.Board = nil
	s.LastRival = &stored

	switch {
	case turn.HitHazard:
		s.Status = Won
	case s.Board.Remaining(board.Rival) == 0:
		s.Status = Lost
	case s.Board.Remaining(board.Player) == 0:
		s.Status = Won
	default:
		s.Turn++
		s.Phase = PlayerTurn
		s.ClueUsed = false
	}
	return turn, nil
}

func (s *Session) Bytes() ([]byte, error) {
	state, err := s.pcg.MarshalBinary()
	if err != nil {
		return nil, err
	}
	s.RandState = state
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func Decode(data []byte) (*Session, error) {
	var s Session
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return nil, fmt.Errorf("unable to decode session: %w", err)
	}
	s.pcg = rand.NewPCG(0, 0)
	if err := s.pcg.UnmarshalBinary(s.RandState); err != nil {
		return nil, fmt.Errorf("unable to restore session rand: %w", err)
	}
	s.rnd = rand.New(s.pcg)
	if s.Board == nil {
		return nil, errors.New("session has no board")
	}
	return &s, nil
}
