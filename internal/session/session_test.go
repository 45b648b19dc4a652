package session

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/sanctum-sweeper/internal/board"
	"github.com/vancomm/sanctum-sweeper/internal/clue"
	"github.com/vancomm/sanctum-sweeper/internal/level"
	"github.com/vancomm/sanctum-sweeper/internal/moves"
	"github.com/vancomm/sanctum-sweeper/internal/rival"
)

type P = board.Position

// fixed is a rival that reveals a preset list.
type fixed []P

func (fixed) Name() string { return "fixed" }

func (f fixed) SelectTilesToReveal(*board.Board, clue.Clue, rival.Context) []P {
	return f
}

var tiny = level.Level{
	Name:   "tiny",
	Width:  3,
	Height: 2,
	Counts: level.Counts{Player: 2, Rival: 2, Neutral: 1, Hazard: 1},
}

// start opens a session and swaps in a fixed board.
func start(t *testing.T, protection int, rows ...string) *Session {
	t.Helper()
	s, err := New(tiny, 1, 2)
	require.NoError(t, err)
	b, err := board.FromRows(board.Standard, rows...)
	require.NoError(t, err)
	s.Board = b
	s.Protection = protection
	return s
}

func TestNewSession(t *testing.T) {
	s, err := New(tiny, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "tiny", s.Level)
	assert.Equal(t, 1, s.Turn)
	assert.Equal(t, PlayerTurn, s.Phase)
	assert.Equal(t, Playing, s.Status)
	assert.Len(t, s.Board.Tiles, 6)

	again, err := New(tiny, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, s.Board, again.Board)

	broken := tiny
	broken.Counts.Player = 5
	_, err = New(broken, 1, 2)
	assert.ErrorIs(t, err, board.ErrTileCountMismatch)
}

func TestRevealOwnTileKeepsTurn(t *testing.T) {
	s := start(t, 0, "PPR", "RNH")

	res, err := s.Reveal(P{X: 0, Y: 0})
	require.NoError(t, err)
	assert.Equal(t, moves.Revealed, res.Outcome)
	assert.Equal(t, PlayerTurn, s.Phase)
	assert.Equal(t, Playing, s.Status)

	_, err = s.Reveal(P{X: 1, Y: 0})
	require.NoError(t, err)
	assert.Equal(t, Won, s.Status)

	_, err = s.Reveal(P{X: 2, Y: 0})
	assert.ErrorIs(t, err, ErrSessionOver)
}

func TestRevealForeignTileEndsTurn(t *testing.T) {
	s := start(t, 0, "PPR", "RNH")

	_, err := s.Reveal(P{X: 1, Y: 1})
	require.NoError(t, err)
	assert.Equal(t, RivalTurn, s.Phase)

	_, err = s.Reveal(P{X: 0, Y: 0})
	assert.ErrorIs(t, err, ErrNotPlayerTurn)
	assert.ErrorIs(t, s.EndTurn(), ErrNotPlayerTurn)
}

func TestRevealProbeKeepsTurn(t *testing.T) {
	s := start(t, 0, "PPR", "RNH")
	before := s.Board

	res, err := s.Reveal(P{X: 7, Y: 7})
	require.NoError(t, err)
	assert.Equal(t, moves.Nothing, res.Outcome)
	assert.Equal(t, PlayerTurn, s.Phase)
	assert.Same(t, before, s.Board)
}

func TestRevealHazard(t *testing.T) {
	s := start(t, 1, "PPR", "RNH")
	_, err := s.Reveal(P{X: 2, Y: 1})
	require.NoError(t, err)
	assert.Equal(t, 0, s.Protection)
	assert.Equal(t, Playing, s.Status)
	assert.Equal(t, RivalTurn, s.Phase)

	s = start(t, 0, "PPR", "RNH")
	s.Board.Tile(P{X: 1, Y: 1}).Obstructions = board.VisibleHazard
	_, err = s.Reveal(P{X: 1, Y: 1})
	require.NoError(t, err)
	assert.Equal(t, Lost, s.Status)
}

func TestRevealLastRivalTileLoses(t *testing.T) {
	s := start(t, 0, "PPR", "NNH")
	_, err := s.Reveal(P{X: 2, Y: 0})
	require.NoError(t, err)
	assert.Equal(t, Lost, s.Status)
}

func TestClueOncePerTurn(t *testing.T) {
	s := start(t, 0, "PPR", "RNH")

	c, err := s.Clue(board.Imperious, false)
	require.NoError(t, err)
	assert.Equal(t, board.Player, c.Target)
	assert.True(t, s.ClueUsed)
	assert.Equal(t, &c, s.LastClue)
	for _, pip := range c.Pips {
		marks := s.Board.Tile(pip.Pos).Clues()
		require.Len(t, marks, 1)
		assert.Equal(t, c.ID, marks[0].ID)
	}

	_, err = s.Clue(board.Vague, false)
	assert.ErrorIs(t, err, ErrClueUsed)

	s.ClueUsed = false
	_, err = s.Clue("shouty", false)
	assert.ErrorIs(t, err, ErrBadClueKind)
}

func TestRivalTurn(t *testing.T) {
	rival.Register(fixed{{X: 2, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}})
	s := start(t, 0, "PPR", "RNH")
	s.Rival = rival.Options{Override: "fixed"}

	_, err := s.RivalTurn()
	assert.ErrorIs(t, err, ErrNotRivalTurn)

	require.NoError(t, s.EndTurn())
	turn, err := s.RivalTurn()
	require.NoError(t, err)

	assert.Len(t, turn.Steps, 2)
	assert.Equal(t, 2, s.Turn)
	assert.Equal(t, PlayerTurn, s.Phase)
	assert.False(t, s.ClueUsed)
	require.NotNil(t, s.LastRival)
	assert.Nil(t, s.LastRival.Board)
	assert.True(t, s.Board.Tile(P{X: 1, Y: 1}).Revealed)
	assert.False(t, s.Board.Tile(P{X: 0, Y: 1}).Revealed)
}

func TestRivalHitsHazard(t *testing.T) {
	rival.Register(fixed{{X: 2, Y: 1}})
	s := start(t, 0, "PPR", "RNH")
	s.Rival = rival.Options{Override: "fixed"}
	require.NoError(t, s.EndTurn())

	turn, err := s.RivalTurn()
	require.NoError(t, err)
	assert.True(t, turn.HitHazard)
	assert.Equal(t, Won, s.Status)
}

func TestBytesRoundTrip(t *testing.T) {
	s, err := New(tiny, 3, 4)
	require.NoError(t, err)
	for p := range s.Board.Positions() {
		if s.Board.Tile(p).Owner == board.Player {
			_, err := s.Reveal(p)
			require.NoError(t, err)
			break
		}
	}

	data, err := s.Bytes()
	require.NoError(t, err)
	back, err := Decode(data)
	require.NoError(t, err)

	want, err := json.Marshal(s.Snapshot())
	require.NoError(t, err)
	got, err := json.Marshal(back.Snapshot())
	require.NoError(t, err)
	assert.JSONEq(t, string(want), string(got))

	c1, err := s.Clue(board.Imperious, false)
	require.NoError(t, err)
	c2, err := back.Clue(board.Imperious, false)
	require.NoError(t, err)
	assert.Equal(t, c1, c2)

	_, err = Decode([]byte("garbage"))
	assert.Error(t, err)
}

func TestSnapshotHidesOwners(t *testing.T) {
	s := start(t, 0, "PPR", "RNH")
	_, err := s.Reveal(P{X: 0, Y: 0})
	require.NoError(t, err)

	v := s.Snapshot()
	require.Len(t, v.Tiles, 6)
	require.NotNil(t, v.Tiles[0].Owner)
	assert.Equal(t, board.Player, *v.Tiles[0].Owner)
	require.NotNil(t, v.Tiles[0].Count)
	assert.Equal(t, 1, *v.Tiles[0].Count)
	assert.Nil(t, v.Tiles[1].Owner)
	assert.Nil(t, v.Tiles[1].Count)
	assert.Equal(t, 1, v.Remaining[board.Player])

	s.Status = Lost
	for _, tv := range s.Snapshot().Tiles {
		assert.NotNil(t, tv.Owner)
	}
}
