package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/vancomm/sanctum-sweeper/internal/board"
	"github.com/vancomm/sanctum-sweeper/internal/session"
)

// Maps known commands to number of arguments
var commandNargs = map[string]int{
	"g":  0, // get
	"r":  2, // reveal x y
	"c":  1, // clue kind
	"ce": 1, // enhanced clue kind
	"e":  0, // end turn
	"t":  0, // rival turn
}

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrCommandArgs    = errors.New("invalid number of arguments")
)

func parseXY(twoStrings []string) (board.Position, error) {
	x, err := strconv.Atoi(twoStrings[0])
	if err != nil {
		return board.Position{}, errors.New("first argument must be an int")
	}
	y, err := strconv.Atoi(twoStrings[1])
	if err != nil {
		return board.Position{}, errors.New("second argument must be an int")
	}
	return board.Position{X: x, Y: y}, nil
}

// executeCommand applies one text command. changed reports whether the
// session has to be stored again.
func executeCommand(s *session.Session, c string) (result any, changed bool, err error) {
	parts := strings.Fields(c)
	if len(parts) == 0 {
		return nil, false, ErrUnknownCommand
	}
	nargs, ok := commandNargs[parts[0]]
	if !ok {
		return nil, false, ErrUnknownCommand
	}
	if nargs != len(parts)-1 {
		return nil, false, ErrCommandArgs
	}
	switch parts[0] {
	case "g":
		return nil, false, nil
	case "r":
		pos, err := parseXY(parts[1:])
		if err != nil {
			return nil, false, err
		}
		res, err := s.Reveal(pos)
		return res, err == nil, err
	case "c", "ce":
		res, err := s.Clue(board.ClueKind(parts[1]), parts[0] == "ce")
		return res, err == nil, err
	case "e":
		err := s.EndTurn()
		return nil, err == nil, err
	case "t":
		res, err := s.RivalTurn()
		return res, err == nil, err
	}
	return nil, false, ErrUnknownCommand
}
