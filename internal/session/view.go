package session

import (
	"github.com/vancomm/sanctum-sweeper/internal/board"
	"github.com/vancomm/sanctum-sweeper/internal/clue"
	"github.com/vancomm/sanctum-sweeper/internal/rival"
)

// TileView is what the player may know about a tile.
type TileView struct {
	Pos      board.Position     `json:"pos"`
	Revealed bool               `json:"revealed"`
	By       board.Actor        `json:"revealed_by,omitempty"`
	Owner    *board.Owner       `json:"owner,omitempty"`
	Count    *int               `json:"count,omitempty"`
	Flags    board.Obstructions `json:"flags"`
	Sanctums []board.Position   `json:"sanctums,omitempty"`

	OwnerSubset []board.Owner         `json:"owner_subset,omitempty"`
	Adjacency   []board.AdjacencyInfo `json:"adjacency,omitempty"`
	Clues       []board.ClueMark      `json:"clues,omitempty"`
}

type View struct {
	Level      string              `json:"level"`
	Width      int                 `json:"width"`
	Height     int                 `json:"height"`
	Rule       board.AdjacencyRule `json:"rule"`
	Turn       int                 `json:"turn"`
	Phase      Phase               `json:"phase"`
	Status     Status              `json:"status"`
	Protection int                 `json:"protection"`
	ClueUsed   bool                `json:"clue_used"`

	Remaining map[board.Owner]int `json:"remaining"`
	Tiles     []TileView          `json:"tiles"`

	LastClue  *clue.Clue  `json:"last_clue,omitempty"`
	LastRival *rival.Turn `json:"last_rival,omitempty"`
}

// Snapshot renders the session for the player. Owners of unrevealed tiles
// stay hidden until the session is over.
func (s *Session) Snapshot() View {
	b := s.Board
	v := View{
		Level:      s.Level,
		Width:      b.Width,
		Height:     b.Height,
		Rule:       b.Rule,
		Turn:       s.Turn,
		Phase:      s.Phase,
		Status:     s.Status,
		Protection: s.Protection,
		ClueUsed:   s.ClueUsed,
		Remaining: map[board.Owner]int{
			board.Player: b.Remaining(board.Player),
			board.Rival:  b.Remaining(board.Rival),
		},
		Tiles:     make([]TileView, 0, len(b.Tiles)),
		LastClue:  s.LastClue,
		LastRival: s.LastRival,
	}

	for p := range b.Positions() {
		t := b.Tile(p)
		tv := TileView{
			Pos:      p,
			Revealed: t.Revealed,
			By:       t.RevealedBy,
			Flags:    t.Obstructions,
			Sanctums: t.ConnectedSanctums,
		}
		if t.Revealed || s.Over() || t.Owner == board.Empty {
			owner := t.Owner
			tv.Owner = &owner
		}
		if t.AdjacencyCount != nil {
			count := *t.AdjacencyCount
			tv.Count = &count
		}
		for _, a := range t.Annotations {
			switch a := a.(type) {
			case board.OwnerSubset:
				tv.OwnerSubset = a.Owners
			case board.AdjacencyInfo:
				tv.Adjacency = append(tv.Adjacency, a)
			case board.ClueMark:
				tv.Clues = append(tv.Clues, a)
			}
		}
		v.Tiles = append(v.Tiles, tv)
	}
	return v
}
