package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/vancomm/sanctum-sweeper/internal/board"
	"github.com/vancomm/sanctum-sweeper/internal/level"
	"github.com/vancomm/sanctum-sweeper/internal/session"
)

var ownerColors = map[board.Owner]*color.Color{
	board.Player:  color.New(color.FgGreen),
	board.Rival:   color.New(color.FgRed),
	board.Neutral: color.New(color.FgYellow),
	board.Hazard:  color.New(color.FgMagenta, color.Bold),
	board.Empty:   color.New(color.FgHiBlack),
}

var (
	faint = color.New(color.Faint)
	bold  = color.New(color.Bold)
)

// cell renders one tile with its owner always visible: revealed tiles as
// a bold initial and count, hidden ones faint.
func cell(t *board.Tile) string {
	if t == nil {
		return " "
	}
	c := ownerColors[t.Owner]
	initial := string(t.Owner.String()[0])
	switch {
	case t.Owner == board.Empty:
		return c.Sprint("x")
	case t.Revealed:
		return bold.Sprint(c.Sprint(initial + strconv.Itoa(t.Count())))
	}
	glyph := t.String()
	if glyph == "." {
		glyph = ""
	}
	return faint.Sprint(initial) + glyph
}

func renderBoard(w io.Writer, title string, b *board.Board) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(title)

	header := table.Row{""}
	for x := range b.Width {
		header = append(header, x)
	}
	t.AppendHeader(header)
	for y := range b.Height {
		row := table.Row{y}
		for x := range b.Width {
			row = append(row, cell(b.Tile(board.Position{X: x, Y: y})))
		}
		t.AppendRow(row)
	}

	t.SetStyle(table.StyleRounded)
	t.Style().Title.Align = text.AlignCenter
	configs := make([]table.ColumnConfig, 0, b.Width+1)
	for i := range b.Width + 1 {
		configs = append(configs, table.ColumnConfig{Number: i + 1, Align: text.AlignCenter})
	}
	t.SetColumnConfigs(configs)
	t.Render()
}

func printTurn(w io.Writer, s *session.Session, r turnReport) {
	fmt.Fprintf(w, "\nturn %d: %s clue with %d pips, %d player reveals\n",
		r.Turn, r.Clue.Kind, len(r.Clue.Pips), len(r.Reveals))
	if r.Rival != nil {
		fmt.Fprintf(w, "rival (%s): %d reveals, %d hazards placed, %d spawned\n",
			r.Rival.Strategy, len(r.Rival.Steps), len(r.Rival.Hazards), len(r.Rival.Spawns))
	}
	renderBoard(w, fmt.Sprintf("after turn %d", r.Turn), s.Board)
}

func printSummary(w io.Writer, l level.Level, seed uint64, s *session.Session, sum summary) {
	status := s.Status.String()
	switch s.Status {
	case session.Won:
		status = color.GreenString(status)
	case session.Lost:
		status = color.RedString(status)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("summary")
	t.AppendRows([]table.Row{
		{"level", l.Name},
		{"seed", seed},
		{"status", status},
		{"turns", sum.Turns},
		{"clues", sum.Clues},
		{"player reveals", sum.PlayerReveals},
		{"rival reveals", sum.RivalReveals},
		{"player tiles left", s.Board.Remaining(board.Player)},
		{"rival tiles left", s.Board.Remaining(board.Rival)},
		{"protection left", s.Protection},
	})
	t.SetStyle(table.StyleLight)
	t.Render()
}
