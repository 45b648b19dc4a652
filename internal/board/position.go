package board

import (
	"cmp"
	"fmt"
	"slices"
)

type Position struct {
	X, Y int
}

func (p Position) Key() string {
	return fmt.Sprintf("%d,%d", p.X, p.Y)
}

func (p Position) String() string {
	return p.Key()
}

func (p Position) Add(d Position) Position {
	return Position{p.X + d.X, p.Y + d.Y}
}

// compareScan orders positions row by row, the order tiles are created in.
func compareScan(a, b Position) int {
	if c := cmp.Compare(a.Y, b.Y); c != 0 {
		return c
	}
	return cmp.Compare(a.X, b.X)
}

// SortScan sorts positions in place in scan order and returns them.
func SortScan(ps []Position) []Position {
	slices.SortFunc(ps, compareScan)
	return ps
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

func orthogonallyAdjacent(a, b Position) bool {
	return absDiff(a.X, b.X)+absDiff(a.Y, b.Y) == 1
}
