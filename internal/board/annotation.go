package board

import (
	"encoding/gob"
	"slices"

	"github.com/google/uuid"
)

// Annotation is a piece of deduced information recorded on a tile.
type Annotation interface {
	clone() Annotation
}

// OwnerSubset narrows the possible owners of a tile.
type OwnerSubset struct {
	Owners []Owner `json:"owners"`
}

func (s OwnerSubset) clone() Annotation {
	return OwnerSubset{Owners: slices.Clone(s.Owners)}
}

func (s OwnerSubset) Allows(o Owner) bool {
	return slices.Contains(s.Owners, o)
}

// AdjacencyInfo tells how many neighbors of a tile belong to Faction.
type AdjacencyInfo struct {
	Faction Owner `json:"faction"`
	Count   int   `json:"count"`
}

func (a AdjacencyInfo) clone() Annotation {
	return a
}

type ClueKind string

const (
	Imperious ClueKind = "imperious"
	Vague     ClueKind = "vague"
	Sarcastic ClueKind = "sarcastic"
)

// ClueMark is the per-tile record of a clue. Every tile carrying the same
// clue shares the ID and an identical Affected list.
type ClueMark struct {
	ID       uuid.UUID  `json:"id"`
	Kind     ClueKind   `json:"kind"`
	Enhanced bool       `json:"enhanced"`
	Strength int        `json:"strength"`
	Affected []Position `json:"affected"`
	Sequence int        `json:"sequence"`
	Rank     int        `json:"rank"`
	Anti     bool       `json:"anti,omitempty"`
}

func (m ClueMark) clone() Annotation {
	m.Affected = slices.Clone(m.Affected)
	return m
}

func init() {
	gob.Register(OwnerSubset{})
	gob.Register(AdjacencyInfo{})
	gob.Register(ClueMark{})
}

// AddOwnerSubset intersects owners with any subset already on the tile.
func (t *Tile) AddOwnerSubset(owners ...Owner) {
	for i, a := range t.Annotations {
		existing, ok := a.(OwnerSubset)
		if !ok {
			continue
		}
		kept := make([]Owner, 0, len(existing.Owners))
		for _, o := range existing.Owners {
			if slices.Contains(owners, o) {
				kept = append(kept, o)
			}
		}
		t.Annotations[i] = OwnerSubset{Owners: kept}
		return
	}
	subset := slices.Clone(owners)
	slices.Sort(subset)
	t.Annotations = append(t.Annotations, OwnerSubset{Owners: slices.Compact(subset)})
}

// AddAdjacencyInfo replaces the hint for the same faction or appends a new one.
func (t *Tile) AddAdjacencyInfo(info AdjacencyInfo) {
	for i, a := range t.Annotations {
		if existing, ok := a.(AdjacencyInfo); ok && existing.Faction == info.Faction {
			t.Annotations[i] = info
			return
		}
	}
	t.Annotations = append(t.Annotations, info)
}

func (t *Tile) Clues() []ClueMark {
	marks := make([]ClueMark, 0)
	for _, a := range t.Annotations {
		if m, ok := a.(ClueMark); ok {
			marks = append(marks, m)
		}
	}
	return marks
}

// OwnerSubset returns the recorded subset, if any.
func (t *Tile) OwnerSubset() (OwnerSubset, bool) {
	for _, a := range t.Annotations {
		if s, ok := a.(OwnerSubset); ok {
			return s, true
		}
	}
	return OwnerSubset{}, false
}

// StripFromClues removes pos from the affected list of every clue on the
// board, dropping marks whose list becomes empty. Mutates b.
func (b *Board) StripFromClues(pos Position) {
	for p := range b.Positions() {
		t := b.Tiles[p]
		kept := t.Annotations[:0]
		for _, a := range t.Annotations {
			m, ok := a.(ClueMark)
			if !ok {
				kept = append(kept, a)
				continue
			}
			m.Affected = slices.DeleteFunc(m.Affected, func(q Position) bool { return q == pos })
			if len(m.Affected) == 0 {
				continue
			}
			kept = append(kept, m)
		}
		if len(kept) == 0 {
			kept = nil
		}
		t.Annotations = kept
	}
}

// RefreshAdjacencyInfo recomputes every adjacency hint on the board against
// the current neighbor graph. Mutates b.
func (b *Board) RefreshAdjacencyInfo() {
	for p := range b.Positions() {
		t := b.Tiles[p]
		for i, a := range t.Annotations {
			info, ok := a.(AdjacencyInfo)
			if !ok {
				continue
			}
			info.Count = b.CountNeighbors(p, info.Faction)
			t.Annotations[i] = info
		}
	}
}
