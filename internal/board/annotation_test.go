package board

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddOwnerSubset(t *testing.T) {
	tile := &Tile{Owner: Neutral}
	tile.AddOwnerSubset(Neutral, Player, Player)
	subset, ok := tile.OwnerSubset()
	require.True(t, ok)
	assert.Equal(t, []Owner{Player, Neutral}, subset.Owners)

	tile.AddOwnerSubset(Neutral, Hazard)
	subset, _ = tile.OwnerSubset()
	assert.Equal(t, []Owner{Neutral}, subset.Owners)
	assert.True(t, subset.Allows(Neutral))
	assert.False(t, subset.Allows(Player))
	assert.Len(t, tile.Annotations, 1)
}

func TestAddAdjacencyInfo(t *testing.T) {
	tile := &Tile{Owner: Neutral}
	tile.AddAdjacencyInfo(AdjacencyInfo{Faction: Player, Count: 1})
	tile.AddAdjacencyInfo(AdjacencyInfo{Faction: Rival, Count: 2})
	tile.AddAdjacencyInfo(AdjacencyInfo{Faction: Player, Count: 3})

	assert.Equal(t, []Annotation{
		AdjacencyInfo{Faction: Player, Count: 3},
		AdjacencyInfo{Faction: Rival, Count: 2},
	}, tile.Annotations)
}

func TestStripFromClues(t *testing.T) {
	b := mustRows(t, Standard, "NNN")
	id := uuid.New()
	for i, p := range []Position{{0, 0}, {1, 0}} {
		b.Tile(p).Annotations = []Annotation{
			ClueMark{ID: id, Strength: 1, Affected: []Position{{0, 0}, {1, 0}}, Rank: i},
		}
	}
	b.Tile(Position{2, 0}).Annotations = []Annotation{
		AdjacencyInfo{Faction: Player},
		ClueMark{ID: uuid.New(), Strength: 2, Affected: []Position{{0, 0}}},
	}

	b.StripFromClues(Position{0, 0})

	marks := b.Tile(Position{1, 0}).Clues()
	require.Len(t, marks, 1)
	assert.Equal(t, []Position{{1, 0}}, marks[0].Affected)
	assert.Equal(t, []Annotation{AdjacencyInfo{Faction: Player}}, b.Tile(Position{2, 0}).Annotations)
}

func TestRefreshAdjacencyInfo(t *testing.T) {
	b := mustRows(t, Standard, "PNP")
	b.Tile(Position{1, 0}).AddAdjacencyInfo(AdjacencyInfo{Faction: Player, Count: 0})
	b.RefreshAdjacencyInfo()
	assert.Equal(t,
		[]Annotation{AdjacencyInfo{Faction: Player, Count: 2}},
		b.Tile(Position{1, 0}).Annotations,
	)
}

func TestObstructionsText(t *testing.T) {
	o := Sanctum | HeavilySoiled
	text, err := o.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "soiled|sanctum", string(text))

	var back Obstructions
	require.NoError(t, back.UnmarshalText(text))
	assert.Equal(t, o, back)
	assert.Error(t, back.UnmarshalText([]byte("lava")))
}
