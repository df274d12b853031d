package hexboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocStringRoundTrip(t *testing.T) {
	cases := []Loc{{File: 0, Rank: 0}, {File: 9, Rank: 9}, {File: 3, Rank: 7}}
	for _, l := range cases {
		s := l.String()
		got, err := ParseLoc(s)
		require.NoError(t, err)
		assert.Equal(t, l, got, "round-trip for %s", s)
	}
}

func TestNeighboursStayInBoundsCount(t *testing.T) {
	l := Loc{File: 5, Rank: 5}
	n := l.Neighbours()
	assert.Len(t, n, 6)
}

func TestDistanceSelfIsZero(t *testing.T) {
	l := Loc{File: 4, Rank: 4}
	assert.Equal(t, 0, l.Distance(l))
}

func TestDistanceAdjacentIsOne(t *testing.T) {
	l := Loc{File: 4, Rank: 4}
	for _, n := range l.Neighbours() {
		if n.InBounds() {
			assert.Equal(t, 1, l.Distance(n))
		}
	}
}

func TestIsAdjacentMatchesNeighbours(t *testing.T) {
	l := Loc{File: 4, Rank: 4}
	for _, n := range l.Neighbours() {
		assert.True(t, l.IsAdjacent(n))
	}
	assert.False(t, l.IsAdjacent(Loc{File: 4, Rank: 4}))
}

func TestSideArrayGetSet(t *testing.T) {
	var sa SideArray[int]
	sa.Set(S0, 3)
	sa.Set(S1, 7)
	assert.Equal(t, 3, sa.Get(S0))
	assert.Equal(t, 7, sa.Get(S1))
}

func TestStandardMapSymmetric(t *testing.T) {
	m := NewStandardMap()
	gys := m.Graveyards()
	assert.Len(t, gys, 10)
	for _, g := range gys {
		reflected := Loc{File: BoardSize - 1 - g.File, Rank: BoardSize - 1 - g.Rank}
		assert.Equal(t, Graveyard, m.TileAt(reflected), "graveyards must be 180-rotation symmetric")
	}
}

func TestOtherSide(t *testing.T) {
	assert.Equal(t, S1, S0.Other())
	assert.Equal(t, S0, S1.Other())
}
