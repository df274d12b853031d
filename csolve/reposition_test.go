package csolve

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Matir03/minions/hexboard"
	"github.com/Matir03/minions/minions"
	"github.com/Matir03/minions/units"
)

func constValue(v float32) ValueFunc {
	return func(from, to hexboard.Loc) float32 { return v }
}

func TestRepositionEmptyInputsReturnNil(t *testing.T) {
	assert.Nil(t, Reposition(nil, []hexboard.Loc{{File: 0, Rank: 0}}, constValue(1)))
	assert.Nil(t, Reposition([]hexboard.Loc{{File: 0, Rank: 0}}, nil, constValue(1)))
}

func TestRepositionExactAssignmentPrefersHigherValueHex(t *testing.T) {
	free := []hexboard.Loc{{File: 0, Rank: 0}}
	good := hexboard.Loc{File: 1, Rank: 0}
	bad := hexboard.Loc{File: 2, Rank: 0}
	value := func(from, to hexboard.Loc) float32 {
		if to == good {
			return 10
		}
		return 1
	}
	placements := Reposition(free, []hexboard.Loc{bad, good}, value)
	assert.Len(t, placements, 1)
	assert.Equal(t, good, placements[0].To)
}

func TestRepositionExactAssignmentIsInjective(t *testing.T) {
	free := []hexboard.Loc{{File: 0, Rank: 0}, {File: 1, Rank: 0}}
	hexes := []hexboard.Loc{{File: 5, Rank: 5}, {File: 6, Rank: 6}}
	placements := Reposition(free, hexes, constValue(1))
	seen := map[hexboard.Loc]bool{}
	for _, pl := range placements {
		assert.False(t, seen[pl.To], "each hex must receive at most one piece")
		seen[pl.To] = true
	}
}

func TestRepositionDispatchesToGreedyAboveExactLimit(t *testing.T) {
	free := make([]hexboard.Loc, exactAssignmentLimit+1)
	hexes := make([]hexboard.Loc, exactAssignmentLimit+1)
	for i := range free {
		free[i] = hexboard.Loc{File: i % hexboard.BoardSize, Rank: 0}
		hexes[i] = hexboard.Loc{File: i % hexboard.BoardSize, Rank: 1}
	}
	placements := Reposition(free, hexes, constValue(1))
	assert.NotEmpty(t, placements, "greedy fallback should still place pieces above the exact limit")
}

func TestHeuristicValueRewardsGraveyardHexes(t *testing.T) {
	table := units.NewTable()
	b := minions.NewBoard(hexboard.NewStandardMap())
	gy := b.Map.Graveyards()[0]
	from := hexboard.Loc{File: 0, Rank: 0}
	centre := hexboard.Loc{File: 9, Rank: 9}

	value := HeuristicValue(b, hexboard.S0, table, centre)
	onGraveyard := value(from, gy)

	nonGraveyard := gy
	for _, c := range candidateNonGraveyardHexes(b) {
		nonGraveyard = c
		break
	}
	offGraveyard := value(from, nonGraveyard)
	assert.Greater(t, onGraveyard, offGraveyard)
}

func candidateNonGraveyardHexes(b *minions.Board) []hexboard.Loc {
	gy := map[hexboard.Loc]bool{}
	for _, g := range b.Map.Graveyards() {
		gy[g] = true
	}
	var out []hexboard.Loc
	for r := 0; r < hexboard.BoardSize; r++ {
		for f := 0; f < hexboard.BoardSize; f++ {
			l := hexboard.Loc{File: f, Rank: r}
			if !gy[l] {
				out = append(out, l)
			}
		}
	}
	return out
}

func TestEnemyCentreOfMassFallsBackToEnemyStartHex(t *testing.T) {
	b := minions.NewBoard(hexboard.NewStandardMap())
	centre := EnemyCentreOfMass(b, hexboard.S0)
	assert.Equal(t, hexboard.StartHex(hexboard.S1), centre)
}

func TestEnemyCentreOfMassAveragesEnemyLocations(t *testing.T) {
	b := minions.NewBoard(hexboard.NewStandardMap())
	l1 := hexboard.Loc{File: 2, Rank: 2}
	l2 := hexboard.Loc{File: 4, Rank: 4}
	b.Pieces[l1] = minions.Piece{Loc: l1, Label: units.Zombie, Side: hexboard.S1}
	b.Pieces[l2] = minions.Piece{Loc: l2, Label: units.Zombie, Side: hexboard.S1}

	centre := EnemyCentreOfMass(b, hexboard.S0)
	assert.Equal(t, hexboard.Loc{File: 3, Rank: 3}, centre)
}
