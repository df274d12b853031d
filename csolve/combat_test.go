package csolve

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Matir03/minions/hexboard"
	"github.com/Matir03/minions/minions"
	"github.com/Matir03/minions/units"
)

func newSolveBoard() *minions.Board {
	return minions.NewBoard(hexboard.NewStandardMap())
}

func TestSolveEmptyBoardReturnsEmptyPlan(t *testing.T) {
	b := newSolveBoard()
	table := units.NewTable()
	plan := Solve(context.Background(), b, hexboard.S0, table, DefaultBudget())
	assert.Empty(t, plan.Attacks)
	assert.Equal(t, float32(0), plan.Value)
}

func TestSolveLethalAttackIsFound(t *testing.T) {
	b := newSolveBoard()
	table := units.NewTable()
	attackerLoc := hexboard.Loc{File: 2, Rank: 2}
	targetLoc := hexboard.Loc{File: 2, Rank: 3}
	b.Pieces[attackerLoc] = minions.Piece{Loc: attackerLoc, Label: units.Shrieker, Side: hexboard.S0}
	b.Pieces[targetLoc] = minions.Piece{Loc: targetLoc, Label: units.Zombie, Side: hexboard.S1}

	plan := Solve(context.Background(), b, hexboard.S0, table, DefaultBudget())
	assert.NotEmpty(t, plan.Attacks)
	assert.Equal(t, attackerLoc, plan.Attacks[0].Attacker)
	assert.Equal(t, targetLoc, plan.Attacks[0].Target)
}

func TestSolveRespectsContextCancellation(t *testing.T) {
	b := newSolveBoard()
	table := units.NewTable()
	attackerLoc := hexboard.Loc{File: 2, Rank: 2}
	targetLoc := hexboard.Loc{File: 2, Rank: 3}
	b.Pieces[attackerLoc] = minions.Piece{Loc: attackerLoc, Label: units.Zombie, Side: hexboard.S0}
	b.Pieces[targetLoc] = minions.Piece{Loc: targetLoc, Label: units.Zombie, Side: hexboard.S1}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// A cancelled context must still return the greedy fallback, never panic
	// or hang (spec §4.3.5's SolverTimeout recovery).
	plan := Solve(ctx, b, hexboard.S0, table, DefaultBudget())
	assert.NotNil(t, plan)
}

func TestGreedyPlanNeverExceedsAttacksLeft(t *testing.T) {
	b := newSolveBoard()
	table := units.NewTable()
	attackerLoc := hexboard.Loc{File: 2, Rank: 2}
	t1 := hexboard.Loc{File: 2, Rank: 3}
	t2 := hexboard.Loc{File: 3, Rank: 2}
	b.Pieces[attackerLoc] = minions.Piece{Loc: attackerLoc, Label: units.Spectre, Side: hexboard.S0} // NumAttacks: 2
	b.Pieces[t1] = minions.Piece{Loc: t1, Label: units.Zombie, Side: hexboard.S1}
	b.Pieces[t2] = minions.Piece{Loc: t2, Label: units.Zombie, Side: hexboard.S1}

	plan := Solve(context.Background(), b, hexboard.S0, table, DefaultBudget())
	attacksFromSource := 0
	for _, a := range plan.Attacks {
		if a.Attacker == attackerLoc {
			attacksFromSource++
		}
	}
	assert.LessOrEqual(t, attacksFromSource, table.Get(units.Spectre).NumAttacks)
}

func TestSolveNeverAssignsTwoAttackersTheSameDest(t *testing.T) {
	b := newSolveBoard()
	table := units.NewTable()
	// Both attackers are two hexes from their own target but only one hex
	// (the shared centre) away from each other, so the sole attack hex
	// within range of each target is the same centre hex for both — without
	// dest deduplication, both attackers would move there.
	a1 := hexboard.Loc{File: 6, Rank: 5}
	a2 := hexboard.Loc{File: 5, Rank: 6}
	t1 := hexboard.Loc{File: 4, Rank: 5}
	t2 := hexboard.Loc{File: 5, Rank: 4}
	b.Pieces[a1] = minions.Piece{Loc: a1, Label: units.Zombie, Side: hexboard.S0}
	b.Pieces[a2] = minions.Piece{Loc: a2, Label: units.Zombie, Side: hexboard.S0}
	b.Pieces[t1] = minions.Piece{Loc: t1, Label: units.Zombie, Side: hexboard.S1}
	b.Pieces[t2] = minions.Piece{Loc: t2, Label: units.Zombie, Side: hexboard.S1}

	plan := Solve(context.Background(), b, hexboard.S0, table, DefaultBudget())
	seen := map[hexboard.Loc]bool{}
	for _, a := range plan.Attacks {
		assert.False(t, seen[a.Dest], "two attackers must never commit to the same destination hex")
		seen[a.Dest] = true
	}
}

func TestLumberingAttackerDestMatchesOriginLoc(t *testing.T) {
	b := newSolveBoard()
	table := units.NewTable()
	attackerLoc := hexboard.Loc{File: 2, Rank: 2}
	targetLoc := hexboard.Loc{File: 2, Rank: 3}
	b.Pieces[attackerLoc] = minions.Piece{Loc: attackerLoc, Label: units.Warg, Side: hexboard.S0} // Lumbering
	b.Pieces[targetLoc] = minions.Piece{Loc: targetLoc, Label: units.Zombie, Side: hexboard.S1}

	plan := Solve(context.Background(), b, hexboard.S0, table, DefaultBudget())
	for _, a := range plan.Attacks {
		if a.Attacker == attackerLoc {
			assert.Equal(t, attackerLoc, a.Dest, "a lumbering unit cannot attack from a moved destination")
		}
	}
}
