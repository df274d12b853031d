package minions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Matir03/minions/hexboard"
	"github.com/Matir03/minions/units"
)

func singleBoardGame() *GameState {
	g := newTestGame(1)
	g.Boards[0].State = Normal
	// a Normal board whose S1 necromancer is missing would be scored as a
	// board win and reset at end of turn, wiping the pieces tests inspect.
	enemy := hexboard.StartHex(hexboard.S1)
	g.Boards[0].Pieces[enemy] = Piece{Loc: enemy, Label: units.Necromancer, Side: hexboard.S1}
	return g
}

func TestApplyTurnAllOrNothingOnIllegalBoardTurn(t *testing.T) {
	g := singleBoardGame()
	before := g.Clone()

	turn := NewGameTurn(2) // wrong board count for a 1-board game
	_, err := ApplyTurn(g, turn)
	require.Error(t, err)

	assert.True(t, g.Eq(before), "a failed ApplyTurn must leave the original state untouched")
}

func TestApplyTurnSpellBuyInsufficientMoney(t *testing.T) {
	g := singleBoardGame()
	g.Money[hexboard.S0] = 0
	turn := NewGameTurn(1)
	turn.SpellBuys = 1

	_, err := ApplyTurn(g, turn)
	require.Error(t, err)
	re, ok := AsRuleError(err)
	require.True(t, ok)
	assert.Equal(t, KindInsufficientMoney, re.Kind)
}

func TestApplyTurnTechAssignmentLockedToUnlocked(t *testing.T) {
	g := singleBoardGame()
	g.Money[hexboard.S0] = SpellCost(1)
	turn := NewGameTurn(1)
	turn.SpellBuys = 1
	turn.TechAssignment = []int{1} // index 1 starts Locked

	next, err := ApplyTurn(g, turn)
	require.NoError(t, err)
	assert.Equal(t, Unlocked, next.TechStatus[hexboard.S0][1])
}

func TestApplyTurnTechAssignmentUnlockedToAcquiredUnlocksNext(t *testing.T) {
	g := singleBoardGame()
	g.TechStatus[hexboard.S0][0] = Unlocked
	g.Money[hexboard.S0] = SpellCost(1)
	turn := NewGameTurn(1)
	turn.SpellBuys = 1
	turn.TechAssignment = []int{0}

	next, err := ApplyTurn(g, turn)
	require.NoError(t, err)
	assert.Equal(t, Acquired, next.TechStatus[hexboard.S0][0])
	assert.Equal(t, Unlocked, next.TechStatus[hexboard.S0][1])
}

func TestApplyTurnBlocksAcquiringOpponentLockedTech(t *testing.T) {
	g := singleBoardGame()
	g.TechStatus[hexboard.S0][0] = Unlocked
	g.TechStatus[hexboard.S1][0] = Acquired
	g.Money[hexboard.S0] = SpellCost(1)
	turn := NewGameTurn(1)
	turn.SpellBuys = 1
	turn.TechAssignment = []int{0}

	_, err := ApplyTurn(g, turn)
	require.Error(t, err)
	re, ok := AsRuleError(err)
	require.True(t, ok)
	assert.Equal(t, KindIllegalAction, re.Kind)
}

func TestApplySetupChooseNecromancerOnEmptyStartHex(t *testing.T) {
	g := singleBoardGame()
	b := g.Boards[0]
	b.State = Reset2
	turn := NewGameTurn(1)
	turn.BoardTurns[0].Setup = []SetupAction{{Kind: ChooseNecromancer, Unit: units.Necromancer, Side: hexboard.S0}}

	next, err := ApplyTurn(g, turn)
	require.NoError(t, err)
	assert.True(t, next.Boards[0].HasNecromancer(hexboard.S0))
}

func TestApplyAttackDamageKillsAtDefenseThreshold(t *testing.T) {
	g := singleBoardGame()
	b := g.Boards[0]
	attackerLoc := hexboard.Loc{File: 2, Rank: 2}
	targetLoc := hexboard.Loc{File: 2, Rank: 3}
	b.Pieces[attackerLoc] = Piece{Loc: attackerLoc, Label: units.Shrieker, Side: hexboard.S0} // attack 10
	b.Pieces[targetLoc] = Piece{Loc: targetLoc, Label: units.Zombie, Side: hexboard.S1}       // defense 2

	turn := NewGameTurn(1)
	turn.BoardTurns[0].Attack = []AttackAction{{Kind: Attack, Attacker: attackerLoc, Target: targetLoc}}

	next, err := ApplyTurn(g, turn)
	require.NoError(t, err)
	_, stillThere := next.Boards[0].PieceAt(targetLoc)
	assert.False(t, stillThere, "a hit meeting or exceeding defense must remove the target")
}

func TestApplyAttackUnsummonPersistentAccumulatesDamage(t *testing.T) {
	g := singleBoardGame()
	b := g.Boards[0]
	attackerLoc := hexboard.Loc{File: 2, Rank: 2}
	targetLoc := hexboard.Loc{File: 2, Rank: 3}
	b.Pieces[attackerLoc] = Piece{Loc: attackerLoc, Label: units.Ghost, Side: hexboard.S0} // Unsummon
	b.Pieces[targetLoc] = Piece{Loc: targetLoc, Label: units.Skeleton, Side: hexboard.S1}  // Persistent

	turn := NewGameTurn(1)
	turn.BoardTurns[0].Attack = []AttackAction{{Kind: Attack, Attacker: attackerLoc, Target: targetLoc}}

	next, err := ApplyTurn(g, turn)
	require.NoError(t, err)
	target, ok := next.Boards[0].PieceAt(targetLoc)
	require.True(t, ok, "unsummon against a persistent unit damages rather than removes it")
	assert.Equal(t, 1, target.Modifiers.DamageTaken)
}

func TestApplyAttackDeathtouchSparesNecromancer(t *testing.T) {
	g := singleBoardGame()
	b := g.Boards[0]
	attackerLoc := hexboard.Loc{File: 2, Rank: 2}
	targetLoc := hexboard.Loc{File: 2, Rank: 3}
	b.Pieces[attackerLoc] = Piece{Loc: attackerLoc, Label: units.Lich, Side: hexboard.S0} // Deathtouch
	b.Pieces[targetLoc] = Piece{Loc: targetLoc, Label: units.Necromancer, Side: hexboard.S1}

	turn := NewGameTurn(1)
	turn.BoardTurns[0].Attack = []AttackAction{{Kind: Attack, Attacker: attackerLoc, Target: targetLoc}}

	next, err := ApplyTurn(g, turn)
	require.NoError(t, err)
	_, ok := next.Boards[0].PieceAt(targetLoc)
	assert.True(t, ok, "deathtouch never kills a necromancer directly")
}

func TestApplySpawnBuyThenPlace(t *testing.T) {
	g := singleBoardGame()
	g.Money[hexboard.S0] = units.NewTable().Get(units.Zombie).Cost
	seed := hexboard.Loc{File: 3, Rank: 3}
	g.Boards[0].Pieces[seed] = Piece{Loc: seed, Label: units.Necromancer, Side: hexboard.S0} // Spawn-flagged seed
	loc := seed.Neighbours()[0]

	turn := NewGameTurn(1)
	turn.BoardTurns[0].Spawn = []SpawnAction{
		{Kind: Buy, Unit: units.Zombie},
		{Kind: Spawn, Unit: units.Zombie, Loc: loc},
	}

	next, err := ApplyTurn(g, turn)
	require.NoError(t, err)
	p, ok := next.Boards[0].PieceAt(loc)
	assert.True(t, ok)
	assert.Equal(t, units.Zombie, p.Label)
	// the zombie's cost is paid in full; end-of-turn income (no graveyards
	// held, no soul unit) then adds 2.
	assert.Equal(t, 2, next.Money[hexboard.S0])
}

func TestApplyTurnFlipsSideToMove(t *testing.T) {
	g := singleBoardGame()
	turn := NewGameTurn(1)
	next, err := ApplyTurn(g, turn)
	require.NoError(t, err)
	assert.Equal(t, hexboard.S1, next.SideToMove)
}
