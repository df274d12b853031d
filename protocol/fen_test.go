package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Matir03/minions/hexboard"
	"github.com/Matir03/minions/minions"
	"github.com/Matir03/minions/units"
)

func newFENTestGame() *minions.GameState {
	cfg := minions.NewStandardConfig(2)
	maps := []*hexboard.Map{hexboard.NewStandardMap(), hexboard.NewStandardMap()}
	g := minions.NewGame(cfg, maps)
	g.Money[hexboard.S0] = 7
	g.Money[hexboard.S1] = 3
	g.SideToMove = hexboard.S1
	g.TechStatus[hexboard.S0][1] = minions.Unlocked
	g.TechStatus[hexboard.S1][2] = minions.Acquired

	loc := hexboard.Loc{File: 4, Rank: 4}
	g.Boards[0].Pieces[loc] = minions.Piece{Loc: loc, Label: units.Zombie, Side: hexboard.S0}
	enemyLoc := hexboard.Loc{File: 5, Rank: 5}
	g.Boards[1].Pieces[enemyLoc] = minions.Piece{Loc: enemyLoc, Label: units.Shrieker, Side: hexboard.S1}
	return g
}

func TestEmitParseFENRoundTrip(t *testing.T) {
	g := newFENTestGame()
	s := EmitFEN(g)

	back, err := ParseFEN(s, g.Config.Table)
	require.NoError(t, err)

	assert.Equal(t, g.SideToMove, back.SideToMove)
	assert.Equal(t, g.Money[hexboard.S0], back.Money[hexboard.S0])
	assert.Equal(t, g.Money[hexboard.S1], back.Money[hexboard.S1])
	assert.Equal(t, g.TechStatus[hexboard.S0], back.TechStatus[hexboard.S0])
	assert.Equal(t, g.TechStatus[hexboard.S1], back.TechStatus[hexboard.S1])
	require.Len(t, back.Boards, 2)

	loc := hexboard.Loc{File: 4, Rank: 4}
	p, ok := back.Boards[0].PieceAt(loc)
	require.True(t, ok)
	assert.Equal(t, units.Zombie, p.Label)
	assert.Equal(t, hexboard.S0, p.Side)

	enemyLoc := hexboard.Loc{File: 5, Rank: 5}
	ep, ok := back.Boards[1].PieceAt(enemyLoc)
	require.True(t, ok)
	assert.Equal(t, units.Shrieker, ep.Label)
	assert.Equal(t, hexboard.S1, ep.Side)
}

func TestTechOrdinalRoundTripsUnitAndSpecialCards(t *testing.T) {
	table := units.NewTable()
	unitCard := minions.UnitTech(units.Warg)
	assert.Equal(t, unitCard, techFromOrdinal(techOrdinal(unitCard), table))

	specialCard := minions.SpecialCard(minions.Metamagic)
	assert.Equal(t, specialCard, techFromOrdinal(techOrdinal(specialCard), table))
}

func TestParseFENRejectsWrongFieldCount(t *testing.T) {
	_, err := ParseFEN("1 2 3", units.NewTable())
	assert.Error(t, err)
}

func TestParseBoardRejectsUnknownFENLetter(t *testing.T) {
	rows := make([]string, hexboard.BoardSize)
	rows[0] = "?9" // unknown letter '?' followed by 9 empties
	for i := 1; i < hexboard.BoardSize; i++ {
		rows[i] = "0" // single digit '0' means 10 empty hexes, per emitBoard's encoding
	}
	s := rows[0]
	for _, r := range rows[1:] {
		s += "/" + r
	}
	_, err := parseBoard(s, hexboard.NewStandardMap(), units.NewTable())
	assert.Error(t, err)
}

func TestEmitBoardParseBoardRoundTrip(t *testing.T) {
	b := minions.NewBoard(hexboard.NewStandardMap())
	loc := hexboard.Loc{File: 2, Rank: 9}
	b.Pieces[loc] = minions.Piece{Loc: loc, Label: units.Lich, Side: hexboard.S1}

	s := emitBoard(b)
	back, err := parseBoard(s, b.Map, units.NewTable())
	require.NoError(t, err)

	p, ok := back.PieceAt(loc)
	require.True(t, ok)
	assert.Equal(t, units.Lich, p.Label)
	assert.Equal(t, hexboard.S1, p.Side)
}
