package minions

import (
	"github.com/Matir03/minions/hexboard"
	"github.com/Matir03/minions/units"
)

// ResolveEndOfTurn is the exported form of resolveEndOfTurn, for callers
// outside the package that assemble a GameState without going through
// ApplyTurn's action replay (the search package's board-node expansion).
func ResolveEndOfTurn(g *GameState, mover hexboard.Side) {
	resolveEndOfTurn(g, mover)
}

// resolveEndOfTurn applies spec §4.1's fixed end-of-turn order:
// income -> board wins (necromancer kills) -> game-win check for mover ->
// board losses (>=8 enemy graveyards) -> game-win check for opponent ->
// board state transitions. mover is the side whose turn is being resolved.
// Resigns are not scored here: ApplyTurn only skips a resigning board's
// phases, and no board loss is recorded for it.
func resolveEndOfTurn(g *GameState, mover hexboard.Side) {
	opponent := mover.Other()
	prevStates := make([]BoardState, len(g.Boards))
	for i, b := range g.Boards {
		prevStates[i] = b.State
	}

	// income
	for _, b := range g.Boards {
		if b.State == Reset0 {
			continue // forced-pass board earns no income
		}
		g.Money[mover] += b.Income(mover, g.Config.Table)
	}

	// board wins: mover's attacks may have just killed the opponent's
	// necromancer
	for _, b := range g.Boards {
		if b.State != Normal {
			continue
		}
		if !b.HasNecromancer(opponent) {
			g.BoardPoints[mover]++
			startReset(b, mover)
		}
	}

	if over, _ := g.GameOver(); over {
		return
	}

	// board losses: >=8 enemy-held graveyards
	for _, b := range g.Boards {
		if b.State != Normal {
			continue
		}
		if b.graveyardsHeldByOpponent(mover) >= 8 {
			g.BoardPoints[opponent]++
			startReset(b, opponent)
		}
	}

	if over, _ := g.GameOver(); over {
		return
	}

	// board state transitions: only boards that were ALREADY mid-reset
	// before this turn's events advance one step; boards that just started
	// resetting above must still take their forced-empty turn first.
	for i, b := range g.Boards {
		switch prevStates[i] {
		case Reset0:
			b.State = Reset1
		case Reset1:
			b.State = Reset2
		case Reset2:
			b.State = Normal
		}
	}
}

// startReset performs spec §4.1's "on reset" effects and sets the board to
// Reset0 (the loser's forced-pass turn comes first): units return to
// reinforcements, six zombies appear adjacent to each side's starting hex,
// and an extra initiate is added to each reinforcement bag.
func startReset(b *Board, winner hexboard.Side) {
	for loc, p := range b.Pieces {
		b.Reinforcements[p.Side][p.Label]++
		delete(b.Pieces, loc)
	}

	for s := hexboard.Side(0); s < 2; s++ {
		start := hexboard.StartHex(s)
		placed := 0
		for _, n := range start.Neighbours() {
			if placed >= 6 {
				break
			}
			if b.Map.TileAt(n) == hexboard.Water {
				continue
			}
			b.place(Piece{Loc: n, Label: units.Zombie, Side: s})
			placed++
		}
		b.Reinforcements[s][units.Initiate]++
	}

	w := winner
	b.Winner = &w
	b.State = Reset0
}
