package search

import (
	"github.com/Matir03/minions/eval"
	"github.com/Matir03/minions/hexboard"
	"github.com/Matir03/minions/minions"
)

// MoneySplit is Blotto's output: the general's share and a per-board share,
// spec §4.8.
type MoneySplit struct {
	General int
	Board   []int
}

// Blotto splits side's current money between the general (who spends
// 8n*(spellsRequested-1) on additional spells) and the active boards (not
// in Reset0), with a small residual going to the board with the highest
// marginal evaluator value, per spec §4.8.
func Blotto(g *minions.GameState, side hexboard.Side, spellsRequested int, ev eval.Evaluator) MoneySplit {
	total := g.Money[side]
	generalShare := minions.SpellCost(len(g.Boards)) * maxInt(spellsRequested-1, 0)
	if generalShare > total {
		generalShare = total
	}
	remaining := total - generalShare

	active := activeBoardIndices(g)
	split := make([]int, len(g.Boards))
	if len(active) == 0 {
		return MoneySplit{General: generalShare, Board: split}
	}

	share := remaining / len(active)
	residual := remaining - share*len(active)
	for _, i := range active {
		split[i] = share
	}

	best := bestMarginalBoard(g, side, active, ev)
	if best >= 0 {
		split[best] += residual
	} else if len(active) > 0 {
		split[active[0]] += residual
	}

	return MoneySplit{General: generalShare, Board: split}
}

func activeBoardIndices(g *minions.GameState) []int {
	var out []int
	for i, b := range g.Boards {
		if b.State != minions.Reset0 {
			out = append(out, i)
		}
	}
	return out
}

// bestMarginalBoard picks the active board whose evaluator-scored board
// value is most favourable to side, a cheap stand-in for simulating each
// extra unit of spend (spec §4.8's "marginal value under the evaluator").
func bestMarginalBoard(g *minions.GameState, side hexboard.Side, active []int, ev eval.Evaluator) int {
	if ev == nil || len(active) == 0 {
		return -1
	}
	best := -1
	var bestVal float32 = -1 << 30
	for _, i := range active {
		v := boardOnlyValue(g, i, side)
		if v > bestVal {
			bestVal = v
			best = i
		}
	}
	return best
}

func boardOnlyValue(g *minions.GameState, boardIdx int, side hexboard.Side) float32 {
	b := g.Boards[boardIdx]
	var v float32
	for _, p := range b.Pieces {
		sign := float32(1)
		if p.Side != side {
			sign = -1
		}
		v += sign * float32(g.Config.Table.Get(p.Label).Value())
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
