package search

import (
	"github.com/Matir03/minions/hexboard"
	"github.com/Matir03/minions/minions"
	"github.com/Matir03/minions/units"
)

// GeneralDecision is the output of spec §4.7's algorithm: the target tech
// card to spend this turn's spell(s) on, and how many spells to buy.
type GeneralDecision struct {
	TargetIndex int // -1 if nothing to do
	Acquire     bool
	SpellBuys   int
}

// DecideGeneral implements spec §4.7's four-step algorithm.
func DecideGeneral(g *minions.GameState, side hexboard.Side) GeneralDecision {
	enemy := side.Other()
	techline := g.Config.Techline

	target := highestUncounteredEnemyTech(g, side, enemy, techline)
	if target < 0 {
		target = marchTarget(g, side, enemy, techline)
	}
	if target < 0 || target >= techline.Len() {
		return GeneralDecision{TargetIndex: -1}
	}

	mine := g.TechStatus[side][target]
	theirs := g.TechStatus[enemy][target]
	acquirable := mine == minions.Unlocked && theirs != minions.Acquired
	return GeneralDecision{TargetIndex: target, Acquire: acquirable, SpellBuys: 1}
}

// highestUncounteredEnemyTech implements step 1: the highest enemy tech
// index with no friendly counter teched, targeting its canonical counter.
func highestUncounteredEnemyTech(g *minions.GameState, side, enemy hexboard.Side, tl *minions.Techline) int {
	for i := tl.Len() - 1; i >= 0; i-- {
		if g.TechStatus[enemy][i] == minions.Locked {
			continue
		}
		card := tl.Cards[i]
		if !card.IsUnit {
			continue
		}
		if friendlyCounters(g, side, tl, card.Unit) {
			continue
		}
		if counterIdx := canonicalCounterTech(tl, card.Unit); counterIdx >= 0 {
			return counterIdx
		}
	}
	return -1
}

func friendlyCounters(g *minions.GameState, side hexboard.Side, tl *minions.Techline, enemyUnit units.UnitLabel) bool {
	for j, st := range g.TechStatus[side] {
		if st == minions.Locked {
			continue
		}
		card := tl.Cards[j]
		if card.IsUnit && units.Counters(card.Unit, enemyUnit) {
			return true
		}
	}
	return false
}

func canonicalCounterTech(tl *minions.Techline, enemyUnit units.UnitLabel) int {
	best := -1
	for i, card := range tl.Cards {
		if card.IsUnit && units.Counters(card.Unit, enemyUnit) {
			if best < 0 || i < best {
				best = i
			}
		}
	}
	return best
}

// marchTarget implements step 2: index a+3 of the highest friendly tech, or
// a+5 if the opponent already holds that index.
func marchTarget(g *minions.GameState, side, enemy hexboard.Side, tl *minions.Techline) int {
	a := highestFriendlyIndex(g, side)
	if a < 0 {
		if tl.Len() > 0 {
			return 0
		}
		return -1
	}
	t3 := a + 3
	if t3 < tl.Len() && g.TechStatus[enemy][t3] != minions.Locked {
		t5 := a + 5
		if t5 < tl.Len() {
			return t5
		}
	}
	if t3 < tl.Len() {
		return t3
	}
	return -1
}

func highestFriendlyIndex(g *minions.GameState, side hexboard.Side) int {
	best := -1
	for i, st := range g.TechStatus[side] {
		if st != minions.Locked {
			best = i
		}
	}
	return best
}
