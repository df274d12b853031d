// Package spawn implements spec §4.5's greedy purchase-and-place heuristic.
// A solver-based spawn on large money pools would dominate total search
// time (spec §4.5), so placement is deliberately greedy and deterministic
// rather than optimal, mirroring the teacher's own preference for simple
// accumulate-then-pick loops in cmd/generatemoves over a full search.
package spawn

import (
	"sort"

	"github.com/Matir03/minions/hexboard"
	"github.com/Matir03/minions/minions"
	"github.com/Matir03/minions/units"
)

// Purchase is one bought-and-placed unit. Units that could not be placed
// are refunded and get no Purchase (spec §4.5.2).
type Purchase struct {
	Unit  units.UnitLabel
	Loc   hexboard.Loc
	Spent int
}

// Result is the spawn heuristic's output: committed purchases/placements and
// the money actually spent (purchases that could not be placed are
// refunded and excluded).
type Result struct {
	Placed      []Purchase
	MoneySpent  int
}

// Run executes spec §4.5's two-step procedure: purchase unlocked units in
// ascending cost order (preferring counters to abundant enemy types), then
// place them by cost descending onto spawn hexes sorted by proximity to the
// board centre and to leaning graveyards.
func Run(b *minions.Board, side hexboard.Side, table *units.Table, unlocked []units.UnitLabel, money int) Result {
	purchased := purchase(b, side, table, unlocked, money)
	return place(b, side, table, purchased)
}

// enemyCounterTargets returns, for each enemy label present on the board,
// the first label in unlocked that counters it (spec §4.5.1's "counter-of"
// relation: unit i counters i-1, i-2, i+3). purchase passes unlocked sorted
// by ascending cost, so that is the cheapest counter.
func enemyCounterTargets(b *minions.Board, side hexboard.Side, unlocked []units.UnitLabel) []units.UnitLabel {
	enemyPresent := map[units.UnitLabel]bool{}
	for _, p := range b.Pieces {
		if p.Side != side {
			enemyPresent[p.Label] = true
		}
	}
	var wants []units.UnitLabel
	for enemy := range enemyPresent {
		var best units.UnitLabel
		found := false
		for _, cand := range unlocked {
			if units.Counters(cand, enemy) {
				best = cand
				found = true
				break
			}
		}
		if found {
			wants = append(wants, best)
		}
	}
	return wants
}

func purchase(b *minions.Board, side hexboard.Side, table *units.Table, unlocked []units.UnitLabel, money int) []units.UnitLabel {
	labels := append([]units.UnitLabel(nil), unlocked...)
	sort.Slice(labels, func(i, j int) bool { return table.Get(labels[i]).Cost < table.Get(labels[j]).Cost })

	counters := enemyCounterTargets(b, side, labels)
	counterSet := map[units.UnitLabel]bool{}
	for _, c := range counters {
		counterSet[c] = true
	}
	// prefer counters first, cheapest-first within each tier, tie-broken by
	// value/cost ratio as spec §4.5.1 asks.
	ordered := make([]units.UnitLabel, 0, len(labels))
	ordered = append(ordered, sortByValueRatio(counters, table)...)
	for _, l := range labels {
		if !counterSet[l] {
			ordered = append(ordered, l)
		}
	}

	var bought []units.UnitLabel
	remaining := money
	progressed := true
	for progressed {
		progressed = false
		for _, l := range ordered {
			cost := table.Get(l).Cost
			if cost <= remaining && cost > 0 {
				bought = append(bought, l)
				remaining -= cost
				progressed = true
			}
		}
	}
	return bought
}

func sortByValueRatio(labels []units.UnitLabel, table *units.Table) []units.UnitLabel {
	out := append([]units.UnitLabel(nil), labels...)
	sort.Slice(out, func(i, j int) bool {
		ci, cj := table.Get(out[i]).Cost, table.Get(out[j]).Cost
		if ci != cj {
			return ci < cj
		}
		ri := table.Get(out[i]).Value() / float32(max1(ci))
		rj := table.Get(out[j]).Value() / float32(max1(cj))
		return ri > rj
	})
	return out
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

func place(b *minions.Board, side hexboard.Side, table *units.Table, bought []units.UnitLabel) Result {
	sort.Slice(bought, func(i, j int) bool { return table.Get(bought[i]).Cost > table.Get(bought[j]).Cost })

	centre := hexboard.Loc{File: hexboard.BoardSize / 2, Rank: hexboard.BoardSize / 2}
	graveyards := b.Map.Graveyards()

	taken := map[hexboard.Loc]bool{}
	res := Result{}
	for _, u := range bought {
		flying := table.Get(u).Flying
		var hexes []hexboard.Loc
		for _, h := range minions.ValidSpawnHexes(b, side, flying, table) {
			if !taken[h] {
				hexes = append(hexes, h)
			}
		}
		if len(hexes) == 0 {
			continue // unit could not be placed; cost is refunded (not added to MoneySpent)
		}
		sort.Slice(hexes, func(i, j int) bool {
			return spawnScore(hexes[i], centre, graveyards) < spawnScore(hexes[j], centre, graveyards)
		})
		chosen := hexes[0]
		taken[chosen] = true
		res.Placed = append(res.Placed, Purchase{Unit: u, Loc: chosen, Spent: table.Get(u).Cost})
		res.MoneySpent += table.Get(u).Cost
	}
	return res
}

func spawnScore(l, centre hexboard.Loc, graveyards []hexboard.Loc) int {
	best := l.Distance(centre)
	for _, g := range graveyards {
		if d := l.Distance(g); d < best {
			best = d
		}
	}
	return best
}
