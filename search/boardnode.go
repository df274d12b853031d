package search

import (
	"context"

	"github.com/Matir03/minions/csolve"
	"github.com/Matir03/minions/hexboard"
	"github.com/Matir03/minions/minions"
	"github.com/Matir03/minions/spawn"
	"github.com/Matir03/minions/units"
)

// BoardNode is one board's per-ply decision unit (spec §4.6): a board
// snapshot, local MCTS statistics, and a cache of alternative combat plans
// so a later visit can pick a different plan instead of re-solving.
type BoardNode struct {
	Visits      uint32
	TotalValue  float32
	Variance    float32
	PlanCache   []csolve.AttackPlan
}

// ExpandResult is spec §4.6's (new board, money_spent). Board-win/loss
// accounting (delta board points) is left to minions.ResolveEndOfTurn, which
// the caller runs once over every board's combined result — duplicating
// that logic per-board here would only invite the two to disagree. Turn
// records the same result as a wire-level minions.BoardTurn, so a search
// node that settles on this expansion can replay it (spec §6.1's "go"
// command needs the real actions, not just the resulting board).
type ExpandResult struct {
	Board      *minions.Board
	MoneySpent int
	Plan       csolve.AttackPlan
	Turn       minions.BoardTurn
}

// Expand runs four steps: setup, combat, reposition, spawn. A planIdx that
// indexes bn.PlanCache reuses that cached plan; any other planIdx (such as
// -1) solves fresh and appends the new plan to the cache.
func (bn *BoardNode) Expand(ctx context.Context, b *minions.Board, side hexboard.Side, table *units.Table, moneyShare int, budget csolve.Budget, planIdx int) ExpandResult {
	board := b.Clone()
	spent := 0
	var bt minions.BoardTurn

	// 1. setup phase: reset-state boards choose a necromancer automatically
	// if missing (the general-purpose search path doesn't run a human
	// setup dialogue).
	bt.Setup = runAutoSetup(board, side, table)

	// 2. combat: solve (or reuse a cached plan) and commit attacks.
	var plan csolve.AttackPlan
	if planIdx >= 0 && planIdx < len(bn.PlanCache) {
		plan = bn.PlanCache[planIdx]
	} else {
		plan = csolve.Solve(ctx, board, side, table, budget)
		bn.PlanCache = append(bn.PlanCache, plan)
	}
	commitAttacks(board, side, table, plan)
	bt.Attack = append(bt.Attack, attackActionsFromPlan(plan)...)

	// 3. reposition non-attackers.
	bt.Attack = append(bt.Attack, repositionFree(board, side, table, plan)...)

	// 4. spawn heuristic with the board's money share.
	unlocked := unlockedFor(table)
	result := spawn.Run(board, side, table, unlocked, moneyShare)
	for _, p := range result.Placed {
		board.Pieces[p.Loc] = pieceFor(p, side)
		bt.Spawn = append(bt.Spawn, minions.SpawnAction{Kind: minions.Buy, Unit: p.Unit})
		bt.Spawn = append(bt.Spawn, minions.SpawnAction{Kind: minions.Spawn, Unit: p.Unit, Loc: p.Loc})
	}
	spent += result.MoneySpent

	return ExpandResult{Board: board, MoneySpent: spent, Plan: plan, Turn: bt}
}

// attackActionsFromPlan translates a solved AttackPlan into the wire-level
// Move+Attack action pairs that would reproduce it through ApplyTurn: a
// Move only when the attacker's dest differs from its origin (spec §4.3.2's
// dest_x), always followed by the Attack itself.
func attackActionsFromPlan(plan csolve.AttackPlan) []minions.AttackAction {
	actions := make([]minions.AttackAction, 0, len(plan.Attacks)*2)
	for _, a := range plan.Attacks {
		if a.Attacker != a.Dest {
			actions = append(actions, minions.AttackAction{Kind: minions.Move, From: a.Attacker, To: a.Dest})
		}
		actions = append(actions, minions.AttackAction{Kind: minions.Attack, Attacker: a.Dest, Target: a.Target})
	}
	return actions
}

func pieceFor(p spawn.Purchase, side hexboard.Side) minions.Piece {
	return minions.Piece{Loc: p.Loc, Label: p.Unit, Side: side}
}

func runAutoSetup(b *minions.Board, side hexboard.Side, table *units.Table) []minions.SetupAction {
	if b.State == minions.Normal || b.State == minions.Reset0 {
		return nil
	}
	if !b.HasNecromancer(side) {
		start := hexboard.StartHex(side)
		if _, occ := b.PieceAt(start); !occ {
			b.Pieces[start] = minions.Piece{Loc: start, Label: units.Necromancer, Side: side}
			return []minions.SetupAction{{Kind: minions.ChooseNecromancer, Unit: units.Necromancer, Loc: start, Side: side}}
		}
	}
	return nil
}

// commitAttacks applies a solved AttackPlan directly to the board snapshot,
// bypassing minions.ApplyTurn's action replay since the plan already
// encodes destinations and targets. Whether this killed the enemy
// necromancer is left for minions.ResolveEndOfTurn to discover and score.
func commitAttacks(b *minions.Board, side hexboard.Side, table *units.Table, plan csolve.AttackPlan) {
	for _, a := range plan.Attacks {
		attacker, ok := b.PieceAt(a.Attacker)
		if !ok {
			continue
		}
		target, ok := b.PieceAt(a.Target)
		if !ok {
			continue
		}
		u := table.Get(attacker.Label)
		tu := table.Get(target.Label)
		switch u.Attack {
		case units.Unsummon:
			if tu.Persistent {
				target.Modifiers.DamageTaken++
				b.Pieces[a.Target] = target
			} else {
				delete(b.Pieces, a.Target)
				b.Reinforcements[target.Side][target.Label]++
			}
		case units.Deathtouch:
			if !tu.Necromancer {
				delete(b.Pieces, a.Target)
			}
		default:
			target.Modifiers.DamageTaken += u.AttackValue
			if target.Modifiers.DamageTaken >= tu.Defense {
				delete(b.Pieces, a.Target)
			} else {
				b.Pieces[a.Target] = target
			}
		}
		if attacker.Loc != a.Dest {
			delete(b.Pieces, a.Attacker)
			attacker.Loc = a.Dest
		}
		attacker.Modifiers.HasAttacked = true
		b.Pieces[attacker.Loc] = attacker
	}
}

func repositionFree(b *minions.Board, side hexboard.Side, table *units.Table, plan csolve.AttackPlan) []minions.AttackAction {
	attacked := map[hexboard.Loc]bool{}
	for _, a := range plan.Attacks {
		attacked[a.Dest] = true
	}
	var free []hexboard.Loc
	for _, p := range b.PiecesOf(side) {
		if !attacked[p.Loc] {
			free = append(free, p.Loc)
		}
	}
	if len(free) == 0 {
		return nil
	}
	centre := csolve.EnemyCentreOfMass(b, side)
	var hexes []hexboard.Loc
	for _, p := range free {
		hexes = append(hexes, minions.LegalMoves(b, p, table)...)
	}
	placements := csolve.Reposition(free, hexes, csolve.HeuristicValue(b, side, table, centre))
	var moves []minions.AttackAction
	for _, pl := range placements {
		p, ok := b.PieceAt(pl.From)
		if !ok || b.Occupied(pl.To) {
			continue
		}
		delete(b.Pieces, pl.From)
		p.Loc = pl.To
		p.Modifiers.HasMoved = true
		b.Pieces[pl.To] = p
		moves = append(moves, minions.AttackAction{Kind: minions.Move, From: pl.From, To: pl.To})
	}
	return moves
}

func unlockedFor(table *units.Table) []units.UnitLabel {
	// In the search path (not a protocol-driven reinforcement check) every
	// labelled unit is considered a spawn candidate; ApplyTurn's Buy action
	// still enforces the real per-side unlocked set when a human-issued turn
	// is replayed through the kernel.
	return table.All()
}
