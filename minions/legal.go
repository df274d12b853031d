package minions

import (
	"github.com/Matir03/minions/hexboard"
	"github.com/Matir03/minions/units"
)

// LegalSetup enumerates spec §4.1's legal_setup: necromancer choices and
// save-unit choices when the board is mid-reset, empty in Normal.
func LegalSetup(b *Board, side hexboard.Side, table *units.Table) []SetupAction {
	switch b.State {
	case Reset1, Reset2:
		var out []SetupAction
		for _, label := range table.All() {
			if table.Get(label).Necromancer {
				out = append(out, SetupAction{Kind: ChooseNecromancer, Unit: label, Side: side})
			}
		}
		for label, n := range b.Reinforcements[side] {
			if n > 0 {
				out = append(out, SetupAction{Kind: SaveUnit, Unit: label, Side: side})
			}
		}
		return out
	default:
		return nil
	}
}

// AttackCandidate is one (attacker, target, attack-hex) triple from spec
// §4.1's legal_attacks.
type AttackCandidate struct {
	Attacker  hexboard.Loc
	Target    hexboard.Loc
	AttackHex hexboard.Loc
}

// LegalAttacks enumerates every legal (attacker, target, attack-hex) triple
// for side on b: for each friendly piece, each enemy it can reach an attack
// hex for within range, where reachability ignores friendly blocking but
// respects enemy blocking (unless flying).
func LegalAttacks(b *Board, side hexboard.Side, table *units.Table) []AttackCandidate {
	var out []AttackCandidate
	for _, x := range b.piecesOf(side) {
		if x.Modifiers.Frozen || x.Modifiers.HasAttacked {
			continue
		}
		u := table.Get(x.Label)
		if u.NumAttacks == 0 {
			continue
		}
		for _, y := range b.piecesOf(side.Other()) {
			hexes := b.AttackHexes(x, y, table)
			for _, h := range hexes {
				out = append(out, AttackCandidate{Attacker: x.Loc, Target: y.Loc, AttackHex: h})
			}
		}
	}
	return out
}

// LegalMoves enumerates every hex a friendly piece could move to, ignoring
// attacks, for use by the repositioning solver (spec §4.4).
func LegalMoves(b *Board, loc hexboard.Loc, table *units.Table) []hexboard.Loc {
	p, ok := b.PieceAt(loc)
	if !ok {
		return nil
	}
	u := table.Get(p.Label)
	if u.Lumbering || p.Modifiers.Shackled {
		return []hexboard.Loc{loc}
	}
	reach := b.ReachableForMovement(loc, u.Speed, u.Flying, p.Side)
	out := make([]hexboard.Loc, 0, len(reach))
	for l := range reach {
		if l == loc || !b.occupied(l) {
			out = append(out, l)
		}
	}
	return out
}

// ValidSpawnHexes returns the empty hexes adjacent to a friendly piece with
// the Spawn flag, restricted to land unless the unit being placed flies
// (spec §4.5).
func ValidSpawnHexes(b *Board, side hexboard.Side, flying bool, table *units.Table) []hexboard.Loc {
	seeds := map[hexboard.Loc]bool{}
	for _, p := range b.piecesOf(side) {
		if table.Get(p.Label).Spawn {
			seeds[p.Loc] = true
		}
	}
	seen := map[hexboard.Loc]bool{}
	var out []hexboard.Loc
	for seed := range seeds {
		for _, n := range seed.Neighbours() {
			if seen[n] || b.occupied(n) {
				continue
			}
			if b.Map.TileAt(n) == hexboard.Water && !flying {
				continue
			}
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}
