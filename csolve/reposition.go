package csolve

import (
	"github.com/Matir03/minions/hexboard"
	"github.com/Matir03/minions/minions"
	"github.com/Matir03/minions/units"
)

// exactAssignmentLimit is the largest free-piece count for which Reposition
// solves the assignment problem exactly, by exhaustive search over
// injective mappings (and only when there are at most 9 candidate hexes),
// per spec §4.4 ("MUST be solved exactly... when the number of free pieces
// is small; otherwise it MAY be approximated greedily"). No Jonker-Volgenant
// implementation appears anywhere in the retrieval pack's gonum usage, so
// small instances get an exact stdlib search instead (see DESIGN.md).
const exactAssignmentLimit = 7

// Placement assigns a free (non-attacking) friendly piece to a destination
// hex.
type Placement struct {
	From hexboard.Loc
	To   hexboard.Loc
}

// ValueFunc scores placing the piece currently at `from` onto hex `to`,
// spec §4.4's value(x, s).
type ValueFunc func(from, to hexboard.Loc) float32

// Reposition solves spec §4.4's assignment problem for the given free
// pieces and candidate hexes: maximize sum value(x,s) subject to each piece
// getting exactly one hex and each hex holding at most one piece. With more
// than exactAssignmentLimit pieces or more than 9 hexes it uses a greedy
// assignment, which is not guaranteed to reach the maximum.
func Reposition(free []hexboard.Loc, hexes []hexboard.Loc, value ValueFunc) []Placement {
	if len(free) == 0 || len(hexes) == 0 {
		return nil
	}
	if len(free) <= exactAssignmentLimit && len(hexes) <= 9 {
		return exactAssignment(free, hexes, value)
	}
	return greedyAssignment(free, hexes, value)
}

// exactAssignment tries every injective mapping from free pieces to a
// subset of hexes (exhaustive enumeration, no pruning), returning the
// optimum. Pieces may also be left in place (no placement emitted) when no
// hex improves on staying put.
func exactAssignment(free []hexboard.Loc, hexes []hexboard.Loc, value ValueFunc) []Placement {
	used := make([]bool, len(hexes))
	best := make([]int, len(free)) // best[i] = index into hexes, or -1
	bestVal := float32(-1 << 30)
	cur := make([]int, len(free))

	var rec func(i int, acc float32)
	rec = func(i int, acc float32) {
		if i == len(free) {
			if acc > bestVal {
				bestVal = acc
				copy(best, cur)
			}
			return
		}
		// option: leave piece i unplaced
		cur[i] = -1
		rec(i+1, acc)

		for h := range hexes {
			if used[h] {
				continue
			}
			used[h] = true
			cur[i] = h
			rec(i+1, acc+value(free[i], hexes[h]))
			used[h] = false
		}
		cur[i] = -1
	}
	rec(0, 0)

	var out []Placement
	for i, h := range best {
		if h >= 0 {
			out = append(out, Placement{From: free[i], To: hexes[h]})
		}
	}
	return out
}

// greedyAssignment sorts pieces by their best available hex value
// descending and assigns greedily, the spec §4.5-style fallback for large
// free-piece counts.
func greedyAssignment(free []hexboard.Loc, hexes []hexboard.Loc, value ValueFunc) []Placement {
	free = append([]hexboard.Loc(nil), free...)
	remaining := append([]hexboard.Loc(nil), hexes...)
	var out []Placement

	for len(free) > 0 && len(remaining) > 0 {
		var bestPiece int = -1
		var bestHex int
		bestVal := float32(-1 << 30)
		for pi, p := range free {
			for hi, h := range remaining {
				v := value(p, h)
				if v > bestVal {
					bestVal = v
					bestPiece = pi
					bestHex = hi
				}
			}
		}
		if bestPiece < 0 || bestVal <= 0 {
			break
		}
		out = append(out, Placement{From: free[bestPiece], To: remaining[bestHex]})
		free = append(free[:bestPiece], free[bestPiece+1:]...)
		remaining = append(remaining[:bestHex], remaining[bestHex+1:]...)
	}
	return out
}

// HeuristicValue is the default value(x, s) from spec §4.4: occupancy of
// graveyards leaning toward us, distance toward the enemy centre-of-mass,
// and a role-specific multiplier (flyers value forward hexes more).
func HeuristicValue(b *minions.Board, side hexboard.Side, table *units.Table, enemyCentre hexboard.Loc) ValueFunc {
	return func(from, to hexboard.Loc) float32 {
		v := float32(0)
		for _, gy := range b.Map.Graveyards() {
			if to == gy {
				v += 5
			}
		}
		dist := to.Distance(enemyCentre)
		v += 1.0 / float32(dist+1)
		if p, ok := b.PieceAt(from); ok && table.Get(p.Label).Flying {
			v *= 1.2
		}
		return v
	}
}

// EnemyCentreOfMass averages enemy piece locations, used by HeuristicValue.
func EnemyCentreOfMass(b *minions.Board, side hexboard.Side) hexboard.Loc {
	var sumF, sumR, n int
	for _, p := range b.Pieces {
		if p.Side != side {
			sumF += p.Loc.File
			sumR += p.Loc.Rank
			n++
		}
	}
	if n == 0 {
		return hexboard.StartHex(side.Other())
	}
	return hexboard.Loc{File: sumF / n, Rank: sumR / n}
}
