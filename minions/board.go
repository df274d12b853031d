package minions

import (
	"github.com/Matir03/minions/hexboard"
	"github.com/Matir03/minions/units"
)

// Board is one of the n parallel boards a game is played across (spec §3).
type Board struct {
	Map            *hexboard.Map
	State          BoardState
	Pieces         map[hexboard.Loc]Piece
	Reinforcements hexboard.SideArray[map[units.UnitLabel]int]
	Winner         *hexboard.Side
}

// NewBoard creates an empty board on m, ready for initial necromancer setup.
func NewBoard(m *hexboard.Map) *Board {
	b := &Board{
		Map:    m,
		State:  Reset2, // both sides choose a necromancer before play begins
		Pieces: make(map[hexboard.Loc]Piece),
	}
	b.Reinforcements[hexboard.S0] = map[units.UnitLabel]int{}
	b.Reinforcements[hexboard.S1] = map[units.UnitLabel]int{}
	return b
}

// Clone returns an independent deep copy, the "cheap-to-clone snapshot"
// spec §3's ownership model requires for child game states.
func (b *Board) Clone() *Board {
	nb := &Board{
		Map:    b.Map, // shared by value, never mutated
		State:  b.State,
		Pieces: make(map[hexboard.Loc]Piece, len(b.Pieces)),
	}
	for k, v := range b.Pieces {
		nb.Pieces[k] = v
	}
	for s := range b.Reinforcements {
		m := make(map[units.UnitLabel]int, len(b.Reinforcements[s]))
		for k, v := range b.Reinforcements[s] {
			m[k] = v
		}
		nb.Reinforcements[s] = m
	}
	if b.Winner != nil {
		w := *b.Winner
		nb.Winner = &w
	}
	return nb
}

// PieceAt returns the piece on loc, if any.
func (b *Board) PieceAt(loc hexboard.Loc) (Piece, bool) {
	p, ok := b.Pieces[loc]
	return p, ok
}

// occupied reports whether loc is occupied, regardless of side.
func (b *Board) occupied(loc hexboard.Loc) bool {
	_, ok := b.Pieces[loc]
	return ok
}

// HasNecromancer reports whether side still has a necromancer on the board.
func (b *Board) HasNecromancer(side hexboard.Side) bool {
	for _, p := range b.Pieces {
		if p.Side == side && p.Label == units.Necromancer {
			return true
		}
	}
	return false
}

// Necromancer returns side's necromancer piece, if present.
func (b *Board) Necromancer(side hexboard.Side) (Piece, bool) {
	for _, p := range b.Pieces {
		if p.Side == side && p.Label == units.Necromancer {
			return p, true
		}
	}
	return Piece{}, false
}

// graveyardsHeldBy returns the count of graveyards with a friendly piece.
func (b *Board) graveyardsHeldBy(side hexboard.Side) int {
	n := 0
	for _, gy := range b.Map.Graveyards() {
		if p, ok := b.Pieces[gy]; ok && p.Side == side {
			n++
		}
	}
	return n
}

// graveyardsHeldByOpponent counts graveyards held by the other side, used by
// the board-loss check (>=8 enemy-held graveyards, spec §4.1).
func (b *Board) graveyardsHeldByOpponent(side hexboard.Side) int {
	return b.graveyardsHeldBy(side.Other())
}

// Income computes spec §4.1's "g + s + 2" formula for side.
func (b *Board) Income(side hexboard.Side, table *units.Table) int {
	g := b.graveyardsHeldBy(side)
	s := 0
	if necro, ok := b.Necromancer(side); ok {
		if table.Get(necro.Label).HasKeyword("soul") {
			s = 1
		}
	}
	return g + s + 2
}

// piecesOf returns every piece belonging to side.
func (b *Board) piecesOf(side hexboard.Side) []Piece {
	var out []Piece
	for _, p := range b.Pieces {
		if p.Side == side {
			out = append(out, p)
		}
	}
	return out
}

// PiecesOf is the exported form of piecesOf, for callers outside the
// package (the search package's board-node expansion).
func (b *Board) PiecesOf(side hexboard.Side) []Piece {
	return b.piecesOf(side)
}

// Occupied is the exported form of occupied.
func (b *Board) Occupied(loc hexboard.Loc) bool {
	return b.occupied(loc)
}

// place puts p on the board, overwriting any occupant at p.Loc (callers are
// responsible for having validated legality beforehand).
func (b *Board) place(p Piece) {
	b.Pieces[p.Loc] = p
}

// remove deletes the piece at loc and returns it, if any.
func (b *Board) remove(loc hexboard.Loc) (Piece, bool) {
	p, ok := b.Pieces[loc]
	if ok {
		delete(b.Pieces, loc)
	}
	return p, ok
}

// reachable runs a BFS over the hex grid bounded by speed, respecting the
// movement rules spec §4.1/§4.3.1 describe: land only unless flying, water
// only if flying, and the given blocking predicate decides which occupied
// hexes stop ground movement (friendlies never block; enemies block unless
// evacuating is permitted by the caller's predicate). Flyers pass over
// blocked hexes but never end on one.
func (b *Board) reachable(start hexboard.Loc, speed int, flying bool, blocked func(hexboard.Loc) bool) map[hexboard.Loc]int {
	dist := map[hexboard.Loc]int{start: 0}
	over := map[hexboard.Loc]bool{}
	frontier := []hexboard.Loc{start}
	for len(frontier) > 0 {
		var next []hexboard.Loc
		for _, cur := range frontier {
			d := dist[cur]
			if d >= speed {
				continue
			}
			for _, n := range cur.Neighbours() {
				if _, seen := dist[n]; seen {
					continue
				}
				if b.Map.TileAt(n) == hexboard.Water && !flying {
					continue
				}
				if blocked(n) {
					if !flying {
						continue
					}
					over[n] = true
				}
				dist[n] = d + 1
				next = append(next, n)
			}
		}
		frontier = next
	}
	for l := range over {
		delete(dist, l)
	}
	return dist
}

// ReachableForMovement returns hexes side's piece at start with the given
// speed/flying can move to, with enemies blocking ground movement (friendly
// pieces never block, matching spec §4.1's legal_attacks note).
func (b *Board) ReachableForMovement(start hexboard.Loc, speed int, flying bool, side hexboard.Side) map[hexboard.Loc]int {
	return b.reachable(start, speed, flying, func(l hexboard.Loc) bool {
		if l == start {
			return false
		}
		p, ok := b.Pieces[l]
		if !ok {
			return false
		}
		return p.Side != side // enemies block; friendlies never do
	})
}

// ReachableIgnoringFriendlies implements §4.3.1's "x can reach s under
// movement rules ignoring friendly-blocking (friendlies may evacuate)":
// only enemy occupancy blocks the path.
func (b *Board) ReachableIgnoringFriendlies(start hexboard.Loc, speed int, flying bool, side hexboard.Side) map[hexboard.Loc]int {
	return b.ReachableForMovement(start, speed, flying, side) // friendlies already never block above
}

// AttackHexes computes spec §4.3.1's AttackHexes(x, y): hexes s such that
// dist(s, y.Loc) <= range(x) and x can reach s (friendlies may evacuate).
func (b *Board) AttackHexes(attacker Piece, target Piece, table *units.Table) []hexboard.Loc {
	u := table.Get(attacker.Label)
	reach := b.ReachableIgnoringFriendlies(attacker.Loc, u.Speed, u.Flying, attacker.Side)
	var out []hexboard.Loc
	for loc := range reach {
		if loc.Distance(target.Loc) <= u.Range {
			out = append(out, loc)
		}
	}
	return out
}
