package minions

import (
	"github.com/Matir03/minions/hexboard"
	"github.com/Matir03/minions/units"
)

// ApplyTurn validates and applies turn to state, returning a new state.
// On any failure the returned error is non-nil and the caller's state is
// left completely unchanged (spec §7's all-or-nothing invariant) because
// every mutation below happens on a clone.
func ApplyTurn(state *GameState, turn GameTurn) (*GameState, error) {
	g := state.Clone()
	side := g.SideToMove

	if err := applyGeneralPhase(g, side, turn); err != nil {
		return nil, err
	}

	if len(turn.BoardTurns) != len(g.Boards) {
		return nil, illegal("board turn count does not match board count")
	}
	for i, bt := range turn.BoardTurns {
		if err := applyBoardTurn(g, i, side, bt); err != nil {
			return nil, err
		}
	}

	resolveEndOfTurn(g, side)

	g.SideToMove = side.Other()
	return g, nil
}

// applyGeneralPhase handles spell purchases and tech-card assignment
// (spec §4.7/§4.8): buying a spell costs SpellCost(n) money; assigning a
// spell to a card that already holds a friendly spell acquires it, subject
// to the "teching blocks opponent" invariant from spec §3.
func applyGeneralPhase(g *GameState, side hexboard.Side, turn GameTurn) error {
	cost := turn.SpellBuys * SpellCost(len(g.Boards))
	if cost > g.Money[side] {
		return insufficientMoney("not enough money to buy requested spells")
	}
	g.Money[side] -= cost

	spellsAvailable := turn.SpellBuys
	for _, idx := range turn.TechAssignment {
		if idx < 0 || idx >= g.Config.Techline.Len() {
			return illegal("tech index out of range")
		}
		if spellsAvailable <= 0 {
			return illegal("not enough purchased spells for tech assignment")
		}
		mine := g.TechStatus[side][idx]
		theirs := g.TechStatus[side.Other()][idx]
		if mine == Acquired {
			return illegal("tech already acquired")
		}
		if mine == Unlocked {
			if theirs == Acquired {
				return illegal("opponent already acquired this tech")
			}
			g.TechStatus[side][idx] = Acquired
			if idx+1 < g.Config.Techline.Len() && g.TechStatus[side][idx+1] == Locked {
				g.TechStatus[side][idx+1] = Unlocked
			}
		} else { // Locked: first spell marches it to Unlocked
			g.TechStatus[side][idx] = Unlocked
		}
		spellsAvailable--
	}
	return nil
}

func applyBoardTurn(g *GameState, boardIdx int, side hexboard.Side, bt BoardTurn) error {
	b := g.Boards[boardIdx]

	if bt.Resign {
		return nil // the board's phases are skipped; no board loss is scored for it
	}

	if err := applySetupPhase(g, b, side, bt.Setup); err != nil {
		return err
	}
	if err := applyAttackPhase(g, b, side, bt.Attack); err != nil {
		return err
	}
	if err := applySpawnPhase(g, b, side, bt.Spawn); err != nil {
		return err
	}
	return nil
}

func applySetupPhase(g *GameState, b *Board, side hexboard.Side, actions []SetupAction) error {
	switch b.State {
	case Normal:
		if len(actions) != 0 {
			return illegal("no setup actions allowed on a Normal board")
		}
		return nil
	case Reset0:
		if len(actions) != 0 {
			return illegal("Reset0 board must take a forced empty turn")
		}
		return nil
	}
	for _, a := range actions {
		switch a.Kind {
		case ChooseNecromancer:
			if b.HasNecromancer(side) {
				return illegal("necromancer already chosen")
			}
			start := hexboard.StartHex(side)
			if b.occupied(start) {
				return illegal("start hex occupied")
			}
			b.place(Piece{Loc: start, Label: a.Unit, Side: side})
		case SaveUnit:
			if b.Reinforcements[side][a.Unit] <= 0 {
				return illegal("no such unit in reinforcements to save")
			}
			// saving simply marks intent to keep it past reset; modeled as a
			// no-op against the reinforcement pool here since the reset
			// itself clears pieces, not reinforcements.
		case AddPiece:
			if b.State != Reset2 {
				return illegal("add is only legal during Reset2")
			}
			if b.Reinforcements[side][a.Unit] <= 0 {
				return illegal("unit not in reinforcements")
			}
			if b.occupied(a.Loc) {
				return illegal("hex already occupied")
			}
			b.Reinforcements[side][a.Unit]--
			b.place(Piece{Loc: a.Loc, Label: a.Unit, Side: side})
		case RemovePiece:
			if b.State != Reset2 {
				return illegal("remove is only legal during Reset2")
			}
			p, ok := b.PieceAt(a.Loc)
			if !ok || p.Side != side {
				return illegal("no friendly piece to remove there")
			}
			b.remove(a.Loc)
			b.Reinforcements[side][p.Label]++
		case ResetBoard:
			// explicit no-op marker; the reset effects already ran when the
			// board entered Reset0 (spec §4.1's "on reset").
		default:
			return illegal("unexpected setup action outside reset")
		}
	}
	return nil
}

func applyAttackPhase(g *GameState, b *Board, side hexboard.Side, actions []AttackAction) error {
	if b.State == Reset0 {
		if len(actions) != 0 {
			return illegal("Reset0 board must take a forced empty turn")
		}
		return nil
	}
	for _, a := range actions {
		switch a.Kind {
		case Move:
			if err := applyMove(g, b, side, a.From, a.To); err != nil {
				return err
			}
		case MoveCyclic:
			if err := applyMoveCyclic(b, side, a.Path); err != nil {
				return err
			}
		case Attack:
			if err := applyAttack(g, b, side, a.Attacker, a.Target); err != nil {
				return err
			}
		case Blink:
			if err := applyBlink(b, side, a.From); err != nil {
				return err
			}
		case EndAttackPhase:
			// no-op sentinel
		}
	}
	return nil
}

func applyMove(g *GameState, b *Board, side hexboard.Side, from, to hexboard.Loc) error {
	p, ok := b.PieceAt(from)
	if !ok || p.Side != side {
		return illegal("no friendly piece at move source")
	}
	if p.Modifiers.HasMoved {
		return illegal("piece has already moved this turn")
	}
	dests := LegalMoves(b, from, g.Config.Table)
	ok = false
	for _, d := range dests {
		if d == to {
			ok = true
			break
		}
	}
	if !ok {
		return illegal("destination unreachable")
	}
	p.Loc = to
	p.Modifiers.HasMoved = true
	b.remove(from)
	b.place(p)
	return nil
}

// applyMoveCyclic rotates a chain of friendlies simultaneously along path
// (spec §9.i's resolution of the open question): every hex but the last
// must hold one of the moving pieces in order, and the last hex must be
// empty (or reached cyclically, i.e. equal to path[0]).
func applyMoveCyclic(b *Board, side hexboard.Side, path []hexboard.Loc) error {
	if len(path) < 2 {
		return illegal("movecyclic needs at least two hexes")
	}
	pieces := make([]Piece, len(path)-1)
	for i := 0; i < len(path)-1; i++ {
		p, ok := b.PieceAt(path[i])
		if !ok || p.Side != side {
			return illegal("movecyclic chain hex is not a friendly piece")
		}
		if !path[i].IsAdjacent(path[i+1]) {
			return illegal("movecyclic path is not contiguous")
		}
		pieces[i] = p
	}
	last := path[len(path)-1]
	cyclic := last == path[0]
	if !cyclic && b.occupied(last) {
		return illegal("movecyclic destination is occupied")
	}
	for i := range pieces {
		b.remove(path[i])
	}
	for i, p := range pieces {
		p.Loc = path[i+1]
		p.Modifiers.HasMoved = true
		b.place(p)
	}
	return nil
}

func applyAttack(g *GameState, b *Board, side hexboard.Side, attackerLoc, targetLoc hexboard.Loc) error {
	attacker, ok := b.PieceAt(attackerLoc)
	if !ok || attacker.Side != side {
		return illegal("no friendly attacker at source")
	}
	if attacker.Modifiers.HasAttacked {
		return illegal("attacker has already attacked this turn")
	}
	target, ok := b.PieceAt(targetLoc)
	if !ok || target.Side == side {
		return illegal("no enemy target at destination")
	}
	u := g.Config.Table.Get(attacker.Label)
	if attackerLoc.Distance(targetLoc) > u.Range {
		return illegal("target out of range")
	}

	tu := g.Config.Table.Get(target.Label)
	removed := false
	switch u.Attack {
	case units.Unsummon:
		if tu.Persistent {
			target.Modifiers.DamageTaken++
		} else {
			b.remove(targetLoc)
			b.Reinforcements[target.Side][target.Label]++
			removed = true
		}
	case units.Deathtouch:
		if !tu.Necromancer {
			b.remove(targetLoc)
			removed = true
		}
	default: // Damage
		target.Modifiers.DamageTaken += u.AttackValue
		if target.Modifiers.DamageTaken >= tu.Defense {
			b.remove(targetLoc)
			removed = true
		}
	}
	if !removed {
		b.place(target)
	}
	attacker.Modifiers.HasAttacked = true
	b.place(attacker)
	return nil
}

// applyBlink implements spec §9.i's resolution: blink is self-unsummon,
// returning the piece to its own reinforcements.
func applyBlink(b *Board, side hexboard.Side, loc hexboard.Loc) error {
	p, ok := b.PieceAt(loc)
	if !ok || p.Side != side {
		return illegal("no friendly piece to blink")
	}
	b.remove(loc)
	b.Reinforcements[side][p.Label]++
	return nil
}

func applySpawnPhase(g *GameState, b *Board, side hexboard.Side, actions []SpawnAction) error {
	if b.State == Reset0 || b.State == Reset1 {
		if len(actions) != 0 {
			return illegal("no spawn phase allowed on this board state")
		}
		return nil
	}
	for _, a := range actions {
		switch a.Kind {
		case Buy:
			cost := g.Config.Table.Get(a.Unit).Cost
			if cost > g.Money[side] {
				return insufficientMoney("cannot afford purchase")
			}
			g.Money[side] -= cost
			b.Reinforcements[side][a.Unit]++
		case Spawn:
			if b.Reinforcements[side][a.Unit] <= 0 {
				return illegal("unit not in reinforcements")
			}
			if b.occupied(a.Loc) {
				return illegal("spawn hex occupied")
			}
			flying := g.Config.Table.Get(a.Unit).Flying
			valid := false
			for _, h := range ValidSpawnHexes(b, side, flying, g.Config.Table) {
				if h == a.Loc {
					valid = true
					break
				}
			}
			if !valid {
				return illegal("not a valid spawn hex")
			}
			b.Reinforcements[side][a.Unit]--
			b.place(Piece{Loc: a.Loc, Label: a.Unit, Side: side})
		case Discard:
			// no board-level effect; spell pool bookkeeping lives in the
			// general phase.
		case EndSpawnPhase:
		}
	}
	return nil
}
