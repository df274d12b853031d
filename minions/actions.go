package minions

import (
	"github.com/Matir03/minions/hexboard"
	"github.com/Matir03/minions/units"
)

// SetupActionKind enumerates spec §3's SetupAction variants.
type SetupActionKind uint8

const (
	ChooseNecromancer SetupActionKind = iota
	SaveUnit
	AddPiece
	RemovePiece
	ResetBoard
)

// SetupAction is one setup-phase action.
type SetupAction struct {
	Kind  SetupActionKind
	Unit  units.UnitLabel
	Loc   hexboard.Loc
	Side  hexboard.Side
}

// AttackActionKind enumerates spec §3's AttackAction variants.
type AttackActionKind uint8

const (
	Move AttackActionKind = iota
	MoveCyclic
	Attack
	Blink
	EndAttackPhase
)

// AttackAction is one attack-phase action.
type AttackAction struct {
	Kind     AttackActionKind
	From, To hexboard.Loc
	Path     []hexboard.Loc // MoveCyclic: the chain, From->...->To
	Attacker hexboard.Loc
	Target   hexboard.Loc
}

// SpawnActionKind enumerates spec §3's SpawnAction variants.
type SpawnActionKind uint8

const (
	Buy SpawnActionKind = iota
	Spawn
	Discard
	EndSpawnPhase
)

// SpawnAction is one spawn-phase action.
type SpawnAction struct {
	Kind  SpawnActionKind
	Unit  units.UnitLabel
	Loc   hexboard.Loc
	Spell int // tech card index, for Discard
}

// BoardTurn is the phase-partitioned set of actions for one board, per
// spec §3.
type BoardTurn struct {
	Setup  []SetupAction
	Attack []AttackAction
	Spawn  []SpawnAction
	Resign bool
}

// GameTurn is the full per-ply action bundle, per spec §3.
type GameTurn struct {
	SpellBuys      int
	TechAssignment []int // card indices receiving a spell this turn
	BoardTurns     []BoardTurn
	Resigns        map[int]bool // board index -> resigned
}

// NewGameTurn allocates an empty turn sized for n boards.
func NewGameTurn(n int) GameTurn {
	return GameTurn{
		BoardTurns: make([]BoardTurn, n),
		Resigns:    map[int]bool{},
	}
}
