// Package minions implements the game-rule kernel: immutable configuration,
// mutable game state, legal-move generation, turn application, and the
// end-of-turn resolution sequence (spec §3, §4.1).
package minions

import (
	"github.com/Matir03/minions/hexboard"
	"github.com/Matir03/minions/units"
)

// Modifiers are the transient per-piece flags spec §3 lists.
type Modifiers struct {
	Shielded    bool
	Frozen      bool
	Shackled    bool
	HasMoved    bool
	HasAttacked bool
	DamageTaken int
}

// Piece is a unit instance living on a board.
type Piece struct {
	Loc       hexboard.Loc
	Label     units.UnitLabel
	Side      hexboard.Side
	Modifiers Modifiers
}

// BoardState is the per-board lifecycle state from spec §3/§4.1.
type BoardState uint8

const (
	Normal BoardState = iota
	Reset0
	Reset1
	Reset2
)

func (s BoardState) String() string {
	switch s {
	case Normal:
		return "Normal"
	case Reset0:
		return "Reset0"
	case Reset1:
		return "Reset1"
	case Reset2:
		return "Reset2"
	}
	return "Unknown"
}

// TechStatus is the per-side, per-card tech state from spec §3.
type TechStatus uint8

const (
	Locked TechStatus = iota
	Unlocked
	Acquired
)

func (s TechStatus) FENLetter() byte {
	switch s {
	case Locked:
		return 'L'
	case Unlocked:
		return 'U'
	case Acquired:
		return 'A'
	}
	return '?'
}
