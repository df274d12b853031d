package minions

import (
	"fmt"

	"github.com/Matir03/minions/hexboard"
)

// GameState is the mutable, per-node position (spec §3). Config is shared by
// reference; everything else is owned by this node and cloned for children.
type GameState struct {
	Config      *GameConfig
	SideToMove  hexboard.Side
	Boards      []*Board
	TechStatus  hexboard.SideArray[[]TechStatus]
	Money       hexboard.SideArray[int]
	BoardPoints hexboard.SideArray[int]
}

// NewGame creates the starting position: one map per board, all tech cards
// Locked except the first Unlocked for both sides, zero money, zero points.
func NewGame(cfg *GameConfig, maps []*hexboard.Map) *GameState {
	g := &GameState{
		Config:     cfg,
		SideToMove: hexboard.S0,
		Boards:     make([]*Board, len(maps)),
	}
	for i, m := range maps {
		g.Boards[i] = NewBoard(m)
	}
	n := cfg.Techline.Len()
	for s := hexboard.Side(0); s < 2; s++ {
		st := make([]TechStatus, n)
		if n > 0 {
			st[0] = Unlocked
		}
		g.TechStatus[s] = st
	}
	return g
}

// Clone returns an independent deep copy; Config is shared, not copied.
func (g *GameState) Clone() *GameState {
	ng := &GameState{
		Config:      g.Config,
		SideToMove:  g.SideToMove,
		Boards:      make([]*Board, len(g.Boards)),
		Money:       g.Money,
		BoardPoints: g.BoardPoints,
	}
	for i, b := range g.Boards {
		ng.Boards[i] = b.Clone()
	}
	for s := range g.TechStatus {
		cp := make([]TechStatus, len(g.TechStatus[s]))
		copy(cp, g.TechStatus[s])
		ng.TechStatus[s] = cp
	}
	return ng
}

// Eq reports deep equality, used by the MCTS root-reuse path and round-trip
// tests (spec §8).
func (g *GameState) Eq(o *GameState) bool {
	if g.SideToMove != o.SideToMove || g.Money != o.Money || g.BoardPoints != o.BoardPoints {
		return false
	}
	if len(g.Boards) != len(o.Boards) {
		return false
	}
	for s := range g.TechStatus {
		if len(g.TechStatus[s]) != len(o.TechStatus[s]) {
			return false
		}
		for i := range g.TechStatus[s] {
			if g.TechStatus[s][i] != o.TechStatus[s][i] {
				return false
			}
		}
	}
	for i := range g.Boards {
		a, b := g.Boards[i], o.Boards[i]
		if a.State != b.State || len(a.Pieces) != len(b.Pieces) {
			return false
		}
		for loc, p := range a.Pieces {
			q, ok := b.Pieces[loc]
			if !ok || q != p {
				return false
			}
		}
	}
	return true
}

// WinsNeeded returns w(n) for this game's board count.
func (g *GameState) WinsNeeded() int {
	return WinTarget(len(g.Boards))
}

// GameOver reports whether side has already reached its win target.
func (g *GameState) GameOver() (over bool, winner hexboard.Side) {
	need := g.WinsNeeded()
	if g.BoardPoints[hexboard.S0] >= need {
		return true, hexboard.S0
	}
	if g.BoardPoints[hexboard.S1] >= need {
		return true, hexboard.S1
	}
	return false, 0
}

// FurthestAcquired returns the highest card index Acquired by side, or -1.
func (g *GameState) FurthestAcquired(side hexboard.Side) int {
	best := -1
	for i, st := range g.TechStatus[side] {
		if st == Acquired {
			best = i
		}
	}
	return best
}

func (g *GameState) String() string {
	return fmt.Sprintf("GameState{side=%v money=%v points=%v boards=%d}",
		g.SideToMove, g.Money, g.BoardPoints, len(g.Boards))
}
