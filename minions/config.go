package minions

import "github.com/Matir03/minions/units"

// GameConfig bundles the immutable, shared-by-value configuration every
// GameState references: the unit table, the techline, and the board count. It is
// created once and never mutated (spec §3's ownership rule).
type GameConfig struct {
	Table    *units.Table
	Techline *Techline
	NumBoards int
}

// NewStandardConfig builds the default ruleset: the 21-unit table, the
// standard techline, and numBoards as the board count.
func NewStandardConfig(numBoards int) *GameConfig {
	table := units.NewTable()
	return &GameConfig{
		Table:     table,
		Techline:  NewStandardTechline(table),
		NumBoards: numBoards,
	}
}

// WinTarget implements spec §4.1's w(n) = n - floor(n/4).
func WinTarget(n int) int {
	return n - n/4
}
