package minions

import "github.com/Matir03/minions/units"

// SpecialTech enumerates the fixed non-unit tech cards spec §3 names.
type SpecialTech uint8

const (
	NoSpecial SpecialTech = iota
	Copycat
	Thaumaturgy
	Metamagic
)

// Tech is one card on the Techline: either a unit tech or one of the fixed
// specials.
type Tech struct {
	Unit    units.UnitLabel
	Special SpecialTech
	IsUnit  bool
}

func UnitTech(label units.UnitLabel) Tech { return Tech{Unit: label, IsUnit: true} }
func SpecialCard(s SpecialTech) Tech      { return Tech{Special: s} }

// Techline is the ordered, shared sequence of tech cards.
type Techline struct {
	Cards []Tech
}

// NewStandardTechline orders all unit techs by UnitLabel (Necromancer
// excluded) followed by the three specials.
func NewStandardTechline(table *units.Table) *Techline {
	labels := table.All()
	cards := make([]Tech, 0, len(labels)+3)
	for _, l := range labels {
		if l == units.Necromancer {
			continue // necromancers are never teched
		}
		cards = append(cards, UnitTech(l))
	}
	cards = append(cards, SpecialCard(Copycat), SpecialCard(Thaumaturgy), SpecialCard(Metamagic))
	return &Techline{Cards: cards}
}

func (t *Techline) Len() int { return len(t.Cards) }

// spellCostBase is the per-board cost in money of one additional spell;
// spec §4.7/§4.8 define the actual cost as 8n for an n-board game, the same
// "n" eval.Weights.Scaled multiplies CTech by.
const spellCostBase = 8

// SpellCost returns the cost of one additional spell for a game with
// numBoards boards (8n per spec §4.7/§4.8).
func SpellCost(numBoards int) int {
	return spellCostBase * numBoards
}
