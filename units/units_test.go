package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFENLetterRoundTrip(t *testing.T) {
	for l := UnitLabel(0); l < numLabels; l++ {
		letter := l.FENLetter()
		got, ok := LabelFromFENLetter(letter)
		require.True(t, ok, "letter %q must resolve back to a label", letter)
		assert.Equal(t, l, got)

		lower := letter + ('a' - 'A')
		got2, ok := LabelFromFENLetter(lower)
		require.True(t, ok)
		assert.Equal(t, l, got2, "lowercase FEN letters must resolve the same as uppercase")
	}
}

func TestLabelFromFENLetterUnknown(t *testing.T) {
	_, ok := LabelFromFENLetter('?')
	assert.False(t, ok)
}

func TestNewTableCoversEveryLabel(t *testing.T) {
	table := NewTable()
	for _, l := range table.All() {
		u := table.Get(l)
		assert.Equal(t, l, u.Label)
	}
}

func TestNecromancerIsFlagged(t *testing.T) {
	table := NewTable()
	n := table.Get(Necromancer)
	assert.True(t, n.Necromancer)
	assert.Equal(t, 0, n.Cost)
}

func TestNecromancerValueDwarfsOtherUnits(t *testing.T) {
	table := NewTable()
	nVal := table.Get(Necromancer).Value()
	for _, l := range table.All() {
		if l == Necromancer {
			continue
		}
		assert.Less(t, table.Get(l).Value(), nVal, "unit %d must be worth less than a necromancer", l)
	}
}

func TestCountersRelation(t *testing.T) {
	// Counters(candidate, target): true when target-candidate is -1, -2, or 3.
	assert.True(t, Counters(Initiate, Zombie))  // diff -1
	assert.True(t, Counters(Skeleton, Zombie))  // diff -2
	assert.True(t, Counters(Zombie, Serpent))   // diff 3
	assert.False(t, Counters(Zombie, Zombie))
	assert.False(t, Counters(Warg, Zombie))
}

func TestHasKeywordNilMap(t *testing.T) {
	var u Unit
	assert.False(t, u.HasKeyword("soul"))
}
