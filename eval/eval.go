// Package eval implements the static evaluator contract from spec §4.2/§6:
// given a GameState, return a bounded score and a confidence. The default
// heuristic is the spec's own tech/money/board-value decomposition; a
// tensor-backed variant is provided so the opaque Evaluator interface also
// has a vectorized implementation path for a learned predictor to plug
// into, without this package specifying any weight-loading (out of scope
// per spec §1).
package eval

import (
	"github.com/Matir03/minions/hexboard"
	"github.com/Matir03/minions/minions"
	"github.com/Matir03/minions/units"
	"github.com/chewxy/math32"
)

// Evaluator is the one extension point spec §6 names: any concrete
// implementation (this heuristic, a tensor-backed one, or an opaque learned
// model) must satisfy it.
type Evaluator interface {
	// Evaluate returns a score in [-1, 1] from the side-to-move's
	// perspective, plus a confidence in [0, 1].
	Evaluate(g *minions.GameState) (score float32, confidence float32)
}

// Weights are the defaults from spec §4.2.
type Weights struct {
	CWins   float32
	CTech   float32
	CMoney  float32
	CBoard  float32
	CDamp   float32
	TechGamma float32
	UnsummonDiscount float32
}

// DefaultWeights returns spec §4.2's defaults, with c_t = 4n applied by the
// caller once n (board count) is known via Scaled.
func DefaultWeights() Weights {
	return Weights{
		CWins:            25,
		CTech:            4, // multiplied by n in Scaled
		CMoney:           1,
		CBoard:           1,
		CDamp:            0.05,
		TechGamma:        0.98,
		UnsummonDiscount: 0.6,
	}
}

// Scaled returns weights with CTech expanded to 4n for an n-board game.
func (w Weights) Scaled(numBoards int) Weights {
	w.CTech = w.CTech * float32(numBoards)
	return w
}

// Heuristic is the default, spec-defined evaluator: deterministic float32
// math (math32, as the teacher's mcts/node.go uses for PUCT).
type Heuristic struct {
	Table   *units.Table
	Weights Weights
}

// NewHeuristic builds the default evaluator for a table and board count.
func NewHeuristic(table *units.Table, numBoards int) *Heuristic {
	return &Heuristic{Table: table, Weights: DefaultWeights().Scaled(numBoards)}
}

// Evaluate implements Evaluator using spec §4.2's formula verbatim:
//
//	D = c_w*(w_to_go[S1]-w_to_go[S0]) + c_t*tech_score + c_m*(money0-money1) + c_b*sum(board_value)
//	s = tanh(c_d * D)
func (h *Heuristic) Evaluate(g *minions.GameState) (float32, float32) {
	w := h.Weights
	need := float32(g.WinsNeeded())
	wToGo0 := need - float32(g.BoardPoints[hexboard.S0])
	wToGo1 := need - float32(g.BoardPoints[hexboard.S1])

	tech := techScore(g, w)
	money := float32(g.Money[hexboard.S0] - g.Money[hexboard.S1])
	board := boardValueSum(g, h.Table)

	d := w.CWins*(wToGo1-wToGo0) + w.CTech*tech + w.CMoney*money + w.CBoard*board
	score := math32.Tanh(w.CDamp * d)

	// confidence grows with how decisive material/tech swing is; saturates
	// near certain outcomes exactly like the score itself.
	confidence := math32.Abs(score)
	if score == 0 {
		confidence = 0
	}
	return flipForSideToMove(g, score), confidence
}

// flipForSideToMove reorients the side-symmetric score (computed from S0's
// perspective) to the side to move's perspective, per spec §4.2's symmetry
// requirement: eval(s) == -eval(flip(s)).
func flipForSideToMove(g *minions.GameState, scoreFromS0 float32) float32 {
	if g.SideToMove == hexboard.S0 {
		return scoreFromS0
	}
	return -scoreFromS0
}

// techScore implements spec §4.2: (t0-t1) + (a0-a1), t_s = sum_{u in
// acquired} gamma^(a_max-u).
func techScore(g *minions.GameState, w Weights) float32 {
	a0 := g.FurthestAcquired(hexboard.S0)
	a1 := g.FurthestAcquired(hexboard.S1)
	aMax := a0
	if a1 > aMax {
		aMax = a1
	}
	t0 := techSum(g.TechStatus[hexboard.S0], aMax, w.TechGamma)
	t1 := techSum(g.TechStatus[hexboard.S1], aMax, w.TechGamma)
	return (t0 - t1) + float32(a0-a1)
}

func techSum(status []minions.TechStatus, aMax int, gamma float32) float32 {
	if aMax < 0 {
		return 0
	}
	var sum float32
	for u, st := range status {
		if st == minions.Acquired {
			sum += math32.Pow(gamma, float32(aMax-u))
		}
	}
	return sum
}

// boardValueSum implements spec §4.2: sum_i sum_{p in pieces_i} sign(side(p)) * unit_value(label(p)).
func boardValueSum(g *minions.GameState, table *units.Table) float32 {
	var sum float32
	for _, b := range g.Boards {
		for _, p := range b.Pieces {
			v := table.Get(p.Label).Value()
			if p.Side == hexboard.S1 {
				v = -v
			}
			sum += v
		}
	}
	return sum
}

// UnsummonValue returns the combat solver's value_if_removed for a kill vs
// an unsummon on label, per spec §4.3.4.
func UnsummonValue(table *units.Table, label units.UnitLabel, killed bool) float32 {
	v := table.Get(label).Value()
	if killed {
		return v
	}
	return DefaultWeights().UnsummonDiscount * v
}
