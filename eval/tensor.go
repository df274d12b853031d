package eval

import (
	"github.com/Matir03/minions/hexboard"
	"github.com/Matir03/minions/minions"
	"github.com/Matir03/minions/units"
	"github.com/chewxy/math32"
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// TensorConfig sizes the vectorized evaluator, mirroring the teacher's
// dualnet.Config constructor/validator shape (a small plain struct with a
// DefaultConf-style constructor and IsValid) but rescoped to Minions'
// per-board feature layout instead of a chess board encoding.
type TensorConfig struct {
	NumBoards   int
	NumLabels   int // len(units table)
	FeatureRows int // per-board feature rows (one per unit label, signed count)
}

// DefaultTensorConfig sizes TensorConfig for a game with numBoards boards.
func DefaultTensorConfig(numBoards int) TensorConfig {
	return TensorConfig{
		NumBoards:   numBoards,
		NumLabels:   21,
		FeatureRows: 21,
	}
}

func (c TensorConfig) IsValid() bool {
	return c.NumBoards >= 1 && c.NumLabels >= 1 && c.FeatureRows == c.NumLabels
}

// TensorEvaluator computes spec §4.2's board_value term as a dot product
// between a per-label signed-count tensor and a per-label value tensor,
// instead of the scalar per-piece loop Heuristic uses. This is the shape a
// learned predictor would consume (board encoded as a feature tensor); only
// the weight vector here is hand-set rather than learned, since NN weight
// loading is out of scope (spec §1).
type TensorEvaluator struct {
	Table   *units.Table
	Weights Weights
	values  *tensor.Dense // [NumLabels] float32 unit values, built once
}

// NewTensorEvaluator builds the evaluator and its static value tensor.
func NewTensorEvaluator(table *units.Table, cfg TensorConfig) (*TensorEvaluator, error) {
	if !cfg.IsValid() {
		return nil, errors.New("eval: invalid TensorConfig")
	}
	backing := make([]float32, cfg.NumLabels)
	for _, l := range table.All() {
		if int(l) >= cfg.NumLabels {
			continue
		}
		backing[l] = table.Get(l).Value()
	}
	values := tensor.New(tensor.WithShape(cfg.NumLabels), tensor.WithBacking(backing))
	return &TensorEvaluator{Table: table, Weights: DefaultWeights().Scaled(cfg.NumBoards), values: values}, nil
}

// Evaluate implements Evaluator via a tensor dot product for board_value and
// the same tech/money terms as Heuristic.
func (e *TensorEvaluator) Evaluate(g *minions.GameState) (float32, float32) {
	counts := make([]float32, e.values.Shape()[0])
	for _, b := range g.Boards {
		for _, p := range b.Pieces {
			if int(p.Label) >= len(counts) {
				continue
			}
			if p.Side == hexboard.S0 {
				counts[p.Label]++
			} else {
				counts[p.Label]--
			}
		}
	}
	countTensor := tensor.New(tensor.WithShape(len(counts)), tensor.WithBacking(counts))

	dot, err := tensor.Inner(countTensor, e.values)
	var board float32
	if err == nil {
		board = toFloat32(dot)
	}

	w := e.Weights
	need := float32(g.WinsNeeded())
	wToGo0 := need - float32(g.BoardPoints[hexboard.S0])
	wToGo1 := need - float32(g.BoardPoints[hexboard.S1])
	tech := techScore(g, w)
	money := float32(g.Money[hexboard.S0] - g.Money[hexboard.S1])

	d := w.CWins*(wToGo1-wToGo0) + w.CTech*tech + w.CMoney*money + w.CBoard*board
	score := math32.Tanh(w.CDamp * d)
	confidence := math32.Abs(score)
	return flipForSideToMove(g, score), confidence
}

func toFloat32(v interface{}) float32 {
	switch x := v.(type) {
	case float32:
		return x
	case float64:
		return float32(x)
	default:
		return 0
	}
}
