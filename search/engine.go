// Package search implements spec §4.6–§4.9: the per-board expansion step,
// the general's tech/spell decision, the Blotto money split, and the MCTS
// driver that ties them together with PUCT selection and cooperative
// cancellation (spec §5). Grounded on the teacher's mcts package (tree.go,
// node.go, search.go): the selection/expansion/backprop loop and the
// arena-pooled node representation follow its shape, generalized from a
// single NN-scored move per node to a full per-ply GameTurn.
package search

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"

	"github.com/Matir03/minions/csolve"
	"github.com/Matir03/minions/eval"
	"github.com/Matir03/minions/hexboard"
	"github.com/Matir03/minions/minions"
)

// Engine owns one MCTS run end to end: tree, evaluator, and budget.
type Engine struct {
	Tree   *MCTS
	Budget Budget
}

// NewEngine builds an engine ready to search from root on behalf of side.
func NewEngine(root *minions.GameState, side hexboard.Side, conf Config, ev eval.Evaluator, budget Budget) *Engine {
	return &Engine{
		Tree:   New(root, side, conf, ev, root.Config.Table),
		Budget: budget,
	}
}

// Run drives spec §4.9's loop: select down to a leaf, expand it, evaluate
// the resulting state, and back up the path — until the budget is
// exhausted or NumSimulation playouts have run, whichever comes first.
// Every suspension point checks the Budget, per spec §5.
func (e *Engine) Run(ctx context.Context) error {
	cctx, cancel := e.Budget.Context(ctx)
	defer cancel()

	for i := 0; i < e.Tree.Config.NumSimulation; i++ {
		if e.Budget.Exhausted(i) {
			break
		}
		select {
		case <-cctx.Done():
			return nil
		default:
		}
		if err := e.simulateOnce(cctx); err != nil {
			return err
		}
	}
	return nil
}

// simulateOnce runs one selection/expansion/evaluation/backprop cycle. A
// node is a descent stop (and an expansion candidate) as long as it has
// fewer than Config.MaxChildrenPerNode children, per spec §4.9: the tree
// keeps growing new alternative turns at a node before it ever commits to
// ranking the ones it already has.
func (e *Engine) simulateOnce(ctx context.Context) error {
	t := e.Tree
	path := []NodeID{t.root}
	cur := t.root

	depth := 0
	for {
		node := t.nodeFromID(cur)
		if node.ChildCount() < t.Config.MaxChildrenPerNode {
			break
		}
		if depth >= t.Config.MaxDepth {
			break
		}
		next := node.Select()
		if !next.isValid() {
			break
		}
		cur = next
		path = append(path, cur)
		depth++
	}

	leaf := t.nodeFromID(cur)
	if over, winner := leaf.state.GameOver(); over {
		score := terminalScore(winner, t.Side)
		backprop(t, path, score)
		return nil
	}

	if leaf.ChildCount() < t.Config.MaxChildrenPerNode {
		if err := e.expand(ctx, cur); err != nil {
			return err
		}
	}

	score := e.evaluateLeaf(cur)
	backprop(t, path, score)
	return nil
}

// terminalScore maps an already-decided game to the search side's ±1 score.
func terminalScore(winner, side hexboard.Side) float32 {
	if winner == side {
		return 1
	}
	return -1
}

func (e *Engine) evaluateLeaf(id NodeID) float32 {
	t := e.Tree
	node := t.nodeFromID(id)
	if t.Eval == nil {
		return 0
	}
	score, _ := t.Eval.Evaluate(node.state)
	if node.state.SideToMove != t.Side {
		score = -score
	}
	return score
}

func backprop(t *MCTS, path []NodeID, score float32) {
	for i := len(path) - 1; i >= 0; i-- {
		n := t.nodeFromID(path[i])
		// scores are always from t.Side's perspective; a node whose
		// SideToMove is the opponent sees the negated value, matching the
		// teacher's single-perspective Q(s,a) convention.
		s := score
		if n.state.SideToMove != t.Side {
			s = -s
		}
		n.Update(s)
	}
}

// expand grows one more of id's up-to-K children (spec §4.9), perturbing
// the general decision and each board's combat plan so the new child is a
// genuinely distinct turn rather than a repeat of a sibling already in the
// tree: odd-indexed children skip this turn's spell purchase (weighing
// teching now against saving money), and the board solver's planIdx walks
// forward through each board's plan cache instead of always solving fresh.
func (e *Engine) expand(ctx context.Context, id NodeID) error {
	t := e.Tree
	node := t.nodeFromID(id)
	state := node.state
	childIdx := node.ChildCount()

	side := state.SideToMove
	decision := DecideGeneral(state, side)
	if childIdx%2 == 1 && decision.SpellBuys > 0 {
		decision.SpellBuys--
		if decision.SpellBuys == 0 {
			decision.TargetIndex = -1
			decision.Acquire = false
		}
	}
	split := Blotto(state, side, decision.SpellBuys, t.Eval)

	child := state.Clone()
	applyGeneralDecision(child, side, decision, split)

	if len(node.boardNodes) == 0 {
		node.boardNodes = make([]BoardNode, len(state.Boards))
	}

	planIdx := childIdx/2 - 1

	type boardResult struct {
		idx int
		res ExpandResult
	}
	results := make([]boardResult, len(state.Boards))
	var wg sync.WaitGroup
	var mu sync.Mutex
	var errs *multierror.Error

	for i, b := range state.Boards {
		i, b := i, b
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					mu.Lock()
					errs = multierror.Append(errs, recoverToError(r))
					mu.Unlock()
				}
			}()
			bn := &node.boardNodes[i]
			res := bn.Expand(ctx, b, side, t.Table, split.Board[i], csolveBudgetFrom(e.Budget), planIdx)
			results[i] = boardResult{idx: i, res: res}
		}()
	}
	wg.Wait()
	if err := errs.ErrorOrNil(); err != nil {
		return err
	}

	totalSpent := 0
	boardTurns := make([]minions.BoardTurn, len(state.Boards))
	for _, r := range results {
		child.Boards[r.idx] = r.res.Board
		boardTurns[r.idx] = r.res.Turn
		totalSpent += r.res.MoneySpent
	}
	child.Money[side] -= split.General + totalSpent
	if child.Money[side] < 0 {
		child.Money[side] = 0
	}

	minions.ResolveEndOfTurn(child, side)
	child.SideToMove = side.Other()

	turn := buildGameTurn(decision, boardTurns)
	prior := float32(1.0)
	t.newChild(id, &turn, child, prior, childIdx)
	node.SetHasChildren(true)
	return nil
}

// buildGameTurn assembles the full per-ply action bundle a child node
// represents, from the general's tech decision and each board's committed
// ExpandResult.Turn.
func buildGameTurn(decision GeneralDecision, boardTurns []minions.BoardTurn) minions.GameTurn {
	turn := minions.NewGameTurn(len(boardTurns))
	turn.SpellBuys = decision.SpellBuys
	if decision.TargetIndex >= 0 && decision.SpellBuys > 0 {
		turn.TechAssignment = []int{decision.TargetIndex}
	}
	turn.BoardTurns = boardTurns
	return turn
}

func applyGeneralDecision(g *minions.GameState, side hexboard.Side, d GeneralDecision, split MoneySplit) {
	if d.TargetIndex < 0 || d.TargetIndex >= len(g.TechStatus[side]) {
		return
	}
	if d.Acquire {
		g.TechStatus[side][d.TargetIndex] = minions.Acquired
	} else if g.TechStatus[side][d.TargetIndex] == minions.Locked {
		g.TechStatus[side][d.TargetIndex] = minions.Unlocked
	}
}

func csolveBudgetFrom(b Budget) csolve.Budget {
	n := b.MaxNodes
	if n <= 0 {
		n = 20000
	}
	return csolve.Budget{MaxNodes: n}
}

func recoverToError(r interface{}) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("board expansion panic: %v", r)
}
