package search

import (
	"fmt"
	"sync"

	"github.com/chewxy/math32"

	"github.com/Matir03/minions/minions"
)

// Status mirrors the teacher's node lifecycle states.
type Status uint32

const (
	Invalid Status = iota
	Active
	Pruned
)

func (s Status) String() string {
	switch s {
	case Invalid:
		return "Invalid"
	case Active:
		return "Active"
	case Pruned:
		return "Pruned"
	}
	return "UNKNOWN STATUS"
}

// NodeID indexes into MCTS's arena, generalizing the teacher's Naughty type.
type NodeID int32

const nilNode NodeID = -1

func (n NodeID) isValid() bool { return n >= 0 }

// Node is one ply of the search tree. Unlike the teacher's chess engine,
// where a node is labelled by a single NN-encoded move index, a Minions ply
// is a full GameTurn (general decision + blotto split + every board's
// setup/attack/spawn), so the node carries the resulting state directly
// rather than an index into a fixed action space.
type Node struct {
	lock sync.Mutex

	id     NodeID
	tree   *MCTS
	parent NodeID

	turn  *minions.GameTurn // the turn that produced this node from its parent (nil at root)
	state *minions.GameState

	visits      uint32
	status      uint32
	qsa         float32 // Q(s,a): running mean backed-up value
	psa         float32 // P(s,a): prior weight used by PUCT; expand gives every child 1, with Dirichlet noise mixed in at the root
	hasChildren bool

	// boardNodes holds per-board combat/reposition state so re-expanding this
	// node (a second visit) can pick an alternative cached attack plan
	// instead of re-solving from scratch, per spec §4.6's reuse note.
	boardNodes []BoardNode
}

func (n *Node) Format(s fmt.State, c rune) {
	fmt.Fprintf(s, "{NodeID: %v, Q(s,a) %v, P(s,a) %v, Visits %v, Status: %v}",
		n.id, n.QSA(), n.PSA(), n.Visits(), Status(n.status))
}

func (n *Node) Update(score float32) {
	n.lock.Lock()
	defer n.lock.Unlock()
	n.qsa = (float32(n.visits)*n.qsa + score) / float32(n.visits+1)
	n.visits++
}

func (n *Node) QSA() float32 {
	n.lock.Lock()
	defer n.lock.Unlock()
	return n.qsa
}

func (n *Node) PSA() float32 {
	n.lock.Lock()
	defer n.lock.Unlock()
	return n.psa
}

func (n *Node) Visits() uint32 {
	n.lock.Lock()
	defer n.lock.Unlock()
	return n.visits
}

func (n *Node) Activate() {
	n.lock.Lock()
	defer n.lock.Unlock()
	n.status = uint32(Active)
}

func (n *Node) Prune() {
	n.lock.Lock()
	defer n.lock.Unlock()
	n.status = uint32(Pruned)
}

func (n *Node) Invalidate() {
	n.lock.Lock()
	defer n.lock.Unlock()
	n.status = uint32(Invalid)
}

func (n *Node) IsValid() bool {
	n.lock.Lock()
	defer n.lock.Unlock()
	return Status(n.status) != Invalid
}

func (n *Node) IsActive() bool {
	n.lock.Lock()
	defer n.lock.Unlock()
	return Status(n.status) == Active
}

func (n *Node) IsPruned() bool {
	n.lock.Lock()
	defer n.lock.Unlock()
	return Status(n.status) == Pruned
}

func (n *Node) HasChildren() bool {
	n.lock.Lock()
	defer n.lock.Unlock()
	return n.hasChildren
}

func (n *Node) SetHasChildren(f bool) {
	n.lock.Lock()
	defer n.lock.Unlock()
	n.hasChildren = f
}

// ChildCount reports how many children this node has grown so far, used to
// decide whether a visit should expand another one (spec §4.9's up-to-K
// children per node) instead of descending further.
func (n *Node) ChildCount() int {
	return len(n.tree.Children(n.id))
}

// Turn returns the GameTurn that produced this node from its parent, or nil
// at the root.
func (n *Node) Turn() *minions.GameTurn {
	n.lock.Lock()
	defer n.lock.Unlock()
	return n.turn
}

// Select picks the child maximizing PUCT's upper confidence bound, exactly
// the teacher's formula: U(s,a) = Q(s,a) + PUCT * P(s,a) * sqrt(N_parent)/(1+N(s,a)).
func (n *Node) Select() NodeID {
	tree := n.tree
	children := tree.Children(n.id)

	var parentVisits uint32
	for _, kid := range children {
		child := tree.nodeFromID(kid)
		if child.IsValid() {
			parentVisits += child.Visits()
		}
	}

	best := nilNode
	bestValue := math32.Inf(-1)
	numerator := math32.Sqrt(float32(parentVisits))

	for _, kid := range children {
		child := tree.nodeFromID(kid)
		if !child.IsActive() {
			continue
		}
		qsa := float32(0)
		visits := child.Visits()
		if visits > 0 {
			qsa = child.QSA()
		}
		puct := tree.Config.PUCT * child.PSA() * (numerator / (1.0 + float32(visits)))
		usa := qsa + puct
		if usa > bestValue {
			bestValue = usa
			best = kid
		}
	}
	return best
}

func (n *Node) reset() {
	n.lock.Lock()
	defer n.lock.Unlock()
	n.parent = nilNode
	n.turn = nil
	n.state = nil
	n.visits = 0
	n.status = 0
	n.qsa = 0
	n.psa = 0
	n.hasChildren = false
	n.boardNodes = nil
}
