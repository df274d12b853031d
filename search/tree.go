package search

import (
	"fmt"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/awalterschulze/gographviz"
	distrand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distmv"

	"github.com/Matir03/minions/eval"
	"github.com/Matir03/minions/hexboard"
	"github.com/Matir03/minions/minions"
	"github.com/Matir03/minions/units"
)

// dirichletParam is the concentration parameter for root exploration noise,
// spec §5's "root node's priors SHOULD be perturbed by Dirichlet noise".
const dirichletParam = 0.3

// Config configures one MCTS run, generalizing the teacher's mcts.Config
// from a fixed NN action space to Minions' much wider per-ply branching
// factor (bounded instead by NumSimulation and the cooperative Budget).
type Config struct {
	PUCT               float32
	RandomCount        int
	RandomTemperature  float32
	MaxDepth           int
	NumSimulation      int
	RootNoiseWeight    float32 // 0 disables Dirichlet mixing at the root
	MaxChildrenPerNode int     // spec §4.9's K: how many distinct turns a node may branch into
	Seed               int64   // 0 means "seed from the clock"; set for reproducible runs
}

func DefaultConfig() Config {
	return Config{
		PUCT:               1.4,
		RandomCount:        0,
		RandomTemperature:  1.0,
		MaxDepth:           64,
		NumSimulation:      800,
		RootNoiseWeight:    0.25,
		MaxChildrenPerNode: 4,
	}
}

func (c Config) IsValid() bool {
	return c.RandomTemperature > 0 && c.NumSimulation > 0 && c.PUCT >= 0 && c.MaxChildrenPerNode > 0
}

// MCTS is the arena-pooled search tree for one game-state root, mirroring
// the teacher's mcts.MCTS: a flat node slice plus a parallel children slice,
// allocated from a freelist rather than individually garbage-collected.
type MCTS struct {
	sync.RWMutex
	Config

	Table *units.Table
	Eval  eval.Evaluator
	Side  hexboard.Side

	rnd *rand.Rand

	nodes    []Node
	children [][]NodeID
	freelist []NodeID

	root NodeID

	dirichletSample []float64
}

// New builds a fresh tree rooted at the given state, for the side whose
// turn it is to move.
func New(root *minions.GameState, side hexboard.Side, conf Config, ev eval.Evaluator, table *units.Table) *MCTS {
	seed := conf.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	t := &MCTS{
		Config:   conf,
		Table:    table,
		Eval:     ev,
		Side:     side,
		rnd:      rand.New(rand.NewSource(seed)),
		nodes:    make([]Node, 0, 4096),
		children: make([][]NodeID, 0, 4096),
	}

	// Dirichlet noise over a generous fixed-size support; Minions has no
	// bounded action-index space the way chess does, so the root mixes noise
	// into each child's prior at expansion time by drawing from this sample
	// vector modulo the child's position, rather than indexing by move.
	// The Dirichlet source is itself seeded off t.rnd so the whole tree's
	// randomness traces back to Config.Seed, per spec §5's reproducibility
	// requirement.
	alpha := make([]float64, 256)
	for i := range alpha {
		alpha[i] = dirichletParam
	}
	dirichletDist := distmv.NewDirichlet(alpha, distrand.NewSource(uint64(t.rnd.Int63())))
	t.dirichletSample = dirichletDist.Rand(nil)

	rootID := t.alloc()
	n := t.nodeFromID(rootID)
	n.state = root
	n.status = uint32(Active)
	n.visits = 1
	t.root = rootID
	return t
}

func (t *MCTS) Nodes() int { return len(t.nodes) }

func (t *MCTS) Root() NodeID { return t.root }

func (t *MCTS) nodeFromID(id NodeID) *Node {
	t.RLock()
	defer t.RUnlock()
	return &t.nodes[int(id)]
}

// Children returns id's children, paralleling the teacher's t.children slice
// rather than storing child lists directly on Node (keeps Node reset cheap).
func (t *MCTS) Children(id NodeID) []NodeID {
	t.RLock()
	defer t.RUnlock()
	return t.children[int(id)]
}

func (t *MCTS) addChild(parent, child NodeID) {
	t.Lock()
	t.children[int(parent)] = append(t.children[int(parent)], child)
	t.Unlock()
}

// alloc pulls a node from the freelist, or grows the arena, exactly the
// teacher's alloc()/free() idiom.
func (t *MCTS) alloc() NodeID {
	t.Lock()
	defer t.Unlock()
	if l := len(t.freelist); l > 0 {
		id := t.freelist[l-1]
		t.freelist = t.freelist[:l-1]
		return id
	}
	n := Node{id: NodeID(len(t.nodes)), tree: t, parent: nilNode}
	t.nodes = append(t.nodes, n)
	t.children = append(t.children, make([]NodeID, 0, 8))
	return NodeID(len(t.nodes) - 1)
}

func (t *MCTS) free(id NodeID) {
	t.Lock()
	t.children[int(id)] = t.children[int(id)][:0]
	t.freelist = append(t.freelist, id)
	t.Unlock()
	t.nodes[int(id)].reset()
}

// newChild allocates and activates a child node labelled by the turn that
// produced it, with prior psa (optionally Dirichlet-perturbed at the root).
func (t *MCTS) newChild(parent NodeID, turn *minions.GameTurn, state *minions.GameState, psa float32, noiseSlot int) NodeID {
	id := t.alloc()
	n := t.nodeFromID(id)
	n.lock.Lock()
	n.parent = parent
	n.turn = turn
	n.state = state
	n.status = uint32(Active)
	n.visits = 0
	n.qsa = 0
	if parent == t.root && t.Config.RootNoiseWeight > 0 && len(t.dirichletSample) > 0 {
		noise := float32(t.dirichletSample[noiseSlot%len(t.dirichletSample)])
		psa = (1-t.Config.RootNoiseWeight)*psa + t.Config.RootNoiseWeight*noise
	}
	n.psa = psa
	n.lock.Unlock()
	t.addChild(parent, id)
	return id
}

// bestChild returns id's active child with the highest visit count, the
// usual MCTS recommendation once a search budget is spent.
func (t *MCTS) bestChild(id NodeID) NodeID {
	best := nilNode
	var bestVisits uint32
	for _, kid := range t.Children(id) {
		child := t.nodeFromID(kid)
		if !child.IsActive() {
			continue
		}
		if best == nilNode || child.Visits() > bestVisits {
			best = kid
			bestVisits = child.Visits()
		}
	}
	return best
}

// BestTurn returns the GameTurn recorded on the root's most-visited child —
// the turn a completed Run() recommends — or nil if the root never
// expanded (e.g. the game was already over).
func (t *MCTS) BestTurn() *minions.GameTurn {
	best := t.bestChild(t.root)
	if !best.isValid() {
		return nil
	}
	return t.nodeFromID(best).Turn()
}

// Reset clears the arena for reuse between searches (e.g. a new UMI "go"),
// mirroring the teacher's MCTS.Reset.
func (t *MCTS) Reset() {
	t.Lock()
	defer t.Unlock()
	t.freelist = t.freelist[:0]
	for i := range t.nodes {
		t.nodes[i].reset()
		t.freelist = append(t.freelist, t.nodes[i].id)
	}
	for i := range t.children {
		t.children[i] = t.children[i][:0]
	}
	t.nodes = t.nodes[:0]
	t.children = t.children[:0]
	runtime.GC()
}

// DumpDOT renders the current tree (down to maxDepth) as Graphviz DOT for
// offline inspection; no UMI command calls it. Grounded on no teacher usage
// directly (gographviz is an indirect dependency in the teacher's go.mod
// with no direct import anywhere in the retrieval pack); this is the search
// package's own use of it for interactive tree inspection.
func (t *MCTS) DumpDOT(maxDepth int) (string, error) {
	g := gographviz.NewGraph()
	if err := g.SetName("mcts"); err != nil {
		return "", err
	}
	if err := g.SetDir(true); err != nil {
		return "", err
	}
	var walk func(id NodeID, depth int)
	walk = func(id NodeID, depth int) {
		if depth > maxDepth || !id.isValid() {
			return
		}
		n := t.nodeFromID(id)
		label := fmt.Sprintf("\"n%d\\nQ=%.2f N=%d\"", int(id), n.QSA(), n.Visits())
		_ = g.AddNode("mcts", fmt.Sprintf("n%d", int(id)), map[string]string{"label": label})
		for _, kid := range t.Children(id) {
			_ = g.AddEdge(fmt.Sprintf("n%d", int(id)), fmt.Sprintf("n%d", int(kid)), true, nil)
			walk(kid, depth+1)
		}
	}
	walk(t.root, 0)
	return g.String(), nil
}
