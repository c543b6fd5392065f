// Package mcts implements Monte Carlo Tree Search (UCT) over the
// contrast rules engine, using a learned evaluator as the leaf value
// in place of random rollouts.
package mcts

import (
	"math"
	"math/rand"
	"time"

	"golang.org/x/exp/slices"

	"github.com/cwfinch/contrast/pkg/contrast"
)

// ExplorationConstant is UCB1's C in exploitation + C*sqrt(ln(N)/n),
// the standard sqrt(2) balance point between exploitation and
// exploration.
const ExplorationConstant = math.Sqrt2

// Evaluator estimates a state from the perspective of its side to
// move. Satisfied by *ntuple.Network and *ntuple.Handle without this
// package importing internal/ntuple.
type Evaluator interface {
	Evaluate(s *contrast.GameState) float32
}

// Search holds one UCT search's arena of nodes. It is not safe for
// concurrent use; concurrent callers use one Search per goroutine.
type Search struct {
	eval  Evaluator
	c     float32
	nodes []node
}

// New builds a Search backed by eval, using the standard UCB1
// exploration constant.
func New(eval Evaluator) *Search {
	return &Search{eval: eval, c: float32(ExplorationConstant)}
}

// NewWithConstant builds a Search with a caller-chosen exploration
// constant, for tuning experiments.
func NewWithConstant(eval Evaluator, c float32) *Search {
	return &Search{eval: eval, c: c}
}

func (s *Search) reset(root contrast.GameState) int {
	s.nodes = s.nodes[:0]
	s.nodes = append(s.nodes, node{parent: noParent, state: root})
	return 0
}

func (s *Search) newChild(parent int, m contrast.Move) int {
	child := contrast.ApplyMove(s.nodes[parent].state, m)
	s.nodes = append(s.nodes, node{parent: parent, moveFromParent: m, state: child})
	idx := len(s.nodes) - 1
	s.nodes[parent].children = append(s.nodes[parent].children, idx)
	return idx
}

func (s *Search) isTerminal(idx int) bool {
	n := &s.nodes[idx]
	return contrast.IsWin(&n.state, contrast.Black) ||
		contrast.IsWin(&n.state, contrast.White) ||
		contrast.IsLoss(&n.state, n.state.ToMove)
}

func (s *Search) ucb1(childIdx int) float32 {
	child := &s.nodes[childIdx]
	if child.visits == 0 {
		return float32(math.Inf(1))
	}
	parent := &s.nodes[child.parent]
	exploitation := child.totalValue / float32(child.visits)
	exploration := s.c * float32(math.Sqrt(math.Log(float64(parent.visits))/float64(child.visits)))
	return exploitation + exploration
}

// selectLeaf walks down the tree from idx, always choosing the child
// with the highest UCB1 value, until it reaches a terminal node or a
// node that still has untried moves.
func (s *Search) selectLeaf(idx int) int {
	for !s.isTerminal(idx) && s.nodes[idx].expanded() {
		best := -1
		var bestValue float32 = float32(math.Inf(-1))
		for _, childIdx := range s.nodes[idx].children {
			v := s.ucb1(childIdx)
			if v > bestValue {
				bestValue = v
				best = childIdx
			}
		}
		idx = best
	}
	return idx
}

// expand lists idx's untried moves on first visit and, if any remain,
// spawns and returns one new child chosen uniformly at random.
// Terminal nodes and already fully-expanded nodes are returned as-is.
func (s *Search) expand(idx int, rng *rand.Rand) int {
	if s.isTerminal(idx) {
		return idx
	}

	n := &s.nodes[idx]
	if !n.listed {
		var ml contrast.MoveList
		contrast.LegalMoves(&n.state, &ml)
		n.untried = append([]contrast.Move(nil), ml.Moves...)
		n.listed = true
	}

	if len(n.untried) == 0 {
		return idx
	}

	pick := rng.Intn(len(n.untried))
	m := n.untried[pick]
	n.untried = slices.Delete(n.untried, pick, pick+1)

	return s.newChild(idx, m)
}

// simulate returns a leaf value from the perspective of the side to
// move at idx: the exact terminal outcome if the game has ended, or
// the evaluator's estimate otherwise.
func (s *Search) simulate(idx int) float32 {
	n := &s.nodes[idx]
	if contrast.IsWin(&n.state, contrast.Black) {
		if n.state.ToMove == contrast.Black {
			return 1
		}
		return -1
	}
	if contrast.IsWin(&n.state, contrast.White) {
		if n.state.ToMove == contrast.White {
			return 1
		}
		return -1
	}
	if contrast.IsLoss(&n.state, n.state.ToMove) {
		return -1
	}
	return s.eval.Evaluate(&n.state)
}

// backpropagate adds value, the leaf's estimate from the perspective
// of its own side to move, to idx and every ancestor. The first
// negation happens before idx itself is credited: a node's totalValue
// is the value of moving into it as seen by whoever made that move
// (its parent's side to move), which is the negation of the leaf's
// own-frame estimate; each further step up flips sign again as the
// side to move alternates.
func (s *Search) backpropagate(idx int, value float32) {
	value = -value
	for idx != noParent {
		n := &s.nodes[idx]
		n.visits++
		n.totalValue += value
		value = -value
		idx = n.parent
	}
}

func (s *Search) iterate(rng *rand.Rand) {
	leaf := s.selectLeaf(0)
	leaf = s.expand(leaf, rng)
	value := s.simulate(leaf)
	s.backpropagate(leaf, value)
}

// bestMove returns the root's most-visited child's move, the standard
// UCT robust-child choice (as opposed to highest average value, which
// is noisier at low visit counts).
func (s *Search) bestMove() (contrast.Move, bool) {
	root := &s.nodes[0]
	if len(root.children) == 0 {
		return contrast.Move{}, false
	}
	best := root.children[0]
	for _, childIdx := range root.children[1:] {
		if s.nodes[childIdx].visits > s.nodes[best].visits {
			best = childIdx
		}
	}
	return s.nodes[best].moveFromParent, true
}

// SearchIterations runs exactly iterations UCT iterations from state
// and returns the most-visited root move. ok is false if state has no
// legal moves.
func (s *Search) SearchIterations(state *contrast.GameState, iterations int, rng *rand.Rand) (contrast.Move, bool) {
	s.reset(*state)
	for i := 0; i < iterations; i++ {
		s.iterate(rng)
	}
	return s.bestMove()
}

// SearchDuration runs UCT iterations until budget elapses and returns
// the most-visited root move.
func (s *Search) SearchDuration(state *contrast.GameState, budget time.Duration, rng *rand.Rand) (contrast.Move, bool) {
	s.reset(*state)
	deadline := time.Now().Add(budget)
	for time.Now().Before(deadline) {
		s.iterate(rng)
	}
	return s.bestMove()
}

// Progress reports incremental UCT search status, the MCTS analog of
// a rollout's trial-completion callback.
type Progress struct {
	Iterations int
	Elapsed    time.Duration
	BestMove   contrast.Move
	HasBest    bool
}

// SearchDurationWithProgress behaves like SearchDuration but invokes
// report every reportEvery, letting a caller stream search status to
// a slow client instead of blocking silently for the whole budget.
func (s *Search) SearchDurationWithProgress(state *contrast.GameState, budget, reportEvery time.Duration, rng *rand.Rand, report func(Progress)) (contrast.Move, bool) {
	s.reset(*state)
	start := time.Now()
	deadline := start.Add(budget)
	nextReport := start.Add(reportEvery)
	iterations := 0
	for time.Now().Before(deadline) {
		s.iterate(rng)
		iterations++
		if report != nil && !time.Now().Before(nextReport) {
			best, ok := s.bestMove()
			report(Progress{Iterations: iterations, Elapsed: time.Since(start), BestMove: best, HasBest: ok})
			nextReport = nextReport.Add(reportEvery)
		}
	}
	return s.bestMove()
}
