package ntuple

import (
	"gonum.org/v1/gonum/floats"

	"github.com/cwfinch/contrast/pkg/contrast"
)

// WeightTable is the storage contract a Network delegates to. The
// reference 12x9-cell catalogue has 9^9*64 states per pattern
// (~92GB as dense float32), too large to hold densely, so a
// hash-coded representation is also allowed in place of a dense array
// as long as ToIndex semantics are preserved; both implementations
// here satisfy the same interface.
type WeightTable interface {
	NumPatterns() int
	Get(pattern int, idx int64) float32
	Add(pattern int, idx int64, delta float32)
	Clone() WeightTable
}

// Network is the N-tuple linear evaluator: a fixed pattern catalogue
// plus a weight table, indexed and updated in the Black-to-move
// frame.
type Network struct {
	Patterns []Pattern
	Weights  WeightTable
}

// InitialWeight is the small positive prior assigned to every state
// before any training: 0.5 split evenly across the catalogue,
// representing a slight first-mover (Black) advantage.
func InitialWeight(numPatterns int) float32 {
	return 0.5 / float32(numPatterns)
}

// NewNetwork builds a network over the reference catalogue backed by
// a sparse (hash-coded) weight table, since the catalogue's dense
// state count is far larger than fits in memory.
func NewNetwork() *Network {
	patterns := Catalogue()
	return &Network{
		Patterns: patterns,
		Weights:  NewSparseWeights(len(patterns), InitialWeight(len(patterns))),
	}
}

// NewNetworkWithTable builds a network over a caller-supplied pattern
// catalogue and weight table, e.g. a reduced test catalogue with a
// DenseWeights table sized for it.
func NewNetworkWithTable(patterns []Pattern, table WeightTable) *Network {
	return &Network{Patterns: patterns, Weights: table}
}

// Clone returns a value-copy of n suitable for use as an opponent
// snapshot: the pattern catalogue is immutable and shared, but the
// weight table is deep-copied so subsequent training on n does not
// alter the clone.
func (n *Network) Clone() *Network {
	return &Network{
		Patterns: n.Patterns,
		Weights:  n.Weights.Clone(),
	}
}

// featureIndices computes every pattern's index for state, using the
// canonicalised board (inventories are canonicalisation-invariant).
func (n *Network) featureIndices(state *contrast.GameState) []int64 {
	canonical := contrast.Canonical(state.Board)
	blackInv := state.Inventory[contrast.Black]
	whiteInv := state.Inventory[contrast.White]

	idxs := make([]int64, len(n.Patterns))
	for i, p := range n.Patterns {
		idxs[i] = p.ToIndex(&canonical, blackInv, whiteInv)
	}
	return idxs
}

// rawValue sums the per-pattern weights for the given feature indices
// in the raw (Black-to-move) frame, using gonum's floats.Sum over the
// gathered weight vector.
func (n *Network) rawValue(idxs []int64) float32 {
	values := make([]float64, len(idxs))
	for i, idx := range idxs {
		values[i] = float64(n.Weights.Get(i, idx))
	}
	return float32(floats.Sum(values))
}

// Evaluate returns the evaluator's estimate of state from the
// perspective of the side to move: positive favours the mover,
// negative disfavours it.
func (n *Network) Evaluate(state *contrast.GameState) float32 {
	idxs := n.featureIndices(state)
	raw := n.rawValue(idxs)
	if state.ToMove == contrast.White {
		return -raw
	}
	return raw
}

// TDUpdate performs one TD(0) update toward target, following the
// current recorded state. The learning rate is divided evenly across
// the catalogue so the effective per-state step size does not depend
// on how many patterns are in play.
func (n *Network) TDUpdate(state *contrast.GameState, target, lr float32) {
	idxs := n.featureIndices(state)
	raw := n.rawValue(idxs)

	current := raw
	if state.ToMove == contrast.White {
		current = -raw
	}
	errVal := target - current
	if state.ToMove == contrast.White {
		errVal = -errVal
	}

	step := lr / float32(len(n.Patterns))
	delta := step * errVal
	for i, idx := range idxs {
		n.Weights.Add(i, idx, delta)
	}
}

// NumWeights reports the number of distinct weights actually
// allocated across all patterns, for diagnostics.
func (n *Network) NumWeights() int {
	total := 0
	for i := range n.Patterns {
		if counter, ok := n.Weights.(interface{ Count(int) int }); ok {
			total += counter.Count(i)
		}
	}
	return total
}
