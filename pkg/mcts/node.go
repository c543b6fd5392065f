package mcts

import "github.com/cwfinch/contrast/pkg/contrast"

// noParent marks the root node, which has no parent index.
const noParent = -1

// node is one position in the search tree. Nodes live in a Search's
// arena slice and reference each other by index rather than pointer,
// so a whole search's tree is freed in one shot when the arena is
// dropped instead of being walked field by field by the collector.
type node struct {
	parent         int
	moveFromParent contrast.Move
	state          contrast.GameState

	children []int
	untried  []contrast.Move // lazily populated on first visit
	listed   bool            // untried has been populated at least once

	visits     int
	totalValue float32
}

// expanded reports whether every legal move from this node already
// has a child, i.e. there is nothing left to try.
func (n *node) expanded() bool {
	return n.listed && len(n.untried) == 0
}
