package policy

import (
	"math/rand"

	"github.com/cwfinch/contrast/pkg/contrast"
)

// Evaluator is the subset of *ntuple.Network / *ntuple.Handle that
// EpsilonGreedy needs: a scalar estimate of a state from the
// perspective of its side to move. Kept as a narrow interface here so
// this package does not depend on internal/ntuple's concrete types.
type Evaluator interface {
	Evaluate(s *contrast.GameState) float32
}

// EpsilonGreedy wraps an Evaluator: with probability Epsilon it plays
// a uniformly random legal move, otherwise it applies each legal move
// and plays whichever leaves the opponent facing the position the
// evaluator likes least for them (equivalently, the position the
// mover likes most).
type EpsilonGreedy struct {
	Eval    Evaluator
	Epsilon float32
}

func (p EpsilonGreedy) Select(s *contrast.GameState, rng *rand.Rand) (contrast.Move, error) {
	moves, err := legalMoves(s)
	if err != nil {
		return contrast.Move{}, err
	}

	if p.Epsilon > 0 && rng.Float32() < p.Epsilon {
		return moves.Moves[rng.Intn(moves.Len())], nil
	}

	best := make([]contrast.Move, 0, moves.Len())
	var bestValue float32
	for i, m := range moves.Moves {
		v := p.valueAfter(s, m)
		switch {
		case i == 0 || v > bestValue:
			bestValue = v
			best = best[:0]
			best = append(best, m)
		case v == bestValue:
			best = append(best, m)
		}
	}
	return best[rng.Intn(len(best))], nil
}

// valueAfter returns the mover's estimate of the position after m,
// from the mover's own perspective (the evaluator reports from the
// perspective of the side to move in the position it is given, which
// after m is the opponent, so the sign is flipped).
func (p EpsilonGreedy) valueAfter(s *contrast.GameState, m contrast.Move) float32 {
	next := contrast.ApplyMove(*s, m)
	return -p.Eval.Evaluate(&next)
}
