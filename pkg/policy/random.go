package policy

import (
	"math/rand"

	"github.com/cwfinch/contrast/pkg/contrast"
)

// Random selects uniformly among the legal moves.
type Random struct{}

func (Random) Select(s *contrast.GameState, rng *rand.Rand) (contrast.Move, error) {
	moves, err := legalMoves(s)
	if err != nil {
		return contrast.Move{}, err
	}
	return moves.Moves[rng.Intn(moves.Len())], nil
}
