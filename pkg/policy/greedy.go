package policy

import (
	"math/rand"

	"github.com/cwfinch/contrast/pkg/contrast"
)

// Greedy prefers moves that strictly reduce the mover's distance to
// its goal rank; among ties it prefers non-retreating moves; any
// remaining tie breaks uniformly at random.
type Greedy struct{}

func (Greedy) Select(s *contrast.GameState, rng *rand.Rand) (contrast.Move, error) {
	moves, err := legalMoves(s)
	if err != nil {
		return contrast.Move{}, err
	}

	goal := contrast.GoalRank(s.ToMove)
	distTo := func(y int) int {
		d := goal - y
		if d < 0 {
			d = -d
		}
		return d
	}

	best := make([]contrast.Move, 0, moves.Len())
	bestRank := -1 // 2 = strictly closer, 1 = non-retreating, 0 = retreats
	for _, m := range moves.Moves {
		startDist := distTo(m.Sy)
		endDist := distTo(m.Dy)

		var rank int
		switch {
		case endDist < startDist:
			rank = 2
		case endDist == startDist:
			rank = 1
		default:
			rank = 0
		}

		switch {
		case rank > bestRank:
			bestRank = rank
			best = best[:0]
			best = append(best, m)
		case rank == bestRank:
			best = append(best, m)
		}
	}

	return best[rng.Intn(len(best))], nil
}
