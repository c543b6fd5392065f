package policy

import (
	"math/rand"

	"github.com/cwfinch/contrast/pkg/contrast"
)

// RuleBased plays a fixed priority ladder: take an immediate win, else
// block the opponent's immediate win, else maximise a forward-progress
// score. Priorities (1) and (2) are exact; (3) is heuristic.
type RuleBased struct{}

func (RuleBased) Select(s *contrast.GameState, rng *rand.Rand) (contrast.Move, error) {
	moves, err := legalMoves(s)
	if err != nil {
		return contrast.Move{}, err
	}

	me := s.ToMove
	opp := me.Opponent()

	// Priority 1: an immediate winning move.
	for _, m := range moves.Moves {
		next := contrast.ApplyMove(*s, m)
		if contrast.IsWin(&next, me) {
			return m, nil
		}
	}

	// Priority 2: if the opponent has a move that reaches its goal
	// rank next turn, play any move that denies it.
	if opponentCanWinNextTurn(s, opp) {
		var blocks []contrast.Move
		for _, m := range moves.Moves {
			next := contrast.ApplyMove(*s, m)
			next.ToMove = opp // probe from the opponent's perspective
			if !opponentCanWinNextTurn(&next, opp) {
				blocks = append(blocks, m)
			}
		}
		if len(blocks) > 0 {
			return selectBestProgress(s, blocks, me, rng), nil
		}
	}

	// Priority 3: maximise forward progress.
	return selectBestProgress(s, moves.Moves, me, rng), nil
}

// opponentCanWinNextTurn reports whether p, to move in s, has a legal
// move that reaches its own goal rank.
func opponentCanWinNextTurn(s *contrast.GameState, p contrast.Player) bool {
	probe := *s
	probe.ToMove = p
	var moves contrast.MoveList
	contrast.LegalMoves(&probe, &moves)
	for _, m := range moves.Moves {
		next := contrast.ApplyMove(probe, m)
		if contrast.IsWin(&next, p) {
			return true
		}
	}
	return false
}

// selectBestProgress scores each candidate by how much closer it
// brings the moved piece to its goal rank, breaking ties uniformly at
// random.
func selectBestProgress(s *contrast.GameState, candidates []contrast.Move, me contrast.Player, rng *rand.Rand) contrast.Move {
	goal := contrast.GoalRank(me)
	distTo := func(y int) int {
		d := goal - y
		if d < 0 {
			d = -d
		}
		return d
	}

	best := candidates[:1]
	bestScore := distTo(candidates[0].Sy) - distTo(candidates[0].Dy)
	for _, m := range candidates[1:] {
		score := distTo(m.Sy) - distTo(m.Dy)
		switch {
		case score > bestScore:
			bestScore = score
			best = []contrast.Move{m}
		case score == bestScore:
			best = append(best, m)
		}
	}
	return best[rng.Intn(len(best))]
}
