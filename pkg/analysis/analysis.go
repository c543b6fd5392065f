// Package analysis ranks Contrast moves by a learned evaluator and
// reports how far a played move fell short of the best one.
package analysis

import (
	"fmt"
	"sort"

	"github.com/cwfinch/contrast/pkg/contrast"
)

// Evaluator estimates a state from the perspective of its side to
// move. Satisfied by *ntuple.Network and *ntuple.Handle without this
// package importing internal/ntuple, mirroring pkg/mcts's Evaluator.
type Evaluator interface {
	Evaluate(s *contrast.GameState) float32
}

// MoveEval is one legal move together with its value from the
// perspective of the player who would make it.
type MoveEval struct {
	Move  contrast.Move
	Value float32
}

// PositionResult ranks every legal move for one position, best first.
type PositionResult struct {
	Moves     []MoveEval
	BestMove  contrast.Move
	BestValue float32
	NumMoves  int
}

// AnalyzePosition generates every legal move from state, evaluates
// the position each leaves behind, and ranks them from the mover's
// own perspective (the evaluator reports post-move states from the
// perspective of the new side to move, so each candidate's value is
// negated before ranking).
func AnalyzePosition(eval Evaluator, state *contrast.GameState) PositionResult {
	var ml contrast.MoveList
	contrast.LegalMoves(state, &ml)

	result := PositionResult{NumMoves: ml.Len()}
	if ml.Len() == 0 {
		return result
	}

	result.Moves = make([]MoveEval, ml.Len())
	for i, m := range ml.Moves {
		next := contrast.ApplyMove(*state, m)
		result.Moves[i] = MoveEval{Move: m, Value: -eval.Evaluate(&next)}
	}

	sort.Slice(result.Moves, func(i, j int) bool {
		return result.Moves[i].Value > result.Moves[j].Value
	})

	result.BestMove = result.Moves[0].Move
	result.BestValue = result.Moves[0].Value
	return result
}

// PlyAnalysis compares a played move against the best move available
// in the same position.
type PlyAnalysis struct {
	Mover       contrast.Player
	PlayedMove  contrast.Move
	PlayedValue float32
	BestMove    contrast.Move
	BestValue   float32
	Loss        float32 // BestValue - PlayedValue, always >= 0
}

// AnalyzePly scores one played move against the position it was
// played from.
func AnalyzePly(eval Evaluator, state *contrast.GameState, played contrast.Move) (PlyAnalysis, error) {
	ranked := AnalyzePosition(eval, state)
	if ranked.NumMoves == 0 {
		return PlyAnalysis{}, fmt.Errorf("analysis: no legal moves to analyze")
	}

	var playedValue float32
	found := false
	for _, me := range ranked.Moves {
		if me.Move == played {
			playedValue = me.Value
			found = true
			break
		}
	}
	if !found {
		return PlyAnalysis{}, fmt.Errorf("analysis: played move %s is not legal in this position", contrast.FormatMove(played))
	}

	return PlyAnalysis{
		Mover:       state.ToMove,
		PlayedMove:  played,
		PlayedValue: playedValue,
		BestMove:    ranked.BestMove,
		BestValue:   ranked.BestValue,
		Loss:        ranked.BestValue - playedValue,
	}, nil
}

// GameSummary aggregates every ply's loss for one player.
type GameSummary struct {
	Plies       int
	TotalLoss   float32
	AverageLoss float32
	WorstLoss   float32
	WorstPly    int
}

// Summarize folds a sequence of PlyAnalysis belonging to one player
// into a GameSummary.
func Summarize(plies []PlyAnalysis) GameSummary {
	var s GameSummary
	s.Plies = len(plies)
	for i, p := range plies {
		s.TotalLoss += p.Loss
		if p.Loss > s.WorstLoss {
			s.WorstLoss = p.Loss
			s.WorstPly = i
		}
	}
	if s.Plies > 0 {
		s.AverageLoss = s.TotalLoss / float32(s.Plies)
	}
	return s
}
