// Package policy implements move-selection strategies over the
// contrast rules engine: Random, Greedy, RuleBased and an
// epsilon-greedy wrapper around any evaluator-driven policy. They all
// satisfy the same Policy interface so the trainer can treat the
// opponent slot uniformly regardless of which strategy backs it.
package policy

import (
	"errors"
	"math/rand"

	"github.com/cwfinch/contrast/pkg/contrast"
)

// ErrNoLegalMoves is returned by Select when the position has no
// legal moves; callers should treat this as a loss for the side to
// move rather than as a fatal error.
var ErrNoLegalMoves = errors.New("policy: no legal moves")

// Policy selects one legal move for the state's side to move.
type Policy interface {
	Select(s *contrast.GameState, rng *rand.Rand) (contrast.Move, error)
}

// Kind names a policy so it can travel through configuration and CLI
// flags without carrying a Go value.
type Kind int

const (
	KindRandom Kind = iota
	KindGreedy
	KindRuleBased
)

func (k Kind) String() string {
	switch k {
	case KindRandom:
		return "random"
	case KindGreedy:
		return "greedy"
	case KindRuleBased:
		return "rulebased"
	default:
		return "unknown"
	}
}

// ParseKind maps a CLI-facing opponent name to a Kind. "self" is
// handled by the trainer (it means "use the learner"), not here.
func ParseKind(name string) (Kind, bool) {
	switch name {
	case "random":
		return KindRandom, true
	case "greedy":
		return KindGreedy, true
	case "rulebased":
		return KindRuleBased, true
	default:
		return 0, false
	}
}

// legalMoves is a small shared helper: every policy in this package
// starts by generating the move list and failing fast if it's empty.
func legalMoves(s *contrast.GameState) (contrast.MoveList, error) {
	var moves contrast.MoveList
	contrast.LegalMoves(s, &moves)
	if moves.Len() == 0 {
		return moves, ErrNoLegalMoves
	}
	return moves, nil
}
