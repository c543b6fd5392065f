package trainer

import "github.com/cwfinch/contrast/pkg/contrast"

// Outcome is the terminal result of one self-play game, from Black's
// perspective; per-mover reward is derived from it in the updater.
type Outcome int

const (
	OutcomeDraw Outcome = iota
	OutcomeBlackWin
	OutcomeWhiteWin
)

// recordedPly is one (state, side to move) pair captured before a
// move was applied.
type recordedPly struct {
	state contrast.GameState
	mover contrast.Player
}

// trajectory is one completed game pushed onto the result queue.
type trajectory struct {
	game         int
	learnerColor contrast.Player
	learnerIsBoth bool // true when the opponent this game was also the learner (curriculum stage self)
	plies        []recordedPly
	outcome      Outcome
}

// rewardFor returns the terminal reward from mover's perspective:
// +1 win, -1 loss, 0 draw.
func (t *trajectory) rewardFor(mover contrast.Player) float32 {
	switch t.outcome {
	case OutcomeBlackWin:
		if mover == contrast.Black {
			return 1
		}
		return -1
	case OutcomeWhiteWin:
		if mover == contrast.White {
			return 1
		}
		return -1
	default:
		return 0
	}
}
