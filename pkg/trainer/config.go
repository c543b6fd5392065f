package trainer

import "time"

// Stage names a rung of the curriculum ladder the opponent climbs as
// the learner improves.
type Stage int32

const (
	StageGreedy Stage = iota
	StageRuleBased
	StageSelf
)

func (s Stage) String() string {
	switch s {
	case StageGreedy:
		return "greedy"
	case StageRuleBased:
		return "rulebased"
	case StageSelf:
		return "self"
	default:
		return "unknown"
	}
}

// Config controls one training run.
type Config struct {
	Games        int // total games to play before workers stop claiming new ones
	TurnCap      int // ply cap per game before it's scored a draw
	Threads      int // worker goroutine count
	Epsilon      float32
	LRMax        float32
	LRMin        float32
	LRk          float32
	SwapInterval int // games between learner colour flips
	SaveInterval int // games between checkpoints
	RollingWindow int // games in the promotion win-rate window
	OutputDir    string
	Bootstrap    int // games before the first curriculum promotion is eligible

	// PinOpponent, when true, keeps the opponent fixed at the Opponent
	// stage for the whole run instead of climbing the greedy ->
	// rulebased -> self curriculum ladder.
	PinOpponent bool
	Opponent    Stage
}

// DefaultConfig returns sensible defaults: lr_max=0.1, lr_min=0.005,
// k=19, swap_interval=10000, a 1000-game bootstrap and rolling
// window, and 4 worker goroutines.
func DefaultConfig() Config {
	return Config{
		Games:         100_000,
		TurnCap:       500,
		Threads:       4,
		Epsilon:       0.1,
		LRMax:         0.1,
		LRMin:         0.005,
		LRk:           19,
		SwapInterval:  10_000,
		SaveInterval:  1_000,
		RollingWindow: 1_000,
		OutputDir:     "checkpoints",
		Bootstrap:     1_000,
	}
}

// learningRate follows an inverse-square decay schedule:
// lr = lr_min + (lr_max-lr_min)/(1+k*p^2), p clamped to [0,1].
func (c Config) learningRate(progress float32) float32 {
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	return c.LRMin + (c.LRMax-c.LRMin)/(1+c.LRk*progress*progress)
}

// checkpointName timestamps a checkpoint file the way a long-running
// trainer needs to avoid clobbering earlier saves.
func checkpointName(prefix string, at time.Time) string {
	return prefix + "-" + at.UTC().Format("20060102-150405") + ".weights"
}
