package trainer

import (
	"math/rand"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/cwfinch/contrast/internal/ntuple"
	"github.com/cwfinch/contrast/pkg/contrast"
	"github.com/cwfinch/contrast/pkg/policy"
)

// opponentSnapshot pairs the policy a worker should play against with
// the curriculum stage it represents, so the updater can decide
// whether a finished game's opponent side is trainable (stage self)
// or fixed (greedy/rulebased).
type opponentSnapshot struct {
	stage  Stage
	policy policy.Policy
}

// Trainer runs the self-play pipeline: a pool of worker goroutines
// playing games against a learner-or-fixed opponent, feeding
// completed trajectories to a single updater goroutine that owns all
// training state.
type Trainer struct {
	cfg     Config
	learner *ntuple.Handle

	opponent atomic.Pointer[opponentSnapshot]

	gameCounter  int64 // next game number to claim, atomics only
	learnerColor int32 // atomic; 0 = Black, 1 = White, flips every SwapInterval games

	queue chan trajectory

	// stats is owned solely by the updater goroutine; workers never
	// touch it directly.
	stats Stats
}

// Stats summarises a training run so far. Snapshot returns a copy of
// the trainer's current Stats.
type Stats struct {
	GamesPlayed  int
	LearnerWins  int
	OpponentWins int
	Draws        int
	Stage        Stage
}

// New builds a Trainer starting from a freshly initialised network and
// the curriculum's first stage (greedy), or cfg.Opponent when
// cfg.PinOpponent is set.
func New(cfg Config) *Trainer {
	return NewFromNetwork(cfg, ntuple.NewNetwork())
}

// NewFromNetwork builds a Trainer whose learner starts from net, e.g.
// a checkpoint loaded by the caller via ntuple.LoadSparse.
func NewFromNetwork(cfg Config, net *ntuple.Network) *Trainer {
	t := &Trainer{
		cfg:     cfg,
		learner: ntuple.NewHandle(net),
		queue:   make(chan trajectory, cfg.Threads*2),
	}
	stage := StageGreedy
	if cfg.PinOpponent {
		stage = cfg.Opponent
	}
	t.stats.Stage = stage
	t.opponent.Store(t.snapshotForStage(stage))
	return t
}

// snapshotForStage builds the opponent a given curriculum stage plays
// against: a fixed policy for greedy/rulebased, or a frozen copy of
// the learner itself for self-play.
func (t *Trainer) snapshotForStage(stage Stage) *opponentSnapshot {
	switch stage {
	case StageRuleBased:
		return &opponentSnapshot{stage: stage, policy: policy.New(policy.KindRuleBased)}
	case StageSelf:
		return &opponentSnapshot{stage: stage, policy: policy.EpsilonGreedy{Eval: t.learner.Snapshot(), Epsilon: 0}}
	default:
		return &opponentSnapshot{stage: StageGreedy, policy: policy.New(policy.KindGreedy)}
	}
}

// Network returns a value-copy of the current learner weights,
// suitable for saving or evaluation once Run has returned.
func (t *Trainer) Network() *ntuple.Network {
	return t.learner.Snapshot()
}

// Snapshot returns a copy of the trainer's statistics so far. It reads
// the fields without synchronisation, so a call from another goroutine
// while Run is executing races with the updater's writes.
func (t *Trainer) Snapshot() Stats {
	return Stats{
		GamesPlayed:  t.stats.GamesPlayed,
		LearnerWins:  t.stats.LearnerWins,
		OpponentWins: t.stats.OpponentWins,
		Draws:        t.stats.Draws,
		Stage:        t.stats.Stage,
	}
}

// Run launches cfg.Threads workers plus the updater and blocks until
// cfg.Games games have been played and every trajectory has been
// applied. seed derives each worker's RNG stream deterministically, but Run's own output is not reproducible
// bit-for-bit: workers read the learner concurrently with the
// updater's TD writes to it, so the interleaving is
// scheduling-dependent. Use RunAlternating for a reproducible run.
func (t *Trainer) Run(seed int64) Stats {
	var wg sync.WaitGroup
	wg.Add(t.cfg.Threads)
	for i := 0; i < t.cfg.Threads; i++ {
		go func(workerID int) {
			defer wg.Done()
			t.workerLoop(rand.New(rand.NewSource(seed + int64(workerID) + 1)))
		}(i)
	}

	done := make(chan Stats, 1)
	go func() {
		done <- t.updaterLoop()
	}()

	wg.Wait()
	close(t.queue)
	return <-done
}

// RunAlternating plays and updates on a single goroutine: play one
// game to completion, apply its TD updates, then play the next. There
// is no worker/updater split and no channel handoff, so a fixed seed
// reproduces a run bit-for-bit. Useful for deterministic tests and for
// small runs where the pool driver's concurrency isn't worth its
// scheduling nondeterminism.
func (t *Trainer) RunAlternating(seed int64) Stats {
	rng := rand.New(rand.NewSource(seed))
	rolling := make([]bool, 0, t.cfg.RollingWindow)

	for game := 0; game < t.cfg.Games; game++ {
		snap := t.opponent.Load()
		learnerColor := t.colorFor(int64(game))
		traj := t.playGameFrom(contrast.InitialState(), game, learnerColor, snap, rng)
		rolling = t.applyTrajectory(traj, rolling)
	}

	return t.Snapshot()
}

// workerLoop claims a game number, reads the learner and opponent,
// decides colours, plays to completion or the turn cap, and pushes
// the trajectory.
func (t *Trainer) workerLoop(rng *rand.Rand) {
	for {
		game := atomic.AddInt64(&t.gameCounter, 1) - 1
		if game >= int64(t.cfg.Games) {
			return
		}

		snap := t.opponent.Load()
		learnerColor := t.colorFor(game)

		traj := t.playGameFrom(contrast.InitialState(), int(game), learnerColor, snap, rng)
		t.queue <- traj
	}
}

// colorFor derives the learner's colour for game from the atomic
// colour flag, switched to the other colour on odd games; the flag
// itself only changes at role-swap boundaries (see rotateColor). Every
// game starts from contrast.InitialState() with Black to move, so game
// parity changes which side the learner plays, not which side opens.
func (t *Trainer) colorFor(game int64) contrast.Player {
	base := contrast.Black
	if atomic.LoadInt32(&t.learnerColor) == 1 {
		base = contrast.White
	}
	if game%2 != 0 {
		return base.Opponent()
	}
	return base
}

// playGameFrom plays one game from start to termination or the turn
// cap, recording (state, side to move) before every move so the
// updater can later apply a TD update to each one. Exposed with an
// explicit start state (rather than always contrast.InitialState())
// so tests can drive forced end-of-game scenarios.
func (t *Trainer) playGameFrom(start contrast.GameState, game int, learnerColor contrast.Player, snap *opponentSnapshot, rng *rand.Rand) trajectory {
	s := start
	traj := trajectory{
		game:          game,
		learnerColor:  learnerColor,
		learnerIsBoth: snap.stage == StageSelf,
		outcome:       OutcomeDraw,
	}

	learnerEval := policy.EpsilonGreedy{Eval: t.learner, Epsilon: t.cfg.Epsilon}

	for ply := 0; ply < t.cfg.TurnCap; ply++ {
		if contrast.IsWin(&s, contrast.Black) {
			traj.outcome = OutcomeBlackWin
			return traj
		}
		if contrast.IsWin(&s, contrast.White) {
			traj.outcome = OutcomeWhiteWin
			return traj
		}
		if contrast.IsLoss(&s, s.ToMove) {
			traj.outcome = winFor(s.ToMove.Opponent())
			return traj
		}

		traj.plies = append(traj.plies, recordedPly{state: s, mover: s.ToMove})

		var m contrast.Move
		var err error
		if s.ToMove == learnerColor {
			m, err = learnerEval.Select(&s, rng)
		} else {
			m, err = snap.policy.Select(&s, rng)
		}
		if err != nil {
			// No legal moves: the side to move loses. Same handling as
			// the IsLoss check above, kept here for policies that
			// discover emptiness themselves.
			traj.outcome = winFor(s.ToMove.Opponent())
			return traj
		}

		s = contrast.ApplyMove(s, m)
	}

	return traj
}

func winFor(p contrast.Player) Outcome {
	if p == contrast.Black {
		return OutcomeBlackWin
	}
	return OutcomeWhiteWin
}

// updaterLoop drains finished trajectories one at a time, delegating
// each to applyTrajectory. It owns every piece of training state
// exclusively.
func (t *Trainer) updaterLoop() Stats {
	rolling := make([]bool, 0, t.cfg.RollingWindow)
	for traj := range t.queue {
		rolling = t.applyTrajectory(traj, rolling)
	}
	return t.Snapshot()
}

// applyTrajectory folds one finished game into training state: a TD
// update to every ply that belongs to the learner, win-count and
// rolling-window bookkeeping, and role swaps, checkpoints and
// curriculum promotion at their respective cadences. Called from
// updaterLoop (concurrent pool driver) and RunAlternating (sequential
// driver) alike; callers must not call it from more than one goroutine
// at a time. Returns the rolling window to use for the next call.
func (t *Trainer) applyTrajectory(traj trajectory, rolling []bool) []bool {
	lr := t.cfg.learningRate(float32(t.stats.GamesPlayed) / float32(maxInt(t.cfg.Games, 1)))

	for _, ply := range traj.plies {
		if !t.plyBelongsToLearner(traj, ply.mover) {
			continue
		}
		r := traj.rewardFor(ply.mover)
		state := ply.state
		t.learner.TDUpdate(&state, r, lr)
	}

	t.stats.GamesPlayed++
	switch {
	case traj.outcome == OutcomeDraw:
		t.stats.Draws++
	case winFor(traj.learnerColor) == traj.outcome:
		t.stats.LearnerWins++
	default:
		t.stats.OpponentWins++
	}

	learnerWon := traj.outcome != OutcomeDraw && winFor(traj.learnerColor) == traj.outcome
	rolling = append(rolling, learnerWon)
	if len(rolling) > t.cfg.RollingWindow {
		rolling = rolling[1:]
	}

	if t.stats.GamesPlayed%t.cfg.SwapInterval == 0 {
		t.rotateColor()
	}

	if t.stats.GamesPlayed%t.cfg.SaveInterval == 0 {
		t.checkpoint()
	}

	if t.stats.GamesPlayed >= t.cfg.Bootstrap && rollingWinRate(rolling) > 0.55 {
		if t.promote() {
			rolling = rolling[:0]
		}
	}

	return rolling
}

// plyBelongsToLearner reports whether a recorded ply should receive a
// TD update: always in pure self-play, otherwise only plies where the
// mover was the learner's own colour that game.
func (t *Trainer) plyBelongsToLearner(traj trajectory, mover contrast.Player) bool {
	return traj.learnerIsBoth || mover == traj.learnerColor
}

func rollingWinRate(rolling []bool) float64 {
	if len(rolling) == 0 {
		return 0
	}
	wins := 0
	for _, w := range rolling {
		if w {
			wins++
		}
	}
	return float64(wins) / float64(len(rolling))
}

// rotateColor flips the learner's colour flag, independent of the
// curriculum stage or checkpoint cadence.
func (t *Trainer) rotateColor() {
	for {
		old := atomic.LoadInt32(&t.learnerColor)
		next := int32(1) - old
		if atomic.CompareAndSwapInt32(&t.learnerColor, old, next) {
			return
		}
	}
}

// promote advances the curriculum ladder greedy -> rulebased -> self,
// reporting whether a transition actually happened (the caller resets
// the rolling window only then).
func (t *Trainer) promote() bool {
	if t.cfg.PinOpponent {
		return false
	}
	current := t.opponent.Load()
	var next *opponentSnapshot
	switch current.stage {
	case StageGreedy:
		next = t.snapshotForStage(StageRuleBased)
	case StageRuleBased:
		next = t.snapshotForStage(StageSelf)
	default:
		return false
	}

	t.opponent.Store(next)
	t.stats.Stage = next.stage
	log.Info().Msgf("trainer: curriculum promoted to %s after %d games", next.stage, t.stats.GamesPlayed)
	return true
}

// checkpoint saves the learner and, at the self-play stage, refreshes
// the opponent snapshot with a fresh copy of the learner. Save errors
// are logged, not fatal: a missed checkpoint does not corrupt the run.
func (t *Trainer) checkpoint() {
	if err := SaveCheckpoint(t.cfg.OutputDir, t.learner.Snapshot()); err != nil {
		log.Warn().Msgf("trainer: checkpoint at game %d failed: %v", t.stats.GamesPlayed, err)
		return
	}

	current := t.opponent.Load()
	if current.stage == StageSelf {
		t.opponent.Store(&opponentSnapshot{
			stage:  StageSelf,
			policy: policy.EpsilonGreedy{Eval: t.learner.Snapshot(), Epsilon: 0},
		})
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
