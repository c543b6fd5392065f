// Command contrast-train runs the self-play trainer, climbing the
// curriculum ladder (greedy, then rule-based, then self-play) until
// the configured number of games has been played.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cwfinch/contrast/pkg/trainer"
)

const version = "0.1.0"

func main() {
	def := trainer.DefaultConfig()

	games := flag.Int("games", def.Games, "number of games to play")
	turns := flag.Int("turns", def.TurnCap, "ply limit before a game is scored a draw")
	lr := flag.Float64("lr", float64(def.LRMax), "starting learning rate, decaying over the run per the inverse-square schedule")
	epsilon := flag.Float64("epsilon", float64(def.Epsilon), "exploration rate for the learner's own moves")
	opponent := flag.String("opponent", "", "pin the opponent to self, greedy, or rulebased instead of climbing the curriculum")
	threads := flag.Int("threads", def.Threads, "number of self-play worker goroutines")
	saveInterval := flag.Int("save-interval", def.SaveInterval, "games between checkpoints")
	output := flag.String("output", def.OutputDir, "directory to write checkpoint weight files to")
	load := flag.String("load", "", "checkpoint file to resume training from")
	showVersion := flag.Bool("version", false, "show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("contrast-train v%s\n", version)
		os.Exit(0)
	}

	if envDir := os.Getenv("CONTRAST_CHECKPOINT_DIR"); envDir != "" {
		*output = envDir
	}

	cfg := def
	cfg.Games = *games
	cfg.TurnCap = *turns
	cfg.LRMax = float32(*lr)
	cfg.Epsilon = float32(*epsilon)
	cfg.Threads = *threads
	cfg.SaveInterval = *saveInterval
	cfg.OutputDir = *output

	if *opponent != "" {
		stage, err := parseOpponent(*opponent)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		cfg.PinOpponent = true
		cfg.Opponent = stage
	}

	var t *trainer.Trainer
	if *load != "" {
		net, err := trainer.LoadCheckpoint(*load)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading checkpoint: %v\n", err)
			os.Exit(1)
		}
		t = trainer.NewFromNetwork(cfg, net)
		fmt.Printf("Resumed from %s\n", *load)
	} else {
		t = trainer.New(cfg)
	}

	seed := time.Now().UnixNano()

	fmt.Printf("Training %d games across %d threads (turn cap %d)...\n", cfg.Games, cfg.Threads, cfg.TurnCap)
	start := time.Now()
	stats := t.Run(seed)
	elapsed := time.Since(start)

	fmt.Printf("Done in %s\n", elapsed.Round(time.Second))
	fmt.Printf("  Games played:   %d\n", stats.GamesPlayed)
	fmt.Printf("  Learner wins:   %d\n", stats.LearnerWins)
	fmt.Printf("  Opponent wins:  %d\n", stats.OpponentWins)
	fmt.Printf("  Draws:          %d\n", stats.Draws)
	fmt.Printf("  Final stage:    %s\n", stats.Stage)

	if err := trainer.SaveCheckpoint(cfg.OutputDir, t.Network()); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing final checkpoint: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Final weights written to %s\n", cfg.OutputDir)
}

// parseOpponent maps the --opponent flag's three accepted values onto
// the trainer.Stage that value pins the run to.
func parseOpponent(name string) (trainer.Stage, error) {
	switch name {
	case "self":
		return trainer.StageSelf, nil
	case "greedy":
		return trainer.StageGreedy, nil
	case "rulebased":
		return trainer.StageRuleBased, nil
	default:
		return 0, fmt.Errorf("unknown --opponent %q, want self, greedy, or rulebased", name)
	}
}
