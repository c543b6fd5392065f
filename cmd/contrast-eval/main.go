// Command contrast-eval loads a trained network and plays it, greedy
// with no exploration, in a head-to-head match against a policy
// opponent, reporting the network's win rate.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/cwfinch/contrast/internal/ntuple"
	"github.com/cwfinch/contrast/pkg/contrast"
	"github.com/cwfinch/contrast/pkg/policy"
	"github.com/cwfinch/contrast/pkg/trainer"
)

func main() {
	weightsFile := flag.String("weights", "", "path to a trained network checkpoint (empty uses a fresh untrained network)")
	games := flag.Int("games", 100, "number of games to play")
	opponentName := flag.String("opponent", "greedy", "opponent policy: random, greedy, or rulebased")
	swapColors := flag.Bool("swap-colors", true, "alternate which color the network plays each game")
	turnCap := flag.Int("turns", trainer.DefaultConfig().TurnCap, "ply limit before a game is scored a draw")
	showVersion := flag.Bool("version", false, "show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("contrast-eval v0.1.0")
		os.Exit(0)
	}

	var net *ntuple.Network
	if *weightsFile != "" {
		loaded, err := trainer.LoadCheckpoint(*weightsFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading weights: %v\n", err)
			os.Exit(1)
		}
		net = loaded
	} else {
		net = ntuple.NewNetwork()
		fmt.Fprintln(os.Stderr, "no --weights given, evaluating a fresh untrained network")
	}

	oppKind, ok := policy.ParseKind(*opponentName)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown --opponent %q, want random, greedy, or rulebased\n", *opponentName)
		os.Exit(1)
	}
	opponent := policy.New(oppKind)
	learner := policy.EpsilonGreedy{Eval: net, Epsilon: 0}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	var learnerWins, opponentWins, draws int
	for g := 0; g < *games; g++ {
		learnerColor := contrast.Black
		if *swapColors && g%2 == 1 {
			learnerColor = contrast.White
		}
		result := playGame(learner, opponent, learnerColor, *turnCap, rng)
		switch result {
		case gameLearnerWin:
			learnerWins++
		case gameOpponentWin:
			opponentWins++
		default:
			draws++
		}
	}

	fmt.Printf("Played %d games (network vs %s, swap-colors=%v)\n", *games, oppKind, *swapColors)
	fmt.Printf("  Network wins:  %d (%.1f%%)\n", learnerWins, 100*float64(learnerWins)/float64(*games))
	fmt.Printf("  Opponent wins: %d (%.1f%%)\n", opponentWins, 100*float64(opponentWins)/float64(*games))
	fmt.Printf("  Draws:         %d (%.1f%%)\n", draws, 100*float64(draws)/float64(*games))
}

type gameResult int

const (
	gameLearnerWin gameResult = iota
	gameOpponentWin
	gameDraw
)

func playGame(learner, opponent policy.Policy, learnerColor contrast.Player, turnCap int, rng *rand.Rand) gameResult {
	s := contrast.InitialState()
	for ply := 0; ply < turnCap; ply++ {
		if contrast.IsLoss(&s, s.ToMove) {
			if s.ToMove == learnerColor {
				return gameOpponentWin
			}
			return gameLearnerWin
		}

		var pol policy.Policy
		if s.ToMove == learnerColor {
			pol = learner
		} else {
			pol = opponent
		}
		m, err := pol.Select(&s, rng)
		if err != nil {
			if s.ToMove == learnerColor {
				return gameOpponentWin
			}
			return gameLearnerWin
		}
		mover := s.ToMove
		s = contrast.ApplyMove(s, m)
		if contrast.IsWin(&s, mover) {
			if mover == learnerColor {
				return gameLearnerWin
			}
			return gameOpponentWin
		}
	}
	return gameDraw
}
