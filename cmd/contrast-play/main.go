// Command contrast-play is an interactive terminal client: a human
// plays Black or White against a policy or MCTS opponent on a
// colorized board.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/muesli/termenv"

	"github.com/cwfinch/contrast/internal/ntuple"
	"github.com/cwfinch/contrast/pkg/contrast"
	"github.com/cwfinch/contrast/pkg/mcts"
	"github.com/cwfinch/contrast/pkg/policy"
	"github.com/cwfinch/contrast/pkg/trainer"
)

var profile = termenv.ColorProfile()

func main() {
	humanColor := flag.String("as", "black", "seat the human plays: black or white")
	opponentKind := flag.String("opponent", "greedy", "opponent policy: random, greedy, rulebased, or mcts")
	weightsFile := flag.String("weights", "", "checkpoint to load for an mcts opponent (empty uses an untrained network)")
	thinkTime := flag.Duration("think", time.Second, "time budget for an mcts opponent's move")
	flag.Parse()

	human := contrast.Black
	if strings.EqualFold(*humanColor, "white") {
		human = contrast.White
	}

	var pol policy.Policy
	var net *ntuple.Network
	if strings.EqualFold(*opponentKind, "mcts") {
		if *weightsFile != "" {
			loaded, err := trainer.LoadCheckpoint(*weightsFile)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error loading weights: %v\n", err)
				os.Exit(1)
			}
			net = loaded
		} else {
			net = ntuple.NewNetwork()
		}
	} else {
		kind, ok := policy.ParseKind(*opponentKind)
		if !ok {
			fmt.Fprintf(os.Stderr, "Unknown opponent kind %q\n", *opponentKind)
			os.Exit(1)
		}
		pol = policy.New(kind)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	state := contrast.InitialState()
	reader := bufio.NewScanner(os.Stdin)

	fmt.Printf("You are %s. Enter moves like a5,a4 (source,dest).\n\n", colorLabel(human))

	for {
		printBoard(&state)

		if contrast.IsWin(&state, state.ToMove.Opponent()) {
			fmt.Printf("%s wins.\n", colorLabel(state.ToMove.Opponent()))
			return
		}
		if contrast.IsLoss(&state, state.ToMove) {
			fmt.Printf("%s has no legal moves. %s wins.\n", colorLabel(state.ToMove), colorLabel(state.ToMove.Opponent()))
			return
		}

		var m contrast.Move
		if state.ToMove == human {
			var err error
			m, err = readHumanMove(reader, &state)
			if err != nil {
				fmt.Println(err)
				continue
			}
		} else {
			m = chooseOpponentMove(&state, pol, net, rng, *thinkTime)
			fmt.Printf("%s plays %s\n", colorLabel(state.ToMove), contrast.FormatMove(m))
		}

		state = contrast.ApplyMove(state, m)
	}
}

func readHumanMove(reader *bufio.Scanner, state *contrast.GameState) (contrast.Move, error) {
	fmt.Print("Your move: ")
	if !reader.Scan() {
		os.Exit(0)
	}
	literal := strings.TrimSpace(reader.Text())
	m, err := contrast.ParseMove(literal)
	if err != nil {
		return contrast.Move{}, fmt.Errorf("could not parse %q: %w", literal, err)
	}
	if err := contrast.ValidateMove(state, m); err != nil {
		return contrast.Move{}, fmt.Errorf("illegal move: %w", err)
	}
	return m, nil
}

func chooseOpponentMove(state *contrast.GameState, pol policy.Policy, net *ntuple.Network, rng *rand.Rand, thinkTime time.Duration) contrast.Move {
	if net != nil {
		search := mcts.New(net)
		m, ok := search.SearchDuration(state, thinkTime, rng)
		if ok {
			return m
		}
	}
	m, err := pol.Select(state, rng)
	if err != nil {
		fmt.Fprintf(os.Stderr, "opponent has no legal move: %v\n", err)
		os.Exit(1)
	}
	return m
}

func colorLabel(p contrast.Player) string {
	if p == contrast.Black {
		return termenv.String("Black").Foreground(profile.Color("0")).Background(profile.Color("7")).String()
	}
	return termenv.String("White").Foreground(profile.Color("15")).String()
}

// printBoard renders the board with occupants and tiles colorized:
// black pieces dim, white pieces bright, black tiles a muted gray,
// gray tiles a lighter gray, empty cells left plain.
func printBoard(s *contrast.GameState) {
	fmt.Println()
	for y := 0; y < contrast.Height; y++ {
		fmt.Printf("%d ", contrast.Height-y)
		for x := 0; x < contrast.Width; x++ {
			cell := s.Board.At(x, y)
			fmt.Print(styledGlyph(cell), " ")
		}
		fmt.Println()
	}
	fmt.Print("  ")
	for x := 0; x < contrast.Width; x++ {
		fmt.Printf("%c ", contrast.XToFile(x))
	}
	fmt.Println()
	fmt.Printf("To move: %s\n", colorLabel(s.ToMove))
}

func styledGlyph(c contrast.Cell) string {
	switch c.Occupant {
	case contrast.Black:
		return termenv.String("b").Foreground(profile.Color("0")).Background(profile.Color("7")).String()
	case contrast.White:
		return termenv.String("w").Foreground(profile.Color("15")).Bold().String()
	}
	switch c.Tile {
	case contrast.BlackTile:
		return termenv.String("#").Foreground(profile.Color("8")).String()
	case contrast.GrayTile:
		return termenv.String(".").Foreground(profile.Color("245")).String()
	default:
		return "-"
	}
}
