// Package record implements a textual, SGF-flavored recording format
// for Contrast games: enough to replay a self-play trajectory or an
// interactive session for later debugging, without carrying any of
// SGF's dice/cube properties that don't apply to this game.
package record

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/cwfinch/contrast/pkg/contrast"
)

// Ply is one recorded move together with the side that made it.
type Ply struct {
	Mover contrast.Player
	Move  contrast.Move
}

// Record is a complete game: header metadata plus its move sequence.
type Record struct {
	Event   string
	Date    string
	PlayerX string
	PlayerO string
	Result  string // "ongoing", "X_win" or "O_win", mirroring pkg/session's status vocabulary
	Plies   []Ply
}

// NewRecord starts an empty record for a game between playerX and
// playerO.
func NewRecord(playerX, playerO string) *Record {
	return &Record{PlayerX: playerX, PlayerO: playerO, Result: "ongoing"}
}

// AddMove appends a ply.
func (r *Record) AddMove(mover contrast.Player, m contrast.Move) {
	r.Plies = append(r.Plies, Ply{Mover: mover, Move: m})
}

// Finish records the game's outcome.
func (r *Record) Finish(result string) {
	r.Result = result
}

var propertyRE = regexp.MustCompile(`([A-Z]+)\[([^\]]*)\]`)

// Export writes r in the game's textual format:
//
//	(;EV[event]PX[playerX]PO[playerO]DT[date]RE[result]
//	 ;X[a5,a4]
//	 ;O[e1,e2]
//	 ...)
func Export(w io.Writer, r *Record) error {
	if _, err := fmt.Fprintf(w, "(;EV[%s]PX[%s]PO[%s]DT[%s]RE[%s]\n", r.Event, r.PlayerX, r.PlayerO, r.Date, r.Result); err != nil {
		return err
	}
	for _, ply := range r.Plies {
		seat := "O"
		if ply.Mover == contrast.Black {
			seat = "X"
		}
		if _, err := fmt.Fprintf(w, ";%s[%s]\n", seat, contrast.FormatMove(ply.Move)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprint(w, ")\n")
	return err
}

// Import reads a Record written by Export.
func Import(r io.Reader) (*Record, error) {
	scanner := bufio.NewScanner(r)
	var content strings.Builder
	for scanner.Scan() {
		content.WriteString(scanner.Text())
		content.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("record: reading: %w", err)
	}

	body := strings.TrimSpace(content.String())
	body = strings.TrimPrefix(body, "(")
	body = strings.TrimSuffix(body, ")")

	nodes := strings.Split(body, ";")
	// The tree opens with "(;", so the text before the first ';' is
	// empty and the header is the node after it.
	if len(nodes) > 0 && strings.TrimSpace(nodes[0]) == "" {
		nodes = nodes[1:]
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("record: empty game tree")
	}

	rec := &Record{}
	header := propertyRE.FindAllStringSubmatch(nodes[0], -1)
	for _, m := range header {
		switch m[1] {
		case "EV":
			rec.Event = m[2]
		case "PX":
			rec.PlayerX = m[2]
		case "PO":
			rec.PlayerO = m[2]
		case "DT":
			rec.Date = m[2]
		case "RE":
			rec.Result = m[2]
		}
	}

	for _, node := range nodes[1:] {
		node = strings.TrimSpace(node)
		if node == "" {
			continue
		}
		props := propertyRE.FindAllStringSubmatch(node, -1)
		for _, m := range props {
			var mover contrast.Player
			switch m[1] {
			case "X":
				mover = contrast.Black
			case "O":
				mover = contrast.White
			default:
				continue
			}
			move, err := contrast.ParseMove(m[2])
			if err != nil {
				return nil, fmt.Errorf("record: parsing move %q: %w", m[2], err)
			}
			rec.AddMove(mover, move)
		}
	}

	return rec, nil
}

// Replay applies every ply from the initial position and returns the
// state after each move, failing fast if the recorded game deviates
// from the rules engine's own legality (a corrupted or hand-edited
// record).
func Replay(r *Record) ([]contrast.GameState, error) {
	states := make([]contrast.GameState, 0, len(r.Plies)+1)
	s := contrast.InitialState()
	states = append(states, s)
	for i, ply := range r.Plies {
		if s.ToMove != ply.Mover {
			return nil, fmt.Errorf("record: ply %d: recorded mover does not match state to move", i)
		}
		if err := contrast.ValidateMove(&s, ply.Move); err != nil {
			return nil, fmt.Errorf("record: ply %d: %w", i, err)
		}
		s = contrast.ApplyMove(s, ply.Move)
		states = append(states, s)
	}
	return states, nil
}
