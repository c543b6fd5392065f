package session

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/cwfinch/contrast/pkg/contrast"
)

// Status strings, exactly as named in §6.
const (
	StatusOngoing = "ongoing"
	StatusXWin    = "X_win"
	StatusOWin    = "O_win"
)

// ErrRoleTaken is returned by Table.Assign when a client requests X
// or O and another client already holds it.
var ErrRoleTaken = errors.New("session: role already taken")

// ErrNotYourTurn is returned by Table.Move when the calling client's
// role does not match the side to move.
var ErrNotYourTurn = errors.New("session: not your turn")

// ErrGameOver is returned by Table.Move once a status other than
// ongoing has been reached.
var ErrGameOver = errors.New("session: game is over")

// ErrSpectatorCannotMove is returned by Table.Move for a client
// seated as spectator or with no role at all.
var ErrSpectatorCannotMove = errors.New("session: spectator cannot move")

// Table is one hosted game: the shared GameState plus the seating of
// connected clients into X, O and spectator, guarded by a single
// mutex — one shared piece of state, one lock, many concurrent
// callers.
type Table struct {
	mu       sync.Mutex
	state    contrast.GameState
	status   string
	lastMove string // formatted move literal, "" before the first move
	seats    map[Role]string // RoleX/RoleO -> occupying client id
	names    map[string]string
}

// NewTable starts a fresh game at the initial position.
func NewTable() *Table {
	return &Table{
		state:  contrast.InitialState(),
		status: StatusOngoing,
		seats:  make(map[Role]string, 2),
		names:  make(map[string]string),
	}
}

// Assign seats client under the requested role. RoleAuto picks the
// first free of X, O, falling back to spectator. Requesting a
// specific seat that is already occupied by a different client
// returns ErrRoleTaken; re-requesting a client's own current seat is
// idempotent. Spectator can always be granted.
func (t *Table) Assign(client string, req Role, name, model string) (Role, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if name != "" || model != "" {
		t.names[client] = strings.TrimSpace(name + " " + model)
	}

	switch req {
	case RoleAuto:
		if _, taken := t.seats[RoleX]; !taken {
			t.seats[RoleX] = client
			return RoleX, nil
		}
		if _, taken := t.seats[RoleO]; !taken {
			t.seats[RoleO] = client
			return RoleO, nil
		}
		return RoleSpectator, nil
	case RoleX, RoleO:
		if occupant, taken := t.seats[req]; taken && occupant != client {
			return RoleNone, ErrRoleTaken
		}
		t.seats[req] = client
		return req, nil
	case RoleSpectator:
		return RoleSpectator, nil
	default:
		return RoleNone, fmt.Errorf("session: unknown role %v", req)
	}
}

// roleOf reports the seat client currently holds, or RoleSpectator if
// none. Callers must hold t.mu.
func (t *Table) roleOf(client string) Role {
	for role, occupant := range t.seats {
		if occupant == client {
			return role
		}
	}
	return RoleSpectator
}

// Move applies literal on behalf of client if client is seated as the
// side to move and the game has not ended. On success it returns the
// updated status.
func (t *Table) Move(client string, literal string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.status != StatusOngoing {
		return t.status, ErrGameOver
	}

	role := t.roleOf(client)
	if role != RoleX && role != RoleO {
		return t.status, ErrSpectatorCannotMove
	}
	if role.Player() != t.state.ToMove {
		return t.status, ErrNotYourTurn
	}

	m, err := contrast.ParseMove(literal)
	if err != nil {
		return t.status, err
	}
	if err := contrast.ValidateMove(&t.state, m); err != nil {
		return t.status, err
	}

	t.state = contrast.ApplyMove(t.state, m)
	t.lastMove = contrast.FormatMove(m)

	switch {
	case contrast.IsWin(&t.state, contrast.Black):
		t.status = StatusXWin
	case contrast.IsWin(&t.state, contrast.White):
		t.status = StatusOWin
	case contrast.IsLoss(&t.state, t.state.ToMove):
		// The side now to move has no legal reply: the mover wins.
		t.status = statusFor(roleFor(t.state.ToMove.Opponent()))
	}

	return t.status, nil
}

func statusFor(winner Role) string {
	if winner == RoleO {
		return StatusOWin
	}
	return StatusXWin
}

// StateBlock renders the STATE block: board, tiles, to-move, last
// move, per-player tile stocks and status. The line format is this
// repo's own convention.
func (t *Table) StateBlock() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stateBlockLocked()
}

func (t *Table) stateBlockLocked() string {
	var sb strings.Builder
	sb.WriteString("STATE\n")
	sb.WriteString(contrast.FormatBoard(&t.state.Board))
	sb.WriteString("\n")
	sb.WriteString("TURN " + roleFor(t.state.ToMove).String() + "\n")
	last := t.lastMove
	if last == "" {
		last = "none"
	}
	sb.WriteString("LAST " + last + "\n")
	blackInv := t.state.Inventory[contrast.Black]
	whiteInv := t.state.Inventory[contrast.White]
	sb.WriteString("TILES X " + strconv.Itoa(blackInv.Black) + " " + strconv.Itoa(blackInv.Gray) + "\n")
	sb.WriteString("TILES O " + strconv.Itoa(whiteInv.Black) + " " + strconv.Itoa(whiteInv.Gray) + "\n")
	sb.WriteString("STATUS " + t.status + "\n")
	sb.WriteString("END\n")
	return sb.String()
}

// Status reports the current game status string.
func (t *Table) Status() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Leave frees any seat client holds, e.g. on disconnect, so a later
// connection can claim it.
func (t *Table) Leave(client string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for role, occupant := range t.seats {
		if occupant == client {
			delete(t.seats, role)
		}
	}
	delete(t.names, client)
}
