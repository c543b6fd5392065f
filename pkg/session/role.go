// Package session implements the newline-framed line protocol of §6:
// a small number of clients share one running game, each connection
// taking on a role of X, O or spectator.
package session

import (
	"strings"

	"github.com/cwfinch/contrast/pkg/contrast"
)

// Role identifies what a connected client may do: move as X or O,
// watch as a spectator, or (Auto) ask the server to pick for it.
type Role int

const (
	RoleNone Role = iota
	RoleX
	RoleO
	RoleSpectator
	RoleAuto
)

func (r Role) String() string {
	switch r {
	case RoleX:
		return "X"
	case RoleO:
		return "O"
	case RoleSpectator:
		return "spectator"
	case RoleAuto:
		return "-"
	default:
		return "none"
	}
}

// ParseRole maps the wire token to a Role. "-" requests automatic
// assignment (first free of X/O, else spectator).
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x":
		return RoleX, true
	case "o":
		return RoleO, true
	case "spectator":
		return RoleSpectator, true
	case "-":
		return RoleAuto, true
	default:
		return RoleNone, false
	}
}

// Player maps a seated role to the engine's Player type. X moves
// first, matching contrast.GameState's to_move starting at Black.
func (r Role) Player() contrast.Player {
	switch r {
	case RoleX:
		return contrast.Black
	case RoleO:
		return contrast.White
	default:
		return contrast.NoPlayer
	}
}

// roleFor is the inverse of Player, used when rendering to_move and
// the winner into protocol text.
func roleFor(p contrast.Player) Role {
	switch p {
	case contrast.Black:
		return RoleX
	case contrast.White:
		return RoleO
	default:
		return RoleNone
	}
}
