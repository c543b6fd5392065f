// Package api provides an HTTP/JSON REST API, plus a WebSocket STATE
// stream, over the contrast rules engine.
package api

import "github.com/cwfinch/contrast/pkg/contrast"

// NewGameRequest configures a freshly created session. Leaving an
// AI field empty means that side is human-controlled; otherwise it
// names a policy.Kind ("random", "greedy" or "rulebased").
type NewGameRequest struct {
	AIBlack string `json:"ai_black,omitempty"`
	AIWhite string `json:"ai_white,omitempty"`
}

// MoveRequest is the request body for POST .../move.
type MoveRequest struct {
	Move string `json:"move"`
}

// AIMoveRequest is the request body for POST .../ai_move. Kind names
// a policy.Kind ("random", "greedy", "rulebased") or "mcts" to search
// with the N-tuple evaluator for TimeBudgetMS milliseconds.
type AIMoveRequest struct {
	Kind         string `json:"kind"`
	TimeBudgetMS int    `json:"time_budget_ms,omitempty"`
}

// ErrorResponse is returned with a 4xx status on any rejected request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// GameResponse is the full snapshot returned by most endpoints:
// enough for a client to render the board and know whose turn it is
// without a second round trip.
type GameResponse struct {
	ID       string                 `json:"id"`
	ToMove   string                 `json:"to_move"`
	Status   string                 `json:"status"`
	LastMove string                 `json:"last_move,omitempty"`
	Board    [contrast.ArrayLen]int `json:"board_array"`
	AIBlack  string                 `json:"ai_black,omitempty"`
	AIWhite  string                 `json:"ai_white,omitempty"`
}

// LegalMovesResponse lists every legal move literal for the side to
// move.
type LegalMovesResponse struct {
	ToMove string   `json:"to_move"`
	Moves  []string `json:"moves"`
}

// BoardTextResponse carries the ASCII board rendering.
type BoardTextResponse struct {
	Text string `json:"text"`
}

// BoardArrayResponse carries the raw 29-element encoding.
type BoardArrayResponse struct {
	Array [contrast.ArrayLen]int `json:"array"`
}

// HealthResponse is the response for GET /api/health.
type HealthResponse struct {
	Status string `json:"status"`
	Games  int    `json:"games"`
}
