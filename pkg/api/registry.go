package api

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/cwfinch/contrast/pkg/contrast"
)

// Game is one in-progress session, addressable by ID over HTTP and
// the WebSocket STATE stream.
type Game struct {
	mu       sync.Mutex
	id       string
	state    contrast.GameState
	status   string
	lastMove string
	aiBlack  string
	aiWhite  string
}

func newGame(id string, req NewGameRequest) *Game {
	return &Game{
		id:      id,
		state:   contrast.InitialState(),
		status:  StatusOngoing,
		aiBlack: req.AIBlack,
		aiWhite: req.AIWhite,
	}
}

// snapshot copies the fields needed for a GameResponse under the
// game's own lock.
func (g *Game) snapshot() GameResponse {
	g.mu.Lock()
	defer g.mu.Unlock()
	return GameResponse{
		ID:       g.id,
		ToMove:   playerName(g.state.ToMove),
		Status:   g.status,
		LastMove: g.lastMove,
		Board:    contrast.Encode(&g.state),
		AIBlack:  g.aiBlack,
		AIWhite:  g.aiWhite,
	}
}

func (g *Game) applyMove(m contrast.Move) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.status != StatusOngoing {
		return fmt.Errorf("game is over, status %s", g.status)
	}
	if err := contrast.ValidateMove(&g.state, m); err != nil {
		return err
	}
	mover := g.state.ToMove
	g.state = contrast.ApplyMove(g.state, m)
	g.lastMove = contrast.FormatMove(m)
	g.status = statusAfter(&g.state, mover)
	return nil
}

// statusAfter reports the game's status just after mover's move has
// been applied and s.ToMove has advanced to mover's opponent.
func statusAfter(s *contrast.GameState, mover contrast.Player) string {
	if contrast.IsWin(s, mover) {
		return statusFor(mover)
	}
	if contrast.IsLoss(s, s.ToMove) {
		// s.ToMove (mover's opponent) has no legal moves: mover wins.
		return statusFor(mover)
	}
	return StatusOngoing
}

func statusFor(winner contrast.Player) string {
	if winner == contrast.Black {
		return StatusXWin
	}
	return StatusOWin
}

func playerName(p contrast.Player) string {
	if p == contrast.Black {
		return "X"
	}
	return "O"
}

// StatusOngoing, StatusXWin and StatusOWin mirror pkg/session's status
// strings so both surfaces agree on outcome vocabulary.
const (
	StatusOngoing = "ongoing"
	StatusXWin    = "X_win"
	StatusOWin    = "O_win"
)

// Registry is a concurrency-safe store of in-progress games, the HTTP
// API's counterpart to pkg/session's single shared Table: many
// independent games instead of one seat-based table.
type Registry struct {
	mu    sync.RWMutex
	games map[string]*Game
}

// NewRegistry builds an empty Registry.
func NewRegistry() *Registry {
	return &Registry{games: make(map[string]*Game)}
}

// Create starts a new game and returns it.
func (r *Registry) Create(req NewGameRequest) *Game {
	id := newGameID()
	g := newGame(id, req)
	r.mu.Lock()
	r.games[id] = g
	r.mu.Unlock()
	return g
}

// Get looks up a game by ID.
func (r *Registry) Get(id string) (*Game, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.games[id]
	return g, ok
}

// Reset replaces id's position with a fresh initial state, keeping
// its AI assignments.
func (g *Game) reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = contrast.InitialState()
	g.status = StatusOngoing
	g.lastMove = ""
}

func newGameID() string {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic(fmt.Sprintf("api: reading random game id: %v", err))
	}
	return hex.EncodeToString(buf[:])
}
