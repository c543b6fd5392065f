package api

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/cwfinch/contrast/internal/ntuple"
	"github.com/cwfinch/contrast/pkg/contrast"
	"github.com/cwfinch/contrast/pkg/mcts"
	"github.com/cwfinch/contrast/pkg/policy"
)

// Handlers holds the HTTP handlers and the shared game registry.
type Handlers struct {
	registry *Registry
	version  string
	pool     *WorkerPool
	network  *ntuple.Network // evaluator behind "mcts" AI moves; nil disables it
}

// NewHandlers creates a Handlers instance without a worker pool.
func NewHandlers(registry *Registry, version string) *Handlers {
	return &Handlers{registry: registry, version: version}
}

// NewHandlersWithPool creates a Handlers instance with a worker pool.
func NewHandlersWithPool(registry *Registry, version string, pool *WorkerPool) *Handlers {
	return &Handlers{registry: registry, version: version, pool: pool}
}

// WithNetwork attaches an evaluator so "mcts" AI moves are available.
func (h *Handlers) WithNetwork(net *ntuple.Network) *Handlers {
	h.network = net
	return h
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// gameOr404 fetches the game named by the "id" path value, writing a
// 404 and returning ok=false if it does not exist.
func (h *Handlers) gameOr404(w http.ResponseWriter, r *http.Request) (*Game, bool) {
	id := r.PathValue("id")
	g, ok := h.registry.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "no such game "+id)
		return nil, false
	}
	return g, true
}

// Health handles GET /api/health.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	h.registry.mu.RLock()
	games := len(h.registry.games)
	h.registry.mu.RUnlock()
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Games: games})
}

// PoolStatsHandler handles GET /api/pool, exposing worker pool load
// for monitoring.
func (h *Handlers) PoolStatsHandler(w http.ResponseWriter, r *http.Request) {
	if h.pool == nil {
		writeError(w, http.StatusNotFound, "no worker pool configured")
		return
	}
	writeJSON(w, http.StatusOK, h.pool.Stats())
}

// NewGame handles POST /api/game/new.
func (h *Handlers) NewGame(w http.ResponseWriter, r *http.Request) {
	if h.pool != nil {
		if err := h.pool.AcquireFast(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "server busy")
			return
		}
		defer h.pool.ReleaseFast()
	}

	var req NewGameRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
	}

	g := h.registry.Create(req)
	writeJSON(w, http.StatusCreated, g.snapshot())
}

// GetGame handles GET /api/game/{id}.
func (h *Handlers) GetGame(w http.ResponseWriter, r *http.Request) {
	g, ok := h.gameOr404(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, g.snapshot())
}

// LegalMoves handles GET /api/game/{id}/moves.
func (h *Handlers) LegalMoves(w http.ResponseWriter, r *http.Request) {
	g, ok := h.gameOr404(w, r)
	if !ok {
		return
	}

	g.mu.Lock()
	state := g.state
	g.mu.Unlock()

	var ml contrast.MoveList
	contrast.LegalMoves(&state, &ml)
	literals := make([]string, len(ml.Moves))
	for i, m := range ml.Moves {
		literals[i] = contrast.FormatMove(m)
	}
	writeJSON(w, http.StatusOK, LegalMovesResponse{ToMove: playerName(state.ToMove), Moves: literals})
}

// Move handles POST /api/game/{id}/move.
func (h *Handlers) Move(w http.ResponseWriter, r *http.Request) {
	if h.pool != nil {
		if err := h.pool.AcquireFast(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "server busy")
			return
		}
		defer h.pool.ReleaseFast()
	}

	g, ok := h.gameOr404(w, r)
	if !ok {
		return
	}

	var req MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	m, err := contrast.ParseMove(req.Move)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := g.applyMove(m); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	resp := g.snapshot()
	writeJSON(w, http.StatusOK, resp)
	broadcastGame(g.id, resp)
}

// AIMove handles POST /api/game/{id}/ai_move: the side to move is
// played by a policy (fast) or an MCTS search (slow, pool-gated).
func (h *Handlers) AIMove(w http.ResponseWriter, r *http.Request) {
	g, ok := h.gameOr404(w, r)
	if !ok {
		return
	}

	var req AIMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	g.mu.Lock()
	state := g.state
	g.mu.Unlock()

	m, err := h.selectAIMove(r, req, &state)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := g.applyMove(m); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	resp := g.snapshot()
	writeJSON(w, http.StatusOK, resp)
	broadcastGame(g.id, resp)
}

func (h *Handlers) selectAIMove(r *http.Request, req AIMoveRequest, state *contrast.GameState) (contrast.Move, error) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	if req.Kind != "mcts" {
		kind, ok := policy.ParseKind(req.Kind)
		if !ok {
			return contrast.Move{}, fmt.Errorf("unknown AI kind %q", req.Kind)
		}
		return policy.New(kind).Select(state, rng)
	}

	if h.pool != nil {
		if err := h.pool.AcquireSlow(r.Context()); err != nil {
			return contrast.Move{}, err
		}
		defer h.pool.ReleaseSlow()
	}

	net := h.network
	if net == nil {
		net = ntuple.NewNetwork()
	}
	budget := time.Duration(req.TimeBudgetMS) * time.Millisecond
	if budget <= 0 {
		budget = time.Second
	}
	search := mcts.New(net)
	m, ok := search.SearchDuration(state, budget, rng)
	if !ok {
		return contrast.Move{}, policy.ErrNoLegalMoves
	}
	return m, nil
}

// Reset handles POST /api/game/{id}/reset.
func (h *Handlers) Reset(w http.ResponseWriter, r *http.Request) {
	g, ok := h.gameOr404(w, r)
	if !ok {
		return
	}
	g.reset()
	resp := g.snapshot()
	writeJSON(w, http.StatusOK, resp)
	broadcastGame(g.id, resp)
}

// BoardText handles GET /api/game/{id}/board_text.
func (h *Handlers) BoardText(w http.ResponseWriter, r *http.Request) {
	g, ok := h.gameOr404(w, r)
	if !ok {
		return
	}
	g.mu.Lock()
	board := g.state.Board
	g.mu.Unlock()
	writeJSON(w, http.StatusOK, BoardTextResponse{Text: contrast.FormatBoard(&board)})
}

// BoardArray handles GET /api/game/{id}/board_array.
func (h *Handlers) BoardArray(w http.ResponseWriter, r *http.Request) {
	g, ok := h.gameOr404(w, r)
	if !ok {
		return
	}
	g.mu.Lock()
	state := g.state
	g.mu.Unlock()
	writeJSON(w, http.StatusOK, BoardArrayResponse{Array: contrast.Encode(&state)})
}
