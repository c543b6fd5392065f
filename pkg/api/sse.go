package api

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/cwfinch/contrast/internal/ntuple"
	"github.com/cwfinch/contrast/pkg/contrast"
	"github.com/cwfinch/contrast/pkg/mcts"
)

// SSEProgressEvent mirrors mcts.Progress for the wire, plus a
// human-readable best-move literal.
type SSEProgressEvent struct {
	Iterations int    `json:"iterations"`
	ElapsedMS  int64  `json:"elapsed_ms"`
	BestMove   string `json:"best_move,omitempty"`
}

// AIMoveSSE handles Server-Sent Events for streaming MCTS search
// progress on a single ai_move request.
// GET /api/game/{id}/ai_move/stream?budget_ms=1000
func (h *Handlers) AIMoveSSE(w http.ResponseWriter, r *http.Request) {
	g, ok := h.gameOr404(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	flusher, isFlusher := w.(http.Flusher)
	if !isFlusher {
		writeSSEError(w, "streaming not supported")
		return
	}

	budget := time.Duration(parseIntParam(r.URL.Query().Get("budget_ms"), 1000)) * time.Millisecond

	if h.pool != nil {
		if err := h.pool.AcquireSlow(r.Context()); err != nil {
			writeSSEError(w, "server busy")
			flusher.Flush()
			return
		}
		defer h.pool.ReleaseSlow()
	}

	g.mu.Lock()
	state := g.state
	g.mu.Unlock()

	net := h.network
	if net == nil {
		net = ntuple.NewNetwork()
	}
	search := mcts.New(net)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	report := func(p mcts.Progress) {
		ev := SSEProgressEvent{Iterations: p.Iterations, ElapsedMS: p.Elapsed.Milliseconds()}
		if p.HasBest {
			ev.BestMove = contrast.FormatMove(p.BestMove)
		}
		writeSSEEvent(w, "progress", ev)
		flusher.Flush()
	}

	m, ok := search.SearchDurationWithProgress(&state, budget, 100*time.Millisecond, rng, report)
	if !ok {
		writeSSEError(w, "no legal moves")
		flusher.Flush()
		return
	}

	if err := g.applyMove(m); err != nil {
		writeSSEError(w, err.Error())
		flusher.Flush()
		return
	}

	resp := g.snapshot()
	writeSSEEvent(w, "result", resp)
	flusher.Flush()
	broadcastGame(g.id, resp)

	writeSSEEvent(w, "done", nil)
	flusher.Flush()
}

func writeSSEEvent(w http.ResponseWriter, event string, data interface{}) {
	fmt.Fprintf(w, "event: %s\n", event)
	if data != nil {
		jsonData, _ := json.Marshal(data)
		fmt.Fprintf(w, "data: %s\n", jsonData)
	}
	fmt.Fprintf(w, "\n")
}

func writeSSEError(w http.ResponseWriter, message string) {
	writeSSEEvent(w, "error", ErrorResponse{Error: message})
}

func parseIntParam(s string, defaultVal int) int {
	if s == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return val
}
