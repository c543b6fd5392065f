package ntuple

import (
	"sync"

	"github.com/cwfinch/contrast/pkg/contrast"
)

// Handle is a mutex-guarded Network shared between self-play workers
// and the updater goroutine. Evaluate and TDUpdate both acquire the
// lock; a coarse mutex is sufficient since all that's required is
// that a single Evaluate call not observe a torn write, not any
// stronger cross-call ordering.
type Handle struct {
	mu  sync.Mutex
	net *Network
}

// NewHandle wraps net for concurrent access.
func NewHandle(net *Network) *Handle {
	return &Handle{net: net}
}

// Evaluate acquires the lock and evaluates state.
func (h *Handle) Evaluate(state *contrast.GameState) float32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.net.Evaluate(state)
}

// TDUpdate acquires the lock and applies one TD(0) update.
func (h *Handle) TDUpdate(state *contrast.GameState, target, lr float32) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.net.TDUpdate(state, target, lr)
}

// Snapshot returns a value-copy of the underlying network, taken
// under the lock, suitable for use as an opponent snapshot.
func (h *Handle) Snapshot() *Network {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.net.Clone()
}
