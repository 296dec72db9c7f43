// Package supersede enforces a last-request-wins policy for refetches.
// When the dashboard re-filters while a fetch is still in flight, the older
// fetch is cancelled and, even if its response arrives anyway, its result is
// discarded instead of overwriting newer state.
package supersede

import (
	"context"
	"sync"
)

// Token identifies one fetch attempt for a key.
type Token struct {
	key string
	gen uint64
}

// Guard hands out per-key fetch tokens. Beginning a new fetch for a key
// cancels the context of the previous one and invalidates its token.
type Guard struct {
	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	gen    uint64
	cancel context.CancelFunc
}

func NewGuard() *Guard {
	return &Guard{entries: make(map[string]*entry)}
}

// Begin registers a new fetch for key. The returned context is cancelled as
// soon as a newer fetch for the same key begins (or Cancel is called).
func (g *Guard) Begin(ctx context.Context, key string) (context.Context, Token) {
	g.mu.Lock()
	defer g.mu.Unlock()

	e, ok := g.entries[key]
	if !ok {
		e = &entry{}
		g.entries[key] = e
	}
	if e.cancel != nil {
		e.cancel()
	}
	e.gen++

	fetchCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	return fetchCtx, Token{key: key, gen: e.gen}
}

// Commit runs apply only if tok still belongs to the newest fetch for its
// key. It reports whether apply ran.
func (g *Guard) Commit(tok Token, apply func()) bool {
	g.mu.Lock()
	e, ok := g.entries[tok.key]
	if !ok || e.gen != tok.gen {
		g.mu.Unlock()
		return false
	}
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	g.mu.Unlock()

	apply()
	return true
}

// Cancel aborts the in-flight fetch for key, if any, without starting a
// replacement. Used on teardown.
func (g *Guard) Cancel(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if e, ok := g.entries[key]; ok {
		if e.cancel != nil {
			e.cancel()
			e.cancel = nil
		}
		e.gen++
	}
}
