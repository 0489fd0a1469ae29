package notify

import (
	"context"
	"sync"

	"github.com/sayonika/sayonika-tui/pkg/client"
)

// Engine mediates between the Store and the Sayonika API. Reads that fail
// leave the store at its last-known-good state; mutations touch the store
// only after the server confirmed them.
//
// Concurrent full-list fetches are sequenced with a generation counter: a
// response that resolves after a newer one has already been applied is
// dropped instead of clobbering fresher data. Count-only fetches bypass the
// store entirely, so they never regress per-record read flags.
type Engine struct {
	client *client.Client
	store  *Store

	mu      sync.Mutex
	gen     uint64 // issued to outgoing full-list fetches
	applied uint64 // generation of the newest applied response
	closed  bool
}

// NewEngine creates a sync engine writing into store.
func NewEngine(c *client.Client, store *Store) *Engine {
	return &Engine{client: c, store: store}
}

// Store returns the store this engine writes into.
func (e *Engine) Store() *Store {
	return e.store
}

// Close marks the engine torn down. Responses that arrive afterwards are
// discarded. Safe to call more than once.
func (e *Engine) Close() {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
}

// FetchAll fetches the full notification list and replaces the store
// contents. On failure the store is untouched and the error is returned
// for the caller to render as a recoverable state.
func (e *Engine) FetchAll(ctx context.Context) error {
	e.mu.Lock()
	e.gen++
	gen := e.gen
	e.mu.Unlock()

	list, err := e.client.Notifications(ctx)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || gen <= e.applied {
		// A newer snapshot already landed, or the session is gone.
		return nil
	}
	e.applied = gen
	e.store.ReplaceAll(list)
	return nil
}

// FetchUnreadCount fetches only the unread count. The store is not
// touched; the caller feeds the count straight to the badge.
func (e *Engine) FetchUnreadCount(ctx context.Context) (int, error) {
	return e.client.UnreadNotificationCount(ctx)
}

// MarkRead marks one notification read server-side, then mirrors the
// change locally. No automatic retry on failure.
func (e *Engine) MarkRead(ctx context.Context, id int64) error {
	if err := e.client.MarkNotificationRead(ctx, id); err != nil {
		return err
	}
	if e.active() {
		e.store.MarkRead(id)
	}
	return nil
}

// MarkAllRead marks every notification read server-side, then locally.
func (e *Engine) MarkAllRead(ctx context.Context) error {
	if err := e.client.MarkAllNotificationsRead(ctx); err != nil {
		return err
	}
	if e.active() {
		e.store.MarkAllRead()
	}
	return nil
}

// Delete removes one notification server-side, then locally.
func (e *Engine) Delete(ctx context.Context, id int64) error {
	if err := e.client.DeleteNotification(ctx, id); err != nil {
		return err
	}
	if e.active() {
		e.store.Remove(id)
	}
	return nil
}

func (e *Engine) active() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.closed
}
