// Package realtime maps authenticated users to live socket handles and pushes
// domain events to them. Nothing here is persisted; a process restart clears
// all state and clients re-register on reconnect.
package realtime

import (
	"context"
	"sync"
)

// Handle is a live push transport for one socket connection
type Handle interface {
	// Send pushes a serialized event payload to the peer
	Send(ctx context.Context, payload []byte) error
	// Close tears the connection down
	Close() error
}

// Registry is a concurrent-safe mapping from user identity to live handles.
// A user may hold several handles at once (multiple tabs or devices).
type Registry struct {
	mu    sync.RWMutex
	conns map[uint64]map[Handle]struct{}
}

// NewRegistry creates new Registry instance
func NewRegistry() *Registry {
	return &Registry{
		conns: make(map[uint64]map[Handle]struct{}),
	}
}

// Register adds a handle for the user
func (r *Registry) Register(userID uint64, h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	handles, ok := r.conns[userID]
	if !ok {
		handles = make(map[Handle]struct{})
		r.conns[userID] = handles
	}
	handles[h] = struct{}{}
}

// Unregister removes a handle for the user. Unknown handles are ignored.
func (r *Registry) Unregister(userID uint64, h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	handles, ok := r.conns[userID]
	if !ok {
		return
	}
	delete(handles, h)
	if len(handles) == 0 {
		delete(r.conns, userID)
	}
}

// HandlesFor returns a snapshot of the user's live handles, empty if offline.
// Broadcast iterates the snapshot so a concurrent unregister never invalidates
// the iteration.
func (r *Registry) HandlesFor(userID uint64) []Handle {
	r.mu.RLock()
	defer r.mu.RUnlock()

	handles := make([]Handle, 0, len(r.conns[userID]))
	for h := range r.conns[userID] {
		handles = append(handles, h)
	}
	return handles
}

// Snapshot returns a copy of every live handle keyed by user
func (r *Registry) Snapshot() map[uint64][]Handle {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make(map[uint64][]Handle, len(r.conns))
	for userID, handles := range r.conns {
		hs := make([]Handle, 0, len(handles))
		for h := range handles {
			hs = append(hs, h)
		}
		all[userID] = hs
	}
	return all
}

// Count returns the number of live handles for the user
func (r *Registry) Count(userID uint64) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.conns[userID])
}
