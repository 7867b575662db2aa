package realtime

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// nopHandle is non-zero-sized so each &nopHandle{} is a distinct allocation;
// zero-sized allocations share one address and would collapse to one map key.
type nopHandle struct{ _ byte }

func (nopHandle) Send(ctx context.Context, payload []byte) error { return nil }
func (nopHandle) Close() error                                   { return nil }

func TestRegistryMultipleHandlesPerUser(t *testing.T) {
	r := NewRegistry()

	h1 := &nopHandle{}
	h2 := &nopHandle{}

	r.Register(1, h1)
	r.Register(1, h2)

	assert.Equal(t, 2, r.Count(1))
	assert.Len(t, r.HandlesFor(1), 2)

	r.Unregister(1, h1)
	assert.Equal(t, 1, r.Count(1))

	r.Unregister(1, h2)
	assert.Equal(t, 0, r.Count(1))
	assert.Empty(t, r.HandlesFor(1))
}

func TestRegistryUnregisterUnknownHandle(t *testing.T) {
	r := NewRegistry()

	// must not panic
	r.Unregister(1, &nopHandle{})
	assert.Equal(t, 0, r.Count(1))
}

func TestRegistrySnapshotIsACopy(t *testing.T) {
	r := NewRegistry()

	h := &nopHandle{}
	r.Register(1, h)

	snapshot := r.HandlesFor(1)
	r.Unregister(1, h)

	// the earlier snapshot is unaffected by the unregister
	assert.Len(t, snapshot, 1)
	assert.Empty(t, r.HandlesFor(1))
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewRegistry()

	const users = 8
	const handlesPerUser = 25

	var wg sync.WaitGroup
	for userID := uint64(1); userID <= users; userID++ {
		for i := 0; i < handlesPerUser; i++ {
			wg.Add(1)
			go func(userID uint64) {
				defer wg.Done()

				h := &nopHandle{}
				r.Register(userID, h)
				_ = r.HandlesFor(userID)
				r.Unregister(userID, h)
			}(userID)
		}
	}
	wg.Wait()

	for userID := uint64(1); userID <= users; userID++ {
		assert.Equal(t, 0, r.Count(userID))
	}
}
