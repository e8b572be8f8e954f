// Package sessions tracks the gateway's live calls. The registry mints call
// IDs, enforces the per-gateway capacity cap, and lets shutdown cancel and
// wait on every call still in flight.
package sessions

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrCapacity is returned when the gateway already carries its maximum
// number of concurrent calls.
var ErrCapacity = errors.New("session capacity reached")

// Handle is what the registry can do to a live call from the outside.
type Handle struct {
	Cancel func()
}

// Registry tracks live call sessions. A zero max means unlimited.
type Registry struct {
	max int

	mu    sync.Mutex
	calls map[string]*trackedCall
	wg    sync.WaitGroup
}

type trackedCall struct {
	handle Handle
	once   sync.Once
}

func NewRegistry(maxSessions int) *Registry {
	return &Registry{
		max:   maxSessions,
		calls: make(map[string]*trackedCall),
	}
}

// Register mints a call ID and claims a slot. It fails with ErrCapacity when
// the gateway is full. The returned release func is idempotent.
func (r *Registry) Register(h Handle) (callID string, release func(), err error) {
	entry := &trackedCall{handle: h}
	callID = uuid.NewString()

	r.mu.Lock()
	if r.max > 0 && len(r.calls) >= r.max {
		r.mu.Unlock()
		return "", nil, ErrCapacity
	}
	r.calls[callID] = entry
	r.wg.Add(1)
	r.mu.Unlock()

	return callID, func() { r.release(callID, entry) }, nil
}

func (r *Registry) release(callID string, entry *trackedCall) {
	entry.once.Do(func() {
		r.mu.Lock()
		if r.calls[callID] == entry {
			delete(r.calls, callID)
		}
		r.mu.Unlock()
		r.wg.Done()
	})
}

// Count reports live calls.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

// CancelAll cancels every live call. Used on shutdown after the grace
// period expires.
func (r *Registry) CancelAll() (canceled int) {
	var cancels []func()
	r.mu.Lock()
	for _, entry := range r.calls {
		if entry.handle.Cancel != nil {
			cancels = append(cancels, entry.handle.Cancel)
		}
	}
	r.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
		canceled++
	}
	return canceled
}

// Wait blocks until every registered call has released or the context ends.
// It reports whether the registry fully drained.
func (r *Registry) Wait(ctx context.Context) bool {
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.wg.Wait()
	}()

	select {
	case <-done:
		return true
	case <-ctx.Done():
		return false
	}
}
