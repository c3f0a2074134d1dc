package controller

import (
	"sync"

	"github.com/Goofygiraffe06/authform/internal/form"
	"github.com/Goofygiraffe06/authform/internal/logging"
	"github.com/Goofygiraffe06/authform/internal/utils"
)

// SettleRegistry wakes long-polls waiting on a page view's submission.
// Any number of waiters may be parked on one page; Notify releases all of
// them with the settled state.
type SettleRegistry struct {
	mu      sync.Mutex
	waiters map[string]map[uint64]chan form.State
	next    uint64
}

func NewSettleRegistry() *SettleRegistry {
	return &SettleRegistry{
		waiters: make(map[string]map[uint64]chan form.State),
	}
}

// Register parks a waiter on pageID. The returned release func must be
// called once the caller stops waiting; it is safe to call after Notify.
func (sr *SettleRegistry) Register(pageID string) (<-chan form.State, func()) {
	sr.mu.Lock()
	defer sr.mu.Unlock()

	// buffered so Notify never blocks on a waiter that already gave up
	ch := make(chan form.State, 1)
	sr.next++
	id := sr.next
	set, ok := sr.waiters[pageID]
	if !ok {
		set = make(map[uint64]chan form.State)
		sr.waiters[pageID] = set
	}
	set[id] = ch

	logging.DebugLog("Interrupt: registered waiter %d for page [%s]", id, utils.ShortID(pageID))
	return ch, func() { sr.release(pageID, id) }
}

func (sr *SettleRegistry) release(pageID string, id uint64) {
	sr.mu.Lock()
	defer sr.mu.Unlock()

	set, ok := sr.waiters[pageID]
	if !ok {
		return
	}
	delete(set, id)
	if len(set) == 0 {
		delete(sr.waiters, pageID)
	}
}

// Notify hands state to every waiter on pageID and forgets them. A notify
// with nobody waiting is dropped; later waiters do not see it.
func (sr *SettleRegistry) Notify(pageID string, state form.State) {
	sr.mu.Lock()
	set := sr.waiters[pageID]
	delete(sr.waiters, pageID)
	sr.mu.Unlock()

	if len(set) == 0 {
		logging.DebugLog("Interrupt: page [%s] settled as %s with no waiters", utils.ShortID(pageID), state)
		return
	}

	for _, ch := range set {
		select {
		case ch <- state:
		default:
		}
	}
	logging.DebugLog("Interrupt: page [%s] settled as %s, woke %d waiters", utils.ShortID(pageID), state, len(set))
}

// Delete drops every waiter on pageID, closing their channels so they
// return immediately. Used when a page view is evicted.
func (sr *SettleRegistry) Delete(pageID string) {
	sr.mu.Lock()
	set := sr.waiters[pageID]
	delete(sr.waiters, pageID)
	sr.mu.Unlock()

	for _, ch := range set {
		close(ch)
	}
	if len(set) > 0 {
		logging.DebugLog("Interrupt: cleaned up %d waiters for page [%s]", len(set), utils.ShortID(pageID))
	}
}

// Count returns the number of parked waiters across all pages.
func (sr *SettleRegistry) Count() int {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	n := 0
	for _, set := range sr.waiters {
		n += len(set)
	}
	return n
}
