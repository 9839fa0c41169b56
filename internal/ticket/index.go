package ticket

import (
	"sync"

	"github.com/storedesk/ticketbot/internal/model"
	"github.com/storedesk/ticketbot/internal/platform"
)

// State is the explicit lifecycle state held per ticket channel. It
// replaces re-deriving open/closed from the live permission table.
type State struct {
	OwnerID    string
	CategoryID string
	Status     model.TicketStatus
}

// Index maps channel id to ticket state. Safe for concurrent use.
type Index struct {
	mu        sync.RWMutex
	byChannel map[string]State
}

func NewIndex() *Index {
	return &Index{byChannel: make(map[string]State)}
}

func (ix *Index) Put(channelID string, st State) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.byChannel[channelID] = st
}

func (ix *Index) Get(channelID string) (State, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	st, ok := ix.byChannel[channelID]
	return st, ok
}

// SetStatus updates the status of a known channel; unknown channels are
// ignored (state for them is recovered lazily from the descriptor).
func (ix *Index) SetStatus(channelID string, status model.TicketStatus) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if st, ok := ix.byChannel[channelID]; ok {
		st.Status = status
		ix.byChannel[channelID] = st
	}
}

func (ix *Index) Remove(channelID string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	delete(ix.byChannel, channelID)
}

// Rebuild repopulates the index from a channel scan. statuses carries
// previously persisted states (the DB mirror); channels absent from it
// default to open because a live ticket channel starts open.
func (ix *Index) Rebuild(channels []platform.ChannelRef, statuses map[string]model.TicketStatus) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.byChannel = make(map[string]State, len(channels))
	for _, ch := range channels {
		owner, cat, ok := ParseTag(ch.Descriptor)
		if !ok {
			continue
		}
		status := model.TicketStatusOpen
		if s, found := statuses[ch.ID]; found {
			status = s
		}
		ix.byChannel[ch.ID] = State{OwnerID: owner, CategoryID: cat, Status: status}
	}
}

// pairLocks serializes provisioning per (owner, category) key so two
// in-process requests for the same pair cannot both pass the duplicate
// guard. A second process still races; that window is documented in the
// engine tests.
type pairLocks struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

func newPairLocks() *pairLocks {
	return &pairLocks{m: make(map[string]*sync.Mutex)}
}

func (l *pairLocks) lock(key string) (unlock func()) {
	l.mu.Lock()
	mu, ok := l.m[key]
	if !ok {
		mu = &sync.Mutex{}
		l.m[key] = mu
	}
	l.mu.Unlock()
	mu.Lock()
	return mu.Unlock
}
