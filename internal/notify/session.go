package notify

import "sync"

// SessionStore keeps the read and dismissed notification ids of each owner
// for the life of the process. Ids carry their period key, so an entry
// stops matching once the period rolls over.
type SessionStore struct {
	mu        sync.RWMutex
	read      map[string]map[string]struct{}
	dismissed map[string]map[string]struct{}
}

// NewSessionStore returns an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		read:      make(map[string]map[string]struct{}),
		dismissed: make(map[string]map[string]struct{}),
	}
}

// Dismissed returns a snapshot of the owner's dismissed ids.
func (s *SessionStore) Dismissed(owner string) map[string]struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.dismissed[owner])
}

// Read returns a snapshot of the owner's read ids.
func (s *SessionStore) Read(owner string) map[string]struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.read[owner])
}

// MarkRead flags ids as read for owner.
func (s *SessionStore) MarkRead(owner string, ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	add(s.read, owner, ids)
}

// Dismiss suppresses id for owner.
func (s *SessionStore) Dismiss(owner, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	add(s.dismissed, owner, []string{id})
}

// Retain drops the owner's read ids that are not in live. Dismissals are
// kept so a condition that clears and breaches again within the same
// period stays suppressed.
func (s *SessionStore) Retain(owner string, live map[string]struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.read[owner] {
		if _, ok := live[id]; !ok {
			delete(s.read[owner], id)
		}
	}
}

func add(m map[string]map[string]struct{}, owner string, ids []string) {
	set, ok := m[owner]
	if !ok {
		set = make(map[string]struct{}, len(ids))
		m[owner] = set
	}
	for _, id := range ids {
		set[id] = struct{}{}
	}
}

func clone(set map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(set))
	for id := range set {
		out[id] = struct{}{}
	}
	return out
}
