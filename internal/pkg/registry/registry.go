// Package registry implements the process-wide username -> Session map
// (spec.md §3 Registry): insertion is atomic and unique, removal is atomic
// with respect to lookups, and a snapshot of all names can be taken for
// LIST_RESP without holding the lock during the caller's use of it.
package registry

import (
	"sync"

	"risp-chat/internal/pkg/session"
)

// Registry is a concurrent-safe username -> *session.Session map.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*session.Session
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{sessions: make(map[string]*session.Session)}
}

// PutIfAbsent inserts sess under username iff no session is already
// registered under that name. Returns false on collision.
func (r *Registry) PutIfAbsent(username string, sess *session.Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.sessions[username]; exists {
		return false
	}
	r.sessions[username] = sess
	return true
}

// Get returns the session registered under username, if any.
func (r *Registry) Get(username string) (*session.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sess, ok := r.sessions[username]
	return sess, ok
}

// Remove deletes username from the registry, only if it still maps to
// sess (guards against removing a session that already lost a race to a
// newer login under the same name).
func (r *Registry) Remove(username string, sess *session.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if current, ok := r.sessions[username]; ok && current == sess {
		delete(r.sessions, username)
	}
}

// Snapshot returns every currently registered session, as of the instant
// the lock was held.
func (r *Registry) Snapshot() []*session.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*session.Session, 0, len(r.sessions))
	for _, sess := range r.sessions {
		out = append(out, sess)
	}
	return out
}

// Usernames returns a snapshot of every currently registered username.
func (r *Registry) Usernames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.sessions))
	for name := range r.sessions {
		out = append(out, name)
	}
	return out
}

// Each calls fn for every currently registered session, excluding
// exclude if non-nil (used for broadcast fan-out).
func (r *Registry) Each(exclude *session.Session, fn func(username string, sess *session.Session)) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for name, sess := range r.sessions {
		if sess == exclude {
			continue
		}
		fn(name, sess)
	}
}
