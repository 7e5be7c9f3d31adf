package matchservice

import (
	"sort"
	"sync"

	matchdomain "github.com/Black-And-White-Club/volley-analyst/app/modules/match/domain"
)

// session owns one match. mu serializes every command on it; closed is set
// under mu once the session has left the registry.
type session struct {
	mu     sync.Mutex
	match  *matchdomain.Match
	closed bool
}

// registry maps match ids to sessions. Its lock only guards the map.
type registry struct {
	mu       sync.RWMutex
	sessions map[string]*session
}

func newRegistry() *registry {
	return &registry{sessions: make(map[string]*session)}
}

func (r *registry) add(m *matchdomain.Match) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[m.ID()] = &session{match: m}
	return len(r.sessions)
}

func (r *registry) get(id string) (*session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

func (r *registry) ids() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// remove drops id, marks its session closed and returns how many sessions
// remain. The caller holds the session's lock.
func (r *registry) remove(id string) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.sessions[id]
	if !ok {
		return len(r.sessions), false
	}
	sess.closed = true
	delete(r.sessions, id)
	return len(r.sessions), true
}
