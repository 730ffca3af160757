package call

import (
	"sort"
	"sync"
	"time"

	"github.com/skillsenselab/callbridge/internal/errors"
	"github.com/skillsenselab/callbridge/internal/telephony"
)

// Registry is the in-memory session store. It is safe for concurrent use;
// one mutex serializes mutations so operations on the same session are
// linearizable.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	byAux    map[string]string // aux id -> call SID
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		byAux:    make(map[string]string),
	}
}

// Create registers a new session under the given call SID. An empty status
// falls back to initiated. Fails if the id is already present; ids are
// provider-assigned and must not collide while tracked.
func (r *Registry) Create(id, destination, auxID string, status telephony.CallStatus) (*Session, error) {
	if status == "" {
		status = telephony.StatusInitiated
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[id]; exists {
		return nil, errors.DuplicateSession(id)
	}

	s := &Session{
		ID:          id,
		Destination: destination,
		AuxID:       auxID,
		Status:      status,
		Active:      !status.Terminal(),
		StartedAt:   time.Now(),
	}
	if !s.Active {
		s.EndedAt = s.StartedAt
	}

	r.sessions[id] = s
	if auxID != "" {
		r.byAux[auxID] = id
	}
	return s.clone(), nil
}

// Get returns a snapshot of the session with the given call SID.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	return s.clone(), true
}

// Resolve looks a session up by call SID first and by aux id second.
// Webhooks may report against the conference sub-resource instead of the
// call itself.
func (r *Registry) Resolve(key string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if s, ok := r.sessions[key]; ok {
		return s.clone(), true
	}
	if id, ok := r.byAux[key]; ok {
		if s, ok := r.sessions[id]; ok {
			return s.clone(), true
		}
	}
	return nil, false
}

// SetStatus applies a lifecycle status to the session. Terminal state is
// sticky: once a session has ended, repeated or late transitions are
// accepted as no-ops. Returns whether the session changed.
func (r *Registry) SetStatus(id string, status telephony.CallStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return false, errors.SessionNotFound(id)
	}
	if !s.Active {
		return false, nil
	}
	if status == s.Status {
		return false, nil
	}

	s.Status = status
	if status.Terminal() {
		s.Active = false
		s.EndedAt = time.Now()
	}
	return true, nil
}

// End marks the session completed. Ending an already-ended session is a
// no-op, whatever terminal status it ended in.
func (r *Registry) End(id string) (bool, error) {
	return r.SetStatus(id, telephony.StatusCompleted)
}

// AppendTranscript appends a finalized far-party utterance. Appends to a
// session that already ended are rejected.
func (r *Registry) AppendTranscript(id, text string, ts time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return errors.SessionNotFound(id)
	}
	if !s.Active {
		return errors.SessionInactive(id)
	}
	s.Transcript = append(s.Transcript, TranscriptEntry{Text: text, ReceivedAt: ts})
	return nil
}

// AppendOutbound records a text spoken into the call with its send
// timestamp. Appends to a session that already ended are rejected.
func (r *Registry) AppendOutbound(id, text string, ts time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return errors.SessionNotFound(id)
	}
	if !s.Active {
		return errors.SessionInactive(id)
	}
	s.Outbound = append(s.Outbound, OutboundMessage{Text: text, SentAt: ts})
	return nil
}

// List returns a snapshot of every tracked session, oldest first.
func (r *Registry) List() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s.clone())
	}
	sortSessions(out)
	return out
}

// ListActive returns a snapshot of sessions that have not reached a
// terminal status, oldest first.
func (r *Registry) ListActive() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		if s.Active {
			out = append(out, s.clone())
		}
	}
	sortSessions(out)
	return out
}

// Count returns the number of tracked sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// ActiveCount returns the number of sessions still active.
func (r *Registry) ActiveCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, s := range r.sessions {
		if s.Active {
			n++
		}
	}
	return n
}

// evictExpired removes sessions whose terminal transition happened at
// least retain ago. Active sessions are never evicted. Returns the
// evicted call SIDs.
func (r *Registry) evictExpired(retain time.Duration, now time.Time) []string {
	if retain <= 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var evicted []string
	for id, s := range r.sessions {
		if s.Active || s.EndedAt.IsZero() {
			continue
		}
		if now.Sub(s.EndedAt) >= retain {
			delete(r.sessions, id)
			if s.AuxID != "" {
				delete(r.byAux, s.AuxID)
			}
			evicted = append(evicted, id)
		}
	}
	return evicted
}

func sortSessions(sessions []*Session) {
	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].StartedAt.Equal(sessions[j].StartedAt) {
			return sessions[i].ID < sessions[j].ID
		}
		return sessions[i].StartedAt.Before(sessions[j].StartedAt)
	})
}
