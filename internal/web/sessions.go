package web

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"student-enrollment/internal/common/metrics"
	"student-enrollment/internal/enrollment"
)

const SessionCookie = "enroll_session"

// SessionFactory builds a fresh wizard session for id.
type SessionFactory func(id string) *enrollment.Session

type sessionEntry struct {
	session  *enrollment.Session
	lastSeen time.Time
}

// Registry keeps one enrollment session per browser, keyed by cookie.
// Sessions idle longer than ttl are dropped by Sweep.
type Registry struct {
	mu         sync.Mutex
	sessions   map[string]*sessionEntry
	ttl        time.Duration
	secure     bool
	newSession SessionFactory
	now        func() time.Time
}

func NewRegistry(ttl time.Duration, secureCookies bool, factory SessionFactory) *Registry {
	return &Registry{
		sessions:   make(map[string]*sessionEntry),
		ttl:        ttl,
		secure:     secureCookies,
		newSession: factory,
		now:        time.Now,
	}
}

// Lookup returns the live session named by the request cookie.
func (r *Registry) Lookup(req *http.Request) (*enrollment.Session, bool) {
	c, err := req.Cookie(SessionCookie)
	if err != nil || c.Value == "" {
		return nil, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[c.Value]
	if !ok || r.expired(e) {
		return nil, false
	}
	e.lastSeen = r.now()
	return e.session, true
}

// Acquire returns the request's session, starting a new one (and setting
// the cookie) when there is none.
func (r *Registry) Acquire(w http.ResponseWriter, req *http.Request) *enrollment.Session {
	if s, ok := r.Lookup(req); ok {
		return s
	}

	id := uuid.NewString()
	s := r.newSession(id)

	r.mu.Lock()
	r.sessions[id] = &sessionEntry{session: s, lastSeen: r.now()}
	metrics.ActiveSessions.Set(float64(len(r.sessions)))
	r.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return s
}

func (r *Registry) expired(e *sessionEntry) bool {
	return r.ttl > 0 && r.now().Sub(e.lastSeen) > r.ttl
}

// Sweep drops idle sessions and returns how many were removed.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, e := range r.sessions {
		if r.expired(e) {
			delete(r.sessions, id)
			removed++
		}
	}
	metrics.ActiveSessions.Set(float64(len(r.sessions)))
	return removed
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
