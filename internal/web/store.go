package web

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Veraticus/defect-triage/internal/model"
)

// SessionCookie names the cookie carrying the browser session id.
const SessionCookie = "triage_session"

// Store keeps the most recent result per browser session. Old sessions are
// evicted once capacity is reached.
type Store struct {
	cache *lru.Cache[string, *model.Result]
}

// NewStore creates a store holding at most capacity sessions.
func NewStore(capacity int) (*Store, error) {
	cache, err := lru.New[string, *model.Result](capacity)
	if err != nil {
		return nil, fmt.Errorf("failed to create session store: %w", err)
	}
	return &Store{cache: cache}, nil
}

// Get returns the result stored for a session.
func (s *Store) Get(session string) (*model.Result, bool) {
	if session == "" {
		return nil, false
	}
	return s.cache.Get(session)
}

// Put replaces the result stored for a session.
func (s *Store) Put(session string, result *model.Result) {
	s.cache.Add(session, result)
}

// Len returns the number of sessions held.
func (s *Store) Len() int {
	return s.cache.Len()
}

// sessionID returns the session id from the request cookie, if any.
func sessionID(r *http.Request) string {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return ""
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return ""
	}
	return c.Value
}

// ensureSession returns the request's session id, issuing a new one when absent.
func ensureSession(w http.ResponseWriter, r *http.Request) string {
	if id := sessionID(r); id != "" {
		return id
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
