package session

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	log "github.com/sirupsen/logrus"
)

// CSRFCookie is the reserved cookie the origin uses to deliver the per-session
// CSRF secret. Its value must be echoed back in the X-CSRF-Token header on
// mutating calls.
const CSRFCookie = "csrftoken"

// Backend persists the raw cookie record between runs.
type Backend interface {
	Read() ([]byte, error)
	Write(data []byte) error
}

// Store holds the cookies of one logical session. It is created empty or
// loaded from its backend, mutated on every response that carries Set-Cookie,
// and explicitly persisted after a successful login. Expiry is the origin's
// concern; cookies are never expired locally.
type Store struct {
	mu      sync.RWMutex
	cookies map[string]string
	backend Backend
}

// NewStore builds a store and loads any persisted cookies from backend.
// A nil backend yields a purely in-memory session.
func NewStore(backend Backend) *Store {
	s := &Store{
		cookies: make(map[string]string),
		backend: backend,
	}
	s.Load()
	return s
}

// Load replaces the in-memory cookies with the persisted record. Missing or
// corrupt input silently yields an empty session; a stale cookie file must
// never prevent the client from starting.
func (s *Store) Load() {
	if s.backend == nil {
		return
	}
	data, err := s.backend.Read()
	if err != nil || len(data) == 0 {
		if err != nil {
			log.Debugf("no persisted session: %v", err)
		}
		return
	}
	var cookies map[string]string
	if err := json.Unmarshal(data, &cookies); err != nil {
		log.Warnf("ignoring corrupt session record: %v", err)
		return
	}
	s.mu.Lock()
	s.cookies = cookies
	s.mu.Unlock()
}

// Save writes the current cookie record to the backend.
func (s *Store) Save() error {
	if s.backend == nil {
		return nil
	}
	s.mu.RLock()
	data, err := json.Marshal(s.cookies)
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to serialize session: %w", err)
	}
	if err := s.backend.Write(data); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

// Merge records one cookie, overwriting any previous value.
func (s *Store) Merge(name, value string) {
	s.mu.Lock()
	s.cookies[name] = value
	s.mu.Unlock()
}

// CSRFToken returns the current CSRF secret, or "" when the session holds
// none. Absence is not an error at this layer; the origin rejects unprotected
// mutations itself.
func (s *Store) CSRFToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cookies[CSRFCookie]
}

// HTTPCookies renders the session as request cookies.
func (s *Store) HTTPCookies() []*http.Cookie {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*http.Cookie, 0, len(s.cookies))
	for name, value := range s.cookies {
		out = append(out, &http.Cookie{Name: name, Value: value})
	}
	return out
}

// Len reports how many cookies the session currently holds.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cookies)
}
