package server

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/utils"

	lekka "github.com/NandanaMD/labourlekka-web"
)

// sessionCookie carries the viewer session id.
const sessionCookie = "lekka_viewer"

// sessionTTL is how long an idle viewer session is kept.
const sessionTTL = 30 * time.Minute

// maxSessions bounds live viewer sessions. The least recently seen one is
// evicted to make room.
const maxSessions = 1024

// session is one visitor's policy viewer.
type session struct {
	id       string
	viewer   *lekka.Viewer
	lastSeen time.Time
}

// sessionStore maps cookie ids to viewer sessions.
// Safe for concurrent use.
type sessionStore struct {
	newViewer func() *lekka.Viewer
	now       func() time.Time
	ttl       time.Duration
	limit     int

	mu       sync.Mutex
	sessions map[string]*session
}

func newSessionStore(newViewer func() *lekka.Viewer) *sessionStore {
	return &sessionStore{
		newViewer: newViewer,
		now:       time.Now,
		ttl:       sessionTTL,
		limit:     maxSessions,
		sessions:  make(map[string]*session),
	}
}

// get returns the session for id, creating one with a fresh id when id is
// empty or unknown. created reports whether a new session was made.
func (s *sessionStore) get(id string) (sess *session, created bool) {
	s.mu.Lock()
	if sess, ok := s.sessions[id]; ok && id != "" {
		sess.lastSeen = s.now()
		s.mu.Unlock()
		return sess, false
	}

	var evicted *session
	if s.limit > 0 && len(s.sessions) >= s.limit {
		evicted = s.oldestLocked()
		delete(s.sessions, evicted.id)
	}
	sess = &session{
		id:       utils.UUIDv4(),
		viewer:   s.newViewer(),
		lastSeen: s.now(),
	}
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	if evicted != nil {
		evicted.viewer.Close()
	}
	return sess, true
}

// oldestLocked returns the least recently seen session. s.mu must be held
// and the store must not be empty.
func (s *sessionStore) oldestLocked() *session {
	var oldest *session
	for _, sess := range s.sessions {
		if oldest == nil || sess.lastSeen.Before(oldest.lastSeen) {
			oldest = sess
		}
	}
	return oldest
}

// lookup returns the session for id without creating one.
func (s *sessionStore) lookup(id string) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if ok {
		sess.lastSeen = s.now()
	}
	return sess, ok
}

// remove closes and forgets the session for id.
func (s *sessionStore) remove(id string) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if ok {
		sess.viewer.Close()
	}
}

// expire closes sessions idle for longer than the TTL and returns how many
// were removed.
func (s *sessionStore) expire() int {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	var stale []*session
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			stale = append(stale, sess)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range stale {
		sess.viewer.Close()
	}
	return len(stale)
}

func (s *sessionStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// sweep expires idle sessions every interval until ctx is done.
func (s *sessionStore) sweep(ctx context.Context, interval time.Duration, onExpire func(n int)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.expire(); n > 0 && onExpire != nil {
				onExpire(n)
			}
		}
	}
}
