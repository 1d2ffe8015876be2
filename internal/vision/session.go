package vision

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// session is the per-visitor view state. Fields are guarded by mu.
type session struct {
	mu          sync.Mutex
	id          string
	image       ImageSource
	predictions []Prediction
	// inflight counts running classifications so overlapping requests clear
	// the loading flag only when the last one finishes.
	inflight int
	// token increases on every upload; results carrying an older token are dropped.
	token   uint64
	lastErr string
}

// Sessions is an expiring in-memory session store. Every access slides the
// session's expiry forward.
type Sessions struct {
	c   *cache.Cache
	ttl time.Duration
}

// NewSessions builds a store whose entries expire after ttl of inactivity.
func NewSessions(ttl time.Duration) *Sessions {
	return &Sessions{c: cache.New(ttl, ttl), ttl: ttl}
}

// Get returns the session for id, refreshing its expiry.
func (s *Sessions) Get(id string) (*session, bool) {
	if id == "" {
		return nil, false
	}
	v, ok := s.c.Get(id)
	if !ok {
		return nil, false
	}
	sess := v.(*session)
	s.c.Set(id, sess, cache.DefaultExpiration)
	return sess, true
}

// Ensure returns the session for id, creating a fresh one (with a new id) when
// id is empty, unknown or expired.
func (s *Sessions) Ensure(id string) *session {
	if sess, ok := s.Get(id); ok {
		return sess
	}
	for {
		sess := &session{id: uuid.NewString()}
		if err := s.c.Add(sess.id, sess, cache.DefaultExpiration); err == nil {
			return sess
		}
	}
}

// Len reports the number of live sessions.
func (s *Sessions) Len() int { return s.c.ItemCount() }

// Flush drops every session.
func (s *Sessions) Flush() { s.c.Flush() }
