package session

import (
	"context"
	"sync"
	"time"

	"salesbot-service/internal/util"

	"go.uber.org/zap"
)

// Store is the in-memory session store. Sessions are created lazily on
// first message and reclaimed by a background sweep once inactive
// longer than the TTL. Nothing here is durable: a restart loses all
// sessions, which is acceptable for a chat widget.
type Store struct {
	mu         sync.RWMutex
	sessions   map[string]*Session
	historyCap int
	ttl        time.Duration
	logger     *zap.Logger
}

// NewStore creates a new session store
func NewStore(historyCap int, ttl time.Duration, logger *zap.Logger) *Store {
	return &Store{
		sessions:   make(map[string]*Session),
		historyCap: historyCap,
		ttl:        ttl,
		logger:     logger,
	}
}

// Get returns the session for an id, creating it on first use
func (st *Store) Get(id string) *Session {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if ok {
		return s
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if s, ok = st.sessions[id]; ok {
		return s
	}

	s = newSession(id, st.historyCap)
	st.sessions[id] = s
	util.SessionsActive.Set(float64(len(st.sessions)))

	st.logger.Info("Session created", zap.String("session_id", id))
	return s
}

// Peek returns the session for an id without creating one
func (st *Store) Peek(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	return s, ok
}

// Len returns the number of live sessions
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// StartSweep runs the inactivity sweep until the context is cancelled
func (st *Store) StartSweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st.sweep()
		}
	}
}

// sweep evicts sessions idle longer than the TTL. A session whose lock
// is held is mid-request and is skipped until the next pass.
func (st *Store) sweep() {
	cutoff := time.Now().Add(-st.ttl)

	st.mu.Lock()
	defer st.mu.Unlock()

	swept := 0
	for id, s := range st.sessions {
		if !s.TryLock() {
			continue
		}
		idle := s.LastActivity.Before(cutoff)
		s.Unlock()

		if idle {
			delete(st.sessions, id)
			swept++
		}
	}

	if swept > 0 {
		util.SessionsSweptTotal.Add(float64(swept))
		st.logger.Info("Session sweep completed",
			zap.Int("swept", swept),
			zap.Int("remaining", len(st.sessions)))
	}
	util.SessionsActive.Set(float64(len(st.sessions)))
}
