package session

import (
	"context"
	"sync"
	"time"

	"github.com/flowshift/quoter/common/aggregation"
	"github.com/flowshift/quoter/common/logger"
	"github.com/google/uuid"
)

// MemoryStore is an in-process session store for single-instance deployments
// and tests. Sessions expire after ttl without activity.
type MemoryStore struct {
	data map[string]*entry
	mu   sync.Mutex
	ttl  time.Duration
	log  *logger.Logger
	now  func() time.Time
	stop chan struct{}
	once sync.Once
}

type entry struct {
	session   *Session
	expiresAt time.Time
}

// NewMemoryStore creates a memory store and starts its cleanup loop
func NewMemoryStore(ttl time.Duration, log *logger.Logger) *MemoryStore {
	s := &MemoryStore{
		data: make(map[string]*entry),
		ttl:  ttl,
		log:  log,
		now:  time.Now,
		stop: make(chan struct{}),
	}

	go s.cleanup(time.Minute)

	return s
}

// Create starts a new empty session
func (s *MemoryStore) Create(ctx context.Context) (*Session, error) {
	now := s.now()
	sess := &Session{
		ID:        uuid.New().String(),
		State:     aggregation.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[sess.ID] = &entry{session: sess, expiresAt: now.Add(s.ttl)}
	s.log.Debug("session created", "session_id", sess.ID)

	return sess.clone(), nil
}

// Get returns a copy of the session
func (s *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	e.expiresAt = s.now().Add(s.ttl)
	return e.session.clone(), nil
}

// Update applies fn to a copy of the state and stores it only if fn succeeds
func (s *MemoryStore) Update(ctx context.Context, id string, fn func(*aggregation.State) error) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	next := e.session.clone()
	if err := fn(next.State); err != nil {
		return nil, err
	}

	now := s.now()
	next.UpdatedAt = now
	e.session = next
	e.expiresAt = now.Add(s.ttl)

	return next.clone(), nil
}

// Delete removes the session
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.lookup(id); err != nil {
		return err
	}
	delete(s.data, id)
	s.log.Debug("session deleted", "session_id", id)
	return nil
}

// Close stops the cleanup loop and drops every session
func (s *MemoryStore) Close() error {
	s.once.Do(func() { close(s.stop) })

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = make(map[string]*entry)
	s.log.Info("memory session store closed")
	return nil
}

// Len returns the number of live sessions
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

// lookup must be called with mu held
func (s *MemoryStore) lookup(id string) (*entry, error) {
	e, ok := s.data[id]
	if !ok {
		return nil, ErrNotFound
	}
	if s.now().After(e.expiresAt) {
		delete(s.data, id)
		return nil, ErrNotFound
	}
	return e, nil
}

// cleanup removes expired sessions periodically
func (s *MemoryStore) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.evictExpired()
		}
	}
}

func (s *MemoryStore) evictExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	evicted := 0
	for id, e := range s.data {
		if now.After(e.expiresAt) {
			delete(s.data, id)
			evicted++
		}
	}
	if evicted > 0 {
		s.log.Debug("expired sessions evicted", "count", evicted)
	}
}
