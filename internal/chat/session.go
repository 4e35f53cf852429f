package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"quotebot/internal/model"
)

const (
	sessionTTL       = 30 * time.Minute
	sessionKeyPrefix = "chat:state:"
)

// StateStore guarda o ConversationState de cada sessão (uma por widget montado).
type StateStore interface {
	Get(ctx context.Context, sessionID string) (model.ConversationState, bool, error)
	Save(ctx context.Context, sessionID string, st model.ConversationState) error
}

// RedisStore guarda o estado como JSON com TTL renovado a cada turno.
type RedisStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (model.ConversationState, bool, error) {
	val, err := s.Client.Get(ctx, sessionKeyPrefix+sessionID).Result()
	if errors.Is(err, redis.Nil) {
		return model.ConversationState{}, false, nil
	}
	if err != nil {
		return model.ConversationState{}, false, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}

	var st model.ConversationState
	if err := json.Unmarshal([]byte(val), &st); err != nil {
		// estado corrompido: começa uma conversa nova
		return model.ConversationState{}, false, nil
	}
	return st.Normalize(), true, nil
}

func (s *RedisStore) Save(ctx context.Context, sessionID string, st model.ConversationState) error {
	b, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return s.Client.Set(ctx, sessionKeyPrefix+sessionID, b, s.ttl()).Err()
}

func (s *RedisStore) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return sessionTTL
}

// MemoryStore é usado quando não há redis configurado e nos testes.
type MemoryStore struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	states map[string]memoryEntry
}

type memoryEntry struct {
	state   model.ConversationState
	expires time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = sessionTTL
	}
	return &MemoryStore{ttl: ttl, now: time.Now, states: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) (model.ConversationState, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.states[sessionID]
	if !ok {
		return model.ConversationState{}, false, nil
	}
	if s.now().After(e.expires) {
		delete(s.states, sessionID)
		return model.ConversationState{}, false, nil
	}
	return e.state, true, nil
}

func (s *MemoryStore) Save(_ context.Context, sessionID string, st model.ConversationState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	// limpa sessões expiradas de vez em quando
	for id, e := range s.states {
		if now.After(e.expires) {
			delete(s.states, id)
		}
	}
	s.states[sessionID] = memoryEntry{state: st, expires: now.Add(s.ttl)}
	return nil
}

// sessionLocks serializa os turnos de uma mesma sessão: um segundo pedido espera o
// turno anterior terminar, incluindo as chamadas remotas.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[string]*sessionLock)}
}

func (l *sessionLocks) Lock(sessionID string) (unlock func()) {
	l.mu.Lock()
	sl, ok := l.locks[sessionID]
	if !ok {
		sl = &sessionLock{}
		l.locks[sessionID] = sl
	}
	sl.refs++
	l.mu.Unlock()

	sl.mu.Lock()
	return func() {
		sl.mu.Unlock()
		l.mu.Lock()
		sl.refs--
		if sl.refs == 0 {
			delete(l.locks, sessionID)
		}
		l.mu.Unlock()
	}
}
