package session

import (
	"context"
	"errors"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"summaryplus/internal/models"
)

// MemoryStore keeps sessions in process memory with TTL eviction. Each
// session record carries its own mutex, so concurrent requests touching one
// session serialize their read-modify-write instead of racing on a shared
// map.
type MemoryStore struct {
	cache *gocache.Cache
	ttl   time.Duration
}

type memoryEntry struct {
	mu      sync.Mutex
	session *models.Session
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	cleanup := 10 * time.Minute
	if cleanup > ttl {
		cleanup = ttl
	}
	return &MemoryStore{
		cache: gocache.New(ttl, cleanup),
		ttl:   ttl,
	}
}

func (s *MemoryStore) GetOrCreate(_ context.Context, id string) (*models.Session, error) {
	if id != "" {
		if entry, ok := s.lookup(id); ok {
			entry.mu.Lock()
			snap := entry.session.Clone()
			entry.mu.Unlock()
			return snap, nil
		}
	}
	for i := 0; i < 5; i++ {
		newID, err := NewID()
		if err != nil {
			return nil, err
		}
		entry := &memoryEntry{session: models.NewSession(newID)}
		if err := s.cache.Add(newID, entry, gocache.DefaultExpiration); err == nil {
			return entry.session.Clone(), nil
		}
	}
	return nil, errors.New("could not mint session id")
}

func (s *MemoryStore) Get(_ context.Context, id string) (*models.Session, error) {
	entry, ok := s.lookup(id)
	if !ok {
		return nil, ErrNotFound
	}
	entry.mu.Lock()
	snap := entry.session.Clone()
	entry.mu.Unlock()
	return snap, nil
}

func (s *MemoryStore) AddFile(_ context.Context, sessionID string, file *models.StoredFile) error {
	entry, ok := s.lookup(sessionID)
	if !ok {
		return ErrNotFound
	}
	entry.mu.Lock()
	entry.session.Files[file.ID] = file
	entry.session.FileOrder = append(entry.session.FileOrder, file.ID)
	entry.session.UpdatedAt = time.Now().UTC()
	entry.mu.Unlock()
	s.touch(sessionID, entry)
	return nil
}

func (s *MemoryStore) AppendTurns(_ context.Context, sessionID string, turns ...models.ChatTurn) error {
	entry, ok := s.lookup(sessionID)
	if !ok {
		return ErrNotFound
	}
	entry.mu.Lock()
	entry.session.History = append(entry.session.History, turns...)
	entry.session.UpdatedAt = time.Now().UTC()
	entry.mu.Unlock()
	s.touch(sessionID, entry)
	return nil
}

func (s *MemoryStore) lookup(id string) (*memoryEntry, bool) {
	val, ok := s.cache.Get(id)
	if !ok {
		return nil, false
	}
	entry, ok := val.(*memoryEntry)
	return entry, ok
}

// touch resets the TTL so an active session never expires mid-conversation.
func (s *MemoryStore) touch(id string, entry *memoryEntry) {
	s.cache.Set(id, entry, gocache.DefaultExpiration)
}
