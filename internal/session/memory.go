package session

import (
	"context"
	"strconv"

	"github.com/patrickmn/go-cache"
)

// MemoryStore keeps sessions in process memory.
type MemoryStore struct {
	cache *cache.Cache
}

// NewMemoryStore creates a store whose entries never expire.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{cache: cache.New(cache.NoExpiration, 0)}
}

func (m *MemoryStore) Get(_ context.Context, submitterID int64) (*Session, bool, error) {
	x, found := m.cache.Get(key(submitterID))
	if !found {
		return nil, false, nil
	}
	cp := *x.(*Session)
	return &cp, true, nil
}

func (m *MemoryStore) Put(_ context.Context, s *Session) error {
	cp := *s
	m.cache.Set(key(s.SubmitterID), &cp, cache.NoExpiration)
	return nil
}

func (m *MemoryStore) Clear(_ context.Context, submitterID int64) error {
	m.cache.Delete(key(submitterID))
	return nil
}

// Len returns the number of live sessions.
func (m *MemoryStore) Len() int {
	return m.cache.ItemCount()
}

func key(submitterID int64) string {
	return strconv.FormatInt(submitterID, 10)
}
