package storage

import (
	"context"
	"sync"

	"advisor/internal/core"
)

// memoryStore implements core.Store in process memory. It is the default
// backend and mirrors the on-device key-value store the mobile app used.
type memoryStore struct {
	mu        sync.RWMutex
	history   []core.SearchRecord // newest first
	favorites []string            // insertion order
}

// NewMemory creates an in-memory store.
func NewMemory() core.Store {
	return &memoryStore{}
}

func (s *memoryStore) SaveSearch(_ context.Context, rec core.SearchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append([]core.SearchRecord{rec}, s.history...)
	if len(s.history) > HistoryLimit {
		s.history = s.history[:HistoryLimit]
	}
	return nil
}

func (s *memoryStore) SearchHistory(_ context.Context) ([]core.SearchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]core.SearchRecord, len(s.history))
	copy(out, s.history)
	return out, nil
}

func (s *memoryStore) ClearSearchHistory(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = nil
	return nil
}

func (s *memoryStore) AddFavorite(_ context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.favorites {
		if id == productID {
			return nil
		}
	}
	s.favorites = append(s.favorites, productID)
	return nil
}

func (s *memoryStore) RemoveFavorite(_ context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, id := range s.favorites {
		if id == productID {
			s.favorites = append(s.favorites[:i], s.favorites[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *memoryStore) Favorites(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.favorites))
	copy(out, s.favorites)
	return out, nil
}

func (s *memoryStore) IsFavorite(_ context.Context, productID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.favorites {
		if id == productID {
			return true, nil
		}
	}
	return false, nil
}

func (s *memoryStore) Close() error {
	return nil
}
