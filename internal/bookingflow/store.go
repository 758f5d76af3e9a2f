package bookingflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"busbooking/internal/shared/constants"
	"busbooking/pkg/cache"
)

// Store persists flows between requests.
type Store interface {
	Get(ctx context.Context, id string) (*Flow, error)
	Save(ctx context.Context, f *Flow) error
	Delete(ctx context.Context, id string) error
}

type cacheStore struct {
	cache cache.Service
	ttl   time.Duration
}

// NewCacheStore keeps flows in Redis; an idle flow expires after ttl.
func NewCacheStore(c cache.Service, ttl time.Duration) Store {
	return &cacheStore{cache: c, ttl: ttl}
}

func (s *cacheStore) Get(ctx context.Context, id string) (*Flow, error) {
	var f Flow
	if err := s.cache.Get(ctx, constants.BuildFlowSessionKey(id), &f); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, ErrFlowNotFound
		}
		return nil, fmt.Errorf("failed to load flow: %w", err)
	}
	f.normalize()
	return &f, nil
}

func (s *cacheStore) Save(ctx context.Context, f *Flow) error {
	if err := s.cache.Set(ctx, constants.BuildFlowSessionKey(f.ID.String()), f, s.ttl); err != nil {
		return fmt.Errorf("failed to save flow: %w", err)
	}
	return nil
}

func (s *cacheStore) Delete(ctx context.Context, id string) error {
	return s.cache.Delete(ctx, constants.BuildFlowSessionKey(id))
}

// memoryStore keeps encoded flows so callers never share a *Flow.
type memoryStore struct {
	mu    sync.RWMutex
	flows map[string][]byte
}

func NewMemoryStore() Store {
	return &memoryStore{flows: make(map[string][]byte)}
}

func (s *memoryStore) Get(_ context.Context, id string) (*Flow, error) {
	s.mu.RLock()
	data, ok := s.flows[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrFlowNotFound
	}

	var f Flow
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to decode flow: %w", err)
	}
	f.normalize()
	return &f, nil
}

func (s *memoryStore) Save(_ context.Context, f *Flow) error {
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to encode flow: %w", err)
	}
	s.mu.Lock()
	s.flows[f.ID.String()] = data
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.flows, id)
	s.mu.Unlock()
	return nil
}
