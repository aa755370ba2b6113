// Package jobs holds adapters for ingestion job bookkeeping.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/stagesen/senior-living-colorado-sub000/internal/domain/entities"
	"github.com/stagesen/senior-living-colorado-sub000/internal/domain/providers"
	apperrors "github.com/stagesen/senior-living-colorado-sub000/pkg/errors"
)

const (
	syncRunKeyPrefix = "sync:run:"
	syncRunLatestKey = "sync:run:latest"
	syncRunTTL       = 7 * 24 * 3600 // seconds
)

// RedisSyncRunStore keeps run status in the cache so it survives restarts and
// can be polled while the job is still going.
type RedisSyncRunStore struct {
	cache providers.CacheProvider
}

// NewRedisSyncRunStore creates a cache-backed sync run store.
func NewRedisSyncRunStore(cache providers.CacheProvider) providers.SyncRunStore {
	return &RedisSyncRunStore{cache: cache}
}

func (s *RedisSyncRunStore) Save(ctx context.Context, run *entities.SyncRun) error {
	data, err := json.Marshal(run)
	if err != nil {
		return apperrors.NewInternalError("failed to encode sync run", err)
	}
	if err := s.cache.Set(ctx, syncRunKeyPrefix+run.ID, data, syncRunTTL); err != nil {
		return apperrors.NewInternalError("failed to save sync run", err)
	}
	if err := s.cache.Set(ctx, syncRunLatestKey, []byte(run.ID), syncRunTTL); err != nil {
		return apperrors.NewInternalError("failed to save latest sync run pointer", err)
	}
	return nil
}

func (s *RedisSyncRunStore) Get(ctx context.Context, id string) (*entities.SyncRun, error) {
	data, err := s.cache.Get(ctx, syncRunKeyPrefix+id)
	if err != nil {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("sync run %s not found", id))
	}
	var run entities.SyncRun
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, apperrors.NewInternalError("failed to decode sync run", err)
	}
	return &run, nil
}

func (s *RedisSyncRunStore) Latest(ctx context.Context) (*entities.SyncRun, error) {
	id, err := s.cache.Get(ctx, syncRunLatestKey)
	if err != nil {
		return nil, apperrors.NewNotFoundError("no sync runs recorded")
	}
	return s.Get(ctx, string(id))
}

// MemorySyncRunStore is the fallback when Redis is not configured. Status is
// lost on restart, which matches the job itself being lost on restart.
type MemorySyncRunStore struct {
	mu     sync.RWMutex
	runs   map[string]*entities.SyncRun
	latest string
}

// NewMemorySyncRunStore creates an in-process sync run store.
func NewMemorySyncRunStore() *MemorySyncRunStore {
	return &MemorySyncRunStore{runs: make(map[string]*entities.SyncRun)}
}

func (s *MemorySyncRunStore) Save(_ context.Context, run *entities.SyncRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *run
	s.runs[run.ID] = &copied
	s.latest = run.ID
	return nil
}

func (s *MemorySyncRunStore) Get(_ context.Context, id string) (*entities.SyncRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("sync run %s not found", id))
	}
	copied := *run
	return &copied, nil
}

func (s *MemorySyncRunStore) Latest(_ context.Context) (*entities.SyncRun, error) {
	s.mu.RLock()
	latest := s.latest
	s.mu.RUnlock()

	if latest == "" {
		return nil, apperrors.NewNotFoundError("no sync runs recorded")
	}
	return s.Get(context.Background(), latest)
}
