package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/matchdayhq/matchday/internal/platform/resilience"
)

// Store is a TTL cache with request deduplication for loads.
type Store struct {
	entries *gocache.Cache
	flight  resilience.SingleFlight
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}

	return &Store{
		entries: gocache.New(ttl, 10*time.Minute),
	}
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	if key == "" {
		return nil, false
	}

	return s.entries.Get(key)
}

func (s *Store) Set(_ context.Context, key string, value any) {
	if key == "" {
		return
	}

	s.entries.SetDefault(key, value)
}

func (s *Store) Delete(_ context.Context, key string) {
	if key == "" {
		return
	}

	s.entries.Delete(key)
}

func (s *Store) DeletePrefix(_ context.Context, prefix string) {
	if prefix == "" {
		return
	}

	for key := range s.entries.Items() {
		if strings.HasPrefix(key, prefix) {
			s.entries.Delete(key)
		}
	}
}

// GetOrLoad returns the cached value for key, loading and caching it
// once when absent. Concurrent loads for the same key are collapsed
// into a single loader call.
func (s *Store) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}

	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	value, err, _ := s.flight.Do(key, func() (any, error) {
		if cached, ok := s.Get(ctx, key); ok {
			return cached, nil
		}

		loaded, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		s.Set(ctx, key, loaded)
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}
