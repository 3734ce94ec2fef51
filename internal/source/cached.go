package source

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/platewatch/platewatch/internal/cache"
	"github.com/platewatch/platewatch/internal/model"
)

// CachedRecordSource decorates a RecordSource with lookup caching. Only
// successful lookups are cached; failures always retry upstream.
type CachedRecordSource struct {
	name  string
	inner RecordSource
	cache cache.Cache
	ttl   time.Duration
	log   *slog.Logger
}

// NewCachedRecordSource wraps src with a cache. The name keys the cache
// namespace and must be stable per collaborator.
func NewCachedRecordSource(name string, src RecordSource, c cache.Cache, ttl time.Duration, log *slog.Logger) *CachedRecordSource {
	return &CachedRecordSource{name: name, inner: src, cache: c, ttl: ttl, log: log}
}

// Lookup serves from cache when possible, falling through to the wrapped
// source on a miss.
func (s *CachedRecordSource) Lookup(ctx context.Context, keyword string, limit, recencyWindowDays int) ([]model.HazardRecord, error) {
	key := cache.LookupKey(s.name, keyword, limit, recencyWindowDays)

	if data, found := s.cache.Get(key); found {
		var records []model.HazardRecord
		if err := json.Unmarshal(data, &records); err == nil {
			return records, nil
		}
		// Corrupt entry: drop it and refetch.
		_ = s.cache.Delete(key)
	}

	records, err := s.inner.Lookup(ctx, keyword, limit, recencyWindowDays)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(records); err == nil {
		if err := s.cache.Set(key, data, s.ttl); err != nil {
			s.log.Warn("cache write failed", "source", s.name, "error", err)
		}
	}
	return records, nil
}

// CachedProductSource decorates a ProductSource with lookup caching.
// NotFound answers are cached too: unknown barcodes are retried often by
// users and the answer rarely changes inside the TTL.
type CachedProductSource struct {
	inner ProductSource
	cache cache.Cache
	ttl   time.Duration
	log   *slog.Logger
}

// NewCachedProductSource wraps src with a cache.
func NewCachedProductSource(src ProductSource, c cache.Cache, ttl time.Duration, log *slog.Logger) *CachedProductSource {
	return &CachedProductSource{inner: src, cache: c, ttl: ttl, log: log}
}

// cachedProduct distinguishes a cached NotFound from a cached hit.
type cachedProduct struct {
	NotFound bool                 `json:"not_found,omitempty"`
	Product  *model.ProductRecord `json:"product,omitempty"`
}

// GetByIdentifier serves from cache when possible.
func (s *CachedProductSource) GetByIdentifier(ctx context.Context, id string) (*model.ProductRecord, error) {
	key := cache.ProductKey(id)

	if data, found := s.cache.Get(key); found {
		var entry cachedProduct
		if err := json.Unmarshal(data, &entry); err == nil {
			if entry.NotFound {
				return nil, ErrNotFound
			}
			return entry.Product, nil
		}
		_ = s.cache.Delete(key)
	}

	product, err := s.inner.GetByIdentifier(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.store(key, cachedProduct{NotFound: true})
		}
		return nil, err
	}

	s.store(key, cachedProduct{Product: product})
	return product, nil
}

func (s *CachedProductSource) store(key string, entry cachedProduct) {
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := s.cache.Set(key, data, s.ttl); err != nil {
		s.log.Warn("cache write failed", "source", "product", "error", err)
	}
}
