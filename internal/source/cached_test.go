package source

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/platewatch/platewatch/internal/model"
)

// memCache is a minimal in-process cache for decorator tests.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (c *memCache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok
}

func (c *memCache) Set(key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *memCache) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	return nil
}

type countingRecords struct {
	calls   int
	records []model.HazardRecord
	err     error
}

func (c *countingRecords) Lookup(ctx context.Context, keyword string, limit, recencyWindowDays int) ([]model.HazardRecord, error) {
	c.calls++
	return c.records, c.err
}

type countingProducts struct {
	calls   int
	product *model.ProductRecord
	err     error
}

func (c *countingProducts) GetByIdentifier(ctx context.Context, id string) (*model.ProductRecord, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.product, nil
}

func TestCachedRecordSource_ServesFromCache(t *testing.T) {
	inner := &countingRecords{records: []model.HazardRecord{{Identifier: "R-1"}}}
	cached := NewCachedRecordSource("recalls", inner, newMemCache(), time.Minute, discardLogger())

	for i := 0; i < 3; i++ {
		records, err := cached.Lookup(context.Background(), "salmon", 10, 30)
		if err != nil {
			t.Fatal(err)
		}
		if len(records) != 1 || records[0].Identifier != "R-1" {
			t.Fatalf("round %d: records = %v", i, records)
		}
	}
	if inner.calls != 1 {
		t.Errorf("expected one upstream call, got %d", inner.calls)
	}
}

func TestCachedRecordSource_DistinctSignaturesMiss(t *testing.T) {
	inner := &countingRecords{}
	cached := NewCachedRecordSource("recalls", inner, newMemCache(), time.Minute, discardLogger())

	_, _ = cached.Lookup(context.Background(), "salmon", 10, 30)
	_, _ = cached.Lookup(context.Background(), "salmon", 10, 60) // different window
	_, _ = cached.Lookup(context.Background(), "tuna", 10, 30)

	if inner.calls != 3 {
		t.Errorf("expected three upstream calls, got %d", inner.calls)
	}
}

func TestCachedRecordSource_FailuresNotCached(t *testing.T) {
	inner := &countingRecords{err: errors.New("down")}
	cached := NewCachedRecordSource("recalls", inner, newMemCache(), time.Minute, discardLogger())

	for i := 0; i < 2; i++ {
		if _, err := cached.Lookup(context.Background(), "salmon", 10, 30); err == nil {
			t.Fatal("expected error")
		}
	}
	if inner.calls != 2 {
		t.Errorf("failures must retry upstream, got %d calls", inner.calls)
	}
}

func TestCachedProductSource_CachesHitsAndNotFound(t *testing.T) {
	inner := &countingProducts{product: &model.ProductRecord{Barcode: "12345678", Name: "oat milk"}}
	cached := NewCachedProductSource(inner, newMemCache(), time.Minute, discardLogger())

	for i := 0; i < 2; i++ {
		p, err := cached.GetByIdentifier(context.Background(), "12345678")
		if err != nil {
			t.Fatal(err)
		}
		if p.Name != "oat milk" {
			t.Fatalf("product = %+v", p)
		}
	}
	if inner.calls != 1 {
		t.Errorf("expected one upstream call, got %d", inner.calls)
	}

	missing := &countingProducts{err: ErrNotFound}
	cachedMissing := NewCachedProductSource(missing, newMemCache(), time.Minute, discardLogger())
	for i := 0; i < 2; i++ {
		if _, err := cachedMissing.GetByIdentifier(context.Background(), "87654321"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	}
	if missing.calls != 1 {
		t.Errorf("NotFound must be cached, got %d upstream calls", missing.calls)
	}
}

func TestMultiSource_MergesAndAbsorbsPartialFailure(t *testing.T) {
	good := &countingRecords{records: []model.HazardRecord{{Identifier: "R-1"}}}
	bad := &countingRecords{err: errors.New("down")}

	multi := NewMultiSource(discardLogger(), good, bad)
	records, err := multi.Lookup(context.Background(), "salmon", 10, 30)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Identifier != "R-1" {
		t.Errorf("records = %v", records)
	}
}

func TestMultiSource_AllFeedsFailing(t *testing.T) {
	multi := NewMultiSource(discardLogger(),
		&countingRecords{err: errors.New("a down")},
		&countingRecords{err: errors.New("b down")})

	if _, err := multi.Lookup(context.Background(), "salmon", 10, 30); err == nil {
		t.Error("expected error when every feed fails")
	}
}

func TestNewMultiSource_SingleFeedUnwrapped(t *testing.T) {
	single := &countingRecords{}
	if got := NewMultiSource(discardLogger(), single); got != RecordSource(single) {
		t.Error("single feed should be returned as-is")
	}
}

func TestUpstreamError_Unwrap(t *testing.T) {
	err := &UpstreamError{Source: "recalls", Op: "lookup", Err: ErrNotFound}
	if !errors.Is(err, ErrNotFound) {
		t.Error("UpstreamError must unwrap to its cause")
	}
	if err.Error() == "" {
		t.Error("empty error string")
	}
}
