package pagecache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/storefront/internal/db"
	"github.com/kailas-cloud/storefront/internal/domain/query/page"
	"github.com/kailas-cloud/storefront/internal/domain/query/request"
	"github.com/kailas-cloud/storefront/internal/domain/query/result"
)

type item struct {
	ID    string  `json:"id"`
	Price float64 `json:"price"`
}

type mockQuerier struct {
	mu    sync.Mutex
	calls int
	page  result.Page[item]
	err   error
	block chan struct{}
}

func (m *mockQuerier) Query(ctx context.Context, _ *request.Query) (result.Page[item], error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.block != nil {
		<-m.block
	}
	if err := ctx.Err(); err != nil {
		return result.Page[item]{}, err
	}
	return m.page, m.err
}

func (m *mockQuerier) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// memKV is an in-memory store honoring the consumer interface.
type memKV struct {
	mu      sync.Mutex
	data    map[string][]byte
	ttls    map[string]time.Duration
	getErr  error
	setErr  error
	onGet   func()
	deleted []string
}

func newMemKV() *memKV {
	return &memKV{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memKV) Get(_ context.Context, key string) ([]byte, error) {
	if m.onGet != nil {
		defer m.onGet()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *memKV) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *memKV) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
		m.deleted = append(m.deleted, k)
	}
	return nil
}

func (m *memKV) Scan(_ context.Context, pattern string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := pattern[:len(pattern)-1] // patterns end with "*"
	var keys []string
	for k := range m.data {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func samplePage() result.Page[item] {
	return result.NewPage(
		[]item{{ID: "3", Price: 120}, {ID: "6", Price: 130}},
		page.Meta{Index: 1, Count: 3, Size: 2, Total: 6},
	)
}

func newTestCache(t *testing.T, inner *mockQuerier, kv *memKV) (*Cached[item], *prometheus.CounterVec) {
	t.Helper()
	total := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_page_cache_total"}, []string{"result"})
	c := New[item](inner, kv, Config{Surface: "products", TTL: time.Minute}, total, zap.NewNop())
	return c, total
}

func testQuery() *request.Query {
	q := request.FromValues(map[string][]string{"minPrice": {"100"}, "page": {"2"}}, 2)
	return &q
}
