package storefront

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	seedPath string
	seedData []byte

	driver    string // "valkey" or "redis"
	addrs     []string
	password  string
	cacheTTL  time.Duration
	keyPrefix string

	pageSize      int
	adminPageSize int
	searchLimit   int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithSeedFile loads records from a YAML seed file instead of the embedded data.
func WithSeedFile(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.seedPath = path
	})
}

// WithSeedData loads records from YAML seed bytes. Takes precedence over WithSeedFile.
func WithSeedData(data []byte) Option {
	return optionFunc(func(c *clientConfig) {
		c.seedData = data
	})
}

// WithValkey caches evaluated pages in a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis caches evaluated pages in a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithCacheTTL sets the lifetime of cached pages. Zero keeps them until purged.
func WithCacheTTL(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheTTL = ttl
	})
}

// WithCacheKeyPrefix sets the key prefix of cached pages.
// Default: "storefront:page:".
func WithCacheKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithPageSize sets the product page size. Default: 9.
func WithPageSize(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.pageSize = n
	})
}

// WithAdminPageSize sets the page size of the dashboard tables. Default: 10.
func WithAdminPageSize(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.adminPageSize = n
	})
}

// WithSearchLimit caps the number of global search hits. Default: 10.
func WithSearchLimit(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.searchLimit = n
	})
}

// WithLogger enables structured logging for client operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers client metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
