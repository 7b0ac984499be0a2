package storefront

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/storefront/internal/db"
	dbRedis "github.com/kailas-cloud/storefront/internal/db/redis"
	"github.com/kailas-cloud/storefront/internal/domain"
	"github.com/kailas-cloud/storefront/internal/domain/catalog"
	"github.com/kailas-cloud/storefront/internal/domain/query/request"
	"github.com/kailas-cloud/storefront/internal/domain/query/result"
	"github.com/kailas-cloud/storefront/internal/repository/memstore"
	"github.com/kailas-cloud/storefront/internal/repository/pagecache"
	cataloguc "github.com/kailas-cloud/storefront/internal/usecase/catalog"
	"github.com/kailas-cloud/storefront/internal/usecase/globalsearch"
	healthuc "github.com/kailas-cloud/storefront/internal/usecase/health"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultAdminPageSize    = 10
)

// Internal interfaces for substitution in tests.
type querier[T any] interface {
	Query(ctx context.Context, q *request.Query) (result.Page[T], error)
}

type productReader interface {
	Product(ctx context.Context, id string) (catalog.Product, error)
	Reviews(ctx context.Context, productID string) ([]catalog.Review, error)
}

type searchUseCase interface {
	Search(ctx context.Context, term string) []result.Hit
}

// Client is the storefront SDK entry point.
type Client struct {
	cache     db.Store
	products  querier[catalog.Product]
	orders    querier[catalog.Order]
	customers querier[catalog.Customer]
	users     querier[catalog.User]
	reader    productReader
	searchSvc searchUseCase
	healthSvc healthUseCase
	obs       *observer

	pageSize      int
	adminPageSize int
}

// New loads the record store and, when WithValkey or WithRedis is given,
// connects the page cache. The provided context is used for the cache
// readiness check and the startup purge of stale pages.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		pageSize:      request.DefaultPageSize,
		adminPageSize: defaultAdminPageSize,
		searchLimit:   globalsearch.DefaultLimit,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	records, err := loadRecords(cfg)
	if err != nil {
		return nil, err
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	var cache db.Store
	if len(cfg.addrs) > 0 {
		cache, err = createStore(cfg)
		if err != nil {
			return nil, err
		}
		if err := cache.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			cache.Close()
			return nil, fmt.Errorf("storefront: cache not ready: %w", err)
		}
	}

	return wireClient(ctx, records, cache, cfg, obs), nil
}

func loadRecords(cfg *clientConfig) (*memstore.Store, error) {
	var (
		st  *memstore.Store
		err error
	)
	switch {
	case cfg.seedData != nil:
		st, err = memstore.Load(cfg.seedData)
	case cfg.seedPath != "":
		st, err = memstore.LoadFile(cfg.seedPath)
	default:
		st, err = memstore.Default()
	}
	if err != nil {
		return nil, fmt.Errorf("storefront: load records: %w", err)
	}
	return st, nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "valkey", "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("storefront: create %s store: %w", cfg.driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("storefront: unknown driver %q", cfg.driver)
	}
}

func wireClient(ctx context.Context, records *memstore.Store, cache db.Store, cfg *clientConfig, obs *observer) *Client {
	var cachePinger healthuc.Pinger
	if cache != nil {
		cachePinger = cache
	}

	return &Client{
		cache:         cache,
		products:      wireQuerier[catalog.Product](ctx, records.Products(), cache, cfg, obs),
		orders:        wireQuerier[catalog.Order](ctx, records.Orders(), cache, cfg, obs),
		customers:     wireQuerier[catalog.Customer](ctx, records.Customers(), cache, cfg, obs),
		users:         wireQuerier[catalog.User](ctx, records.Users(), cache, cfg, obs),
		reader:        records,
		searchSvc:     globalsearch.New(records).WithLimit(cfg.searchLimit),
		healthSvc:     healthuc.New(records, cachePinger),
		obs:           obs,
		pageSize:      cfg.pageSize,
		adminPageSize: cfg.adminPageSize,
	}
}

func wireQuerier[T any](
	ctx context.Context, src cataloguc.Source[T], cache db.Store, cfg *clientConfig, obs *observer,
) querier[T] {
	svc := cataloguc.New[T](src)
	if cache == nil {
		return svc
	}

	cached := pagecache.New[T](svc, cache, pagecache.Config{
		Prefix:  cfg.keyPrefix,
		Surface: src.Name(),
		TTL:     cfg.cacheTTL,
	}, obs.cacheCounter(), zapLogger(obs.logger))

	// Pages cached before this process loaded its records may be stale.
	if _, err := cached.Purge(ctx); err != nil && obs.logger != nil {
		obs.logger.Warn("purge cached pages failed", "surface", src.Name(), "error", err)
	}
	return cached
}

// Close releases the page cache connection, if any.
func (c *Client) Close() {
	if c.cache != nil {
		c.cache.Close()
	}
}

// Ping checks page cache connectivity. Without a cache it always succeeds.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if c.cache == nil {
		return nil
	}
	if err = c.cache.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Products returns one page of the storefront catalog.
func (c *Client) Products(ctx context.Context, p Params) (Page[Product], error) {
	return runQuery(ctx, c.obs, "products", c.products, p, c.pageSize)
}

// Orders returns one page of the orders table.
func (c *Client) Orders(ctx context.Context, p Params) (Page[Order], error) {
	return runQuery(ctx, c.obs, "orders", c.orders, p, c.adminPageSize)
}

// Customers returns one page of the customers table.
func (c *Client) Customers(ctx context.Context, p Params) (Page[Customer], error) {
	return runQuery(ctx, c.obs, "customers", c.customers, p, c.adminPageSize)
}

// Users returns one page of the users table.
func (c *Client) Users(ctx context.Context, p Params) (Page[User], error) {
	return runQuery(ctx, c.obs, "users", c.users, p, c.adminPageSize)
}

// Table returns one page of a dashboard table by name with items left as
// their concrete entity type. Unknown names fail with ErrUnknownTable.
func (c *Client) Table(ctx context.Context, name string, p Params) (Page[any], error) {
	switch name {
	case TableOrders:
		return widen(c.Orders(ctx, p))
	case TableCustomers:
		return widen(c.Customers(ctx, p))
	case TableUsers:
		return widen(c.Users(ctx, p))
	case TableProducts:
		return widen(runQuery(ctx, c.obs, "products", c.products, p, c.adminPageSize))
	default:
		return Page[any]{}, fmt.Errorf("%w: %s", domain.ErrUnknownTable, name)
	}
}

// Product returns a product with its reviews.
func (c *Client) Product(ctx context.Context, id string) (_ ProductDetail, err error) {
	start := time.Now()
	defer func() { c.obs.observe("product", start, err) }()

	prod, err := c.reader.Product(ctx, id)
	if err != nil {
		return ProductDetail{}, fmt.Errorf("get product: %w", err)
	}
	reviews, err := c.reader.Reviews(ctx, id)
	if err != nil {
		return ProductDetail{}, fmt.Errorf("get reviews: %w", err)
	}
	if reviews == nil {
		reviews = []catalog.Review{}
	}
	return ProductDetail{
		Product:       prod,
		Reviews:       reviews,
		AverageRating: catalog.AverageRating(reviews),
	}, nil
}

// Search ranks records of every kind against term. A blank term returns no hits.
func (c *Client) Search(ctx context.Context, term string) []Hit {
	start := time.Now()
	hits := hitsFromResult(c.searchSvc.Search(ctx, term))
	c.obs.observe("search", start, nil)
	return hits
}

func runQuery[T any](
	ctx context.Context, obs *observer, op string, q querier[T], p Params, pageSize int,
) (_ Page[T], err error) {
	start := time.Now()
	defer func() { obs.observe(op, start, err) }()

	req := p.query(pageSize)
	res, err := q.Query(ctx, &req)
	if err != nil {
		return Page[T]{}, fmt.Errorf("query %s: %w", op, err)
	}
	return pageFromResult(res, &req), nil
}

func widen[T any](p Page[T], err error) (Page[any], error) {
	if err != nil {
		return Page[any]{}, err
	}
	items := make([]any, len(p.Items))
	for i := range p.Items {
		items[i] = p.Items[i]
	}
	return Page[any]{
		Items:     items,
		Total:     p.Total,
		Page:      p.Page,
		PageCount: p.PageCount,
		PageSize:  p.PageSize,
		Pages:     p.Pages,
		Query:     p.Query,
	}, nil
}
