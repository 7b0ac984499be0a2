package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/storefront/internal/config"
	"github.com/kailas-cloud/storefront/internal/db"
	dbRedis "github.com/kailas-cloud/storefront/internal/db/redis"
	"github.com/kailas-cloud/storefront/internal/domain/catalog"
	logpkg "github.com/kailas-cloud/storefront/internal/logger"
	"github.com/kailas-cloud/storefront/internal/metrics"
	"github.com/kailas-cloud/storefront/internal/repository/memstore"
	"github.com/kailas-cloud/storefront/internal/repository/pagecache"
	chiTransport "github.com/kailas-cloud/storefront/internal/transport/chi"
	cataloguc "github.com/kailas-cloud/storefront/internal/usecase/catalog"
	"github.com/kailas-cloud/storefront/internal/usecase/globalsearch"
	healthuc "github.com/kailas-cloud/storefront/internal/usecase/health"
	"github.com/kailas-cloud/storefront/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg := config.MustLoad(env)

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting storefront catalog server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Bool("cache_enabled", cfg.Cache.Enabled()),
	)

	store, err := loadStore(cfg.Catalog.SeedPath)
	if err != nil {
		logger.Fatal("Failed to load record store", zap.Error(err))
	}
	logger.Info("Record store loaded",
		zap.Int("products", store.Products().Len()),
		zap.Int("records", len(store.Records())),
	)

	metrics.RegisterQueryMetrics()

	ctx := context.Background()

	// Page cache is optional; without addrs every query is evaluated in memory.
	var cache db.Store
	if cfg.Cache.Enabled() {
		cs, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer cs.Close()

		if err := cs.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Cache not ready", zap.Error(err))
		}
		logger.Info("Connected to page cache",
			zap.String("driver", cfg.Cache.Driver),
			zap.Strings("addrs", cfg.Cache.Addrs),
		)
		cache = cs
	}

	pc := pipeline{cache: cache, cfg: cfg.Cache, logger: logger}
	r := newRouter(ctx, cfg.Catalog, store, pc)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

func loadStore(seedPath string) (*memstore.Store, error) {
	if seedPath == "" {
		return memstore.Default()
	}
	return memstore.LoadFile(seedPath)
}

// newRouter assembles the query surfaces and the middleware stack.
func newRouter(ctx context.Context, cfg config.CatalogConfig, store *memstore.Store, pc pipeline) chi.Router {
	products := buildQuerier[catalog.Product](ctx, pc, store.Products())
	orders := buildQuerier[catalog.Order](ctx, pc, store.Orders())
	customers := buildQuerier[catalog.Customer](ctx, pc, store.Customers())
	users := buildQuerier[catalog.User](ctx, pc, store.Users())

	// Pass nil interface (not typed nil pointer!) when no cache is configured.
	var cachePinger healthuc.Pinger
	if pc.cache != nil {
		cachePinger = pc.cache
	}
	healthSvc := healthuc.New(store, cachePinger)
	searchSvc := globalsearch.New(store).WithLimit(cfg.SearchLimit)

	// The admin products table shares the storefront querier; cache keys
	// carry the page size, so the two page sizes never collide.
	server := chiTransport.NewServer(products, store, searchSvc, healthSvc, pc.logger).
		WithPageSizes(cfg.PageSize, cfg.AdminPageSize).
		WithTable(memstore.Products, chiTransport.NewTable[catalog.Product](products)).
		WithTable(memstore.Orders, chiTransport.NewTable[catalog.Order](orders)).
		WithTable(memstore.Customers, chiTransport.NewTable[catalog.Customer](customers)).
		WithTable(memstore.Users, chiTransport.NewTable[catalog.User](users))
	pc.logger.Info("Admin tables registered", zap.Strings("tables", server.TableNames()))

	r := chi.NewRouter()
	r.Use(jsonRecoverer(pc.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(pc.logger))
	r.Use(metrics.Middleware())
	server.Routes(r)
	return r
}

// pipeline carries what every collection querier is assembled from.
type pipeline struct {
	cache  db.Store
	cfg    config.CacheConfig
	logger *zap.Logger
}

// buildQuerier assembles the decorator chain: Service -> Instrumented -> Cached.
// The cache sits outermost so metrics count real evaluations only.
func buildQuerier[T any](ctx context.Context, p pipeline, src cataloguc.Source[T]) cataloguc.Querier[T] {
	var q cataloguc.Querier[T] = cataloguc.NewInstrumented[T](cataloguc.New[T](src), src.Name())
	if p.cache == nil {
		return q
	}

	cached := pagecache.New[T](q, p.cache, pagecache.Config{
		Prefix:  p.cfg.KeyPrefix,
		Surface: src.Name(),
		TTL:     time.Duration(p.cfg.TTLSec) * time.Second,
	}, metrics.PageCacheTotal, p.logger)

	// Seed data may have changed since the pages were cached.
	n, err := cached.Purge(ctx)
	if err != nil {
		p.logger.Warn("Failed to purge cached pages", zap.String("surface", src.Name()), zap.Error(err))
	} else if n > 0 {
		p.logger.Info("Purged cached pages", zap.String("surface", src.Name()), zap.Int("keys", n))
	}
	return cached
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Code:    chiTransport.CodeInternalError,
						Message: "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("query", r.URL.RawQuery),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
