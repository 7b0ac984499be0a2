package catalog

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/storefront/internal/domain/query/request"
	"github.com/kailas-cloud/storefront/internal/domain/query/result"
	"github.com/kailas-cloud/storefront/internal/logger"
	"github.com/kailas-cloud/storefront/internal/metrics"
)

// Instrumented wraps a Querier with query metrics and debug logging.
type Instrumented[T any] struct {
	inner   Querier[T]
	surface string
}

// NewInstrumented labels every query of inner with surface.
func NewInstrumented[T any](inner Querier[T], surface string) *Instrumented[T] {
	return &Instrumented[T]{inner: inner, surface: surface}
}

// Query delegates to the inner querier and records duration and match count.
func (i *Instrumented[T]) Query(ctx context.Context, q *request.Query) (result.Page[T], error) {
	start := time.Now()

	p, err := i.inner.Query(ctx, q)

	duration := time.Since(start)
	metrics.QueriesTotal.WithLabelValues(i.surface).Inc()
	metrics.QueryDuration.WithLabelValues(i.surface).Observe(duration.Seconds())

	log := logger.FromContext(ctx)
	if err != nil {
		log.Warn("Catalog query failed",
			zap.String("surface", i.surface),
			zap.String("query", q.Encode()),
			zap.Error(err),
		)
		return p, err
	}

	metrics.QueryMatched.WithLabelValues(i.surface).Observe(float64(p.TotalMatched()))
	log.Debug("Catalog query evaluated",
		zap.String("surface", i.surface),
		zap.String("query", q.Encode()),
		zap.Int("matched", p.TotalMatched()),
		zap.Int("page", p.PageIndex()+1),
		zap.Int("page_count", p.PageCount()),
		zap.Duration("duration", duration),
	)
	return p, nil
}
