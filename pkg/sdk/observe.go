package storefront

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "storefront"

func newOperationsVec() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "sdk",
		Name:      "operations_total",
		Help:      "Client calls by operation and outcome.",
	}, []string{"operation", "status"})
}

func newDurationVec() *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Subsystem: "sdk",
		Name:      "operation_duration_seconds",
		Help:      "Client call latency in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})
}

func newPageCacheVec() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "sdk",
		Name:      "page_cache_total",
		Help:      "Page cache lookups by result.",
	}, []string{"result"})
}

// detachedPageCache counts cache results for clients built without
// WithPrometheus. It is never registered and is shared by all such clients.
var detachedPageCache = newPageCacheVec()

// clientMetrics groups the collectors a client reports to its registerer.
type clientMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	cache      *prometheus.CounterVec
}

func newClientMetrics(reg prometheus.Registerer) (*clientMetrics, error) {
	m := &clientMetrics{
		operations: newOperationsVec(),
		duration:   newDurationVec(),
		cache:      newPageCacheVec(),
	}
	// Several clients may share one registerer; later ones adopt the
	// collectors the first one registered.
	errs := []error{
		registerOrReuse(reg, &m.operations),
		registerOrReuse(reg, &m.duration),
		registerOrReuse(reg, &m.cache),
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return m, nil
}

func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	err := reg.Register(*c)
	if err == nil {
		return nil
	}
	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return fmt.Errorf("storefront: register metric: %w", err)
	}
	existing, ok := are.ExistingCollector.(T)
	if !ok {
		return fmt.Errorf("storefront: metric registered as %T", are.ExistingCollector)
	}
	*c = existing
	return nil
}

// observer records the outcome of each client call. Both fields are optional.
type observer struct {
	logger  *slog.Logger
	metrics *clientMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	o := &observer{logger: logger}
	if reg == nil {
		return o, nil
	}
	m, err := newClientMetrics(reg)
	if err != nil {
		return nil, err
	}
	o.metrics = m
	return o, nil
}

func (o *observer) cacheCounter() *prometheus.CounterVec {
	if o == nil || o.metrics == nil {
		return detachedPageCache
	}
	return o.metrics.cache
}

func (o *observer) observe(op string, start time.Time, err error) {
	if o == nil {
		return
	}
	elapsed := time.Since(start)
	status, level, msg := "ok", slog.LevelDebug, "client call done"
	if err != nil {
		status, level, msg = "error", slog.LevelWarn, "client call failed"
	}

	if m := o.metrics; m != nil {
		m.operations.WithLabelValues(op, status).Inc()
		m.duration.WithLabelValues(op).Observe(elapsed.Seconds())
	}
	if o.logger == nil {
		return
	}
	attrs := []slog.Attr{slog.String("op", op), slog.Duration("elapsed", elapsed)}
	if err != nil {
		attrs = append(attrs, slog.Any("error", err))
	}
	o.logger.LogAttrs(context.Background(), level, msg, attrs...)
}
