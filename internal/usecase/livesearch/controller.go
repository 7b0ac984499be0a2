// Package livesearch debounces keystrokes into search evaluations.
package livesearch

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Interval is the quiet period after the last input before a search runs.
const Interval = 200 * time.Millisecond

// EvalFunc evaluates a non-blank term.
type EvalFunc[R any] func(ctx context.Context, term string) R

// Controller owns one term, its latest results and at most one pending
// timer. Input that arrives while a timer is pending or an evaluation is
// running supersedes it.
type Controller[R any] struct {
	eval     EvalFunc[R]
	onResult func(term string, results R)
	evals    prometheus.Counter
	logger   *zap.Logger
	interval time.Duration

	mu         sync.Mutex
	term       string
	results    R
	pending    bool
	generation uint64
	timer      *time.Timer
	closed     bool
	ctx        context.Context
	cancel     context.CancelFunc
}

// Option configures a Controller.
type Option[R any] func(*Controller[R])

// WithOnResult registers a callback invoked after each evaluation that was
// not superseded.
func WithOnResult[R any](fn func(term string, results R)) Option[R] {
	return func(c *Controller[R]) { c.onResult = fn }
}

// WithEvaluations counts evaluations that actually ran.
func WithEvaluations[R any](counter prometheus.Counter) Option[R] {
	return func(c *Controller[R]) { c.evals = counter }
}

// WithLogger sets the logger.
func WithLogger[R any](l *zap.Logger) Option[R] {
	return func(c *Controller[R]) { c.logger = l }
}

// New creates an idle controller.
func New[R any](eval EvalFunc[R], opts ...Option[R]) *Controller[R] {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller[R]{
		eval:     eval,
		logger:   zap.NewNop(),
		interval: Interval,
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetTerm records new input. A blank term clears the results at once;
// anything else restarts the debounce timer.
func (c *Controller[R]) SetTerm(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.generation++
	c.stopTimerLocked()
	c.term = text

	if strings.TrimSpace(text) == "" {
		var zero R
		c.results = zero
		c.pending = false
		return
	}

	c.pending = true
	gen := c.generation
	c.timer = time.AfterFunc(c.interval, func() { c.fire(gen) })
}

// Results returns the results of the last completed evaluation.
func (c *Controller[R]) Results() R {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.results
}

// Pending reports whether an evaluation is scheduled, running, or still
// being delivered to the result callback.
func (c *Controller[R]) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// Term returns the latest input.
func (c *Controller[R]) Term() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.term
}

// Close cancels any scheduled evaluation and discards the result of one in
// flight. Later input is ignored.
func (c *Controller[R]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.generation++
	c.stopTimerLocked()
	c.pending = false
	c.cancel()
}

func (c *Controller[R]) fire(gen uint64) {
	c.mu.Lock()
	if c.closed || gen != c.generation {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	term := strings.TrimSpace(c.term)
	ctx := c.ctx
	c.mu.Unlock()

	res := c.eval(ctx, term)
	if c.evals != nil {
		c.evals.Inc()
	}

	c.mu.Lock()
	if c.closed || gen != c.generation {
		c.mu.Unlock()
		c.logger.Debug("Live search result superseded", zap.String("term", term))
		return
	}
	c.results = res
	onResult := c.onResult
	if onResult == nil {
		c.pending = false
	}
	c.mu.Unlock()

	c.logger.Debug("Live search evaluated", zap.String("term", term))
	if onResult == nil {
		return
	}
	onResult(term, res)

	// Pending stays set until the callback returns.
	c.mu.Lock()
	if gen == c.generation {
		c.pending = false
	}
	c.mu.Unlock()
}

func (c *Controller[R]) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
