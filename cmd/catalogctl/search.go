package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/storefront/internal/domain/query/result"
	"github.com/kailas-cloud/storefront/internal/metrics"
	"github.com/kailas-cloud/storefront/internal/usecase/globalsearch"
	"github.com/kailas-cloud/storefront/internal/usecase/livesearch"
)

// settleTimeout bounds how long live waits for the last debounced evaluation at end of input.
const settleTimeout = 5 * time.Second

func newSearchCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "search <term>...",
		Short: "Search every collection and print the ranked hits",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := globalsearch.New(a.store).WithLimit(limit)
			hits := svc.Search(cmd.Context(), strings.Join(args, " "))
			return printHits(a.out, hits)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", globalsearch.DefaultLimit, "maximum number of hits")
	return cmd
}

func newLiveCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "live",
		Short: "Read search input line by line and print debounced results",
		Long: `Each input line replaces the current search term. A search runs only after
the input has been quiet for the debounce interval, so lines that arrive in
quick succession produce a single evaluation of the last one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc := globalsearch.New(a.store).WithLimit(limit)
			return runLive(cmd.Context(), a, svc)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", globalsearch.DefaultLimit, "maximum number of hits")
	return cmd
}

func runLive(ctx context.Context, a *app, svc *globalsearch.Service) error {
	var mu sync.Mutex
	var printErr error

	c := livesearch.New(svc.Search,
		livesearch.WithLogger[[]result.Hit](a.logger),
		livesearch.WithEvaluations[[]result.Hit](metrics.LiveSearchEvaluations),
		livesearch.WithOnResult(func(term string, hits []result.Hit) {
			mu.Lock()
			defer mu.Unlock()
			_, _ = fmt.Fprintf(a.out, "> %s (%d)\n", term, len(hits))
			if err := printHits(a.out, hits); err != nil && printErr == nil {
				printErr = err
			}
		}),
	)
	defer c.Close()

	sc := bufio.NewScanner(a.in)
	for sc.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.SetTerm(sc.Text())
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	if err := settle(ctx, c); err != nil {
		a.logger.Warn("Live search did not settle", zap.Error(err))
	}

	mu.Lock()
	defer mu.Unlock()
	return printErr
}

// settle waits for the last scheduled evaluation to be delivered.
func settle(ctx context.Context, c *livesearch.Controller[[]result.Hit]) error {
	ctx, cancel := context.WithTimeout(ctx, settleTimeout)
	defer cancel()

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for c.Pending() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

func printHits(out io.Writer, hits []result.Hit) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for i := range hits {
		h := &hits[i]
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", h.Kind(), h.ID(), h.Title(), h.Subtitle(), h.Href())
	}
	return tw.Flush()
}
