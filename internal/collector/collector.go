package collector

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// Options control how far and how fast a collection runs.
type Options struct {
	Target   int
	MaxPages int
	PerPage  int
	// Delay is the minimum spacing between two search requests.
	Delay time.Duration
}

// Collector gathers unique repositories across a list of search queries
type Collector struct {
	searcher Searcher
	opts     Options
	logger   *slog.Logger
}

// New creates a Collector. A nil logger falls back to slog.Default().
func New(searcher Searcher, opts Options, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{
		searcher: searcher,
		opts:     opts,
		logger:   logger,
	}
}

// Collect runs every query page by page and returns the unique repositories
// in the order they were first seen. It stops as soon as Target is reached.
// Any search error aborts the run and nothing collected so far is returned.
func (c *Collector) Collect(ctx context.Context, queries []string) ([]Record, error) {
	limiter := rate.NewLimiter(rate.Every(c.opts.Delay), 1)
	if c.opts.Delay <= 0 {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}

	records := make([]Record, 0, c.opts.Target)
	seen := make(map[string]struct{})

	for _, query := range queries {
		for page := 1; page <= c.opts.MaxPages; page++ {
			if err := limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("failed to wait between requests: %w", err)
			}

			result, err := c.searcher.Search(ctx, query, page, c.opts.PerPage)
			if err != nil {
				return nil, fmt.Errorf("query %q page %d: %w", query, page, err)
			}
			if len(result.Items) == 0 {
				c.logger.Debug("query exhausted", "query", query, "page", page)
				break
			}

			for _, item := range result.Items {
				fullName := item.GetFullName()
				if fullName == "" {
					continue
				}
				if _, ok := seen[fullName]; ok {
					continue
				}
				seen[fullName] = struct{}{}
				records = append(records, newRecord(query, item))
			}

			c.logger.Info("page collected", "query", query, "page", page, "unique_repos", len(records))
			if len(records) >= c.opts.Target {
				return records, nil
			}
		}
	}

	return records, nil
}
