package enrich

import (
	"context"
	"fmt"
	"time"

	"github.com/yoyothesheep/ai-resilient-occupations/internal/onet"
	"github.com/yoyothesheep/ai-resilient-occupations/internal/utils"

	"go.uber.org/zap"
)

// Fetcher retrieves the enrichment values for one occupation summary page.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (*onet.Enrichment, error)
}

// Enricher walks a catalog, fetches the summary page for every occupation the
// cache does not cover yet, and copies the cached values onto the records.
type Enricher struct {
	fetcher Fetcher
	cache   *Cache
	delay   time.Duration
	logger  *zap.Logger
}

func NewEnricher(fetcher Fetcher, cache *Cache, delay time.Duration, logger *zap.Logger) *Enricher {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Enricher{
		fetcher: fetcher,
		cache:   cache,
		delay:   delay,
		logger:  logger,
	}
}

// Run fetches missing pages and applies the cache to the records. A fetch
// failure is cached as an empty entry and the run continues; the only errors
// that stop a run are cancellation and a cache that cannot be written.
func (e *Enricher) Run(ctx context.Context, occupations *onet.Occupations) error {
	total := occupations.Len()
	e.logger.Info("starting enrichment",
		zap.Int("occupations", total),
		zap.Int("cached", e.cache.Len()),
	)

	fetched := 0
	for i, occ := range occupations.Items {
		if err := ctx.Err(); err != nil {
			return err
		}

		if occ.Code == "" || occ.URL == "" {
			continue
		}

		if _, ok := e.cache.Get(occ.Code); ok {
			continue
		}

		e.logger.Info("fetching summary page",
			zap.String("progress", fmt.Sprintf("%d/%d", i+1, total)),
			zap.String("code", occ.Code),
			zap.String("occupation", occ.Name),
		)

		entry, err := e.fetcher.Fetch(ctx, occ.URL)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			e.logger.Warn("fetch failed, caching empty entry",
				zap.String("code", occ.Code),
				zap.Error(err),
			)
			entry = &onet.Enrichment{}
		}

		if err := e.cache.Put(occ.Code, entry); err != nil {
			return fmt.Errorf("persist cache: %w", err)
		}
		fetched++

		if err := utils.WaitFor(ctx, e.delay); err != nil {
			return err
		}
	}

	applied := e.apply(occupations)

	e.logger.Info("enrichment complete",
		zap.Int("fetched", fetched),
		zap.Int("applied", applied),
		zap.Int("cached", e.cache.Len()),
	)

	return nil
}

// apply copies cached values onto every record the cache has an entry for and
// reports how many records received at least one value.
func (e *Enricher) apply(occupations *onet.Occupations) int {
	applied := 0
	for _, occ := range occupations.Items {
		entry, ok := e.cache.Get(occ.Code)
		if !ok || entry == nil {
			continue
		}

		occ.MedianWage = entry.MedianWage
		occ.Growth = entry.Growth
		occ.Openings = entry.Openings

		if entry.MedianWage != "" || entry.Growth != "" || entry.Openings != "" {
			applied++
		}
	}

	return applied
}
