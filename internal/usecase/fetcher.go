package usecase

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Nate99091/crypto/internal/domain/models"
	"github.com/Nate99091/crypto/internal/domain/repository"
	"github.com/Nate99091/crypto/pkg/cache"
	"github.com/Nate99091/crypto/pkg/logger"
	"github.com/Nate99091/crypto/pkg/metrics"
)

// Fetcher acquires candle data for many pairs in concurrent batches.
// Batches run in parallel; pairs within a batch are fetched sequentially to
// bound burst load on the exchange.
type Fetcher struct {
	source    repository.MarketSource
	cache     cache.Service
	cacheTTL  time.Duration
	batchSize int
	logger    *logger.Logger
	metrics   *metrics.Recorder
}

// FetchResult maps pairs that succeeded to their raw candle rows. Skipped
// lists pairs excluded this run with the reason.
type FetchResult struct {
	Series  map[string][]models.RawCandle
	Skipped []string
}

// NewFetcher creates a Fetcher.
func NewFetcher(
	source repository.MarketSource,
	cacheSvc cache.Service,
	cacheTTL time.Duration,
	batchSize int,
	log *logger.Logger,
	rec *metrics.Recorder,
) *Fetcher {
	if batchSize <= 0 {
		batchSize = 10
	}
	return &Fetcher{
		source:    source,
		cache:     cacheSvc,
		cacheTTL:  cacheTTL,
		batchSize: batchSize,
		logger:    log,
		metrics:   rec,
	}
}

// Catalog fetches the tradeable pair list and fee schedules. A catalog
// failure degrades to an empty pair list so the run reports "no pairs
// found" instead of aborting.
func (f *Fetcher) Catalog(ctx context.Context) ([]string, map[string]models.FeeEntry) {
	pairs, fees, err := f.source.AssetPairs(ctx)
	if err != nil {
		f.logger.Error("pair catalog fetch failed", logger.Error(err))
		f.metrics.RecordError("catalog")
		return nil, nil
	}
	return pairs, fees
}

// FetchAll fetches candle rows for all pairs. Per-pair failures are logged
// and excluded; they never abort the run.
func (f *Fetcher) FetchAll(ctx context.Context, pairs []string, interval int, since int64) *FetchResult {
	result := &FetchResult{
		Series: make(map[string][]models.RawCandle, len(pairs)),
	}
	if len(pairs) == 0 {
		return result
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)

	for start := 0; start < len(pairs); start += f.batchSize {
		end := start + f.batchSize
		if end > len(pairs) {
			end = len(pairs)
		}
		batch := pairs[start:end]

		g.Go(func() error {
			for _, pair := range batch {
				rows, err := f.fetchPair(gctx, pair, interval, since)
				mu.Lock()
				if err != nil {
					f.logger.Error("pair fetch failed",
						logger.String("pair", pair),
						logger.Error(err))
					f.metrics.RecordFetch("failure")
					result.Skipped = append(result.Skipped, pair)
				} else {
					f.metrics.RecordFetch("success")
					result.Series[pair] = rows
				}
				mu.Unlock()
			}
			return nil
		})
	}

	// Workers swallow per-pair errors, so Wait only observes ctx
	// cancellation.
	_ = g.Wait()
	return result
}

func (f *Fetcher) fetchPair(ctx context.Context, pair string, interval int, since int64) ([]models.RawCandle, error) {
	key := cacheKey(pair, interval, since)

	var cached []models.RawCandle
	if err := f.cache.Get(ctx, key, &cached); err == nil && len(cached) > 0 {
		f.logger.Debug("candle cache hit", logger.String("pair", pair))
		return cached, nil
	}

	rows, err := f.source.OHLC(ctx, pair, interval, since)
	if err != nil {
		return nil, err
	}

	if len(rows) > 0 {
		if err := f.cache.Set(ctx, key, rows, f.cacheTTL); err != nil {
			f.logger.Warn("candle cache write failed",
				logger.String("pair", pair),
				logger.Error(err))
		}
	}
	return rows, nil
}

func cacheKey(pair string, interval int, since int64) string {
	return cache.GenerateKeyWithParams("ohlc", pair, interval, since)
}
