package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nate99091/crypto/internal/domain/models"
	"github.com/Nate99091/crypto/pkg/cache"
	"github.com/Nate99091/crypto/pkg/logger"
	"github.com/Nate99091/crypto/pkg/metrics"
)

type fakeSource struct {
	mu         sync.Mutex
	pairs      []string
	fees       map[string]models.FeeEntry
	catalogErr error
	candles    map[string][]models.RawCandle
	failPairs  map[string]error
	ohlcCalls  map[string]int
}

func (f *fakeSource) AssetPairs(context.Context) ([]string, map[string]models.FeeEntry, error) {
	if f.catalogErr != nil {
		return nil, nil, f.catalogErr
	}
	return f.pairs, f.fees, nil
}

func (f *fakeSource) OHLC(_ context.Context, pair string, _ int, _ int64) ([]models.RawCandle, error) {
	f.mu.Lock()
	if f.ohlcCalls == nil {
		f.ohlcCalls = make(map[string]int)
	}
	f.ohlcCalls[pair]++
	f.mu.Unlock()

	if err, ok := f.failPairs[pair]; ok {
		return nil, err
	}
	return f.candles[pair], nil
}

func (f *fakeSource) calls(pair string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ohlcCalls[pair]
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	require.NoError(t, err)
	return log
}

func testRecorder() *metrics.Recorder {
	return metrics.NewWithRegistry(prometheus.NewRegistry())
}

func TestFetchAllExcludesFailedPairs(t *testing.T) {
	source := &fakeSource{
		candles: map[string][]models.RawCandle{
			"XBT/USD": {rawCandle(1, "100"), rawCandle(2, "101")},
			"ETH/USD": {rawCandle(1, "50"), rawCandle(2, "51")},
		},
		failPairs: map[string]error{
			"DOGE/USD": errors.New("connection reset"),
		},
	}

	f := NewFetcher(source, cache.Nop{}, 0, 2, testLogger(t), testRecorder())
	result := f.FetchAll(context.Background(), []string{"XBT/USD", "ETH/USD", "DOGE/USD"}, 15, 0)

	assert.Len(t, result.Series, 2)
	assert.Contains(t, result.Series, "XBT/USD")
	assert.Contains(t, result.Series, "ETH/USD")
	assert.Equal(t, []string{"DOGE/USD"}, result.Skipped)
}

func TestFetchAllEmptyPairList(t *testing.T) {
	f := NewFetcher(&fakeSource{}, cache.Nop{}, 0, 10, testLogger(t), testRecorder())
	result := f.FetchAll(context.Background(), nil, 15, 0)

	assert.Empty(t, result.Series)
	assert.Empty(t, result.Skipped)
}

func TestFetchAllUsesCache(t *testing.T) {
	source := &fakeSource{
		candles: map[string][]models.RawCandle{
			"XBT/USD": {rawCandle(1, "100"), rawCandle(2, "101")},
		},
	}
	mem := cache.NewMemoryCache()
	defer mem.Close()

	f := NewFetcher(source, mem, time.Minute, 10, testLogger(t), testRecorder())

	first := f.FetchAll(context.Background(), []string{"XBT/USD"}, 15, 0)
	require.Len(t, first.Series["XBT/USD"], 2)

	second := f.FetchAll(context.Background(), []string{"XBT/USD"}, 15, 0)
	require.Len(t, second.Series["XBT/USD"], 2)

	assert.Equal(t, 1, source.calls("XBT/USD"))
}

func TestCatalogFailureReturnsEmpty(t *testing.T) {
	source := &fakeSource{catalogErr: errors.New("boom")}
	f := NewFetcher(source, cache.Nop{}, 0, 10, testLogger(t), testRecorder())

	pairs, fees := f.Catalog(context.Background())
	assert.Nil(t, pairs)
	assert.Nil(t, fees)
}

func TestCatalogReturnsPairsAndFees(t *testing.T) {
	source := &fakeSource{
		pairs: []string{"XBT/USD"},
		fees: map[string]models.FeeEntry{
			"XBT/USD": {Pair: "XBT/USD", TakerFee: 0.0026},
		},
	}
	f := NewFetcher(source, cache.Nop{}, 0, 10, testLogger(t), testRecorder())

	pairs, fees := f.Catalog(context.Background())
	assert.Equal(t, []string{"XBT/USD"}, pairs)
	assert.Equal(t, 0.0026, fees["XBT/USD"].TakerFee)
}
