package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nate99091/crypto/internal/domain/models"
)

type fixedFees struct {
	fees       map[string]float64
	defaultFee float64
}

func (f fixedFees) Lookup(pair string) float64 {
	if v, ok := f.fees[pair]; ok {
		return v
	}
	return f.defaultFee
}

func series(pair string, candles ...models.Candle) *models.Series {
	return &models.Series{Pair: pair, Interval: 15, Candles: candles}
}

func candle(ts int64, close, volume float64) models.Candle {
	return models.Candle{Timestamp: ts, Close: close, Volume: volume}
}

func TestAnalyzeFeeAdjustment(t *testing.T) {
	a := NewAnalyzer(fixedFees{defaultFee: 0.0026})

	sa := series("A/USD", candle(0, 100, 1), candle(900, 102, 2))
	sb := series("B/USD", candle(0, 101, 1), candle(900, 95, 1))

	records := a.Analyze(sa, sb)
	require.Len(t, records, 2)

	assert.Equal(t, 1.0, records[0].Raw)
	assert.InDelta(t, 0.9948, records[0].Adjusted, 1e-9)
	assert.Equal(t, 7.0, records[1].Raw)
	assert.InDelta(t, 6.9948, records[1].Adjusted, 1e-9)
	assert.Equal(t, 2.0, records[1].VolumeA)
}

func TestAnalyzeInnerJoin(t *testing.T) {
	a := NewAnalyzer(fixedFees{defaultFee: 0})

	sa := series("A/USD", candle(0, 100, 1), candle(900, 102, 1), candle(1800, 103, 1))
	sb := series("B/USD", candle(900, 95, 1), candle(2700, 96, 1))

	records := a.Analyze(sa, sb)
	require.Len(t, records, 1)
	assert.Equal(t, int64(900), records[0].Timestamp)
}

func TestAnalyzeUnorderedPairDedup(t *testing.T) {
	a := NewAnalyzer(fixedFees{defaultFee: 0})

	sa := series("A/USD", candle(0, 100, 1), candle(900, 102, 1))
	sb := series("B/USD", candle(0, 101, 1), candle(900, 95, 1))

	first := a.Analyze(sa, sb)
	require.Len(t, first, 2)

	// Reversed argument order is the same unordered pair.
	second := a.Analyze(sb, sa)
	assert.Nil(t, second)

	a.Reset()
	third := a.Analyze(sb, sa)
	assert.Len(t, third, 2)
}

func TestAnalyzeIdenticalPair(t *testing.T) {
	a := NewAnalyzer(fixedFees{defaultFee: 0})
	sa := series("A/USD", candle(0, 100, 1), candle(900, 102, 1))
	assert.Nil(t, a.Analyze(sa, sa))
}

func TestAnalyzeAscendingTimestamps(t *testing.T) {
	a := NewAnalyzer(fixedFees{defaultFee: 0})

	sa := series("A/USD", candle(0, 100, 1), candle(900, 102, 1), candle(1800, 103, 1))
	sb := series("B/USD", candle(0, 99, 1), candle(900, 101, 1), candle(1800, 104, 1))

	records := a.Analyze(sa, sb)
	require.Len(t, records, 3)
	for i := 1; i < len(records); i++ {
		assert.Greater(t, records[i].Timestamp, records[i-1].Timestamp)
	}
}

func TestAnalyzePerPairFeeLookup(t *testing.T) {
	a := NewAnalyzer(fixedFees{
		fees:       map[string]float64{"A/USD": 0.001},
		defaultFee: 0.0026,
	})

	sa := series("A/USD", candle(0, 100, 1), candle(900, 101, 1))
	sb := series("B/USD", candle(0, 98, 1), candle(900, 99, 1))

	records := a.Analyze(sa, sb)
	require.Len(t, records, 2)
	// feeA 0.001 + feeB default 0.0026
	assert.InDelta(t, 2-0.0036, records[0].Adjusted, 1e-9)
}

func TestAnalyzeAllCombinations(t *testing.T) {
	a := NewAnalyzer(fixedFees{defaultFee: 0})

	all := []*models.Series{
		series("A/USD", candle(0, 100, 1), candle(900, 101, 1)),
		series("B/USD", candle(0, 99, 1), candle(900, 100, 1)),
		series("C/USD", candle(0, 98, 1), candle(900, 99, 1)),
	}

	records := a.AnalyzeAll(all)
	// 3 unordered combinations, 2 joined timestamps each.
	assert.Len(t, records, 6)
}
