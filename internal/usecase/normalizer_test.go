package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nate99091/crypto/internal/domain/models"
)

func rawCandle(ts int64, close string) models.RawCandle {
	return models.RawCandle{
		Timestamp: ts,
		Open:      close,
		High:      close,
		Low:       close,
		Close:     close,
		VWAP:      close,
		Volume:    "1.0",
	}
}

func TestNormalizeSortsAndCoerces(t *testing.T) {
	n := NewNormalizer()

	series, err := n.Normalize("XBT/USD", 15, []models.RawCandle{
		rawCandle(1700000900, "101.5"),
		rawCandle(1700000000, "100.25"),
	})
	require.NoError(t, err)

	assert.Equal(t, "XBT/USD", series.Pair)
	assert.Equal(t, 15, series.Interval)
	require.Equal(t, 2, series.Len())
	assert.Equal(t, int64(1700000000), series.Candles[0].Timestamp)
	assert.Equal(t, 100.25, series.Candles[0].Close)
	assert.Equal(t, int64(1700000900), series.Candles[1].Timestamp)
	assert.Equal(t, 1.0, series.Candles[1].Volume)
}

func TestNormalizeRejectsShortSeries(t *testing.T) {
	n := NewNormalizer()

	_, err := n.Normalize("XBT/USD", 15, nil)
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = n.Normalize("XBT/USD", 15, []models.RawCandle{rawCandle(1700000000, "100")})
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestNormalizeDeduplicatesTimestamps(t *testing.T) {
	n := NewNormalizer()

	series, err := n.Normalize("XBT/USD", 15, []models.RawCandle{
		rawCandle(1700000000, "100"),
		rawCandle(1700000000, "999"),
		rawCandle(1700000900, "101"),
	})
	require.NoError(t, err)

	require.Equal(t, 2, series.Len())
	assert.Equal(t, 100.0, series.Candles[0].Close)
}

func TestNormalizeDropsUnparseableRows(t *testing.T) {
	n := NewNormalizer()

	bad := rawCandle(1700000450, "100.5")
	bad.Close = "not-a-number"

	series, err := n.Normalize("XBT/USD", 15, []models.RawCandle{
		rawCandle(1700000000, "100"),
		bad,
		rawCandle(1700000900, "101"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, series.Len())

	// All usable rows gone after coercion failures counts as insufficient.
	_, err = n.Normalize("XBT/USD", 15, []models.RawCandle{bad, bad})
	assert.ErrorIs(t, err, ErrInsufficientData)
}
