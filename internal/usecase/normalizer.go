package usecase

import (
	"errors"
	"sort"
	"strconv"

	"github.com/Nate99091/crypto/internal/domain/models"
)

// ErrInsufficientData marks a series too short for pairwise comparison.
// It is a skip signal, not a failure.
var ErrInsufficientData = errors.New("insufficient candle data")

// Normalizer converts raw exchange candle rows into canonical series.
type Normalizer struct{}

// NewNormalizer creates a Normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize produces an immutable series from raw rows: numeric coercion,
// dedup by timestamp (first occurrence wins), ascending sort. Returns
// ErrInsufficientData when fewer than 2 usable rows remain.
func (n *Normalizer) Normalize(pair string, interval int, raw []models.RawCandle) (*models.Series, error) {
	if len(raw) < 2 {
		return nil, ErrInsufficientData
	}

	seen := make(map[int64]struct{}, len(raw))
	candles := make([]models.Candle, 0, len(raw))
	for i := range raw {
		row := &raw[i]
		if _, dup := seen[row.Timestamp]; dup {
			continue
		}

		closePrice, err := strconv.ParseFloat(row.Close, 64)
		if err != nil {
			continue
		}
		seen[row.Timestamp] = struct{}{}

		candles = append(candles, models.Candle{
			Timestamp:  row.Timestamp,
			Open:       parseOrZero(row.Open),
			High:       parseOrZero(row.High),
			Low:        parseOrZero(row.Low),
			Close:      closePrice,
			VWAP:       parseOrZero(row.VWAP),
			Volume:     parseOrZero(row.Volume),
			TradeCount: row.TradeCount,
		})
	}

	if len(candles) < 2 {
		return nil, ErrInsufficientData
	}

	sort.Slice(candles, func(i, j int) bool {
		return candles[i].Timestamp < candles[j].Timestamp
	})

	return &models.Series{
		Pair:     pair,
		Interval: interval,
		Candles:  candles,
	}, nil
}

func parseOrZero(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
