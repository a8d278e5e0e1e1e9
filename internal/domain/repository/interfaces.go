package repository

import (
	"context"

	"github.com/Nate99091/crypto/internal/domain/models"
)

// MarketSource provides exchange market data.
type MarketSource interface {
	// AssetPairs returns tradeable pair names and their fee schedules.
	AssetPairs(ctx context.Context) ([]string, map[string]models.FeeEntry, error)
	// OHLC returns raw candle rows for one pair at the given interval in
	// minutes, starting at since (unix seconds, 0 for exchange default).
	OHLC(ctx context.Context, pair string, interval int, since int64) ([]models.RawCandle, error)
}

// FeeSource resolves per-pair trading fees.
type FeeSource interface {
	// Lookup returns the taker fee for pair, falling back to the default
	// fee when the pair is unknown.
	Lookup(pair string) float64
}

// HistoryStore persists discrepancy records across runs.
type HistoryStore interface {
	// Load returns all stored records, ascending by pair combination and
	// timestamp.
	Load(ctx context.Context) ([]models.DiscrepancyRecord, error)
	// AppendIfNew inserts records whose (pairA, pairB, timestamp) key is
	// not already present and returns how many were inserted.
	AppendIfNew(ctx context.Context, records []models.DiscrepancyRecord) (int, error)
	Close() error
}

// Publisher emits discrepancy records to downstream consumers.
type Publisher interface {
	PublishRecords(ctx context.Context, records []models.DiscrepancyRecord) error
	Close() error
}
