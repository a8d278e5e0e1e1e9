package usecase

import (
	"math"

	"github.com/Nate99091/crypto/internal/domain/models"
	"github.com/Nate99091/crypto/internal/domain/repository"
)

// Analyzer aligns two series on timestamp and computes fee-adjusted price
// discrepancies.
type Analyzer struct {
	fees repository.FeeSource
	seen map[[2]string]struct{}
}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer(fees repository.FeeSource) *Analyzer {
	return &Analyzer{
		fees: fees,
		seen: make(map[[2]string]struct{}),
	}
}

// Reset clears the seen-set before a new run.
func (a *Analyzer) Reset() {
	a.seen = make(map[[2]string]struct{})
}

// Analyze inner-joins the two series on timestamp and emits one record per
// shared timestamp, ascending. An unordered pair already analyzed this run
// (in either argument order) returns nil. Identical pairs return nil.
func (a *Analyzer) Analyze(seriesA, seriesB *models.Series) []models.DiscrepancyRecord {
	if seriesA == nil || seriesB == nil || seriesA.Pair == seriesB.Pair {
		return nil
	}

	key := pairKey(seriesA.Pair, seriesB.Pair)
	if _, done := a.seen[key]; done {
		return nil
	}
	a.seen[key] = struct{}{}

	feeA := a.fees.Lookup(seriesA.Pair)
	feeB := a.fees.Lookup(seriesB.Pair)

	byTimestamp := make(map[int64]*models.Candle, seriesB.Len())
	for i := range seriesB.Candles {
		c := &seriesB.Candles[i]
		byTimestamp[c.Timestamp] = c
	}

	var records []models.DiscrepancyRecord
	for i := range seriesA.Candles {
		ca := &seriesA.Candles[i]
		cb, ok := byTimestamp[ca.Timestamp]
		if !ok {
			continue
		}

		raw := math.Abs(ca.Close - cb.Close)
		records = append(records, models.DiscrepancyRecord{
			Timestamp: ca.Timestamp,
			PairA:     seriesA.Pair,
			PairB:     seriesB.Pair,
			PriceA:    ca.Close,
			PriceB:    cb.Close,
			Raw:       raw,
			Adjusted:  raw - (feeA + feeB),
			VolumeA:   ca.Volume,
		})
	}
	return records
}

// AnalyzeAll walks every unordered 2-combination of the given series, in
// slice order, and concatenates the per-combination record sets.
func (a *Analyzer) AnalyzeAll(series []*models.Series) []models.DiscrepancyRecord {
	var records []models.DiscrepancyRecord
	for i := 0; i < len(series); i++ {
		for j := i + 1; j < len(series); j++ {
			records = append(records, a.Analyze(series[i], series[j])...)
		}
	}
	return records
}

func pairKey(a, b string) [2]string {
	if a > b {
		a, b = b, a
	}
	return [2]string{a, b}
}
