package usecase

import (
	"math"

	"github.com/Nate99091/crypto/internal/domain/models"
)

// Scorer filters discrepancy records against a threshold and computes
// profit and risk metrics.
type Scorer struct{}

// NewScorer creates a Scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score filters records to candidates with adjusted discrepancy above the
// threshold and aggregates profit metrics. Empty candidate sets are a
// normal outcome with zero metrics.
func (s *Scorer) Score(records []models.DiscrepancyRecord, threshold, stdDev float64) models.BacktestResult {
	result := models.BacktestResult{Threshold: threshold}

	var cumulative float64
	profits := make([]float64, 0, len(records))

	for i := range records {
		rec := &records[i]
		if rec.Adjusted <= threshold {
			continue
		}

		profit := rec.Adjusted * rec.VolumeA
		weight := proximityWeight(rec.Adjusted, threshold, stdDev)
		cumulative += profit

		result.Candidates = append(result.Candidates, models.TradeCandidate{
			DiscrepancyRecord: *rec,
			Profit:            profit,
			Weight:            weight,
			WeightedProfit:    profit * weight,
			CumulativeProfit:  cumulative,
		})
		profits = append(profits, profit)
		result.TotalProfit += profit
		result.WeightedProfit += profit * weight
	}

	result.TradeCount = len(result.Candidates)
	if result.TradeCount == 0 {
		return result
	}

	result.SharpeRatio = sharpe(profits)
	result.SortinoRatio = sortino(profits)
	return result
}

// Sweep evaluates stdDev multipliers from min to max (inclusive, in step
// increments) against the record set and picks the one maximizing weighted
// profit. Ties go to the smallest multiplier.
func (s *Scorer) Sweep(records []models.DiscrepancyRecord, mean, stdDev, min, max, step float64) models.SweepResult {
	var sweep models.SweepResult

	steps := int(math.Floor((max-min)/step + 0.5))
	for i := 0; i <= steps; i++ {
		m := min + float64(i)*step
		threshold := mean + m*stdDev
		scored := s.Score(records, threshold, stdDev)

		point := models.SweepPoint{
			Multiplier:     m,
			Threshold:      threshold,
			TradeCount:     scored.TradeCount,
			TotalProfit:    scored.TotalProfit,
			WeightedProfit: scored.WeightedProfit,
		}
		sweep.Points = append(sweep.Points, point)

		if i == 0 || point.WeightedProfit > sweep.Best.WeightedProfit {
			sweep.Best = point
		}
	}
	return sweep
}

// proximityWeight grows with distance above the threshold, from 0 at the
// threshold toward 1 for strong outliers, so unambiguous opportunities are
// never scored below marginal ones. The clamp guards exp against extreme
// inputs.
func proximityWeight(adjusted, threshold, stdDev float64) float64 {
	if stdDev == 0 {
		return 1
	}
	distance := (adjusted - threshold) / stdDev
	if distance < 0 {
		distance = 0
	} else if distance > 10 {
		distance = 10
	}
	return 1 - math.Exp(-distance)
}

func sharpe(profits []float64) float64 {
	mu := mean(profits)
	sigma := populationStdDev(profits, mu)
	if sigma == 0 {
		return 0
	}
	return mu / sigma
}

func sortino(profits []float64) float64 {
	var downside []float64
	for _, p := range profits {
		if p < 0 {
			downside = append(downside, p)
		}
	}
	if len(downside) == 0 {
		return 0
	}
	sigma := populationStdDev(downside, mean(downside))
	if sigma == 0 {
		return 0
	}
	return mean(profits) / sigma
}
