package usecase

import (
	"fmt"
	"math"
	"sort"

	"github.com/Nate99091/crypto/internal/domain/models"
	"github.com/Nate99091/crypto/pkg/config"
)

// Calibrator resolves threshold specs against discrepancy distributions.
type Calibrator struct{}

// NewCalibrator creates a Calibrator.
func NewCalibrator() *Calibrator {
	return &Calibrator{}
}

// DefaultSpec is used when no spec is configured: mean + 2 sigma of the
// candidate distribution itself.
func DefaultSpec() models.ThresholdSpec {
	return models.ThresholdSpec{Method: config.MethodStdDev, Parameter: 2}
}

// Calibrate resolves spec to a scalar cutoff over values. An empty value
// set yields a zero threshold. An unknown method or out-of-range parameter
// is a configuration failure.
func (c *Calibrator) Calibrate(values []float64, spec models.ThresholdSpec) (models.ThresholdResult, error) {
	if spec.Method == "" {
		spec = DefaultSpec()
	}

	result := models.ThresholdResult{
		Spec:  spec,
		Count: len(values),
	}
	if len(values) > 0 {
		result.Mean = mean(values)
		result.StdDev = populationStdDev(values, result.Mean)
	}

	switch spec.Method {
	case config.MethodFixed:
		result.Threshold = spec.Parameter
	case config.MethodStdDev:
		// Zero variance degrades to the mean.
		result.Threshold = result.Mean + spec.Parameter*result.StdDev
	case config.MethodPercentile:
		if spec.Parameter <= 0 || spec.Parameter >= 100 {
			return result, fmt.Errorf("percentile parameter %v out of range (0, 100)", spec.Parameter)
		}
		result.Threshold = percentile(values, spec.Parameter)
	case config.MethodIQR:
		// IQR resolves to the upper bound when used as an entry cutoff;
		// Bounds returns the full pair.
		_, upper := c.iqrBounds(values, spec.Parameter)
		result.Threshold = upper
	default:
		return result, fmt.Errorf("unknown threshold method %q", spec.Method)
	}
	return result, nil
}

// IQRBounds returns [Q1 - m*IQR, Q3 + m*IQR] for outlier detection.
func (c *Calibrator) IQRBounds(values []float64, multiplier float64) (float64, float64) {
	return c.iqrBounds(values, multiplier)
}

func (c *Calibrator) iqrBounds(values []float64, multiplier float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	q1 := percentile(values, 25)
	q3 := percentile(values, 75)
	iqr := q3 - q1
	return q1 - multiplier*iqr, q3 + multiplier*iqr
}

// OutlierBounds clips the distribution at the given percentiles and counts
// how many records fall outside.
func (c *Calibrator) OutlierBounds(values []float64, lowerPct, upperPct float64) models.OutlierBounds {
	bounds := models.OutlierBounds{
		LowerPct:   lowerPct,
		UpperPct:   upperPct,
		SampleSize: len(values),
	}
	if len(values) == 0 {
		return bounds
	}

	bounds.Lower = percentile(values, lowerPct)
	bounds.Upper = percentile(values, upperPct)
	for _, v := range values {
		if v < bounds.Lower {
			bounds.NumBelow++
		} else if v > bounds.Upper {
			bounds.NumAbove++
		}
	}
	return bounds
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func populationStdDev(values []float64, mu float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		d := v - mu
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}

// percentile uses linear interpolation between closest ranks.
func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if len(sorted) == 1 {
		return sorted[0]
	}

	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo < 0 {
		return sorted[0]
	}
	if hi >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}
