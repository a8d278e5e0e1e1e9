package models

import "fmt"

// DiscrepancyRecord is one timestamp-aligned price comparison between two
// pairs. Raw is the absolute close difference, Adjusted subtracts both legs'
// taker fees in price terms.
type DiscrepancyRecord struct {
	Timestamp int64   `json:"timestamp"`
	PairA     string  `json:"pair_a"`
	PairB     string  `json:"pair_b"`
	PriceA    float64 `json:"price_a"`
	PriceB    float64 `json:"price_b"`
	Raw       float64 `json:"raw"`
	Adjusted  float64 `json:"adjusted"`
	VolumeA   float64 `json:"volume_a"`
}

// Key identifies a record for deduplication.
func (r *DiscrepancyRecord) Key() string {
	return fmt.Sprintf("%s|%s|%d", r.PairA, r.PairB, r.Timestamp)
}

// ThresholdSpec names a calibration method and its parameter.
type ThresholdSpec struct {
	Method    string  `json:"method"`
	Parameter float64 `json:"parameter"`
}

// ThresholdResult is the calibrated threshold plus the distribution moments
// it was derived from.
type ThresholdResult struct {
	Spec      ThresholdSpec `json:"spec"`
	Threshold float64       `json:"threshold"`
	Mean      float64       `json:"mean"`
	StdDev    float64       `json:"std_dev"`
	Count     int           `json:"count"`
}

// OutlierBounds are the percentile clip bounds of a discrepancy
// distribution.
type OutlierBounds struct {
	Lower      float64 `json:"lower"`
	Upper      float64 `json:"upper"`
	LowerPct   float64 `json:"lower_pct"`
	UpperPct   float64 `json:"upper_pct"`
	NumBelow   int     `json:"num_below"`
	NumAbove   int     `json:"num_above"`
	SampleSize int     `json:"sample_size"`
}
