package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nate99091/crypto/internal/domain/models"
	"github.com/Nate99091/crypto/pkg/config"
)

func TestCalibrateStdDev(t *testing.T) {
	c := NewCalibrator()
	values := []float64{1, 2, 3, 4, 5} // mean 3, population stddev sqrt(2)

	result, err := c.Calibrate(values, models.ThresholdSpec{Method: config.MethodStdDev, Parameter: 2})
	require.NoError(t, err)

	assert.InDelta(t, 3.0, result.Mean, 1e-9)
	assert.InDelta(t, 1.4142135623, result.StdDev, 1e-9)
	assert.InDelta(t, 3+2*1.4142135623, result.Threshold, 1e-9)
}

func TestCalibrateStdDevMonotonicInK(t *testing.T) {
	c := NewCalibrator()
	values := []float64{0.5, 1.0, 1.5, 2.0, 2.5}

	prev := -1.0
	for k := 1.0; k <= 4.0; k += 0.5 {
		result, err := c.Calibrate(values, models.ThresholdSpec{Method: config.MethodStdDev, Parameter: k})
		require.NoError(t, err)
		assert.Greater(t, result.Threshold, prev)
		prev = result.Threshold
	}
}

func TestCalibrateZeroVariance(t *testing.T) {
	c := NewCalibrator()
	values := []float64{2, 2, 2, 2}

	result, err := c.Calibrate(values, models.ThresholdSpec{Method: config.MethodStdDev, Parameter: 3})
	require.NoError(t, err)
	assert.Equal(t, 2.0, result.Threshold)
	assert.Zero(t, result.StdDev)
}

func TestCalibrateDefaultSpec(t *testing.T) {
	c := NewCalibrator()
	result, err := c.Calibrate([]float64{1, 2, 3}, models.ThresholdSpec{})
	require.NoError(t, err)
	assert.Equal(t, config.MethodStdDev, result.Spec.Method)
	assert.Equal(t, 2.0, result.Spec.Parameter)
}

func TestCalibratePercentile(t *testing.T) {
	c := NewCalibrator()
	values := []float64{1, 2, 3, 4, 5}

	result, err := c.Calibrate(values, models.ThresholdSpec{Method: config.MethodPercentile, Parameter: 50})
	require.NoError(t, err)
	assert.Equal(t, 3.0, result.Threshold)

	result, err = c.Calibrate(values, models.ThresholdSpec{Method: config.MethodPercentile, Parameter: 90})
	require.NoError(t, err)
	assert.InDelta(t, 4.6, result.Threshold, 1e-9)
}

func TestCalibratePercentileMonotonicInP(t *testing.T) {
	c := NewCalibrator()
	values := []float64{3, 1, 4, 1, 5, 9, 2, 6}

	prev := -1.0
	for p := 10.0; p < 100; p += 10 {
		result, err := c.Calibrate(values, models.ThresholdSpec{Method: config.MethodPercentile, Parameter: p})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, result.Threshold, prev)
		prev = result.Threshold
	}
}

func TestCalibratePercentileOutOfRange(t *testing.T) {
	c := NewCalibrator()
	_, err := c.Calibrate([]float64{1, 2}, models.ThresholdSpec{Method: config.MethodPercentile, Parameter: 100})
	assert.Error(t, err)

	_, err = c.Calibrate([]float64{1, 2}, models.ThresholdSpec{Method: config.MethodPercentile, Parameter: 0})
	assert.Error(t, err)
}

func TestCalibrateFixed(t *testing.T) {
	c := NewCalibrator()
	result, err := c.Calibrate([]float64{1, 2, 3}, models.ThresholdSpec{Method: config.MethodFixed, Parameter: 42})
	require.NoError(t, err)
	assert.Equal(t, 42.0, result.Threshold)
}

func TestCalibrateUnknownMethod(t *testing.T) {
	c := NewCalibrator()
	_, err := c.Calibrate([]float64{1}, models.ThresholdSpec{Method: "median", Parameter: 1})
	assert.ErrorContains(t, err, "unknown threshold method")
}

func TestIQRBounds(t *testing.T) {
	c := NewCalibrator()
	values := []float64{1, 2, 3, 4, 5}

	lower, upper := c.IQRBounds(values, 1.5)
	// Q1=2, Q3=4, IQR=2
	assert.InDelta(t, 2-3.0, lower, 1e-9)
	assert.InDelta(t, 4+3.0, upper, 1e-9)
}

func TestOutlierBounds(t *testing.T) {
	c := NewCalibrator()
	values := make([]float64, 0, 100)
	for i := 1; i <= 100; i++ {
		values = append(values, float64(i))
	}

	bounds := c.OutlierBounds(values, 5, 95)
	assert.Equal(t, 100, bounds.SampleSize)
	assert.InDelta(t, 5.95, bounds.Lower, 1e-9)
	assert.InDelta(t, 95.05, bounds.Upper, 1e-9)
	assert.Equal(t, 5, bounds.NumBelow)
	assert.Equal(t, 5, bounds.NumAbove)
}

func TestOutlierBoundsEmpty(t *testing.T) {
	c := NewCalibrator()
	bounds := c.OutlierBounds(nil, 1, 99)
	assert.Zero(t, bounds.SampleSize)
	assert.Zero(t, bounds.Lower)
	assert.Zero(t, bounds.Upper)
}
