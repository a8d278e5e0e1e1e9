package usecase

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nate99091/crypto/internal/domain/models"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteTrades(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "trades.csv")
	w := NewArtifactWriter(path, "")

	candidates := []models.TradeCandidate{
		{
			DiscrepancyRecord: record(1700000000, 2.0, 1.5),
			Profit:            3.0,
			Weight:            0.5,
			WeightedProfit:    1.5,
			CumulativeProfit:  3.0,
		},
	}
	require.NoError(t, w.WriteTrades(candidates))

	rows := readCSV(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, "timestamp", rows[0][0])
	assert.Equal(t, "1700000000", rows[1][0])
	assert.Equal(t, "A/USD", rows[1][1])
	assert.Equal(t, "3", rows[1][8])
}

func TestWriteOutliersFiltersInBounds(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "outliers.csv")
	w := NewArtifactWriter("", path)

	records := []models.DiscrepancyRecord{
		record(0, -5.0, 1),
		record(900, 1.0, 1),
		record(1800, 9.0, 1),
	}
	bounds := models.OutlierBounds{Lower: 0, Upper: 5}
	require.NoError(t, w.WriteOutliers(records, bounds))

	rows := readCSV(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, "below", rows[1][6])
	assert.Equal(t, "above", rows[2][6])
}

func TestWriteDisabledPaths(t *testing.T) {
	w := NewArtifactWriter("", "")
	assert.NoError(t, w.WriteTrades(nil))
	assert.NoError(t, w.WriteOutliers(nil, models.OutlierBounds{}))
}
