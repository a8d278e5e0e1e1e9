package usecase

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Nate99091/crypto/internal/domain/models"
)

// ArtifactWriter exports run results as flat CSV tables.
type ArtifactWriter struct {
	tradesFile   string
	outliersFile string
}

// NewArtifactWriter creates a writer targeting the configured file paths.
// Empty paths disable the corresponding artifact.
func NewArtifactWriter(tradesFile, outliersFile string) *ArtifactWriter {
	return &ArtifactWriter{
		tradesFile:   tradesFile,
		outliersFile: outliersFile,
	}
}

// WriteTrades exports scored trade candidates with cumulative profit.
func (w *ArtifactWriter) WriteTrades(candidates []models.TradeCandidate) error {
	if w.tradesFile == "" {
		return nil
	}

	records := make([][]string, 0, len(candidates)+1)
	records = append(records, []string{
		"timestamp", "pair_a", "pair_b", "price_a", "price_b",
		"raw", "adjusted", "volume_a", "profit", "weight", "cumulative_profit",
	})
	for i := range candidates {
		c := &candidates[i]
		records = append(records, []string{
			strconv.FormatInt(c.Timestamp, 10),
			c.PairA,
			c.PairB,
			formatFloat(c.PriceA),
			formatFloat(c.PriceB),
			formatFloat(c.Raw),
			formatFloat(c.Adjusted),
			formatFloat(c.VolumeA),
			formatFloat(c.Profit),
			formatFloat(c.Weight),
			formatFloat(c.CumulativeProfit),
		})
	}
	return writeCSV(w.tradesFile, records)
}

// WriteOutliers exports records outside the calibrated percentile bounds.
func (w *ArtifactWriter) WriteOutliers(records []models.DiscrepancyRecord, bounds models.OutlierBounds) error {
	if w.outliersFile == "" {
		return nil
	}

	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, []string{
		"timestamp", "pair_a", "pair_b", "adjusted", "lower_bound", "upper_bound", "side",
	})
	for i := range records {
		r := &records[i]
		side := ""
		switch {
		case r.Adjusted < bounds.Lower:
			side = "below"
		case r.Adjusted > bounds.Upper:
			side = "above"
		default:
			continue
		}
		rows = append(rows, []string{
			strconv.FormatInt(r.Timestamp, 10),
			r.PairA,
			r.PairB,
			formatFloat(r.Adjusted),
			formatFloat(bounds.Lower),
			formatFloat(bounds.Upper),
			side,
		})
	}
	return writeCSV(w.outliersFile, rows)
}

func writeCSV(path string, records [][]string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create artifact dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create artifact file: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("write artifact file: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
