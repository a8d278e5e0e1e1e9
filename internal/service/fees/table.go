package fees

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/Nate99091/crypto/internal/domain/models"
	"github.com/Nate99091/crypto/pkg/util"
)

// Table resolves per-pair taker fees with a configurable default for
// unknown pairs.
type Table struct {
	mu         sync.RWMutex
	entries    map[string]models.FeeEntry
	defaultFee float64
}

// NewTable creates an empty fee table with the given default fee fraction.
func NewTable(defaultFee float64) *Table {
	return &Table{
		entries:    make(map[string]models.FeeEntry),
		defaultFee: defaultFee,
	}
}

// Lookup returns the taker fee for pair, or the default when unknown.
func (t *Table) Lookup(pair string) float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if e, ok := t.entries[pair]; ok {
		return e.TakerFee
	}
	return t.defaultFee
}

// Merge adds or replaces entries, typically from the exchange catalog.
func (t *Table) Merge(entries map[string]models.FeeEntry) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for pair, e := range entries {
		t.entries[pair] = e
	}
}

// Len returns the number of known pairs.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// LoadCSV reads a fee file with header Pair,TakerFee%,MakerFee%. Fees in
// the file are percent and are stored as fractions.
func (t *Table) LoadCSV(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open fee file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("read fee file: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	// First row is the header.
	for _, row := range rows[1:] {
		if len(row) < 2 || row[0] == "" {
			continue
		}
		entry := models.FeeEntry{
			Pair:     row[0],
			TakerFee: util.ParseFloat(row[1], t.defaultFee*100) / 100,
		}
		if len(row) >= 3 {
			entry.MakerFee = util.ParseFloat(row[2], 0) / 100
		}
		t.entries[entry.Pair] = entry
	}
	return nil
}

// WriteCSV exports the table in the same format LoadCSV reads, pairs
// sorted for stable output.
func (t *Table) WriteCSV(path string) error {
	t.mu.RLock()
	pairs := make([]string, 0, len(t.entries))
	for pair := range t.entries {
		pairs = append(pairs, pair)
	}
	sort.Strings(pairs)

	records := make([][]string, 0, len(pairs)+1)
	records = append(records, []string{"Pair", "TakerFee%", "MakerFee%"})
	for _, pair := range pairs {
		e := t.entries[pair]
		records = append(records, []string{
			pair,
			fmt.Sprintf("%g", e.TakerFee*100),
			fmt.Sprintf("%g", e.MakerFee*100),
		})
	}
	t.mu.RUnlock()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create fee file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("write fee file: %w", err)
	}
	return nil
}
