package fees

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nate99091/crypto/internal/domain/models"
)

func TestLookupDefault(t *testing.T) {
	table := NewTable(0.0026)
	assert.Equal(t, 0.0026, table.Lookup("XBT/USD"))
}

func TestMergeAndLookup(t *testing.T) {
	table := NewTable(0.0026)
	table.Merge(map[string]models.FeeEntry{
		"XBT/USD": {Pair: "XBT/USD", TakerFee: 0.0020},
	})

	assert.Equal(t, 0.0020, table.Lookup("XBT/USD"))
	assert.Equal(t, 0.0026, table.Lookup("ETH/USD"))
	assert.Equal(t, 1, table.Len())
}

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fees.csv")
	content := "Pair,TakerFee%,MakerFee%\nXBT/USD,0.26,0.16\nETH/USD,0.20,\n\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	table := NewTable(0.0026)
	require.NoError(t, table.LoadCSV(path))

	assert.InDelta(t, 0.0026, table.Lookup("XBT/USD"), 1e-12)
	assert.InDelta(t, 0.0020, table.Lookup("ETH/USD"), 1e-12)
	assert.Equal(t, 2, table.Len())
}

func TestLoadCSVMissingFile(t *testing.T) {
	table := NewTable(0.0026)
	assert.Error(t, table.LoadCSV(filepath.Join(t.TempDir(), "nope.csv")))
}

func TestWriteCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fees.csv")

	table := NewTable(0.0026)
	table.Merge(map[string]models.FeeEntry{
		"XBT/USD": {Pair: "XBT/USD", TakerFee: 0.0026, MakerFee: 0.0016},
		"ETH/USD": {Pair: "ETH/USD", TakerFee: 0.0020},
	})
	require.NoError(t, table.WriteCSV(path))

	loaded := NewTable(0.01)
	require.NoError(t, loaded.LoadCSV(path))
	assert.InDelta(t, 0.0026, loaded.Lookup("XBT/USD"), 1e-12)
	assert.InDelta(t, 0.0020, loaded.Lookup("ETH/USD"), 1e-12)
}
