package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorDeduplicates(t *testing.T) {
	c := NewCollector()

	c.Add("pair fetch failed", map[string]interface{}{"pair": "XBT/USD"})
	c.Add("pair fetch failed", map[string]interface{}{"pair": "XBT/USD"})
	c.Add("pair fetch failed", map[string]interface{}{"pair": "ETH/USD"})

	assert.Equal(t, 2, c.Len())

	entries := c.Snapshot()
	require.Len(t, entries, 2)

	counts := map[string]int{}
	for _, e := range entries {
		assert.Equal(t, "pair fetch failed", e.Message)
		counts[e.Fields["pair"].(string)] = e.Count
	}
	assert.Equal(t, 2, counts["XBT/USD"])
	assert.Equal(t, 1, counts["ETH/USD"])
}

func TestCollectorSnapshotResets(t *testing.T) {
	c := NewCollector()
	c.Add("boom", nil)

	require.Len(t, c.Snapshot(), 1)
	assert.Zero(t, c.Len())
	assert.Empty(t, c.Snapshot())
}

func TestLoggerFeedsCollector(t *testing.T) {
	log, err := New(&Config{Level: "error", Format: "json", Output: "stderr"})
	require.NoError(t, err)

	c := NewCollector()
	log = log.WithCollector(c)

	log.Error("something failed", String("pair", "XBT/USD"))
	log.Info("informational", String("pair", "XBT/USD"))

	// Only error-level logs are collected.
	assert.Equal(t, 1, c.Len())
	assert.Same(t, c, log.Collector())
}
