package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const minimalConfig = `
environment: test
`

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "https://api.kraken.com", cfg.Exchange.BaseURL)
	assert.Equal(t, 10, cfg.Fetch.BatchSize)
	assert.Equal(t, 15, cfg.Fetch.Interval)
	assert.Equal(t, 0.0026, cfg.Fees.DefaultFee)
	assert.Equal(t, MethodStdDev, cfg.Threshold.Method)
	assert.Equal(t, 2.0, cfg.Threshold.Parameter)
	assert.Equal(t, 1.0, cfg.Sweep.Min)
	assert.Equal(t, 5.0, cfg.Sweep.Max)
	assert.Equal(t, "file", cfg.Cache.Backend)
	assert.Equal(t, "arb.discrepancies", cfg.Kafka.Topic)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
environment: test
fetch:
  batch_size: 3
  interval: 60
threshold:
  method: percentile
  parameter: 95
`))
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Fetch.BatchSize)
	assert.Equal(t, 60, cfg.Fetch.Interval)
	assert.Equal(t, MethodPercentile, cfg.Threshold.Method)
	assert.Equal(t, 95.0, cfg.Threshold.Parameter)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"zero batch size", "environment: test\nfetch:\n  batch_size: -1\n"},
		{"fee out of range", "environment: test\nfees:\n  default_fee: 1.5\n"},
		{"unknown threshold method", "environment: test\nthreshold:\n  method: median\n"},
		{"percentile out of range", "environment: test\nthreshold:\n  method: percentile\n  parameter: 120\n"},
		{"bad sweep step", "environment: test\nsweep:\n  enabled: true\n  step: -0.1\n"},
		{"unknown cache backend", "environment: test\ncache:\n  backend: mongo\n"},
		{"kafka without brokers", "environment: test\nkafka:\n  enabled: true\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("EXCHANGE_BASE_URL", "http://localhost:9999")
	t.Setenv("PAIRS", "XBT/USD,ETH/USD")
	t.Setenv("BATCH_SIZE", "5")

	cfg, err := LoadWithEnv(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9999", cfg.Exchange.BaseURL)
	assert.Equal(t, []string{"XBT/USD", "ETH/USD"}, cfg.Exchange.Pairs)
	assert.Equal(t, 5, cfg.Fetch.BatchSize)
}
