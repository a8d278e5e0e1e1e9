package kraken

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkghttp "github.com/Nate99091/crypto/pkg/http"
	"github.com/Nate99091/crypto/pkg/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	require.NoError(t, err)

	return NewClient(srv.URL, pkghttp.NewClient(), log), srv
}

func TestAssetPairs(t *testing.T) {
	payload := `{
		"error": [],
		"result": {
			"XXBTZUSD": {
				"wsname": "XBT/USD",
				"fees": [[0, 0.26], [50000, 0.24]],
				"fees_maker": [[0, 0.16]]
			},
			"XETHZUSD": {
				"wsname": "ETH/USD",
				"fees": [[0, 0.26]]
			}
		}
	}`

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, assetPairsPath, r.URL.Path)
		_, _ = w.Write([]byte(payload))
	})

	pairs, fees, err := client.AssetPairs(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"XBT/USD", "ETH/USD"}, pairs)

	btc := fees["XBT/USD"]
	assert.InDelta(t, 0.0026, btc.TakerFee, 1e-12)
	assert.InDelta(t, 0.0016, btc.MakerFee, 1e-12)

	eth := fees["ETH/USD"]
	assert.InDelta(t, 0.0026, eth.TakerFee, 1e-12)
	assert.Zero(t, eth.MakerFee)
}

func TestAssetPairsMissingResult(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error": []}`))
	})

	_, _, err := client.AssetPairs(context.Background())
	assert.ErrorContains(t, err, "missing result")
}

func TestOHLC(t *testing.T) {
	payload := `{
		"error": [],
		"result": {
			"XXBTZUSD": [
				[1700000000, "100.1", "101.0", "99.5", "100.5", "100.3", "12.5", 42],
				[1700000900, "100.5", "102.0", "100.0", "101.7", "101.1", "8.2", 30]
			],
			"last": 1700000900
		}
	}`

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, ohlcPath, r.URL.Path)
		assert.Equal(t, "XBT/USD", r.URL.Query().Get("pair"))
		assert.Equal(t, "15", r.URL.Query().Get("interval"))
		assert.Equal(t, "1699990000", r.URL.Query().Get("since"))
		_, _ = w.Write([]byte(payload))
	})

	candles, err := client.OHLC(context.Background(), "XBT/USD", 15, 1699990000)
	require.NoError(t, err)
	require.Len(t, candles, 2)

	assert.Equal(t, int64(1700000000), candles[0].Timestamp)
	assert.Equal(t, "100.5", candles[0].Close)
	assert.Equal(t, "12.5", candles[0].Volume)
	assert.Equal(t, int64(42), candles[0].TradeCount)
	assert.Equal(t, int64(30), candles[1].TradeCount)
}

func TestOHLCExchangeError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error": ["EQuery:Unknown asset pair"], "result": {}}`))
	})

	_, err := client.OHLC(context.Background(), "NOPE/USD", 15, 0)
	assert.ErrorContains(t, err, "Unknown asset pair")
}

func TestOHLCMissingResult(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	_, err := client.OHLC(context.Background(), "XBT/USD", 15, 0)
	assert.ErrorContains(t, err, "missing result")
}

func TestOHLCSkipsShortRows(t *testing.T) {
	payload := `{
		"error": [],
		"result": {
			"XXBTZUSD": [
				[1700000000, "100.1"],
				[1700000900, "100.5", "102.0", "100.0", "101.7", "101.1", "8.2", 30]
			],
			"last": 1700000900
		}
	}`

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(payload))
	})

	candles, err := client.OHLC(context.Background(), "XBT/USD", 15, 0)
	require.NoError(t, err)
	require.Len(t, candles, 1)
	assert.Equal(t, int64(1700000900), candles[0].Timestamp)
}
