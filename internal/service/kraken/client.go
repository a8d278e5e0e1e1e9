package kraken

import (
	"context"
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/Nate99091/crypto/internal/domain/models"
	"github.com/Nate99091/crypto/pkg/http"
	"github.com/Nate99091/crypto/pkg/logger"
)

const (
	assetPairsPath = "/0/public/AssetPairs"
	ohlcPath       = "/0/public/OHLC"
)

// Client fetches public market data from a Kraken-style REST API.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *logger.Logger
}

// NewClient creates a Kraken market data client.
func NewClient(baseURL string, httpClient *http.Client, log *logger.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    httpClient,
		logger:  log,
	}
}

// AssetPairs returns tradeable pair names and per-pair fee schedules. Fees
// come back as percent and are converted to fractions.
func (c *Client) AssetPairs(ctx context.Context) ([]string, map[string]models.FeeEntry, error) {
	body, err := c.get(ctx, assetPairsPath, nil)
	if err != nil {
		return nil, nil, err
	}

	result := gjson.GetBytes(body, "result")
	if !result.Exists() {
		return nil, nil, fmt.Errorf("asset pairs response missing result: %s", truncate(body))
	}

	var pairs []string
	fees := make(map[string]models.FeeEntry)

	result.ForEach(func(key, value gjson.Result) bool {
		name := value.Get("wsname").String()
		if name == "" {
			name = key.String()
		}
		pairs = append(pairs, name)

		entry := models.FeeEntry{Pair: name}
		// fees arrays are [[volume, percent], ...]; the first tier applies
		// at zero volume.
		if tier := value.Get("fees.0.1"); tier.Exists() {
			entry.TakerFee = tier.Float() / 100
		}
		if tier := value.Get("fees_maker.0.1"); tier.Exists() {
			entry.MakerFee = tier.Float() / 100
		}
		fees[name] = entry
		return true
	})

	return pairs, fees, nil
}

// OHLC returns raw candle rows for one pair. Rows arrive as arrays of mixed
// numbers and strings, so numeric fields stay strings until normalization.
func (c *Client) OHLC(ctx context.Context, pair string, interval int, since int64) ([]models.RawCandle, error) {
	params := map[string][]string{
		"pair":     {pair},
		"interval": {strconv.Itoa(interval)},
	}
	if since > 0 {
		params["since"] = []string{strconv.FormatInt(since, 10)}
	}

	body, err := c.get(ctx, ohlcPath, params)
	if err != nil {
		return nil, err
	}

	if errs := gjson.GetBytes(body, "error"); errs.IsArray() && len(errs.Array()) > 0 {
		return nil, fmt.Errorf("ohlc %s: exchange error: %s", pair, errs.Raw)
	}

	result := gjson.GetBytes(body, "result")
	if !result.Exists() {
		return nil, fmt.Errorf("ohlc %s: response missing result: %s", pair, truncate(body))
	}

	// The result object keys candle rows by the exchange's canonical pair
	// name, which may differ from the requested one. Take the first
	// non-"last" key.
	var rows gjson.Result
	result.ForEach(func(key, value gjson.Result) bool {
		if key.String() == "last" {
			return true
		}
		rows = value
		return false
	})

	if !rows.IsArray() {
		return nil, fmt.Errorf("ohlc %s: no candle rows in result", pair)
	}

	var candles []models.RawCandle
	rows.ForEach(func(_, row gjson.Result) bool {
		fields := row.Array()
		if len(fields) < 8 {
			c.logger.Warn("skipping short ohlc row",
				logger.String("pair", pair),
				logger.Int("fields", len(fields)))
			return true
		}
		candles = append(candles, models.RawCandle{
			Timestamp:  fields[0].Int(),
			Open:       fields[1].String(),
			High:       fields[2].String(),
			Low:        fields[3].String(),
			Close:      fields[4].String(),
			VWAP:       fields[5].String(),
			Volume:     fields[6].String(),
			TradeCount: fields[7].Int(),
		})
		return true
	})

	return candles, nil
}

func (c *Client) get(ctx context.Context, path string, params map[string][]string) ([]byte, error) {
	var body []byte
	err := c.http.SendAndParse(ctx, &http.RequestOptions{
		Method:      http.MethodGet,
		URL:         c.baseURL + path,
		QueryParams: params,
	}, &body)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	return body, nil
}

func truncate(b []byte) string {
	const max = 200
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
