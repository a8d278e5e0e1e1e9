package models

// Candle is one normalized OHLC interval.
type Candle struct {
	Timestamp  int64   `json:"timestamp"`
	Open       float64 `json:"open"`
	High       float64 `json:"high"`
	Low        float64 `json:"low"`
	Close      float64 `json:"close"`
	VWAP       float64 `json:"vwap"`
	Volume     float64 `json:"volume"`
	TradeCount int64   `json:"trade_count"`
}

// RawCandle is one OHLC row as the exchange returns it, numeric fields as
// strings.
type RawCandle struct {
	Timestamp  int64
	Open       string
	High       string
	Low        string
	Close      string
	VWAP       string
	Volume     string
	TradeCount int64
}

// Series is the normalized candle history of one pair at one interval.
type Series struct {
	Pair     string   `json:"pair"`
	Interval int      `json:"interval"`
	Candles  []Candle `json:"candles"`
}

// Len returns the number of candles in the series.
func (s *Series) Len() int {
	return len(s.Candles)
}
