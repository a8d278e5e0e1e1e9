package models

// FeeEntry holds per-pair trading fees as fractions (0.0026 = 0.26%).
type FeeEntry struct {
	Pair     string  `json:"pair"`
	TakerFee float64 `json:"taker_fee"`
	MakerFee float64 `json:"maker_fee"`
}
