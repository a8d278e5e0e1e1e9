package models

// TradeCandidate is a discrepancy record that cleared the threshold, scored
// for the backtest.
type TradeCandidate struct {
	DiscrepancyRecord
	Profit           float64 `json:"profit"`
	Weight           float64 `json:"weight"`
	WeightedProfit   float64 `json:"weighted_profit"`
	CumulativeProfit float64 `json:"cumulative_profit"`
}

// BacktestResult aggregates one scoring pass at a fixed threshold.
type BacktestResult struct {
	Threshold      float64          `json:"threshold"`
	TotalProfit    float64          `json:"total_profit"`
	WeightedProfit float64          `json:"weighted_profit"`
	TradeCount     int              `json:"trade_count"`
	SharpeRatio    float64          `json:"sharpe_ratio"`
	SortinoRatio   float64          `json:"sortino_ratio"`
	Candidates     []TradeCandidate `json:"candidates,omitempty"`
}

// SweepPoint is one multiplier evaluated during a threshold sweep.
type SweepPoint struct {
	Multiplier     float64 `json:"multiplier"`
	Threshold      float64 `json:"threshold"`
	TradeCount     int     `json:"trade_count"`
	TotalProfit    float64 `json:"total_profit"`
	WeightedProfit float64 `json:"weighted_profit"`
}

// SweepResult is the full sweep curve plus the winning multiplier.
type SweepResult struct {
	Best   SweepPoint   `json:"best"`
	Points []SweepPoint `json:"points"`
}

// RunReport is the outcome of one full engine pass.
type RunReport struct {
	StartedAt      int64            `json:"started_at"`
	FinishedAt     int64            `json:"finished_at"`
	PairsRequested int              `json:"pairs_requested"`
	PairsFetched   int              `json:"pairs_fetched"`
	PairsSkipped   []string         `json:"pairs_skipped,omitempty"`
	RecordCount    int              `json:"record_count"`
	NewRecords     int              `json:"new_records"`
	Threshold      ThresholdResult  `json:"threshold"`
	Outliers       OutlierBounds    `json:"outliers"`
	Backtest       BacktestResult   `json:"backtest"`
	Sweep          *SweepResult     `json:"sweep,omitempty"`
	Errors         []string         `json:"errors,omitempty"`
	TopCandidates  []TradeCandidate `json:"top_candidates,omitempty"`
}
