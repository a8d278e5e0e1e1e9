package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Nate99091/crypto/internal/domain/models"
	"github.com/Nate99091/crypto/internal/domain/repository"
	"github.com/Nate99091/crypto/internal/service/fees"
	"github.com/Nate99091/crypto/pkg/config"
	"github.com/Nate99091/crypto/pkg/logger"
	"github.com/Nate99091/crypto/pkg/metrics"
)

// Outlier clip percentiles for the outlier artifact.
const (
	outlierLowerPct = 5
	outlierUpperPct = 95
)

// Engine runs the full discrepancy pipeline: fetch, normalize, analyze,
// persist, calibrate, score.
type Engine struct {
	cfg        *config.Config
	fetcher    *Fetcher
	normalizer *Normalizer
	analyzer   *Analyzer
	calibrator *Calibrator
	scorer     *Scorer
	artifacts  *ArtifactWriter
	feeTable   *fees.Table
	store      repository.HistoryStore
	publisher  repository.Publisher
	logger     *logger.Logger
	metrics    *metrics.Recorder
}

// NewEngine creates an Engine. publisher may be nil when record publishing
// is disabled.
func NewEngine(
	cfg *config.Config,
	fetcher *Fetcher,
	normalizer *Normalizer,
	analyzer *Analyzer,
	calibrator *Calibrator,
	scorer *Scorer,
	artifacts *ArtifactWriter,
	feeTable *fees.Table,
	store repository.HistoryStore,
	publisher repository.Publisher,
	log *logger.Logger,
	rec *metrics.Recorder,
) *Engine {
	return &Engine{
		cfg:        cfg,
		fetcher:    fetcher,
		normalizer: normalizer,
		analyzer:   analyzer,
		calibrator: calibrator,
		scorer:     scorer,
		artifacts:  artifacts,
		feeTable:   feeTable,
		store:      store,
		publisher:  publisher,
		logger:     log,
		metrics:    rec,
	}
}

// Run executes one full pipeline pass. Zero candidates is a normal
// outcome; only configuration and store failures return an error.
func (e *Engine) Run(ctx context.Context) (*models.RunReport, error) {
	started := time.Now()
	report := &models.RunReport{StartedAt: started.Unix()}
	defer func() {
		report.FinishedAt = time.Now().Unix()
		e.metrics.RecordLatency("run", time.Since(started).Seconds())
	}()

	pairs := e.selectPairs(ctx)
	report.PairsRequested = len(pairs)
	if len(pairs) == 0 {
		e.logger.Warn("no pairs found, skipping run")
		return report, nil
	}

	series := e.fetchSeries(ctx, pairs, report)
	if len(series) < 2 {
		e.logger.Warn("fewer than two usable series, nothing to compare",
			logger.Int("series", len(series)))
		return report, nil
	}

	e.analyzer.Reset()
	fresh := e.analyzer.AnalyzeAll(series)

	appended, err := e.store.AppendIfNew(ctx, fresh)
	if err != nil {
		return report, fmt.Errorf("append records: %w", err)
	}
	report.NewRecords = appended
	e.metrics.RecordAppended(appended)

	records, err := e.store.Load(ctx)
	if err != nil {
		return report, fmt.Errorf("load records: %w", err)
	}
	report.RecordCount = len(records)

	if e.publisher != nil && len(fresh) > 0 {
		if err := e.publisher.PublishRecords(ctx, fresh); err != nil {
			e.logger.Error("record publish failed", logger.Error(err))
			e.metrics.RecordError("publish")
			report.Errors = append(report.Errors, err.Error())
		}
	}

	if err := e.analyze(records, report); err != nil {
		return report, err
	}

	if col := e.logger.Collector(); col != nil {
		for _, entry := range col.Snapshot() {
			report.Errors = append(report.Errors, fmt.Sprintf("%s (x%d)", entry.Message, entry.Count))
		}
	}

	e.logger.Info("run complete",
		logger.Int("pairs_fetched", report.PairsFetched),
		logger.Int("records", report.RecordCount),
		logger.Int("new_records", report.NewRecords),
		logger.Int("candidates", report.Backtest.TradeCount),
		logger.Float64("threshold", report.Threshold.Threshold))
	return report, nil
}

func (e *Engine) selectPairs(ctx context.Context) []string {
	catalogPairs, catalogFees := e.fetcher.Catalog(ctx)
	if catalogFees != nil {
		e.feeTable.Merge(catalogFees)
	}

	pairs := e.cfg.Exchange.Pairs
	if len(pairs) == 0 {
		pairs = catalogPairs
		if limit := e.cfg.Exchange.PairLimit; limit > 0 && len(pairs) > limit {
			pairs = pairs[:limit]
		}
	}
	return pairs
}

func (e *Engine) fetchSeries(ctx context.Context, pairs []string, report *models.RunReport) []*models.Series {
	result := e.fetcher.FetchAll(ctx, pairs, e.cfg.Fetch.Interval, e.cfg.Fetch.Since)
	report.PairsFetched = len(result.Series)
	report.PairsSkipped = append(report.PairsSkipped, result.Skipped...)

	// Deterministic combination order regardless of fetch completion.
	fetched := make([]string, 0, len(result.Series))
	for pair := range result.Series {
		fetched = append(fetched, pair)
	}
	sort.Strings(fetched)

	series := make([]*models.Series, 0, len(fetched))
	for _, pair := range fetched {
		s, err := e.normalizer.Normalize(pair, e.cfg.Fetch.Interval, result.Series[pair])
		if err != nil {
			if errors.Is(err, ErrInsufficientData) {
				e.logger.Debug("series skipped", logger.String("pair", pair))
				report.PairsSkipped = append(report.PairsSkipped, pair)
				continue
			}
			e.logger.Error("normalize failed",
				logger.String("pair", pair),
				logger.Error(err))
			report.PairsSkipped = append(report.PairsSkipped, pair)
			continue
		}
		series = append(series, s)
	}
	return series
}

func (e *Engine) analyze(records []models.DiscrepancyRecord, report *models.RunReport) error {
	values := make([]float64, len(records))
	for i := range records {
		values[i] = records[i].Adjusted
	}

	spec := models.ThresholdSpec{
		Method:    e.cfg.Threshold.Method,
		Parameter: e.cfg.Threshold.Parameter,
	}
	threshold, err := e.calibrator.Calibrate(values, spec)
	if err != nil {
		return fmt.Errorf("calibrate threshold: %w", err)
	}
	report.Threshold = threshold
	report.Outliers = e.calibrator.OutlierBounds(values, outlierLowerPct, outlierUpperPct)

	backtest := e.scorer.Score(records, threshold.Threshold, threshold.StdDev)
	e.metrics.RecordCandidates(backtest.TradeCount)

	if e.cfg.Sweep.Enabled && threshold.StdDev > 0 {
		sweep := e.scorer.Sweep(records, threshold.Mean, threshold.StdDev,
			e.cfg.Sweep.Min, e.cfg.Sweep.Max, e.cfg.Sweep.Step)
		report.Sweep = &sweep
	}

	if err := e.artifacts.WriteTrades(backtest.Candidates); err != nil {
		e.logger.Error("trade artifact write failed", logger.Error(err))
		report.Errors = append(report.Errors, err.Error())
	}
	if err := e.artifacts.WriteOutliers(records, report.Outliers); err != nil {
		e.logger.Error("outlier artifact write failed", logger.Error(err))
		report.Errors = append(report.Errors, err.Error())
	}

	report.TopCandidates = topCandidates(backtest.Candidates, 10)
	report.Backtest = backtest
	return nil
}

func topCandidates(candidates []models.TradeCandidate, n int) []models.TradeCandidate {
	if len(candidates) == 0 {
		return nil
	}
	sorted := make([]models.TradeCandidate, len(candidates))
	copy(sorted, candidates)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].WeightedProfit > sorted[j].WeightedProfit
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
