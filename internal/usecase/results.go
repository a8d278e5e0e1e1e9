package usecase

import (
	"sync"

	"github.com/Nate99091/crypto/internal/domain/models"
)

// Results holds the most recent run report for API consumers. Reads and
// the post-run write never overlap thanks to the mutex; the stored report
// is treated as immutable once set.
type Results struct {
	mu     sync.RWMutex
	report *models.RunReport
}

// NewResults creates an empty holder.
func NewResults() *Results {
	return &Results{}
}

// Set stores the latest run report.
func (r *Results) Set(report *models.RunReport) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.report = report
}

// Report returns the latest report, or nil before the first run finishes.
func (r *Results) Report() *models.RunReport {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.report
}

// Candidates returns up to limit scored candidates from the latest run,
// in record order.
func (r *Results) Candidates(limit int) []models.TradeCandidate {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.report == nil {
		return nil
	}
	candidates := r.report.Backtest.Candidates
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}
