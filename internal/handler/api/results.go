package api

import (
	"github.com/labstack/echo/v4"

	"github.com/Nate99091/crypto/internal/domain/models"
	"github.com/Nate99091/crypto/internal/usecase"
	pkghttp "github.com/Nate99091/crypto/pkg/http"
)

// ResultsHandler serves the latest run's report, candidates and outlier
// bounds.
type ResultsHandler struct {
	results *usecase.Results
}

// NewResultsHandler creates the handler.
func NewResultsHandler(results *usecase.Results) *ResultsHandler {
	return &ResultsHandler{results: results}
}

// RegisterRoutes registers API routes.
func (h *ResultsHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/report", h.GetReport)
	g.GET("/candidates", h.GetCandidates)
	g.GET("/outliers", h.GetOutliers)
}

// GetReport returns the full report of the most recent run.
func (h *ResultsHandler) GetReport(c echo.Context) error {
	report := h.results.Report()
	if report == nil {
		return pkghttp.NotFoundResponse(c, "no completed run yet")
	}
	return pkghttp.SuccessResponse(c, report)
}

// GetCandidates returns scored trade candidates from the most recent run.
func (h *ResultsHandler) GetCandidates(c echo.Context) error {
	var req models.CandidatesRequest
	if verr := pkghttp.ReadAndValidateRequest(c, &req); verr != nil {
		return pkghttp.BadRequestResponse(c, verr)
	}

	if h.results.Report() == nil {
		return pkghttp.NotFoundResponse(c, "no completed run yet")
	}

	candidates := h.results.Candidates(req.Limit)
	return pkghttp.ListResponse(c, candidates, int64(len(candidates)))
}

// GetOutliers returns the calibrated outlier bounds of the most recent run.
func (h *ResultsHandler) GetOutliers(c echo.Context) error {
	report := h.results.Report()
	if report == nil {
		return pkghttp.NotFoundResponse(c, "no completed run yet")
	}
	return pkghttp.SuccessResponse(c, report.Outliers)
}
