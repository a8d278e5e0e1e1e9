package models

// CandidatesRequest lists scored trade candidates from the latest run.
type CandidatesRequest struct {
	Limit int `query:"limit" default:"50" validate:"gte=1,lte=1000"`
}
