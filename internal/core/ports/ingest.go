package ports

import (
	"context"

	"github.com/jobradar/jobradar/internal/core/domain"
)

// PostingFetcher abstracts the external job-search source. Implementations
// return only postings that passed the location filter and carry a usable URL;
// a request failure or timeout fails the whole call with an error wrapping
// domain.ErrUpstream.
type PostingFetcher interface {
	Fetch(ctx context.Context) ([]domain.RawPosting, error)
}

// IngestResult reports the outcome of one ingestion run.
//
// Fetched is the number of postings handed over by the connector.
// Saved + Duplicates <= Fetched; the difference is Failed, the postings whose
// insert hit a transient store error and were skipped.
type IngestResult struct {
	Fetched    int `json:"fetched"`
	Saved      int `json:"saved"`
	Duplicates int `json:"duplicates"`
	Failed     int `json:"failed"`
}

// IngestService runs the fetch → dedupe → persist pipeline.
type IngestService interface {
	Run(ctx context.Context) (*IngestResult, error)
}
