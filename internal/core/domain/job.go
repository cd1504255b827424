package domain

import (
	"errors"
	"time"
)

const (
	// SourceJobTech marks jobs ingested from the JobTech Dev search API.
	SourceJobTech = "jobtech"
	// SourceManual marks jobs created by hand through the API.
	SourceManual = "manual"
)

var ErrJobNotFound = errors.New("job not found")
var ErrDuplicateJob = errors.New("job already exists")
var ErrUpstream = errors.New("upstream unavailable")
var ErrValidation = errors.New("invalid input")
var ErrRunInProgress = errors.New("run already in progress")

// Job is one stored posting. URL is the business key: the store enforces a
// unique index on it and the ingestion pipeline dedupes against it.
type Job struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Company   string    `json:"company"`
	Location  string    `json:"location"`
	PostedAt  time.Time `json:"posted_at"`
	URL       string    `json:"url"`
	Source    string    `json:"source"`
	Applied   bool      `json:"applied"`
	Emailed   bool      `json:"emailed"`
	CreatedAt time.Time `json:"created_at"`
}

// JobStats is the aggregate view served by the stats endpoint. Recent counts
// jobs created within the rolling window passed to the repository.
type JobStats struct {
	Total   int64 `json:"total"`
	Applied int64 `json:"applied"`
	Emailed int64 `json:"emailed"`
	Recent  int64 `json:"recent"`
}
