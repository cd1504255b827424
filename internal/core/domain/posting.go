package domain

import "time"

// RawPosting is a job listing as returned by the external search source,
// already location-filtered and URL-resolved by the connector. Postings
// without a usable URL never leave the connector.
type RawPosting struct {
	ExternalID string
	Title      string
	Company    string
	Location   string
	PostedAt   time.Time
	URL        string
}
