package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

// listJobsQuery carries the query-string filters for the list endpoint.
// dateFrom/dateTo are inclusive calendar dates (2006-01-02).
type listJobsQuery struct {
	Search   string `query:"search"`
	Location string `query:"location"`
	Applied  string `query:"applied"`
	Emailed  string `query:"emailed"`
	DateFrom string `query:"dateFrom"`
	DateTo   string `query:"dateTo"`
	Page     int    `query:"page"`
	Limit    int    `query:"limit"`
}

type createJobRequest struct {
	Title    string `json:"title"    validate:"required"`
	Company  string `json:"company"  validate:"required"`
	Location string `json:"location" validate:"required"`
	URL      string `json:"url"      validate:"required,url"`
	Source   string `json:"source,omitempty"`
}

type setAppliedRequest struct {
	// Applied is optional: when omitted the current value is toggled.
	Applied *bool `json:"applied"`
}

// --- Response types ---
// Owned by the transport layer so the JSON contract is not coupled to
// internal service changes.

type jobResponse struct {
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

type listJobsResponse struct {
	Jobs       []jobResponse `json:"jobs"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	TotalPages int           `json:"totalPages"`
}

type statsResponse struct {
	Total   int64 `json:"total"`
	Applied int64 `json:"applied"`
	Emailed int64 `json:"emailed"`
	Recent  int64 `json:"recent"`
}

type cronStatusResponse struct {
	UnEmailedJobs int64      `json:"unEmailedJobs"`
	TotalUsers    int64      `json:"totalUsers"`
	TotalJobs     int64      `json:"totalJobs"`
	ReadyToSend   bool       `json:"readyToSend"`
	LastJobAdded  *time.Time `json:"lastJobAdded"`
	LastJobPosted *time.Time `json:"lastJobPosted"`
}
