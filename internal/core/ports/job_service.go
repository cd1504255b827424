package ports

import (
	"context"
	"time"

	"github.com/jobradar/jobradar/internal/core/domain"
)

// ListJobsInput carries all parameters for the list endpoint. DateFrom and
// DateTo are inclusive calendar dates; the service converts DateTo into an
// exclusive upper bound so the whole end day is included.
type ListJobsInput struct {
	Search   string
	Location string
	Applied  *bool
	Emailed  *bool
	DateFrom time.Time
	DateTo   time.Time
	Page     int
	Limit    int
}

// ListJobsResult is returned by ListJobs.
type ListJobsResult struct {
	Jobs       []*domain.Job
	Total      int64
	Page       int
	TotalPages int
}

// CreateJobInput carries the fields for a manual job creation.
type CreateJobInput struct {
	Title    string
	Company  string
	Location string
	URL      string
	Source   string // defaults to "manual" when empty
}

// SetAppliedInput updates a job's applied flag. When Applied is nil the
// current value is toggled.
type SetAppliedInput struct {
	ID      string
	Applied *bool
}

// JobService defines the user-facing job operations.
type JobService interface {
	ListJobs(ctx context.Context, input ListJobsInput) (*ListJobsResult, error)
	CreateJob(ctx context.Context, input CreateJobInput) (*domain.Job, error)
	SetApplied(ctx context.Context, input SetAppliedInput) (*domain.Job, error)
}

// StatsService reports aggregate job counts.
type StatsService interface {
	Stats(ctx context.Context) (*domain.JobStats, error)
}
