package ports

import (
	"context"
	"time"

	"github.com/jobradar/jobradar/internal/core/domain"
)

// ListJobsFilter carries all query parameters for listing jobs.
// Nil boolean pointers mean "no filter on that flag".
type ListJobsFilter struct {
	Search   string     // optional: partial case-insensitive match on title or company
	Location string     // optional: partial case-insensitive match on location
	Applied  *bool      // optional: filter by applied flag
	Emailed  *bool      // optional: filter by emailed flag
	DateFrom time.Time  // optional: posted_at >= DateFrom
	DateTo   time.Time  // optional: posted_at < DateTo (exclusive upper bound)
	Page     int        // 1-based
	Limit    int        // max rows per page (capped at 100 by service)
}

// JobRepository defines persistence operations for jobs.
type JobRepository interface {
	// Insert stores a new job. Returns domain.ErrDuplicateJob when the unique
	// index on url rejects the document.
	Insert(ctx context.Context, j *domain.Job) error
	FindByID(ctx context.Context, id string) (*domain.Job, error)
	// FindByURL retrieves a job by its external URL, the business key.
	FindByURL(ctx context.Context, url string) (*domain.Job, error)
	// List returns a page of jobs matching filter, ordered by posted_at desc
	// then created_at desc, and the total count of matches.
	List(ctx context.Context, filter ListJobsFilter) ([]*domain.Job, int64, error)
	// SetApplied updates the applied flag and returns the updated job.
	SetApplied(ctx context.Context, id string, applied bool) (*domain.Job, error)
	// FindUnemailed returns all jobs with emailed=false, newest posted first.
	FindUnemailed(ctx context.Context) ([]*domain.Job, error)
	// MarkEmailed sets emailed=true on every job in ids in one bulk update.
	MarkEmailed(ctx context.Context, ids []string) error
	CountUnemailed(ctx context.Context) (int64, error)
	// Latest returns the most recently created job, or domain.ErrJobNotFound
	// when the store is empty.
	Latest(ctx context.Context) (*domain.Job, error)
	// Stats aggregates counts; recentSince bounds the "recent" counter.
	Stats(ctx context.Context, recentSince time.Time) (*domain.JobStats, error)
}
