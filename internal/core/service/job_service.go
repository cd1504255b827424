package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/jobradar/jobradar/internal/core/domain"
	"github.com/jobradar/jobradar/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// JobService implements the user-facing job operations: browsing, manual
// creation, and the applied toggle.
type JobService struct {
	repo   ports.JobRepository
	logger zerolog.Logger
}

func NewJobService(repo ports.JobRepository, logger zerolog.Logger) *JobService {
	return &JobService{repo: repo, logger: logger}
}

func (s *JobService) ListJobs(ctx context.Context, input ports.ListJobsInput) (*ports.ListJobsResult, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	filter := ports.ListJobsFilter{
		Search:   input.Search,
		Location: input.Location,
		Applied:  input.Applied,
		Emailed:  input.Emailed,
		DateFrom: input.DateFrom,
		Page:     page,
		Limit:    limit,
	}
	// DateTo is an inclusive calendar date; push the bound to the next
	// midnight so the whole end day matches.
	if !input.DateTo.IsZero() {
		filter.DateTo = input.DateTo.AddDate(0, 0, 1)
	}

	jobs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}

	totalPages := 0
	if total > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(limit)))
	}

	return &ports.ListJobsResult{
		Jobs:       jobs,
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
	}, nil
}

// CreateJob inserts a manually submitted job after checking the URL is new.
// The unique index still backstops a concurrent insert of the same URL.
func (s *JobService) CreateJob(ctx context.Context, input ports.CreateJobInput) (*domain.Job, error) {
	if input.Title == "" || input.Company == "" || input.Location == "" || input.URL == "" {
		return nil, fmt.Errorf("%w: title, company, location and url are required", domain.ErrValidation)
	}

	existing, err := s.repo.FindByURL(ctx, input.URL)
	if err != nil && !errors.Is(err, domain.ErrJobNotFound) {
		return nil, fmt.Errorf("create job: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrDuplicateJob
	}

	source := input.Source
	if source == "" {
		source = domain.SourceManual
	}

	now := time.Now().UTC()
	job := &domain.Job{
		Title:     input.Title,
		Company:   input.Company,
		Location:  input.Location,
		URL:       input.URL,
		Source:    source,
		PostedAt:  now,
		CreatedAt: now,
	}

	if err := s.repo.Insert(ctx, job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	s.logger.Info().Str("url", job.URL).Str("source", job.Source).Msg("job created")
	return job, nil
}

// SetApplied sets or toggles the applied flag on a job.
func (s *JobService) SetApplied(ctx context.Context, input ports.SetAppliedInput) (*domain.Job, error) {
	if input.ID == "" {
		return nil, fmt.Errorf("%w: job id is required", domain.ErrValidation)
	}

	job, err := s.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, fmt.Errorf("set applied: %w", err)
	}

	applied := !job.Applied
	if input.Applied != nil {
		applied = *input.Applied
	}

	updated, err := s.repo.SetApplied(ctx, input.ID, applied)
	if err != nil {
		return nil, fmt.Errorf("set applied: %w", err)
	}

	s.logger.Info().Str("id", input.ID).Bool("applied", applied).Msg("job applied flag updated")
	return updated, nil
}

// StatsService reports aggregate job counts for the stats endpoint.
type StatsService struct {
	repo ports.JobRepository
}

func NewStatsService(repo ports.JobRepository) *StatsService {
	return &StatsService{repo: repo}
}

// Stats returns total/applied/emailed counts plus jobs created in the last
// seven days.
func (s *StatsService) Stats(ctx context.Context) (*domain.JobStats, error) {
	since := time.Now().UTC().Add(-7 * 24 * time.Hour)
	stats, err := s.repo.Stats(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("job stats: %w", err)
	}
	return stats, nil
}
