package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jobradar/jobradar/internal/core/domain"
	"github.com/jobradar/jobradar/internal/core/ports"
)

const ingestLockName = "ingest"
const runLockTTL = 5 * time.Minute

// IngestService pulls candidate postings from the connector and persists the
// ones not already in the store, deduplicating on URL.
type IngestService struct {
	fetcher ports.PostingFetcher
	jobs    ports.JobRepository
	lock    ports.RunLocker
	logger  zerolog.Logger
}

func NewIngestService(fetcher ports.PostingFetcher, jobs ports.JobRepository, lock ports.RunLocker, logger zerolog.Logger) *IngestService {
	return &IngestService{fetcher: fetcher, jobs: jobs, lock: lock, logger: logger}
}

// Run performs one full ingestion cycle. The upstream call is all-or-nothing:
// a fetch failure aborts the run with an error wrapping domain.ErrUpstream and
// nothing is persisted. Persistence failures are per-posting and never abort
// the batch.
func (s *IngestService) Run(ctx context.Context) (*ports.IngestResult, error) {
	acquired, err := s.lock.TryLock(ctx, ingestLockName, runLockTTL)
	if err != nil {
		// Lock store down: proceed unlocked, the url unique index is the backstop.
		s.logger.Warn().Err(err).Msg("run lock unavailable, proceeding without it")
	} else if !acquired {
		return nil, fmt.Errorf("ingest: %w", domain.ErrRunInProgress)
	} else {
		defer func() {
			if err := s.lock.Unlock(context.WithoutCancel(ctx), ingestLockName); err != nil {
				s.logger.Warn().Err(err).Msg("failed to release ingest lock")
			}
		}()
	}

	postings, err := s.fetcher.Fetch(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to fetch postings")
		return nil, fmt.Errorf("ingest: %w", err)
	}

	result := s.ingest(ctx, postings)

	s.logger.Info().
		Int("fetched", result.Fetched).
		Int("saved", result.Saved).
		Int("duplicates", result.Duplicates).
		Int("failed", result.Failed).
		Msg("ingestion run completed")

	return result, nil
}

// ingest processes each posting independently: look up by URL, skip known
// ones, insert the rest. A duplicate-key rejection from the store is the
// backstop for two runs racing on the same URL and counts as a duplicate,
// not a failure.
func (s *IngestService) ingest(ctx context.Context, postings []domain.RawPosting) *ports.IngestResult {
	result := &ports.IngestResult{Fetched: len(postings)}

	for _, p := range postings {
		existing, err := s.jobs.FindByURL(ctx, p.URL)
		if err != nil && !errors.Is(err, domain.ErrJobNotFound) {
			s.logger.Error().Err(err).Str("url", p.URL).Str("external_id", p.ExternalID).Msg("failed to check for existing job")
			result.Failed++
			continue
		}
		if existing != nil {
			result.Duplicates++
			continue
		}

		job := &domain.Job{
			Title:     p.Title,
			Company:   p.Company,
			Location:  p.Location,
			PostedAt:  p.PostedAt,
			URL:       p.URL,
			Source:    domain.SourceJobTech,
			Applied:   false,
			Emailed:   false,
			CreatedAt: time.Now().UTC(),
		}

		if err := s.jobs.Insert(ctx, job); err != nil {
			if errors.Is(err, domain.ErrDuplicateJob) {
				result.Duplicates++
				continue
			}
			s.logger.Error().Err(err).Str("url", p.URL).Str("external_id", p.ExternalID).Msg("failed to save job")
			result.Failed++
			continue
		}

		result.Saved++
	}

	return result
}
