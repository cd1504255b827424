package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jobradar/jobradar/internal/core/domain"
	"github.com/jobradar/jobradar/internal/core/ports"
)

const notifyLockName = "notify"
const defaultSendDelay = 100 * time.Millisecond

// NotifyService renders the digest of un-emailed jobs and sends it to every
// registered user, one at a time.
type NotifyService struct {
	jobs      ports.JobRepository
	users     ports.UserRepository
	mailer    ports.Mailer
	lock      ports.RunLocker
	sendDelay time.Duration
	logger    zerolog.Logger
}

// NewNotifyService creates a NotifyService. sendDelay is the pause between
// recipient sends to respect the email provider's rate limit; a negative
// value selects the default.
func NewNotifyService(jobs ports.JobRepository, users ports.UserRepository, mailer ports.Mailer, lock ports.RunLocker, sendDelay time.Duration, logger zerolog.Logger) *NotifyService {
	if sendDelay < 0 {
		sendDelay = defaultSendDelay
	}
	return &NotifyService{jobs: jobs, users: users, mailer: mailer, lock: lock, sendDelay: sendDelay, logger: logger}
}

// DispatchDigest runs one digest cycle. Jobs are marked emailed in a single
// bulk update only when at least one send succeeded; when every send fails
// the batch stays un-emailed and is retried verbatim on the next run.
func (s *NotifyService) DispatchDigest(ctx context.Context) (*ports.DispatchResult, error) {
	acquired, err := s.lock.TryLock(ctx, notifyLockName, runLockTTL)
	if err != nil {
		s.logger.Warn().Err(err).Msg("run lock unavailable, proceeding without it")
	} else if !acquired {
		return nil, fmt.Errorf("dispatch digest: %w", domain.ErrRunInProgress)
	} else {
		defer func() {
			if err := s.lock.Unlock(context.WithoutCancel(ctx), notifyLockName); err != nil {
				s.logger.Warn().Err(err).Msg("failed to release notify lock")
			}
		}()
	}

	users, err := s.users.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("dispatch digest: load users: %w", err)
	}
	if len(users) == 0 {
		s.logger.Info().Msg("no users to notify")
		return &ports.DispatchResult{}, nil
	}

	jobs, err := s.jobs.FindUnemailed(ctx)
	if err != nil {
		return nil, fmt.Errorf("dispatch digest: load jobs: %w", err)
	}
	if len(jobs) == 0 {
		s.logger.Info().Msg("no new jobs to email")
		return &ports.DispatchResult{UserCount: len(users)}, nil
	}

	result := &ports.DispatchResult{
		JobCount:  len(jobs),
		UserCount: len(users),
		Results:   make([]ports.UserSendResult, 0, len(users)),
	}

	subject := DigestSubject(len(jobs))
	for i, user := range users {
		sendErr := s.sendTo(ctx, user, jobs, subject)
		if sendErr != nil {
			result.EmailsFailed++
			result.Results = append(result.Results, ports.UserSendResult{Email: user.Email, Error: sendErr.Error()})
			s.logger.Error().Err(sendErr).Str("email", user.Email).Msg("failed to send digest")
		} else {
			result.EmailsSent++
			result.Results = append(result.Results, ports.UserSendResult{Email: user.Email, Success: true})
			s.logger.Info().Str("email", user.Email).Int("jobs", len(jobs)).Msg("digest sent")
		}

		if i < len(users)-1 && s.sendDelay > 0 {
			select {
			case <-ctx.Done():
				return result, fmt.Errorf("dispatch digest: %w", ctx.Err())
			case <-time.After(s.sendDelay):
			}
		}
	}

	// All-or-nothing marking keyed on "did any send succeed": jobs already
	// delivered to someone must not be resent to them on the next run.
	if result.EmailsSent > 0 {
		ids := make([]string, len(jobs))
		for i, j := range jobs {
			ids[i] = j.ID
		}
		if err := s.jobs.MarkEmailed(ctx, ids); err != nil {
			return result, fmt.Errorf("dispatch digest: mark emailed: %w", err)
		}
		s.logger.Info().Int("jobs", len(ids)).Msg("marked jobs as emailed")
	}

	return result, nil
}

func (s *NotifyService) sendTo(ctx context.Context, user *domain.User, jobs []*domain.Job, subject string) error {
	html, err := RenderDigest(jobs, user.Name)
	if err != nil {
		return fmt.Errorf("render digest: %w", err)
	}
	return s.mailer.Send(ctx, user.Email, subject, html)
}
