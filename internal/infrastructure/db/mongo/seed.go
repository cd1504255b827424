package mongo

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jobradar/jobradar/internal/core/domain"
)

// Seed inserts the default accounts and a couple of sample jobs when the
// store is empty. Intended for local development and first boot.
func Seed(ctx context.Context, users *UserRepository, jobs *JobRepository) error {
	count, err := users.Count(ctx)
	if err != nil {
		return fmt.Errorf("seed: count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed: hash password: %w", err)
	}

	now := time.Now().UTC()
	seedUsers := []*domain.User{
		{Name: "Alice", Email: "user@example.com", PasswordHash: string(hash), Role: domain.RoleUser, CreatedAt: now},
		{Name: "Bob", Email: "admin@example.com", PasswordHash: string(hash), Role: domain.RoleAdmin, CreatedAt: now},
	}
	for _, u := range seedUsers {
		if _, err := users.Create(ctx, u); err != nil {
			return fmt.Errorf("seed: create user %s: %w", u.Email, err)
		}
	}

	seedJobs := []*domain.Job{
		{
			Title:     "Frontend Developer",
			Company:   "Tech Company AB",
			Location:  "Göteborg",
			PostedAt:  time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC),
			URL:       "https://example.com/job1",
			Source:    domain.SourceJobTech,
			CreatedAt: now,
		},
		{
			Title:     "Fullstack Engineer",
			Company:   "Startup AB",
			Location:  "Mölndal",
			PostedAt:  time.Date(2025, 1, 21, 0, 0, 0, 0, time.UTC),
			URL:       "https://example.com/job2",
			Source:    domain.SourceJobTech,
			CreatedAt: now,
		},
	}
	for _, j := range seedJobs {
		if err := jobs.Insert(ctx, j); err != nil {
			return fmt.Errorf("seed: create job %s: %w", j.URL, err)
		}
	}

	return nil
}
