package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/jobradar/jobradar/internal/core/domain"
	"github.com/jobradar/jobradar/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubJobRepo struct {
	mu     sync.Mutex
	byURL  map[string]*domain.Job
	nextID int

	findErr      error             // if set, FindByURL returns this error
	insertErrFor map[string]error  // per-URL insert failures
	markErr      error             // if set, MarkEmailed returns this error
	marked       [][]string        // id sets passed to MarkEmailed
	lastFilter   ports.ListJobsFilter
}

func newStubJobRepo() *stubJobRepo {
	return &stubJobRepo{
		byURL:        make(map[string]*domain.Job),
		insertErrFor: make(map[string]error),
	}
}

func (r *stubJobRepo) Insert(_ context.Context, j *domain.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.insertErrFor[j.URL]; err != nil {
		return err
	}
	if _, exists := r.byURL[j.URL]; exists {
		// Mirrors the unique index on url.
		return domain.ErrDuplicateJob
	}

	r.nextID++
	clone := *j
	clone.ID = strings.Repeat("0", 4) + itoa(r.nextID)
	r.byURL[j.URL] = &clone
	j.ID = clone.ID
	return nil
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var b []byte
	for n > 0 {
		b = append([]byte{byte('0' + n%10)}, b...)
		n /= 10
	}
	return string(b)
}

func (r *stubJobRepo) FindByURL(_ context.Context, url string) (*domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.findErr != nil {
		return nil, r.findErr
	}
	j, ok := r.byURL[url]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	clone := *j
	return &clone, nil
}

func (r *stubJobRepo) FindByID(_ context.Context, id string) (*domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, j := range r.byURL {
		if j.ID == id {
			clone := *j
			return &clone, nil
		}
	}
	return nil, domain.ErrJobNotFound
}

func (r *stubJobRepo) List(_ context.Context, f ports.ListJobsFilter) ([]*domain.Job, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastFilter = f

	var matched []*domain.Job
	for _, j := range r.byURL {
		if f.Applied != nil && j.Applied != *f.Applied {
			continue
		}
		if f.Emailed != nil && j.Emailed != *f.Emailed {
			continue
		}
		if !f.DateFrom.IsZero() && j.PostedAt.Before(f.DateFrom) {
			continue
		}
		if !f.DateTo.IsZero() && !j.PostedAt.Before(f.DateTo) {
			continue
		}
		if f.Search != "" {
			titleMatch := strings.Contains(strings.ToLower(j.Title), strings.ToLower(f.Search))
			companyMatch := strings.Contains(strings.ToLower(j.Company), strings.ToLower(f.Search))
			if !titleMatch && !companyMatch {
				continue
			}
		}
		if f.Location != "" && !strings.Contains(strings.ToLower(j.Location), strings.ToLower(f.Location)) {
			continue
		}
		clone := *j
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, k int) bool { return matched[i].PostedAt.After(matched[k].PostedAt) })

	total := int64(len(matched))
	skip := (f.Page - 1) * f.Limit
	if skip < 0 {
		skip = 0
	}
	if skip > len(matched) {
		return nil, total, nil
	}
	end := skip + f.Limit
	if f.Limit <= 0 || end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], total, nil
}

func (r *stubJobRepo) SetApplied(_ context.Context, id string, applied bool) (*domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, j := range r.byURL {
		if j.ID == id {
			j.Applied = applied
			clone := *j
			return &clone, nil
		}
	}
	return nil, domain.ErrJobNotFound
}

func (r *stubJobRepo) FindUnemailed(_ context.Context) ([]*domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var jobs []*domain.Job
	for _, j := range r.byURL {
		if !j.Emailed {
			clone := *j
			jobs = append(jobs, &clone)
		}
	}
	sort.Slice(jobs, func(i, k int) bool { return jobs[i].PostedAt.After(jobs[k].PostedAt) })
	return jobs, nil
}

func (r *stubJobRepo) MarkEmailed(_ context.Context, ids []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.markErr != nil {
		return r.markErr
	}
	r.marked = append(r.marked, ids)
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	for _, j := range r.byURL {
		if _, ok := set[j.ID]; ok {
			j.Emailed = true
		}
	}
	return nil
}

func (r *stubJobRepo) CountUnemailed(_ context.Context) (int64, error) {
	jobs, _ := r.FindUnemailed(context.Background())
	return int64(len(jobs)), nil
}

func (r *stubJobRepo) Latest(_ context.Context) (*domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var latest *domain.Job
	for _, j := range r.byURL {
		if latest == nil || j.CreatedAt.After(latest.CreatedAt) {
			latest = j
		}
	}
	if latest == nil {
		return nil, domain.ErrJobNotFound
	}
	clone := *latest
	return &clone, nil
}

func (r *stubJobRepo) Stats(_ context.Context, recentSince time.Time) (*domain.JobStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := &domain.JobStats{}
	for _, j := range r.byURL {
		stats.Total++
		if j.Applied {
			stats.Applied++
		}
		if j.Emailed {
			stats.Emailed++
		}
		if !j.CreatedAt.Before(recentSince) {
			stats.Recent++
		}
	}
	return stats, nil
}

// ---------------------------------------------------------------------------
// Fetcher and lock stubs
// ---------------------------------------------------------------------------

type stubFetcher struct {
	postings []domain.RawPosting
	err      error
}

func (f *stubFetcher) Fetch(context.Context) ([]domain.RawPosting, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.postings, nil
}

type nopLock struct{}

func (nopLock) TryLock(context.Context, string, time.Duration) (bool, error) { return true, nil }
func (nopLock) Unlock(context.Context, string) error                         { return nil }

type heldLock struct{}

func (heldLock) TryLock(context.Context, string, time.Duration) (bool, error) { return false, nil }
func (heldLock) Unlock(context.Context, string) error                         { return nil }

type brokenLock struct{}

func (brokenLock) TryLock(context.Context, string, time.Duration) (bool, error) {
	return false, errors.New("lock store down")
}
func (brokenLock) Unlock(context.Context, string) error { return nil }

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

func posting(url, title string) domain.RawPosting {
	return domain.RawPosting{
		ExternalID: "ext-" + url,
		Title:      title,
		Company:    "Tech Company AB",
		Location:   "Göteborg",
		PostedAt:   time.Date(2025, 1, 20, 8, 0, 0, 0, time.UTC),
		URL:        url,
	}
}

// ---------------------------------------------------------------------------
// Run tests
// ---------------------------------------------------------------------------

func TestIngest_SavesNewPostings(t *testing.T) {
	repo := newStubJobRepo()
	fetcher := &stubFetcher{postings: []domain.RawPosting{
		posting("https://example.com/1", "Frontend Developer"),
		posting("https://example.com/2", "Fullstack Engineer"),
	}}
	svc := NewIngestService(fetcher, repo, nopLock{}, discardLogger)

	result, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Fetched != 2 || result.Saved != 2 || result.Duplicates != 0 || result.Failed != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}

	saved, err := repo.FindByURL(context.Background(), "https://example.com/1")
	if err != nil {
		t.Fatalf("job not stored: %v", err)
	}
	if saved.Source != domain.SourceJobTech {
		t.Errorf("expected source %q, got %q", domain.SourceJobTech, saved.Source)
	}
	if saved.Applied || saved.Emailed {
		t.Errorf("new job must start with applied=false emailed=false")
	}
	if saved.CreatedAt.IsZero() {
		t.Errorf("CreatedAt must be set at insert")
	}
}

func TestIngest_SecondRunIsIdempotent(t *testing.T) {
	repo := newStubJobRepo()
	fetcher := &stubFetcher{postings: []domain.RawPosting{
		posting("https://example.com/1", "Frontend Developer"),
		posting("https://example.com/2", "Fullstack Engineer"),
		posting("https://example.com/3", "React Developer"),
	}}
	svc := NewIngestService(fetcher, repo, nopLock{}, discardLogger)

	first, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.Saved != 3 || first.Duplicates != 0 {
		t.Fatalf("first run result: %+v", first)
	}

	second, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.Saved != 0 || second.Duplicates != 3 {
		t.Fatalf("second run result: %+v", second)
	}
}

func TestIngest_SameURLDifferentTitleIsDuplicate(t *testing.T) {
	repo := newStubJobRepo()
	fetcher := &stubFetcher{postings: []domain.RawPosting{
		posting("https://example.com/1", "Frontend Developer"),
		posting("https://example.com/1", "Senior Frontend Developer"),
	}}
	svc := NewIngestService(fetcher, repo, nopLock{}, discardLogger)

	result, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Saved != 1 || result.Duplicates != 1 {
		t.Fatalf("expected saved=1 duplicates=1, got %+v", result)
	}

	stored, _ := repo.FindByURL(context.Background(), "https://example.com/1")
	if stored.Title != "Frontend Developer" {
		t.Errorf("first posting must win, got title %q", stored.Title)
	}
}

func TestIngest_InsertConflictReclassifiedAsDuplicate(t *testing.T) {
	repo := newStubJobRepo()
	// The check misses but the unique index rejects the insert, as when two
	// runs race on the same URL.
	repo.insertErrFor["https://example.com/1"] = domain.ErrDuplicateJob

	fetcher := &stubFetcher{postings: []domain.RawPosting{
		posting("https://example.com/1", "Frontend Developer"),
	}}
	svc := NewIngestService(fetcher, repo, nopLock{}, discardLogger)

	result, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("conflict must not surface as failure: %v", err)
	}
	if result.Duplicates != 1 || result.Saved != 0 || result.Failed != 0 {
		t.Fatalf("expected duplicates=1, got %+v", result)
	}
}

func TestIngest_OneBadRecordDoesNotAbortBatch(t *testing.T) {
	repo := newStubJobRepo()
	repo.insertErrFor["https://example.com/2"] = errors.New("write timeout")

	fetcher := &stubFetcher{postings: []domain.RawPosting{
		posting("https://example.com/1", "Frontend Developer"),
		posting("https://example.com/2", "Fullstack Engineer"),
		posting("https://example.com/3", "React Developer"),
	}}
	svc := NewIngestService(fetcher, repo, nopLock{}, discardLogger)

	result, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("per-posting failure must not abort the run: %v", err)
	}
	if result.Fetched != 3 || result.Saved != 2 || result.Failed != 1 {
		t.Fatalf("expected saved=2 failed=1, got %+v", result)
	}
	if result.Saved+result.Duplicates > result.Fetched {
		t.Errorf("saved+duplicates must not exceed fetched: %+v", result)
	}
}

func TestIngest_FetchFailureAbortsRun(t *testing.T) {
	repo := newStubJobRepo()
	fetcher := &stubFetcher{err: domain.ErrUpstream}
	svc := NewIngestService(fetcher, repo, nopLock{}, discardLogger)

	_, err := svc.Run(context.Background())
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if len(repo.byURL) != 0 {
		t.Errorf("nothing may be persisted on fetch failure")
	}
}

func TestIngest_LockHeldReturnsRunInProgress(t *testing.T) {
	repo := newStubJobRepo()
	fetcher := &stubFetcher{postings: []domain.RawPosting{posting("https://example.com/1", "x")}}
	svc := NewIngestService(fetcher, repo, heldLock{}, discardLogger)

	_, err := svc.Run(context.Background())
	if !errors.Is(err, domain.ErrRunInProgress) {
		t.Fatalf("expected ErrRunInProgress, got %v", err)
	}
	if len(repo.byURL) != 0 {
		t.Errorf("run must not proceed while lock is held")
	}
}

func TestIngest_LockErrorFailsOpen(t *testing.T) {
	repo := newStubJobRepo()
	fetcher := &stubFetcher{postings: []domain.RawPosting{posting("https://example.com/1", "x")}}
	svc := NewIngestService(fetcher, repo, brokenLock{}, discardLogger)

	result, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("broken lock store must not block the run: %v", err)
	}
	if result.Saved != 1 {
		t.Fatalf("expected saved=1, got %+v", result)
	}
}
