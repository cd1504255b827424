package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jobradar/jobradar/internal/core/domain"
	"github.com/jobradar/jobradar/internal/core/ports"
)

type stubJobService struct {
	listFn       func(ctx context.Context, input ports.ListJobsInput) (*ports.ListJobsResult, error)
	createFn     func(ctx context.Context, input ports.CreateJobInput) (*domain.Job, error)
	setAppliedFn func(ctx context.Context, input ports.SetAppliedInput) (*domain.Job, error)
}

func (s *stubJobService) ListJobs(ctx context.Context, input ports.ListJobsInput) (*ports.ListJobsResult, error) {
	return s.listFn(ctx, input)
}

func (s *stubJobService) CreateJob(ctx context.Context, input ports.CreateJobInput) (*domain.Job, error) {
	return s.createFn(ctx, input)
}

func (s *stubJobService) SetApplied(ctx context.Context, input ports.SetAppliedInput) (*domain.Job, error) {
	return s.setAppliedFn(ctx, input)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func TestJobHandler_List_PassesFilters(t *testing.T) {
	e := newTestEcho()
	var gotInput ports.ListJobsInput
	stub := &stubJobService{
		listFn: func(_ context.Context, input ports.ListJobsInput) (*ports.ListJobsResult, error) {
			gotInput = input
			return &ports.ListJobsResult{
				Jobs: []*domain.Job{{ID: "job-1", Title: "Go Developer"}},
				Total: 1, Page: 1, TotalPages: 1,
			}, nil
		},
	}
	handler := NewJobHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/v1/jobs?search=go&location=Göteborg&applied=true&dateFrom=2025-01-01&dateTo=2025-01-31&page=2&limit=10", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	if gotInput.Search != "go" || gotInput.Location != "Göteborg" {
		t.Errorf("text filters: %+v", gotInput)
	}
	if gotInput.Applied == nil || !*gotInput.Applied {
		t.Errorf("applied filter not parsed")
	}
	if gotInput.Emailed != nil {
		t.Errorf("unset emailed must stay nil")
	}
	wantFrom := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	if !gotInput.DateFrom.Equal(wantFrom) {
		t.Errorf("dateFrom = %v", gotInput.DateFrom)
	}
	if gotInput.Page != 2 || gotInput.Limit != 10 {
		t.Errorf("pagination: page=%d limit=%d", gotInput.Page, gotInput.Limit)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["total"] != float64(1) || resp["totalPages"] != float64(1) {
		t.Errorf("unexpected envelope: %v", resp)
	}
}

func TestJobHandler_List_RejectsBadBool(t *testing.T) {
	e := newTestEcho()
	stub := &stubJobService{
		listFn: func(context.Context, ports.ListJobsInput) (*ports.ListJobsResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewJobHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/v1/jobs?applied=banana", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.List(c)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestJobHandler_List_RejectsBadDate(t *testing.T) {
	e := newTestEcho()
	stub := &stubJobService{
		listFn: func(context.Context, ports.ListJobsInput) (*ports.ListJobsResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewJobHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/v1/jobs?dateFrom=20-01-2025", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.List(c)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestJobHandler_Create_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubJobService{
		createFn: func(_ context.Context, input ports.CreateJobInput) (*domain.Job, error) {
			if input.Title != "DevOps Engineer" || input.URL != "https://example.com/manual" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &domain.Job{ID: "job-1", Title: input.Title, URL: input.URL, Source: domain.SourceManual}, nil
		},
	}
	handler := NewJobHandler(stub)

	body := strings.NewReader(`{"title":"DevOps Engineer","company":"Volvo Cars","location":"Göteborg","url":"https://example.com/manual"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/jobs", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestJobHandler_Create_ValidatesPayload(t *testing.T) {
	e := newTestEcho()
	stub := &stubJobService{
		createFn: func(context.Context, ports.CreateJobInput) (*domain.Job, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewJobHandler(stub)

	// Missing url.
	body := strings.NewReader(`{"title":"DevOps Engineer","company":"Volvo Cars","location":"Göteborg"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/jobs", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.Create(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestJobHandler_SetApplied_EmptyBodyMeansToggle(t *testing.T) {
	e := newTestEcho()
	var gotInput ports.SetAppliedInput
	stub := &stubJobService{
		setAppliedFn: func(_ context.Context, input ports.SetAppliedInput) (*domain.Job, error) {
			gotInput = input
			return &domain.Job{ID: input.ID, Applied: true}, nil
		},
	}
	handler := NewJobHandler(stub)

	req := httptest.NewRequest(http.MethodPut, "/v1/jobs/job-1/applied", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("job-1")

	if err := handler.SetApplied(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotInput.ID != "job-1" || gotInput.Applied != nil {
		t.Fatalf("empty body must request a toggle: %+v", gotInput)
	}
}

func TestJobHandler_SetApplied_ExplicitValue(t *testing.T) {
	e := newTestEcho()
	var gotInput ports.SetAppliedInput
	stub := &stubJobService{
		setAppliedFn: func(_ context.Context, input ports.SetAppliedInput) (*domain.Job, error) {
			gotInput = input
			return &domain.Job{ID: input.ID, Applied: *input.Applied}, nil
		},
	}
	handler := NewJobHandler(stub)

	req := httptest.NewRequest(http.MethodPut, "/v1/jobs/job-1/applied", strings.NewReader(`{"applied":false}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("job-1")

	if err := handler.SetApplied(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if gotInput.Applied == nil || *gotInput.Applied {
		t.Fatalf("explicit false must be forwarded: %+v", gotInput)
	}
}
