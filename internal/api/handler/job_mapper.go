package handler

import (
	"fmt"
	"strconv"
	"time"

	"github.com/jobradar/jobradar/internal/core/domain"
	"github.com/jobradar/jobradar/internal/core/ports"
)

// --- Query → Service input ---

func toListInput(q listJobsQuery) (ports.ListJobsInput, error) {
	input := ports.ListJobsInput{
		Search:   q.Search,
		Location: q.Location,
		Page:     q.Page,
		Limit:    q.Limit,
	}

	var err error
	if input.Applied, err = parseOptionalBool("applied", q.Applied); err != nil {
		return input, err
	}
	if input.Emailed, err = parseOptionalBool("emailed", q.Emailed); err != nil {
		return input, err
	}
	if input.DateFrom, err = parseOptionalDate("dateFrom", q.DateFrom); err != nil {
		return input, err
	}
	if input.DateTo, err = parseOptionalDate("dateTo", q.DateTo); err != nil {
		return input, err
	}

	return input, nil
}

func parseOptionalBool(name, s string) (*bool, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be true or false", domain.ErrValidation, name)
	}
	return &v, nil
}

func parseOptionalDate(name, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be a date in 2006-01-02 form", domain.ErrValidation, name)
	}
	return t, nil
}

// --- Domain → HTTP response ---

func toJobResponse(j *domain.Job) jobResponse {
	return jobResponse{
		ID:        j.ID,
		Title:     j.Title,
		Company:   j.Company,
		Location:  j.Location,
		PostedAt:  j.PostedAt,
		URL:       j.URL,
		Source:    j.Source,
		Applied:   j.Applied,
		Emailed:   j.Emailed,
		CreatedAt: j.CreatedAt,
	}
}

func toListResponse(r *ports.ListJobsResult) listJobsResponse {
	jobs := make([]jobResponse, len(r.Jobs))
	for i, j := range r.Jobs {
		jobs[i] = toJobResponse(j)
	}
	return listJobsResponse{
		Jobs:       jobs,
		Total:      r.Total,
		Page:       r.Page,
		TotalPages: r.TotalPages,
	}
}
