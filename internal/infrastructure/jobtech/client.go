// Package jobtech implements the ingestion connector against the JobTech Dev
// job-search API (https://jobsearch.api.jobtechdev.se).
package jobtech

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jobradar/jobradar/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

// Config captures the fixed search parameters for one connector instance.
type Config struct {
	Endpoint string
	Keywords []string
	Region   string
	// Locations are the target municipalities; a posting is kept when its
	// municipality contains one of them (substring match, case-sensitive).
	Locations []string
	Limit     int
	Timeout   time.Duration
}

// Client issues one bounded search request per Fetch call and filters the
// returned batch down to postings in the target locations with a usable URL.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     zerolog.Logger
}

func NewClient(cfg Config, logger zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Wire types for the JobTech search response.

type searchResponse struct {
	Hits []hit `json:"hits"`
}

type hit struct {
	ID                 string `json:"id"`
	Headline           string `json:"headline"`
	Employer           struct {
		Name string `json:"name"`
	} `json:"employer"`
	WorkplaceAddress struct {
		Municipality string `json:"municipality"`
	} `json:"workplace_address"`
	PublicationDate    string `json:"publication_date"`
	ApplicationDetails struct {
		URL string `json:"url"`
	} `json:"application_details"`
	WebpageURL string `json:"webpage_url"`
}

// Fetch issues the search request and returns the filtered batch. Any request
// failure or timeout fails the whole call with an error wrapping
// domain.ErrUpstream; no partial results are returned.
func (c *Client) Fetch(ctx context.Context) ([]domain.RawPosting, error) {
	query := url.Values{}
	query.Set("q", strings.Join(c.cfg.Keywords, " OR "))
	query.Set("region", c.cfg.Region)
	query.Set("limit", strconv.Itoa(c.cfg.Limit))
	query.Set("offset", "0")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.Endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("jobtech: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jobtech: %w: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("jobtech: %w: status %d: %s", domain.ErrUpstream, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("jobtech: %w: decode response: %v", domain.ErrUpstream, err)
	}

	postings := make([]domain.RawPosting, 0, len(sr.Hits))
	for _, h := range sr.Hits {
		if !c.inTargetLocation(h.WorkplaceAddress.Municipality) {
			continue
		}

		// Prefer the application URL, fall back to the webpage URL. Without
		// either the posting cannot be deduplicated or displayed.
		jobURL := h.ApplicationDetails.URL
		if jobURL == "" {
			jobURL = h.WebpageURL
		}
		if jobURL == "" {
			c.logger.Debug().Str("external_id", h.ID).Msg("posting dropped, no usable url")
			continue
		}

		postings = append(postings, domain.RawPosting{
			ExternalID: h.ID,
			Title:      h.Headline,
			Company:    orDefault(h.Employer.Name, "Unknown Company"),
			Location:   orDefault(h.WorkplaceAddress.Municipality, "Unknown Location"),
			PostedAt:   parsePublicationDate(h.PublicationDate),
			URL:        jobURL,
		})
	}

	c.logger.Info().Int("hits", len(sr.Hits)).Int("matched", len(postings)).Msg("jobtech search completed")
	return postings, nil
}

func (c *Client) inTargetLocation(municipality string) bool {
	for _, loc := range c.cfg.Locations {
		if strings.Contains(municipality, loc) {
			return true
		}
	}
	return false
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// parsePublicationDate accepts the timestamp formats JobTech emits. An
// unparseable date falls back to now so the posting is still ingested.
func parsePublicationDate(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Now().UTC()
}
