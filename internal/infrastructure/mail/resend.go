// Package mail implements the outbound email transport on the Resend HTTP API.
package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jobradar/jobradar/internal/core/domain"
)

const (
	defaultEndpoint = "https://api.resend.com/emails"
	sendTimeout     = 15 * time.Second
)

// Config captures the Resend credentials and sender identity.
type Config struct {
	APIKey string
	// From is the sender in "Name <addr>" form.
	From string
	// Endpoint overrides the API URL, used by tests.
	Endpoint string
}

// Resend sends transactional email through the Resend REST API.
type Resend struct {
	cfg        Config
	httpClient *http.Client
	logger     zerolog.Logger
}

func NewResend(cfg Config, logger zerolog.Logger) *Resend {
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultEndpoint
	}
	return &Resend{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: sendTimeout},
		logger:     logger,
	}
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type sendResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// Send delivers one HTML email. A transport failure or non-2xx response fails
// the call with an error wrapping domain.ErrUpstream.
func (r *Resend) Send(ctx context.Context, to, subject, html string) error {
	payload, err := json.Marshal(sendRequest{
		From:    r.cfg.From,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		return fmt.Errorf("resend: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("resend: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+r.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("resend: %w: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.TrimSpace(string(body))
		var sr sendResponse
		if json.Unmarshal(body, &sr) == nil && sr.Message != "" {
			msg = sr.Message
		}
		return fmt.Errorf("resend: %w: status %d: %s", domain.ErrUpstream, resp.StatusCode, msg)
	}

	var sr sendResponse
	_ = json.Unmarshal(body, &sr)
	r.logger.Debug().Str("to", to).Str("message_id", sr.ID).Msg("email sent")
	return nil
}
