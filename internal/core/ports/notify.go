package ports

import "context"

// Mailer abstracts the outbound email transport.
type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}

// UserSendResult records the outcome of one recipient's send attempt.
type UserSendResult struct {
	Email   string `json:"user"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// DispatchResult reports the outcome of one digest dispatch run.
type DispatchResult struct {
	JobCount     int              `json:"jobCount"`
	UserCount    int              `json:"userCount"`
	EmailsSent   int              `json:"emailsSent"`
	EmailsFailed int              `json:"emailsFailed"`
	Results      []UserSendResult `json:"results,omitempty"`
}

// NotifyService sends the digest of un-emailed jobs to every registered user.
type NotifyService interface {
	DispatchDigest(ctx context.Context) (*DispatchResult, error)
}
