package service

import (
	"strings"
	"testing"
	"time"

	"github.com/jobradar/jobradar/internal/core/domain"
)

func TestRenderDigest_ContainsJobFields(t *testing.T) {
	jobs := []*domain.Job{
		{
			Title:    "Senior Go Developer",
			Company:  "Polestar",
			Location: "Göteborg",
			PostedAt: time.Date(2025, 1, 20, 8, 0, 0, 0, time.UTC),
			URL:      "https://example.com/jobs/1",
		},
	}

	html, err := RenderDigest(jobs, "Alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"Hello Alice!",
		"Senior Go Developer",
		"Polestar",
		"Göteborg",
		"Posted: Jan 20, 2025",
		`href="https://example.com/jobs/1"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("digest missing %q", want)
		}
	}
}

func TestRenderDigest_EscapesHostileTitle(t *testing.T) {
	jobs := []*domain.Job{
		{
			Title:    `<script>alert("x")</script>`,
			Company:  "Evil & Co",
			Location: "Mölndal",
			PostedAt: time.Now(),
			URL:      "https://example.com/jobs/2",
		},
	}

	html, err := RenderDigest(jobs, "Bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Contains(html, "<script>") {
		t.Fatalf("script tag must be escaped")
	}
	if !strings.Contains(html, "&lt;script&gt;") {
		t.Errorf("expected escaped title in output")
	}
	if !strings.Contains(html, "Evil &amp; Co") {
		t.Errorf("expected escaped company in output")
	}
}

func TestDigestSubject_Pluralization(t *testing.T) {
	if got := DigestSubject(1); got != "JobRadar Alert: 1 New Developer Position" {
		t.Errorf("singular subject = %q", got)
	}
	if got := DigestSubject(5); got != "JobRadar Alert: 5 New Developer Positions" {
		t.Errorf("plural subject = %q", got)
	}
}
