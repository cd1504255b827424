package service

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/jobradar/jobradar/internal/core/domain"
)

// The digest is a self-contained HTML document; html/template escapes every
// source-supplied field, so a hostile job title cannot inject markup.
var digestTmpl = template.Must(template.New("digest").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>JobRadar - Daily Job Alert</title>
</head>
<body style="margin:0;padding:0;font-family:Arial,sans-serif;line-height:1.6;color:#333;">
  <div style="max-width:600px;margin:0 auto;background-color:#ffffff;">
    <div style="background-color:#1f2937;padding:24px;text-align:center;">
      <h1 style="margin:0;color:#ffffff;font-size:28px;">JobRadar</h1>
      <p style="margin:8px 0 0 0;color:#d1d5db;font-size:16px;">Daily Job Alert</p>
    </div>
    <div style="padding:32px 24px;">
      <h2 style="margin:0 0 16px 0;font-size:24px;color:#111827;">Hello {{.Name}}!</h2>
      <p style="margin:0 0 24px 0;font-size:16px;color:#374151;">
        We found <strong>{{.Count}}</strong> new developer {{if eq .Count 1}}position{{else}}positions{{end}} for you today:
      </p>
      <table role="presentation" style="width:100%;border-collapse:collapse;">
        <tbody>
        {{range .Jobs}}
          <tr style="border-bottom:1px solid #e5e7eb;">
            <td style="padding:16px 0;">
              <h3 style="margin:0;font-size:18px;color:#111827;">{{.Title}}</h3>
              <p style="margin:4px 0 0 0;font-size:14px;color:#6b7280;">{{.Company}} &bull; {{.Location}}</p>
              <p style="margin:8px 0;font-size:12px;color:#9ca3af;">Posted: {{.Posted}}</p>
              <a href="{{.URL}}" target="_blank" rel="noopener noreferrer"
                 style="display:inline-block;background-color:#3b82f6;color:white;padding:8px 16px;text-decoration:none;border-radius:6px;font-size:14px;">View Job</a>
            </td>
          </tr>
        {{end}}
        </tbody>
      </table>
    </div>
    <div style="background-color:#f9fafb;padding:24px;text-align:center;border-top:1px solid #e5e7eb;">
      <p style="margin:0;font-size:12px;color:#6b7280;">This email was sent by JobRadar.</p>
      <p style="margin:8px 0 0 0;font-size:12px;color:#9ca3af;">&copy; {{.Year}} JobRadar. All rights reserved.</p>
    </div>
  </div>
</body>
</html>
`))

type digestJob struct {
	Title    string
	Company  string
	Location string
	Posted   string
	URL      string
}

type digestData struct {
	Name  string
	Count int
	Jobs  []digestJob
	Year  int
}

// RenderDigest produces the HTML digest document for one recipient.
func RenderDigest(jobs []*domain.Job, userName string) (string, error) {
	data := digestData{
		Name:  userName,
		Count: len(jobs),
		Jobs:  make([]digestJob, len(jobs)),
		Year:  time.Now().Year(),
	}
	for i, j := range jobs {
		data.Jobs[i] = digestJob{
			Title:    j.Title,
			Company:  j.Company,
			Location: j.Location,
			Posted:   j.PostedAt.Format("Jan 2, 2006"),
			URL:      j.URL,
		}
	}

	var b strings.Builder
	if err := digestTmpl.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

// DigestSubject returns the subject line for a digest containing n jobs.
func DigestSubject(n int) string {
	if n == 1 {
		return "JobRadar Alert: 1 New Developer Position"
	}
	return fmt.Sprintf("JobRadar Alert: %d New Developer Positions", n)
}
