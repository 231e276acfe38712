package notify

import (
	"bytes"
	"fmt"
	"grantsync-backend/lib/grantstore"
	"grantsync-backend/lib/timezone"
	htmltemplate "html/template"
	"slices"
	"strings"
	"time"
)

// DefaultMilestones are the days left before a deadline on which a grant is
// included in the digest.
var DefaultMilestones = []int{14, 7, 5, 3}

const (
	colorUrgent  = "#dc3545"
	colorWarning = "#ffc107"
)

// FormatDeadline describes how long is left until `deadline`.
func FormatDeadline(deadline, now time.Time) string {
	days := timezone.DaysUntil(now, deadline)
	switch {
	case days <= 0:
		return "TODAY"
	case days == 1:
		return "Tomorrow"
	}
	return fmt.Sprintf("%d days left", days)
}

// OnMilestones keeps the grants whose days left is one of `milestones`.
func OnMilestones(grants []grantstore.Grant, now time.Time, milestones []int) []grantstore.Grant {
	var out []grantstore.Grant
	for _, g := range grants {
		if g.Deadline == nil {
			continue
		}
		if slices.Contains(milestones, timezone.DaysUntil(now, *g.Deadline)) {
			out = append(out, g)
		}
	}
	return out
}

func plural(n int, s string) string {
	if n == 1 {
		return s
	}
	return s + "s"
}

func Subject(count int) string {
	return fmt.Sprintf(
		"⏰ %d %s with Approaching %s",
		count, plural(count, "Grant"), plural(count, "Deadline"),
	)
}

type digestRow struct {
	Title    string
	Agency   string
	Deadline string
	Color    string
	Url      string
}

type digestData struct {
	Count int
	Noun  string
	Rows  []digestRow
}

var digestHtml = htmltemplate.Must(htmltemplate.New("digest").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; background: #f5f5f5; margin: 0; padding: 20px;">
  <div style="max-width: 600px; margin: 0 auto; background: #fff; border-radius: 8px; overflow: hidden;">
    <div style="background: #0A1929; padding: 24px; text-align: center;">
      <h1 style="color: #4ECDC4; margin: 0; font-size: 24px;">Deadline Alert</h1>
    </div>
    <div style="padding: 24px;">
      <p style="color: #333; font-size: 16px;">
        You have <strong>{{.Count}} {{.Noun}}</strong> with approaching deadlines:
      </p>
      <table style="width: 100%; border-collapse: collapse; margin: 20px 0;">
        <thead>
          <tr style="background: #f8f9fa;">
            <th style="padding: 12px; text-align: left;">Grant</th>
            <th style="padding: 12px; text-align: center;">Deadline</th>
            <th style="padding: 12px; text-align: center;">Link</th>
          </tr>
        </thead>
        <tbody>
        {{- range .Rows}}
          <tr>
            <td style="padding: 12px; border-bottom: 1px solid #eee;">
              <strong>{{.Title}}</strong><br/>
              <span style="color: #666; font-size: 14px;">{{.Agency}}</span>
            </td>
            <td style="padding: 12px; border-bottom: 1px solid #eee; text-align: center;">
              <span style="background: {{.Color}}; color: #fff; padding: 4px 12px; border-radius: 12px; font-size: 13px;">{{.Deadline}}</span>
            </td>
            <td style="padding: 12px; border-bottom: 1px solid #eee; text-align: center;">
              {{if .Url}}<a href="{{.Url}}" style="color: #4ECDC4;">View Grant</a>{{else}}-{{end}}
            </td>
          </tr>
        {{- end}}
        </tbody>
      </table>
    </div>
  </div>
</body>
</html>
`))

// RenderDigest renders the plain text and html bodies of the deadline email.
func RenderDigest(grants []grantstore.Grant, now time.Time) (text string, html string, err error) {
	data := digestData{
		Count: len(grants),
		Noun:  plural(len(grants), "grant"),
	}

	var textBody strings.Builder
	fmt.Fprintf(&textBody, "You have %d %s with approaching deadlines:\n\n", data.Count, data.Noun)

	for _, g := range grants {
		row := digestRow{
			Title:    g.Title,
			Agency:   g.Agency,
			Deadline: "No deadline",
			Color:    colorWarning,
			Url:      g.Url,
		}
		if g.Deadline != nil {
			row.Deadline = FormatDeadline(*g.Deadline, now)
			if timezone.DaysUntil(now, *g.Deadline) <= 3 {
				row.Color = colorUrgent
			}
		}
		data.Rows = append(data.Rows, row)

		fmt.Fprintf(&textBody, "- %s (%s): %s\n", row.Title, row.Agency, row.Deadline)
		if row.Url != "" {
			fmt.Fprintf(&textBody, "  %s\n", row.Url)
		}
	}

	var htmlBody bytes.Buffer
	err = digestHtml.Execute(&htmlBody, data)
	if err != nil {
		return "", "", err
	}
	return textBody.String(), htmlBody.String(), nil
}
