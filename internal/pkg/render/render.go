package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/eldrex/core/internal/models"
)

// categoryLabels maps feedback categories to their display labels.
var categoryLabels = map[models.CommentCategory]string{
	models.CategoryImprovement:    "Improvement",
	models.CategoryRecommendation: "Recommendation",
	models.CategoryRequest:        "Request",
	models.CategoryReport:         "Report",
	models.CategoryOthers:         "Others",
}

// CategoryLabel returns the display label for a category, falling back to the
// raw category string when unrecognized.
func CategoryLabel(c models.CommentCategory) string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

// RelativeTime humanizes a timestamp relative to now: "Just now" under a
// minute, then minute/hour/day buckets up to a week, then a calendar date.
// The year is shown only when it differs from the current year.
func RelativeTime(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "Just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
	if t.Year() == now.Year() {
		return t.Format("Jan 2")
	}
	return t.Format("Jan 2, 2006")
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeHTML escapes user-supplied text for embedding in markup.
// Ampersand is replaced first so entities are not double-escaped.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}
