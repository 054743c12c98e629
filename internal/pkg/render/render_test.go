package render

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/eldrex/core/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestRelativeTime(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	t.Run("just now under a minute", func(t *testing.T) {
		assert.Equal(t, "Just now", RelativeTime(now.Add(-30*time.Second), now))
	})

	t.Run("minutes bucket", func(t *testing.T) {
		assert.Equal(t, "5m ago", RelativeTime(now.Add(-5*time.Minute), now))
	})

	t.Run("hours bucket", func(t *testing.T) {
		assert.Equal(t, "1h ago", RelativeTime(now.Add(-90*time.Minute), now))
	})

	t.Run("days bucket under a week", func(t *testing.T) {
		assert.Equal(t, "3d ago", RelativeTime(now.Add(-3*24*time.Hour), now))
	})

	t.Run("calendar date same year", func(t *testing.T) {
		got := RelativeTime(now.Add(-9*24*time.Hour), now)
		assert.Equal(t, "Mar 6", got)
	})

	t.Run("calendar date with year when different", func(t *testing.T) {
		past := time.Date(2024, 11, 2, 9, 0, 0, 0, time.UTC)
		assert.Equal(t, "Nov 2, 2024", RelativeTime(past, now))
	})
}

func TestEscapeHTML(t *testing.T) {
	got := EscapeHTML(`<script>x&y "q" 'z'</script>`)
	assert.NotContains(t, got, "<")
	assert.NotContains(t, got, ">")
	assert.NotContains(t, got, `"`)
	assert.NotContains(t, got, "'")
	assert.Equal(t, "&lt;script&gt;x&amp;y &quot;q&quot; &#39;z&#39;&lt;/script&gt;", got)
}

func TestEscapeHTMLAmpersandFirst(t *testing.T) {
	assert.Equal(t, "&amp;lt;", EscapeHTML("&lt;"))
}

func TestCategoryLabel(t *testing.T) {
	assert.Equal(t, "Improvement", CategoryLabel(models.CategoryImprovement))
	assert.Equal(t, "weird", CategoryLabel(models.CommentCategory("weird")))
}

func TestCommentCardEscapesAndBlurs(t *testing.T) {
	now := time.Now()
	cm := &models.CommentModel{
		Content:     `<img src=x onerror=alert(1)>`,
		Category:    models.CategoryOthers,
		UserName:    "swift-otter-042",
		IsSensitive: true,
	}
	cm.ID = "abc"

	html := CommentCard(cm, now)
	assert.Contains(t, html, "comment-card--blurred")
	assert.NotContains(t, html, "<img")
	assert.Contains(t, html, "&lt;img")
	assert.NotContains(t, html, "reveal")
}

func TestCommentCardAvatarFallback(t *testing.T) {
	now := time.Now()

	cm := &models.CommentModel{UserName: "ångström", Category: models.CategoryOthers}
	cm.ID = "a1"
	html := CommentCard(cm, now)
	assert.Contains(t, html, `<span class="comment-card__avatar">Å</span>`)
	assert.True(t, utf8.ValidString(html))

	anon := &models.CommentModel{Category: models.CategoryOthers}
	anon.ID = "a2"
	assert.Contains(t, CommentCard(anon, now), `<span class="comment-card__avatar">?</span>`)
}

func TestSkeleton(t *testing.T) {
	assert.Equal(t, "", Skeleton(0))
	assert.Equal(t, 3, strings.Count(Skeleton(3), "comment-card--skeleton"))
}
