package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/eldrex/core/internal/models"
)

// CommentCard produces the markup for a single comment entry. Content is
// always escaped; sensitive comments get a blur overlay class and stay
// obscured, with no reveal control.
func CommentCard(cm *models.CommentModel, now time.Time) string {
	var b strings.Builder

	cardClass := "comment-card"
	if cm.IsSensitive {
		cardClass += " comment-card--blurred"
	}

	fmt.Fprintf(&b, `<article class="%s" data-id="%s">`, cardClass, EscapeHTML(cm.ID))
	fmt.Fprintf(&b, `<header class="comment-card__meta">`)
	fmt.Fprintf(&b, `<span class="comment-card__avatar">%s</span>`, EscapeHTML(avatarLetter(cm)))
	fmt.Fprintf(&b, `<span class="comment-card__author">%s</span>`, EscapeHTML(cm.UserName))
	fmt.Fprintf(&b, `<span class="comment-card__category">%s</span>`, EscapeHTML(CategoryLabel(cm.Category)))
	fmt.Fprintf(&b, `<time class="comment-card__time">%s</time>`, EscapeHTML(RelativeTime(cm.CreatedAt, now)))
	b.WriteString(`</header>`)
	fmt.Fprintf(&b, `<p class="comment-card__content">%s</p>`, EscapeHTML(cm.Content))
	fmt.Fprintf(&b, `<footer class="comment-card__actions">`)
	fmt.Fprintf(&b, `<button class="comment-card__like" data-likes="%d">%d</button>`, cm.Likes, cm.Likes)
	fmt.Fprintf(&b, `<button class="comment-card__reply" data-replies="%d">%d</button>`, cm.ReplyCount, cm.ReplyCount)
	b.WriteString(`<button class="comment-card__report"></button>`)
	b.WriteString(`</footer></article>`)

	return b.String()
}

// Skeleton produces n placeholder cards for the loading state.
func Skeleton(n int) string {
	if n <= 0 {
		return ""
	}
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteString(`<article class="comment-card comment-card--skeleton">`)
		b.WriteString(`<div class="skeleton-line skeleton-line--meta"></div>`)
		b.WriteString(`<div class="skeleton-line"></div>`)
		b.WriteString(`<div class="skeleton-line skeleton-line--short"></div>`)
		b.WriteString(`</article>`)
	}
	return b.String()
}

func avatarLetter(cm *models.CommentModel) string {
	if cm.UserAvatar != "" {
		return cm.UserAvatar
	}
	// first rune, not first byte: renamed visitors can carry
	// multibyte names
	for _, r := range strings.TrimSpace(cm.UserName) {
		return strings.ToUpper(string(r))
	}
	return "?"
}
