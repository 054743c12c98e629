package comment

import (
	"context"
	"errors"
	"time"

	"github.com/eldrex/core/internal/models"
	"github.com/eldrex/core/internal/modules/stats/analytics"
)

const (
	// MaxContentLen bounds the trimmed comment body. Enforced here and
	// mirrored client-side so invalid bodies never reach the wire.
	MaxContentLen = 1000
)

var (
	ErrPostFailed     = errors.New("comment could not be posted")
	ErrNotFound       = errors.New("comment not found")
	ErrEmptyContent   = errors.New("content must not be empty")
	ErrContentTooLong = errors.New("content exceeds the maximum length")
	ErrBadCategory    = errors.New("unknown category")
)

type CreateCommentDTO struct {
	Content  string `json:"content"  binding:"required"`
	Category string `json:"category" binding:"required"`
}

type ReplyDTO struct {
	Content string `json:"content" binding:"required"`
}

type ReportDTO struct {
	Reason string `json:"reason" binding:"required"`
}

// LikeResult is the outcome of a like toggle: the new liked state for
// the acting user and the resulting counter.
type LikeResult struct {
	Liked bool `json:"liked"`
	Likes int  `json:"likes"`
}

// mirror is the analytics surface the service writes through. All
// calls are fire-and-forget on the caller side.
type mirror interface {
	Track(ctx context.Context, event string)
	MirrorComment(ctx context.Context, m analytics.CommentMirror)
	MirrorReportIncr(ctx context.Context, contentID string)
}

// broadcaster pushes realtime events to connected feed clients.
type broadcaster interface {
	BroadcastPublic(event string, payload interface{})
}

type commentResponse struct {
	ID          string                 `json:"id"`
	Content     string                 `json:"content"`
	Category    models.CommentCategory `json:"category"`
	UserID      string                 `json:"user_id"`
	UserName    string                 `json:"user_name"`
	UserAvatar  string                 `json:"user_avatar"`
	Likes       int                    `json:"likes"`
	Liked       bool                   `json:"liked"`
	ReplyCount  int                    `json:"reply_count"`
	IsSensitive bool                   `json:"is_sensitive"`
	Created     time.Time              `json:"created"`
	Modified    time.Time              `json:"modified"`
}

type replyResponse struct {
	ID         string    `json:"id"`
	CommentID  string    `json:"comment_id"`
	Content    string    `json:"content"`
	UserID     string    `json:"user_id"`
	UserName   string    `json:"user_name"`
	UserAvatar string    `json:"user_avatar"`
	Likes      int       `json:"likes"`
	Liked      bool      `json:"liked"`
	Created    time.Time `json:"created"`
}

func toResponse(c *models.CommentModel, viewerID string) commentResponse {
	return commentResponse{
		ID:          c.ID,
		Content:     c.Content,
		Category:    c.Category,
		UserID:      c.UserID,
		UserName:    c.UserName,
		UserAvatar:  c.UserAvatar,
		Likes:       c.Likes,
		Liked:       viewerID != "" && c.LikedBy.Contains(viewerID),
		ReplyCount:  c.ReplyCount,
		IsSensitive: c.IsSensitive,
		Created:     c.CreatedAt,
		Modified:    c.UpdatedAt,
	}
}

func toReplyResponse(r *models.ReplyModel, viewerID string) replyResponse {
	return replyResponse{
		ID:         r.ID,
		CommentID:  r.CommentID,
		Content:    r.Content,
		UserID:     r.UserID,
		UserName:   r.UserName,
		UserAvatar: r.UserAvatar,
		Likes:      r.Likes,
		Liked:      viewerID != "" && r.LikedBy.Contains(viewerID),
		Created:    r.CreatedAt,
	}
}
