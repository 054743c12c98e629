package comment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/eldrex/core/internal/models"
	"github.com/eldrex/core/internal/modules/gateway"
	"github.com/eldrex/core/internal/modules/stats/analytics"
	"github.com/eldrex/core/internal/pkg/pagination"
	"github.com/eldrex/core/internal/pkg/response"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Author is the denormalized identity stamped onto comments and
// replies at post time. Later profile edits do not propagate.
type Author struct {
	ID     string
	Name   string
	Avatar string
}

type Service struct {
	db      *gorm.DB
	matcher *SensitiveMatcher
	stats   mirror
	hub     broadcaster
	logger  *zap.Logger
	maxLen  int
}

func NewService(db *gorm.DB, matcher *SensitiveMatcher, stats mirror, hub broadcaster, logger *zap.Logger) *Service {
	return &Service{db: db, matcher: matcher, stats: stats, hub: hub, logger: logger, maxLen: MaxContentLen}
}

// SetMaxContentLen overrides the default content length cap.
func (s *Service) SetMaxContentLen(n int) {
	if n > 0 {
		s.maxLen = n
	}
}

func (s *Service) validateContent(raw string) (string, error) {
	content := strings.TrimSpace(raw)
	if content == "" {
		return "", ErrEmptyContent
	}
	if len([]rune(content)) > s.maxLen {
		return "", ErrContentTooLong
	}
	return content, nil
}

// Create validates and stores a new comment, then dispatches the
// analytics mirror and the realtime broadcast without waiting on them.
func (s *Service) Create(ctx context.Context, dto *CreateCommentDTO, author Author) (*models.CommentModel, error) {
	content, err := s.validateContent(dto.Content)
	if err != nil {
		return nil, err
	}
	category := models.CommentCategory(strings.ToLower(strings.TrimSpace(dto.Category)))
	if !models.ValidCategory(category) {
		return nil, ErrBadCategory
	}

	c := models.CommentModel{
		Content:     content,
		Category:    category,
		UserID:      author.ID,
		UserName:    author.Name,
		UserAvatar:  author.Avatar,
		Status:      models.CommentActive,
		IsSensitive: s.matcher.Match(content),
	}
	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		s.logger.Error("comment create failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrPostFailed, err)
	}

	s.dispatchAsync(func(ctx context.Context) {
		s.stats.Track(ctx, analytics.EventCommentPosted)
		s.stats.MirrorComment(ctx, mirrorOf(&c))
	})
	if s.hub != nil {
		s.hub.BroadcastPublic(gateway.EventCommentCreated, toResponse(&c, ""))
	}
	return &c, nil
}

// Reply stores a reply and bumps the parent's reply counter in one
// transaction. The counter is advisory; readers must not trust it over
// the actual reply listing.
func (s *Service) Reply(ctx context.Context, commentID string, dto *ReplyDTO, author Author) (*models.ReplyModel, error) {
	content, err := s.validateContent(dto.Content)
	if err != nil {
		return nil, err
	}

	r := models.ReplyModel{
		CommentID:  commentID,
		Content:    content,
		UserID:     author.ID,
		UserName:   author.Name,
		UserAvatar: author.Avatar,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var parent models.CommentModel
		if err := tx.First(&parent, "id = ? AND status = ?", commentID, models.CommentActive).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Create(&r).Error; err != nil {
			return err
		}
		return tx.Model(&parent).UpdateColumn("reply_count", gorm.Expr("reply_count + 1")).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		s.logger.Error("reply create failed", zap.String("commentId", commentID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrPostFailed, err)
	}

	s.dispatchAsync(func(ctx context.Context) {
		s.stats.Track(ctx, analytics.EventReplyPosted)
	})
	if s.hub != nil {
		s.hub.BroadcastPublic(gateway.EventReplyCreated, toReplyResponse(&r, ""))
	}
	return &r, nil
}

// ToggleLike flips userID's like on a comment atomically and returns
// the new liked state. The row is locked for the duration so two
// concurrent toggles cannot double-count.
func (s *Service) ToggleLike(ctx context.Context, commentID, userID string) (LikeResult, error) {
	var result LikeResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c models.CommentModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&c, "id = ?", commentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		likedBy, likes, nowLiked := applyToggle(c.LikedBy, c.Likes, userID)

		result = LikeResult{Liked: nowLiked, Likes: likes}
		return tx.Model(&c).Updates(map[string]interface{}{
			"likes":    likes,
			"liked_by": likedBy,
		}).Error
	})
	if err != nil {
		return LikeResult{}, err
	}

	s.dispatchAsync(func(ctx context.Context) {
		if result.Liked {
			s.stats.Track(ctx, analytics.EventCommentLiked)
		} else {
			s.stats.Track(ctx, analytics.EventCommentUnliked)
		}
	})
	return result, nil
}

// ToggleReplyLike is ToggleLike for a reply row.
func (s *Service) ToggleReplyLike(ctx context.Context, replyID, userID string) (LikeResult, error) {
	var result LikeResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var r models.ReplyModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&r, "id = ?", replyID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		likedBy, likes, nowLiked := applyToggle(r.LikedBy, r.Likes, userID)

		result = LikeResult{Liked: nowLiked, Likes: likes}
		return tx.Model(&r).Updates(map[string]interface{}{
			"likes":    likes,
			"liked_by": likedBy,
		}).Error
	})
	if err != nil {
		return LikeResult{}, err
	}
	return result, nil
}

// Report files a report against a comment. Reports are intentionally
// not deduplicated: the same visitor reporting twice files twice.
func (s *Service) Report(ctx context.Context, commentID string, dto *ReportDTO, reporterID string) (*models.ReportModel, error) {
	reason := strings.TrimSpace(dto.Reason)
	if reason == "" {
		return nil, ErrEmptyContent
	}

	report := models.ReportModel{
		ContentID:   commentID,
		ContentType: "comment",
		Reason:      reason,
		ReportedBy:  reporterID,
		Status:      models.ReportPending,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c models.CommentModel
		if err := tx.First(&c, "id = ?", commentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Create(&report).Error; err != nil {
			return err
		}
		return tx.Model(&c).UpdateColumn("reports", gorm.Expr("reports + 1")).Error
	})
	if err != nil {
		return nil, err
	}

	s.dispatchAsync(func(ctx context.Context) {
		s.stats.Track(ctx, analytics.EventReportFiled)
		s.stats.MirrorReportIncr(ctx, commentID)
	})
	return &report, nil
}

// ListActive returns one page of active comments, newest first, with
// id as the tie-break. End of list is inferred by the caller from a
// page shorter than limit; the next cursor always points at the last
// returned row.
func (s *Service) ListActive(ctx context.Context, category string, cur pagination.Cursor, limit int) ([]models.CommentModel, pagination.Cursor, error) {
	if limit <= 0 {
		limit = 20
	}

	tx := s.db.WithContext(ctx).Model(&models.CommentModel{}).
		Where("status = ?", models.CommentActive).
		Order("created_at DESC, id DESC").
		Limit(limit)

	if category != "" {
		tx = tx.Where("category = ?", category)
	}
	if !cur.IsZero() {
		tx = tx.Where("created_at < ? OR (created_at = ? AND id < ?)",
			cur.CreatedAt, cur.CreatedAt, cur.ID)
	}

	var comments []models.CommentModel
	if err := tx.Find(&comments).Error; err != nil {
		return nil, pagination.Cursor{}, err
	}

	var next pagination.Cursor
	if len(comments) > 0 {
		last := comments[len(comments)-1]
		next = pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
	}
	return comments, next, nil
}

// GetByID returns a single comment regardless of status.
func (s *Service) GetByID(ctx context.Context, id string) (*models.CommentModel, error) {
	var c models.CommentModel
	if err := s.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Replies lists a comment's replies oldest first.
func (s *Service) Replies(ctx context.Context, commentID string) ([]models.ReplyModel, error) {
	var replies []models.ReplyModel
	err := s.db.WithContext(ctx).
		Where("comment_id = ?", commentID).
		Order("created_at ASC, id ASC").
		Find(&replies).Error
	return replies, err
}

// ListAll is the owner listing: page-numbered, any status.
func (s *Service) ListAll(ctx context.Context, q pagination.Query, status string) ([]models.CommentModel, response.Pagination, error) {
	tx := s.db.WithContext(ctx).Model(&models.CommentModel{}).
		Order("created_at DESC")
	if status != "" {
		tx = tx.Where("status = ?", status)
	}
	var comments []models.CommentModel
	pag, err := pagination.Paginate(tx, q, &comments)
	return comments, pag, err
}

// SetStatus moves a comment between moderation states.
func (s *Service) SetStatus(ctx context.Context, id string, status models.CommentStatus) (*models.CommentModel, error) {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(c).Update("status", status).Error; err != nil {
		return nil, err
	}
	if s.hub != nil {
		event := gateway.EventCommentUpdated
		if status != models.CommentActive {
			event = gateway.EventCommentRemoved
		}
		s.hub.BroadcastPublic(event, toResponse(c, ""))
	}
	return c, nil
}

// Delete soft-deletes a comment and its replies.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", id).Delete(&models.ReplyModel{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.CommentModel{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// ListReports is the owner-only read path over filed reports.
func (s *Service) ListReports(ctx context.Context, q pagination.Query, status string) ([]models.ReportModel, response.Pagination, error) {
	tx := s.db.WithContext(ctx).Model(&models.ReportModel{}).
		Order("created_at DESC")
	if status != "" {
		tx = tx.Where("status = ?", status)
	}
	var reports []models.ReportModel
	pag, err := pagination.Paginate(tx, q, &reports)
	return reports, pag, err
}

// ReviewReport marks a report resolved or ignored.
func (s *Service) ReviewReport(ctx context.Context, id string, status models.ReportStatus) (*models.ReportModel, error) {
	var r models.ReportModel
	if err := s.db.WithContext(ctx).First(&r, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	err := s.db.WithContext(ctx).Model(&r).Updates(map[string]interface{}{
		"status":   status,
		"reviewed": true,
	}).Error
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func toggleMember(list []string, member string) ([]string, bool) {
	for i, v := range list {
		if v == member {
			return append(list[:i:i], list[i+1:]...), false
		}
	}
	return append(list, member), true
}

// applyToggle flips userID's membership in likedBy and adjusts the
// counter to match. The counter never goes negative even when it has
// drifted below the membership list.
func applyToggle(likedBy models.StringArray, likes int, userID string) (models.StringArray, int, bool) {
	list, nowLiked := toggleMember(likedBy, userID)
	if nowLiked {
		likes++
	} else if likes > 0 {
		likes--
	}
	return models.StringArray(list), likes, nowLiked
}

// dispatchAsync runs fn on a detached context so mirror writes never
// block or fail the request that triggered them.
func (s *Service) dispatchAsync(fn func(ctx context.Context)) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		fn(ctx)
	}()
}

func mirrorOf(c *models.CommentModel) analytics.CommentMirror {
	return analytics.CommentMirror{
		ID:        c.ID,
		Category:  string(c.Category),
		Sensitive: c.IsSensitive,
		CreatedAt: c.CreatedAt.UnixNano(),
	}
}
