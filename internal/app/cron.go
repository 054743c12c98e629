package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/eldrex/core/internal/models"
	pkgcron "github.com/eldrex/core/internal/pkg/cron"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// registerCronJobs registers all scheduled background jobs.
func registerCronJobs(sched *pkgcron.Scheduler, db *gorm.DB, logger *zap.Logger) {
	cronLogger := logger.Named("CronService")

	sched.Register(pkgcron.Job{
		Name:        "purge_removed_comments",
		Description: "hard-delete comments soft-deleted more than 30 days ago",
		Interval:    24 * time.Hour,
		Fn: func(ctx context.Context) error {
			cutoff := time.Now().AddDate(0, 0, -30)

			var ids []string
			if err := db.WithContext(ctx).Unscoped().Model(&models.CommentModel{}).
				Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).
				Pluck("id", &ids).Error; err != nil {
				return err
			}
			if len(ids) == 0 {
				return nil
			}

			return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
				if err := tx.Unscoped().Where("comment_id IN ?", ids).
					Delete(&models.ReplyModel{}).Error; err != nil {
					return err
				}
				result := tx.Unscoped().Where("id IN ?", ids).
					Delete(&models.CommentModel{})
				if result.Error != nil {
					return result.Error
				}
				cronLogger.Info(fmt.Sprintf("purged %d removed comments", result.RowsAffected))
				return nil
			})
		},
	})

	sched.Register(pkgcron.Job{
		Name:        "check_links",
		Description: "probe link cards and hide dead ones",
		Interval:    12 * time.Hour,
		Fn: func(ctx context.Context) error {
			var links []models.LinkModel
			if err := db.WithContext(ctx).Where("hidden = ?", false).Find(&links).Error; err != nil {
				return err
			}

			client := &http.Client{Timeout: 10 * time.Second}
			dead := 0
			for _, l := range links {
				req, err := http.NewRequestWithContext(ctx, http.MethodHead, l.URL, nil)
				if err != nil {
					continue
				}
				resp, err := client.Do(req)
				if err != nil || resp.StatusCode >= 400 {
					db.Model(&models.LinkModel{}).Where("id = ?", l.ID).
						Update("hidden", true)
					dead++
				}
				if resp != nil {
					resp.Body.Close()
				}
			}
			cronLogger.Info(fmt.Sprintf("link check done, %d of %d hidden", dead, len(links)))
			return nil
		},
	})

	sched.Register(pkgcron.Job{
		Name:        "prune_stale_visitors",
		Description: "drop visitor profiles inactive for a year with no comments",
		Interval:    7 * 24 * time.Hour,
		Fn: func(ctx context.Context) error {
			cutoff := time.Now().AddDate(-1, 0, 0)
			result := db.WithContext(ctx).
				Where("last_active < ? AND id NOT IN (?)", cutoff,
					db.Model(&models.CommentModel{}).Select("user_id")).
				Delete(&models.VisitorModel{})
			if result.Error != nil {
				cronLogger.Warn("visitor prune failed", zap.Error(result.Error))
				return result.Error
			}
			if result.RowsAffected > 0 {
				cronLogger.Info(fmt.Sprintf("pruned %d stale visitors", result.RowsAffected))
			}
			return nil
		},
	})
}
