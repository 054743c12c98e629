package analytics

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	pkgredis "github.com/eldrex/core/internal/pkg/redis"
	"go.uber.org/zap"
)

// Service mirrors activity counters and comment copies into Redis.
// Every write is best-effort: failures are logged and swallowed so the
// primary path never blocks on the analytics store.
type Service struct {
	rc     *pkgredis.Client
	logger *zap.Logger
}

func NewService(rc *pkgredis.Client, logger *zap.Logger) *Service {
	return &Service{rc: rc, logger: logger}
}

// Track increments a named event counter. It never returns an error.
func (s *Service) Track(ctx context.Context, event string) {
	if s.rc == nil || event == "" {
		return
	}
	if err := s.rc.HIncrBy(ctx, redisKeyEvents, event, 1); err != nil {
		s.logger.Warn("analytics track failed", zap.String("event", event), zap.Error(err))
	}
}

// MirrorComment stores a flattened copy of a comment under the
// analytics prefix. The copy may trail the primary record.
func (s *Service) MirrorComment(ctx context.Context, m CommentMirror) {
	if s.rc == nil || m.ID == "" {
		return
	}
	data, err := json.Marshal(m)
	if err != nil {
		s.logger.Warn("analytics mirror marshal failed", zap.String("id", m.ID), zap.Error(err))
		return
	}
	if err := s.rc.Set(ctx, redisKeyCommentMirrorPrefix+m.ID, string(data), 0); err != nil {
		s.logger.Warn("analytics mirror write failed", zap.String("id", m.ID), zap.Error(err))
	}
}

// MirrorReportIncr bumps the per-content report counter.
func (s *Service) MirrorReportIncr(ctx context.Context, contentID string) {
	if s.rc == nil || contentID == "" {
		return
	}
	if err := s.rc.HIncrBy(ctx, redisKeyReportCounts, contentID, 1); err != nil {
		s.logger.Warn("analytics report incr failed", zap.String("contentId", contentID), zap.Error(err))
	}
}

// RecordPlatformVisit updates the platform stats hash with the visit
// count and last-seen timestamp.
func (s *Service) RecordPlatformVisit(ctx context.Context, platform string) {
	if s.rc == nil || platform == "" {
		return
	}
	if err := s.rc.HIncrBy(ctx, redisKeyPlatformStats, platform, 1); err != nil {
		s.logger.Warn("platform visit incr failed", zap.String("platform", platform), zap.Error(err))
		return
	}
	if err := s.rc.HSet(ctx, redisKeyPlatformStats, platform+":last_seen", time.Now().Unix()); err != nil {
		s.logger.Warn("platform last_seen write failed", zap.String("platform", platform), zap.Error(err))
	}
}

// PlatformStats returns the per-platform visit counters. On any error
// it returns an empty map, never nil.
func (s *Service) PlatformStats(ctx context.Context) map[string]int64 {
	out := make(map[string]int64)
	if s.rc == nil {
		return out
	}
	raw, err := s.rc.HGetAll(ctx, redisKeyPlatformStats)
	if err != nil {
		s.logger.Warn("platform stats read failed", zap.Error(err))
		return out
	}
	for field, val := range raw {
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			continue
		}
		out[field] = n
	}
	return out
}

// EventCounts returns the tracked event counters. Empty map on error.
func (s *Service) EventCounts(ctx context.Context) map[string]int64 {
	out := make(map[string]int64)
	if s.rc == nil {
		return out
	}
	raw, err := s.rc.HGetAll(ctx, redisKeyEvents)
	if err != nil {
		s.logger.Warn("event counts read failed", zap.Error(err))
		return out
	}
	for field, val := range raw {
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			continue
		}
		out[field] = n
	}
	return out
}
