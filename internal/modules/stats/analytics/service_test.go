package analytics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// The analytics store is optional; every method must be a safe no-op
// without it so the primary path never depends on Redis being up.
func TestServiceWithoutStore(t *testing.T) {
	svc := NewService(nil, zap.NewNop())
	ctx := context.Background()

	assert.NotPanics(t, func() {
		svc.Track(ctx, EventCommentPosted)
		svc.MirrorComment(ctx, CommentMirror{ID: "x"})
		svc.MirrorReportIncr(ctx, "x")
		svc.RecordPlatformVisit(ctx, "web")
	})

	stats := svc.PlatformStats(ctx)
	assert.NotNil(t, stats)
	assert.Empty(t, stats)

	events := svc.EventCounts(ctx)
	assert.NotNil(t, events)
	assert.Empty(t, events)
}
