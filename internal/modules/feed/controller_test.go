package feed

import (
	"context"
	"testing"
	"time"

	"github.com/eldrex/core/internal/models"
	"github.com/eldrex/core/internal/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSource struct {
	pages map[string][]models.CommentModel
	calls int
}

func (f *fakeSource) ListActive(_ context.Context, _ string, cur pagination.Cursor, limit int) ([]models.CommentModel, pagination.Cursor, error) {
	f.calls++
	key := ""
	if !cur.IsZero() {
		key = cur.ID
	}
	page := f.pages[key]
	if len(page) > limit {
		page = page[:limit]
	}
	var next pagination.Cursor
	if len(page) > 0 {
		last := page[len(page)-1]
		next = pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
	}
	return page, next, nil
}

func makeComment(id string, category models.CommentCategory, createdAt time.Time) models.CommentModel {
	cm := models.CommentModel{Category: category, Content: "c-" + id}
	cm.ID = id
	cm.CreatedAt = createdAt
	return cm
}

func TestControllerDedupeAcrossPaths(t *testing.T) {
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	a := makeComment("a", models.CategoryRequest, base.Add(-1*time.Minute))
	b := makeComment("b", models.CategoryOthers, base.Add(-2*time.Minute))
	c := makeComment("c", models.CategoryRequest, base.Add(-3*time.Minute))

	src := &fakeSource{pages: map[string][]models.CommentModel{
		"":  {a, b},
		"b": {b, c}, // backfill page overlaps the preload tail
	}}

	ctrl := NewController(src, nil, zap.NewNop(), 2)
	require.NoError(t, ctrl.Preload(context.Background()))
	ctrl.Backfill(context.Background())

	// push path redelivers a known comment plus one new
	assert.False(t, ctrl.Ingest(a))
	d := makeComment("d", models.CategoryOthers, base)
	assert.True(t, ctrl.Ingest(d))

	snap := ctrl.Snapshot("")
	ids := make([]string, len(snap))
	for i, cm := range snap {
		ids[i] = cm.ID
	}
	assert.Equal(t, []string{"d", "a", "b", "c"}, ids)
	assert.Equal(t, 4, ctrl.Len())
}

func TestControllerFrontInsertAndResort(t *testing.T) {
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	ctrl := NewController(&fakeSource{}, nil, zap.NewNop(), 20)

	ctrl.Ingest(makeComment("m", models.CategoryOthers, base))

	// newest wins the front slot without disturbing the rest
	ctrl.Ingest(makeComment("n", models.CategoryOthers, base.Add(time.Second)))
	assert.Equal(t, "n", ctrl.Snapshot("")[0].ID)

	// out-of-order delivery still lands in the right place
	ctrl.Ingest(makeComment("old", models.CategoryOthers, base.Add(-time.Hour)))
	snap := ctrl.Snapshot("")
	assert.Equal(t, "old", snap[len(snap)-1].ID)
}

func TestControllerEqualTimestampTieBreak(t *testing.T) {
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	ctrl := NewController(&fakeSource{}, nil, zap.NewNop(), 20)

	ctrl.Ingest(makeComment("bbb", models.CategoryOthers, base))

	// same timestamp, lower id: must sort behind the current head
	ctrl.Ingest(makeComment("aaa", models.CategoryOthers, base))
	snap := ctrl.Snapshot("")
	require.Len(t, snap, 2)
	assert.Equal(t, "bbb", snap[0].ID)
	assert.Equal(t, "aaa", snap[1].ID)

	// same timestamp, higher id: takes the front via the resort
	ctrl.Ingest(makeComment("ccc", models.CategoryOthers, base))
	assert.Equal(t, "ccc", ctrl.Snapshot("")[0].ID)
}

func TestControllerSnapshotCategoryFilter(t *testing.T) {
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	ctrl := NewController(&fakeSource{}, nil, zap.NewNop(), 20)

	ctrl.Ingest(makeComment("i1", models.CategoryImprovement, base.Add(-3*time.Minute)))
	ctrl.Ingest(makeComment("r1", models.CategoryRequest, base.Add(-2*time.Minute)))
	ctrl.Ingest(makeComment("r2", models.CategoryRequest, base.Add(-1*time.Minute)))

	snap := ctrl.Snapshot("request")
	require.Len(t, snap, 2)
	assert.Equal(t, "r2", snap[0].ID)
	assert.Equal(t, "r1", snap[1].ID)

	assert.Len(t, ctrl.Snapshot(""), 3)
}

func TestControllerRemoveAndUpdate(t *testing.T) {
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	ctrl := NewController(&fakeSource{}, nil, zap.NewNop(), 20)

	cm := makeComment("x", models.CategoryOthers, base)
	ctrl.Ingest(cm)

	cm.Likes = 7
	ctrl.Update(cm)
	assert.Equal(t, 7, ctrl.Snapshot("")[0].Likes)

	ctrl.Remove("x")
	assert.Empty(t, ctrl.Snapshot(""))

	// removed ids can come back via a later push
	assert.True(t, ctrl.Ingest(cm))
}

func TestControllerApplyPushEvents(t *testing.T) {
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	ctrl := NewController(&fakeSource{}, nil, zap.NewNop(), 20)

	created := []byte(`{"event":"comment_created","payload":{"id":"p1","content":"hi","category":"others","created":"` +
		base.Format(time.RFC3339) + `"}}`)
	ctrl.apply(created)
	require.Equal(t, 1, ctrl.Len())
	assert.Equal(t, "p1", ctrl.Snapshot("")[0].ID)

	// duplicate push is a no-op
	ctrl.apply(created)
	assert.Equal(t, 1, ctrl.Len())

	removed := []byte(`{"event":"comment_removed","payload":{"id":"p1"}}`)
	ctrl.apply(removed)
	assert.Equal(t, 0, ctrl.Len())

	// garbage is logged and dropped
	ctrl.apply([]byte(`{not json`))
	assert.Equal(t, 0, ctrl.Len())
}

type fakeStats struct{ m map[string]int64 }

func (f *fakeStats) PlatformStats(_ context.Context) map[string]int64 { return f.m }

func TestControllerStatsWarmup(t *testing.T) {
	ctrl := NewController(&fakeSource{}, nil, zap.NewNop(), 20)
	assert.Empty(t, ctrl.PlatformSnapshot())

	ctrl.SetStats(&fakeStats{m: map[string]int64{"visits": 42}})
	ctrl.warmStats(context.Background())
	assert.Equal(t, int64(42), ctrl.PlatformSnapshot()["visits"])

	// an empty read keeps the previous counters
	ctrl.SetStats(&fakeStats{})
	ctrl.warmStats(context.Background())
	assert.Equal(t, int64(42), ctrl.PlatformSnapshot()["visits"])
}
