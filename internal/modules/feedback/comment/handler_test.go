package comment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/eldrex/core/internal/models"
	"github.com/eldrex/core/internal/pkg/pagination"
	"github.com/eldrex/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	active []models.CommentModel
}

func (f *fakeStore) ListActive(_ context.Context, _ string, _ pagination.Cursor, limit int) ([]models.CommentModel, pagination.Cursor, error) {
	page := f.active
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

// The listing tests never reach the rest of the store surface.
func (f *fakeStore) Create(context.Context, *CreateCommentDTO, Author) (*models.CommentModel, error) {
	return nil, nil
}
func (f *fakeStore) Reply(context.Context, string, *ReplyDTO, Author) (*models.ReplyModel, error) {
	return nil, nil
}
func (f *fakeStore) ToggleLike(context.Context, string, string) (LikeResult, error) {
	return LikeResult{}, nil
}
func (f *fakeStore) ToggleReplyLike(context.Context, string, string) (LikeResult, error) {
	return LikeResult{}, nil
}
func (f *fakeStore) Report(context.Context, string, *ReportDTO, string) (*models.ReportModel, error) {
	return nil, nil
}
func (f *fakeStore) GetByID(context.Context, string) (*models.CommentModel, error) {
	return nil, ErrNotFound
}
func (f *fakeStore) Replies(context.Context, string) ([]models.ReplyModel, error) {
	return nil, nil
}
func (f *fakeStore) ListAll(context.Context, pagination.Query, string) ([]models.CommentModel, response.Pagination, error) {
	return nil, response.Pagination{}, nil
}
func (f *fakeStore) SetStatus(context.Context, string, models.CommentStatus) (*models.CommentModel, error) {
	return nil, ErrNotFound
}
func (f *fakeStore) Delete(context.Context, string) error { return nil }
func (f *fakeStore) ListReports(context.Context, pagination.Query, string) ([]models.ReportModel, response.Pagination, error) {
	return nil, response.Pagination{}, nil
}
func (f *fakeStore) ReviewReport(context.Context, string, models.ReportStatus) (*models.ReportModel, error) {
	return nil, ErrNotFound
}

func activeComments(n int) []models.CommentModel {
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	out := make([]models.CommentModel, n)
	for i := range out {
		out[i].ID = "c" + strconv.Itoa(n-i)
		out[i].Content = "hello"
		out[i].Category = models.CategoryOthers
		out[i].Status = models.CommentActive
		out[i].CreatedAt = base.Add(-time.Duration(i) * time.Minute)
	}
	return out
}

func listRouter(src store, pageSize int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	pass := func(c *gin.Context) { c.Next() }
	NewHandler(src, nil, pageSize).RegisterRoutes(r.Group("/api/v1"), pass, pass, pass, pass)
	return r
}

type listBody struct {
	Data    []json.RawMessage `json:"data"`
	HasMore bool              `json:"has_more"`
	Cursor  string            `json:"cursor"`
}

func getList(t *testing.T, r *gin.Engine, url string) listBody {
	t.Helper()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body listBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

// A page exactly at the limit means there may be more; a shorter page
// is the end of the list. There is no explicit end marker.
func TestListEndInference(t *testing.T) {
	t.Run("full page possibly has more", func(t *testing.T) {
		r := listRouter(&fakeStore{active: activeComments(20)}, 20)
		body := getList(t, r, "/api/v1/comments")
		assert.Len(t, body.Data, 20)
		assert.True(t, body.HasMore)
		assert.NotEmpty(t, body.Cursor)
	})

	t.Run("short page is the end", func(t *testing.T) {
		r := listRouter(&fakeStore{active: activeComments(5)}, 20)
		body := getList(t, r, "/api/v1/comments")
		assert.Len(t, body.Data, 5)
		assert.False(t, body.HasMore)
		assert.NotEmpty(t, body.Cursor)
	})

	t.Run("empty page has no cursor", func(t *testing.T) {
		r := listRouter(&fakeStore{}, 20)
		body := getList(t, r, "/api/v1/comments")
		assert.Empty(t, body.Data)
		assert.False(t, body.HasMore)
		assert.Empty(t, body.Cursor)
	})

	t.Run("limit query narrows the page", func(t *testing.T) {
		r := listRouter(&fakeStore{active: activeComments(20)}, 20)
		body := getList(t, r, "/api/v1/comments?limit=3")
		assert.Len(t, body.Data, 3)
		assert.True(t, body.HasMore)
	})
}

func TestListRejectsMalformedCursor(t *testing.T) {
	r := listRouter(&fakeStore{}, 20)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/comments?cursor=%21%21not-base64", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
