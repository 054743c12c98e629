package comment

import (
	"context"
	"errors"
	"strconv"

	"github.com/eldrex/core/internal/middleware"
	"github.com/eldrex/core/internal/models"
	"github.com/eldrex/core/internal/pkg/pagination"
	"github.com/eldrex/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

// profileLookup resolves the denormalized author fields stamped onto
// new comments and replies.
type profileLookup interface {
	Author(ctx context.Context, userID string) (Author, error)
}

// store is the service surface the handler drives.
type store interface {
	Create(ctx context.Context, dto *CreateCommentDTO, author Author) (*models.CommentModel, error)
	Reply(ctx context.Context, commentID string, dto *ReplyDTO, author Author) (*models.ReplyModel, error)
	ToggleLike(ctx context.Context, commentID, userID string) (LikeResult, error)
	ToggleReplyLike(ctx context.Context, replyID, userID string) (LikeResult, error)
	Report(ctx context.Context, commentID string, dto *ReportDTO, reporterID string) (*models.ReportModel, error)
	ListActive(ctx context.Context, category string, cur pagination.Cursor, limit int) ([]models.CommentModel, pagination.Cursor, error)
	GetByID(ctx context.Context, id string) (*models.CommentModel, error)
	Replies(ctx context.Context, commentID string) ([]models.ReplyModel, error)
	ListAll(ctx context.Context, q pagination.Query, status string) ([]models.CommentModel, response.Pagination, error)
	SetStatus(ctx context.Context, id string, status models.CommentStatus) (*models.CommentModel, error)
	Delete(ctx context.Context, id string) error
	ListReports(ctx context.Context, q pagination.Query, status string) ([]models.ReportModel, response.Pagination, error)
	ReviewReport(ctx context.Context, id string, status models.ReportStatus) (*models.ReportModel, error)
}

type Handler struct {
	svc      store
	profiles profileLookup
	pageSize int
}

func NewHandler(svc store, profiles profileLookup, pageSize int) *Handler {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &Handler{svc: svc, profiles: profiles, pageSize: pageSize}
}

// RegisterRoutes mounts the public comment surface and the owner
// moderation surface. gate runs before auth on every mutating route so
// non-participating sessions never reach the store.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, gate, visitorAuth, optionalAuth, ownerAuth gin.HandlerFunc) {
	g := rg.Group("/comments")

	g.GET("", optionalAuth, h.list)
	g.POST("", gate, visitorAuth, h.create)
	g.GET("/:id", optionalAuth, h.get)
	g.GET("/:id/replies", optionalAuth, h.replies)
	g.POST("/:id/replies", gate, visitorAuth, h.reply)
	g.POST("/:id/like", gate, visitorAuth, h.toggleLike)
	g.POST("/:id/report", gate, visitorAuth, h.report)

	rg.POST("/replies/:id/like", gate, visitorAuth, h.toggleReplyLike)

	o := rg.Group("", ownerAuth)
	o.GET("/owner/comments", h.listAll)
	o.PATCH("/comments/:id/status", h.setStatus)
	o.DELETE("/comments/:id", h.delete)
	o.GET("/owner/reports", h.listReports)
	o.PATCH("/owner/reports/:id", h.reviewReport)
}

func (h *Handler) list(c *gin.Context) {
	cur, err := pagination.DecodeCursor(c.Query("cursor"))
	if err != nil {
		response.BadRequest(c, "malformed cursor")
		return
	}
	limit := h.pageSize
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	comments, next, err := h.svc.ListActive(c.Request.Context(), c.Query("category"), cur, limit)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	viewerID := middleware.CurrentUserID(c)
	out := make([]commentResponse, len(comments))
	for i := range comments {
		out[i] = toResponse(&comments[i], viewerID)
	}

	body := gin.H{"data": out, "has_more": len(comments) == limit}
	if len(comments) > 0 {
		body["cursor"] = next.Encode()
	}
	response.OK(c, body)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateCommentDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "content and category are required")
		return
	}

	author, err := h.profiles.Author(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		response.Unauthorized(c)
		return
	}

	created, err := h.svc.Create(c.Request.Context(), &dto, author)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Created(c, toResponse(created, author.ID))
}

func (h *Handler) get(c *gin.Context) {
	cm, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	if cm.Status != models.CommentActive && !middleware.IsOwner(c) {
		response.NotFound(c)
		return
	}
	response.OK(c, toResponse(cm, middleware.CurrentUserID(c)))
}

func (h *Handler) replies(c *gin.Context) {
	replies, err := h.svc.Replies(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	viewerID := middleware.CurrentUserID(c)
	out := make([]replyResponse, len(replies))
	for i := range replies {
		out[i] = toReplyResponse(&replies[i], viewerID)
	}
	response.OK(c, out)
}

func (h *Handler) reply(c *gin.Context) {
	var dto ReplyDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "content is required")
		return
	}

	author, err := h.profiles.Author(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		response.Unauthorized(c)
		return
	}

	created, err := h.svc.Reply(c.Request.Context(), c.Param("id"), &dto, author)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Created(c, toReplyResponse(created, author.ID))
}

func (h *Handler) toggleLike(c *gin.Context) {
	result, err := h.svc.ToggleLike(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, result)
}

func (h *Handler) toggleReplyLike(c *gin.Context) {
	result, err := h.svc.ToggleReplyLike(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, result)
}

func (h *Handler) report(c *gin.Context) {
	var dto ReportDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "reason is required")
		return
	}
	report, err := h.svc.Report(c.Request.Context(), c.Param("id"), &dto, middleware.CurrentUserID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Created(c, report)
}

func (h *Handler) listAll(c *gin.Context) {
	comments, pag, err := h.svc.ListAll(c.Request.Context(), pagination.FromContext(c), c.Query("status"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, comments, pag)
}

type setStatusDTO struct {
	Status models.CommentStatus `json:"status" binding:"required"`
}

func (h *Handler) setStatus(c *gin.Context) {
	var dto setStatusDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "status is required")
		return
	}
	switch dto.Status {
	case models.CommentActive, models.CommentHidden, models.CommentRemoved:
	default:
		response.UnprocessableEntity(c, "unknown status")
		return
	}
	cm, err := h.svc.SetStatus(c.Request.Context(), c.Param("id"), dto.Status)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, toResponse(cm, ""))
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) listReports(c *gin.Context) {
	reports, pag, err := h.svc.ListReports(c.Request.Context(), pagination.FromContext(c), c.Query("status"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, reports, pag)
}

type reviewReportDTO struct {
	Status models.ReportStatus `json:"status" binding:"required"`
}

func (h *Handler) reviewReport(c *gin.Context) {
	var dto reviewReportDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "status is required")
		return
	}
	switch dto.Status {
	case models.ReportResolved, models.ReportIgnored, models.ReportPending:
	default:
		response.UnprocessableEntity(c, "unknown status")
		return
	}
	report, err := h.svc.ReviewReport(c.Request.Context(), c.Param("id"), dto.Status)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, report)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFoundMsg(c, "comment not found")
	case errors.Is(err, ErrEmptyContent), errors.Is(err, ErrContentTooLong), errors.Is(err, ErrBadCategory):
		response.UnprocessableEntity(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}
