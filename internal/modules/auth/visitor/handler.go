package visitor

import (
	"errors"

	"github.com/eldrex/core/internal/middleware"
	"github.com/eldrex/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, visitorAuth gin.HandlerFunc) {
	g := rg.Group("/visitor")
	g.POST("/session", h.session)
	g.GET("/profile", visitorAuth, h.profile)
	g.PATCH("/profile", visitorAuth, h.rename)
}

type sessionRequest struct {
	UserID string `json:"user_id"`
}

type sessionResponse struct {
	Token   string      `json:"token"`
	Visitor interface{} `json:"visitor"`
}

// session is the anonymous sign-in endpoint. The body is optional: a
// returning client sends its remembered user_id, a first visit sends
// nothing.
func (h *Handler) session(c *gin.Context) {
	var req sessionRequest
	_ = c.ShouldBindJSON(&req)

	v, token, err := h.svc.SignIn(c.Request.Context(), req.UserID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, sessionResponse{Token: token, Visitor: v})
}

func (h *Handler) profile(c *gin.Context) {
	v, err := h.svc.Get(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFoundMsg(c, "visitor not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, v)
}

type renameRequest struct {
	DisplayName string `json:"display_name" binding:"required"`
}

func (h *Handler) rename(c *gin.Context) {
	var req renameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "display_name is required")
		return
	}
	v, err := h.svc.Rename(c.Request.Context(), middleware.CurrentUserID(c), req.DisplayName)
	if err != nil {
		switch {
		case errors.Is(err, ErrBadName):
			response.UnprocessableEntity(c, err.Error())
		case errors.Is(err, ErrNotFound):
			response.NotFoundMsg(c, "visitor not found")
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.OK(c, v)
}
