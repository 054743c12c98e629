package analytics

import (
	"github.com/eldrex/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts tracking (public) and stats reads (owner only).
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, ownerAuth gin.HandlerFunc) {
	rg.POST("/analytics/track", h.track)
	rg.GET("/analytics/platform", ownerAuth, h.platformStats)
	rg.GET("/analytics/events", ownerAuth, h.eventCounts)
}

type trackRequest struct {
	Event    string `json:"event" binding:"required"`
	Platform string `json:"platform"`
}

func (h *Handler) track(c *gin.Context) {
	var req trackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "event is required")
		return
	}
	h.svc.Track(c.Request.Context(), req.Event)
	if req.Platform != "" {
		h.svc.RecordPlatformVisit(c.Request.Context(), req.Platform)
	}
	response.NoContent(c)
}

func (h *Handler) platformStats(c *gin.Context) {
	response.OK(c, h.svc.PlatformStats(c.Request.Context()))
}

func (h *Handler) eventCounts(c *gin.Context) {
	response.OK(c, h.svc.EventCounts(c.Request.Context()))
}
