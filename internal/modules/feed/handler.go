package feed

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/eldrex/core/internal/pkg/render"
	"github.com/eldrex/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	ctrl *Controller
	gate *Gate
}

func NewHandler(ctrl *Controller, gate *Gate) *Handler {
	return &Handler{ctrl: ctrl, gate: gate}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/feed")
	g.GET("", h.page)
	g.GET("/comments", h.snapshot)
	g.GET("/gate", h.gateState)
	g.POST("/gate/confirm", h.gateConfirm)
	g.POST("/gate/explore", h.gateExplore)
}

// Guard blocks mutating feed actions for sessions that have not
// confirmed participation. The client reads the state field and shows
// the confirmation banner instead of retrying.
func (h *Handler) Guard() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !h.gate.Participating(c.Request) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"ok":      0,
				"code":    http.StatusForbidden,
				"message": "confirm participation before interacting with the feed",
				"state":   h.gate.State(c.Request),
			})
			return
		}
		c.Next()
	}
}

// snapshot serves the cached feed as JSON, newest first, optionally
// filtered by category.
func (h *Handler) snapshot(c *gin.Context) {
	items := h.ctrl.Snapshot(c.Query("category"))
	response.OK(c, gin.H{
		"data":     items,
		"count":    len(items),
		"state":    h.gate.State(c.Request),
		"platform": h.ctrl.PlatformSnapshot(),
	})
}

// page serves the server-rendered feed. Skeleton cards cover the empty
// cache window right after startup.
func (h *Handler) page(c *gin.Context) {
	items := h.ctrl.Snapshot(c.Query("category"))
	now := time.Now()

	var b strings.Builder
	b.WriteString(`<section id="comment-feed" class="comment-feed">`)
	if len(items) == 0 {
		b.WriteString(render.Skeleton(3))
	}
	for i := range items {
		b.WriteString(render.CommentCard(&items[i], now))
	}
	b.WriteString(`</section>`)

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, b.String())
}

func (h *Handler) gateState(c *gin.Context) {
	response.OK(c, gin.H{"state": h.gate.State(c.Request)})
}

func (h *Handler) gateConfirm(c *gin.Context) {
	if err := h.gate.Confirm(c.Writer, c.Request); err != nil {
		if errors.Is(err, ErrExploreOnly) {
			response.ForbiddenMsg(c, err.Error())
			return
		}
		response.InternalError(c, fmt.Errorf("gate confirm failed: %w", err))
		return
	}
	response.OK(c, gin.H{"state": GateParticipating})
}

func (h *Handler) gateExplore(c *gin.Context) {
	if err := h.gate.Explore(c.Writer, c.Request); err != nil {
		response.InternalError(c, fmt.Errorf("gate update failed: %w", err))
		return
	}
	response.OK(c, gin.H{"state": GateExploreOnly})
}
