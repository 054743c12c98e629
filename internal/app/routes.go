package app

import (
	"context"
	"net/http"
	"time"

	"github.com/eldrex/core/internal/middleware"
	"github.com/eldrex/core/internal/modules/auth/owner"
	"github.com/eldrex/core/internal/modules/auth/visitor"
	"github.com/eldrex/core/internal/modules/content/link"
	"github.com/eldrex/core/internal/modules/content/post"
	"github.com/eldrex/core/internal/modules/content/quote"
	"github.com/eldrex/core/internal/modules/feed"
	"github.com/eldrex/core/internal/modules/feedback/comment"
	"github.com/eldrex/core/internal/modules/gateway"
	"github.com/eldrex/core/internal/modules/stats/analytics"
	pkgredis "github.com/eldrex/core/internal/pkg/redis"
	"github.com/eldrex/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

const apiPrefix = "/api/v1"

func (a *App) registerRoutes(rc *pkgredis.Client, ownerSvc *owner.Service) {
	r := a.router
	db := a.db
	cfg := a.cfg

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	appInfo := gin.H{
		"name":    "eldrex-core",
		"version": "1.0.0",
	}

	r.Use(middleware.RateLimit(rc.Raw()))
	r.Use(middleware.Idempotence(rc.Raw()))

	visitorAuth := middleware.VisitorAuth()
	optionalAuth := middleware.OptionalAuth()
	ownerAuth := middleware.OwnerAuth()

	api := r.Group(apiPrefix)
	api.Use(middleware.HTTPCache(rc.Raw(), middleware.HTTPCacheOptions{
		TTL:       15 * time.Second,
		Disable:   cfg.IsDev(),
		SkipPaths: httpCacheSkipPaths(),
	}))

	api.GET("", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"data": "pong"}) })
	api.GET("/uptime", func(c *gin.Context) {
		uptime := time.Since(processStart)
		c.JSON(http.StatusOK, gin.H{
			"timestamp": uptime.Milliseconds(),
			"humanize":  humanizeDuration(uptime),
		})
	})

	// Analytics mirror (best-effort telemetry).
	statsSvc := analytics.NewService(rc, a.logger)
	analytics.NewHandler(statsSvc).RegisterRoutes(api, ownerAuth)

	// Identity.
	visitorSvc := visitor.NewService(db, statsSvc, a.logger)
	visitor.NewHandler(visitorSvc).RegisterRoutes(api, visitorAuth)
	owner.NewHandler(ownerSvc).RegisterRoutes(api, ownerAuth)

	// Comment store.
	matcher := comment.NewSensitiveMatcher(cfg.Feed.SensitiveWords)
	commentSvc := comment.NewService(db, matcher, statsSvc, a.hub, a.logger)
	commentSvc.SetMaxContentLen(cfg.Feed.MaxContentLen)

	// Feed cache and participation gate.
	a.feed = feed.NewController(commentSvc, rc, a.logger, cfg.Feed.PageSize)
	a.feed.SetStats(statsSvc)
	gate := feed.NewGate(cfg.SessionSecret)
	feedHandler := feed.NewHandler(a.feed, gate)
	feedHandler.RegisterRoutes(api)

	gateGuard := feedHandler.Guard()
	if cfg.Feed.Disabled {
		gateGuard = func(c *gin.Context) {
			response.ForbiddenMsg(c, "the feed is temporarily closed")
		}
	}
	comment.NewHandler(commentSvc, visitorSvc, cfg.Feed.PageSize).
		RegisterRoutes(api, gateGuard, visitorAuth, optionalAuth, ownerAuth)

	// Landing-page content.
	post.NewHandler(post.NewService(db)).RegisterRoutes(api, ownerAuth)
	link.NewHandler(link.NewService(db)).RegisterRoutes(api, ownerAuth)
	quote.NewHandler(quote.NewService(db)).RegisterRoutes(api, ownerAuth)

	api.POST("/owner/cache/purge", ownerAuth, func(c *gin.Context) {
		purged, err := middleware.PurgeHTTPCache(c.Request.Context(), rc.Raw())
		if err != nil {
			response.InternalError(c, err)
			return
		}
		response.OK(c, gin.H{"purged": purged})
	})

	// Scheduled-job admin.
	api.GET("/owner/cron", ownerAuth, func(c *gin.Context) {
		response.OK(c, a.sched.List())
	})
	api.POST("/owner/cron/:name/run", ownerAuth, func(c *gin.Context) {
		// detached: the job outlives the triggering request
		if err := a.sched.Run(context.Background(), c.Param("name")); err != nil {
			response.NotFoundMsg(c, err.Error())
			return
		}
		response.NoContent(c)
	})

	// WebSocket gateway.
	gateway.RegisterRoutes(r.Group(""), a.hub)
}

func httpCacheSkipPaths() []string {
	return []string{
		apiPrefix + "/uptime",
		apiPrefix + "/feed",
		apiPrefix + "/feed/comments",
		apiPrefix + "/feed/gate",
		apiPrefix + "/visitor/session",
		apiPrefix + "/visitor/profile",
		apiPrefix + "/owner/login",
		apiPrefix + "/owner/me",
		apiPrefix + "/analytics/platform",
		apiPrefix + "/analytics/events",
	}
}

func humanizeDuration(d time.Duration) string {
	if d < time.Minute {
		return d.Truncate(time.Second).String()
	}
	if d < time.Hour {
		return d.Truncate(time.Minute).String()
	}
	if d < 24*time.Hour {
		return d.Truncate(time.Hour).String()
	}
	return d.Truncate(24 * time.Hour).String()
}
