package owner

import (
	"errors"

	"github.com/eldrex/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, ownerAuth gin.HandlerFunc) {
	g := rg.Group("/owner")
	g.POST("/register", h.register)
	g.POST("/login", h.login)
	g.GET("/me", ownerAuth, h.me)
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "username and a password of at least 8 characters are required")
		return
	}
	o, err := h.svc.Register(c.Request.Context(), req.Username, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			response.ForbiddenMsg(c, "owner account already exists")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, o)
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token string      `json:"token"`
	Owner interface{} `json:"owner"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "username and password are required")
		return
	}
	o, token, err := h.svc.Login(c.Request.Context(), req.Username, req.Password, c.ClientIP())
	if err != nil {
		if errors.Is(err, ErrBadCredentials) {
			response.Unauthorized(c)
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, loginResponse{Token: token, Owner: o})
}

func (h *Handler) me(c *gin.Context) {
	o, err := h.svc.Get(c.Request.Context())
	if err != nil {
		if errors.Is(err, ErrNotInitialized) {
			response.NotFoundMsg(c, "owner account not initialized")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, o)
}
