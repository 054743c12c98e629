package quote

import (
	"errors"
	"math/rand/v2"

	"github.com/eldrex/core/internal/models"
	"github.com/eldrex/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) List() ([]models.QuoteModel, error) {
	var quotes []models.QuoteModel
	err := s.db.Order("created_at DESC").Find(&quotes).Error
	return quotes, err
}

// Random picks one quote for the landing page rotation.
func (s *Service) Random() (*models.QuoteModel, error) {
	quotes, err := s.List()
	if err != nil {
		return nil, err
	}
	if len(quotes) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &quotes[rand.IntN(len(quotes))], nil
}

type CreateQuoteDTO struct {
	Text   string `json:"text" binding:"required"`
	Author string `json:"author"`
	Source string `json:"source"`
}

func (s *Service) Create(dto *CreateQuoteDTO) (*models.QuoteModel, error) {
	q := models.QuoteModel{
		Text:   dto.Text,
		Author: dto.Author,
		Source: dto.Source,
	}
	if err := s.db.Create(&q).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

func (s *Service) Delete(id string) error {
	return s.db.Delete(&models.QuoteModel{}, "id = ?", id).Error
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, ownerAuth gin.HandlerFunc) {
	g := rg.Group("/quotes")
	g.GET("", h.list)
	g.GET("/random", h.random)

	o := g.Group("", ownerAuth)
	o.POST("", h.create)
	o.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	quotes, err := h.svc.List()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, quotes)
}

func (h *Handler) random(c *gin.Context) {
	q, err := h.svc.Random()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFoundMsg(c, "no quotes yet")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, q)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateQuoteDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "text is required")
		return
	}
	q, err := h.svc.Create(&dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, q)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
