package link

import (
	"errors"
	"strings"

	"github.com/eldrex/core/internal/models"
	"github.com/eldrex/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

var ErrDuplicateURL = errors.New("link url already exists")

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// List returns visible link cards in display order.
func (s *Service) List(includeHidden bool) ([]models.LinkModel, error) {
	tx := s.db.Model(&models.LinkModel{}).Order("order_num ASC, created_at ASC")
	if !includeHidden {
		tx = tx.Where("hidden = ?", false)
	}
	var links []models.LinkModel
	err := tx.Find(&links).Error
	return links, err
}

type CreateLinkDTO struct {
	Name        string `json:"name" binding:"required"`
	URL         string `json:"url"  binding:"required,url"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
	OrderNum    int    `json:"order"`
	Hidden      bool   `json:"hidden"`
}

func (s *Service) Create(dto *CreateLinkDTO) (*models.LinkModel, error) {
	url := strings.TrimSpace(dto.URL)
	var count int64
	s.db.Model(&models.LinkModel{}).Where("url = ?", url).Count(&count)
	if count > 0 {
		return nil, ErrDuplicateURL
	}

	l := models.LinkModel{
		Name:        dto.Name,
		URL:         url,
		Icon:        dto.Icon,
		Description: dto.Description,
		OrderNum:    dto.OrderNum,
		Hidden:      dto.Hidden,
	}
	if err := s.db.Create(&l).Error; err != nil {
		// unique index on url catches the race the count check misses
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return nil, ErrDuplicateURL
		}
		return nil, err
	}
	return &l, nil
}

func (s *Service) Delete(id string) error {
	return s.db.Delete(&models.LinkModel{}, "id = ?", id).Error
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, ownerAuth gin.HandlerFunc) {
	g := rg.Group("/links")
	g.GET("", h.list)

	o := g.Group("", ownerAuth)
	o.POST("", h.create)
	o.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	links, err := h.svc.List(false)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, links)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateLinkDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "name and a valid url are required")
		return
	}
	l, err := h.svc.Create(&dto)
	if err != nil {
		if errors.Is(err, ErrDuplicateURL) {
			response.UnprocessableEntity(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, l)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
