package post

import (
	"bytes"
	"errors"
	"html/template"

	"github.com/eldrex/core/internal/models"
	"github.com/eldrex/core/internal/pkg/pagination"
	"github.com/eldrex/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
	"gorm.io/gorm"
)

var ErrSlugTaken = errors.New("slug already exists")

// markdownEngine renders post bodies at read time; HTML is never stored.
var markdownEngine = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Strikethrough,
		extension.Linkify,
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithHardWraps(),
	),
)

func renderMarkdown(text string) string {
	var out bytes.Buffer
	if err := markdownEngine.Convert([]byte(text), &out); err != nil {
		return template.HTMLEscapeString(text)
	}
	return out.String()
}

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) List(q pagination.Query, includeUnpublished bool) ([]models.PostModel, response.Pagination, error) {
	tx := s.db.Model(&models.PostModel{}).
		Order("pin DESC, created_at DESC")
	if !includeUnpublished {
		tx = tx.Where("is_published = ?", true)
	}
	var posts []models.PostModel
	pag, err := pagination.Paginate(tx, q, &posts)
	return posts, pag, err
}

func (s *Service) GetBySlug(slug string, includeUnpublished bool) (*models.PostModel, error) {
	var post models.PostModel
	tx := s.db.Where("slug = ?", slug)
	if !includeUnpublished {
		tx = tx.Where("is_published = ?", true)
	}
	if err := tx.First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

type CreatePostDTO struct {
	Slug        string   `json:"slug"    binding:"required"`
	Title       string   `json:"title"   binding:"required"`
	Summary     string   `json:"summary"`
	Text        string   `json:"text"`
	Tags        []string `json:"tags"`
	IsPublished *bool    `json:"is_published"`
	Pin         *bool    `json:"pin"`
}

func (s *Service) Create(dto *CreatePostDTO) (*models.PostModel, error) {
	var count int64
	s.db.Model(&models.PostModel{}).Where("slug = ?", dto.Slug).Count(&count)
	if count > 0 {
		return nil, ErrSlugTaken
	}

	post := models.PostModel{
		Slug:    dto.Slug,
		Title:   dto.Title,
		Summary: dto.Summary,
		Text:    dto.Text,
		Tags:    dto.Tags,
	}
	if dto.IsPublished != nil {
		post.IsPublished = *dto.IsPublished
	}
	if dto.Pin != nil {
		post.Pin = *dto.Pin
	}
	if err := s.db.Create(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *Service) Delete(id string) error {
	return s.db.Delete(&models.PostModel{}, "id = ?", id).Error
}

// IncrementReadCount atomically increments the read counter.
func (s *Service) IncrementReadCount(id string) error {
	return s.db.Model(&models.PostModel{}).Where("id = ?", id).
		UpdateColumn("read_count", gorm.Expr("read_count + 1")).Error
}

type postResponse struct {
	models.PostModel
	HTML string `json:"html"`
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, ownerAuth gin.HandlerFunc) {
	g := rg.Group("/posts")
	g.GET("", h.list)
	g.GET("/:slug", h.get)

	o := g.Group("", ownerAuth)
	o.POST("", h.create)
	o.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	posts, pag, err := h.svc.List(pagination.FromContext(c), false)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, posts, pag)
}

func (h *Handler) get(c *gin.Context) {
	post, err := h.svc.GetBySlug(c.Param("slug"), false)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if post == nil {
		response.NotFound(c)
		return
	}
	go h.svc.IncrementReadCount(post.ID) // nolint:errcheck
	response.OK(c, postResponse{PostModel: *post, HTML: renderMarkdown(post.Text)})
}

func (h *Handler) create(c *gin.Context) {
	var dto CreatePostDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "slug and title are required")
		return
	}
	post, err := h.svc.Create(&dto)
	if err != nil {
		if errors.Is(err, ErrSlugTaken) {
			response.UnprocessableEntity(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, post)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
