package visitor

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/eldrex/core/internal/models"
	"github.com/eldrex/core/internal/modules/feedback/comment"
	"github.com/eldrex/core/internal/modules/stats/analytics"
	"github.com/eldrex/core/internal/pkg/jwt"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const tokenTTL = 30 * 24 * time.Hour

var (
	ErrNotFound = errors.New("visitor not found")
	ErrBadName  = errors.New("display name must be between 1 and 50 characters")
)

type Service struct {
	db     *gorm.DB
	stats  *analytics.Service
	logger *zap.Logger
}

func NewService(db *gorm.DB, stats *analytics.Service, logger *zap.Logger) *Service {
	return &Service{db: db, stats: stats, logger: logger}
}

// SignIn resolves an anonymous session. With an empty userID it mints a
// fresh visitor with a generated pseudonym; with a known userID it
// touches the existing profile and bumps the session counter. A stale
// userID that no longer resolves gets a fresh identity instead of an
// error, so a wiped server never strands returning clients.
func (s *Service) SignIn(ctx context.Context, userID string) (*models.VisitorModel, string, error) {
	var v *models.VisitorModel
	var err error

	if userID != "" {
		v, err = s.touch(ctx, userID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, "", err
		}
	}
	if v == nil {
		v, err = s.create(ctx)
		if err != nil {
			return nil, "", err
		}
	}

	token, err := jwt.Sign(v.ID, jwt.RoleVisitor, tokenTTL)
	if err != nil {
		return nil, "", err
	}

	if s.stats != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			s.stats.Track(ctx, analytics.EventVisitorSignIn)
		}()
	}
	return v, token, nil
}

func (s *Service) create(ctx context.Context) (*models.VisitorModel, error) {
	name := GenerateDisplayName()
	now := time.Now()
	v := models.VisitorModel{
		DisplayName:  name,
		AvatarLetter: AvatarLetter(name),
		LastActive:   &now,
		SessionCount: 1,
	}
	if err := s.db.WithContext(ctx).Create(&v).Error; err != nil {
		s.logger.Error("visitor create failed", zap.Error(err))
		return nil, err
	}
	return &v, nil
}

func (s *Service) touch(ctx context.Context, userID string) (*models.VisitorModel, error) {
	var v models.VisitorModel
	if err := s.db.WithContext(ctx).First(&v, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	now := time.Now()
	err := s.db.WithContext(ctx).Model(&v).Updates(map[string]interface{}{
		"last_active":   now,
		"session_count": gorm.Expr("session_count + 1"),
	}).Error
	if err != nil {
		return nil, err
	}
	v.LastActive = &now
	v.SessionCount++
	return &v, nil
}

// Get returns a visitor profile by id.
func (s *Service) Get(ctx context.Context, userID string) (*models.VisitorModel, error) {
	var v models.VisitorModel
	if err := s.db.WithContext(ctx).First(&v, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

// Rename updates the display name. Comments keep the name they were
// posted under.
func (s *Service) Rename(ctx context.Context, userID, name string) (*models.VisitorModel, error) {
	name = strings.TrimSpace(name)
	if name == "" || len([]rune(name)) > 50 {
		return nil, ErrBadName
	}

	v, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Model(v).Updates(map[string]interface{}{
		"display_name":  name,
		"avatar_letter": AvatarLetter(name),
	}).Error
	if err != nil {
		return nil, err
	}
	v.DisplayName = name
	v.AvatarLetter = AvatarLetter(name)
	return v, nil
}

// Author satisfies the comment module's profile lookup.
func (s *Service) Author(ctx context.Context, userID string) (comment.Author, error) {
	v, err := s.Get(ctx, userID)
	if err != nil {
		return comment.Author{}, err
	}
	return comment.Author{
		ID:     v.ID,
		Name:   v.DisplayName,
		Avatar: v.AvatarLetter,
	}, nil
}
