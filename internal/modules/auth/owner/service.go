package owner

import (
	"context"
	"errors"
	"time"

	"github.com/eldrex/core/internal/models"
	"github.com/eldrex/core/internal/pkg/jwt"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const tokenTTL = 14 * 24 * time.Hour

var (
	ErrBadCredentials = errors.New("invalid username or password")
	ErrNotInitialized = errors.New("owner account not initialized")
	ErrAlreadyExists  = errors.New("owner account already exists")
)

type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// Register creates the single owner account. It fails once one exists.
func (s *Service) Register(ctx context.Context, username, password, name string) (*models.OwnerModel, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.OwnerModel{}).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	o := models.OwnerModel{
		Username: username,
		Name:     name,
		Password: string(hash),
	}
	if err := s.db.WithContext(ctx).Create(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// Login verifies credentials and issues an owner token.
func (s *Service) Login(ctx context.Context, username, password, ip string) (*models.OwnerModel, string, error) {
	var o models.OwnerModel
	if err := s.db.WithContext(ctx).First(&o, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrBadCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(o.Password), []byte(password)); err != nil {
		s.logger.Warn("owner login rejected", zap.String("username", username), zap.String("ip", ip))
		return nil, "", ErrBadCredentials
	}

	token, err := jwt.Sign(o.ID, jwt.RoleOwner, tokenTTL)
	if err != nil {
		return nil, "", err
	}

	now := time.Now()
	if err := s.db.WithContext(ctx).Model(&o).Updates(map[string]interface{}{
		"last_login_time": now,
		"last_login_ip":   ip,
	}).Error; err != nil {
		s.logger.Warn("owner login bookkeeping failed", zap.Error(err))
	}
	o.LastLoginTime = &now

	return &o, token, nil
}

// Get returns the owner account, or ErrNotInitialized when none exists.
func (s *Service) Get(ctx context.Context) (*models.OwnerModel, error) {
	var o models.OwnerModel
	if err := s.db.WithContext(ctx).First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotInitialized
		}
		return nil, err
	}
	return &o, nil
}

// ValidateToken reports whether raw is a live owner token. Used by the
// gateway for the owner namespace handshake.
func (s *Service) ValidateToken(raw string) bool {
	claims, err := jwt.Parse(raw)
	return err == nil && claims.Role == jwt.RoleOwner
}
