// internal/services/auth_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/javajoker/imob-backoffice/internal/config"
	"github.com/javajoker/imob-backoffice/internal/models"
	"github.com/javajoker/imob-backoffice/internal/utils"
)

type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

type LoginRequest struct {
	Email string `json:"email"`
}

// SessionUser is the identity returned to the browser after login and
// verification.
type SessionUser struct {
	ID          uuid.UUID            `json:"id"`
	Name        string               `json:"name"`
	Email       string               `json:"email"`
	Role        models.Role          `json:"role"`
	BranchID    *uuid.UUID           `json:"branchId"`
	Branch      *models.BranchRef    `json:"branch,omitempty"`
	Permissions models.PermissionMap `json:"permissions"`
}

type LoginResult struct {
	User      SessionUser `json:"user"`
	Token     string      `json:"token"`
	ExpiresIn int         `json:"expiresIn"` // in seconds
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{
		db:  db,
		cfg: cfg,
	}
}

func NewSessionUser(user *models.User) SessionUser {
	perms := user.Permissions
	if user.Role.IsAdmin() {
		perms = models.FullAccess()
	}
	if perms == nil {
		perms = models.PermissionMap{}
	}
	return SessionUser{
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		Role:        user.Role,
		BranchID:    user.BranchID,
		Branch:      user.Branch.Ref(),
		Permissions: perms,
	}
}

// Login issues a session for an active user identified by email alone. Unknown
// and inactive accounts both yield ErrNotFound.
func (s *AuthService) Login(ctx context.Context, email string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, invalidField("email", "required", "email is required")
	}

	var user models.User
	err := s.db.WithContext(ctx).Preload("Branch").
		Where("LOWER(email) = ? AND active = ?", email, true).
		First(&user).Error
	if err != nil {
		return nil, lookupError("user", err)
	}

	now := time.Now().UTC()
	if err := s.db.WithContext(ctx).Model(&user).Omit(clause.Associations).UpdateColumn("last_login_at", now).Error; err != nil {
		return nil, fmt.Errorf("failed to update last login: %w", err)
	}
	user.LastLoginAt = &now

	ttl := s.cfg.SessionTTL()
	token, err := utils.GenerateSessionToken(user.ID, user.Email, string(user.Role), ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &LoginResult{
		User:      NewSessionUser(&user),
		Token:     token,
		ExpiresIn: int(ttl.Seconds()),
	}, nil
}

// GetActiveUser reloads a user for an authenticated request. Missing and
// inactive users are both ErrUnauthenticated.
func (s *AuthService) GetActiveUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Preload("Branch").
		Where("id = ? AND active = ?", id, true).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}
