package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/orgconsole/admin-api/internal/model"
	"github.com/orgconsole/admin-api/internal/repository"
	"github.com/orgconsole/admin-api/internal/service/audit"
	"github.com/orgconsole/admin-api/pkg/auth"
	apperrors "github.com/orgconsole/admin-api/pkg/errors"
)

const (
	maxLoginAttempts = 5
	lockoutDuration  = 15 * time.Minute
)

type AuthServicer interface {
	Login(ctx context.Context, orgID, email, password string) (*model.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*model.TokenResponse, error)
	ValidateToken(ctx context.Context, token string) (*model.TokenClaims, error)
}

type Service struct {
	userRepo repository.UserRepository
	jwtSvc   auth.JWTService
	auditor  *audit.AuditLogger
}

func NewService(userRepo repository.UserRepository, jwtSvc auth.JWTService, auditor *audit.AuditLogger) *Service {
	return &Service{
		userRepo: userRepo,
		jwtSvc:   jwtSvc,
		auditor:  auditor,
	}
}

func (s *Service) Login(ctx context.Context, orgID, email, password string) (*model.TokenResponse, error) {
	org, err := uuid.Parse(orgID)
	if err != nil {
		return nil, apperrors.BadRequest("invalid organization id", err)
	}

	user, err := s.userRepo.GetByEmail(ctx, org, email)
	if err != nil {
		return nil, apperrors.Unauthorized(fmt.Errorf("invalid credentials"))
	}

	if user.Status == model.UserStatusLocked {
		if time.Since(user.LastLoginAttempt) < lockoutDuration {
			return nil, apperrors.Forbidden("account is locked, please try again later")
		}
		user.Status = model.UserStatusActive
		user.LoginAttempts = 0
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		user.LoginAttempts++
		user.LastLoginAttempt = time.Now()
		if user.LoginAttempts >= maxLoginAttempts {
			user.Status = model.UserStatusLocked
		}
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to update login attempts: %w", err)
		}
		return nil, apperrors.Unauthorized(fmt.Errorf("invalid credentials"))
	}

	user.LoginAttempts = 0
	now := time.Now()
	user.LastLoginAt = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update login timestamp: %w", err)
	}

	tokens, err := s.generateTokens(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	s.auditor.Log(ctx, user.ID, user.OrganizationID, model.AuditActionLogin, "auth", user.ID, &audit.LogOptions{
		Metadata: map[string]interface{}{"email": user.Email},
	})
	return tokens, nil
}

func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (*model.TokenResponse, error) {
	claims, err := s.jwtSvc.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.Unauthorized(err)
	}

	user, err := s.userRepo.Get(ctx, claims.UserID)
	if err != nil {
		return nil, apperrors.Unauthorized(fmt.Errorf("user not found"))
	}
	if user.Status != model.UserStatusActive {
		return nil, apperrors.Forbidden("account is not active")
	}

	tokens, err := s.generateTokens(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	s.auditor.Log(ctx, user.ID, user.OrganizationID, "refresh_token", "auth", user.ID, nil)
	return tokens, nil
}

func (s *Service) ValidateToken(ctx context.Context, token string) (*model.TokenClaims, error) {
	claims, err := s.jwtSvc.ValidateToken(token)
	if err != nil {
		return nil, apperrors.Unauthorized(err)
	}
	return &model.TokenClaims{
		UserID:         claims.UserID,
		OrganizationID: claims.OrganizationID,
		Email:          claims.Email,
	}, nil
}

func (s *Service) generateTokens(user *model.User) (*model.TokenResponse, error) {
	accessToken, err := s.jwtSvc.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.jwtSvc.GenerateRefreshToken(user)
	if err != nil {
		return nil, err
	}
	return &model.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtSvc.AccessTokenTTL().Seconds()),
		TokenType:    "Bearer",
	}, nil
}
