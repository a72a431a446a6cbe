package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/staffhousing/backoffice-api/internal/models"
	"github.com/staffhousing/backoffice-api/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned for an unknown email or a wrong password
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrAccountInactive is returned when a deactivated user tries to sign in
	ErrAccountInactive = errors.New("account is inactive")

	// ErrInvalidRefreshToken covers malformed, unknown, revoked and expired refresh tokens
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

// AdminUserStore loads back-office users
type AdminUserStore interface {
	GetByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.AdminUser, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
}

// RefreshTokenStore persists issued refresh tokens
type RefreshTokenStore interface {
	Store(ctx context.Context, adminUserID uuid.UUID, token, ipAddress, userAgent string, expiresAt time.Time) error
	Get(ctx context.Context, token string) (*models.AdminRefreshToken, error)
	Revoke(ctx context.Context, token string) error
	UpdateLastUsed(ctx context.Context, token string) error
	CleanupExpired(ctx context.Context) (int64, error)
}

// AdminAuthService handles admin authentication business logic
type AdminAuthService struct {
	adminRepo        AdminUserStore
	refreshTokenRepo RefreshTokenStore
	jwtService       *jwt.Service
	logger           *logrus.Logger
}

// NewAdminAuthService creates a new admin auth service
func NewAdminAuthService(
	adminRepo AdminUserStore,
	refreshTokenRepo RefreshTokenStore,
	jwtService *jwt.Service,
	logger *logrus.Logger,
) *AdminAuthService {
	return &AdminAuthService{
		adminRepo:        adminRepo,
		refreshTokenRepo: refreshTokenRepo,
		jwtService:       jwtService,
		logger:           logger,
	}
}

// Login authenticates an admin user and returns tokens
func (s *AdminAuthService) Login(ctx context.Context, email, password, ipAddress, userAgent string) (*models.AdminLoginResponse, error) {
	admin, err := s.adminRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !admin.IsActive {
		return nil, ErrAccountInactive
	}

	accessToken, err := s.jwtService.GenerateAccessToken(admin.ID, admin.Email, admin.Roles())
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtService.GenerateRefreshToken(admin.ID, admin.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	expiresAt, err := s.jwtService.GetTokenExpiry(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to read refresh token expiry: %w", err)
	}
	if err := s.refreshTokenRepo.Store(ctx, admin.ID, refreshToken, ipAddress, userAgent, expiresAt); err != nil {
		return nil, err
	}

	if err := s.adminRepo.UpdateLastLogin(ctx, admin.ID); err != nil {
		s.logger.WithFields(logrus.Fields{
			"admin_id": admin.ID,
			"error":    err.Error(),
		}).Warn("Failed to update last login")
	}

	return &models.AdminLoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtService.AccessTokenExpiry().Seconds()),
		AdminUser:    admin,
	}, nil
}

// RefreshToken generates a new access token from a refresh token
func (s *AdminAuthService) RefreshToken(ctx context.Context, refreshToken string) (*models.AdminLoginResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	storedToken, err := s.refreshTokenRepo.Get(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}
	if storedToken.Revoked || time.Now().After(storedToken.ExpiresAt) {
		return nil, ErrInvalidRefreshToken
	}

	admin, err := s.adminRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}
	if !admin.IsActive {
		return nil, ErrAccountInactive
	}

	accessToken, err := s.jwtService.GenerateAccessToken(admin.ID, admin.Email, admin.Roles())
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	if err := s.refreshTokenRepo.UpdateLastUsed(ctx, refreshToken); err != nil {
		s.logger.WithError(err).Warn("Failed to update refresh token last used")
	}

	return &models.AdminLoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtService.AccessTokenExpiry().Seconds()),
		AdminUser:    admin,
	}, nil
}

// Logout revokes the refresh token. An unknown or already revoked token is
// not an error.
func (s *AdminAuthService) Logout(ctx context.Context, refreshToken string) error {
	if err := s.refreshTokenRepo.Revoke(ctx, refreshToken); err != nil && !errors.Is(err, models.ErrNotFound) {
		return err
	}
	return nil
}

// GetAdminProfile retrieves admin user profile
func (s *AdminAuthService) GetAdminProfile(ctx context.Context, adminID uuid.UUID) (*models.AdminUser, error) {
	return s.adminRepo.GetByID(ctx, adminID)
}

// CleanupTokens removes expired and long-revoked refresh tokens
func (s *AdminAuthService) CleanupTokens(ctx context.Context) (int64, error) {
	return s.refreshTokenRepo.CleanupExpired(ctx)
}
