package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
)

// AdminUser represents a back-office user
type AdminUser struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"` // Never expose password hash in JSON
	FullName     string     `json:"full_name" db:"full_name"`
	Role         string     `json:"role" db:"role"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty" db:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// Roles returns the JWT roles granted to this user
func (a AdminUser) Roles() []string {
	if a.Role == "" {
		return []string{"viewer"}
	}
	return []string{a.Role}
}

// AdminLoginRequest represents the login request payload
type AdminLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// AdminLoginResponse represents the login response
type AdminLoginResponse struct {
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
	ExpiresIn    int64      `json:"expires_in"`
	AdminUser    *AdminUser `json:"admin_user"`
}

// AdminRefreshRequest represents the token refresh request
type AdminRefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// AuditLogEntry is one row of the activity log
type AuditLogEntry struct {
	ID         int64          `json:"id" db:"id"`
	UserID     *uuid.UUID     `json:"user_id,omitempty" db:"user_id"`
	Action     string         `json:"action" db:"action"`
	EntityType string         `json:"entity_type" db:"entity_type"`
	EntityID   *string        `json:"entity_id,omitempty" db:"entity_id"`
	IPAddress  string         `json:"ip_address" db:"ip_address"`
	UserAgent  string         `json:"user_agent" db:"user_agent"`
	Details    types.JSONText `json:"details" db:"details"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
}

// AdminRefreshToken is a stored refresh token. Only the SHA-256 hash of the
// token is persisted.
type AdminRefreshToken struct {
	ID          uuid.UUID  `db:"id"`
	AdminUserID uuid.UUID  `db:"admin_user_id"`
	TokenHash   string     `db:"token_hash"`
	IPAddress   *string    `db:"ip_address"`
	UserAgent   *string    `db:"user_agent"`
	CreatedAt   time.Time  `db:"created_at"`
	ExpiresAt   time.Time  `db:"expires_at"`
	LastUsedAt  *time.Time `db:"last_used_at"`
	Revoked     bool       `db:"revoked"`
	RevokedAt   *time.Time `db:"revoked_at"`
}

// AdminLogoutRequest revokes a refresh token
type AdminLogoutRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}
