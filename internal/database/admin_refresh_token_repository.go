package database

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/staffhousing/backoffice-api/internal/models"
)

// AdminRefreshTokenRepository handles admin refresh token database operations
type AdminRefreshTokenRepository struct {
	db DB
}

// NewAdminRefreshTokenRepository creates a new admin refresh token repository
func NewAdminRefreshTokenRepository(db DB) *AdminRefreshTokenRepository {
	return &AdminRefreshTokenRepository{db: db}
}

// hashToken creates a SHA-256 hash of the token for storage
func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// Store saves the hash of a newly issued refresh token
func (r *AdminRefreshTokenRepository) Store(ctx context.Context, adminUserID uuid.UUID, token, ipAddress, userAgent string, expiresAt time.Time) error {
	query := `
		INSERT INTO admin_refresh_tokens (id, admin_user_id, token_hash, ip_address, user_agent, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), $6)`

	_, err := r.db.ExecContext(ctx, query,
		uuid.New(), adminUserID, hashToken(token), nullIfEmpty(ipAddress), nullIfEmpty(userAgent), expiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to store admin refresh token: %w", err)
	}
	return nil
}

// Get retrieves a stored token by its plaintext value
func (r *AdminRefreshTokenRepository) Get(ctx context.Context, token string) (*models.AdminRefreshToken, error) {
	query := `
		SELECT id, admin_user_id, token_hash, ip_address, user_agent, created_at, expires_at,
		       last_used_at, revoked, revoked_at
		FROM admin_refresh_tokens
		WHERE token_hash = $1`

	var stored models.AdminRefreshToken
	if err := r.db.GetContext(ctx, &stored, query, hashToken(token)); err != nil {
		return nil, notFound(err, "get admin refresh token")
	}
	return &stored, nil
}

// Revoke revokes a specific token
func (r *AdminRefreshTokenRepository) Revoke(ctx context.Context, token string) error {
	query := `
		UPDATE admin_refresh_tokens
		SET revoked = TRUE, revoked_at = NOW()
		WHERE token_hash = $1 AND revoked = FALSE`

	result, err := r.db.ExecContext(ctx, query, hashToken(token))
	if err != nil {
		return fmt.Errorf("failed to revoke admin token: %w", err)
	}
	return requireAffected(result, "revoke admin token")
}

// UpdateLastUsed updates the last_used_at timestamp for a token
func (r *AdminRefreshTokenRepository) UpdateLastUsed(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE admin_refresh_tokens SET last_used_at = NOW() WHERE token_hash = $1`, hashToken(token))
	if err != nil {
		return fmt.Errorf("failed to update admin token last used timestamp: %w", err)
	}
	return nil
}

// CleanupExpired removes expired tokens and revoked tokens older than a week
func (r *AdminRefreshTokenRepository) CleanupExpired(ctx context.Context) (int64, error) {
	query := `
		DELETE FROM admin_refresh_tokens
		WHERE expires_at < NOW() OR (revoked = TRUE AND revoked_at < NOW() - INTERVAL '7 days')`

	result, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup admin tokens: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected, nil
}
