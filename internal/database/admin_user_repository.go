package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/staffhousing/backoffice-api/internal/models"
)

const adminUserColumns = `
	id, email, password_hash, full_name, COALESCE(role, '') AS role, is_active,
	last_login_at, created_at, updated_at`

// AdminUserRepository handles admin user database operations
type AdminUserRepository struct {
	db DB
}

// NewAdminUserRepository creates a new admin user repository
func NewAdminUserRepository(db DB) *AdminUserRepository {
	return &AdminUserRepository{db: db}
}

// GetByEmail retrieves an admin user by email, case-insensitively
func (r *AdminUserRepository) GetByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	var admin models.AdminUser
	query := `SELECT ` + adminUserColumns + ` FROM admin_users WHERE LOWER(email) = LOWER($1)`
	if err := r.db.GetContext(ctx, &admin, query, email); err != nil {
		return nil, notFound(err, "get admin user")
	}
	return &admin, nil
}

// GetByID retrieves an admin user by ID
func (r *AdminUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AdminUser, error) {
	var admin models.AdminUser
	query := `SELECT ` + adminUserColumns + ` FROM admin_users WHERE id = $1`
	if err := r.db.GetContext(ctx, &admin, query, id); err != nil {
		return nil, notFound(err, "get admin user")
	}
	return &admin, nil
}

// UpdateLastLogin updates the last login timestamp
func (r *AdminUserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE admin_users SET last_login_at = NOW(), updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}
