package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/staffhousing/backoffice-api/internal/models"
)

// SupplierRepository handles inventory suppliers
type SupplierRepository struct {
	db DB
}

// NewSupplierRepository creates a new supplier repository
func NewSupplierRepository(db DB) *SupplierRepository {
	return &SupplierRepository{db: db}
}

// List returns every supplier ordered by name
func (r *SupplierRepository) List(ctx context.Context) ([]models.Supplier, error) {
	query := `
		SELECT id, name, contact_person, email, phone, address, categories, created_at, updated_at
		FROM suppliers
		ORDER BY name`

	suppliers := []models.Supplier{}
	if err := r.db.SelectContext(ctx, &suppliers, query); err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}
	return suppliers, nil
}

// Create inserts a supplier. A duplicate name returns models.ErrConflict.
func (r *SupplierRepository) Create(ctx context.Context, s *models.Supplier) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}

	query := `
		INSERT INTO suppliers (id, name, contact_person, email, phone, address, categories, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		s.ID, s.Name, s.ContactPerson, s.Email, s.Phone, s.Address, s.Categories,
	).Scan(&s.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrConflict
		}
		return fmt.Errorf("failed to create supplier: %w", err)
	}
	return nil
}

// Update overwrites a supplier
func (r *SupplierRepository) Update(ctx context.Context, s *models.Supplier) error {
	query := `
		UPDATE suppliers
		SET name = $2, contact_person = $3, email = $4, phone = $5, address = $6,
		    categories = $7, updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		s.ID, s.Name, s.ContactPerson, s.Email, s.Phone, s.Address, s.Categories,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrConflict
		}
		return fmt.Errorf("failed to update supplier: %w", err)
	}
	return requireAffected(result, "update supplier")
}
