package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/staffhousing/backoffice-api/internal/models"
)

// PropertyRepository handles properties and their rooms
type PropertyRepository struct {
	db DB
}

// NewPropertyRepository creates a new property repository
func NewPropertyRepository(db DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

// List returns every property ordered by title
func (r *PropertyRepository) List(ctx context.Context) ([]models.Property, error) {
	query := `
		SELECT id, title, description, address, city, state, zip_code, property_type,
		       status, COALESCE(rent_amount, 0) AS rent_amount, created_at, updated_at
		FROM properties
		ORDER BY title`

	properties := []models.Property{}
	if err := r.db.SelectContext(ctx, &properties, query); err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	return properties, nil
}

// GetByID returns one property
func (r *PropertyRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	query := `
		SELECT id, title, description, address, city, state, zip_code, property_type,
		       status, COALESCE(rent_amount, 0) AS rent_amount, created_at, updated_at
		FROM properties
		WHERE id = $1`

	var p models.Property
	if err := r.db.GetContext(ctx, &p, query, id); err != nil {
		return nil, notFound(err, "get property")
	}
	return &p, nil
}

// Create inserts a property
func (r *PropertyRepository) Create(ctx context.Context, p *models.Property) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = "active"
	}

	query := `
		INSERT INTO properties (id, title, description, address, city, state, zip_code,
		                        property_type, status, rent_amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		p.ID, p.Title, p.Description, p.Address, p.City, p.State, p.ZipCode,
		p.PropertyType, p.Status, p.RentAmount,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create property: %w", err)
	}
	return nil
}

// ListRooms returns the rooms of a property ordered by name
func (r *PropertyRepository) ListRooms(ctx context.Context, propertyID uuid.UUID) ([]models.Room, error) {
	query := `
		SELECT id, property_id, name, capacity, status, COALESCE(rent_amount, 0) AS rent_amount,
		       created_at, updated_at
		FROM rooms
		WHERE property_id = $1
		ORDER BY name`

	rooms := []models.Room{}
	if err := r.db.SelectContext(ctx, &rooms, query, propertyID); err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

// GetRoom returns one room
func (r *PropertyRepository) GetRoom(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	query := `
		SELECT id, property_id, name, capacity, status, COALESCE(rent_amount, 0) AS rent_amount,
		       created_at, updated_at
		FROM rooms
		WHERE id = $1`

	var room models.Room
	if err := r.db.GetContext(ctx, &room, query, id); err != nil {
		return nil, notFound(err, "get room")
	}
	return &room, nil
}

// CreateRoom inserts a room under a property
func (r *PropertyRepository) CreateRoom(ctx context.Context, room *models.Room) error {
	if room.ID == uuid.Nil {
		room.ID = uuid.New()
	}
	if room.Status == "" {
		room.Status = "available"
	}

	query := `
		INSERT INTO rooms (id, property_id, name, capacity, status, rent_amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		room.ID, room.PropertyID, room.Name, room.Capacity, room.Status, room.RentAmount,
	).Scan(&room.CreatedAt, &room.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}
	return nil
}
