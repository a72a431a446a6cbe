package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Property represents a staff housing property
type Property struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	Title        string          `json:"title" db:"title"`
	Description  *string         `json:"description,omitempty" db:"description"`
	Address      string          `json:"address" db:"address"`
	City         string          `json:"city" db:"city"`
	State        string          `json:"state" db:"state"`
	ZipCode      string          `json:"zip_code" db:"zip_code"`
	PropertyType string          `json:"property_type" db:"property_type"`
	Status       string          `json:"status" db:"status"`
	RentAmount   decimal.Decimal `json:"rent_amount" db:"rent_amount"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}

// Room is a rentable unit inside a property
type Room struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	PropertyID uuid.UUID       `json:"property_id" db:"property_id"`
	Name       string          `json:"name" db:"name"`
	Capacity   int             `json:"capacity" db:"capacity"`
	Status     string          `json:"status" db:"status"`
	RentAmount decimal.Decimal `json:"rent_amount" db:"rent_amount"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at" db:"updated_at"`
}

// CreatePropertyRequest is the payload for adding a property
type CreatePropertyRequest struct {
	Title        string          `json:"title" binding:"required"`
	Description  *string         `json:"description"`
	Address      string          `json:"address" binding:"required"`
	City         string          `json:"city" binding:"required"`
	State        string          `json:"state" binding:"required,len=2"`
	ZipCode      string          `json:"zip_code" binding:"required"`
	PropertyType string          `json:"property_type" binding:"required"`
	RentAmount   decimal.Decimal `json:"rent_amount"`
}

// CreateRoomRequest is the payload for adding a room to a property
type CreateRoomRequest struct {
	Name       string          `json:"name" binding:"required"`
	Capacity   int             `json:"capacity" binding:"gte=0"`
	RentAmount decimal.Decimal `json:"rent_amount"`
}
