package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/staffhousing/backoffice-api/internal/models"
)

// PropertyStore reads and writes properties and rooms
type PropertyStore interface {
	List(ctx context.Context) ([]models.Property, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error)
	Create(ctx context.Context, p *models.Property) error
	ListRooms(ctx context.Context, propertyID uuid.UUID) ([]models.Room, error)
	CreateRoom(ctx context.Context, room *models.Room) error
}

// PropertyHandler serves properties and their rooms
type PropertyHandler struct {
	properties PropertyStore
	logger     *logrus.Logger
}

// NewPropertyHandler creates a new property handler
func NewPropertyHandler(properties PropertyStore, logger *logrus.Logger) *PropertyHandler {
	return &PropertyHandler{properties: properties, logger: logger}
}

// List handles GET /api/v1/properties
func (h *PropertyHandler) List(c *gin.Context) {
	properties, err := h.properties.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to load properties")
		return
	}
	c.JSON(http.StatusOK, properties)
}

// Create handles POST /api/v1/properties
func (h *PropertyHandler) Create(c *gin.Context) {
	var req models.CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.RentAmount.IsNegative() {
		respondError(c, h.logger, models.ErrInvalidField("rent_amount", "Rent cannot be negative."), "")
		return
	}

	property := &models.Property{
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		Address:      strings.TrimSpace(req.Address),
		City:         strings.TrimSpace(req.City),
		State:        strings.ToUpper(req.State),
		ZipCode:      strings.TrimSpace(req.ZipCode),
		PropertyType: req.PropertyType,
		RentAmount:   req.RentAmount,
	}
	if err := h.properties.Create(c.Request.Context(), property); err != nil {
		respondError(c, h.logger, err, "Failed to create property")
		return
	}

	h.logger.WithField("property_id", property.ID).Info("Property created")
	c.JSON(http.StatusCreated, property)
}

// ListRooms handles GET /api/v1/properties/:id/rooms
func (h *PropertyHandler) ListRooms(c *gin.Context) {
	propertyID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	rooms, err := h.properties.ListRooms(c.Request.Context(), propertyID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to load rooms")
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// CreateRoom handles POST /api/v1/properties/:id/rooms
func (h *PropertyHandler) CreateRoom(c *gin.Context) {
	propertyID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req models.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.RentAmount.IsNegative() {
		respondError(c, h.logger, models.ErrInvalidField("rent_amount", "Rent cannot be negative."), "")
		return
	}

	if _, err := h.properties.GetByID(c.Request.Context(), propertyID); err != nil {
		respondError(c, h.logger, err, "Failed to load property")
		return
	}

	room := &models.Room{
		PropertyID: propertyID,
		Name:       strings.TrimSpace(req.Name),
		Capacity:   req.Capacity,
		RentAmount: req.RentAmount,
	}
	if err := h.properties.CreateRoom(c.Request.Context(), room); err != nil {
		respondError(c, h.logger, err, "Failed to create room")
		return
	}

	c.JSON(http.StatusCreated, room)
}
