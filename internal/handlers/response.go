package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/staffhousing/backoffice-api/internal/middleware"
	"github.com/staffhousing/backoffice-api/internal/models"
	"github.com/staffhousing/backoffice-api/internal/services"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// respondError maps a service error to a status code. Anything unrecognised
// is logged and reported as a 500 with fallback as the message.
func respondError(c *gin.Context, logger *logrus.Logger, err error, fallback string) {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: ve.Message, Field: ve.Field})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "not_found", Message: "The requested record was not found."})
	case errors.Is(err, models.ErrConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "conflict", Message: "A record with the same name already exists."})
	case errors.Is(err, models.ErrInsufficientStock):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "insufficient_stock", Message: "Not enough stock available."})
	case errors.Is(err, models.ErrInvalidStatusTransition):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "invalid_status", Message: err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrInvalidRefreshToken):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: err.Error()})
	case errors.Is(err, services.ErrAccountInactive):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "account_inactive", Message: err.Error()})
	default:
		logger.WithFields(logrus.Fields{
			"path":  c.FullPath(),
			"error": err.Error(),
		}).Error(fallback)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal_error", Message: fallback})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "Invalid request body: " + err.Error()})
}

// uuidParam parses a path parameter, replying 400 when it is not a UUID
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "Invalid " + name + ".", Field: name})
		return uuid.Nil, false
	}
	return id, true
}

// currentUserID is the authenticated user's id, nil on public routes
func currentUserID(c *gin.Context) *uuid.UUID {
	userCtx, ok := middleware.GetUserContext(c)
	if !ok {
		return nil
	}
	id := userCtx.UserID
	return &id
}
