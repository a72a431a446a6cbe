package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/staffhousing/backoffice-api/internal/middleware"
	"github.com/staffhousing/backoffice-api/internal/models"
	"github.com/staffhousing/backoffice-api/internal/services"
	"github.com/staffhousing/backoffice-api/internal/utils"
)

// AdminAuthHandler handles admin authentication HTTP requests
type AdminAuthHandler struct {
	adminAuthService *services.AdminAuthService
	audit            *services.AuditService
	logger           *logrus.Logger
}

// NewAdminAuthHandler creates a new admin auth handler
func NewAdminAuthHandler(adminAuthService *services.AdminAuthService, audit *services.AuditService, logger *logrus.Logger) *AdminAuthHandler {
	return &AdminAuthHandler{
		adminAuthService: adminAuthService,
		audit:            audit,
		logger:           logger,
	}
}

// Login handles admin login requests
// @Summary Admin login
// @Description Authenticate a back-office user and return access and refresh tokens
// @Tags Auth
// @Accept json
// @Produce json
// @Param loginRequest body models.AdminLoginRequest true "Login credentials"
// @Success 200 {object} models.AdminLoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AdminAuthHandler) Login(c *gin.Context) {
	var req models.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ip := utils.GetRealIP(c)
	userAgent := utils.GetUserAgent(c)

	response, err := h.adminAuthService.Login(c.Request.Context(), req.Email, req.Password, ip, userAgent)
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"email": req.Email,
			"error": err.Error(),
		}).Warn("Admin login failed")
		if h.audit != nil {
			h.audit.LogLogin(c.Request.Context(), nil, req.Email, ip, userAgent, false, err.Error())
		}
		respondError(c, h.logger, err, "Login failed")
		return
	}

	h.logger.WithFields(logrus.Fields{
		"admin_id": response.AdminUser.ID,
		"email":    response.AdminUser.Email,
	}).Info("Admin login successful")
	if h.audit != nil {
		adminID := response.AdminUser.ID
		h.audit.LogLogin(c.Request.Context(), &adminID, response.AdminUser.Email, ip, userAgent, true, "")
	}

	c.JSON(http.StatusOK, response)
}

// RefreshToken handles token refresh requests
// @Summary Refresh access token
// @Tags Auth
// @Accept json
// @Produce json
// @Param refreshRequest body models.AdminRefreshRequest true "Refresh token"
// @Success 200 {object} models.AdminLoginResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/refresh [post]
func (h *AdminAuthHandler) RefreshToken(c *gin.Context) {
	var req models.AdminRefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	response, err := h.adminAuthService.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.logger.WithError(err).Warn("Token refresh failed")
		respondError(c, h.logger, err, "Token refresh failed")
		return
	}

	c.JSON(http.StatusOK, response)
}

// Logout revokes a refresh token. Unknown tokens still log out cleanly.
// @Router /auth/logout [post]
func (h *AdminAuthHandler) Logout(c *gin.Context) {
	var req models.AdminLogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.adminAuthService.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		respondError(c, h.logger, err, "Logout failed")
		return
	}

	recordActivity(c, h.audit, services.AuditLogout, "admin_user", "", nil)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// GetProfile returns the authenticated user
// @Security BearerAuth
// @Router /auth/profile [get]
func (h *AdminAuthHandler) GetProfile(c *gin.Context) {
	userCtx, ok := middleware.GetUserContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "Unauthorized"})
		return
	}

	admin, err := h.adminAuthService.GetAdminProfile(c.Request.Context(), userCtx.UserID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to load profile")
		return
	}

	c.JSON(http.StatusOK, admin)
}
