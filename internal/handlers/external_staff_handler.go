package handlers

import (
	"context"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/staffhousing/backoffice-api/internal/models"
	"github.com/staffhousing/backoffice-api/internal/services"
)

// StaffLister reads the persisted directory
type StaffLister interface {
	List(ctx context.Context, filter models.ExternalStaffFilter) ([]models.ExternalStaff, int, error)
	GetByID(ctx context.Context, id string) (*models.ExternalStaff, error)
	Stats(ctx context.Context) (*models.ExternalStaffStats, error)
}

// ExternalStaffHandler serves the payroll staff directory
type ExternalStaffHandler struct {
	staff       StaffLister
	directory   *services.StaffDirectoryService
	importer    *services.StaffImportService
	audit       *services.AuditService
	logger      *logrus.Logger
	maxUploadMB int
}

// NewExternalStaffHandler creates a new external staff handler
func NewExternalStaffHandler(
	staff StaffLister,
	directory *services.StaffDirectoryService,
	importer *services.StaffImportService,
	audit *services.AuditService,
	logger *logrus.Logger,
	maxUploadMB int,
) *ExternalStaffHandler {
	if maxUploadMB <= 0 {
		maxUploadMB = 20
	}
	return &ExternalStaffHandler{
		staff:       staff,
		directory:   directory,
		importer:    importer,
		audit:       audit,
		logger:      logger,
		maxUploadMB: maxUploadMB,
	}
}

// List handles GET /api/v1/external-staff
func (h *ExternalStaffHandler) List(c *gin.Context) {
	var filter models.ExternalStaffFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		badRequest(c, err)
		return
	}
	filter.Normalize()

	staff, total, err := h.staff.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, err, "Failed to load staff")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"staff":     staff,
		"total":     total,
		"page":      filter.Page,
		"page_size": filter.PageSize,
	})
}

// Stats handles GET /api/v1/external-staff/stats
func (h *ExternalStaffHandler) Stats(c *gin.Context) {
	stats, err := h.staff.Stats(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to load staff statistics")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Get handles GET /api/v1/external-staff/:id
func (h *ExternalStaffHandler) Get(c *gin.Context) {
	staff, err := h.staff.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to load staff member")
		return
	}
	c.JSON(http.StatusOK, staff)
}

// Search handles GET /api/v1/external-staff/search?q=
// Searches the in-memory snapshot; a blank query returns no results.
func (h *ExternalStaffHandler) Search(c *gin.Context) {
	c.JSON(http.StatusOK, h.directory.Search(c.Query("q")))
}

// Import handles POST /api/v1/external-staff/import (multipart field "file")
func (h *ExternalStaffHandler) Import(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, int64(h.maxUploadMB)<<20)

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Please upload an .xlsx file.",
			Field:   "file",
		})
		return
	}
	if !strings.EqualFold(filepath.Ext(header.Filename), ".xlsx") {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Only .xlsx files are supported.",
			Field:   "file",
		})
		return
	}

	file, err := header.Open()
	if err != nil {
		respondError(c, h.logger, err, "Failed to read upload")
		return
	}
	defer file.Close()

	result, err := h.importer.Import(c.Request.Context(), file)
	if err != nil {
		respondError(c, h.logger, err, "Failed to import staff")
		return
	}

	recordActivity(c, h.audit, services.AuditStaffImport, "external_staff", "", map[string]interface{}{
		"file":     header.Filename,
		"upserted": result.Upserted,
		"skipped":  result.Skipped,
	})

	c.JSON(http.StatusOK, result)
}
