package attachments

import (
	"net/http"

	apphttp "booking_portal_backend/internal/http"
	"booking_portal_backend/platform/httpkit"
	"booking_portal_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

const msgInvalidRequest = "invalid request"

// Module represents the attachments staging module.
type Module struct {
	storage Storage
	log     *logger.Logger
}

// NewModule creates the attachments module around a storage backend.
func NewModule(storage Storage, log *logger.Logger) *Module {
	return &Module{storage: storage, log: log}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "attachments"
}

// Storage returns the underlying store for external use.
func (m *Module) Storage() Storage {
	return m.storage
}

// RegisterRoutes registers the attachment staging routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	rg := ctx.Protected.Group("/attachments")
	rg.POST("/presign", m.PresignUpload)
	rg.GET("/download-url", m.PresignDownload)
	rg.DELETE("", m.Delete)
}

type presignRequest struct {
	Folder      string `json:"folder" binding:"required"`
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
	SizeBytes   int64  `json:"sizeBytes" binding:"required,gt=0"`
}

// PresignUpload hands the client a short-lived PUT URL for a new attachment.
func (m *Module) PresignUpload(c *gin.Context) {
	var req presignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	presigned, err := m.storage.PresignUpload(c.Request.Context(),
		req.Folder, req.FileName, req.ContentType, req.SizeBytes)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	httpkit.OK(c, presigned)
}

// PresignDownload hands the client a short-lived GET URL for ?key=.
func (m *Module) PresignDownload(c *gin.Context) {
	fileKey := c.Query("key")
	if fileKey == "" {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, "key is required")
		return
	}

	presigned, err := m.storage.PresignDownload(c.Request.Context(), fileKey)
	if err != nil {
		m.log.Error("presign download failed", "error", err, "file_key", fileKey)
		httpkit.Error(c, http.StatusBadGateway, "storage unavailable", nil)
		return
	}
	httpkit.OK(c, presigned)
}

// Delete removes a staged attachment by ?key=.
func (m *Module) Delete(c *gin.Context) {
	fileKey := c.Query("key")
	if fileKey == "" {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, "key is required")
		return
	}

	if err := m.storage.Delete(c.Request.Context(), fileKey); err != nil {
		m.log.Error("delete attachment failed", "error", err, "file_key", fileKey)
		httpkit.Error(c, http.StatusBadGateway, "storage unavailable", nil)
		return
	}
	c.Status(http.StatusNoContent)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
